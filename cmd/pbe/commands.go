package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"pbe/common"
	"pbe/document"
	"pbe/state"
	"pbe/store"
	"pbe/style"
	"pbe/utils/text"
)

func runNew(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	ref := cmd.Args().Get(0)
	if ref == "" {
		return fmt.Errorf("page reference is required")
	}
	name := cmd.Args().Get(1)
	if name == "" {
		name = ref
	}

	if err := env.Session.NewPage(ctx, ref, name); err != nil {
		return err
	}
	m, err := env.Session.Model()
	if err != nil {
		return err
	}
	// starter skeleton every new page gets
	for _, kind := range []common.SectionKind{common.SectionHero, common.SectionNavbar, common.SectionFooter} {
		m.CreateSection(kind)
	}
	if err := env.Session.Save(ctx); err != nil {
		return err
	}
	env.Log.Info("Created page", zap.String("ref", ref), zap.String("name", name))
	return nil
}

func runList(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	pages, err := env.Store.ListPages(ctx)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		fmt.Println("no pages stored")
		return nil
	}
	for _, p := range pages {
		line := fmt.Sprintf("%s\t%s", p.Ref, p.Name)
		if p.Description != "" {
			line += "\t" + p.Description
		}
		fmt.Println(line)
	}
	return nil
}

func runDelete(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	ref := cmd.Args().Get(0)
	if ref == "" {
		return fmt.Errorf("page reference is required")
	}
	if err := env.Store.DeletePage(ctx, ref); err != nil {
		return err
	}
	env.Log.Info("Deleted page", zap.String("ref", ref))
	return nil
}

func runRename(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	ref, name := cmd.Args().Get(0), cmd.Args().Get(1)
	if ref == "" || name == "" {
		return fmt.Errorf("expected REF NAME")
	}
	if err := env.Session.Load(ctx, ref); err != nil {
		return err
	}
	if err := env.Session.Rename(name); err != nil {
		return err
	}
	return env.Session.Save(ctx)
}

func runSet(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() < 3 {
		return fmt.Errorf("expected REF SECTION_ID KEY=VALUE...")
	}
	ref := cmd.Args().Get(0)
	sectionID := cmd.Args().Get(1)

	patch := map[string]any{}
	for _, arg := range cmd.Args().Slice()[2:] {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return fmt.Errorf("malformed assignment %q, expected KEY=VALUE", arg)
		}
		patch[key] = value
	}

	if err := env.Session.Load(ctx, ref); err != nil {
		return err
	}
	m, err := env.Session.Model()
	if err != nil {
		return err
	}

	elementID := cmd.String("element")
	switch {
	case elementID != "" && cmd.Bool("styles"):
		m.UpdateElement(sectionID, elementID, document.ElementPatch{Style: patch})
	case elementID != "":
		m.UpdateElement(sectionID, elementID, document.ElementPatch{Content: patch})
	case cmd.Bool("styles"):
		m.UpdateSectionStyles(sectionID, patch)
	default:
		m.UpdateSectionContent(sectionID, patch)
	}
	return env.Session.Save(ctx)
}

func runApplyTheme(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	ref := cmd.Args().Get(0)
	if ref == "" {
		return fmt.Errorf("page reference is required")
	}
	preset := cmd.Args().Get(1)
	if preset == "" && !cmd.Bool("detach") {
		return fmt.Errorf("either a preset name or --detach is required")
	}

	if err := env.Session.Load(ctx, ref); err != nil {
		return err
	}
	if cmd.Bool("detach") {
		if err := env.Session.DetachTheme(); err != nil {
			return err
		}
	} else if err := env.Session.ApplyTheme(preset); err != nil {
		return err
	}
	return env.Session.Save(ctx)
}

func runResolve(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	ref := cmd.Args().Get(0)
	if ref == "" {
		return fmt.Errorf("page reference is required")
	}
	if err := env.Session.Load(ctx, ref); err != nil {
		return err
	}
	if env.Rpt != nil {
		m, err := env.Session.Model()
		if err != nil {
			return err
		}
		if data, err := m.Document().Encode(); err == nil {
			env.Rpt.StoreData(fmt.Sprintf("documents/%s.json", ref), data)
		}
	}

	sectionID := cmd.Args().Get(1)
	if sectionID == "" {
		out, err := env.Session.DumpXML()
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	elementID := cmd.Args().Get(2)
	var (
		resolved style.Resolved
		ok       bool
	)
	if elementID == "" {
		resolved, ok = env.Session.ResolveSection(sectionID, nil)
	} else {
		resolved, ok = env.Session.ResolveElement(sectionID, elementID, nil)
	}
	if !ok {
		return fmt.Errorf("no such target %s/%s on page %s", sectionID, elementID, ref)
	}
	props := make([]string, 0, len(resolved.Inline))
	for prop := range resolved.Inline {
		props = append(props, prop)
	}
	sort.Strings(props)
	for _, prop := range props {
		fmt.Printf("%s: %s\n", prop, resolved.Inline[prop])
	}
	if classes := resolved.ClassAttr(); classes != "" {
		fmt.Printf("class: %s\n", classes)
	}
	return nil
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	dest := cmd.Args().Get(0)
	if dest == "" {
		name, err := store.BundleName(env.Cfg.Export.NameTemplate, env.Cfg.Editor.ProjectRef)
		if err != nil {
			return err
		}
		dest = name
	}
	if env.Cfg.Export.FileNameTransliterate {
		dir, base := filepath.Split(dest)
		dest = filepath.Join(dir, text.Transliterate(base))
	}
	if !cmd.Bool("overwrite") {
		if _, err := os.Stat(dest); err == nil {
			return fmt.Errorf("destination %s exists, use --overwrite", dest)
		}
	}
	return env.Store.ExportBundle(ctx, dest, env.Cfg.Editor.ProjectRef, env.Cfg.Export.FixZip)
}

func runImport(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	bundle := cmd.Args().Get(0)
	if bundle == "" {
		return fmt.Errorf("bundle path is required")
	}
	return env.Store.ImportBundle(ctx, bundle, env.Cfg.Editor.ProjectRef)
}
