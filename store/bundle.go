package store

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"
	"time"

	sprig "github.com/go-task/slim-sprig/v3"
	fixzip "github.com/hidez8891/zip"
	"go.uber.org/zap"

	"pbe/archive"
	"pbe/document"
	"pbe/theme"
	"pbe/utils/text"
)

// Project bundles are plain zip archives: a manifest, the theme settings
// record and one JSON document per page. They move a whole project between
// databases.

const (
	bundleVersion  = 1
	manifestEntry  = "manifest.json"
	themeEntry     = "theme.json"
	pageEntryDir   = "pages/"
	defaultNameTpl = "{{.Project}}-{{.Date}}.zip"
)

type bundleManifest struct {
	Version    int          `json:"version"`
	Project    string       `json:"project"`
	ExportedAt string       `json:"exportedAt"`
	Pages      []bundlePage `json:"pages"`
}

type bundlePage struct {
	Ref  string `json:"ref"`
	Name string `json:"name"`
	File string `json:"file"`
}

// BundleName renders the export file name from a template. Available
// values: Project (slugged project reference), Date (YYYY-MM-DD), Time
// (HHMMSS). An empty template falls back to "{{.Project}}-{{.Date}}.zip".
func BundleName(tpl, projectRef string) (string, error) {
	if tpl == "" {
		tpl = defaultNameTpl
	}
	t, err := template.New("bundle-name").Funcs(sprig.FuncMap()).Parse(tpl)
	if err != nil {
		return "", fmt.Errorf("unable to parse bundle name template: %w", err)
	}
	now := time.Now()
	values := struct {
		Project string
		Date    string
		Time    string
	}{
		Project: text.Slugify(projectRef),
		Date:    now.Format("2006-01-02"),
		Time:    now.Format("150405"),
	}
	buf := new(bytes.Buffer)
	if err := t.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to render bundle name: %w", err)
	}
	return buf.String(), nil
}

// ExportBundle writes all stored pages and the project theme settings to a
// zip archive at outputPath. When fixZip is set the result is rewritten
// without data descriptor records for picky consumers.
func (s *Store) ExportBundle(ctx context.Context, outputPath, projectRef string, fixZip bool) error {
	pages, err := s.ListPages(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	tmpName := outputPath + ".tmp"
	f, err := os.Create(tmpName)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer f.Close()
	defer os.Remove(tmpName)

	zw := zip.NewWriter(f)
	defer zw.Close()

	manifest := bundleManifest{
		Version:    bundleVersion,
		Project:    projectRef,
		ExportedAt: now(),
	}

	seen := map[string]int{}
	for _, info := range pages {
		page, err := s.LoadPage(ctx, info.Ref)
		if err != nil {
			return err
		}
		data, err := page.Doc.Encode()
		if err != nil {
			return err
		}
		entry := pageEntryDir + pageEntryName(info, seen)
		if err := writeBundleEntry(zw, entry, data); err != nil {
			return err
		}
		manifest.Pages = append(manifest.Pages, bundlePage{Ref: info.Ref, Name: info.Name, File: entry})
	}

	settings, err := s.LoadThemeSettings(ctx, projectRef)
	switch {
	case err == nil:
		data, err := json.Marshal(settings)
		if err != nil {
			return fmt.Errorf("unable to encode theme settings: %w", err)
		}
		if err := writeBundleEntry(zw, themeEntry, data); err != nil {
			return err
		}
	case errors.Is(err, ErrNotFound):
		s.log.Debug("No theme settings to export", zap.String("project", projectRef))
	default:
		return err
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode bundle manifest: %w", err)
	}
	if err := writeBundleEntry(zw, manifestEntry, data); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("unable to close bundle archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to finalize bundle file: %w", err)
	}

	s.log.Info("Exported project bundle",
		zap.String("project", projectRef),
		zap.String("output", outputPath),
		zap.Int("pages", len(manifest.Pages)))

	if fixZip {
		return copyZipWithoutDataDescriptors(tmpName, outputPath)
	}
	return os.Rename(tmpName, outputPath)
}

// ImportBundle reads a bundle archive into the store, upserting every page
// and the theme settings under projectRef. Existing records with the same
// references are overwritten.
func (s *Store) ImportBundle(ctx context.Context, bundlePath, projectRef string) error {
	var manifest bundleManifest
	found := false
	err := archive.Walk(bundlePath, archive.Exact(manifestEntry), func(_ string, file *zip.File) error {
		data, err := readBundleEntry(file)
		if err != nil {
			return err
		}
		found = true
		return json.Unmarshal(data, &manifest)
	})
	if err != nil {
		return fmt.Errorf("unable to read bundle manifest: %w", err)
	}
	if !found {
		return fmt.Errorf("bundle %s has no manifest", bundlePath)
	}
	if manifest.Version != bundleVersion {
		return fmt.Errorf("unsupported bundle version %d", manifest.Version)
	}

	byFile := make(map[string]bundlePage, len(manifest.Pages))
	for _, p := range manifest.Pages {
		byFile[p.File] = p
	}

	imported := 0
	err = archive.Walk(bundlePath, archive.Prefix(pageEntryDir), func(_ string, file *zip.File) error {
		meta, ok := byFile[file.Name]
		if !ok {
			s.log.Warn("Skipping page entry missing from manifest", zap.String("entry", file.Name))
			return nil
		}
		data, err := readBundleEntry(file)
		if err != nil {
			return err
		}
		doc, err := document.Decode(data)
		if err != nil {
			return fmt.Errorf("bundle page %s: %w", meta.Ref, err)
		}
		if err := s.SavePage(ctx, meta.Ref, meta.Name, doc); err != nil {
			return err
		}
		imported++
		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to import bundle pages: %w", err)
	}

	err = archive.Walk(bundlePath, archive.Exact(themeEntry), func(_ string, file *zip.File) error {
		data, err := readBundleEntry(file)
		if err != nil {
			return err
		}
		var settings theme.Settings
		if err := json.Unmarshal(data, &settings); err != nil {
			s.log.Warn("Bundle theme settings are malformed, skipping", zap.Error(err))
			return nil
		}
		return s.SaveThemeSettings(ctx, projectRef, settings)
	})
	if err != nil {
		return fmt.Errorf("unable to import bundle theme: %w", err)
	}

	s.log.Info("Imported project bundle",
		zap.String("project", projectRef),
		zap.String("bundle", bundlePath),
		zap.Int("pages", imported))
	return nil
}

func readBundleEntry(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("unable to open bundle entry %s: %w", file.Name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func writeBundleEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("unable to create bundle entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("unable to write bundle entry %s: %w", name, err)
	}
	return nil
}

// pageEntryName derives a unique slugged file name for a page entry.
func pageEntryName(info PageInfo, seen map[string]int) string {
	base := text.Slugify(info.Name)
	if base == "" {
		base = text.Slugify(info.Ref)
	}
	if base == "" {
		base = "page"
	}
	seen[base]++
	if n := seen[base]; n > 1 {
		return fmt.Sprintf("%s-%d.json", base, n)
	}
	return base + ".json"
}

// copyZipWithoutDataDescriptors rewrites the archive clearing the data
// descriptor flag on every entry, which some zip consumers choke on.
func copyZipWithoutDataDescriptors(from, to string) error {
	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	defer w.Close()

	for _, file := range r.File {
		file.Flags &= ^fixzip.FlagDataDescriptor
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	return nil
}
