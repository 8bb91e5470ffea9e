package store

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"pbe/theme"
)

func TestBundleExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := openTestStore(t)

	if err := src.SavePage(ctx, "p1", "Landing", testDoc("Short pitch.")); err != nil {
		t.Fatalf("SavePage: %v", err)
	}
	if err := src.SavePage(ctx, "p2", "Pricing", testDoc("Plans for everyone.")); err != nil {
		t.Fatalf("SavePage: %v", err)
	}
	if err := src.SaveThemeSettings(ctx, "proj", theme.Settings{Preset: "forest"}); err != nil {
		t.Fatalf("SaveThemeSettings: %v", err)
	}

	bundlePath := filepath.Join(t.TempDir(), "proj.zip")
	if err := src.ExportBundle(ctx, bundlePath, "proj", false); err != nil {
		t.Fatalf("ExportBundle: %v", err)
	}

	dst := openTestStore(t)
	if err := dst.ImportBundle(ctx, bundlePath, "proj"); err != nil {
		t.Fatalf("ImportBundle: %v", err)
	}

	pages, err := dst.ListPages(ctx)
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("imported %d pages, want 2", len(pages))
	}
	page, err := dst.LoadPage(ctx, "p1")
	if err != nil {
		t.Fatalf("LoadPage: %v", err)
	}
	if page.Name != "Landing" || page.Doc.Section("hero-1") == nil {
		t.Fatalf("page lost in transit: %+v", page.PageInfo)
	}
	settings, err := dst.LoadThemeSettings(ctx, "proj")
	if err != nil {
		t.Fatalf("LoadThemeSettings: %v", err)
	}
	if settings.Preset != "forest" {
		t.Fatalf("theme preset = %q", settings.Preset)
	}
}

func TestBundleExportWithFixZip(t *testing.T) {
	ctx := context.Background()
	src := openTestStore(t)
	if err := src.SavePage(ctx, "p1", "Landing", testDoc("x")); err != nil {
		t.Fatalf("SavePage: %v", err)
	}

	bundlePath := filepath.Join(t.TempDir(), "proj.zip")
	if err := src.ExportBundle(ctx, bundlePath, "proj", true); err != nil {
		t.Fatalf("ExportBundle: %v", err)
	}

	dst := openTestStore(t)
	if err := dst.ImportBundle(ctx, bundlePath, "proj"); err != nil {
		t.Fatalf("ImportBundle after fixzip: %v", err)
	}
}

func TestImportBundleRejectsMissingManifest(t *testing.T) {
	src := openTestStore(t)
	bad := filepath.Join(t.TempDir(), "nothing.zip")
	if err := src.ExportBundle(context.Background(), bad, "proj", false); err != nil {
		t.Fatalf("ExportBundle: %v", err)
	}
	// an empty export still carries a manifest; a random zip does not
	if err := src.ImportBundle(context.Background(), "/nonexistent.zip", "proj"); err == nil {
		t.Fatalf("expected error for missing bundle")
	}
}

func TestPageEntryNameDeduplication(t *testing.T) {
	seen := map[string]int{}
	a := pageEntryName(PageInfo{Ref: "p1", Name: "Landing Page"}, seen)
	b := pageEntryName(PageInfo{Ref: "p2", Name: "Landing Page"}, seen)
	c := pageEntryName(PageInfo{Ref: "p3", Name: ""}, seen)
	if a != "landing-page.json" {
		t.Fatalf("a = %q", a)
	}
	if b != "landing-page-2.json" {
		t.Fatalf("b = %q", b)
	}
	if c != "p3.json" {
		t.Fatalf("c = %q", c)
	}
}

func TestBundleName(t *testing.T) {
	name, err := BundleName("", "My Project")
	if err != nil {
		t.Fatalf("BundleName: %v", err)
	}
	if ok, _ := regexp.MatchString(`^my-project-\d{4}-\d{2}-\d{2}\.zip$`, name); !ok {
		t.Fatalf("default name = %q", name)
	}
	custom, err := BundleName(`{{.Project | upper}}.zip`, "proj")
	if err != nil {
		t.Fatalf("BundleName custom: %v", err)
	}
	if custom != "PROJ.zip" {
		t.Fatalf("custom name = %q", custom)
	}
	if _, err := BundleName("{{.Broken", "proj"); err == nil {
		t.Fatalf("expected parse error")
	}
}
