package store

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"pbe/common"
	"pbe/document"
	"pbe/theme"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory(zap.NewNop())
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testDoc(subtitle string) *document.Document {
	d := document.New()
	d.Sections = append(d.Sections, &document.Section{
		ID:      "hero-1",
		Kind:    common.SectionHero,
		Content: map[string]any{"title": "Hello", "subtitle": subtitle},
		Styles:  map[string]any{"variant": "centered"},
	})
	return d
}

func TestPageRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SavePage(ctx, "p1", "Landing", testDoc("One sentence only.")); err != nil {
		t.Fatalf("SavePage: %v", err)
	}
	page, err := s.LoadPage(ctx, "p1")
	if err != nil {
		t.Fatalf("LoadPage: %v", err)
	}
	if page.Name != "Landing" {
		t.Fatalf("name = %q", page.Name)
	}
	if page.Description != "One sentence only." {
		t.Fatalf("description = %q", page.Description)
	}
	sec := page.Doc.Section("hero-1")
	if sec == nil || sec.Content["title"] != "Hello" {
		t.Fatalf("document lost: %+v", sec)
	}
	if page.UpdatedAt.IsZero() {
		t.Fatalf("updated_at not recorded")
	}
}

func TestLoadPageNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LoadPage(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSavePageOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SavePage(ctx, "p1", "Old", testDoc("Old copy.")); err != nil {
		t.Fatalf("SavePage: %v", err)
	}
	if err := s.SavePage(ctx, "p1", "New", testDoc("New copy.")); err != nil {
		t.Fatalf("SavePage: %v", err)
	}
	page, err := s.LoadPage(ctx, "p1")
	if err != nil {
		t.Fatalf("LoadPage: %v", err)
	}
	if page.Name != "New" || page.Description != "New copy." {
		t.Fatalf("overwrite lost: %+v", page.PageInfo)
	}
	pages, err := s.ListPages(ctx)
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(pages))
	}
}

func TestDeletePage(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SavePage(ctx, "p1", "Landing", testDoc("x")); err != nil {
		t.Fatalf("SavePage: %v", err)
	}
	if err := s.DeletePage(ctx, "p1"); err != nil {
		t.Fatalf("DeletePage: %v", err)
	}
	if _, err := s.LoadPage(ctx, "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("page survived delete: %v", err)
	}
	// deleting again is a no-op
	if err := s.DeletePage(ctx, "p1"); err != nil {
		t.Fatalf("repeated DeletePage: %v", err)
	}
}

func TestListPagesNaturalOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Page 10", "Page 2", "About"} {
		if err := s.SavePage(ctx, name, name, testDoc("")); err != nil {
			t.Fatalf("SavePage %s: %v", name, err)
		}
	}
	pages, err := s.ListPages(ctx)
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	got := make([]string, len(pages))
	for i, p := range pages {
		got[i] = p.Name
	}
	want := []string{"About", "Page 2", "Page 10"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	for _, p := range pages {
		if p.UpdatedAt.IsZero() {
			t.Fatalf("listing lost the update stamp for %s", p.Ref)
		}
	}
}

func TestThemeSettingsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := theme.Settings{Preset: "midnight", FontFamily: "Space Grotesk"}
	if err := s.SaveThemeSettings(ctx, "proj", in); err != nil {
		t.Fatalf("SaveThemeSettings: %v", err)
	}
	out, err := s.LoadThemeSettings(ctx, "proj")
	if err != nil {
		t.Fatalf("LoadThemeSettings: %v", err)
	}
	if out.Preset != "midnight" || out.FontFamily != "Space Grotesk" {
		t.Fatalf("settings = %+v", out)
	}
	if out.FontSizes.H1 == "" {
		t.Fatalf("defaults not filled on load: %+v", out.FontSizes)
	}
}

func TestLoadThemeSettingsNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.LoadThemeSettings(context.Background(), "proj"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
