package editor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"pbe/common"
	"pbe/store"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	st, err := store.OpenMemory(zap.NewNop())
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewSession(st, Options{ProjectRef: "proj", Credential: "pbe-tok-test"})
}

func TestSessionRequiresLoadedPage(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.Model(); !errors.Is(err, ErrNoPageLoaded) {
		t.Fatalf("Model err = %v", err)
	}
	if err := s.Save(context.Background()); !errors.Is(err, ErrNoPageLoaded) {
		t.Fatalf("Save err = %v", err)
	}
	if err := s.ApplyTheme("midnight"); !errors.Is(err, ErrNoPageLoaded) {
		t.Fatalf("ApplyTheme err = %v", err)
	}
	if _, err := s.DumpXML(); !errors.Is(err, ErrNoPageLoaded) {
		t.Fatalf("DumpXML err = %v", err)
	}
}

func TestSessionPreconditionsBeforeStore(t *testing.T) {
	s := newTestSession(t)
	if err := s.NewPage(context.Background(), "", "Landing"); !errors.Is(err, ErrMissingPageRef) {
		t.Fatalf("NewPage err = %v", err)
	}
	if err := s.Load(context.Background(), ""); !errors.Is(err, ErrMissingPageRef) {
		t.Fatalf("Load err = %v", err)
	}

	noProject := NewSession(mustStore(t), Options{})
	if err := noProject.NewPage(context.Background(), "p1", "Landing"); err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	if err := noProject.Save(context.Background()); !errors.Is(err, ErrMissingProjectRef) {
		t.Fatalf("Save err = %v", err)
	}

	st := mustStore(t)
	noToken := NewSession(st, Options{ProjectRef: "proj"})
	if err := noToken.NewPage(context.Background(), "p1", "Landing"); err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	if err := noToken.Save(context.Background()); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("Save err = %v", err)
	}
	// the precondition fires before the store is touched
	if _, err := st.LoadPage(context.Background(), "p1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("page must not be persisted, got %v", err)
	}
}

func mustStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.OpenMemory(zap.NewNop())
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSessionSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	if err := s.NewPage(ctx, "p1", "Landing"); err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	m, err := s.Model()
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	hero := m.CreateSection(common.SectionHero)
	m.UpdateSectionContent(hero.ID, map[string]any{"title": "Launch day"})
	if err := s.ApplyTheme("midnight"); err != nil {
		t.Fatalf("ApplyTheme: %v", err)
	}
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := NewSession(s.store, Options{ProjectRef: "proj", Credential: "pbe-tok-test"})
	if err := reloaded.Load(ctx, "p1"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	rm, err := reloaded.Model()
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	doc := rm.Document()
	if doc.Global.ActivePreset != "midnight" {
		t.Fatalf("preset = %q", doc.Global.ActivePreset)
	}
	sec := doc.Section(hero.ID)
	if sec == nil || sec.Content["title"] != "Launch day" {
		t.Fatalf("section lost: %+v", sec)
	}
}

func TestNewPageInheritsProjectTheme(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	if err := s.NewPage(ctx, "p1", "First"); err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	if err := s.ApplyTheme("forest"); err != nil {
		t.Fatalf("ApplyTheme: %v", err)
	}
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := s.NewPage(ctx, "p2", "Second"); err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	m, _ := s.Model()
	if m.Document().Global.ActivePreset != "forest" {
		t.Fatalf("new page preset = %q", m.Document().Global.ActivePreset)
	}
}

func TestApplyThemeUnknownPreset(t *testing.T) {
	s := newTestSession(t)
	if err := s.NewPage(context.Background(), "p1", "Landing"); err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	if err := s.ApplyTheme("nonesuch"); err == nil {
		t.Fatalf("expected error for unknown preset")
	}
}

func TestResolveMemoInvalidatedByMutation(t *testing.T) {
	s := newTestSession(t)
	if err := s.NewPage(context.Background(), "p1", "Landing"); err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	m, _ := s.Model()
	sec := m.CreateSection(common.SectionHero)

	first, ok := s.ResolveSection(sec.ID, nil)
	if !ok {
		t.Fatalf("resolve failed")
	}
	// second call hits the memo and returns the same value
	again, _ := s.ResolveSection(sec.ID, nil)
	if first.ClassAttr() != again.ClassAttr() {
		t.Fatalf("memoized resolve diverged")
	}

	m.UpdateSectionStyles(sec.ID, map[string]any{"backgroundColor": "#FACC15"})
	after, ok := s.ResolveSection(sec.ID, nil)
	if !ok {
		t.Fatalf("resolve after mutation failed")
	}
	if after.Inline["background-color"] != "#FACC15" {
		t.Fatalf("stale style after mutation: %v", after.Inline)
	}
}

func TestUploadImageAttachesDataURI(t *testing.T) {
	s := newTestSession(t)
	if err := s.NewPage(context.Background(), "p1", "Landing"); err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	m, _ := s.Model()
	sec := m.CreateSection(common.SectionElements)
	el := m.CreateElement(sec.ID, common.ElementImage)

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	img, err := s.UploadImage(sec.ID, el.ID, "Team Photo.png", buf.Bytes())
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if img.Name != "team-photo.png" {
		t.Fatalf("asset name = %q", img.Name)
	}
	stored := m.Document().Section(sec.ID).Elements[0]
	ref, _ := stored.Content["image"].(string)
	if !strings.HasPrefix(ref, "data:image/png;base64,") {
		t.Fatalf("image ref = %q", ref)
	}
}

func TestResetElementPreconditions(t *testing.T) {
	s := newTestSession(t)
	if err := s.ResetElement("s", "e"); !errors.Is(err, ErrNoPageLoaded) {
		t.Fatalf("err = %v", err)
	}
}

func TestDumpXML(t *testing.T) {
	s := newTestSession(t)
	if err := s.NewPage(context.Background(), "p1", "Landing"); err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	m, _ := s.Model()
	hero := m.CreateSection(common.SectionHero)

	out, err := s.DumpXML()
	if err != nil {
		t.Fatalf("DumpXML: %v", err)
	}
	if !strings.Contains(out, `kind="hero"`) || !strings.Contains(out, hero.ID) {
		t.Fatalf("dump missing section: %s", out)
	}
	// virtual parts appear as elements in the dump
	if !strings.Contains(out, hero.ID+"-hero-title") {
		t.Fatalf("dump missing virtual title: %s", out)
	}
}

func TestNewPageSurvivesThemeSettingsFailure(t *testing.T) {
	st, err := store.OpenMemory(zap.NewNop())
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	core, logs := observer.New(zap.WarnLevel)
	s := NewSession(st, Options{ProjectRef: "proj", Log: zap.New(core)})

	// a cancelled context interrupts the settings query with an error that
	// is not ErrNotFound
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.NewPage(ctx, "p1", "Landing"); err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	if logs.FilterMessage("Unable to load project theme settings, keeping defaults").Len() == 0 {
		t.Fatalf("settings load failure must be logged, got %v", logs.All())
	}

	// absent settings stay quiet
	logs.TakeAll()
	if err := s.NewPage(context.Background(), "p2", "Pricing"); err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	if logs.Len() != 0 {
		t.Fatalf("missing settings must not be logged: %v", logs.All())
	}
}

func TestRenamePersists(t *testing.T) {
	st, err := store.OpenMemory(zap.NewNop())
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	s := NewSession(st, Options{ProjectRef: "proj", Credential: "pbe-tok-test"})
	if err := s.Rename("x"); !errors.Is(err, ErrNoPageLoaded) {
		t.Fatalf("Rename err = %v", err)
	}
	if err := s.NewPage(context.Background(), "p1", "Old"); err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	if err := s.Rename("New"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	pages, err := st.ListPages(context.Background())
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	if len(pages) != 1 || pages[0].Name != "New" {
		t.Fatalf("pages = %+v", pages)
	}
}

func TestPartialSaveErrorUnwraps(t *testing.T) {
	inner := errors.New("disk full")
	err := &PartialSaveError{PageRef: "p1", Err: inner}
	if !errors.Is(err, inner) {
		t.Fatalf("unwrap failed")
	}
	if !strings.Contains(err.Error(), "p1") {
		t.Fatalf("message = %q", err.Error())
	}
}
