// Package editor orchestrates a single editing session: one loaded page, the
// project theme settings, external collaborators and the resolved-style memo.
package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"pbe/assets"
	"pbe/catalog"
	"pbe/document"
	"pbe/store"
	"pbe/style"
	"pbe/theme"
)

// Options configure a session.
type Options struct {
	ProjectRef string
	Credential string                 // presented to the page store on every save
	Origin     document.ContentOrigin // nil falls back to the built-in catalog origin
	Assets     assets.Limits
	Log        *zap.Logger
}

// Session is the unit of work for the CLI and any future transport: load a
// page, mutate it through the model, save it back.
type Session struct {
	store      *store.Store
	origin     document.ContentOrigin
	processor  *assets.Processor
	log        *zap.Logger
	projectRef string
	credential string

	pageRef  string
	pageName string
	model    *document.Model

	// resolved-style memo, keyed by document revision so entries can never
	// go stale: any mutation bumps the revision
	memo *cache.Cache
}

// NewSession wires a session over an open store.
func NewSession(st *store.Store, opts Options) *Session {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	origin := opts.Origin
	if origin == nil {
		origin = catalog.Origin{}
	}
	limits := opts.Assets
	if limits == (assets.Limits{}) {
		limits = assets.DefaultLimits()
	}
	return &Session{
		store:      st,
		origin:     origin,
		processor:  assets.NewProcessor(limits, log.Named("assets")),
		log:        log,
		projectRef: opts.ProjectRef,
		credential: opts.Credential,
		memo:       cache.New(5*time.Minute, 10*time.Minute),
	}
}

// Model exposes the mutation surface of the loaded page.
func (s *Session) Model() (*document.Model, error) {
	if s.model == nil {
		return nil, ErrNoPageLoaded
	}
	return s.model, nil
}

// PageRef returns the loaded page reference, empty when nothing is loaded.
func (s *Session) PageRef() string { return s.pageRef }

// NewPage starts a fresh page under ref. The project theme settings, when
// present, are applied so new pages match the rest of the project.
func (s *Session) NewPage(ctx context.Context, ref, name string) error {
	if ref == "" {
		return ErrMissingPageRef
	}
	doc := document.New()
	if settings, ok := s.projectSettings(ctx); ok {
		applyThemeSettings(doc, settings)
	}
	s.pageRef = ref
	s.pageName = name
	s.model = document.NewModel(doc, s.log.Named("model"))
	return nil
}

// projectSettings loads the project theme record. Missing settings are the
// normal state of a fresh project; anything else gets logged and the page
// keeps its defaults.
func (s *Session) projectSettings(ctx context.Context) (theme.Settings, bool) {
	if s.projectRef == "" {
		return theme.Settings{}, false
	}
	settings, err := s.store.LoadThemeSettings(ctx, s.projectRef)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Warn("Unable to load project theme settings, keeping defaults",
				zap.String("project", s.projectRef), zap.Error(err))
		}
		return theme.Settings{}, false
	}
	return settings, true
}

// Load replaces the session's page with the stored one and superimposes the
// project theme settings.
func (s *Session) Load(ctx context.Context, ref string) error {
	if ref == "" {
		return ErrMissingPageRef
	}
	page, err := s.store.LoadPage(ctx, ref)
	if err != nil {
		return err
	}
	if settings, ok := s.projectSettings(ctx); ok {
		applyThemeSettings(page.Doc, settings)
	}
	s.pageRef = ref
	s.pageName = page.Name
	s.model = document.NewModel(page.Doc, s.log.Named("model"))
	return nil
}

// Save persists the page and then the project theme settings. A failure of
// the second phase after the first succeeded is reported as a
// PartialSaveError so callers can retry without losing the page.
func (s *Session) Save(ctx context.Context) error {
	if s.model == nil {
		return ErrNoPageLoaded
	}
	if s.pageRef == "" {
		return ErrMissingPageRef
	}
	if s.projectRef == "" {
		return ErrMissingProjectRef
	}
	if s.credential == "" {
		return ErrMissingCredential
	}
	doc := s.model.Document()
	if err := s.store.SavePage(ctx, s.pageRef, s.pageName, doc); err != nil {
		return err
	}
	if err := s.store.SaveThemeSettings(ctx, s.projectRef, settingsFromDocument(doc)); err != nil {
		return &PartialSaveError{PageRef: s.pageRef, Err: err}
	}
	return nil
}

// Rename changes the stored display name of the loaded page.
func (s *Session) Rename(name string) error {
	if s.model == nil {
		return ErrNoPageLoaded
	}
	s.pageName = name
	return nil
}

// ApplyTheme applies a named preset to the loaded page.
func (s *Session) ApplyTheme(name string) error {
	if s.model == nil {
		return ErrNoPageLoaded
	}
	preset, ok := theme.PresetByName(name)
	if !ok {
		return fmt.Errorf("unknown theme preset %q", name)
	}
	s.model.ApplyPreset(preset)
	return nil
}

// DetachTheme switches the page to a fully custom palette, keeping the
// applied colors.
func (s *Session) DetachTheme() error {
	if s.model == nil {
		return ErrNoPageLoaded
	}
	s.model.DetachPreset()
	return nil
}

// ResetElement restores an element's content from the content origin.
func (s *Session) ResetElement(sectionID, elementID string) error {
	if s.model == nil {
		return ErrNoPageLoaded
	}
	if s.pageRef == "" {
		return ErrMissingPageRef
	}
	if s.origin == nil {
		return ErrMissingOrigin
	}
	return s.model.ResetElement(sectionID, elementID, s.pageRef, s.origin)
}

// UploadImage runs an upload through the asset pipeline and attaches the
// result to the target element's image field. The processed asset is
// returned for callers that track uploads separately.
func (s *Session) UploadImage(sectionID, elementID, name string, data []byte) (*assets.Image, error) {
	if s.model == nil {
		return nil, ErrNoPageLoaded
	}
	img, err := s.processor.Process(name, data)
	if err != nil {
		return nil, err
	}
	s.model.UpdateElement(sectionID, elementID, document.ElementPatch{
		Content: map[string]any{"image": img.DataURI(), "imageAlt": img.Name},
	})
	return img, nil
}

// ResolveSection resolves a section's presentation set, memoized per
// document revision when no override layer is present.
func (s *Session) ResolveSection(id string, override style.Record) (style.Resolved, bool) {
	if s.model == nil {
		return style.Resolved{}, false
	}
	if len(override) > 0 {
		return s.model.ResolveSection(id, override)
	}
	key := memoKey(s.model.Revision(), id, "")
	if v, ok := s.memo.Get(key); ok {
		return v.(style.Resolved), true
	}
	resolved, ok := s.model.ResolveSection(id, nil)
	if ok {
		s.memo.Set(key, resolved, cache.DefaultExpiration)
	}
	return resolved, ok
}

// ResolveElement resolves an element's presentation set, memoized per
// document revision when no override layer is present.
func (s *Session) ResolveElement(sectionID, elementID string, override style.Record) (style.Resolved, bool) {
	if s.model == nil {
		return style.Resolved{}, false
	}
	if len(override) > 0 {
		return s.model.ResolveElement(sectionID, elementID, override)
	}
	key := memoKey(s.model.Revision(), sectionID, elementID)
	if v, ok := s.memo.Get(key); ok {
		return v.(style.Resolved), true
	}
	resolved, ok := s.model.ResolveElement(sectionID, elementID, nil)
	if ok {
		s.memo.Set(key, resolved, cache.DefaultExpiration)
	}
	return resolved, ok
}

func memoKey(rev uint64, sectionID, elementID string) string {
	return fmt.Sprintf("%d/%s/%s", rev, sectionID, elementID)
}

// applyThemeSettings superimposes the project-wide theme record on a page's
// global style.
func applyThemeSettings(doc *document.Document, settings theme.Settings) {
	settings = settings.WithDefaults()
	doc.Global.ActivePreset = settings.Preset
	doc.Global.FontSizes = settings.FontSizes
	doc.Global.FontFamily = settings.FontFamily
	if settings.Preset != "" {
		if preset, ok := theme.PresetByName(settings.Preset); ok {
			doc.Global.Palette = preset.Palette
			return
		}
		doc.Global.ActivePreset = ""
	}
	if settings.CustomColors != nil {
		doc.Global.Palette = settings.CustomColors.Merge(theme.DefaultPreset().Palette)
	}
}

// settingsFromDocument derives the persisted project theme record from the
// page's global style.
func settingsFromDocument(doc *document.Document) theme.Settings {
	settings := theme.Settings{
		Preset:     doc.Global.ActivePreset,
		FontSizes:  doc.Global.FontSizes,
		FontFamily: doc.Global.FontFamily,
	}
	if settings.Preset == "" {
		palette := doc.Global.Palette
		settings.CustomColors = &palette
	}
	return settings
}
