package document

import (
	"fmt"
	"maps"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pbe/catalog"
	"pbe/common"
	"pbe/style"
)

// ContentOrigin supplies the pristine content a section kind started with,
// used only by reset-to-default.
type ContentOrigin interface {
	GetOriginalContent(pageRef string, kind common.SectionKind) (map[string]any, error)
}

// ElementPatch is a partial update for one element. Sub-records merge one
// level deep: siblings already set stay put unless the patch names them.
type ElementPatch struct {
	Content  map[string]any
	Style    style.Record
	Settings map[string]any
}

// Model is the document mutation engine. All mutations are synchronous and
// run to completion; derived state is recomputed from the document after
// each change, keyed by the revision counter.
type Model struct {
	log *zap.Logger
	doc *Document
	sel Selection
	rev uint64
}

// NewModel wraps a document for editing. A nil document starts a fresh one.
func NewModel(doc *Document, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	if doc == nil {
		doc = New()
	}
	return &Model{log: log.Named("document"), doc: doc}
}

// Document exposes the live aggregate for read access.
func (m *Model) Document() *Document {
	return m.doc
}

// Revision increases on every mutation; derived-state caches key on it.
func (m *Model) Revision() uint64 {
	return m.rev
}

// Replace swaps the whole document, as happens on load. Selection resets.
func (m *Model) Replace(doc *Document) {
	if doc == nil {
		doc = New()
	}
	m.doc = doc
	m.sel = Selection{}
	m.bump("document replaced")
}

func (m *Model) bump(what string) {
	m.rev++
	m.log.Debug("Document changed", zap.String("op", what), zap.Uint64("rev", m.rev))
}

// CreateSection instantiates a section of the given kind from its catalog
// template, places it and selects it. Navbar pins to the start; everything
// else lands right after the first hero when one exists, at the end
// otherwise.
func (m *Model) CreateSection(kind common.SectionKind) *Section {
	content, ok := catalog.TemplateContent(kind)
	if !ok {
		content = map[string]any{}
	}
	sec := &Section{
		ID:      uuid.NewString(),
		Kind:    kind,
		Content: content,
		Styles:  style.Record(catalog.TemplateStyles(kind)),
	}

	switch {
	case kind == common.SectionNavbar:
		m.doc.Sections = append([]*Section{sec}, m.doc.Sections...)
	default:
		at := len(m.doc.Sections)
		for i, existing := range m.doc.Sections {
			if existing.Kind == common.SectionHero {
				at = i + 1
				break
			}
		}
		m.doc.Sections = append(m.doc.Sections, nil)
		copy(m.doc.Sections[at+1:], m.doc.Sections[at:])
		m.doc.Sections[at] = sec
	}

	m.sel = Selection{SectionID: sec.ID}
	m.bump("create section " + kind.String())
	return sec
}

// DeleteSection removes a section; unknown IDs are a no-op. Deleting the
// selected section clears the selection.
func (m *Model) DeleteSection(id string) {
	for i, sec := range m.doc.Sections {
		if sec.ID != id {
			continue
		}
		m.doc.Sections = append(m.doc.Sections[:i], m.doc.Sections[i+1:]...)
		if m.sel.SectionID == id {
			m.sel = Selection{}
		}
		m.bump("delete section")
		return
	}
	m.log.Debug("Delete of unknown section ignored", zap.String("id", id))
}

// MoveSection swaps a section with its immediate neighbor. Boundary moves
// and fixed-position kinds (navbar, footer) on either side of the swap are
// no-ops.
func (m *Model) MoveSection(id string, dir common.MoveDirection) {
	idx := -1
	for i, sec := range m.doc.Sections {
		if sec.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 || m.doc.Sections[idx].Kind.FixedPosition() {
		return
	}
	target := idx - 1
	if dir == common.MoveDown {
		target = idx + 1
	}
	if target < 0 || target >= len(m.doc.Sections) {
		return
	}
	if m.doc.Sections[target].Kind.FixedPosition() {
		return
	}
	m.doc.Sections[idx], m.doc.Sections[target] = m.doc.Sections[target], m.doc.Sections[idx]
	m.bump("move section " + dir.String())
}

// UpdateSectionContent shallow-merges a partial content record into the
// section, dropping fields outside the kind's schema. Unknown IDs no-op.
func (m *Model) UpdateSectionContent(id string, partial map[string]any) {
	sec := m.doc.Section(id)
	if sec == nil || len(partial) == 0 {
		return
	}
	filtered := catalog.FilterContent(sec.Kind, sanitizeContent(partial))
	if sec.Content == nil {
		sec.Content = map[string]any{}
	}
	maps.Copy(sec.Content, filtered)
	m.bump("update section content")
}

// UpdateSectionStyles shallow-merges a partial style record into the
// section. The variant tag is validated against the catalog on the way in.
func (m *Model) UpdateSectionStyles(id string, partial style.Record) {
	sec := m.doc.Section(id)
	if sec == nil || len(partial) == 0 {
		return
	}
	if v, ok := partial["variant"].(string); ok {
		partial = partial.Clone()
		partial["variant"] = catalog.ResolveVariant(sec.Kind, v)
	}
	if sec.Styles == nil {
		sec.Styles = style.Record{}
	}
	sec.Styles.Merge(partial)
	m.bump("update section styles")
}

// CreateElement appends a fresh element to an elements-kind section and
// selects it. Returns nil when the section is unknown, does not own
// elements, or the type is outside the closed set.
func (m *Model) CreateElement(sectionID string, typ common.ElementType) *Element {
	sec := m.doc.Section(sectionID)
	if sec == nil || !sec.Kind.OwnsElements() || !common.IsKnownElementType(typ) {
		return nil
	}
	el := &Element{
		ID:      uuid.NewString(),
		Type:    typ,
		Content: defaultElementContent(typ),
		Style:   style.Record{},
	}
	sec.Elements = append(sec.Elements, el)
	m.sel = Selection{SectionID: sec.ID, ElementID: el.ID}
	m.bump("create element " + typ.String())
	return el
}

// UpdateElement merges a partial update into an element. Virtual element IDs
// route back into the owning section's structured fields under the same
// contract. Unknown targets no-op.
func (m *Model) UpdateElement(sectionID, elementID string, patch ElementPatch) {
	sec := m.doc.Section(sectionID)
	if sec == nil {
		return
	}
	if part, ok := virtualPart(sec, elementID); ok {
		if applyVirtualPatch(sec, part, patch) {
			m.bump("update virtual element " + part)
		}
		return
	}
	el := sec.element(elementID)
	if el == nil {
		return
	}
	m.patchElement(el, patch)
	m.bump("update element")
}

func (m *Model) patchElement(el *Element, patch ElementPatch) {
	if len(patch.Content) > 0 {
		if el.Content == nil {
			el.Content = map[string]any{}
		}
		content := sanitizeContent(patch.Content)
		if tag, ok := content["htmlTag"].(string); ok && el.Type == common.ElementHeading {
			if _, err := common.ParseHeadingTag(tag); err != nil {
				m.log.Warn("Dropping invalid heading tag", zap.String("tag", tag), zap.String("element", el.ID))
				delete(content, "htmlTag")
			}
		}
		maps.Copy(el.Content, content)
	}
	if len(patch.Style) > 0 {
		if el.Style == nil {
			el.Style = style.Record{}
		}
		el.Style.Merge(patch.Style)
	}
	if len(patch.Settings) > 0 {
		if el.Settings == nil {
			el.Settings = map[string]any{}
		}
		maps.Copy(el.Settings, patch.Settings)
	}
}

// DeleteElement removes an element; deleting the selected one falls back to
// section selection. Unknown targets no-op. Virtual elements cannot be
// deleted - they exist as long as their section does.
func (m *Model) DeleteElement(sectionID, elementID string) {
	sec := m.doc.Section(sectionID)
	if sec == nil {
		return
	}
	for i, el := range sec.Elements {
		if el.ID != elementID {
			continue
		}
		sec.Elements = append(sec.Elements[:i], sec.Elements[i+1:]...)
		if m.sel.ElementID == elementID {
			m.sel = Selection{SectionID: sec.ID}
		}
		m.bump("delete element")
		return
	}
}

// ResetElement restores an element's content fields to the original values
// recorded for the owning section's kind. Reported as an error (not a silent
// no-op) since the user asked for it explicitly.
func (m *Model) ResetElement(sectionID, elementID, pageRef string, origin ContentOrigin) error {
	sec := m.doc.Section(sectionID)
	if sec == nil {
		return fmt.Errorf("section %q not found", sectionID)
	}
	original, err := origin.GetOriginalContent(pageRef, sec.Kind)
	if err != nil {
		return fmt.Errorf("no original content for section kind %q: %w", sec.Kind, err)
	}
	if part, ok := virtualPart(sec, elementID); ok {
		if !resetVirtualPart(sec, part, original) {
			return fmt.Errorf("no original value recorded for %q", part)
		}
		m.bump("reset virtual element " + part)
		return nil
	}
	if sec.element(elementID) == nil {
		return fmt.Errorf("element %q not found in section %q", elementID, sectionID)
	}
	// real elements are user-created: there is no per-element origin record
	return fmt.Errorf("element %q has no recorded original content", elementID)
}

func defaultElementContent(typ common.ElementType) map[string]any {
	switch typ {
	case common.ElementHeading:
		return map[string]any{"text": "Heading", "htmlTag": "h2"}
	case common.ElementText:
		return map[string]any{"text": "Write something…"}
	case common.ElementButton:
		return map[string]any{"text": "Click me", "link": "#"}
	case common.ElementImage:
		return map[string]any{"image": "", "imageAlt": ""}
	case common.ElementList:
		return map[string]any{"items": []any{"First", "Second"}}
	default:
		return map[string]any{}
	}
}
