// Package document owns the editable page model: sections with typed
// elements, virtual elements over fixed-layout sections, selection state and
// every mutation the editor can apply. Derived presentation values are
// computed through the style package and never stored.
package document

import (
	"encoding/json"
	"fmt"

	"pbe/catalog"
	"pbe/common"
	"pbe/style"
	"pbe/theme"
)

// Element is an individually addressable content unit inside an "elements"
// section. IDs are stable and scoped to the owning section.
type Element struct {
	ID       string             `json:"id"`
	Type     common.ElementType `json:"type"`
	Content  map[string]any     `json:"content,omitempty"`
	Style    style.Record       `json:"style,omitempty"`
	Settings map[string]any     `json:"settings,omitempty"`
}

// HeadingLevel returns the semantic level driven by content.htmlTag,
// defaulting to 1 for headings without an explicit tag and 0 for
// non-headings.
func (e *Element) HeadingLevel() int {
	if e.Type != common.ElementHeading {
		return 0
	}
	if tag, _ := e.Content["htmlTag"].(string); tag != "" {
		if level, err := common.ParseHeadingTag(tag); err == nil {
			return level
		}
	}
	return common.MinHeadingLevel
}

// Section is a top-level page block. ID is immutable after creation;
// styles.variant always resolves to a known template for the kind.
type Section struct {
	ID       string             `json:"id"`
	Kind     common.SectionKind `json:"kind"`
	Content  map[string]any     `json:"content,omitempty"`
	Styles   style.Record       `json:"styles,omitempty"`
	Elements []*Element         `json:"elements,omitempty"`
}

// Variant returns the section's rendering template, substituting the kind's
// default when the stored tag is unknown.
func (s *Section) Variant() string {
	return catalog.ResolveVariant(s.Kind, s.Styles.GetString("variant"))
}

// TitleHeadingLevel is the semantic level of the section's primary title.
func (s *Section) TitleHeadingLevel() int {
	if tag := s.Styles.GetString("titleHeadingTag"); tag != "" {
		if level, err := common.ParseHeadingTag(tag); err == nil {
			return level
		}
	}
	return common.MinHeadingLevel
}

func (s *Section) element(id string) *Element {
	for _, el := range s.Elements {
		if el.ID == id {
			return el
		}
	}
	return nil
}

// GlobalStyle is the document-level theme state: palette, level-keyed size
// ladder, primary font family and the identity of the active preset (empty
// for a fully custom palette).
type GlobalStyle struct {
	Palette      theme.Palette   `json:"palette"`
	FontSizes    style.FontSizes `json:"fontSizes"`
	FontFamily   string          `json:"fontFamily"`
	ActivePreset string          `json:"activePreset,omitempty"`
}

// Document is the top-level aggregate. Exactly one is live in the editor at
// a time; it is replaced wholesale on load and serialized wholesale on save.
type Document struct {
	Sections []*Section  `json:"sections"`
	Global   GlobalStyle `json:"global"`
}

// New returns an empty document carrying the default theme.
func New() *Document {
	p := theme.DefaultPreset()
	return &Document{
		Global: GlobalStyle{
			Palette:      p.Palette,
			FontSizes:    p.FontSizes,
			FontFamily:   p.FontFamily,
			ActivePreset: p.Name,
		},
	}
}

// Section finds a section by ID, nil when unknown.
func (d *Document) Section(id string) *Section {
	for _, sec := range d.Sections {
		if sec.ID == id {
			return sec
		}
	}
	return nil
}

// Decode parses a serialized document, tolerating missing fields by filling
// theme defaults per field.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unable to decode document: %w", err)
	}
	def := theme.DefaultPreset()
	doc.Global.Palette = doc.Global.Palette.Merge(def.Palette)
	doc.Global.FontSizes = doc.Global.FontSizes.Merge(style.DefaultFontSizes())
	if doc.Global.FontFamily == "" {
		doc.Global.FontFamily = def.FontFamily
	}
	for _, sec := range doc.Sections {
		if sec.Content == nil {
			sec.Content = map[string]any{}
		}
		if sec.Styles == nil {
			sec.Styles = style.Record{}
		}
	}
	return &doc, nil
}

// Encode serializes the document for persistence.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("unable to encode document: %w", err)
	}
	return data, nil
}
