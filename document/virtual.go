package document

import (
	"strings"

	"pbe/common"
	"pbe/style"
)

// Fixed-layout sections expose their structured fields as addressable
// elements without ever persisting them. The projection is rebuilt on every
// read; the write-back route keeps the external update contract identical
// for real and virtual targets.

const virtualSep = "-hero-"

const (
	partTitle    = "title"
	partSubtitle = "subtitle"
	partButton   = "button"
	partImage    = "image"
)

// virtualStyleKeys maps an element-level style property to the namespaced
// key it lives under in the owning section's styles, per part.
var virtualStyleKeys = map[string]map[string]string{
	partTitle: {
		"color":    "titleColor",
		"fontSize": "titleSize",
	},
	partSubtitle: {
		"color":    "subtitleColor",
		"fontSize": "subtitleSize",
	},
	partButton: {
		"color":           "buttonColor",
		"backgroundColor": "buttonBgColor",
	},
	partImage: {},
}

// virtualContentKeys maps an element-level content field to the section
// content field backing it, per part.
var virtualContentKeys = map[string]map[string]string{
	partTitle:    {"text": "title"},
	partSubtitle: {"text": "subtitle"},
	partButton:   {"text": "buttonText", "link": "buttonLink"},
	partImage:    {"image": "image", "imageAlt": "imageAlt"},
}

// VirtualID builds the deterministic ID for a fixed-layout part.
func VirtualID(sectionID, part string) string {
	return sectionID + virtualSep + part
}

// virtualPart recognizes a virtual element ID belonging to the section and
// returns the addressed part.
func virtualPart(sec *Section, elementID string) (string, bool) {
	if !sec.Kind.FixedLayout() {
		return "", false
	}
	rest, ok := strings.CutPrefix(elementID, sec.ID+virtualSep)
	if !ok {
		return "", false
	}
	if _, known := virtualContentKeys[rest]; !known {
		return "", false
	}
	return rest, true
}

// VirtualElements synthesizes the fixed parts of a section as element views.
// Never stored: the result is rebuilt from section fields on every call and
// disappears with the section.
func VirtualElements(sec *Section) []*Element {
	if !sec.Kind.FixedLayout() {
		return nil
	}
	title := &Element{
		ID:   VirtualID(sec.ID, partTitle),
		Type: common.ElementHeading,
		Content: map[string]any{
			"text":    sec.Content["title"],
			"htmlTag": common.HeadingTag(sec.TitleHeadingLevel()),
		},
		Style: virtualStyle(sec, partTitle),
	}
	subtitle := &Element{
		ID:      VirtualID(sec.ID, partSubtitle),
		Type:    common.ElementText,
		Content: map[string]any{"text": sec.Content["subtitle"]},
		Style:   virtualStyle(sec, partSubtitle),
	}
	button := &Element{
		ID:   VirtualID(sec.ID, partButton),
		Type: common.ElementButton,
		Content: map[string]any{
			"text": sec.Content["buttonText"],
			"link": sec.Content["buttonLink"],
		},
		Style: virtualStyle(sec, partButton),
	}
	image := &Element{
		ID:   VirtualID(sec.ID, partImage),
		Type: common.ElementImage,
		Content: map[string]any{
			"image":    sec.Content["image"],
			"imageAlt": sec.Content["imageAlt"],
		},
		Style: style.Record{},
	}
	return []*Element{title, subtitle, button, image}
}

func virtualStyle(sec *Section, part string) style.Record {
	rec := style.Record{}
	for elementKey, sectionKey := range virtualStyleKeys[part] {
		if v := sec.Styles.GetString(sectionKey); v != "" {
			rec[elementKey] = v
		}
	}
	if align := sec.Styles.GetString("align"); align != "" && part != partImage {
		rec["textAlign"] = align
	}
	return rec
}

// applyVirtualPatch routes an element patch back into the owning section's
// structured fields. Returns true when anything changed.
func applyVirtualPatch(sec *Section, part string, patch ElementPatch) bool {
	changed := false

	if len(patch.Content) > 0 {
		content := sanitizeContent(patch.Content)
		for elementKey, sectionKey := range virtualContentKeys[part] {
			if v, ok := content[elementKey]; ok {
				if sec.Content == nil {
					sec.Content = map[string]any{}
				}
				sec.Content[sectionKey] = v
				changed = true
			}
		}
		if tag, ok := content["htmlTag"].(string); ok && part == partTitle {
			if _, err := common.ParseHeadingTag(tag); err == nil {
				if sec.Styles == nil {
					sec.Styles = style.Record{}
				}
				sec.Styles["titleHeadingTag"] = tag
				changed = true
			}
		}
	}

	if len(patch.Style) > 0 {
		if sec.Styles == nil {
			sec.Styles = style.Record{}
		}
		for elementKey, sectionKey := range virtualStyleKeys[part] {
			if v, ok := patch.Style[elementKey]; ok {
				if v == nil {
					delete(sec.Styles, sectionKey)
				} else {
					sec.Styles[sectionKey] = v
				}
				changed = true
			}
		}
		if v, ok := patch.Style["textAlign"].(string); ok {
			sec.Styles["align"] = v
			changed = true
		}
	}

	// settings have no backing field on fixed-layout parts
	return changed
}

// resetVirtualPart restores the section content fields backing a part from
// the origin record. Returns false when the origin has no value for any of
// the part's fields.
func resetVirtualPart(sec *Section, part string, original map[string]any) bool {
	restored := false
	for _, sectionKey := range virtualContentKeys[part] {
		if v, ok := original[sectionKey]; ok {
			if sec.Content == nil {
				sec.Content = map[string]any{}
			}
			sec.Content[sectionKey] = v
			restored = true
		}
	}
	return restored
}
