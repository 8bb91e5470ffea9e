package document

import (
	"go.uber.org/zap"

	"pbe/style"
	"pbe/theme"
)

// ApplyPreset applies a theme preset in one atomic pass: document-level
// palette and font family, then a full overwrite of every section's
// palette-derived style fields. Layout and spacing fields are untouched.
// Element style values that now exactly match the new defaults are cleared
// so they keep tracking the theme instead of pinning a stale copy.
func (m *Model) ApplyPreset(p theme.Preset) {
	prevSizes := m.doc.Global.FontSizes

	m.doc.Global.Palette = p.Palette
	m.doc.Global.FontFamily = p.FontFamily
	m.doc.Global.ActivePreset = p.Name

	paletteStyles := p.Palette.SectionStyles()
	for _, sec := range m.doc.Sections {
		if sec.Styles == nil {
			sec.Styles = style.Record{}
		}
		for _, key := range theme.PaletteStyleKeys() {
			sec.Styles[key] = paletteStyles.GetString(key)
		}
		for _, el := range sec.Elements {
			clearMatchingElementColors(el, p.Palette)
		}
	}

	if p.FontSizes != (style.FontSizes{}) {
		m.doc.Global.FontSizes = style.FontSizes{}
		m.applyFontSizes(prevSizes, p.FontSizes)
	}

	m.bump("apply theme preset " + p.Name)
}

// DetachPreset marks the palette as fully custom. Already-applied colors
// persist as plain values.
func (m *Model) DetachPreset() {
	if m.doc.Global.ActivePreset == "" {
		return
	}
	m.doc.Global.ActivePreset = ""
	m.bump("detach theme preset")
}

// SetFontFamily changes the document's primary font family.
func (m *Model) SetFontFamily(family string) {
	if family == "" || family == m.doc.Global.FontFamily {
		return
	}
	m.doc.Global.FontFamily = family
	m.bump("set font family")
}

// SetFontSizes replaces the level-keyed size ladder. Every node whose
// explicit size exactly equals the previous default for its level is cleared
// back to theme-tracking; pinned custom values stay put.
func (m *Model) SetFontSizes(next style.FontSizes) {
	prev := m.doc.Global.FontSizes
	if next == prev {
		return
	}
	m.applyFontSizes(prev, next)
	m.bump("set font sizes")
}

func (m *Model) applyFontSizes(prev, next style.FontSizes) {
	cleared := 0
	for _, sec := range m.doc.Sections {
		if size := sec.Styles.GetString("titleSize"); size != "" {
			if size == prev.ForLevel(sec.TitleHeadingLevel()) {
				delete(sec.Styles, "titleSize")
				cleared++
			}
		}
		if size := sec.Styles.GetString("subtitleSize"); size != "" && size == prev.TextLG {
			delete(sec.Styles, "subtitleSize")
			cleared++
		}
		for _, el := range sec.Elements {
			level := el.HeadingLevel()
			if level == 0 {
				continue
			}
			if size := el.Style.GetString("fontSize"); size != "" && size == prev.ForLevel(level) {
				delete(el.Style, "fontSize")
				cleared++
			}
		}
	}
	m.doc.Global.FontSizes = next
	if cleared > 0 {
		m.log.Debug("Cleared theme-tracking sizes", zap.Int("count", cleared))
	}
}

// clearMatchingElementColors drops element color values that became
// identical to the freshly applied palette defaults.
func clearMatchingElementColors(el *Element, p theme.Palette) {
	if el.Style == nil {
		return
	}
	if el.Style.GetString("color") == p.Text {
		delete(el.Style, "color")
	}
	if el.Style.GetString("backgroundColor") == p.Background {
		delete(el.Style, "backgroundColor")
	}
}
