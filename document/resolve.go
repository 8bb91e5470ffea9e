package document

import (
	"pbe/style"
)

// Resolution composes the style layers for one renderable node. Highest
// precedence first: transient direct-edit override, the node's own record,
// the owning section (elements only), the document theme defaults. Pure -
// recomputed reactively after each state change.

// themeSectionDefaults is the lowest layer for sections: palette colors plus
// the document font family. Sections do not inherit anything else from the
// document.
func (d *Document) themeSectionDefaults() style.Record {
	rec := d.Global.Palette.SectionStyles()
	if d.Global.FontFamily != "" {
		rec["fontFamily"] = d.Global.FontFamily
	}
	return rec
}

// themeElementDefaults is the lowest layer for elements: body text color and
// the document font family.
func (d *Document) themeElementDefaults() style.Record {
	rec := style.Record{}
	if d.Global.Palette.Text != "" {
		rec["color"] = d.Global.Palette.Text
	}
	if d.Global.FontFamily != "" {
		rec["fontFamily"] = d.Global.FontFamily
	}
	return rec
}

// ResolveSection computes the final presentation set for a section. The
// optional override layer carries a transient direct edit being applied.
func (m *Model) ResolveSection(id string, override style.Record) (style.Resolved, bool) {
	sec := m.doc.Section(id)
	if sec == nil {
		return style.Resolved{}, false
	}
	effective := style.Compose(m.doc.themeSectionDefaults(), sec.Styles, override)
	return style.Finalize(effective, m.doc.Global.FontSizes, 0), true
}

// inheritableFromSection renames section-level aliases to the property names
// elements use, so a higher element layer reliably shadows them after
// composition ("textColor" and "color" resolve to the same CSS property).
func inheritableFromSection(rec style.Record) style.Record {
	out := rec.Clone()
	for alias, canonical := range map[string]string{"textColor": "color", "align": "textAlign"} {
		if v, ok := out[alias]; ok {
			if _, has := out[canonical]; !has {
				out[canonical] = v
			}
			delete(out, alias)
		}
	}
	return out
}

// ResolveElement computes the final presentation set for a real or virtual
// element.
func (m *Model) ResolveElement(sectionID, elementID string, override style.Record) (style.Resolved, bool) {
	sec := m.doc.Section(sectionID)
	if sec == nil {
		return style.Resolved{}, false
	}

	var el *Element
	if _, ok := virtualPart(sec, elementID); ok {
		for _, v := range VirtualElements(sec) {
			if v.ID == elementID {
				el = v
				break
			}
		}
	} else {
		el = sec.element(elementID)
	}
	if el == nil {
		return style.Resolved{}, false
	}

	effective := style.Compose(m.doc.themeElementDefaults(), inheritableFromSection(sec.Styles), el.Style, override)
	return style.Finalize(effective, m.doc.Global.FontSizes, el.HeadingLevel()), true
}
