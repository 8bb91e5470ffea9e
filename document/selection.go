package document

// Selection addresses at most one section and, within it, at most one
// element (real or virtual). Zero value means nothing is selected.
type Selection struct {
	SectionID string
	ElementID string
}

// None reports the NoSelection state.
func (s Selection) None() bool {
	return s.SectionID == ""
}

// Selection returns the current selection state.
func (m *Model) Selection() Selection {
	return m.sel
}

// SelectSection moves selection to a section, clearing any element
// selection. Unknown IDs leave the state untouched.
func (m *Model) SelectSection(id string) bool {
	if m.doc.Section(id) == nil {
		return false
	}
	m.sel = Selection{SectionID: id}
	return true
}

// SelectElement selects an element, implying selection of its owning
// section. The element must resolve - real within the section's list, or a
// valid virtual part for fixed-layout kinds.
func (m *Model) SelectElement(sectionID, elementID string) bool {
	sec := m.doc.Section(sectionID)
	if sec == nil {
		return false
	}
	if _, ok := virtualPart(sec, elementID); !ok && sec.element(elementID) == nil {
		return false
	}
	m.sel = Selection{SectionID: sectionID, ElementID: elementID}
	return true
}

// Back steps the selection out one level: element -> owning section ->
// nothing.
func (m *Model) Back() {
	switch {
	case m.sel.ElementID != "":
		m.sel.ElementID = ""
	default:
		m.sel = Selection{}
	}
}

// ClearSelection drops any selection.
func (m *Model) ClearSelection() {
	m.sel = Selection{}
}
