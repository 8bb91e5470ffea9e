package editor

import (
	"sort"

	"github.com/beevik/etree"

	"pbe/document"
)

// DumpXML renders the loaded page with fully resolved styles as indented
// XML. This is a diagnostic surface: it shows exactly what the resolution
// pipeline produces for every section and element, virtual parts included.
func (s *Session) DumpXML() (string, error) {
	if s.model == nil {
		return "", ErrNoPageLoaded
	}
	doc := s.model.Document()

	xml := etree.NewDocument()
	xml.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := xml.CreateElement("page")
	root.CreateAttr("ref", s.pageRef)
	root.CreateAttr("name", s.pageName)

	global := root.CreateElement("global")
	global.CreateAttr("preset", doc.Global.ActivePreset)
	global.CreateAttr("fontFamily", doc.Global.FontFamily)

	for _, sec := range doc.Sections {
		se := root.CreateElement("section")
		se.CreateAttr("id", sec.ID)
		se.CreateAttr("kind", string(sec.Kind))
		se.CreateAttr("variant", sec.Variant())
		if resolved, ok := s.ResolveSection(sec.ID, nil); ok {
			writeResolved(se, resolved.Inline, resolved.Classes)
		}

		elements := sec.Elements
		if virtual := document.VirtualElements(sec); virtual != nil {
			elements = virtual
		}
		for _, el := range elements {
			ee := se.CreateElement("element")
			ee.CreateAttr("id", el.ID)
			ee.CreateAttr("type", string(el.Type))
			if resolved, ok := s.ResolveElement(sec.ID, el.ID, nil); ok {
				writeResolved(ee, resolved.Inline, resolved.Classes)
			}
			if text, _ := el.Content["text"].(string); text != "" {
				ee.CreateElement("text").SetText(text)
			}
		}
	}

	xml.Indent(2)
	return xml.WriteToString()
}

func writeResolved(parent *etree.Element, inline map[string]string, classes []string) {
	if len(inline) > 0 {
		se := parent.CreateElement("style")
		props := make([]string, 0, len(inline))
		for prop := range inline {
			props = append(props, prop)
		}
		sort.Strings(props)
		for _, prop := range props {
			pe := se.CreateElement("prop")
			pe.CreateAttr("name", prop)
			pe.CreateAttr("value", inline[prop])
		}
	}
	for _, class := range classes {
		parent.CreateElement("class").SetText(class)
	}
}
