package document

import (
	"testing"

	"pbe/common"
	"pbe/style"
)

func TestVirtualElementsProjection(t *testing.T) {
	m := newTestModel(t)
	hero := m.CreateSection(common.SectionHero)

	parts := VirtualElements(hero)
	if len(parts) != 4 {
		t.Fatalf("hero must expose 4 virtual parts, got %d", len(parts))
	}
	ids := map[string]bool{}
	for _, el := range parts {
		ids[el.ID] = true
	}
	for _, part := range []string{"title", "subtitle", "button", "image"} {
		if !ids[VirtualID(hero.ID, part)] {
			t.Fatalf("missing virtual part %q in %v", part, ids)
		}
	}

	features := m.CreateSection(common.SectionFeatures)
	if VirtualElements(features) != nil {
		t.Fatalf("non fixed-layout kinds must not synthesize virtual elements")
	}
}

func TestVirtualUpdateRoundTrip(t *testing.T) {
	m := newTestModel(t)
	hero := m.CreateSection(common.SectionHero)
	id := VirtualID(hero.ID, "title")

	m.UpdateElement(hero.ID, id, ElementPatch{Content: map[string]any{"text": "Ship it"}})
	if hero.Content["title"] != "Ship it" {
		t.Fatalf("virtual title edit must write through to section content: %v", hero.Content["title"])
	}

	// reading the projection back reflects the write immediately
	for _, el := range VirtualElements(hero) {
		if el.ID == id && el.Content["text"] != "Ship it" {
			t.Fatalf("projection out of sync: %v", el.Content["text"])
		}
	}

	m.UpdateElement(hero.ID, id, ElementPatch{Style: style.Record{"color": "#E11D48", "fontSize": "text-5xl"}})
	if hero.Styles.GetString("titleColor") != "#E11D48" {
		t.Fatalf("virtual style edit must land in namespaced section styles: %+v", hero.Styles)
	}
	if hero.Styles.GetString("titleSize") != "text-5xl" {
		t.Fatalf("virtual size edit must land in titleSize: %+v", hero.Styles)
	}

	button := VirtualID(hero.ID, "button")
	m.UpdateElement(hero.ID, button, ElementPatch{
		Content: map[string]any{"text": "Buy now", "link": "/buy"},
		Style:   style.Record{"backgroundColor": "#000000"},
	})
	if hero.Content["buttonText"] != "Buy now" || hero.Content["buttonLink"] != "/buy" {
		t.Fatalf("button fields not routed: %+v", hero.Content)
	}
	if hero.Styles.GetString("buttonBgColor") != "#000000" {
		t.Fatalf("button background not routed: %+v", hero.Styles)
	}
}

func TestVirtualSelectionAndLifecycle(t *testing.T) {
	m := newTestModel(t)
	hero := m.CreateSection(common.SectionHero)
	id := VirtualID(hero.ID, "subtitle")

	if !m.SelectElement(hero.ID, id) {
		t.Fatalf("virtual elements must be selectable")
	}
	if m.SelectElement(hero.ID, VirtualID(hero.ID, "nope")) {
		t.Fatalf("unknown virtual part must not be selectable")
	}

	// virtual IDs vanish with their section
	m.DeleteSection(hero.ID)
	if !m.Selection().None() {
		t.Fatalf("selection must clear with the owning section")
	}
}

func TestVirtualPatchHandAssembledSection(t *testing.T) {
	// documents built by callers may carry sections with nil maps
	m := NewModel(&Document{Sections: []*Section{{ID: "s1", Kind: common.SectionHero}}}, nil)
	id := VirtualID("s1", "title")

	m.UpdateElement("s1", id, ElementPatch{Content: map[string]any{"htmlTag": "h2"}})
	sec := m.Document().Section("s1")
	if sec.Styles.GetString("titleHeadingTag") != "h2" {
		t.Fatalf("heading tag not routed: %+v", sec.Styles)
	}

	bare := &Section{ID: "s2", Kind: common.SectionHero}
	if !resetVirtualPart(bare, "title", map[string]any{"title": "Welcome"}) {
		t.Fatalf("reset must restore fields the origin carries")
	}
	if bare.Content["title"] != "Welcome" {
		t.Fatalf("reset not written through: %+v", bare.Content)
	}
}

func TestVirtualHeadingTagDrivesLevel(t *testing.T) {
	m := newTestModel(t)
	hero := m.CreateSection(common.SectionHero)
	id := VirtualID(hero.ID, "title")

	m.UpdateElement(hero.ID, id, ElementPatch{Content: map[string]any{"htmlTag": "h3"}})
	if hero.Styles.GetString("titleHeadingTag") != "h3" {
		t.Fatalf("heading tag not routed: %+v", hero.Styles)
	}
	for _, el := range VirtualElements(hero) {
		if el.ID == id && el.HeadingLevel() != 3 {
			t.Fatalf("projected level mismatch: %d", el.HeadingLevel())
		}
	}
}
