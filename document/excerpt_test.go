package document

import (
	"testing"

	"pbe/common"
)

func TestExcerptFromHeroSubtitle(t *testing.T) {
	d := New()
	d.Sections = append(d.Sections, &Section{
		ID:   "hero-1",
		Kind: common.SectionHero,
		Content: map[string]any{
			"subtitle": "First sentence. Second sentence. Third one never shows.",
		},
	})
	got := d.Excerpt()
	want := "First sentence. Second sentence."
	if got != want {
		t.Fatalf("Excerpt() = %q, want %q", got, want)
	}
}

func TestExcerptFallsBackToTextElement(t *testing.T) {
	d := New()
	d.Sections = append(d.Sections, &Section{
		ID:   "els-1",
		Kind: common.SectionElements,
		Elements: []*Element{
			{ID: "e1", Type: common.ElementImage, Content: map[string]any{}},
			{ID: "e2", Type: common.ElementText, Content: map[string]any{"text": "Body copy here."}},
		},
	})
	if got := d.Excerpt(); got != "Body copy here." {
		t.Fatalf("Excerpt() = %q", got)
	}
}

func TestExcerptEmptyDocument(t *testing.T) {
	d := New()
	if got := d.Excerpt(); got != "" {
		t.Fatalf("Excerpt() = %q, want empty", got)
	}
}
