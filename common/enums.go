// Package common holds enumerations shared between the document model, the
// catalog and the CLI, so none of them have to import each other for a tag.
package common

import (
	"fmt"
	"strconv"
	"strings"
)

// SectionKind tags a top-level page block. The set is closed for built-in
// kinds, but externally fetched section variants arrive with their own kind
// strings, so the underlying type stays open.
type SectionKind string

const (
	SectionNavbar       SectionKind = "navbar"
	SectionHero         SectionKind = "hero"
	SectionFeatures     SectionKind = "features"
	SectionCTA          SectionKind = "cta"
	SectionFooter       SectionKind = "footer"
	SectionTestimonials SectionKind = "testimonials"
	SectionPricing      SectionKind = "pricing"
	SectionImageBanner  SectionKind = "image-banner"
	SectionElements     SectionKind = "elements"
)

// SectionKindNames lists built-in section kinds in presentation order.
func SectionKindNames() []string {
	return []string{
		string(SectionNavbar),
		string(SectionHero),
		string(SectionFeatures),
		string(SectionCTA),
		string(SectionTestimonials),
		string(SectionPricing),
		string(SectionImageBanner),
		string(SectionElements),
		string(SectionFooter),
	}
}

func (k SectionKind) String() string {
	return string(k)
}

// FixedPosition reports whether sections of this kind are pinned (navbar at
// the start, footer at the end) and excluded from manual reordering.
func (k SectionKind) FixedPosition() bool {
	return k == SectionNavbar || k == SectionFooter
}

// FixedLayout reports whether the kind exposes its structured fields through
// virtual elements instead of owning a real element list.
func (k SectionKind) FixedLayout() bool {
	return k == SectionHero
}

// OwnsElements reports whether sections of this kind carry an ordered element
// list of their own.
func (k SectionKind) OwnsElements() bool {
	return k == SectionElements
}

// ElementType tags an individually addressable content unit.
type ElementType string

const (
	ElementHeading        ElementType = "heading"
	ElementText           ElementType = "text"
	ElementButton         ElementType = "button"
	ElementImage          ElementType = "image"
	ElementVideo          ElementType = "video"
	ElementIcon           ElementType = "icon"
	ElementIconBox        ElementType = "icon-box"
	ElementImageBox       ElementType = "image-box"
	ElementList           ElementType = "list"
	ElementRating         ElementType = "rating"
	ElementBadge          ElementType = "badge"
	ElementHighlightText  ElementType = "highlight-text"
	ElementQuote          ElementType = "quote"
	ElementAccordion      ElementType = "accordion"
	ElementToggle         ElementType = "toggle"
	ElementTabs           ElementType = "tabs"
	ElementProgressBar    ElementType = "progress-bar"
	ElementCounter        ElementType = "counter"
	ElementTestimonial    ElementType = "testimonial"
	ElementReviewCarousel ElementType = "review-carousel"
	ElementAlertBox       ElementType = "alert-box"
	ElementPricingTable   ElementType = "pricing-table"
	ElementFlipBox        ElementType = "flip-box"
	ElementCallToAction   ElementType = "call-to-action"
	ElementCountdownTimer ElementType = "countdown-timer"
)

func (t ElementType) String() string {
	return string(t)
}

// ElementTypeNames lists all supported element types.
func ElementTypeNames() []string {
	return []string{
		string(ElementHeading), string(ElementText), string(ElementButton),
		string(ElementImage), string(ElementVideo), string(ElementIcon),
		string(ElementIconBox), string(ElementImageBox), string(ElementList),
		string(ElementRating), string(ElementBadge), string(ElementHighlightText),
		string(ElementQuote), string(ElementAccordion), string(ElementToggle),
		string(ElementTabs), string(ElementProgressBar), string(ElementCounter),
		string(ElementTestimonial), string(ElementReviewCarousel), string(ElementAlertBox),
		string(ElementPricingTable), string(ElementFlipBox), string(ElementCallToAction),
		string(ElementCountdownTimer),
	}
}

// IsKnownElementType reports whether t belongs to the closed element type set.
func IsKnownElementType(t ElementType) bool {
	for _, name := range ElementTypeNames() {
		if string(t) == name {
			return true
		}
	}
	return false
}

// MoveDirection specifies requested section neighbor swap direction.
type MoveDirection int

const (
	MoveUp MoveDirection = iota
	MoveDown
)

func (d MoveDirection) String() string {
	if d == MoveUp {
		return "up"
	}
	return "down"
}

// Heading levels are carried around as html tags (h1..h6) since that is what
// both the markup and the size resolver key on.

const (
	MinHeadingLevel = 1
	MaxHeadingLevel = 6
)

// ParseHeadingTag converts an "h1".."h6" tag to its numeric level.
func ParseHeadingTag(tag string) (int, error) {
	t := strings.ToLower(strings.TrimSpace(tag))
	if len(t) != 2 || t[0] != 'h' {
		return 0, fmt.Errorf("not a heading tag: %q", tag)
	}
	level, err := strconv.Atoi(t[1:])
	if err != nil || level < MinHeadingLevel || level > MaxHeadingLevel {
		return 0, fmt.Errorf("heading tag out of range: %q", tag)
	}
	return level, nil
}

// HeadingTag renders a numeric level back to its html tag, clamping the level
// into the valid range.
func HeadingTag(level int) string {
	if level < MinHeadingLevel {
		level = MinHeadingLevel
	}
	if level > MaxHeadingLevel {
		level = MaxHeadingLevel
	}
	return "h" + strconv.Itoa(level)
}
