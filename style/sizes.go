package style

import (
	"strings"

	"pbe/common"
)

// headingScale is the fixed descending ladder used to derive lower heading
// level sizes from the level-1 base token. Exactly six rungs: level 6 always
// lands on the floor no matter where the base sits.
var headingScale = []string{
	"text-base", "text-lg", "text-2xl", "text-4xl", "text-5xl", "text-6xl",
}

const desktopPrefix = "md:"

func scaleIndex(token string) int {
	for i, t := range headingScale {
		if t == token {
			return i
		}
	}
	return -1
}

// stepDown moves a single size token the requested number of rungs down the
// ladder, clamped at the floor. Tokens outside the ladder pass through
// unchanged.
func stepDown(token string, rungs int) string {
	idx := scaleIndex(token)
	if idx < 0 {
		return token
	}
	idx -= rungs
	if idx < 0 {
		idx = 0
	}
	return headingScale[idx]
}

// ResolveHeadingSize computes the effective responsive size classes for a
// heading level, given the level-1 base size ("text-4xl md:text-6xl"
// style pairs, single tokens allowed). Level 1 is the anchor and returns the
// base unchanged; each lower level steps every responsive component one more
// rung down, floored at the smallest ladder entry. An empty base returns ""
// so the caller can defer to the theme's level-keyed default.
//
// The base is always the stored level-1 anchor - resolved output is never
// written back into the anchor field, which keeps repeated resolution over
// unchanged state stable.
func ResolveHeadingSize(level int, base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	if level < common.MinHeadingLevel {
		level = common.MinHeadingLevel
	}
	if level > common.MaxHeadingLevel {
		level = common.MaxHeadingLevel
	}
	if level == common.MinHeadingLevel {
		return base
	}

	rungs := level - common.MinHeadingLevel
	parts := strings.Fields(base)
	for i, part := range parts {
		if rest, ok := strings.CutPrefix(part, desktopPrefix); ok {
			parts[i] = desktopPrefix + stepDown(rest, rungs)
			continue
		}
		parts[i] = stepDown(part, rungs)
	}
	return strings.Join(parts, " ")
}

// FontSizes is the level-keyed default size ladder: heading levels 1-6 plus
// the four text tiers. Values are literal lengths applied inline when a node
// has no explicit size of its own.
type FontSizes struct {
	H1 string `json:"h1,omitempty" yaml:"h1,omitempty"`
	H2 string `json:"h2,omitempty" yaml:"h2,omitempty"`
	H3 string `json:"h3,omitempty" yaml:"h3,omitempty"`
	H4 string `json:"h4,omitempty" yaml:"h4,omitempty"`
	H5 string `json:"h5,omitempty" yaml:"h5,omitempty"`
	H6 string `json:"h6,omitempty" yaml:"h6,omitempty"`

	TextSM   string `json:"textSm,omitempty" yaml:"text_sm,omitempty"`
	TextBase string `json:"textBase,omitempty" yaml:"text_base,omitempty"`
	TextLG   string `json:"textLg,omitempty" yaml:"text_lg,omitempty"`
	TextXL   string `json:"textXl,omitempty" yaml:"text_xl,omitempty"`
}

// DefaultFontSizes returns the built-in ladder used when loaded settings are
// partial or missing.
func DefaultFontSizes() FontSizes {
	return FontSizes{
		H1: "3rem", H2: "2.25rem", H3: "1.875rem",
		H4: "1.5rem", H5: "1.25rem", H6: "1rem",
		TextSM: "0.875rem", TextBase: "1rem", TextLG: "1.125rem", TextXL: "1.25rem",
	}
}

// ForLevel returns the ladder default for a heading level. Out-of-range
// levels clamp into 1..6.
func (f FontSizes) ForLevel(level int) string {
	switch {
	case level <= 1:
		return f.H1
	case level == 2:
		return f.H2
	case level == 3:
		return f.H3
	case level == 4:
		return f.H4
	case level == 5:
		return f.H5
	default:
		return f.H6
	}
}

// Merge fills empty fields from other, field by field. Used to tolerate
// partially populated persisted settings.
func (f FontSizes) Merge(other FontSizes) FontSizes {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return FontSizes{
		H1: pick(f.H1, other.H1), H2: pick(f.H2, other.H2), H3: pick(f.H3, other.H3),
		H4: pick(f.H4, other.H4), H5: pick(f.H5, other.H5), H6: pick(f.H6, other.H6),
		TextSM:   pick(f.TextSM, other.TextSM),
		TextBase: pick(f.TextBase, other.TextBase),
		TextLG:   pick(f.TextLG, other.TextLG),
		TextXL:   pick(f.TextXL, other.TextXL),
	}
}
