package style

import (
	"sort"
	"strings"
)

// Resolved is the final, unambiguous presentation value set for one
// renderable node. Literal values are routed to Inline (CSS property name to
// value), symbolic values to Classes. A single property never contributes to
// both.
type Resolved struct {
	Inline  map[string]string
	Classes []string
}

// ClassAttr renders the class list as a single attribute value.
func (r Resolved) ClassAttr() string {
	return strings.Join(r.Classes, " ")
}

// metaProps carry editor semantics (template selection, heading tags, sizes
// consumed by virtual elements) and never surface as presentation values.
var metaProps = map[string]bool{
	"variant":         true,
	"headingTag":      true,
	"titleHeadingTag": true,
	"titleSize":       true,
	"subtitleSize":    true,
}

// cssNames maps record properties to the CSS property they resolve to.
// Palette-derived semantic fields become custom properties so the template
// for the section kind can consume them where it needs them.
var cssNames = map[string]string{
	"background":      "background",
	"backgroundColor": "background-color",
	"backgroundImage": "background-image",
	"color":           "color",
	"textColor":       "color",
	"fontFamily":      "font-family",
	"fontSize":        "font-size",
	"fontWeight":      "font-weight",
	"lineHeight":      "line-height",
	"letterSpacing":   "letter-spacing",
	"textAlign":       "text-align",
	"align":           "text-align",
	"borderColor":     "border-color",
	"borderWidth":     "border-width",
	"borderStyle":     "border-style",
	"boxShadow":       "box-shadow",
	"transform":       "transform",
	"opacity":         "opacity",
	"width":           "width",
	"height":          "height",
	"maxWidth":        "max-width",
	"minHeight":       "min-height",
	"gap":             "gap",

	"titleColor":    "--title-color",
	"subtitleColor": "--subtitle-color",
	"accentColor":   "--accent-color",
	"buttonColor":   "--button-color",
	"buttonBgColor": "--button-bg-color",
	"overlayColor":  "--overlay-color",
}

// spacingCSS maps composite properties to the per-side CSS property set in
// top/right/bottom/left order. Border radius reuses the Sides record with
// sides read clockwise from the top-left corner.
var spacingCSS = map[string][4]string{
	"padding": {"padding-top", "padding-right", "padding-bottom", "padding-left"},
	"margin":  {"margin-top", "margin-right", "margin-bottom", "margin-left"},
	"borderRadius": {
		"border-top-left-radius", "border-top-right-radius",
		"border-bottom-right-radius", "border-bottom-left-radius",
	},
}

// Finalize turns an effective (already composed) record into the resolved
// presentation set. level is the heading level of the node (0 for
// non-headings); ladder supplies the level-keyed default size applied when
// the record carries no explicit fontSize. Pure - safe to run on every state
// change.
func Finalize(rec Record, ladder FontSizes, level int) Resolved {
	out := Resolved{Inline: make(map[string]string)}

	// deterministic property order keeps Classes stable between runs
	names := make([]string, 0, len(rec))
	for name := range rec {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if metaProps[name] {
			continue
		}
		if IsSpacingProp(name) {
			finalizeSpacing(&out, name, rec[name])
			continue
		}
		val, ok := rec[name].(string)
		if !ok || val == "" {
			continue
		}
		if name == "fontSize" {
			finalizeFontSize(&out, val, level)
			continue
		}
		applyValue(&out, cssName(name), val)
	}

	// theme-tracking size: no explicit fontSize on a heading falls back to the
	// level-keyed ladder default
	if level > 0 && out.Inline["font-size"] == "" && !hasSizeClass(out.Classes) {
		if def := ladder.ForLevel(level); def != "" {
			out.Inline["font-size"] = def
		}
	}
	return out
}

func cssName(name string) string {
	if css, ok := cssNames[name]; ok {
		return css
	}
	// unknown properties pass through under their own name
	return name
}

func applyValue(out *Resolved, css, val string) {
	if Classify(val) == KindLiteral {
		out.Inline[css] = val
		return
	}
	out.Classes = append(out.Classes, val)
}

func finalizeSpacing(out *Resolved, name string, raw any) {
	props, ok := spacingCSS[name]
	if !ok {
		return
	}
	sides := NormalizeSpacing(raw)
	for i, val := range []string{sides.Top, sides.Right, sides.Bottom, sides.Left} {
		if val == "" {
			continue
		}
		applyValue(out, props[i], val)
	}
}

func finalizeFontSize(out *Resolved, val string, level int) {
	if Classify(val) == KindLiteral {
		out.Inline["font-size"] = val
		return
	}
	if level > 0 {
		val = ResolveHeadingSize(level, val)
	}
	out.Classes = append(out.Classes, strings.Fields(val)...)
}

// sizeClassSuffixes enumerates text-size utilities; other text-* classes
// (alignment, color) must not suppress the ladder default.
var sizeClassSuffixes = map[string]bool{
	"xs": true, "sm": true, "base": true, "lg": true, "xl": true,
	"2xl": true, "3xl": true, "4xl": true, "5xl": true, "6xl": true,
	"7xl": true, "8xl": true, "9xl": true,
}

func hasSizeClass(classes []string) bool {
	for _, c := range classes {
		c = strings.TrimPrefix(c, desktopPrefix)
		if suffix, ok := strings.CutPrefix(c, "text-"); ok && sizeClassSuffixes[suffix] {
			return true
		}
	}
	return false
}
