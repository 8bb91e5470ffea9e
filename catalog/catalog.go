// Package catalog is the kind-indexed schema and template table for the
// document model: which content fields a section kind carries, which
// rendering variants exist for it, and what a freshly created section looks
// like. It also serves as the built-in content-origin collaborator for the
// reset-to-default operation.
package catalog

import (
	"fmt"
	"maps"

	"pbe/common"
)

// Variants maps a section kind to its known rendering templates. The first
// entry is the default substituted for unknown variant tags.
var variants = map[common.SectionKind][]string{
	common.SectionNavbar:       {"simple", "centered", "split"},
	common.SectionHero:         {"centered", "split", "image-right", "minimal"},
	common.SectionFeatures:     {"grid", "list", "alternating"},
	common.SectionCTA:          {"banner", "boxed"},
	common.SectionFooter:       {"columns", "minimal"},
	common.SectionTestimonials: {"cards", "carousel"},
	common.SectionPricing:      {"tiers", "comparison"},
	common.SectionImageBanner:  {"full", "boxed"},
	common.SectionElements:     {"stack"},
}

// contentSchema lists the content fields each section kind actually uses.
// Updates drop fields outside the schema instead of growing amorphous
// records.
var contentSchema = map[common.SectionKind][]string{
	common.SectionNavbar:       {"brand", "links", "ctaText", "ctaLink", "logoImage"},
	common.SectionHero:         {"title", "subtitle", "buttonText", "buttonLink", "image", "imageAlt"},
	common.SectionFeatures:     {"title", "subtitle", "items"},
	common.SectionCTA:          {"title", "subtitle", "buttonText", "buttonLink"},
	common.SectionFooter:       {"brand", "tagline", "links", "copyright"},
	common.SectionTestimonials: {"title", "items"},
	common.SectionPricing:      {"title", "subtitle", "items"},
	common.SectionImageBanner:  {"image", "imageAlt", "title", "overlayText"},
	common.SectionElements:     {"title"},
}

func init() {
	// the registry must stay closed and consistent: every kind with a schema
	// has at least one variant to fall back to
	for kind := range contentSchema {
		if len(variants[kind]) == 0 {
			panic(fmt.Sprintf("catalog: section kind %q has no variants", kind))
		}
	}
}

// KnownKind reports whether the kind has a registered template.
func KnownKind(kind common.SectionKind) bool {
	_, ok := variants[kind]
	return ok
}

// DefaultVariant returns the fallback rendering template for a kind.
func DefaultVariant(kind common.SectionKind) string {
	if v, ok := variants[kind]; ok {
		return v[0]
	}
	return "default"
}

// ResolveVariant validates a variant tag against the registry; unknown tags
// fail fast to the documented default instead of rendering nothing.
func ResolveVariant(kind common.SectionKind, variant string) string {
	for _, v := range variants[kind] {
		if v == variant {
			return variant
		}
	}
	return DefaultVariant(kind)
}

// Variants lists the known rendering templates for a kind.
func Variants(kind common.SectionKind) []string {
	out := make([]string, len(variants[kind]))
	copy(out, variants[kind])
	return out
}

// FilterContent drops fields a kind's schema does not know about. Unknown
// kinds (externally fetched variants) keep their content untouched.
func FilterContent(kind common.SectionKind, content map[string]any) map[string]any {
	schema, ok := contentSchema[kind]
	if !ok {
		return content
	}
	allowed := make(map[string]bool, len(schema))
	for _, f := range schema {
		allowed[f] = true
	}
	out := make(map[string]any, len(content))
	for k, v := range content {
		if allowed[k] {
			out[k] = v
		}
	}
	return out
}

// templates hold the original content a new section of each kind starts
// with. Reset-to-default reads from the same table.
var templates = map[common.SectionKind]map[string]any{
	common.SectionNavbar: {
		"brand":   "Acme",
		"links":   []any{map[string]any{"label": "Home", "href": "#"}, map[string]any{"label": "Pricing", "href": "#pricing"}},
		"ctaText": "Get Started",
		"ctaLink": "#",
	},
	common.SectionHero: {
		"title":      "Build the Future.",
		"subtitle":   "Launch a polished site in minutes, not weeks.",
		"buttonText": "Start Free",
		"buttonLink": "#",
		"image":      "",
		"imageAlt":   "",
	},
	common.SectionFeatures: {
		"title":    "Everything you need",
		"subtitle": "All the essentials, none of the bloat.",
		"items": []any{
			map[string]any{"title": "Fast", "text": "Edits render instantly."},
			map[string]any{"title": "Flexible", "text": "Every block is adjustable."},
			map[string]any{"title": "Yours", "text": "Export clean markup anytime."},
		},
	},
	common.SectionCTA: {
		"title":      "Ready to ship?",
		"subtitle":   "Join thousands of makers already on board.",
		"buttonText": "Create your page",
		"buttonLink": "#",
	},
	common.SectionFooter: {
		"brand":     "Acme",
		"tagline":   "Pages that just work.",
		"links":     []any{map[string]any{"label": "Privacy", "href": "#"}},
		"copyright": "© Acme Inc.",
	},
	common.SectionTestimonials: {
		"title": "Loved by builders",
		"items": []any{
			map[string]any{"quote": "Shipped our launch page in an afternoon.", "author": "Dana R."},
		},
	},
	common.SectionPricing: {
		"title":    "Simple pricing",
		"subtitle": "Start free, upgrade when you grow.",
		"items": []any{
			map[string]any{"name": "Starter", "price": "$0", "features": []any{"1 page"}},
			map[string]any{"name": "Pro", "price": "$12", "features": []any{"Unlimited pages"}},
		},
	},
	common.SectionImageBanner: {
		"image":       "",
		"imageAlt":    "",
		"title":       "",
		"overlayText": "",
	},
	common.SectionElements: {
		"title": "",
	},
}

// sectionStyles is the style record a fresh section starts with.
var sectionStyles = map[common.SectionKind]map[string]any{
	common.SectionHero: {
		"variant":         "centered",
		"align":           "text-center",
		"titleHeadingTag": "h1",
		"padding":         map[string]any{"top": "96", "bottom": "96"},
	},
	common.SectionNavbar: {
		"variant": "simple",
		"padding": map[string]any{"top": "16", "bottom": "16"},
	},
}

// TemplateContent returns a deep-enough copy of the original content for a
// kind; ok is false when the kind has no registered template.
func TemplateContent(kind common.SectionKind) (map[string]any, bool) {
	tmpl, ok := templates[kind]
	if !ok {
		return nil, false
	}
	return cloneContent(tmpl), true
}

// TemplateStyles returns the starting style record for a kind. Kinds without
// a specific entry start with just their default variant.
func TemplateStyles(kind common.SectionKind) map[string]any {
	if tmpl, ok := sectionStyles[kind]; ok {
		out := cloneContent(tmpl)
		out["variant"] = ResolveVariant(kind, fmt.Sprint(out["variant"]))
		return out
	}
	return map[string]any{"variant": DefaultVariant(kind)}
}

func cloneContent(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		switch val := v.(type) {
		case map[string]any:
			out[k] = maps.Clone(val)
		case []any:
			list := make([]any, len(val))
			for i, item := range val {
				if m, ok := item.(map[string]any); ok {
					list[i] = maps.Clone(m)
					continue
				}
				list[i] = item
			}
			out[k] = list
		default:
			out[k] = v
		}
	}
	return out
}

// Origin is the built-in content-origin collaborator: it serves the original
// template content for reset-to-default.
type Origin struct{}

// GetOriginalContent returns the pristine content record for a section kind.
// The page reference is unused by the built-in origin but kept in the
// contract for remote implementations.
func (Origin) GetOriginalContent(_ string, kind common.SectionKind) (map[string]any, error) {
	content, ok := TemplateContent(kind)
	if !ok {
		return nil, fmt.Errorf("no original content recorded for section kind %q", kind)
	}
	return content, nil
}
