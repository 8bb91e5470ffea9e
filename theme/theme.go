// Package theme defines theme presets (palette, font-size ladder, font
// family) and the persisted theme settings record.
package theme

import (
	"sort"

	"pbe/style"
)

// Palette is the named color set a preset carries. All values are literal
// colors.
type Palette struct {
	Background string `json:"background" yaml:"background"`
	Text       string `json:"text" yaml:"text"`
	Title      string `json:"title" yaml:"title"`
	Subtitle   string `json:"subtitle" yaml:"subtitle"`
	Accent     string `json:"accent" yaml:"accent"`
	Button     string `json:"button" yaml:"button"`
	ButtonText string `json:"buttonText" yaml:"button_text"`
	Border     string `json:"border" yaml:"border"`
	Overlay    string `json:"overlay" yaml:"overlay"`
}

// Merge fills empty fields from other so partially persisted palettes fall
// back to defaults per field.
func (p Palette) Merge(other Palette) Palette {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return Palette{
		Background: pick(p.Background, other.Background),
		Text:       pick(p.Text, other.Text),
		Title:      pick(p.Title, other.Title),
		Subtitle:   pick(p.Subtitle, other.Subtitle),
		Accent:     pick(p.Accent, other.Accent),
		Button:     pick(p.Button, other.Button),
		ButtonText: pick(p.ButtonText, other.ButtonText),
		Border:     pick(p.Border, other.Border),
		Overlay:    pick(p.Overlay, other.Overlay),
	}
}

// SectionStyles renders the palette as the section-level style keys the
// theme application pipeline overwrites.
func (p Palette) SectionStyles() style.Record {
	return style.Record{
		"backgroundColor": p.Background,
		"textColor":       p.Text,
		"titleColor":      p.Title,
		"subtitleColor":   p.Subtitle,
		"accentColor":     p.Accent,
		"buttonColor":     p.ButtonText,
		"buttonBgColor":   p.Button,
		"borderColor":     p.Border,
		"overlayColor":    p.Overlay,
	}
}

// PaletteStyleKeys lists the section style keys owned by the palette. Theme
// application overwrites exactly these and nothing else.
func PaletteStyleKeys() []string {
	return []string{
		"backgroundColor", "textColor", "titleColor", "subtitleColor",
		"accentColor", "buttonColor", "buttonBgColor", "borderColor", "overlayColor",
	}
}

// Preset is a named bundle applied in one atomic operation.
type Preset struct {
	Name       string          `json:"name" yaml:"name"`
	Palette    Palette         `json:"palette" yaml:"palette"`
	FontSizes  style.FontSizes `json:"fontSizes,omitempty" yaml:"font_sizes,omitempty"`
	FontFamily string          `json:"fontFamily,omitempty" yaml:"font_family,omitempty"`
}

// Settings is the persisted per-project theme state. Preset is empty for a
// fully custom palette.
type Settings struct {
	Preset       string          `json:"preset,omitempty"`
	FontSizes    style.FontSizes `json:"fontSizes"`
	FontFamily   string          `json:"fontFamily"`
	CustomColors *Palette        `json:"customColors,omitempty"`
}

// WithDefaults fills missing fields from built-in defaults per field, the
// tolerance required for partially populated persisted records.
func (s Settings) WithDefaults() Settings {
	out := s
	out.FontSizes = s.FontSizes.Merge(style.DefaultFontSizes())
	if out.FontFamily == "" {
		out.FontFamily = DefaultPreset().FontFamily
	}
	return out
}

var presets = map[string]Preset{
	"aurora": {
		Name: "aurora",
		Palette: Palette{
			Background: "#FFFFFF", Text: "#334155", Title: "#0F172A",
			Subtitle: "#64748B", Accent: "#4F46E5", Button: "#4F46E5",
			ButtonText: "#FFFFFF", Border: "#E2E8F0", Overlay: "rgba(15, 23, 42, 0.55)",
		},
		FontSizes:  style.DefaultFontSizes(),
		FontFamily: "Inter",
	},
	"midnight": {
		Name: "midnight",
		Palette: Palette{
			Background: "#0B1120", Text: "#CBD5E1", Title: "#F8FAFC",
			Subtitle: "#94A3B8", Accent: "#38BDF8", Button: "#38BDF8",
			ButtonText: "#0B1120", Border: "#1E293B", Overlay: "rgba(2, 6, 23, 0.65)",
		},
		FontSizes:  style.DefaultFontSizes(),
		FontFamily: "Space Grotesk",
	},
	"forest": {
		Name: "forest",
		Palette: Palette{
			Background: "#F7FDF9", Text: "#1F2937", Title: "#14532D",
			Subtitle: "#4B5563", Accent: "#16A34A", Button: "#16A34A",
			ButtonText: "#FFFFFF", Border: "#DCFCE7", Overlay: "rgba(20, 83, 45, 0.5)",
		},
		FontSizes:  style.DefaultFontSizes(),
		FontFamily: "Lora",
	},
	"ember": {
		Name: "ember",
		Palette: Palette{
			Background: "#FFFBF5", Text: "#44403C", Title: "#7C2D12",
			Subtitle: "#78716C", Accent: "#EA580C", Button: "#EA580C",
			ButtonText: "#FFFFFF", Border: "#FED7AA", Overlay: "rgba(124, 45, 18, 0.5)",
		},
		FontSizes:  style.DefaultFontSizes(),
		FontFamily: "Sora",
	},
}

// DefaultPreset is what new documents start from.
func DefaultPreset() Preset {
	return presets["aurora"]
}

// PresetByName looks a preset up by identity.
func PresetByName(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// PresetNames lists available presets in stable order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
