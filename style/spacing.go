package style

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Sides is the canonical per-side spacing record. An empty side means
// "inherit/default", anything else is a ready-to-apply length string or a
// symbolic class token.
type Sides struct {
	Top    string `json:"top,omitempty" yaml:"top,omitempty"`
	Right  string `json:"right,omitempty" yaml:"right,omitempty"`
	Bottom string `json:"bottom,omitempty" yaml:"bottom,omitempty"`
	Left   string `json:"left,omitempty" yaml:"left,omitempty"`
}

// IsZero reports whether no side carries a value.
func (s Sides) IsZero() bool {
	return s == Sides{}
}

// Uniform returns the single value shared by all four sides. ok is false when
// sides differ - display code falls back to per-side inputs then.
func (s Sides) Uniform() (string, bool) {
	if s.Top == s.Right && s.Top == s.Bottom && s.Top == s.Left {
		return s.Top, true
	}
	return "", false
}

// Pixelize applies the bare-number rule: a unitless numeric string becomes a
// pixel length, empty input stays empty, everything else passes through
// untouched (symbolic tokens included).
func Pixelize(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return v + "px"
	}
	return v
}

// SetAll fans a single value out to all four sides, applying the
// numeric-to-pixel rule once.
func SetAll(v string) Sides {
	v = Pixelize(v)
	return Sides{Top: v, Right: v, Bottom: v, Left: v}
}

// NormalizeSpacing converts any accepted spacing representation into the
// canonical per-side record:
//
//   - a single string applies to all four sides
//   - a per-side record keeps only the sides present
//   - a bare numeric string is pixel-suffixed
//
// Unrecognized input yields an empty record.
func NormalizeSpacing(v any) Sides {
	switch val := v.(type) {
	case nil:
		return Sides{}
	case Sides:
		return Sides{
			Top:    Pixelize(val.Top),
			Right:  Pixelize(val.Right),
			Bottom: Pixelize(val.Bottom),
			Left:   Pixelize(val.Left),
		}
	case string:
		if strings.TrimSpace(val) == "" {
			return Sides{}
		}
		return SetAll(val)
	case map[string]any:
		var s Sides
		for key, raw := range val {
			str, _ := raw.(string)
			switch strings.ToLower(key) {
			case "top":
				s.Top = Pixelize(str)
			case "right":
				s.Right = Pixelize(str)
			case "bottom":
				s.Bottom = Pixelize(str)
			case "left":
				s.Left = Pixelize(str)
			}
		}
		return s
	case map[string]string:
		anyMap := make(map[string]any, len(val))
		for k, v := range val {
			anyMap[k] = v
		}
		return NormalizeSpacing(anyMap)
	}
	return Sides{}
}

// MergeSpacing overlays a partial spacing update onto an existing value
// per-side. A uniform string update replaces all four sides; a per-side
// update touches only the keys present, with an explicit empty string
// clearing that side.
func MergeSpacing(existing, update any) Sides {
	base := NormalizeSpacing(existing)
	switch val := update.(type) {
	case nil:
		return base
	case string:
		return SetAll(val)
	case Sides:
		return NormalizeSpacing(val)
	case map[string]any:
		for key, raw := range val {
			str, _ := raw.(string)
			str = Pixelize(str)
			switch strings.ToLower(key) {
			case "top":
				base.Top = str
			case "right":
				base.Right = str
			case "bottom":
				base.Bottom = str
			case "left":
				base.Left = str
			}
		}
		return base
	case map[string]string:
		anyMap := make(map[string]any, len(val))
		for k, v := range val {
			anyMap[k] = v
		}
		return MergeSpacing(base, anyMap)
	}
	return base
}

// SpacingValue wraps a spacing record so JSON documents can carry either the
// shorthand string or the per-side object form.
type SpacingValue struct {
	Sides
}

func (v *SpacingValue) UnmarshalJSON(data []byte) error {
	var short string
	if err := json.Unmarshal(data, &short); err == nil {
		v.Sides = NormalizeSpacing(short)
		return nil
	}
	var sides Sides
	if err := json.Unmarshal(data, &sides); err != nil {
		return err
	}
	v.Sides = NormalizeSpacing(sides)
	return nil
}

func (v SpacingValue) MarshalJSON() ([]byte, error) {
	if uni, ok := v.Uniform(); ok && uni != "" {
		return json.Marshal(uni)
	}
	return json.Marshal(v.Sides)
}
