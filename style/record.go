package style

import "maps"

// Record is a partially-specified style record: property name to value. A
// value is a plain string for most properties, or a nested per-side/per-key
// record (map or Sides) for spacing-like composites. Records come straight
// out of persisted JSON, so nested values show up as map[string]any.
type Record map[string]any

// spacingProps are composite properties merged per sub-key instead of being
// replaced wholesale.
var spacingProps = map[string]bool{
	"padding":      true,
	"margin":       true,
	"borderRadius": true,
}

// IsSpacingProp reports whether the property is a per-side composite.
func IsSpacingProp(name string) bool {
	return spacingProps[name]
}

// Clone makes a one-level-deep copy. Nested maps are copied, everything else
// is a value type already.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	out := make(Record, len(r))
	for k, v := range r {
		if m, ok := v.(map[string]any); ok {
			out[k] = maps.Clone(m)
			continue
		}
		out[k] = v
	}
	return out
}

// GetString returns the property as a string, empty when absent or not a
// plain string value.
func (r Record) GetString(name string) string {
	if r == nil {
		return ""
	}
	s, _ := r[name].(string)
	return s
}

// Merge overlays src onto r property-wise. A property present in src wins;
// properties absent from src are untouched. Spacing composites merge per
// side, other nested maps merge one level deep. A nil value in src deletes
// the property.
func (r Record) Merge(src Record) {
	for name, incoming := range src {
		if incoming == nil {
			delete(r, name)
			continue
		}
		if IsSpacingProp(name) {
			r[name] = MergeSpacing(r[name], incoming)
			continue
		}
		if im, ok := incoming.(map[string]any); ok {
			if em, ok := r[name].(map[string]any); ok {
				merged := maps.Clone(em)
				maps.Copy(merged, im)
				r[name] = merged
				continue
			}
			r[name] = maps.Clone(im)
			continue
		}
		r[name] = incoming
	}
}

// Compose builds the effective record from layers given lowest-precedence
// first. The input layers are never modified.
func Compose(layers ...Record) Record {
	out := Record{}
	for _, layer := range layers {
		if len(layer) == 0 {
			continue
		}
		out.Merge(layer)
	}
	return out
}
