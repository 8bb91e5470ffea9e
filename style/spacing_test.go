package style

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeSpacingForms(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want Sides
	}{
		{"bare number fans out pixelized", "12", Sides{Top: "12px", Right: "12px", Bottom: "12px", Left: "12px"}},
		{"length passes through", "1.5rem", Sides{Top: "1.5rem", Right: "1.5rem", Bottom: "1.5rem", Left: "1.5rem"}},
		{"token passes through", "py-4", Sides{Top: "py-4", Right: "py-4", Bottom: "py-4", Left: "py-4"}},
		{"empty string clears", "", Sides{}},
		{"per-side record keeps present sides", map[string]any{"top": "8", "left": "2rem"}, Sides{Top: "8px", Left: "2rem"}},
		{"nil yields empty", nil, Sides{}},
	}
	for _, tc := range cases {
		if got := NormalizeSpacing(tc.in); got != tc.want {
			t.Fatalf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestSetAllRoundTrip(t *testing.T) {
	s := SetAll("12")
	for _, side := range []string{s.Top, s.Right, s.Bottom, s.Left} {
		if side != "12px" {
			t.Fatalf("expected every side to read 12px, got %+v", s)
		}
	}
	if got := NormalizeSpacing(s); got != s {
		t.Fatalf("normalizing a canonical record changed it: %+v -> %+v", s, got)
	}
}

func TestMergeSpacingPartial(t *testing.T) {
	base := SetAll("10")
	merged := MergeSpacing(base, map[string]any{"top": "20", "bottom": ""})
	want := Sides{Top: "20px", Right: "10px", Bottom: "", Left: "10px"}
	if merged != want {
		t.Fatalf("partial merge got %+v, want %+v", merged, want)
	}
}

func TestSpacingValueJSON(t *testing.T) {
	var v SpacingValue
	if err := json.Unmarshal([]byte(`"16"`), &v); err != nil {
		t.Fatal(err)
	}
	if uni, ok := v.Uniform(); !ok || uni != "16px" {
		t.Fatalf("shorthand form: got %+v", v.Sides)
	}

	if err := json.Unmarshal([]byte(`{"top":"4","left":"1em"}`), &v); err != nil {
		t.Fatal(err)
	}
	want := Sides{Top: "4px", Left: "1em"}
	if v.Sides != want {
		t.Fatalf("object form: got %+v, want %+v", v.Sides, want)
	}

	data, err := json.Marshal(SpacingValue{Sides: SetAll("8")})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"8px"` {
		t.Fatalf("uniform record should marshal to shorthand, got %s", data)
	}

	var back SpacingValue
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.Sides, SetAll("8")) {
		t.Fatalf("round trip mismatch: %+v", back.Sides)
	}
}
