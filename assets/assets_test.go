package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestProcessSmallPNGUntouched(t *testing.T) {
	p := NewProcessor(DefaultLimits(), nil)
	data := pngBytes(t, 100, 80)
	img, err := p.Process("My Photo.PNG", data)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if img.Name != "my-photo.png" {
		t.Fatalf("name = %q", img.Name)
	}
	if img.Mime != "image/png" || img.Width != 100 || img.Height != 80 {
		t.Fatalf("meta = %+v", img)
	}
	if !bytes.Equal(img.Data, data) {
		t.Fatalf("small image was re-encoded")
	}
}

func TestProcessDownscalesOversized(t *testing.T) {
	p := NewProcessor(Limits{MaxWidth: 50, MaxHeight: 50, JPEGQuality: 85}, nil)
	img, err := p.Process("big.png", pngBytes(t, 200, 100))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if img.Width != 50 || img.Height != 25 {
		t.Fatalf("downscaled to %dx%d, want 50x25", img.Width, img.Height)
	}
	if img.Mime != "image/png" {
		t.Fatalf("mime = %q", img.Mime)
	}
}

func TestProcessRasterizesSVG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 40 20">
<rect width="40" height="20" fill="#16A34A"/></svg>`)
	p := NewProcessor(Limits{}, nil)
	img, err := p.Process("logo.svg", svg)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if img.Mime != "image/png" || img.Name != "logo.png" {
		t.Fatalf("svg not rasterized: %+v", img)
	}
	if img.Width != 40 || img.Height != 20 {
		t.Fatalf("raster size = %dx%d", img.Width, img.Height)
	}
	if _, err := png.Decode(bytes.NewReader(img.Data)); err != nil {
		t.Fatalf("output is not PNG: %v", err)
	}
}

func TestProcessRejectsUnsupportedType(t *testing.T) {
	p := NewProcessor(DefaultLimits(), nil)
	if _, err := p.Process("doc.pdf", []byte("%PDF-1.7 not an image")); err == nil {
		t.Fatalf("expected error for non-image upload")
	}
}

func TestProcessRejectsOversizedUpload(t *testing.T) {
	p := NewProcessor(Limits{MaxBytes: 16}, nil)
	if _, err := p.Process("big.png", pngBytes(t, 10, 10)); err == nil {
		t.Fatalf("expected error for byte limit")
	}
}

func TestProcessRejectsEmptyUpload(t *testing.T) {
	p := NewProcessor(DefaultLimits(), nil)
	if _, err := p.Process("empty.png", nil); err == nil {
		t.Fatalf("expected error for empty upload")
	}
}

func TestDataURI(t *testing.T) {
	img := &Image{Mime: "image/png", Data: []byte{1, 2, 3}}
	uri := img.DataURI()
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("uri = %q", uri)
	}
}

func TestLooksLikeSVG(t *testing.T) {
	if !looksLikeSVG([]byte(`<?xml version="1.0"?><svg></svg>`)) {
		t.Fatalf("xml-prefixed svg not detected")
	}
	if !looksLikeSVG([]byte("  <svg xmlns=\"x\"/>")) {
		t.Fatalf("bare svg not detected")
	}
	if looksLikeSVG(pngBytes(t, 2, 2)) {
		t.Fatalf("png detected as svg")
	}
}
