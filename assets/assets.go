// Package assets implements the image-upload collaborator: uploaded binaries
// are sniffed, SVGs rasterized, oversized images downscaled, and the result
// handed back as a named, data-URI addressable asset.
package assets

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"pbe/utils/images"
	"pbe/utils/text"
)

// Limits bound what the pipeline accepts and produces.
type Limits struct {
	MaxBytes    int64 // reject uploads larger than this, 0 disables the check
	MaxWidth    int   // downscale bound, 0 disables
	MaxHeight   int   // downscale bound, 0 disables
	JPEGQuality int   // re-encode quality for downscaled JPEGs
}

// DefaultLimits are reasonable bounds for page imagery.
func DefaultLimits() Limits {
	return Limits{
		MaxBytes:    10 << 20,
		MaxWidth:    2560,
		MaxHeight:   2560,
		JPEGQuality: 85,
	}
}

// Image is a processed upload ready to be referenced by a document.
type Image struct {
	Name   string // slugged, extension included
	Mime   string
	Width  int
	Height int
	Data   []byte
}

// DataURI renders the asset as an inline data reference.
func (i *Image) DataURI() string {
	return "data:" + i.Mime + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Processor runs uploads through the validation and conversion pipeline.
type Processor struct {
	limits Limits
	log    *zap.Logger
}

// NewProcessor returns a Processor with the given bounds.
func NewProcessor(limits Limits, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{limits: limits, log: log}
}

// Process validates and converts one uploaded binary. The original file name
// is only used to derive the stored asset name.
func (p *Processor) Process(name string, data []byte) (*Image, error) {
	if p.limits.MaxBytes > 0 && int64(len(data)) > p.limits.MaxBytes {
		return nil, fmt.Errorf("upload %s is too large: %d bytes (limit %d)", name, len(data), p.limits.MaxBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("upload %s is empty", name)
	}

	if looksLikeSVG(data) {
		return p.rasterizeSVG(name, data)
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("unable to sniff upload %s: %w", name, err)
	}
	switch kind.MIME.Value {
	case "image/png", "image/jpeg", "image/gif", "image/webp":
	default:
		return nil, fmt.Errorf("upload %s has unsupported type %q", name, kind.MIME.Value)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		if kind.MIME.Value == "image/webp" || kind.MIME.Value == "image/gif" {
			// pass through formats we cannot re-encode, size-checked only
			p.log.Debug("Storing upload without processing", zap.String("name", name), zap.String("type", kind.MIME.Value))
			return &Image{Name: assetName(name, "."+kind.Extension), Mime: kind.MIME.Value, Data: data}, nil
		}
		return nil, fmt.Errorf("unable to decode upload %s: %w", name, err)
	}

	bounds := img.Bounds()
	resized := false
	if p.exceedsBounds(bounds) {
		img = imaging.Fit(img, p.limits.MaxWidth, p.limits.MaxHeight, imaging.Lanczos)
		resized = true
		p.log.Debug("Downscaled upload",
			zap.String("name", name),
			zap.Int("width", img.Bounds().Dx()),
			zap.Int("height", img.Bounds().Dy()))
	}

	out := data
	mime := kind.MIME.Value
	ext := "." + kind.Extension
	if resized {
		buf := new(bytes.Buffer)
		switch kind.MIME.Value {
		case "image/jpeg":
			err = imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(p.jpegQuality()))
		default:
			err = imaging.Encode(buf, img, imaging.PNG)
			mime, ext = "image/png", ".png"
		}
		if err != nil {
			return nil, fmt.Errorf("unable to encode processed upload %s: %w", name, err)
		}
		out = buf.Bytes()
	}

	return &Image{
		Name:   assetName(name, ext),
		Mime:   mime,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Data:   out,
	}, nil
}

func (p *Processor) rasterizeSVG(name string, data []byte) (*Image, error) {
	img, err := images.RasterizeSVG(data, p.limits.MaxWidth, p.limits.MaxHeight)
	if err != nil {
		return nil, fmt.Errorf("unable to rasterize SVG upload %s: %w", name, err)
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("unable to encode rasterized SVG %s: %w", name, err)
	}
	p.log.Debug("Rasterized SVG upload",
		zap.String("name", name),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return &Image{
		Name:   assetName(name, ".png"),
		Mime:   "image/png",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Data:   buf.Bytes(),
	}, nil
}

func (p *Processor) exceedsBounds(b image.Rectangle) bool {
	if p.limits.MaxWidth > 0 && b.Dx() > p.limits.MaxWidth {
		return true
	}
	if p.limits.MaxHeight > 0 && b.Dy() > p.limits.MaxHeight {
		return true
	}
	return false
}

func (p *Processor) jpegQuality() int {
	if p.limits.JPEGQuality > 0 {
		return p.limits.JPEGQuality
	}
	return 85
}

// looksLikeSVG reports whether the payload starts with SVG markup. SVG is
// text, so magic-byte sniffing does not cover it.
func looksLikeSVG(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	s := strings.TrimSpace(string(head))
	if strings.HasPrefix(s, "<?xml") || strings.HasPrefix(s, "<!--") {
		return strings.Contains(s, "<svg")
	}
	return strings.HasPrefix(s, "<svg")
}

// assetName derives a slugged stored name from the upload name, replacing
// the extension with the processed format's.
func assetName(original, ext string) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	slugged := text.Slugify(base)
	if slugged == "" {
		slugged = "image"
	}
	return slugged + ext
}
