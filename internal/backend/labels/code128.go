// Package labels renders barcode previews for intake rows.
package labels

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"golang.org/x/image/draw"
)

const (
	DefaultWidth  = 300
	DefaultHeight = 80
)

// RenderCode128PNG encodes value as a Code 128 symbol scaled to width x height.
// The width grows to the symbol's module count when it would not fit.
func RenderCode128PNG(value string, width, height int) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("barcode value is empty")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	code, err := code128.Encode(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode code128: %w", err)
	}
	width = max(width, code.Bounds().Dx())

	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to scale barcode: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, toNRGBA(scaled)); err != nil {
		return nil, fmt.Errorf("failed to encode barcode png: %w", err)
	}
	return buf.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
