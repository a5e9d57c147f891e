// Package compression shrinks captured pictures towards a soft byte budget by
// repeatedly downscaling and re-encoding them as JPEG.
package compression

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// Options configure the compression loop
type Options struct {
	InitialWidth   int     `yaml:"initialWidth"`
	InitialQuality float64 `yaml:"initialQuality"`
	MinWidth       int     `yaml:"minWidth"`
	MinQuality     float64 `yaml:"minQuality"`
	QualityStep    float64 `yaml:"qualityStep"`
	MaxAttempts    int     `yaml:"maxAttempts"`
	MaxSizeKB      float64 `yaml:"maxSizeKB"`
}

// DefaultOptions returns width 800, quality 0.5, 10 attempts and a 50 KB budget
func DefaultOptions() Options {
	return Options{
		InitialWidth:   800,
		InitialQuality: 0.5,
		MinWidth:       100,
		MinQuality:     0.1,
		QualityStep:    0.1,
		MaxAttempts:    10,
		MaxSizeKB:      50,
	}
}

// WithDefaults fills every unset field from DefaultOptions
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.InitialWidth <= 0 {
		o.InitialWidth = d.InitialWidth
	}
	if o.InitialQuality <= 0 {
		o.InitialQuality = d.InitialQuality
	}
	if o.MinWidth <= 0 {
		o.MinWidth = d.MinWidth
	}
	if o.MinQuality <= 0 {
		o.MinQuality = d.MinQuality
	}
	if o.QualityStep <= 0 {
		o.QualityStep = d.QualityStep
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = d.MaxAttempts
	}
	if o.MaxSizeKB <= 0 {
		o.MaxSizeKB = d.MaxSizeKB
	}
	return o
}

// Validate rejects option sets the loop cannot run with
func (o Options) Validate() error {
	if o.MinWidth > o.InitialWidth {
		return fmt.Errorf("minWidth %d exceeds initialWidth %d", o.MinWidth, o.InitialWidth)
	}
	if o.InitialQuality > 1 {
		return fmt.Errorf("initialQuality must be at most 1, got %v", o.InitialQuality)
	}
	if o.MinQuality > o.InitialQuality {
		return fmt.Errorf("minQuality %v exceeds initialQuality %v", o.MinQuality, o.InitialQuality)
	}
	return nil
}

// Result is one encoded attempt
type Result struct {
	Base64       string
	Width        int
	Quality      float64
	SizeKB       float64
	Attempts     int
	WithinBudget bool
}

// CompressionError reports a codec failure during one attempt
type CompressionError struct {
	Attempt int
	Width   int
	Quality float64
	Err     error
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("compression attempt %d (width=%d, quality=%.1f) failed: %v", e.Attempt, e.Width, e.Quality, e.Err)
}

func (e *CompressionError) Unwrap() error {
	return e.Err
}

// Compressor runs the downscale loop against a Codec
type Compressor struct {
	codec   Codec
	options Options
}

// NewCompressor creates a compressor; zero option fields take their defaults
func NewCompressor(codec Codec, options Options) *Compressor {
	return &Compressor{
		codec:   codec,
		options: options.WithDefaults(),
	}
}

// Options returns the effective options
func (c *Compressor) Options() Options {
	return c.options
}

// Compress encodes source at decreasing width and quality until the result fits
// MaxSizeKB. The budget is soft: when no attempt fits, the last (smallest)
// result is returned with WithinBudget=false.
func (c *Compressor) Compress(ctx context.Context, source []byte) (*Result, error) {
	width := c.options.InitialWidth
	quality := roundQuality(c.options.InitialQuality)

	var last *Result
	for attempt := 1; attempt <= c.options.MaxAttempts; attempt++ {
		encoded, err := c.codec.Encode(ctx, source, width, quality)
		if err != nil {
			slog.Error("Compressor: encode failed",
				"attempt", attempt, "width", width, "quality", quality, "error", err)
			return nil, &CompressionError{Attempt: attempt, Width: width, Quality: quality, Err: err}
		}

		sizeKB := EncodedSizeKB(encoded)
		last = &Result{
			Base64:   encoded,
			Width:    width,
			Quality:  quality,
			SizeKB:   sizeKB,
			Attempts: attempt,
		}
		if sizeKB <= c.options.MaxSizeKB {
			last.WithinBudget = true
			slog.Info("Compressor: compressed under budget",
				"max_size_kb", c.options.MaxSizeKB,
				"width", width,
				"quality", quality,
				"size_kb", fmt.Sprintf("%.2f", sizeKB),
				"attempts", attempt)
			return last, nil
		}

		nextWidth := max(c.options.MinWidth, width/2)
		nextQuality := math.Max(c.options.MinQuality, roundQuality(quality-c.options.QualityStep))
		if nextWidth == width && nextQuality == quality {
			// a deterministic codec would keep producing the same bytes
			break
		}
		width, quality = nextWidth, nextQuality
	}

	slog.Warn("Compressor: could not get under budget, returning smallest",
		"max_size_kb", c.options.MaxSizeKB,
		"attempts", last.Attempts,
		"size_kb", fmt.Sprintf("%.2f", last.SizeKB))
	return last, nil
}

func roundQuality(q float64) float64 {
	return math.Round(q*100) / 100
}
