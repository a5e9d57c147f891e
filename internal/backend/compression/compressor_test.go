package compression

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

type call struct {
	width   int
	quality float64
}

// fakeCodec returns a payload whose size is decided by sizeFor
type fakeCodec struct {
	calls   []call
	sizeFor func(width int, quality float64) int
	err     error
	failAt  int
}

func (f *fakeCodec) Encode(_ context.Context, _ []byte, width int, quality float64) (string, error) {
	f.calls = append(f.calls, call{width: width, quality: quality})
	if f.err != nil && len(f.calls) >= f.failAt {
		return "", f.err
	}
	return strings.Repeat("A", f.sizeFor(width, quality)), nil
}

// b64Len returns the base64 length of a payload of kb kilobytes
func b64Len(kb int) int {
	return kb * 1024 * 4 / 3
}

func TestCompress_FitsFirstAttempt(t *testing.T) {
	codec := &fakeCodec{sizeFor: func(int, float64) int { return b64Len(20) }}
	result, err := NewCompressor(codec, Options{}).Compress(context.Background(), []byte("src"))
	if err != nil {
		t.Fatalf("Compress error: %v", err)
	}

	if len(codec.calls) != 1 {
		t.Fatalf("expected 1 attempt, got %d", len(codec.calls))
	}
	if result.Width != 800 || result.Quality != 0.5 {
		t.Errorf("expected (800, 0.5), got (%d, %v)", result.Width, result.Quality)
	}
	if !result.WithinBudget || result.Attempts != 1 {
		t.Errorf("expected within budget after 1 attempt, got %+v", result)
	}
}

func TestCompress_FitsAfterDownscaling(t *testing.T) {
	codec := &fakeCodec{sizeFor: func(width int, _ float64) int {
		if width > 200 {
			return b64Len(120)
		}
		return b64Len(40)
	}}
	result, err := NewCompressor(codec, Options{}).Compress(context.Background(), []byte("src"))
	if err != nil {
		t.Fatalf("Compress error: %v", err)
	}

	want := []call{{800, 0.5}, {400, 0.4}, {200, 0.3}}
	if len(codec.calls) != len(want) {
		t.Fatalf("expected %d attempts, got %v", len(want), codec.calls)
	}
	for i := range want {
		if codec.calls[i] != want[i] {
			t.Errorf("attempt %d: expected %+v, got %+v", i+1, want[i], codec.calls[i])
		}
	}
	if !result.WithinBudget || result.Width != 200 || result.Attempts != 3 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestCompress_SoftBudgetReturnsSmallest(t *testing.T) {
	codec := &fakeCodec{sizeFor: func(width int, _ float64) int { return b64Len(width) }}
	result, err := NewCompressor(codec, Options{}).Compress(context.Background(), []byte("src"))
	if err != nil {
		t.Fatalf("Compress error: %v", err)
	}

	if result.WithinBudget {
		t.Error("expected budget miss to be reported")
	}
	if result.Width != 100 || result.Quality != 0.1 {
		t.Errorf("expected smallest parameters (100, 0.1), got (%d, %v)", result.Width, result.Quality)
	}
	if len(codec.calls) > 10 {
		t.Errorf("expected at most 10 attempts, got %d", len(codec.calls))
	}

	for i := 1; i < len(codec.calls); i++ {
		prev, cur := codec.calls[i-1], codec.calls[i]
		if cur.width < 100 || cur.quality < 0.1 {
			t.Errorf("attempt %d went below the floor: %+v", i+1, cur)
		}
		if !(cur.width < prev.width || cur.quality < prev.quality) {
			t.Errorf("attempt %d did not shrink: %+v -> %+v", i+1, prev, cur)
		}
	}
}

func TestCompress_AttemptCap(t *testing.T) {
	codec := &fakeCodec{sizeFor: func(int, float64) int { return b64Len(500) }}
	options := Options{InitialWidth: 100000, MinWidth: 1, InitialQuality: 1, MinQuality: 0.01, QualityStep: 0.01}
	result, err := NewCompressor(codec, options).Compress(context.Background(), []byte("src"))
	if err != nil {
		t.Fatalf("Compress error: %v", err)
	}
	if len(codec.calls) != 10 || result.Attempts != 10 {
		t.Errorf("expected exactly 10 attempts, got %d", len(codec.calls))
	}
	if result.Width != codec.calls[9].width {
		t.Errorf("expected last attempt to be returned, got width %d", result.Width)
	}
}

func TestCompress_Deterministic(t *testing.T) {
	sizeFor := func(width int, quality float64) int { return b64Len(int(float64(width) * quality / 2)) }
	first, err := NewCompressor(&fakeCodec{sizeFor: sizeFor}, Options{}).Compress(context.Background(), []byte("src"))
	if err != nil {
		t.Fatalf("Compress error: %v", err)
	}
	second, err := NewCompressor(&fakeCodec{sizeFor: sizeFor}, Options{}).Compress(context.Background(), []byte("src"))
	if err != nil {
		t.Fatalf("Compress error: %v", err)
	}
	if *first != *second {
		t.Errorf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestCompress_CodecFailure(t *testing.T) {
	codecErr := errors.New("codec exploded")
	codec := &fakeCodec{
		sizeFor: func(int, float64) int { return b64Len(100) },
		err:     codecErr,
		failAt:  2,
	}
	_, err := NewCompressor(codec, Options{}).Compress(context.Background(), []byte("src"))
	if err == nil {
		t.Fatal("expected error")
	}

	var compressionErr *CompressionError
	if !errors.As(err, &compressionErr) {
		t.Fatalf("expected *CompressionError, got %T", err)
	}
	if compressionErr.Attempt != 2 || compressionErr.Width != 400 {
		t.Errorf("unexpected failure details %+v", compressionErr)
	}
	if !errors.Is(err, codecErr) {
		t.Error("expected codec error to be wrapped")
	}
}

func TestOptions_Validate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Errorf("default options should be valid: %v", err)
	}
	bad := DefaultOptions()
	bad.MinWidth = 1000
	if err := bad.Validate(); err == nil {
		t.Error("expected minWidth > initialWidth to be rejected")
	}
	bad = DefaultOptions()
	bad.InitialQuality = 1.5
	if err := bad.Validate(); err == nil {
		t.Error("expected initialQuality > 1 to be rejected")
	}
}

func TestCommandCodec_EncodesJPEGAtWidth(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 300, 150))
	for y := 0; y < 150; y++ {
		for x := 0; x < 300; x++ {
			src.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 90, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("failed to build source: %v", err)
	}

	encoded, err := NewCommandCodec().Encode(context.Background(), buf.Bytes(), 120, 0.5)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("output is not base64: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("output is not JPEG: %v", err)
	}
	if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 60 {
		t.Errorf("expected 120x60, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestCommandCodec_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewCommandCodec().Encode(ctx, []byte("x"), 100, 0.5); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCompress_RealCodecRejectsGarbage(t *testing.T) {
	_, err := NewCompressor(NewCommandCodec(), Options{}).Compress(context.Background(), []byte("not an image"))
	var compressionErr *CompressionError
	if !errors.As(err, &compressionErr) {
		t.Fatalf("expected *CompressionError, got %v", err)
	}
}
