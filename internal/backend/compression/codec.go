package compression

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/jo-hoe/shelfintake/internal/backend/commands"
	"github.com/jo-hoe/shelfintake/internal/backend/commandstructure"
)

// Codec re-encodes a source image to JPEG at the given width and quality and
// returns the base64 (standard, padded) encoding of the result.
type Codec interface {
	Encode(ctx context.Context, source []byte, width int, quality float64) (string, error)
}

// CommandCodec encodes through the image command pipeline:
// PixelScaleCommand (width) followed by JpegConverterCommand (quality).
type CommandCodec struct{}

// NewCommandCodec creates the default codec
func NewCommandCodec() *CommandCodec {
	return &CommandCodec{}
}

func (c *CommandCodec) Encode(ctx context.Context, source []byte, width int, quality float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	scale, err := commands.NewPixelScaleCommandWithWidth(width)
	if err != nil {
		return "", fmt.Errorf("failed to create scale command: %w", err)
	}
	converter, err := commands.NewJpegConverterCommandWithQuality(quality)
	if err != nil {
		return "", fmt.Errorf("failed to create jpeg command: %w", err)
	}

	encoded, err := commandstructure.NewCommandInvoker([]commandstructure.Command{scale, converter}).Execute(source)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(encoded), nil
}
