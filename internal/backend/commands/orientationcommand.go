package commands

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/jo-hoe/shelfintake/internal/backend/commandstructure"
)

var validOrientations = map[string]bool{
	"portrait":  true,
	"landscape": true,
}

// OrientationParams represents typed parameters for orientation command
type OrientationParams struct {
	Orientation      string
	RotateWhenSquare bool
	Clockwise        bool
}

// NewOrientationParamsFromMap creates OrientationParams from a generic map
func NewOrientationParamsFromMap(params map[string]any) (*OrientationParams, error) {
	orientation := commandstructure.GetStringParam(params, "orientation", "portrait")
	if !validOrientations[orientation] {
		return nil, fmt.Errorf("invalid orientation: %s (must be 'portrait' or 'landscape')", orientation)
	}

	return &OrientationParams{
		Orientation:      orientation,
		RotateWhenSquare: commandstructure.GetBoolParam(params, "rotateWhenSquare", false),
		Clockwise:        commandstructure.GetBoolParam(params, "clockwise", true),
	}, nil
}

// OrientationCommand rotates captured pictures by 90 degrees so that they
// match the configured orientation. Output is PNG.
type OrientationCommand struct {
	name   string
	params *OrientationParams
}

// NewOrientationCommand creates a new orientation command from configuration parameters
func NewOrientationCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewOrientationParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &OrientationCommand{
		name:   "OrientationCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *OrientationCommand) Name() string {
	return c.name
}

// Execute rotates the image based on the configured orientation
func (c *OrientationCommand) Execute(imageData []byte) ([]byte, error) {
	img, _, err := decodeImage(imageData)
	if err != nil {
		slog.Error("OrientationCommand: failed to decode image", "error", err)
		return nil, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width == height && !c.params.RotateWhenSquare {
		slog.Debug("OrientationCommand: image is square and rotateWhenSquare=false; no rotation performed")
		return imageData, nil
	}
	if width != height {
		isCurrentlyPortrait := height > width
		if isCurrentlyPortrait == (c.params.Orientation == "portrait") {
			slog.Debug("OrientationCommand: already in correct orientation, no rotation needed",
				"width", width, "height", height)
			return imageData, nil
		}
	}

	slog.Info("OrientationCommand: rotating image 90 degrees",
		"clockwise", c.params.Clockwise,
		"width", width,
		"height", height)
	out, err := encodePNG(rotate90(img, c.params.Clockwise))
	if err != nil {
		slog.Error("OrientationCommand: failed to encode rotated image", "error", err)
		return nil, fmt.Errorf("failed to encode rotated PNG image: %w", err)
	}
	return out, nil
}

// rotate90 turns img a quarter turn; clockwise maps (x,y) to (h-1-y, x)
func rotate90(img image.Image, clockwise bool) *image.RGBA {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	rotated := image.NewRGBA(image.Rect(0, 0, height, width))
	parallelFor(height, func(y int) {
		for x := 0; x < width; x++ {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			if clockwise {
				rotated.Set(height-1-y, x, c)
			} else {
				rotated.Set(y, width-1-x, c)
			}
		}
	})
	return rotated
}

// GetOrientation returns the configured orientation
func (c *OrientationCommand) GetOrientation() string {
	return c.params.Orientation
}

// GetParams returns the typed parameters
func (c *OrientationCommand) GetParams() *OrientationParams {
	return c.params
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("OrientationCommand", NewOrientationCommand); err != nil {
		panic(fmt.Sprintf("failed to register OrientationCommand: %v", err))
	}
}
