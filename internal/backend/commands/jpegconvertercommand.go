package commands

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"log/slog"
	"math"

	"github.com/jo-hoe/shelfintake/internal/backend/commandstructure"
)

const defaultJpegQuality = 0.5

// JpegConverterCommand re-encodes an image of any supported format as JPEG.
// Quality is expressed in (0, 1] and mapped onto the encoder's 1..100 scale.
type JpegConverterCommand struct {
	name    string
	quality float64
}

// NewJpegConverterCommand creates a JPEG converter from configuration parameters
func NewJpegConverterCommand(params map[string]any) (commandstructure.Command, error) {
	return NewJpegConverterCommandWithQuality(commandstructure.GetFloatParam(params, "quality", defaultJpegQuality))
}

// NewJpegConverterCommandWithQuality creates a JPEG converter with a concrete quality
func NewJpegConverterCommandWithQuality(quality float64) (*JpegConverterCommand, error) {
	if quality <= 0 || quality > 1 {
		return nil, fmt.Errorf("quality must be in (0, 1], got %v", quality)
	}
	return &JpegConverterCommand{
		name:    "JpegConverterCommand",
		quality: quality,
	}, nil
}

// Name returns the command name
func (c *JpegConverterCommand) Name() string {
	return c.name
}

// Quality returns the configured quality
func (c *JpegConverterCommand) Quality() float64 {
	return c.quality
}

// Execute decodes the input and encodes it as JPEG at the configured quality
func (c *JpegConverterCommand) Execute(imageData []byte) ([]byte, error) {
	img, format, err := decodeImage(imageData)
	if err != nil {
		slog.Error("JpegConverterCommand: failed to decode image", "error", err)
		return nil, err
	}

	var buf bytes.Buffer
	options := &jpeg.Options{Quality: c.encoderQuality()}
	if err := jpeg.Encode(&buf, flattenOnWhite(img), options); err != nil {
		slog.Error("JpegConverterCommand: failed to encode image", "error", err)
		return nil, fmt.Errorf("failed to encode image to JPEG: %w", err)
	}

	slog.Debug("JpegConverterCommand: conversion complete",
		"source_format", format,
		"quality", options.Quality,
		"input_size_bytes", len(imageData),
		"output_size_bytes", buf.Len())
	return buf.Bytes(), nil
}

func (c *JpegConverterCommand) encoderQuality() int {
	q := int(math.Round(c.quality * 100))
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("JpegConverterCommand", NewJpegConverterCommand); err != nil {
		panic(fmt.Sprintf("failed to register JpegConverterCommand: %v", err))
	}
}
