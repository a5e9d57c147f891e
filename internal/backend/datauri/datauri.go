// Package datauri converts between base64 image payloads and data URIs.
package datauri

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// JPEGPrefix precedes every image written into a row
const JPEGPrefix = "data:image/jpeg;base64,"

// FromJPEGBase64 wraps a base64 JPEG payload into a data URI
func FromJPEGBase64(payload string) string {
	return JPEGPrefix + payload
}

// StripPrefix returns the text after the first comma, or the whole value when
// it contains no comma.
func StripPrefix(value string) string {
	if _, payload, found := strings.Cut(value, ","); found {
		return payload
	}
	return value
}

// MediaType returns the media type of a data URI ("image/jpeg"), or "" for a bare payload
func MediaType(value string) string {
	head, _, found := strings.Cut(value, ",")
	if !found || !strings.HasPrefix(head, "data:") {
		return ""
	}
	mediaType, _, _ := strings.Cut(strings.TrimPrefix(head, "data:"), ";")
	return mediaType
}

// Decode returns the raw bytes carried by a data URI or a bare base64 payload
func Decode(value string) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("image is empty")
	}
	data, err := base64.StdEncoding.DecodeString(StripPrefix(value))
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image: %w", err)
	}
	return data, nil
}
