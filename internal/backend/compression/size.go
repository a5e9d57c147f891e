package compression

import "strings"

// EncodedSizeKB estimates the decoded byte size of a base64 payload in kilobytes:
// (len*3/4 - padding) / 1024 where padding is 2 for "==", 1 for "=", else 0.
func EncodedSizeKB(b64 string) float64 {
	padding := 0
	switch {
	case strings.HasSuffix(b64, "=="):
		padding = 2
	case strings.HasSuffix(b64, "="):
		padding = 1
	}
	return (float64(len(b64))*0.75 - float64(padding)) / 1024
}
