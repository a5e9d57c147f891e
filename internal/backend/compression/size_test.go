package compression

import (
	"strings"
	"testing"
)

func TestEncodedSizeKB(t *testing.T) {
	tests := []struct {
		name    string
		b64     string
		padding int
	}{
		{name: "no padding", b64: strings.Repeat("A", 4096), padding: 0},
		{name: "single padding", b64: strings.Repeat("A", 4095) + "=", padding: 1},
		{name: "double padding", b64: strings.Repeat("A", 4094) + "==", padding: 2},
		{name: "empty", b64: "", padding: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := (float64(len(tt.b64))*0.75 - float64(tt.padding)) / 1024
			if got := EncodedSizeKB(tt.b64); got != want {
				t.Errorf("EncodedSizeKB = %v, want %v", got, want)
			}
		})
	}
}

func TestEncodedSizeKB_KnownValue(t *testing.T) {
	// 68268 chars with "==" -> (51201 - 2) / 1024 = 49.999 KB
	b64 := strings.Repeat("A", 68266) + "=="
	got := EncodedSizeKB(b64)
	if got > 50 {
		t.Errorf("expected payload just under 50 KB, got %v", got)
	}
}
