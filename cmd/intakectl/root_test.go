package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jo-hoe/shelfintake/internal/core"
)

func writeTestPNG(t *testing.T, dir string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 90, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, "picture.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoadConfig_MissingFileFallsBackToDefaults(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "absent.yaml")

	config, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, core.VariantBlankRow, config.Variant)
	assert.Equal(t, 800, config.Compression.InitialWidth)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("port: [not a number"), 0o644))

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestCompressCommand_WritesJPEG(t *testing.T) {
	dir := t.TempDir()
	input := writeTestPNG(t, dir, 200, 100)
	output := filepath.Join(dir, "out.jpg")

	stdout, err := runRoot(t, "compress", input, "-o", output, "--max-kb", "500", "--config", filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "width=800")
	assert.Contains(t, stdout, "wrote "+output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestFolderSet_RejectsMemoryStore(t *testing.T) {
	_, err := runRoot(t, "folder", "set", "shelf-A", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "does not persist")
}

func TestPush_RequiresPositiveRow(t *testing.T) {
	_, err := runRoot(t, "push", "--row", "0", "--folder", "shelf-A", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "--row")
}

func TestPush_UploadsToConfiguredEndpoint(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&received)
		_, _ = w.Write([]byte(`"ok"`))
	}))
	defer server.Close()

	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte("endpoint: "+server.URL+"\n"), 0o644))

	stdout, err := runRoot(t, "push", "--row", "3", "--barcode", "4006381333931", "--folder", "shelf-A", "--config", config)
	require.NoError(t, err)
	assert.Contains(t, stdout, "row 3 of shelf-A uploaded to "+server.URL)
	assert.Equal(t, "3", received["row"])
	assert.Equal(t, "4006381333931", received["barcode"])
	assert.Equal(t, "shelf-A", received["folderName"])
}
