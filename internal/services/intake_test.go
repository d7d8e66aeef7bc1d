// internal/services/intake_test.go
package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssetRole(t *testing.T) {
	role, ok := ParseAssetRole("glb-compressed")
	assert.True(t, ok)
	assert.Equal(t, RoleGLBCompressed, role)

	role, ok = ParseAssetRole("COVER")
	assert.True(t, ok)
	assert.Equal(t, RoleCover, role)

	_, ok = ParseAssetRole("hologram")
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		mimeType string
		want     AssetCategory
	}{
		{"mp4 video", "walkthrough.mp4", "video/mp4", CategoryVideo},
		{"webm video", "teaser.webm", "video/webm", CategoryVideo},
		{"glb by mime", "wrap.glb", "model/gltf-binary", CategoryModel},
		{"glb as octet-stream", "wrap.glb", "application/octet-stream", CategoryModel},
		{"svg blueprint", "cutlines.svg", "image/svg+xml", CategoryVector},
		{"pdf blueprint", "cutlines.pdf", "application/pdf", CategoryVector},
		{"svg with generic mime", "cutlines.svg", "text/plain", CategoryVector},
		{"jpeg image", "cover.jpg", "image/jpeg", CategoryImage},
		{"unknown falls through to image", "notes.txt", "text/plain", CategoryImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.filename, tt.mimeType))
		})
	}
}

func TestValidateFileSizeLimits(t *testing.T) {
	// One over and one at the limit per category
	assert.Nil(t, ValidateFile("cover.png", "image/png", 5<<20))
	assert.NotNil(t, ValidateFile("cover.png", "image/png", 5<<20+1))

	assert.Nil(t, ValidateFile("wrap.glb", "model/gltf-binary", 50<<20))
	assert.NotNil(t, ValidateFile("wrap.glb", "model/gltf-binary", 80<<20))

	assert.Nil(t, ValidateFile("full.mp4", "video/mp4", 100<<20))
	assert.NotNil(t, ValidateFile("full.mp4", "video/mp4", 100<<20+1))

	assert.Nil(t, ValidateFile("cutlines.pdf", "application/pdf", 10<<20))
	assert.NotNil(t, ValidateFile("cutlines.pdf", "application/pdf", 10<<20+1))
}

func TestValidateFileTypeGate(t *testing.T) {
	err := ValidateFile("payload.exe", "application/x-msdownload", 1024)
	require.NotNil(t, err)
	assert.Equal(t, "payload.exe", err.Filename)
	assert.Contains(t, err.Reason, "not allowed")
	assert.ErrorIs(t, err, ErrValidationFailed)

	// Browsers often send .glb as octet-stream; the extension rescues it
	assert.Nil(t, ValidateFile("wrap.glb", "application/octet-stream", 1024))

	// But an octet-stream without a recognized extension stays rejected
	assert.NotNil(t, ValidateFile("wrap.bin", "application/octet-stream", 1024))
}

func TestValidateFileSizeCheckedBeforeType(t *testing.T) {
	// An oversized file reports the size violation even when the type
	// would also fail.
	err := ValidateFile("payload.exe", "application/x-msdownload", 6<<20)
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "exceeds")
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "flame_wrap_v2.png", sanitizeFilename("flame wrap v2.png"))
	assert.Equal(t, "tiger.glb", sanitizeFilename("../../tiger.glb"))
	assert.Equal(t, "___.png", sanitizeFilename("крыло.png"))
}

func TestBuildStorageKey(t *testing.T) {
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	key := BuildStorageKey("ninebot-flame", CategoryModel, "flame wrap.glb", at)
	assert.Equal(t, "ninebot-flame/models/1773489600-flame_wrap.glb", key)

	key = BuildStorageKey("ninebot-flame", CategoryImage, "cover.png", at)
	assert.True(t, strings.HasPrefix(key, "ninebot-flame/images/"))
}
