// internal/services/intake.go
package services

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// AssetRole is the caller-declared purpose of one uploaded file. Roles
// map to design fields (or child rows) during reconciliation and are
// distinct from the detected category used for storage policy.
type AssetRole string

const (
	RoleCover         AssetRole = "cover"
	RoleGallery       AssetRole = "gallery"
	RoleGLB           AssetRole = "glb"
	RoleGLBCompressed AssetRole = "glb-compressed"
	RoleGLBMobile     AssetRole = "glb-mobile"
	RoleTexture       AssetRole = "texture"
	RoleVideoPreview  AssetRole = "video-preview"
	RoleVideoFull     AssetRole = "video-full"
	RoleVideoTutorial AssetRole = "video-tutorial"
	RoleBlueprintSVG  AssetRole = "blueprint-svg"
	RoleBlueprintPDF  AssetRole = "blueprint-pdf"
	RoleThumbnail     AssetRole = "thumbnail"
	RoleSocialPreview AssetRole = "social-preview"
)

var assetRoles = map[AssetRole]bool{
	RoleCover:         true,
	RoleGallery:       true,
	RoleGLB:           true,
	RoleGLBCompressed: true,
	RoleGLBMobile:     true,
	RoleTexture:       true,
	RoleVideoPreview:  true,
	RoleVideoFull:     true,
	RoleVideoTutorial: true,
	RoleBlueprintSVG:  true,
	RoleBlueprintPDF:  true,
	RoleThumbnail:     true,
	RoleSocialPreview: true,
}

func ParseAssetRole(s string) (AssetRole, bool) {
	role := AssetRole(strings.ToLower(s))
	return role, assetRoles[role]
}

// AssetCategory is the detected media class of an uploaded file.
type AssetCategory string

const (
	CategoryImage  AssetCategory = "image"
	CategoryModel  AssetCategory = "model"
	CategoryVideo  AssetCategory = "video"
	CategoryVector AssetCategory = "vector"
)

const (
	mimeGLB         = "model/gltf-binary"
	mimeOctetStream = "application/octet-stream"
	mimeSVG         = "image/svg+xml"
	mimePDF         = "application/pdf"
)

type categoryPolicy struct {
	Folder       string
	MaxBytes     int64
	AllowedMIMEs []string
	// Extensions accepted even when the browser misreports the MIME
	// type; mostly matters for GLB uploads arriving as octet-stream.
	Extensions []string
}

var categoryPolicies = map[AssetCategory]categoryPolicy{
	CategoryImage: {
		Folder:       "images",
		MaxBytes:     5 << 20,
		AllowedMIMEs: []string{"image/jpeg", "image/png", "image/webp", "image/avif"},
		Extensions:   []string{".jpg", ".jpeg", ".png", ".webp", ".avif"},
	},
	CategoryModel: {
		Folder:       "models",
		MaxBytes:     50 << 20,
		AllowedMIMEs: []string{mimeGLB, mimeOctetStream},
		Extensions:   []string{".glb"},
	},
	CategoryVideo: {
		Folder:       "videos",
		MaxBytes:     100 << 20,
		AllowedMIMEs: []string{"video/mp4", "video/webm", "video/quicktime"},
		Extensions:   []string{".mp4", ".webm", ".mov"},
	},
	CategoryVector: {
		Folder:       "vectors",
		MaxBytes:     10 << 20,
		AllowedMIMEs: []string{mimeSVG, mimePDF},
		Extensions:   []string{".svg", ".pdf"},
	},
}

// Classify buckets a file into a storage category. Ordered checks,
// first match wins; anything unrecognized falls through to image.
func Classify(filename, mimeType string) AssetCategory {
	mime := strings.ToLower(mimeType)
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case strings.HasPrefix(mime, "video/"):
		return CategoryVideo
	case mime == mimeGLB || ext == ".glb":
		return CategoryModel
	case mime == mimeSVG || mime == mimePDF || ext == ".svg":
		return CategoryVector
	default:
		return CategoryImage
	}
}

// ValidateFile gates one file against its category policy before any
// storage write happens. Size is the declared byte size.
func ValidateFile(filename, mimeType string, size int64) *FileValidationError {
	category := Classify(filename, mimeType)
	policy := categoryPolicies[category]

	if size > policy.MaxBytes {
		return &FileValidationError{
			Filename: filename,
			Reason: fmt.Sprintf("%d bytes exceeds the %d byte limit for %s uploads",
				size, policy.MaxBytes, category),
		}
	}

	mime := strings.ToLower(mimeType)
	for _, allowed := range policy.AllowedMIMEs {
		if mime == allowed {
			return nil
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range policy.Extensions {
		if ext == allowed {
			return nil
		}
	}

	return &FileValidationError{
		Filename: filename,
		Reason:   fmt.Sprintf("type %q is not allowed for %s uploads", mimeType, category),
	}
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

func sanitizeFilename(name string) string {
	return unsafeKeyChars.ReplaceAllString(filepath.Base(name), "_")
}

// BuildStorageKey derives the deterministic object key for one upload:
// {design-slug}/{category-folder}/{upload-timestamp}-{sanitized-filename}.
func BuildStorageKey(slug string, category AssetCategory, filename string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%d-%s",
		slug, categoryPolicies[category].Folder, at.Unix(), sanitizeFilename(filename))
}
