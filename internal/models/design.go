// internal/models/design.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Design is one sellable wrap artwork bound to a single scooter model.
// Editions are the finite sellable inventory; edition_available is only
// ever mutated by deal settlement and must stay within
// [0, edition_total].
type Design struct {
	BaseModel
	Slug         string  `json:"slug" gorm:"size:120;uniqueIndex;not null"`
	Title        string  `json:"title" gorm:"size:255;not null"`
	Description  string  `json:"description" gorm:"type:text"`
	ScooterModel string  `json:"scooter_model" gorm:"size:100;index"`
	Price        float64 `json:"price" gorm:"type:decimal(10,2);not null"`

	EditionTotal     int  `json:"edition_total" gorm:"not null"`
	EditionAvailable int  `json:"edition_available" gorm:"not null"`
	Published        bool `json:"published" gorm:"default:false;index"`

	Status DesignStatus `json:"status" gorm:"type:varchar(20);default:'creative';index"`

	// Single-value asset slots, each owned by one upload role.
	CoverImageURL      string `json:"cover_image_url" gorm:"column:cover_image_url;size:1024"`
	ThumbnailURL       string `json:"thumbnail_url" gorm:"column:thumbnail_url;size:1024"`
	SocialPreviewURL   string `json:"social_preview_url" gorm:"column:social_preview_url;size:1024"`
	ModelURL           string `json:"model_url" gorm:"column:model_url;size:1024"`
	ModelCompressedURL string `json:"model_compressed_url" gorm:"column:model_compressed_url;size:1024"`
	ModelMobileURL     string `json:"model_mobile_url" gorm:"column:model_mobile_url;size:1024"`
	VideoPreviewURL    string `json:"video_preview_url" gorm:"column:video_preview_url;size:1024"`
	VideoFullURL       string `json:"video_full_url" gorm:"column:video_full_url;size:1024"`
	VideoTutorialURL   string `json:"video_tutorial_url" gorm:"column:video_tutorial_url;size:1024"`
	BlueprintSVGURL    string `json:"blueprint_svg_url" gorm:"column:blueprint_svg_url;size:1024"`
	BlueprintPDFURL    string `json:"blueprint_pdf_url" gorm:"column:blueprint_pdf_url;size:1024"`

	// Ordered gallery image URLs; ingestion appends, never rewrites.
	Gallery datatypes.JSONSlice[string] `json:"gallery"`

	// Relationships
	ModelProperties *DesignModelProperties `json:"model_properties,omitempty" gorm:"foreignKey:DesignID"`
	Textures        []DesignTexture        `json:"textures,omitempty" gorm:"foreignKey:DesignID"`
	StatusHistory   []DesignStatusHistory  `json:"status_history,omitempty" gorm:"foreignKey:DesignID"`
	Deals           []Deal                 `json:"deals,omitempty" gorm:"foreignKey:DesignID"`
}

// DesignStatusHistory is the append-only audit trail of status
// transitions. Rows are never updated or deleted.
type DesignStatusHistory struct {
	ID        uuid.UUID    `json:"id" gorm:"type:uuid;primary_key"`
	DesignID  uuid.UUID    `json:"design_id" gorm:"type:uuid;not null;index"`
	Status    DesignStatus `json:"status" gorm:"type:varchar(20);not null"`
	Note      string       `json:"note,omitempty" gorm:"type:text"`
	CreatedAt time.Time    `json:"created_at"`
}

func (h *DesignStatusHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// DesignTexture is one named material layer of the design's 3D model.
type DesignTexture struct {
	BaseModel
	DesignID    uuid.UUID `json:"design_id" gorm:"type:uuid;not null;index"`
	URL         string    `json:"url" gorm:"size:1024;not null"`
	TextureType string    `json:"texture_type" gorm:"size:40;default:'diffuse'"`
	Format      string    `json:"format" gorm:"size:20;default:'png'"`
	Resolution  string    `json:"resolution,omitempty" gorm:"size:20"`
	Layer       int       `json:"layer" gorm:"default:0"`
}

// DesignModelProperties holds the 3D-viewer tuning for one design.
// At most one row exists per design; saves are full-field replaces.
type DesignModelProperties struct {
	BaseModel
	DesignID uuid.UUID `json:"design_id" gorm:"type:uuid;not null;uniqueIndex"`
	Version  int       `json:"version" gorm:"default:1"`

	CameraYaw      float64 `json:"camera_yaw"`
	CameraPitch    float64 `json:"camera_pitch"`
	CameraDistance float64 `json:"camera_distance"`
	CameraFOV      float64 `json:"camera_fov" gorm:"column:camera_fov"`

	Exposure         float64 `json:"exposure"`
	AmbientIntensity float64 `json:"ambient_intensity"`

	Metalness float64 `json:"metalness"`
	Roughness float64 `json:"roughness"`

	EnvironmentMapURL string `json:"environment_map_url" gorm:"column:environment_map_url;size:1024"`
}
