// internal/services/design_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Stvolll/scooter-wraps-backend/internal/models"
	"github.com/Stvolll/scooter-wraps-backend/internal/utils"
)

type DesignService struct {
	db *gorm.DB
}

func NewDesignService(db *gorm.DB) *DesignService {
	return &DesignService{db: db}
}

type CreateDesignRequest struct {
	Slug         string  `json:"slug" validate:"required,slug,min=3,max=120"`
	Title        string  `json:"title" validate:"required,min=3,max=255"`
	Description  string  `json:"description,omitempty"`
	ScooterModel string  `json:"scooter_model" validate:"required,max=100"`
	Price        float64 `json:"price" validate:"required,min=0.01"`
	EditionTotal int     `json:"edition_total" validate:"required,min=1"`
}

type DesignSearchParams struct {
	utils.PaginationParams
	Status    *models.DesignStatus `json:"status,omitempty"`
	Published *bool                `json:"published,omitempty"`
}

// CreateDesign opens a design at the bottom of the production ladder
// with its full edition run available and the creation row already in
// the status history.
func (s *DesignService) CreateDesign(req *CreateDesignRequest) (*models.Design, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	design := &models.Design{
		Slug:             req.Slug,
		Title:            req.Title,
		Description:      req.Description,
		ScooterModel:     req.ScooterModel,
		Price:            req.Price,
		EditionTotal:     req.EditionTotal,
		EditionAvailable: req.EditionTotal,
		Published:        false,
		Status:           models.DesignStatusCreative,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Design{}).Where("slug = ?", req.Slug).Count(&count).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if count > 0 {
			return ErrSlugTaken
		}

		if err := tx.Create(design).Error; err != nil {
			return fmt.Errorf("failed to create design: %w", err)
		}

		return appendStatusHistory(tx, design.ID, models.DesignStatusCreative, "design created")
	})
	if err != nil {
		return nil, err
	}

	return design, nil
}

func (s *DesignService) GetDesign(id uuid.UUID) (*models.Design, error) {
	var design models.Design
	err := s.db.Preload("Textures").Preload("ModelProperties").
		First(&design, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDesignNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &design, nil
}

func (s *DesignService) GetDesignBySlug(slug string) (*models.Design, error) {
	var design models.Design
	err := s.db.Preload("Textures").Preload("ModelProperties").
		First(&design, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDesignNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &design, nil
}

func (s *DesignService) ListDesigns(params DesignSearchParams) ([]models.Design, int64, error) {
	query := s.db.Model(&models.Design{})

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.Published != nil {
		query = query.Where("published = ?", *params.Published)
	}

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("title LIKE ? OR slug LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count designs: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "price", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var designs []models.Design
	if err := query.Find(&designs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch designs: %w", err)
	}

	return designs, total, nil
}

// AdvanceStatus moves a design forward along the production ladder.
// Backwards transitions are rejected with no change; equal-index
// transitions are accepted and append another history row (callers
// wanting idempotence must de-duplicate upstream). Status and history
// are written in one transaction.
func (s *DesignService) AdvanceStatus(id uuid.UUID, target models.DesignStatus, note string) (*models.Design, error) {
	targetIdx := target.LadderIndex()
	if targetIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, target)
	}

	var design models.Design
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&design, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDesignNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		currentIdx := design.Status.LadderIndex()
		if currentIdx < 0 {
			return fmt.Errorf("%w: %q", ErrUnknownStatus, design.Status)
		}

		if targetIdx < currentIdx {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, design.Status, target)
		}

		if err := tx.Model(&design).Update("status", target).Error; err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}

		return appendStatusHistory(tx, design.ID, target, note)
	})
	if err != nil {
		return nil, err
	}

	return &design, nil
}

// SetPublished flips public visibility. Publish state is independent of
// the production stage.
func (s *DesignService) SetPublished(id uuid.UUID, published bool) (*models.Design, error) {
	var design models.Design
	if err := s.db.First(&design, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDesignNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&design).Update("published", published).Error; err != nil {
		return nil, fmt.Errorf("failed to update published flag: %w", err)
	}

	return &design, nil
}

// ModelPropertiesRequest is the viewer-tuning payload. Saves fully
// replace the singleton row.
type ModelPropertiesRequest struct {
	Version           int     `json:"version,omitempty" validate:"omitempty,min=1"`
	CameraYaw         float64 `json:"camera_yaw"`
	CameraPitch       float64 `json:"camera_pitch"`
	CameraDistance    float64 `json:"camera_distance" validate:"omitempty,min=0"`
	CameraFOV         float64 `json:"camera_fov" validate:"omitempty,min=1,max=179"`
	Exposure          float64 `json:"exposure"`
	AmbientIntensity  float64 `json:"ambient_intensity"`
	Metalness         float64 `json:"metalness" validate:"min=0,max=1"`
	Roughness         float64 `json:"roughness" validate:"min=0,max=1"`
	EnvironmentMapURL string  `json:"environment_map_url,omitempty" validate:"omitempty,url"`
}

// SaveModelProperties upserts the per-design viewer tuning: create the
// row if absent, full-field replace if present.
func (s *DesignService) SaveModelProperties(id uuid.UUID, req *ModelPropertiesRequest) (*models.DesignModelProperties, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var props *models.DesignModelProperties
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var design models.Design
		if err := tx.First(&design, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDesignNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		var err error
		props, err = upsertModelProperties(tx, design.ID, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	return props, nil
}

func upsertModelProperties(tx *gorm.DB, designID uuid.UUID, req *ModelPropertiesRequest) (*models.DesignModelProperties, error) {
	version := req.Version
	if version == 0 {
		version = 1
	}

	var props models.DesignModelProperties
	err := tx.First(&props, "design_id = ?", designID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		props = models.DesignModelProperties{DesignID: designID}
	case err != nil:
		return nil, fmt.Errorf("database error: %w", err)
	}

	props.Version = version
	props.CameraYaw = req.CameraYaw
	props.CameraPitch = req.CameraPitch
	props.CameraDistance = req.CameraDistance
	props.CameraFOV = req.CameraFOV
	props.Exposure = req.Exposure
	props.AmbientIntensity = req.AmbientIntensity
	props.Metalness = req.Metalness
	props.Roughness = req.Roughness
	props.EnvironmentMapURL = req.EnvironmentMapURL

	if err := tx.Save(&props).Error; err != nil {
		return nil, fmt.Errorf("failed to save model properties: %w", err)
	}

	return &props, nil
}

// appendStatusHistory records one accepted transition. History rows are
// immutable once written.
func appendStatusHistory(tx *gorm.DB, designID uuid.UUID, status models.DesignStatus, note string) error {
	entry := &models.DesignStatusHistory{
		DesignID: designID,
		Status:   status,
		Note:     note,
	}

	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}

	return nil
}
