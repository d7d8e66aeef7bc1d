// internal/services/ingest_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Stvolll/scooter-wraps-backend/internal/models"
	"github.com/Stvolll/scooter-wraps-backend/internal/utils"
)

const (
	// Write credentials are time-boxed; a transfer that outlives the
	// credential fails and aborts the batch.
	writeCredentialTTL = 5 * time.Minute

	// Bounded fan-out for per-file storage uploads.
	uploadConcurrency = 4

	// Reconciliation retries when a concurrent batch touched the same
	// design between read and guarded write.
	reconcileAttempts = 3
)

// BatchState tracks a batch through the pipeline. The storage phase is
// not atomic; only reconciliation is.
type BatchState string

const (
	BatchStateReceived    BatchState = "received"
	BatchStateValidating  BatchState = "validating"
	BatchStateUploading   BatchState = "uploading"
	BatchStateReconciling BatchState = "reconciling"
	BatchStateCommitted   BatchState = "committed"
	BatchStateFailed      BatchState = "failed"
)

// IngestFile is one tagged upload within a batch. Size is the declared
// byte size and is what the intake policy gates on.
type IngestFile struct {
	Role        AssetRole
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
	Texture     *TextureMeta
}

// TextureMeta is the optional per-file metadata for texture-role
// uploads.
type TextureMeta struct {
	TextureType string `json:"texture_type,omitempty"`
	Format      string `json:"format,omitempty"`
	Resolution  string `json:"resolution,omitempty"`
	Layer       int    `json:"layer,omitempty"`
}

// FileResult reports one stored file back to the caller.
type FileResult struct {
	Role     AssetRole `json:"role"`
	Filename string    `json:"filename"`
	Key      string    `json:"key"`
	URL      string    `json:"url"`
}

type BatchResult struct {
	State         BatchState   `json:"state"`
	UploadedCount int          `json:"uploaded_count"`
	Files         []FileResult `json:"files"`
}

// Single-value roles overwrite one design column each; gallery and
// texture roles are handled separately.
var singleValueRoleColumns = map[AssetRole]string{
	RoleCover:         "cover_image_url",
	RoleThumbnail:     "thumbnail_url",
	RoleSocialPreview: "social_preview_url",
	RoleGLB:           "model_url",
	RoleGLBCompressed: "model_compressed_url",
	RoleGLBMobile:     "model_mobile_url",
	RoleVideoPreview:  "video_preview_url",
	RoleVideoFull:     "video_full_url",
	RoleVideoTutorial: "video_tutorial_url",
	RoleBlueprintSVG:  "blueprint_svg_url",
	RoleBlueprintPDF:  "blueprint_pdf_url",
}

var errConcurrentUpdate = errors.New("design was modified by a concurrent batch")

type IngestService struct {
	db    *gorm.DB
	store ObjectStore
}

func NewIngestService(db *gorm.DB, store ObjectStore) *IngestService {
	return &IngestService{db: db, store: store}
}

// IngestBatch validates and uploads every file of a batch, then
// reconciles the results plus the optional model-properties payload
// into the design in one transaction.
//
// The storage phase is deliberately not atomic: the first rejected file
// or failed transfer aborts the batch, and objects already written stay
// behind. Those orphaned keys are logged and carried on the returned
// error so operators can reconcile them out-of-band.
func (s *IngestService) IngestBatch(ctx context.Context, designID uuid.UUID, files []IngestFile, props *ModelPropertiesRequest) (*BatchResult, error) {
	result := &BatchResult{State: BatchStateReceived}

	var design models.Design
	if err := s.db.First(&design, "id = ?", designID).Error; err != nil {
		result.State = BatchStateFailed
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result, ErrDesignNotFound
		}
		return result, fmt.Errorf("database error: %w", err)
	}

	if len(files) == 0 {
		result.State = BatchStateFailed
		return result, ErrEmptyBatch
	}

	if !s.store.Configured() {
		result.State = BatchStateFailed
		return result, ErrMisconfiguredStorage
	}

	if props != nil {
		if err := utils.ValidateStruct(props); err != nil {
			result.State = BatchStateFailed
			return result, fmt.Errorf("invalid model properties payload: %w", err)
		}
	}

	result.State = BatchStateValidating
	log := logrus.WithFields(logrus.Fields{
		"design": design.ID,
		"slug":   design.Slug,
		"files":  len(files),
	})
	log.Info("Ingesting asset batch")

	// Validation and upload are interleaved per file, with bounded
	// parallelism. All keys of one batch share one timestamp.
	result.State = BatchStateUploading
	batchTime := time.Now()
	fileResults := make([]FileResult, len(files))

	var mtx sync.Mutex
	var uploadedKeys []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			fr, err := s.uploadOne(gctx, design.Slug, f, batchTime)
			if err != nil {
				return err
			}

			mtx.Lock()
			fileResults[i] = fr
			uploadedKeys = append(uploadedKeys, fr.Key)
			mtx.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		result.State = BatchStateFailed
		s.logOrphans(log, uploadedKeys)

		var swe *StorageWriteError
		if errors.As(err, &swe) {
			swe.OrphanedKeys = uploadedKeys
		}
		return result, err
	}

	result.State = BatchStateReconciling
	var err error
	for attempt := 0; attempt < reconcileAttempts; attempt++ {
		err = s.reconcile(designID, files, fileResults, props)
		if !errors.Is(err, errConcurrentUpdate) {
			break
		}
	}
	if err != nil {
		result.State = BatchStateFailed
		s.logOrphans(log, uploadedKeys)
		return result, &ReconciliationError{Err: err, OrphanedKeys: uploadedKeys}
	}

	result.State = BatchStateCommitted
	result.UploadedCount = len(files)
	result.Files = fileResults
	log.Info("Asset batch committed")
	return result, nil
}

// CleanupOrphans deletes storage objects left behind by aborted
// batches. Keys come from the orphaned_keys payload of a failed
// ingest; a batch failure never deletes them on its own.
func (s *IngestService) CleanupOrphans(ctx context.Context, keys []string) (int, error) {
	if !s.store.Configured() {
		return 0, ErrMisconfiguredStorage
	}

	deleted := 0
	for _, key := range keys {
		if err := s.store.DeleteObject(ctx, key); err != nil {
			return deleted, fmt.Errorf("failed to delete %q: %w", key, err)
		}
		deleted++
	}

	if deleted > 0 {
		logrus.WithField("deleted", deleted).Info("Cleaned up orphaned storage objects")
	}
	return deleted, nil
}

func (s *IngestService) uploadOne(ctx context.Context, slug string, f IngestFile, at time.Time) (FileResult, error) {
	if !assetRoles[f.Role] {
		return FileResult{}, &FileValidationError{
			Filename: f.Filename,
			Reason:   fmt.Sprintf("unknown role tag %q", f.Role),
		}
	}

	if verr := ValidateFile(f.Filename, f.ContentType, f.Size); verr != nil {
		return FileResult{}, verr
	}

	category := Classify(f.Filename, f.ContentType)
	key := BuildStorageKey(slug, category, f.Filename, at)

	credential, err := s.store.IssueWriteCredential(key, f.ContentType, writeCredentialTTL)
	if err != nil {
		return FileResult{}, &StorageWriteError{Filename: f.Filename, Err: err}
	}

	if err := s.store.Upload(ctx, credential, f.ContentType, f.Data); err != nil {
		return FileResult{}, &StorageWriteError{Filename: f.Filename, Err: err}
	}

	return FileResult{
		Role:     f.Role,
		Filename: f.Filename,
		Key:      key,
		URL:      s.store.PublicURL(key),
	}, nil
}

// reconcile applies the whole update plan in one transaction: field
// overwrites for single-value roles, gallery appends, texture child
// rows, and the model-properties upsert. The guarded update on
// updated_at detects concurrent batches so the gallery append never
// loses entries.
func (s *IngestService) reconcile(designID uuid.UUID, files []IngestFile, results []FileResult, props *ModelPropertiesRequest) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var design models.Design
		if err := tx.First(&design, "id = ?", designID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDesignNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		updates := make(map[string]interface{})
		var galleryAdds []string
		var textures []models.DesignTexture

		for i, fr := range results {
			switch fr.Role {
			case RoleGallery:
				galleryAdds = append(galleryAdds, fr.URL)
			case RoleTexture:
				textures = append(textures, textureFromFile(design.ID, files[i], fr))
			default:
				updates[singleValueRoleColumns[fr.Role]] = fr.URL
			}
		}

		if len(galleryAdds) > 0 {
			updates["gallery"] = datatypes.JSONSlice[string](append(design.Gallery, galleryAdds...))
		}

		if len(updates) > 0 {
			res := tx.Model(&models.Design{}).
				Where("id = ? AND updated_at = ?", design.ID, design.UpdatedAt).
				Updates(updates)
			if res.Error != nil {
				return fmt.Errorf("failed to update design: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return errConcurrentUpdate
			}
		}

		for i := range textures {
			if err := tx.Create(&textures[i]).Error; err != nil {
				return fmt.Errorf("failed to create texture: %w", err)
			}
		}

		if props != nil {
			if _, err := upsertModelProperties(tx, design.ID, props); err != nil {
				return err
			}
		}

		return nil
	})
}

func textureFromFile(designID uuid.UUID, f IngestFile, fr FileResult) models.DesignTexture {
	texture := models.DesignTexture{
		DesignID:    designID,
		URL:         fr.URL,
		TextureType: "diffuse",
		Format:      "png",
	}

	if f.Texture != nil {
		if f.Texture.TextureType != "" {
			texture.TextureType = f.Texture.TextureType
		}
		if f.Texture.Format != "" {
			texture.Format = f.Texture.Format
		}
		texture.Resolution = f.Texture.Resolution
		texture.Layer = f.Texture.Layer
	}

	return texture
}

func (s *IngestService) logOrphans(log *logrus.Entry, keys []string) {
	if len(keys) == 0 {
		return
	}
	log.WithField("orphaned_keys", keys).
		Warn("Batch aborted after storage writes; objects need out-of-band cleanup")
}
