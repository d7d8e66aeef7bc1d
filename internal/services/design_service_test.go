// internal/services/design_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stvolll/scooter-wraps-backend/internal/models"
)

func TestCreateDesignDefaults(t *testing.T) {
	db := newTestDB(t)
	design := newTestDesign(t, db, 10)

	assert.Equal(t, models.DesignStatusCreative, design.Status)
	assert.False(t, design.Published)
	assert.Equal(t, 10, design.EditionTotal)
	assert.Equal(t, 10, design.EditionAvailable)

	// Creation writes the first history row
	assert.EqualValues(t, 1, historyCount(t, db, design))
}

func TestCreateDesignDuplicateSlug(t *testing.T) {
	db := newTestDB(t)
	svc := NewDesignService(db)

	req := &CreateDesignRequest{
		Slug:         "xiaomi-tiger",
		Title:        "Tiger wrap",
		ScooterModel: "Xiaomi M365",
		Price:        99.90,
		EditionTotal: 5,
	}
	_, err := svc.CreateDesign(req)
	require.NoError(t, err)

	_, err = svc.CreateDesign(req)
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestAdvanceStatusForward(t *testing.T) {
	db := newTestDB(t)
	svc := NewDesignService(db)
	design := newTestDesign(t, db, 3)

	updated, err := svc.AdvanceStatus(design.ID, models.DesignStatusModeling3D, "sculpt started")
	require.NoError(t, err)

	assert.Equal(t, models.DesignStatusModeling3D, updated.Status)
	assert.EqualValues(t, 2, historyCount(t, db, design))

	var last models.DesignStatusHistory
	require.NoError(t, db.Where("design_id = ?", design.ID).
		Order("created_at DESC").First(&last).Error)
	assert.Equal(t, models.DesignStatusModeling3D, last.Status)
	assert.Equal(t, "sculpt started", last.Note)
}

func TestAdvanceStatusBackwardRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewDesignService(db)
	design := newTestDesign(t, db, 3)

	_, err := svc.AdvanceStatus(design.ID, models.DesignStatusForSale, "")
	require.NoError(t, err)
	before := historyCount(t, db, design)

	_, err = svc.AdvanceStatus(design.ID, models.DesignStatusCreative, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Nothing changed
	var reloaded models.Design
	require.NoError(t, db.First(&reloaded, "id = ?", design.ID).Error)
	assert.Equal(t, models.DesignStatusForSale, reloaded.Status)
	assert.Equal(t, before, historyCount(t, db, design))
}

func TestAdvanceStatusSameStatusAccepted(t *testing.T) {
	db := newTestDB(t)
	svc := NewDesignService(db)
	design := newTestDesign(t, db, 3)

	_, err := svc.AdvanceStatus(design.ID, models.DesignStatusPrinting, "")
	require.NoError(t, err)

	// Equal-index transitions pass the guard and append another row;
	// de-duplication is the caller's job.
	_, err = svc.AdvanceStatus(design.ID, models.DesignStatusPrinting, "reprint")
	require.NoError(t, err)

	assert.EqualValues(t, 3, historyCount(t, db, design))
}

func TestAdvanceStatusUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewDesignService(db)
	design := newTestDesign(t, db, 3)

	_, err := svc.AdvanceStatus(design.ID, models.DesignStatus("painting"), "")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestAdvanceStatusDesignNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewDesignService(db)

	_, err := svc.AdvanceStatus(uuid.New(), models.DesignStatusPrinting, "")
	assert.ErrorIs(t, err, ErrDesignNotFound)
}

func TestAdvanceStatusMonotonicSequence(t *testing.T) {
	db := newTestDB(t)
	svc := NewDesignService(db)
	design := newTestDesign(t, db, 3)

	sequence := []models.DesignStatus{
		models.DesignStatusModeling3D,
		models.DesignStatusUVTemplate,
		models.DesignStatusUVTemplate,
		models.DesignStatusPrinting,
		models.DesignStatusForSale,
	}

	lastIdx := design.Status.LadderIndex()
	for _, target := range sequence {
		updated, err := svc.AdvanceStatus(design.ID, target, "")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, updated.Status.LadderIndex(), lastIdx)
		lastIdx = updated.Status.LadderIndex()
	}

	// One row per accepted transition plus the creation row
	assert.EqualValues(t, int64(len(sequence))+1, historyCount(t, db, design))
}

func TestSetPublishedIndependentOfStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewDesignService(db)
	design := newTestDesign(t, db, 3)

	// Publishable straight from the creative stage
	updated, err := svc.SetPublished(design.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Published)
	assert.Equal(t, models.DesignStatusCreative, updated.Status)

	updated, err = svc.SetPublished(design.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.Published)
}

func TestSaveModelPropertiesUpsert(t *testing.T) {
	db := newTestDB(t)
	svc := NewDesignService(db)
	design := newTestDesign(t, db, 3)

	props, err := svc.SaveModelProperties(design.ID, &ModelPropertiesRequest{
		CameraYaw:      45,
		CameraPitch:    -10,
		CameraDistance: 2.5,
		CameraFOV:      50,
		Metalness:      0.2,
		Roughness:      0.8,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, props.Version)
	assert.Equal(t, 45.0, props.CameraYaw)

	// Second save fully replaces the same row
	replaced, err := svc.SaveModelProperties(design.ID, &ModelPropertiesRequest{
		Version:   2,
		CameraYaw: 90,
		Metalness: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, props.ID, replaced.ID)
	assert.Equal(t, 2, replaced.Version)
	assert.Equal(t, 90.0, replaced.CameraYaw)
	assert.Equal(t, 0.0, replaced.CameraDistance)

	var count int64
	require.NoError(t, db.Model(&models.DesignModelProperties{}).
		Where("design_id = ?", design.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestListDesignsFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewDesignService(db)

	d1 := newTestDesign(t, db, 3)
	newTestDesign(t, db, 3)

	_, err := svc.SetPublished(d1.ID, true)
	require.NoError(t, err)

	published := true
	designs, total, err := svc.ListDesigns(DesignSearchParams{
		PaginationParams: defaultPagination(),
		Published:        &published,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, designs, 1)
	assert.Equal(t, d1.ID, designs[0].ID)
}
