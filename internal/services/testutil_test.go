// internal/services/testutil_test.go
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Stvolll/scooter-wraps-backend/internal/models"
	"github.com/Stvolll/scooter-wraps-backend/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled in-memory sqlite would hand each connection its own
	// database; pin the pool to one connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Design{},
		&models.DesignStatusHistory{},
		&models.DesignTexture{},
		&models.DesignModelProperties{},
		&models.Deal{},
	))

	return db
}

func newTestDesign(t *testing.T, db *gorm.DB, editions int) *models.Design {
	t.Helper()

	svc := NewDesignService(db)
	design, err := svc.CreateDesign(&CreateDesignRequest{
		Slug:         fmt.Sprintf("ninebot-flame-%d", time.Now().UnixNano()),
		Title:        "Flame wrap",
		ScooterModel: "Ninebot Max G30",
		Price:        149.90,
		EditionTotal: editions,
	})
	require.NoError(t, err)

	return design
}

func defaultPagination() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
}

func historyCount(t *testing.T, db *gorm.DB, design *models.Design) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.DesignStatusHistory{}).
		Where("design_id = ?", design.ID).Count(&count).Error)
	return count
}

// fakeStore is an in-memory ObjectStore for pipeline tests.
type fakeStore struct {
	mtx          sync.Mutex
	unconfigured bool
	failUploads  string // uploads whose key contains this substring fail
	objects      map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Configured() bool { return !f.unconfigured }

func (f *fakeStore) IssueWriteCredential(key, contentType string, ttl time.Duration) (string, error) {
	return "cred://" + key, nil
}

func (f *fakeStore) Upload(ctx context.Context, credential, contentType string, body []byte) error {
	key := strings.TrimPrefix(credential, "cred://")
	if f.failUploads != "" && strings.Contains(key, f.failUploads) {
		return fmt.Errorf("simulated transfer failure for %s", key)
	}

	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.objects[key] = append([]byte(nil), body...)
	return nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (f *fakeStore) DeleteObject(ctx context.Context, key string) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) storedKeys() []string {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	return keys
}
