// internal/handlers/design_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Stvolll/scooter-wraps-backend/internal/middleware"
	"github.com/Stvolll/scooter-wraps-backend/internal/models"
	"github.com/Stvolll/scooter-wraps-backend/internal/services"
	"github.com/Stvolll/scooter-wraps-backend/internal/utils"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

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

	designHandler := NewDesignHandler(services.NewDesignService(db))

	r := gin.New()
	v1 := r.Group("/v1")

	catalog := v1.Group("/catalog")
	catalog.GET("", designHandler.GetCatalog)
	catalog.GET("/:slug", designHandler.GetCatalogDesign)

	designs := v1.Group("/designs")
	designs.Use(middleware.AdminRequired())
	designs.POST("", designHandler.CreateDesign)
	designs.GET("/:id", designHandler.GetDesign)
	designs.POST("/:id/status", designHandler.AdvanceStatus)
	designs.POST("/:id/publish", designHandler.SetPublished)

	return r, db
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateJWT("admin@example.com", "admin", 1)
	require.NoError(t, err)
	return token
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createDesignViaAPI(t *testing.T, r *gin.Engine, token string) string {
	t.Helper()

	w := doJSON(r, http.MethodPost, "/v1/designs", token, gin.H{
		"slug":          fmt.Sprintf("dualtron-storm-%d", time.Now().UnixNano()),
		"title":         "Storm wrap",
		"scooter_model": "Dualtron Thunder",
		"price":         199.90,
		"edition_total": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	return data["id"].(string)
}

func TestCreateDesignRequiresAuth(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(r, http.MethodPost, "/v1/designs", "", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateDesignRejectsNonAdminToken(t *testing.T) {
	r, _ := setupTestRouter(t)

	token, err := utils.GenerateJWT("buyer@example.com", "customer", 1)
	require.NoError(t, err)

	w := doJSON(r, http.MethodPost, "/v1/designs", token, gin.H{})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateDesignValidation(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(r, http.MethodPost, "/v1/designs", adminToken(t), gin.H{
		"slug":          "Not A Slug!",
		"title":         "Storm wrap",
		"scooter_model": "Dualtron Thunder",
		"price":         199.90,
		"edition_total": 3,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestAdvanceStatusEndpoint(t *testing.T) {
	r, _ := setupTestRouter(t)
	token := adminToken(t)
	id := createDesignViaAPI(t, r, token)

	w := doJSON(r, http.MethodPost, "/v1/designs/"+id+"/status", token,
		gin.H{"status": "modeling_3d", "note": "sculpt started"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Backwards transitions surface as conflicts
	w = doJSON(r, http.MethodPost, "/v1/designs/"+id+"/status", token,
		gin.H{"status": "creative"})
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_TRANSITION", resp.Error.Code)

	// Unknown rungs are a bad request, not a conflict
	w = doJSON(r, http.MethodPost, "/v1/designs/"+id+"/status", token,
		gin.H{"status": "painting"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHidesUnpublishedDesigns(t *testing.T) {
	r, db := setupTestRouter(t)
	token := adminToken(t)
	id := createDesignViaAPI(t, r, token)

	var design models.Design
	require.NoError(t, db.First(&design, "id = ?", id).Error)

	w := doJSON(r, http.MethodGet, "/v1/catalog/"+design.Slug, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/v1/designs/"+id+"/publish", token,
		gin.H{"published": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/v1/catalog/"+design.Slug, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
