// internal/handlers/upload.go
package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Stvolll/scooter-wraps-backend/internal/services"
	"github.com/Stvolll/scooter-wraps-backend/internal/utils"
)

type UploadHandler struct {
	ingestService *services.IngestService
}

func NewUploadHandler(ingestService *services.IngestService) *UploadHandler {
	return &UploadHandler{ingestService: ingestService}
}

// POST /designs/:id/assets
//
// Multipart form. Each file part is named by its role tag (cover,
// gallery, glb, texture, ...). Optional fields: "texture_meta" is a
// JSON object keyed by filename with per-texture metadata;
// "model_properties" is the viewer-tuning payload.
func (h *UploadHandler) IngestBatch(c *gin.Context) {
	designID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid design ID", nil)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid multipart form", err.Error())
		return
	}

	textureMeta := make(map[string]services.TextureMeta)
	if raw := c.PostForm("texture_meta"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &textureMeta); err != nil {
			utils.BadRequestResponse(c, "Invalid texture_meta payload", err.Error())
			return
		}
	}

	var props *services.ModelPropertiesRequest
	if raw := c.PostForm("model_properties"); raw != "" {
		props = &services.ModelPropertiesRequest{}
		if err := json.Unmarshal([]byte(raw), props); err != nil {
			utils.BadRequestResponse(c, "Invalid model_properties payload", err.Error())
			return
		}
	}

	var files []services.IngestFile
	for field, headers := range form.File {
		role, ok := services.ParseAssetRole(field)
		if !ok {
			utils.BadRequestResponse(c, "Unknown role tag: "+field, nil)
			return
		}

		for _, header := range headers {
			file, err := readUpload(header)
			if err != nil {
				utils.BadRequestResponse(c, "Failed to read upload "+header.Filename, err.Error())
				return
			}
			file.Role = role

			if role == services.RoleTexture {
				if meta, ok := textureMeta[header.Filename]; ok {
					file.Texture = &meta
				}
			}

			files = append(files, file)
		}
	}

	result, err := h.ingestService.IngestBatch(c.Request.Context(), designID, files, props)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

type cleanupRequest struct {
	Keys []string `json:"keys" binding:"required,min=1"`
}

// POST /storage/cleanup removes orphaned objects reported by a failed
// batch.
func (h *UploadHandler) CleanupOrphans(c *gin.Context) {
	var req cleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	deleted, err := h.ingestService.CleanupOrphans(c.Request.Context(), req.Keys)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": deleted})
}

func readUpload(header *multipart.FileHeader) (services.IngestFile, error) {
	src, err := header.Open()
	if err != nil {
		return services.IngestFile{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return services.IngestFile{}, err
	}

	return services.IngestFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        data,
	}, nil
}
