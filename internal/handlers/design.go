// internal/handlers/design.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Stvolll/scooter-wraps-backend/internal/models"
	"github.com/Stvolll/scooter-wraps-backend/internal/services"
	"github.com/Stvolll/scooter-wraps-backend/internal/utils"
)

type DesignHandler struct {
	designService *services.DesignService
}

func NewDesignHandler(designService *services.DesignService) *DesignHandler {
	return &DesignHandler{designService: designService}
}

// GET /designs
func (h *DesignHandler) GetDesigns(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.DesignSearchParams{
		PaginationParams: params,
	}

	if status := c.Query("status"); status != "" {
		designStatus := models.DesignStatus(status)
		searchParams.Status = &designStatus
	}

	if publishedStr := c.Query("published"); publishedStr != "" {
		published := publishedStr == "true"
		searchParams.Published = &published
	}

	designs, total, err := h.designService.ListDesigns(searchParams)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(designs, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /catalog lists published designs for the public storefront.
func (h *DesignHandler) GetCatalog(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	published := true
	searchParams := services.DesignSearchParams{
		PaginationParams: params,
		Published:        &published,
	}

	designs, total, err := h.designService.ListDesigns(searchParams)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(designs, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /catalog/:slug
func (h *DesignHandler) GetCatalogDesign(c *gin.Context) {
	design, err := h.designService.GetDesignBySlug(c.Param("slug"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	if !design.Published {
		utils.NotFoundResponse(c, "Design")
		return
	}

	utils.SuccessResponse(c, design)
}

// POST /designs
func (h *DesignHandler) CreateDesign(c *gin.Context) {
	var req services.CreateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	design, err := h.designService.CreateDesign(&req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, design)
}

// GET /designs/:id
func (h *DesignHandler) GetDesign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid design ID", nil)
		return
	}

	design, err := h.designService.GetDesign(id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, design)
}

type advanceStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note,omitempty"`
}

// POST /designs/:id/status
func (h *DesignHandler) AdvanceStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid design ID", nil)
		return
	}

	var req advanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	design, err := h.designService.AdvanceStatus(id, models.DesignStatus(req.Status), req.Note)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, design)
}

type setPublishedRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// POST /designs/:id/publish
func (h *DesignHandler) SetPublished(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid design ID", nil)
		return
	}

	var req setPublishedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	design, err := h.designService.SetPublished(id, *req.Published)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, design)
}

// PUT /designs/:id/model-properties
func (h *DesignHandler) SaveModelProperties(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid design ID", nil)
		return
	}

	var req services.ModelPropertiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	props, err := h.designService.SaveModelProperties(id, &req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, props)
}
