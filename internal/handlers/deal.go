// internal/handlers/deal.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Stvolll/scooter-wraps-backend/internal/services"
	"github.com/Stvolll/scooter-wraps-backend/internal/utils"
)

type DealHandler struct {
	dealService    *services.DealService
	paymentService *services.PaymentService
}

func NewDealHandler(dealService *services.DealService, paymentService *services.PaymentService) *DealHandler {
	return &DealHandler{
		dealService:    dealService,
		paymentService: paymentService,
	}
}

// POST /designs/:id/deals records a checkout intent.
func (h *DealHandler) OpenDeal(c *gin.Context) {
	designID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid design ID", nil)
		return
	}

	var req services.OpenDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	deal, err := h.dealService.OpenDeal(designID, &req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, deal)
}

// POST /deals/:id/checkout opens the provider checkout session.
func (h *DealHandler) CreateCheckoutSession(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid deal ID", nil)
		return
	}

	session, err := h.paymentService.CreateCheckoutSession(dealID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, session)
}

// POST /deals/:id/settle settles a deal from the console, for sales
// closed outside the provider checkout.
func (h *DealHandler) SettleDeal(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid deal ID", nil)
		return
	}

	deal, design, err := h.dealService.SettleDeal(dealID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"deal":   deal,
		"design": design,
	})
}

// GET /deals/:id
func (h *DealHandler) GetDeal(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid deal ID", nil)
		return
	}

	deal, err := h.dealService.GetDeal(dealID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, deal)
}

// GET /deals
func (h *DealHandler) GetDeals(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var designID *uuid.UUID
	if designIDStr := c.Query("design_id"); designIDStr != "" {
		if id, err := uuid.Parse(designIDStr); err == nil {
			designID = &id
		}
	}

	deals, total, err := h.dealService.ListDeals(designID, params)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(deals, total, params)
	utils.PaginatedResponse(c, result)
}
