// internal/services/deal_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Stvolll/scooter-wraps-backend/internal/models"
	"github.com/Stvolll/scooter-wraps-backend/internal/utils"
)

type DealService struct {
	db *gorm.DB
}

func NewDealService(db *gorm.DB) *DealService {
	return &DealService{db: db}
}

type OpenDealRequest struct {
	BuyerName  string `json:"buyer_name,omitempty" validate:"omitempty,max=120"`
	BuyerEmail string `json:"buyer_email,omitempty" validate:"omitempty,email"`
}

// OpenDeal records a buyer's intent against a design. Inventory is not
// touched until settlement.
func (s *DealService) OpenDeal(designID uuid.UUID, req *OpenDealRequest) (*models.Deal, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var design models.Design
	if err := s.db.First(&design, "id = ?", designID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDesignNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	deal := &models.Deal{
		DesignID:   design.ID,
		BuyerName:  req.BuyerName,
		BuyerEmail: req.BuyerEmail,
		Status:     models.DealStatusOpen,
	}

	if err := s.db.Create(deal).Error; err != nil {
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}

	return deal, nil
}

// SettleDeal flips an open deal to paid and consumes exactly one
// edition, atomically. The status flip and the decrement are both
// conditional updates so concurrent settlements can neither
// double-settle one deal nor drive edition_available below zero. When
// the final edition sells, the design advances to sold inside the same
// transaction, with a history row.
func (s *DealService) SettleDeal(dealID uuid.UUID) (*models.Deal, *models.Design, error) {
	var deal models.Deal
	var design models.Design

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deal, "id = ?", dealID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDealNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if deal.Status != models.DealStatusOpen {
			return ErrAlreadySettled
		}

		now := time.Now()
		res := tx.Model(&models.Deal{}).
			Where("id = ? AND status = ?", dealID, models.DealStatusOpen).
			Updates(map[string]interface{}{"status": models.DealStatusPaid, "paid_at": now})
		if res.Error != nil {
			return fmt.Errorf("failed to settle deal: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost the race against a concurrent settlement.
			return ErrAlreadySettled
		}

		res = tx.Model(&models.Design{}).
			Where("id = ? AND edition_available > 0", deal.DesignID).
			UpdateColumn("edition_available", gorm.Expr("edition_available - 1"))
		if res.Error != nil {
			return fmt.Errorf("failed to decrement editions: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrOversold
		}

		if err := tx.First(&design, "id = ?", deal.DesignID).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}

		if design.EditionAvailable == 0 &&
			design.Status.LadderIndex() < models.DesignStatusSold.LadderIndex() {
			if err := tx.Model(&design).Update("status", models.DesignStatusSold).Error; err != nil {
				return fmt.Errorf("failed to mark design sold: %w", err)
			}
			if err := appendStatusHistory(tx, design.ID, models.DesignStatusSold, "final edition sold"); err != nil {
				return err
			}
		}

		deal.Status = models.DealStatusPaid
		deal.PaidAt = &now
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &deal, &design, nil
}

func (s *DealService) GetDeal(id uuid.UUID) (*models.Deal, error) {
	var deal models.Deal
	if err := s.db.Preload("Design").First(&deal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &deal, nil
}

func (s *DealService) ListDeals(designID *uuid.UUID, params utils.PaginationParams) ([]models.Deal, int64, error) {
	query := s.db.Model(&models.Deal{}).Preload("Design")

	if designID != nil {
		query = query.Where("design_id = ?", *designID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count deals: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var deals []models.Deal
	if err := query.Find(&deals).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch deals: %w", err)
	}

	return deals, total, nil
}
