// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Enums
type DesignStatus string

const (
	DesignStatusCreative   DesignStatus = "creative"
	DesignStatusModeling3D DesignStatus = "modeling_3d"
	DesignStatusUVTemplate DesignStatus = "uv_template"
	DesignStatusPrinting   DesignStatus = "printing"
	DesignStatusForSale    DesignStatus = "for_sale"
	DesignStatusSold       DesignStatus = "sold"
	DesignStatusDelivery   DesignStatus = "delivery"
	DesignStatusFeedback   DesignStatus = "feedback"
)

// ProductionLadder is the ordered list of production stages. Status
// transitions compare ladder indexes and may never move backwards.
var ProductionLadder = []DesignStatus{
	DesignStatusCreative,
	DesignStatusModeling3D,
	DesignStatusUVTemplate,
	DesignStatusPrinting,
	DesignStatusForSale,
	DesignStatusSold,
	DesignStatusDelivery,
	DesignStatusFeedback,
}

// LadderIndex returns the position of s on the production ladder, or -1
// when s is not a known stage.
func (s DesignStatus) LadderIndex() int {
	for i, stage := range ProductionLadder {
		if stage == s {
			return i
		}
	}
	return -1
}

type DealStatus string

const (
	DealStatusOpen DealStatus = "open"
	DealStatusPaid DealStatus = "paid"
)
