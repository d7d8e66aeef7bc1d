// internal/models/deal.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Deal is one buyer's commerce intent against a design. It is created
// open by the checkout flow and flips to paid exactly once; settlement
// is the only operation that consumes an edition.
type Deal struct {
	BaseModel
	DesignID   uuid.UUID  `json:"design_id" gorm:"type:uuid;not null;index"`
	BuyerName  string     `json:"buyer_name,omitempty" gorm:"size:120"`
	BuyerEmail string     `json:"buyer_email,omitempty" gorm:"size:255"`
	Status     DealStatus `json:"status" gorm:"type:varchar(20);default:'open';index"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`

	// Reference to the external checkout session, when one was opened.
	CheckoutSessionID string `json:"checkout_session_id,omitempty" gorm:"size:255;index"`

	Design Design `json:"design,omitempty" gorm:"foreignKey:DesignID"`
}
