// internal/services/payment_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"gorm.io/gorm"

	"github.com/Stvolll/scooter-wraps-backend/internal/config"
	"github.com/Stvolll/scooter-wraps-backend/internal/models"
)

// PaymentService bridges the deal ledger to the external payment
// provider. "Paid" is asserted by the provider's webhook; the service
// only opens checkout sessions and reacts to completion events.
type PaymentService struct {
	db          *gorm.DB
	dealService *DealService
	config      *config.Config
}

type CheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

func NewPaymentService(db *gorm.DB, dealService *DealService, cfg *config.Config) *PaymentService {
	// Initialize Stripe
	stripe.Key = cfg.Payment.StripeSecretKey

	return &PaymentService{
		db:          db,
		dealService: dealService,
		config:      cfg,
	}
}

// CreateCheckoutSession opens a Stripe Checkout session for an open
// deal, pricing it from the owning design and carrying the deal id in
// the session metadata for settlement.
func (s *PaymentService) CreateCheckoutSession(dealID uuid.UUID) (*CheckoutSessionResponse, error) {
	var deal models.Deal
	if err := s.db.Preload("Design").First(&deal, "id = ?", dealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if deal.Status != models.DealStatusOpen {
		return nil, ErrAlreadySettled
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("usd"),
					UnitAmount: stripe.Int64(int64(deal.Design.Price * 100)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(deal.Design.Title),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.config.Frontend.BaseURL + "/checkout/success"),
		CancelURL:  stripe.String(s.config.Frontend.BaseURL + "/checkout/cancel"),
	}
	params.AddMetadata("deal_id", deal.ID.String())

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	if err := s.db.Model(&deal).Update("checkout_session_id", sess.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to record checkout session: %w", err)
	}

	return &CheckoutSessionResponse{SessionID: sess.ID, URL: sess.URL}, nil
}

// HandleWebhookEvent reacts to provider events. Signature verification
// happens in the fronting layer; the payload arrives pre-authenticated.
// Settlement is idempotent here because providers redeliver events.
func (s *PaymentService) HandleWebhookEvent(payload []byte) error {
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to parse webhook event: %w", err)
	}

	if event.Type != "checkout.session.completed" {
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("failed to parse checkout session: %w", err)
	}

	dealID, err := uuid.Parse(sess.Metadata["deal_id"])
	if err != nil {
		return fmt.Errorf("checkout session carries no valid deal id: %w", err)
	}

	_, _, err = s.dealService.SettleDeal(dealID)
	if errors.Is(err, ErrAlreadySettled) {
		logrus.WithField("deal", dealID).Info("Ignoring redelivered settlement event")
		return nil
	}

	return err
}
