// Package payments wraps the Stripe checkout and webhook surface.
package payments

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/0xZumii/cat-tv/internal/models"
	"github.com/0xZumii/cat-tv/pkg/logger"
)

// Tiers is the fixed price-to-credit table offered at checkout.
// Fixed in-app rate: $1 = 100 CATTV.
var Tiers = []models.Tier{
	{ID: "tier1", PriceUSD: 1, PriceCents: 100, Cattv: 100, CatsCanFeed: 10},
	{ID: "tier2", PriceUSD: 5, PriceCents: 500, Cattv: 500, CatsCanFeed: 50},
	{ID: "tier3", PriceUSD: 10, PriceCents: 1000, Cattv: 1000, CatsCanFeed: 100},
}

// TierByID looks up a tier in the static table.
func TierByID(id string) (models.Tier, bool) {
	for _, t := range Tiers {
		if t.ID == id {
			return t, true
		}
	}
	return models.Tier{}, false
}

// TierLabel renders the display label for a tier.
func TierLabel(t models.Tier) string {
	return fmt.Sprintf("$%d → %d Food → Feed %d cats", t.PriceUSD, t.Cattv, t.CatsCanFeed)
}

// StripeProvider implements models.PaymentProvider against Stripe.
type StripeProvider struct {
	logger *logger.Logger

	secretKey     string
	webhookSecret string
}

func NewStripeProvider(logger *logger.Logger, secretKey, webhookSecret string) *StripeProvider {
	if secretKey != "" {
		stripe.Key = secretKey
	}
	return &StripeProvider{logger: logger, secretKey: secretKey, webhookSecret: webhookSecret}
}

func (s *StripeProvider) Configured() bool {
	return s.secretKey != "" && s.webhookSecret != ""
}

// CreateSession opens a Stripe checkout session carrying the crediting
// metadata the webhook needs.
func (s *StripeProvider) CreateSession(userID string, tier models.Tier, successURL, cancelURL string) (string, string, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("usd"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String("Cat TV Food Pack"),
					Description: stripe.String(fmt.Sprintf("%d cat food - Feed up to %d cats!", tier.Cattv, tier.CatsCanFeed)),
				},
				UnitAmount: stripe.Int64(tier.PriceCents),
			},
			Quantity: stripe.Int64(1),
		}},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.AddMetadata("userId", userID)
	params.AddMetadata("tierId", tier.ID)
	params.AddMetadata("cattv", fmt.Sprintf("%d", tier.Cattv))

	sess, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return sess.ID, sess.URL, nil
}

// VerifyEvent checks the Stripe-Signature header against the webhook secret
// and decodes the event payload.
func (s *StripeProvider) VerifyEvent(payload []byte, sigHeader string) (*models.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	result := &models.WebhookEvent{Type: string(event.Type)}
	if event.Type == "checkout.session.completed" {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session: %w", err)
		}
		result.SessionID = sess.ID
		result.Metadata = sess.Metadata
		if sess.PaymentIntent != nil {
			result.PaymentID = sess.PaymentIntent.ID
		}
	}
	return result, nil
}
