package payments

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Metadata keys attached to every checkout session so the webhook and the
// success endpoint can correlate the payment back to a user and resource.
const (
	MetaUserID       = "userId"
	MetaResourceID   = "resourceId"
	MetaResourceType = "resourceType"
)

func Init() {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
}

type CheckoutInput struct {
	UserID       string
	ResourceID   string
	ResourceType string
	Title        string
	Price        float64 // major units, converted to cents for the gateway
	SuccessURL   string
	CancelURL    string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// SessionResult is what the verify and record-purchase paths need from a
// retrieved session.
type SessionResult struct {
	ID           string
	Paid         bool
	AmountTotal  int64
	Currency     string
	UserID       string
	ResourceID   string
	ResourceType string
}

func CreateCheckoutSession(in CheckoutInput) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency()),
					UnitAmount: stripe.Int64(ToMinorUnits(in.Price)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(in.Title),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
	}
	params.AddMetadata(MetaUserID, in.UserID)
	params.AddMetadata(MetaResourceID, in.ResourceID)
	params.AddMetadata(MetaResourceType, in.ResourceType)

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func RetrieveSession(sessionID string) (*SessionResult, error) {
	s, err := session.Get(sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}
	return sessionResult(s), nil
}

func sessionResult(s *stripe.CheckoutSession) *SessionResult {
	return &SessionResult{
		ID:           s.ID,
		Paid:         s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotal:  s.AmountTotal,
		Currency:     string(s.Currency),
		UserID:       s.Metadata[MetaUserID],
		ResourceID:   s.Metadata[MetaResourceID],
		ResourceType: s.Metadata[MetaResourceType],
	}
}

// VerifyWebhook checks the Stripe-Signature header against the shared
// webhook secret and returns the decoded event.
func VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if secret == "" {
		return stripe.Event{}, ErrWebhookSecretUnset
	}
	return webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

var ErrWebhookSecretUnset = fmt.Errorf("STRIPE_WEBHOOK_SECRET is not configured")

// SessionFromEvent decodes the checkout session embedded in a webhook event.
func SessionFromEvent(event stripe.Event) (*SessionResult, error) {
	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("decode checkout session event: %w", err)
	}
	return sessionResult(&cs), nil
}

// ToMinorUnits converts a major-unit price to the gateway's integer amount.
func ToMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

func currency() string {
	if c := os.Getenv("STRIPE_CURRENCY"); c != "" {
		return c
	}
	return "usd"
}
