package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signPayload builds a Stripe-Signature header the way the gateway does:
// HMAC-SHA256 over "<timestamp>.<payload>".
func signPayload(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts.Unix())
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

const completedEvent = `{
	"id": "evt_test_1",
	"object": "event",
	"type": "checkout.session.completed",
	"data": {
		"object": {
			"id": "cs_test_1",
			"object": "checkout.session",
			"payment_status": "paid",
			"amount_total": 999,
			"currency": "usd",
			"metadata": {
				"userId": "64b0c8f2a2b3c4d5e6f70812",
				"resourceId": "64b0c8f2a2b3c4d5e6f70813",
				"resourceType": "documentation"
			}
		}
	}
}`

func TestVerifyWebhookValidSignature(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")

	payload := []byte(completedEvent)
	header := signPayload(payload, "whsec_test", time.Now())

	event, err := VerifyWebhook(payload, header)
	require.NoError(t, err)
	assert.Equal(t, "checkout.session.completed", string(event.Type))

	session, err := SessionFromEvent(event)
	require.NoError(t, err)
	assert.True(t, session.Paid)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, int64(999), session.AmountTotal)
	assert.Equal(t, "usd", session.Currency)
	assert.Equal(t, "64b0c8f2a2b3c4d5e6f70812", session.UserID)
	assert.Equal(t, "64b0c8f2a2b3c4d5e6f70813", session.ResourceID)
	assert.Equal(t, "documentation", session.ResourceType)
}

func TestVerifyWebhookBadSignature(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")

	payload := []byte(completedEvent)
	header := signPayload(payload, "whsec_wrong", time.Now())

	_, err := VerifyWebhook(payload, header)
	assert.Error(t, err)
}

func TestVerifyWebhookStaleTimestamp(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")

	payload := []byte(completedEvent)
	header := signPayload(payload, "whsec_test", time.Now().Add(-time.Hour))

	_, err := VerifyWebhook(payload, header)
	assert.Error(t, err)
}

func TestVerifyWebhookSecretUnset(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")

	_, err := VerifyWebhook([]byte(completedEvent), "t=1,v1=abc")
	assert.ErrorIs(t, err, ErrWebhookSecretUnset)
}

func TestSessionFromEventUnpaid(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")

	payload := []byte(`{
		"id": "evt_test_2",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_2",
				"object": "checkout.session",
				"payment_status": "unpaid",
				"metadata": {}
			}
		}
	}`)
	header := signPayload(payload, "whsec_test", time.Now())

	event, err := VerifyWebhook(payload, header)
	require.NoError(t, err)

	session, err := SessionFromEvent(event)
	require.NoError(t, err)
	assert.False(t, session.Paid)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1000), ToMinorUnits(10))
	assert.Equal(t, int64(999), ToMinorUnits(9.99))
	assert.Equal(t, int64(0), ToMinorUnits(0))
	// float rounding must not shave a cent
	assert.Equal(t, int64(2999), ToMinorUnits(29.99))
}
