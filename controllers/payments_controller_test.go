package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// stripeSignature builds a Stripe-Signature header the way the gateway
// does: HMAC-SHA256 over "<timestamp>.<payload>".
func stripeSignature(payload, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts.Unix())
	mac.Write([]byte(payload))
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func postWebhook(t *testing.T, payload string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/payments/webhook", Webhook())

	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", stripeSignature(payload, "whsec_test", time.Now()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func checkoutEvent(eventType, paymentStatus, userID string) string {
	return fmt.Sprintf(`{
		"id": "evt_test_1",
		"object": "event",
		"type": %q,
		"data": {
			"object": {
				"id": "cs_test_1",
				"object": "checkout.session",
				"payment_status": %q,
				"amount_total": 999,
				"currency": "usd",
				"metadata": {
					"userId": %q,
					"resourceId": "64b0c8f2a2b3c4d5e6f70813",
					"resourceType": "documentation"
				}
			}
		}
	}`, eventType, paymentStatus, userID)
}

// A routed paid event must reach the ledger write, which rejects the
// mangled metadata before touching storage; an event falling through to
// the ignore branch would return 200 instead.
func TestWebhookRoutesCheckoutCompletionEvents(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")

	for _, eventType := range []string{
		"checkout.session.completed",
		"checkout.session.async_payment_succeeded",
	} {
		w := postWebhook(t, checkoutEvent(eventType, "paid", "not-a-user-id"))
		assert.Equal(t, http.StatusInternalServerError, w.Code, eventType)
	}
}

func TestWebhookToleratesPendingAsyncPayment(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")

	// "completed" arrives unpaid for delayed payment methods; acknowledge
	// and wait for the confirmation event
	w := postWebhook(t, checkoutEvent("checkout.session.completed", "unpaid", "64b0c8f2a2b3c4d5e6f70812"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookIgnoresUnrelatedEvents(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")

	w := postWebhook(t, checkoutEvent("charge.refunded", "paid", "64b0c8f2a2b3c4d5e6f70812"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_other")

	w := postWebhook(t, checkoutEvent("checkout.session.completed", "paid", "64b0c8f2a2b3c4d5e6f70812"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
