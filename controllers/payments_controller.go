package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/brightstack/learnhubbackend/database"
	"github.com/brightstack/learnhubbackend/dto"
	"github.com/brightstack/learnhubbackend/models"
	"github.com/brightstack/learnhubbackend/payments"
	"github.com/brightstack/learnhubbackend/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// POST /payments/create-checkout-session
func CreateCheckoutSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, ok := CurrentUserID(c)
		if !ok {
			utils.Fail(c, http.StatusUnauthorized, "missing auth context")
			return
		}

		var body dto.CreateCheckoutSessionDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		resourceID, err := bson.ObjectIDFromHex(body.ResourceId)
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid resource id")
			return
		}

		title, price, err := lookupResource(ctx, models.ResourceType(body.ResourceType), resourceID)
		if err != nil {
			utils.Fail(c, http.StatusNotFound, "resource not found")
			return
		}
		if price == 0 {
			utils.Fail(c, http.StatusBadRequest, "resource is free")
			return
		}
		if HasPurchased(ctx, userID, resourceID) {
			utils.Fail(c, http.StatusBadRequest, "already purchased")
			return
		}

		appURL := strings.TrimRight(os.Getenv("APP_URL"), "/")
		successURL := body.SuccessUrl
		if successURL == "" {
			successURL = appURL + "/payments/success?session_id={CHECKOUT_SESSION_ID}"
		}
		cancelURL := body.CancelUrl
		if cancelURL == "" {
			cancelURL = appURL + "/payments/cancel"
		}

		session, err := payments.CreateCheckoutSession(payments.CheckoutInput{
			UserID:       userID.Hex(),
			ResourceID:   resourceID.Hex(),
			ResourceType: body.ResourceType,
			Title:        title,
			Price:        price,
			SuccessURL:   successURL,
			CancelURL:    cancelURL,
		})
		if err != nil {
			log.Print("checkout session failed: ", err.Error())
			utils.Fail(c, http.StatusInternalServerError, "payment gateway error")
			return
		}

		utils.OK(c, http.StatusOK, gin.H{
			"sessionId": session.ID,
			"url":       session.URL,
		})
	}
}

// POST /payments/success — the client returns from the gateway with a
// session id; verify with the gateway and write the ledger.
func RecordPurchase() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, ok := CurrentUserID(c)
		if !ok {
			utils.Fail(c, http.StatusUnauthorized, "missing auth context")
			return
		}

		var body dto.RecordPurchaseDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		session, err := payments.RetrieveSession(body.SessionId)
		if err != nil {
			log.Print("session retrieve failed: ", err.Error())
			utils.Fail(c, http.StatusInternalServerError, "payment gateway error")
			return
		}

		if session.UserID != userID.Hex() {
			utils.Fail(c, http.StatusBadRequest, "session does not belong to this user")
			return
		}

		purchase, err := recordPurchaseFromSession(ctx, session)
		if err != nil {
			if errors.Is(err, errSessionUnpaid) {
				utils.Fail(c, http.StatusBadRequest, "payment not completed")
				return
			}
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		utils.OK(c, http.StatusOK, purchase)
	}
}

// GET /payments/verify-session?session_id= — read-only gateway lookup; it
// never touches the ledger.
func VerifySession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(c.Query("session_id"))
		if sessionID == "" {
			utils.Fail(c, http.StatusBadRequest, "missing session_id")
			return
		}

		session, err := payments.RetrieveSession(sessionID)
		if err != nil {
			log.Print("session retrieve failed: ", err.Error())
			utils.Fail(c, http.StatusInternalServerError, "payment gateway error")
			return
		}

		utils.OK(c, http.StatusOK, gin.H{
			"sessionId":    session.ID,
			"paid":         session.Paid,
			"amount":       session.AmountTotal,
			"currency":     session.Currency,
			"resourceId":   session.ResourceID,
			"resourceType": session.ResourceType,
		})
	}
}

// POST /payments/webhook — server-to-server reconciliation path. A paid
// checkout unlocks the resource even if the buyer's browser never made it
// back to us.
func Webhook() gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := c.GetRawData()
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "unreadable payload")
			return
		}

		event, err := payments.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			if errors.Is(err, payments.ErrWebhookSecretUnset) {
				log.Print("webhook rejected: secret not configured")
				utils.Fail(c, http.StatusInternalServerError, "webhook not configured")
				return
			}
			utils.Fail(c, http.StatusBadRequest, "invalid signature")
			return
		}

		switch event.Type {
		case "checkout.session.completed", "checkout.session.async_payment_succeeded":
			// Delayed payment methods send "completed" while the charge is
			// still pending and confirm with "async_payment_succeeded" once
			// it clears. Both land on the same idempotent write.
			session, err := payments.SessionFromEvent(event)
			if err != nil {
				utils.Fail(c, http.StatusBadRequest, err.Error())
				return
			}
			if _, err := recordPurchaseFromSession(c.Request.Context(), session); err != nil {
				if !errors.Is(err, errSessionUnpaid) {
					log.Print("webhook ledger write failed: ", err.Error())
					utils.Fail(c, http.StatusInternalServerError, "failed to record purchase")
					return
				}
				// charge still pending; the confirmation event lands later
			}
		default:
			log.Printf("webhook: ignoring event type %s", event.Type)
		}

		utils.OKMessage(c, http.StatusOK, "received")
	}
}

var errSessionUnpaid = errors.New("session is not paid")

// recordPurchaseFromSession is the single ledger write path, shared by the
// client success endpoint and the webhook. The upsert is keyed on the same
// (userId, resourceId, completed) pair as the unique index, so replays and
// races both resolve to the one existing record.
func recordPurchaseFromSession(ctx context.Context, session *payments.SessionResult) (*models.Purchase, error) {
	if !session.Paid {
		return nil, errSessionUnpaid
	}

	userID, err := bson.ObjectIDFromHex(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("session metadata: bad user id: %w", err)
	}
	resourceID, err := bson.ObjectIDFromHex(session.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("session metadata: bad resource id: %w", err)
	}
	resourceType := models.ResourceType(session.ResourceType)
	if resourceType != models.ResourceCourse && resourceType != models.ResourceDocumentation {
		return nil, fmt.Errorf("session metadata: bad resource type %q", session.ResourceType)
	}

	col := database.OpenCollection("purchases")

	filter := bson.M{
		"userId":     userID,
		"resourceId": resourceID,
		"status":     models.PurchaseCompleted,
	}
	update := bson.M{
		"$setOnInsert": bson.M{
			"userId":          userID,
			"resourceId":      resourceID,
			"resourceType":    resourceType,
			"amount":          session.AmountTotal,
			"currency":        session.Currency,
			"stripeSessionId": session.ID,
			"status":          models.PurchaseCompleted,
			"purchaseDate":    time.Now().UTC(),
		},
	}
	res, err := col.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil && !utils.IsDuplicateKey(err) {
		// a duplicate key here means we lost a race with a concurrent
		// upsert; the record exists, so fall through to the read
		return nil, fmt.Errorf("record purchase: %w", err)
	}

	var purchase models.Purchase
	if ferr := col.FindOne(ctx, filter).Decode(&purchase); ferr != nil {
		return nil, fmt.Errorf("read purchase back: %w", ferr)
	}

	if err == nil && res.UpsertedCount == 1 && resourceType == models.ResourceCourse {
		coursesCol := database.OpenCollection("courses")
		_, _ = coursesCol.UpdateByID(ctx, resourceID, bson.M{"$inc": bson.M{"studentCount": 1}})
	}

	return &purchase, nil
}

// lookupResource resolves a priced resource to its display title and price.
func lookupResource(ctx context.Context, resourceType models.ResourceType, id bson.ObjectID) (string, float64, error) {
	switch resourceType {
	case models.ResourceCourse:
		var course models.Course
		err := database.OpenCollection("courses").FindOne(ctx, bson.M{"_id": id, "isPublished": true}).Decode(&course)
		if err != nil {
			return "", 0, err
		}
		return course.Title, course.Price, nil
	case models.ResourceDocumentation:
		var doc models.Documentation
		err := database.OpenCollection("documentation").FindOne(ctx, bson.M{"_id": id, "isPublished": true}).Decode(&doc)
		if err != nil {
			return "", 0, err
		}
		return doc.Title, doc.Price, nil
	}
	return "", 0, fmt.Errorf("unknown resource type %q", resourceType)
}
