package controllers

import (
	"context"
	"unicode/utf8"

	"github.com/brightstack/learnhubbackend/database"
	"github.com/brightstack/learnhubbackend/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// previewRunes is how much of a paid document's content is shown before the
// paywall cut.
const previewRunes = 400

// HasPurchased answers whether a completed purchase exists for the pair.
func HasPurchased(ctx context.Context, userID, resourceID bson.ObjectID) bool {
	col := database.OpenCollection("purchases")
	count, err := col.CountDocuments(ctx, bson.M{
		"userId":     userID,
		"resourceId": resourceID,
		"status":     models.PurchaseCompleted,
	})
	return err == nil && count > 0
}

// resolveAccess decides the gate state for the requesting user. Free
// resources are always unlocked and the ledger is never consulted for them.
func resolveAccess(c *gin.Context, price float64, resourceID bson.ObjectID) bool {
	if price == 0 {
		return true
	}
	if isStaff(c) {
		return true
	}
	userID, ok := CurrentUserID(c)
	if !ok {
		return false
	}
	return HasPurchased(c.Request.Context(), userID, resourceID)
}

// GateCourseSection strips the body of a locked section while keeping the
// outline fields (title, order, duration) browsable.
func GateCourseSection(s models.CourseSection, unlocked bool) models.CourseSection {
	if unlocked || s.IsFree {
		return s
	}
	s.Content = ""
	s.VideoUrl = ""
	return s
}

// GateDocumentation returns the document as served to the requester: the
// full record when unlocked, otherwise a preview with truncated content and
// no code examples. Section links stay visible either way.
func GateDocumentation(doc models.Documentation, unlocked bool) models.Documentation {
	if unlocked {
		return doc
	}
	doc.Content = TruncateContent(doc.Content, previewRunes)
	doc.CodeExamples = nil
	return doc
}

// TruncateContent cuts at a rune boundary and appends an ellipsis when
// anything was removed.
func TruncateContent(content string, limit int) string {
	if utf8.RuneCountInString(content) <= limit {
		return content
	}
	runes := []rune(content)
	return string(runes[:limit]) + "…"
}
