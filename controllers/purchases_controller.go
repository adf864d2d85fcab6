package controllers

import (
	"net/http"
	"strings"

	"github.com/brightstack/learnhubbackend/database"
	"github.com/brightstack/learnhubbackend/models"
	"github.com/brightstack/learnhubbackend/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// GET /user/purchases — the caller's completed purchases, newest first.
// ?resourceIds=a,b,c narrows the list so a catalog page can resolve lock
// state for everything it renders in one request.
func GetMyPurchases() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("purchases")

		userID, ok := CurrentUserID(c)
		if !ok {
			utils.Fail(c, http.StatusUnauthorized, "missing auth context")
			return
		}

		filter := bson.M{"userId": userID, "status": models.PurchaseCompleted}
		if idsParam := strings.TrimSpace(c.Query("resourceIds")); idsParam != "" {
			resourceIDs, err := utils.StringsToObjectIDs(strings.Split(idsParam, ","))
			if err != nil {
				utils.Fail(c, http.StatusBadRequest, "invalid resource id list")
				return
			}
			filter["resourceId"] = bson.M{"$in": resourceIDs}
		}

		cursor, err := col.Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "purchaseDate", Value: -1}}))
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		defer cursor.Close(ctx)

		purchases := make([]models.Purchase, 0)
		for cursor.Next(ctx) {
			var p models.Purchase
			if err := cursor.Decode(&p); err != nil {
				utils.Fail(c, http.StatusInternalServerError, err.Error())
				return
			}
			purchases = append(purchases, p)
		}
		if err := cursor.Err(); err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		utils.OK(c, http.StatusOK, purchases)
	}
}

// GET /purchases/check/:resourceId — purchase-state probe for the frontend
// gate.
func CheckPurchase() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			utils.Fail(c, http.StatusUnauthorized, "missing auth context")
			return
		}

		resourceID, err := bson.ObjectIDFromHex(c.Param("resourceId"))
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid resource id")
			return
		}

		utils.OK(c, http.StatusOK, gin.H{
			"purchased": HasPurchased(c.Request.Context(), userID, resourceID),
		})
	}
}
