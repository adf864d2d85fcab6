package controllers

import (
	"net/http"
	"strings"

	"github.com/brightstack/learnhubbackend/database"
	"github.com/brightstack/learnhubbackend/dto"
	"github.com/brightstack/learnhubbackend/models"
	"github.com/brightstack/learnhubbackend/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func AddCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("categories")

		var body dto.CreateCategoryDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		body.Title = strings.TrimSpace(body.Title)
		body.Slug = strings.TrimSpace(body.Slug)
		if body.Slug == "" {
			body.Slug = utils.GenerateSlug(body.Title)
		}

		doc := models.Category{
			Title:       body.Title,
			Slug:        body.Slug,
			Description: body.Description,
			Order:       body.Order,
			IsActive:    body.IsActive,
			Icon:        body.Icon,
		}

		res, err := col.InsertOne(ctx, doc)
		if err != nil {
			if utils.IsDuplicateKey(err) {
				utils.FailField(c, http.StatusBadRequest, "category already exists", "slug")
				return
			}
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		utils.OK(c, http.StatusCreated, gin.H{"id": res.InsertedID})
	}
}

func GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("categories")

		// pagination (optional)
		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), 50)
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 50
		}
		if limit > 200 {
			limit = 200
		}
		skip := int64((page - 1) * limit)

		q := strings.TrimSpace(c.Query("q"))

		filter := bson.M{}
		if q != "" {
			filter["title"] = bson.M{"$regex": utils.EscapeRegex(q), "$options": "i"}
		}
		if b, err := utils.ParseBoolQuery(c.Query("isActive")); err == nil && b != nil {
			filter["isActive"] = *b
		}

		opts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "order", Value: 1}, {Key: "title", Value: 1}})

		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.Category, 0)
		for cursor.Next(ctx) {
			var cat models.Category
			if err := cursor.Decode(&cat); err != nil {
				utils.Fail(c, http.StatusInternalServerError, err.Error())
				return
			}
			items = append(items, cat)
		}
		if err := cursor.Err(); err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		total, err := col.CountDocuments(ctx, filter)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		utils.OK(c, http.StatusOK, gin.H{
			"items": items,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}

func GetCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("categories")

		idHex := c.Param("id")
		slug := strings.TrimSpace(c.Param("slug"))
		if idHex == "" && slug == "" {
			utils.Fail(c, http.StatusBadRequest, "no id or slug provided")
			return
		}

		filter := bson.M{"slug": slug}
		if idHex != "" {
			id, err := bson.ObjectIDFromHex(idHex)
			if err != nil {
				utils.Fail(c, http.StatusBadRequest, "invalid category id")
				return
			}
			filter = bson.M{"_id": id}
		}

		var cat models.Category
		if err := col.FindOne(ctx, filter).Decode(&cat); err != nil {
			utils.Fail(c, http.StatusNotFound, "category not found")
			return
		}

		utils.OK(c, http.StatusOK, cat)
	}
}

func UpdateCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("categories")

		idHex := c.Param("id")
		id, err := bson.ObjectIDFromHex(idHex)
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid category id")
			return
		}

		var body dto.UpdateCategoryDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		set := bson.M{}
		if body.Title != nil {
			v := strings.TrimSpace(*body.Title)
			if v == "" {
				utils.Fail(c, http.StatusBadRequest, "title cannot be empty")
				return
			}
			set["title"] = v
		}
		if body.Slug != nil {
			v := strings.TrimSpace(*body.Slug)
			if v == "" {
				utils.Fail(c, http.StatusBadRequest, "slug cannot be empty")
				return
			}
			set["slug"] = v
		}
		if body.Description != nil {
			set["description"] = *body.Description
		}
		if body.Order != nil {
			set["order"] = *body.Order
		}
		if body.IsActive != nil {
			set["isActive"] = *body.IsActive
		}
		if body.Icon != nil {
			set["icon"] = *body.Icon
		}

		if len(set) == 0 {
			utils.Fail(c, http.StatusBadRequest, "no updates provided")
			return
		}

		res, err := col.UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			if utils.IsDuplicateKey(err) {
				utils.FailField(c, http.StatusBadRequest, "category already exists", "slug")
				return
			}
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if res.MatchedCount == 0 {
			utils.Fail(c, http.StatusNotFound, "category not found")
			return
		}

		utils.OKMessage(c, http.StatusOK, "category updated")
	}
}

func DeleteCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("categories")

		idHex := c.Param("id")
		id, err := bson.ObjectIDFromHex(idHex)
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid category id")
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if res.DeletedCount == 0 {
			utils.Fail(c, http.StatusNotFound, "category not found")
			return
		}

		utils.OKMessage(c, http.StatusOK, "category deleted")
	}
}

// POST /admin/categories/:id/image — multipart cover upload.
func UploadCategoryImage(v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("categories")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid category id")
			return
		}

		var cat models.Category
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&cat); err != nil {
			utils.Fail(c, http.StatusNotFound, "category not found")
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "missing image file")
			return
		}
		if _, err := v.ValidateFile(fileHeader); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		gcs, bucket, err := utils.NewGCSClient(c)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "failed to create storage client")
			return
		}
		defer gcs.Close()

		url, err := utils.UploadCoverImageToGCS(ctx, gcs, bucket, "categories", cat.Slug, fileHeader)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		// drop the previous cover, best effort
		if cat.ImageUrl != "" {
			if obj, err := utils.ObjectNameFromGCSPublicURL(bucket, cat.ImageUrl); err == nil {
				_ = utils.DeleteGCSObjects(ctx, gcs, bucket, []string{obj})
			}
		}

		if _, err := col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"imageUrl": url}}); err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		utils.OK(c, http.StatusOK, gin.H{"imageUrl": url})
	}
}
