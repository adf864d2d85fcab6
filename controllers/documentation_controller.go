package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/brightstack/learnhubbackend/database"
	"github.com/brightstack/learnhubbackend/dto"
	"github.com/brightstack/learnhubbackend/models"
	"github.com/brightstack/learnhubbackend/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// listProjection keeps heavy fields out of listing responses.
var docListProjection = bson.M{
	"content":      0,
	"codeExamples": 0,
}

func GetDocumentationList() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("documentation")

		maxLimit, defaultLimit := utils.GetDefaultQueryLimits()
		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), defaultLimit)
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = defaultLimit
		}
		if limit > maxLimit {
			limit = maxLimit
		}
		skip := int64((page - 1) * limit)

		filter := bson.M{"isPublished": true}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			filter["title"] = bson.M{"$regex": utils.EscapeRegex(q), "$options": "i"}
		}

		findOpts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "title", Value: 1}}).
			SetProjection(docListProjection)

		cursor, err := col.Find(ctx, filter, findOpts)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		defer cursor.Close(ctx)

		docs := make([]models.Documentation, 0)
		for cursor.Next(ctx) {
			var doc models.Documentation
			if err := cursor.Decode(&doc); err != nil {
				utils.Fail(c, http.StatusInternalServerError, err.Error())
				return
			}
			docs = append(docs, doc)
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
			"items": docs,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}

// GET /documentation/:idOrSlug — detail through the purchase gate.
// Unpublished documents 404 for everyone; drafts are only reachable
// through the admin endpoints.
func GetDocumentation() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("documentation")

		idOrSlug := strings.TrimSpace(c.Param("idOrSlug"))
		if idOrSlug == "" {
			utils.Fail(c, http.StatusBadRequest, "no id or slug provided")
			return
		}

		filter := bson.M{"slug": idOrSlug}
		if id, err := bson.ObjectIDFromHex(idOrSlug); err == nil {
			filter = bson.M{"_id": id}
		}

		var doc models.Documentation
		if err := col.FindOne(ctx, filter).Decode(&doc); err != nil {
			utils.Fail(c, http.StatusNotFound, "documentation not found")
			return
		}
		if !doc.IsPublished {
			utils.Fail(c, http.StatusNotFound, "documentation not found")
			return
		}

		unlocked := resolveAccess(c, doc.Price, doc.Id)

		utils.OK(c, http.StatusOK, gin.H{
			"document": GateDocumentation(doc, unlocked),
			"locked":   !unlocked,
		})
	}
}

// GET /documentation/category/:category — published docs in a category,
// addressed by category slug.
func GetDocumentationByCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("documentation")
		categoriesCol := database.OpenCollection("categories")

		slug := strings.TrimSpace(c.Param("category"))

		var cat models.Category
		if err := categoriesCol.FindOne(ctx, bson.M{"slug": slug}).Decode(&cat); err != nil {
			utils.Fail(c, http.StatusNotFound, "category not found")
			return
		}

		cursor, err := col.Find(ctx,
			bson.M{"categoryId": cat.Id, "isPublished": true},
			options.Find().
				SetSort(bson.D{{Key: "title", Value: 1}}).
				SetProjection(docListProjection))
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		defer cursor.Close(ctx)

		docs := make([]models.Documentation, 0)
		for cursor.Next(ctx) {
			var doc models.Documentation
			if err := cursor.Decode(&doc); err != nil {
				utils.Fail(c, http.StatusInternalServerError, err.Error())
				return
			}
			docs = append(docs, doc)
		}
		if err := cursor.Err(); err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		utils.OK(c, http.StatusOK, gin.H{
			"category": cat,
			"items":    docs,
		})
	}
}

func AddDocumentation() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("documentation")

		var body dto.CreateDocumentationDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		body.Title = strings.TrimSpace(body.Title)
		body.Slug = strings.TrimSpace(body.Slug)
		if body.Slug == "" {
			body.Slug = utils.GenerateSlug(body.Title)
		}

		sections, err := docSectionsFromDTO(c, body.DocumentSections)
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		now := time.Now().UTC()
		doc := models.Documentation{
			Title:            body.Title,
			Slug:             body.Slug,
			Description:      body.Description,
			Content:          body.Content,
			Price:            body.Price,
			KeyFeatures:      body.KeyFeatures,
			CodeExamples:     codeExamplesFromDTO(body.CodeExamples),
			DocumentSections: sections,
			IsPublished:      body.IsPublished,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		if body.CategoryId != "" {
			catID, err := bson.ObjectIDFromHex(body.CategoryId)
			if err != nil {
				utils.Fail(c, http.StatusBadRequest, "invalid category id")
				return
			}
			doc.CategoryId = catID
		}

		res, err := col.InsertOne(ctx, doc)
		if err != nil {
			if utils.IsDuplicateKey(err) {
				utils.FailField(c, http.StatusBadRequest, "documentation already exists", "slug")
				return
			}
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		utils.OK(c, http.StatusCreated, gin.H{"id": res.InsertedID})
	}
}

func UpdateDocumentation() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("documentation")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid documentation id")
			return
		}

		var body dto.UpdateDocumentationDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
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
		if body.Content != nil {
			set["content"] = *body.Content
		}
		if body.Price != nil {
			if *body.Price < 0 {
				utils.Fail(c, http.StatusBadRequest, "price cannot be negative")
				return
			}
			set["price"] = *body.Price
		}
		if body.CategoryId != nil {
			catID, err := bson.ObjectIDFromHex(*body.CategoryId)
			if err != nil {
				utils.Fail(c, http.StatusBadRequest, "invalid category id")
				return
			}
			set["categoryId"] = catID
		}
		if body.KeyFeatures != nil {
			set["keyFeatures"] = *body.KeyFeatures
		}
		if body.CodeExamples != nil {
			set["codeExamples"] = codeExamplesFromDTO(*body.CodeExamples)
		}
		if body.DocumentSections != nil {
			sections, err := docSectionsFromDTO(c, *body.DocumentSections)
			if err != nil {
				utils.Fail(c, http.StatusBadRequest, err.Error())
				return
			}
			set["documentSections"] = sections
		}
		if body.IsPublished != nil {
			set["isPublished"] = *body.IsPublished
		}

		res, err := col.UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			if utils.IsDuplicateKey(err) {
				utils.FailField(c, http.StatusBadRequest, "documentation already exists", "slug")
				return
			}
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if res.MatchedCount == 0 {
			utils.Fail(c, http.StatusNotFound, "documentation not found")
			return
		}

		utils.OKMessage(c, http.StatusOK, "documentation updated")
	}
}

func DeleteDocumentation() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("documentation")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid documentation id")
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if res.DeletedCount == 0 {
			utils.Fail(c, http.StatusNotFound, "documentation not found")
			return
		}

		// detach from any parent section lists
		_, _ = col.UpdateMany(ctx,
			bson.M{"documentSections.documentId": id},
			bson.M{"$pull": bson.M{"documentSections": bson.M{"documentId": id}}})

		utils.OKMessage(c, http.StatusOK, "documentation deleted")
	}
}

func codeExamplesFromDTO(in []dto.CodeExampleDTO) []models.CodeExample {
	out := make([]models.CodeExample, 0, len(in))
	for _, e := range in {
		out = append(out, models.CodeExample{
			Title:    e.Title,
			Language: e.Language,
			Code:     e.Code,
		})
	}
	return out
}

// docSectionsFromDTO resolves section references to real documents and
// denormalizes their title/slug for navigation rendering.
func docSectionsFromDTO(c *gin.Context, in []dto.DocumentSectionDTO) ([]models.DocumentSection, error) {
	if len(in) == 0 {
		return nil, nil
	}
	col := database.OpenCollection("documentation")
	out := make([]models.DocumentSection, 0, len(in))
	for _, s := range in {
		id, err := bson.ObjectIDFromHex(s.DocumentId)
		if err != nil {
			return nil, err
		}
		var ref models.Documentation
		if err := col.FindOne(c.Request.Context(), bson.M{"_id": id},
			options.FindOne().SetProjection(bson.M{"title": 1, "slug": 1})).Decode(&ref); err != nil {
			return nil, err
		}
		out = append(out, models.DocumentSection{
			DocumentId: id,
			Title:      ref.Title,
			Slug:       ref.Slug,
			Order:      s.Order,
		})
	}
	return out, nil
}
