package controllers

import (
	"net/http"
	"strings"

	"github.com/brightstack/learnhubbackend/cache"
	"github.com/brightstack/learnhubbackend/database"
	"github.com/brightstack/learnhubbackend/models"
	"github.com/brightstack/learnhubbackend/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const maxSuggestions = 5

type Suggestion struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Type  string `json:"type"` // course | documentation
}

// GET /search?q= — grouped matches across courses, documentation and
// categories. Only published/active items are searched.
func Search() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			utils.Fail(c, http.StatusBadRequest, "missing search query")
			return
		}
		limit := utils.ParseIntDefault(c.Query("limit"), 10)
		if limit < 1 {
			limit = 10
		}
		if limit > 50 {
			limit = 50
		}

		regex := bson.M{"$regex": utils.EscapeRegex(q), "$options": "i"}
		textMatch := bson.M{"$or": bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
		}}

		coursesCol := database.OpenCollection("courses")
		docsCol := database.OpenCollection("documentation")
		categoriesCol := database.OpenCollection("categories")

		courses := make([]models.Course, 0)
		courseFilter := bson.M{"isPublished": true, "$or": textMatch["$or"]}
		cursor, err := coursesCol.Find(ctx, courseFilter,
			options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "studentCount", Value: -1}}))
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if err := cursor.All(ctx, &courses); err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		docs := make([]models.Documentation, 0)
		docFilter := bson.M{"isPublished": true, "$or": textMatch["$or"]}
		cursor, err = docsCol.Find(ctx, docFilter,
			options.Find().SetLimit(int64(limit)).
				SetSort(bson.D{{Key: "title", Value: 1}}).
				SetProjection(docListProjection))
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if err := cursor.All(ctx, &docs); err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		categories := make([]models.Category, 0)
		cursor, err = categoriesCol.Find(ctx,
			bson.M{"isActive": true, "title": regex},
			options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "order", Value: 1}}))
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if err := cursor.All(ctx, &categories); err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		utils.OK(c, http.StatusOK, gin.H{
			"query":         q,
			"courses":       courses,
			"documentation": docs,
			"categories":    categories,
			"total":         len(courses) + len(docs) + len(categories),
		})
	}
}

// GET /search/suggestions?q= — typeahead titles, served from Redis when the
// same term was asked recently.
func SearchSuggestions() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			utils.OK(c, http.StatusOK, []Suggestion{})
			return
		}

		key := cache.SuggestionKey(q)
		var cached []Suggestion
		if cache.GetJSON(ctx, key, &cached) {
			utils.OK(c, http.StatusOK, cached)
			return
		}

		regex := bson.M{"$regex": "^" + utils.EscapeRegex(q), "$options": "i"}
		suggestions := make([]Suggestion, 0, maxSuggestions)

		cursor, err := database.OpenCollection("courses").Find(ctx,
			bson.M{"isPublished": true, "title": regex},
			options.Find().SetLimit(maxSuggestions).SetProjection(bson.M{"title": 1, "slug": 1}))
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		var courses []models.Course
		if err := cursor.All(ctx, &courses); err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		for _, course := range courses {
			suggestions = append(suggestions, Suggestion{Title: course.Title, Slug: course.Slug, Type: "course"})
		}

		if remaining := maxSuggestions - len(suggestions); remaining > 0 {
			cursor, err := database.OpenCollection("documentation").Find(ctx,
				bson.M{"isPublished": true, "title": regex},
				options.Find().SetLimit(int64(remaining)).SetProjection(bson.M{"title": 1, "slug": 1}))
			if err != nil {
				utils.Fail(c, http.StatusInternalServerError, err.Error())
				return
			}
			var docs []models.Documentation
			if err := cursor.All(ctx, &docs); err != nil {
				utils.Fail(c, http.StatusInternalServerError, err.Error())
				return
			}
			for _, doc := range docs {
				suggestions = append(suggestions, Suggestion{Title: doc.Title, Slug: doc.Slug, Type: "documentation"})
			}
		}

		cache.SetJSON(ctx, key, suggestions, cache.SuggestionTTL())

		utils.OK(c, http.StatusOK, suggestions)
	}
}
