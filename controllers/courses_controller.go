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

func GetCourses() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		categorySlug := strings.TrimSpace(c.Query("category"))
		level := strings.TrimSpace(c.Query("level"))
		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), 20)
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 20
		}
		if limit > 100 {
			limit = 100
		}
		skip := int64((page - 1) * limit)

		// Optional sorting
		sortParam := strings.TrimSpace(c.Query("sort"))
		sortDoc := bson.D{{Key: "title", Value: 1}}
		switch sortParam {
		case "price_asc":
			sortDoc = bson.D{{Key: "price", Value: 1}}
		case "price_desc":
			sortDoc = bson.D{{Key: "price", Value: -1}}
		case "rating":
			sortDoc = bson.D{{Key: "rating", Value: -1}}
		case "popular":
			sortDoc = bson.D{{Key: "studentCount", Value: -1}}
		case "newest":
			sortDoc = bson.D{{Key: "createdAt", Value: -1}}
		}

		coursesCol := database.OpenCollection("courses")
		categoriesCol := database.OpenCollection("categories")

		filter := bson.M{"isPublished": true}

		// If category slug is provided: resolve it -> ObjectID, then filter
		if categorySlug != "" {
			var cat models.Category
			if err := categoriesCol.FindOne(ctx, bson.M{"slug": categorySlug}).Decode(&cat); err != nil {
				// slug not found => empty list
				utils.OK(c, http.StatusOK, gin.H{
					"items": []models.Course{},
					"page":  page,
					"limit": limit,
					"total": 0,
				})
				return
			}
			filter["categoryId"] = cat.Id
		}
		if level != "" {
			filter["level"] = level
		}

		findOpts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(sortDoc)

		cursor, err := coursesCol.Find(ctx, filter, findOpts)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		defer cursor.Close(ctx)

		courses := make([]models.Course, 0)
		for cursor.Next(ctx) {
			var course models.Course
			if err := cursor.Decode(&course); err != nil {
				utils.Fail(c, http.StatusInternalServerError, err.Error())
				return
			}
			courses = append(courses, course)
		}
		if err := cursor.Err(); err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		total, err := coursesCol.CountDocuments(ctx, filter)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		utils.OK(c, http.StatusOK, gin.H{
			"items":    courses,
			"page":     page,
			"limit":    limit,
			"total":    total,
			"category": categorySlug,
			"sort":     sortParam,
		})
	}
}

// GET /courses/:id — course detail plus its sections, gated by purchase
// state. Locked sections are listed without their content so the outline is
// still browsable.
func GetCourse() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		coursesCol := database.OpenCollection("courses")
		sectionsCol := database.OpenCollection("course_sections")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid course id")
			return
		}

		var course models.Course
		if err := coursesCol.FindOne(ctx, bson.M{"_id": id}).Decode(&course); err != nil {
			utils.Fail(c, http.StatusNotFound, "course not found")
			return
		}
		if !course.IsPublished {
			utils.Fail(c, http.StatusNotFound, "course not found")
			return
		}

		unlocked := resolveAccess(c, course.Price, course.Id)

		cursor, err := sectionsCol.Find(ctx, bson.M{"courseId": course.Id},
			options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		defer cursor.Close(ctx)

		sections := make([]models.CourseSection, 0)
		for cursor.Next(ctx) {
			var s models.CourseSection
			if err := cursor.Decode(&s); err != nil {
				utils.Fail(c, http.StatusInternalServerError, err.Error())
				return
			}
			sections = append(sections, GateCourseSection(s, unlocked))
		}
		if err := cursor.Err(); err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		utils.OK(c, http.StatusOK, gin.H{
			"course":   course,
			"sections": sections,
			"locked":   !unlocked,
		})
	}
}

func AddCourse() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("courses")

		var body dto.CreateCourseDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		now := time.Now().UTC()
		course := models.Course{
			Title:       strings.TrimSpace(body.Title),
			Slug:        utils.GenerateSlug(body.Title),
			Description: body.Description,
			Level:       body.Level,
			Price:       body.Price,
			IsPublished: body.IsPublished,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if body.CategoryId != "" {
			catID, err := bson.ObjectIDFromHex(body.CategoryId)
			if err != nil {
				utils.Fail(c, http.StatusBadRequest, "invalid category id")
				return
			}
			course.CategoryId = catID
		}

		res, err := col.InsertOne(ctx, course)
		if err != nil {
			if utils.IsDuplicateKey(err) {
				utils.FailField(c, http.StatusBadRequest, "course already exists", "slug")
				return
			}
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		utils.OK(c, http.StatusCreated, gin.H{"id": res.InsertedID})
	}
}

func UpdateCourse() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("courses")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid course id")
			return
		}

		var body dto.UpdateCourseDTO
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
			set["slug"] = utils.GenerateSlug(v)
		}
		if body.Description != nil {
			set["description"] = *body.Description
		}
		if body.Level != nil {
			set["level"] = *body.Level
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
		if body.IsPublished != nil {
			set["isPublished"] = *body.IsPublished
		}

		res, err := col.UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			if utils.IsDuplicateKey(err) {
				utils.FailField(c, http.StatusBadRequest, "course already exists", "slug")
				return
			}
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if res.MatchedCount == 0 {
			utils.Fail(c, http.StatusNotFound, "course not found")
			return
		}

		utils.OKMessage(c, http.StatusOK, "course updated")
	}
}

func DeleteCourse() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("courses")
		sectionsCol := database.OpenCollection("course_sections")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid course id")
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if res.DeletedCount == 0 {
			utils.Fail(c, http.StatusNotFound, "course not found")
			return
		}

		// orphaned sections serve nothing
		_, _ = sectionsCol.DeleteMany(ctx, bson.M{"courseId": id})

		utils.OKMessage(c, http.StatusOK, "course deleted")
	}
}

// POST /admin/courses/:id/sections
func AddCourseSection() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		coursesCol := database.OpenCollection("courses")
		sectionsCol := database.OpenCollection("course_sections")

		courseID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid course id")
			return
		}

		if err := coursesCol.FindOne(ctx, bson.M{"_id": courseID}).Err(); err != nil {
			utils.Fail(c, http.StatusNotFound, "course not found")
			return
		}

		var body dto.CreateCourseSectionDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		section := models.CourseSection{
			CourseId: courseID,
			Title:    strings.TrimSpace(body.Title),
			Content:  body.Content,
			VideoUrl: body.VideoUrl,
			Duration: body.Duration,
			Order:    body.Order,
			IsFree:   body.IsFree,
		}

		res, err := sectionsCol.InsertOne(ctx, section)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		utils.OK(c, http.StatusCreated, gin.H{"id": res.InsertedID})
	}
}

// PUT /admin/courses/:id/sections/:sectionId
func UpdateCourseSection() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sectionsCol := database.OpenCollection("course_sections")

		courseID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid course id")
			return
		}
		sectionID, err := bson.ObjectIDFromHex(c.Param("sectionId"))
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid section id")
			return
		}

		var body dto.UpdateCourseSectionDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		set := bson.M{}
		if body.Title != nil {
			set["title"] = strings.TrimSpace(*body.Title)
		}
		if body.Content != nil {
			set["content"] = *body.Content
		}
		if body.VideoUrl != nil {
			set["videoUrl"] = *body.VideoUrl
		}
		if body.Duration != nil {
			set["duration"] = *body.Duration
		}
		if body.Order != nil {
			set["order"] = *body.Order
		}
		if body.IsFree != nil {
			set["isFree"] = *body.IsFree
		}

		if len(set) == 0 {
			utils.Fail(c, http.StatusBadRequest, "no updates provided")
			return
		}

		res, err := sectionsCol.UpdateOne(ctx,
			bson.M{"_id": sectionID, "courseId": courseID},
			bson.M{"$set": set})
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if res.MatchedCount == 0 {
			utils.Fail(c, http.StatusNotFound, "section not found")
			return
		}

		utils.OKMessage(c, http.StatusOK, "section updated")
	}
}

// DELETE /admin/courses/:id/sections/:sectionId
func DeleteCourseSection() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sectionsCol := database.OpenCollection("course_sections")

		courseID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid course id")
			return
		}
		sectionID, err := bson.ObjectIDFromHex(c.Param("sectionId"))
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid section id")
			return
		}

		res, err := sectionsCol.DeleteOne(ctx, bson.M{"_id": sectionID, "courseId": courseID})
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if res.DeletedCount == 0 {
			utils.Fail(c, http.StatusNotFound, "section not found")
			return
		}

		utils.OKMessage(c, http.StatusOK, "section deleted")
	}
}

// POST /admin/courses/:id/image
func UploadCourseImage(v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("courses")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid course id")
			return
		}

		var course models.Course
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&course); err != nil {
			utils.Fail(c, http.StatusNotFound, "course not found")
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

		url, err := utils.UploadCoverImageToGCS(ctx, gcs, bucket, "courses", course.Slug, fileHeader)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		if course.ImageUrl != "" {
			if obj, err := utils.ObjectNameFromGCSPublicURL(bucket, course.ImageUrl); err == nil {
				_ = utils.DeleteGCSObjects(ctx, gcs, bucket, []string{obj})
			}
		}

		if _, err := col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"imageUrl": url, "updatedAt": time.Now().UTC()}}); err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		utils.OK(c, http.StatusOK, gin.H{"imageUrl": url})
	}
}
