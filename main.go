package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/brightstack/learnhubbackend/cache"
	"github.com/brightstack/learnhubbackend/controllers"
	"github.com/brightstack/learnhubbackend/database"
	"github.com/brightstack/learnhubbackend/middleware"
	"github.com/brightstack/learnhubbackend/models"
	"github.com/brightstack/learnhubbackend/payments"
	"github.com/brightstack/learnhubbackend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	ctx := context.Background()
	if err := database.EnsureIndexes(ctx); err != nil {
		log.Fatal(err)
	}

	//seeding admin user
	usersCol := database.OpenCollection("users")
	if err := utils.SeedAdminUser(ctx, usersCol); err != nil {
		log.Fatal(err)
	}

	payments.Init()
	cache.Init()
	if !cache.Enabled() {
		log.Println("Redis unavailable, suggestion caching disabled")
	}

	r := gin.New()
	v := utils.NewImageValidator()

	origins := os.Getenv("ALLOWED_ORIGINS")
	allowedOrigins := map[string]bool{}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	r.POST("/auth/register", controllers.Register())
	r.POST("/auth/login", controllers.Login())
	r.POST("/auth/refresh", controllers.Refresh())
	r.POST("/auth/logout", controllers.Logout())
	r.POST("/auth/forget-password", controllers.ForgotPassword())
	r.POST("/auth/reset-password", controllers.ResetPassword())
	r.GET("/auth/profile", middleware.AuthMiddleware(), controllers.GetProfile())
	r.POST("/auth/me/password", middleware.AuthMiddleware(), controllers.ChangeMyPassword())

	r.GET("/categories", controllers.GetCategories())
	r.GET("/categories/:id", controllers.GetCategory())
	r.GET("/categories/slug/:slug", controllers.GetCategory())

	r.GET("/courses", controllers.GetCourses())
	r.GET("/courses/:id", middleware.OptionalAuth(), controllers.GetCourse())

	r.GET("/documentation", controllers.GetDocumentationList())
	r.GET("/documentation/category/:category", controllers.GetDocumentationByCategory())
	r.GET("/documentation/:idOrSlug", middleware.OptionalAuth(), controllers.GetDocumentation())

	r.GET("/search", controllers.Search())
	r.GET("/search/suggestions", controllers.SearchSuggestions())

	// gateway calls back server-to-server, unauthenticated by design
	r.POST("/payments/webhook", controllers.Webhook())

	paymentsGroup := r.Group("/payments")
	paymentsGroup.Use(middleware.AuthMiddleware())
	{
		paymentsGroup.POST("/create-checkout-session", controllers.CreateCheckoutSession())
		paymentsGroup.POST("/success", controllers.RecordPurchase())
		paymentsGroup.GET("/verify-session", controllers.VerifySession())
	}

	user := r.Group("/user")
	user.Use(middleware.AuthMiddleware())
	{
		user.GET("/purchases", controllers.GetMyPurchases())
		user.POST("/purchases", controllers.RecordPurchase())
	}
	r.GET("/purchases/check/:resourceId", middleware.AuthMiddleware(), controllers.CheckPurchase())

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(
		string(models.RoleAdmin), string(models.RoleInstructor)))
	{
		admin.POST("/categories", controllers.AddCategory())
		admin.PUT("/categories/:id", controllers.UpdateCategory())
		admin.DELETE("/categories/:id", controllers.DeleteCategory())
		admin.POST("/categories/:id/image", controllers.UploadCategoryImage(v))

		admin.POST("/courses", controllers.AddCourse())
		admin.PUT("/courses/:id", controllers.UpdateCourse())
		admin.DELETE("/courses/:id", controllers.DeleteCourse())
		admin.POST("/courses/:id/image", controllers.UploadCourseImage(v))
		admin.POST("/courses/:id/sections", controllers.AddCourseSection())
		admin.PUT("/courses/:id/sections/:sectionId", controllers.UpdateCourseSection())
		admin.DELETE("/courses/:id/sections/:sectionId", controllers.DeleteCourseSection())

		admin.POST("/documentation", controllers.AddDocumentation())
		admin.PUT("/documentation/:id", controllers.UpdateDocumentation())
		admin.DELETE("/documentation/:id", controllers.DeleteDocumentation())
	}

	// Server will listen on 0.0.0.0:8080 unless PORT overrides it
	r.Run()
}
