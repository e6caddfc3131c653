package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/velourstudio/studio-api/internal/chat"
	"github.com/velourstudio/studio-api/internal/config"
	"github.com/velourstudio/studio-api/internal/forms"
	"github.com/velourstudio/studio-api/internal/handlers"
	"github.com/velourstudio/studio-api/internal/middleware"
	"github.com/velourstudio/studio-api/internal/providers"
	"github.com/velourstudio/studio-api/internal/services"
	"github.com/velourstudio/studio-api/internal/storage"
	"github.com/velourstudio/studio-api/internal/store"
)

func main() {
	config.Load()
	if config.JWTSecret != "" {
		log.Println("JWT_SECRET is SET.")
	} else {
		log.Println("JWT_SECRET is NOT SET.")
	}

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	log.Println("Successfully connected to MongoDB!")

	db := store.NewMongo(
		client.Database(config.MongoDatabase),
		client.Database(config.LegacyDatabase),
	)

	// --- Upload Storage ---
	backend, err := newStorageBackend(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize storage backend: %v", err)
	}

	// --- Identity Providers ---
	callback := func(provider string) string {
		return config.BaseURL + "/auth/callback/" + provider
	}
	registry := providers.NewRegistry(
		providers.NewCredentialsProvider(db),
		providers.NewGoogleProvider(config.GoogleClientID, config.GoogleClientSecret, callback("google")),
		providers.NewFacebookProvider(config.FacebookClientID, config.FacebookClientSecret, callback("facebook")),
		providers.NewAzureProvider(config.AzureClientID, config.AzureClientSecret, config.AzureTenantID, callback("azure-ad")),
	)

	// --- Services ---
	notificationSvc := services.NewNotificationService(config.EmailEndpoint)
	mailer := services.NewMailer(config.SendGridAPIKey, config.MailFromName, config.MailFromAddress, config.StudioInbox)
	payments := services.NewPaymentService(config.RazorpayKeyID, config.RazorpayKeySecret)
	chatStore := chat.NewMemoryStore(30 * time.Minute)

	h := handlers.NewHandler(db, db, notificationSvc, mailer, payments, registry, backend, chatStore)

	// --- Gin Router ---
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.BaseURL, "https://velourstudio.in"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// --- Routes ---
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterUser)
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/logout", h.Logout)
		authRoutes.GET("/session", h.Session)
		authRoutes.GET("/signin/:provider", h.ProviderLogin)
		authRoutes.GET("/callback/:provider", h.ProviderCallback)
	}

	apiRoutes := r.Group("/api")
	{
		// One POST endpoint per consultation form.
		for _, def := range forms.All {
			apiRoutes.POST("/bookings/"+def.Slug, h.SubmitForm(def))
		}

		apiRoutes.GET("/images/:name", h.ServeImage)
		apiRoutes.POST("/send-email", h.SendEmail)
		apiRoutes.POST("/payments/order", h.CreateOrder)
		apiRoutes.POST("/chat", h.HandleChat)
		apiRoutes.GET("/notifications/count", h.NotificationCount)
	}

	profileRoutes := r.Group("/api/profile")
	profileRoutes.Use(middleware.AuthMiddleware())
	{
		profileRoutes.PUT("/name", h.UpdateName)
		profileRoutes.PUT("/password", h.ChangePassword)
		profileRoutes.POST("/image", h.UploadImage)
		profileRoutes.DELETE("/image", h.RemoveImage)
		profileRoutes.DELETE("", h.DeleteAccount)
	}

	log.Printf("Starting server on port %s", config.Port)
	r.Run(":" + config.Port)
}

func newStorageBackend(ctx context.Context) (storage.Backend, error) {
	if config.StorageBackend == "s3" {
		return storage.NewS3(ctx, config.AWSRegion, config.AWSBucketName)
	}
	return storage.NewLocal(config.UploadDir)
}
