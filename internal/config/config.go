package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	MongoURI      string
	MongoDatabase string
	// LegacyDatabase is the old database name still holding pre-migration
	// user documents. Account deletion cleans it up best-effort.
	LegacyDatabase string
	Port           string
	Env            string
	BaseURL        string

	JWTSecret string

	GoogleClientID       string
	GoogleClientSecret   string
	FacebookClientID     string
	FacebookClientSecret string
	AzureClientID        string
	AzureClientSecret    string
	AzureTenantID        string

	SendGridAPIKey  string
	MailFromName    string
	MailFromAddress string
	StudioInbox     string
	EmailEndpoint   string

	RazorpayKeyID     string
	RazorpayKeySecret string

	GeminiAPIKey string

	StorageBackend string
	UploadDir      string
	AWSRegion      string
	AWSBucketName  string
)

// Load reads environment variables from a .env file if present.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	MongoURI = getenv("MONGO_URI", "mongodb://localhost:27017/")
	MongoDatabase = getenv("MONGO_DATABASE", "velourstudio")
	LegacyDatabase = getenv("LEGACY_DATABASE", "test")
	Port = getenv("API_PORT", "8080")
	Env = getenv("APP_ENV", "development")
	BaseURL = getenv("BASE_URL", "http://localhost:"+Port)

	JWTSecret = os.Getenv("JWT_SECRET")

	GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	FacebookClientID = os.Getenv("FACEBOOK_CLIENT_ID")
	FacebookClientSecret = os.Getenv("FACEBOOK_CLIENT_SECRET")
	AzureClientID = os.Getenv("AZURE_CLIENT_ID")
	AzureClientSecret = os.Getenv("AZURE_CLIENT_SECRET")
	AzureTenantID = getenv("AZURE_TENANT_ID", "common")

	SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	MailFromName = getenv("MAIL_FROM_NAME", "Velour Studio")
	MailFromAddress = getenv("MAIL_FROM_ADDRESS", "no-reply@velourstudio.in")
	StudioInbox = getenv("STUDIO_INBOX", "bookings@velourstudio.in")
	EmailEndpoint = getenv("EMAIL_ENDPOINT", BaseURL+"/api/send-email")

	RazorpayKeyID = os.Getenv("RAZORPAY_KEY_ID")
	RazorpayKeySecret = os.Getenv("RAZORPAY_KEY_SECRET")

	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	StorageBackend = getenv("STORAGE_BACKEND", "local")
	UploadDir = getenv("UPLOAD_DIR", "uploads")
	AWSRegion = getenv("AWS_REGION", "ap-south-1")
	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")
}

// IsProduction reports whether the app runs with production settings.
func IsProduction() bool {
	return Env == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
