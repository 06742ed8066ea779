package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisURL string

	ServerPort string

	JWTSecret         string
	AccessTokenMaxAge int

	CSRFKey string

	// SecureCookies marks auth, cart and flash cookies Secure. Off by
	// default so local HTTP development works.
	SecureCookies bool

	// S3-compatible object storage for product and feed images.
	S3AccountID       string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3PublicURL       string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPTLSMode  string // "tls", "starttls" or "" for plaintext
	MailFrom     string
	ContactEmail string

	// Shared secret for verifying payment provider webhooks.
	PaymentWebhookSecret string

	YouTubeAPIKey    string
	YouTubeChannelID string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	accessTokenMaxAge, err := strconv.Atoi(os.Getenv("ACCESS_TOKEN_MAX_AGE"))
	if err != nil || accessTokenMaxAge <= 0 {
		accessTokenMaxAge = 86400
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "require"
	}

	smtpTLSMode := os.Getenv("SMTP_TLS_MODE")
	if smtpTLSMode == "" {
		smtpTLSMode = "starttls"
	}

	contactEmail := os.Getenv("CONTACT_EMAIL")
	if contactEmail == "" {
		contactEmail = "contact@jumemegawears.com"
	}

	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  sslMode,

		RedisURL: redisURL,

		ServerPort: serverPort,

		JWTSecret:         os.Getenv("JWT_SECRET"),
		AccessTokenMaxAge: accessTokenMaxAge,

		CSRFKey: os.Getenv("CSRF_KEY"),

		SecureCookies: os.Getenv("SECURE_COOKIES") == "true",

		S3AccountID:       os.Getenv("S3_ACCOUNT_ID"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3BucketName:      os.Getenv("S3_BUCKET_NAME"),
		S3PublicURL:       os.Getenv("S3_PUBLIC_URL"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     os.Getenv("SMTP_PORT"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPTLSMode:  smtpTLSMode,
		MailFrom:     os.Getenv("MAIL_FROM"),
		ContactEmail: contactEmail,

		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),

		YouTubeAPIKey:    os.Getenv("YOUTUBE_API_KEY"),
		YouTubeChannelID: os.Getenv("YOUTUBE_CHANNEL_ID"),
	}, nil
}
