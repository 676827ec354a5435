package config

import (
	"fmt"
	"os"
)

// Config holds every externally provided setting for the service. Values are
// read once at startup; missing required values fail fast in main.
type Config struct {
	ServerPort string

	MongoURI    string
	MongoDBName string

	// Cassandra contact point for the notification history store.
	CassDB string

	JWTSecret string

	// S3-compatible object storage for the knowledge-hub and chat-attachments buckets.
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageUseSSL    bool

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPPassword string

	// TwilioBaseURL is overridable so the credential check can be pointed at a stub.
	TwilioBaseURL string

	// AppBaseURL is the public base URL used when composing magic links.
	AppBaseURL string
}

func Load() *Config {
	return &Config{
		ServerPort:       os.Getenv("SERVER_PORT"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDBName:      getEnv("MONGO_DB_NAME", "agency_os"),
		CassDB:           getEnv("CASS_DB", "127.0.0.1"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		StorageEndpoint:  os.Getenv("STORAGE_ENDPOINT"),
		StorageAccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
		StorageSecretKey: os.Getenv("STORAGE_SECRET_KEY"),
		StorageUseSSL:    os.Getenv("STORAGE_USE_SSL") == "true",
		SMTPHost:         getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPFrom:         os.Getenv("SMTP_FROM"),
		SMTPPassword:     os.Getenv("EMAIL_PASSWORD"),
		TwilioBaseURL:    getEnv("TWILIO_BASE_URL", "https://api.twilio.com"),
		AppBaseURL:       getEnv("APP_BASE_URL", "http://localhost:3000"),
	}
}

// Validate checks the settings without which the service cannot start.
func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT is not set in the environment variables")
	}
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is not set in the environment variables")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set in the environment variables")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
