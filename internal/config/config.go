package config

import "os"

type Config struct {
	DatabaseURL string
	JWTSecret   string
	Port        string
	ClientURL   string

	GoogleClientIDs    string
	GoogleClientID     string
	GoogleClientSecret string

	OutlookClientID     string
	OutlookClientSecret string

	FitbitClientID     string
	FitbitClientSecret string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripePriceID       string

	FCMServiceAccount string
}

func Load() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", "dockly.db"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		Port:        getEnv("PORT", "8080"),
		ClientURL:   getEnv("CLIENT_URL", "http://localhost:3000"),

		GoogleClientIDs:    getEnv("GOOGLE_CLIENT_IDS", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),

		OutlookClientID:     getEnv("OUTLOOK_CLIENT_ID", ""),
		OutlookClientSecret: getEnv("OUTLOOK_CLIENT_SECRET", ""),

		FitbitClientID:     getEnv("FITBIT_CLIENT_ID", ""),
		FitbitClientSecret: getEnv("FITBIT_CLIENT_SECRET", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripePriceID:       getEnv("STRIPE_PRICE_ID", ""),

		FCMServiceAccount: getEnv("FCM_SERVICE_ACCOUNT", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
