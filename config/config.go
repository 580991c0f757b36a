package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the runtime settings read from the environment
type Config struct {
	Port           string        `validate:"required"`
	Env            string        `validate:"required"`
	StoreDriver    string        `validate:"oneof=mongo memory"`
	MongoURI       string        `validate:"required_if=StoreDriver mongo"`
	DatabaseName   string        `validate:"required"`
	ReviewsDBName  string        `validate:"required"`
	TokenSecret    string        `validate:"required"`
	TokenTTL       time.Duration `validate:"gt=0"`
	RequestTimeout time.Duration `validate:"gt=0"`

	StripeSecretKey string
	Currency        string `validate:"required,len=3"`

	AllowedOrigins []string

	MailProvider   string `validate:"omitempty,oneof=postmark sendgrid"`
	PostmarkToken  string `validate:"required_if=MailProvider postmark"`
	SendgridAPIKey string `validate:"required_if=MailProvider sendgrid"`
	EmailSender    string `validate:"required_with=MailProvider"`
}

// Load reads .env (when present) and the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	v := viper.New()
	v.SetDefault("PORT", "1001")
	v.SetDefault("ENV", "development")
	v.SetDefault("STORE_DRIVER", "mongo")
	v.SetDefault("DB_HOST", "cluster0.uxvdig6.mongodb.net")
	v.SetDefault("DATABASE_NAME", "skillShareDb")
	v.SetDefault("REVIEWS_DATABASE_NAME", "bistroDb")
	v.SetDefault("TOKEN_TTL", time.Hour)
	v.SetDefault("REQUEST_TIMEOUT", 5*time.Second)
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.AutomaticEnv()

	cfg := &Config{
		Port:            v.GetString("PORT"),
		Env:             v.GetString("ENV"),
		StoreDriver:     strings.ToLower(v.GetString("STORE_DRIVER")),
		MongoURI:        mongoURI(v),
		DatabaseName:    v.GetString("DATABASE_NAME"),
		ReviewsDBName:   v.GetString("REVIEWS_DATABASE_NAME"),
		TokenSecret:     v.GetString("ACCESS_TOKEN_SECRET"),
		TokenTTL:        v.GetDuration("TOKEN_TTL"),
		RequestTimeout:  v.GetDuration("REQUEST_TIMEOUT"),
		StripeSecretKey: v.GetString("STRIPE_SECRET_KEY"),
		Currency:        strings.ToLower(v.GetString("PAYMENT_CURRENCY")),
		AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		MailProvider:    strings.ToLower(v.GetString("MAIL_PROVIDER")),
		PostmarkToken:   v.GetString("POSTMARK_API_TOKEN"),
		SendgridAPIKey:  v.GetString("SENDGRID_API_KEY"),
		EmailSender:     v.GetString("EMAIL_SENDER"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// mongoURI prefers MONGODB_URI and falls back to an Atlas SRV string built
// from DB_USER and DB_PASS.
func mongoURI(v *viper.Viper) string {
	if uri := v.GetString("MONGODB_URI"); uri != "" {
		return uri
	}
	user, pass := v.GetString("DB_USER"), v.GetString("DB_PASS")
	if user == "" || pass == "" {
		return ""
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority&appName=Cluster0",
		user, pass, v.GetString("DB_HOST"))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
