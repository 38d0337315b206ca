package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the ARCMS API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	PublicBaseURL          string
	CORSAllowOrigins       string
	DatabaseURL            string
	RedisURL               string
	SessionTTL             time.Duration
	AllowedEmailDomains    []string
	BcryptCost             int
	DefaultImageID         uint
	UploadMaxMB            int
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	SMTPHost               string
	SMTPPort               int
	SMTPUsername           string
	SMTPPassword           string
	MailSenderName         string
	NATSURL                string
	MailSubject            string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ARCMS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "ARCMS API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.base_url", "http://localhost:8080")
	v.SetDefault("cors.origins", "http://localhost:5173")
	v.SetDefault("session.ttl", "12h")
	v.SetDefault("email.domains", "lpunetwork.edu.ph,lpu.edu.ph")
	v.SetDefault("bcrypt.cost", 10)
	v.SetDefault("default.image_id", 68)
	v.SetDefault("upload.max_mb", 10)
	v.SetDefault("cloudinary.folder", "arcms/profile")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("mail.sender_name", "TEAM MID")
	v.SetDefault("mail.subject", "arcms.mail")

	ttlString := v.GetString("session.ttl")
	if ttlString == "" {
		ttlString = "12h"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid session ttl: %w", err)
	}

	domains := make([]string, 0)
	for _, domain := range strings.Split(v.GetString("email.domains"), ",") {
		domain = strings.TrimSpace(strings.TrimPrefix(domain, "@"))
		if domain != "" {
			domains = append(domains, domain)
		}
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		PublicBaseURL:          strings.TrimRight(v.GetString("app.base_url"), "/"),
		CORSAllowOrigins:       v.GetString("cors.origins"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		SessionTTL:             ttl,
		AllowedEmailDomains:    domains,
		BcryptCost:             v.GetInt("bcrypt.cost"),
		DefaultImageID:         v.GetUint("default.image_id"),
		UploadMaxMB:            v.GetInt("upload.max_mb"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		SMTPHost:               v.GetString("smtp.host"),
		SMTPPort:               v.GetInt("smtp.port"),
		SMTPUsername:           v.GetString("smtp.username"),
		SMTPPassword:           v.GetString("smtp.password"),
		MailSenderName:         v.GetString("mail.sender_name"),
		NATSURL:                v.GetString("nats.url"),
		MailSubject:            v.GetString("mail.subject"),
	}

	if len(cfg.AllowedEmailDomains) == 0 {
		return Config{}, fmt.Errorf("at least one allowed email domain must be configured")
	}

	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return Config{}, fmt.Errorf("bcrypt cost %d is out of range", cfg.BcryptCost)
	}

	if cfg.UploadMaxMB <= 0 {
		cfg.UploadMaxMB = 10
	}

	return cfg, nil
}
