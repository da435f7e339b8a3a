package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Email        EmailConfig
	SMS          SMSConfig
	OTP          OTPConfig
	Verification VerificationConfig
	Storage      StorageConfig
	Admin        AdminBootstrapConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Debug       bool
	LogPath     string
	ClientURL   string
	CORSOrigins []string
	MaxUploadMB int64
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

// JWTConfig holds one secret per principal type. They must differ.
type JWTConfig struct {
	UserSecret  string
	AdminSecret string
	ExpiryHours int
}

func (c JWTConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryHours) * time.Hour
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type SMSConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

type VerificationConfig struct {
	ExpiryMinutes int
}

func (c VerificationConfig) Window() time.Duration {
	return time.Duration(c.ExpiryMinutes) * time.Minute
}

type StorageConfig struct {
	Region         string
	Bucket         string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	PresignMinutes int
}

func (c StorageConfig) PresignExpiry() time.Duration {
	return time.Duration(c.PresignMinutes) * time.Minute
}

type AdminBootstrapConfig struct {
	Username    string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Password    string
	Permissions []string
}

// LoadConfig reads .env (when present) and the process environment once.
// The returned Config is treated as read-only for the life of the process.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "reuniteme")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("CLIENT_URL", "http://localhost:5173")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("MAX_UPLOAD_MB", 10)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("OTP_EXPIRY_MINUTES", 10)
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("VERIFICATION_EXPIRY_MINUTES", 30)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("PRESIGN_EXPIRY_MINUTES", 60)
	v.SetDefault("ADMIN_PERMISSIONS", "read,write,delete")

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Port:        v.GetString("PORT"),
			Debug:       v.GetBool("DEBUG"),
			LogPath:     v.GetString("LOG_PATH"),
			ClientURL:   strings.TrimRight(v.GetString("CLIENT_URL"), "/"),
			CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
			MaxUploadMB: v.GetInt64("MAX_UPLOAD_MB"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			UserSecret:  v.GetString("JWT_SECRET"),
			AdminSecret: v.GetString("ADMIN_JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Email: EmailConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASS"),
			From:     v.GetString("EMAIL_FROM"),
		},
		SMS: SMSConfig{
			AccountSID:  v.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:   v.GetString("TWILIO_AUTH_TOKEN"),
			PhoneNumber: v.GetString("TWILIO_PHONE_NUMBER"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: v.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        v.GetInt("OTP_LENGTH"),
		},
		Verification: VerificationConfig{
			ExpiryMinutes: v.GetInt("VERIFICATION_EXPIRY_MINUTES"),
		},
		Storage: StorageConfig{
			Region:         v.GetString("AWS_REGION"),
			Bucket:         v.GetString("AWS_BUCKET_NAME"),
			Endpoint:       v.GetString("S3_ENDPOINT"),
			AccessKey:      v.GetString("AWS_ACCESS_KEY_ID"),
			SecretKey:      v.GetString("AWS_SECRET_ACCESS_KEY"),
			PresignMinutes: v.GetInt("PRESIGN_EXPIRY_MINUTES"),
		},
		Admin: AdminBootstrapConfig{
			Username:    v.GetString("ADMIN_USERNAME"),
			FirstName:   v.GetString("ADMIN_FIRST_NAME"),
			LastName:    v.GetString("ADMIN_LAST_NAME"),
			Email:       v.GetString("ADMIN_EMAIL_ADDR"),
			Phone:       v.GetString("ADMIN_PHONE"),
			Password:    v.GetString("ADMIN_PASSWORD"),
			Permissions: splitList(v.GetString("ADMIN_PERMISSIONS")),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.JWT.UserSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.JWT.AdminSecret == "" {
		missing = append(missing, "ADMIN_JWT_SECRET")
	}
	if c.Storage.Bucket == "" {
		missing = append(missing, "AWS_BUCKET_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	if c.JWT.UserSecret == c.JWT.AdminSecret {
		return errors.New("JWT_SECRET and ADMIN_JWT_SECRET must differ")
	}
	if c.JWT.ExpiryHours <= 0 {
		return errors.New("JWT_EXPIRY_HOURS must be positive")
	}
	if c.Verification.ExpiryMinutes <= 0 {
		return errors.New("VERIFICATION_EXPIRY_MINUTES must be positive")
	}

	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
