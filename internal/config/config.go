package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppCfg struct {
	Env          string        `yaml:"env"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	JWT          struct {
		Secret           string `yaml:"secret"`
		AccessTTLMinutes int    `yaml:"accessTTLMinutes"`
		RefreshTTLDays   int    `yaml:"refreshTTLDays"`
	} `yaml:"jwt"`
}

type MongoCfg struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type RedisCfg struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type BrevoCfg struct {
	APIKey    string `yaml:"apiKey"`
	FromEmail string `yaml:"fromEmail"`
	FromName  string `yaml:"fromName"`
}

type OAuthCfg struct {
	Google struct {
		ClientID string `yaml:"clientID"`
	} `yaml:"google"`
	LinkedIn struct {
		ClientID     string `yaml:"clientID"`
		ClientSecret string `yaml:"clientSecret"`
		RedirectURI  string `yaml:"redirectURI"`
	} `yaml:"linkedin"`
	Facebook struct {
		AppID       string `yaml:"appID"`
		AppSecret   string `yaml:"appSecret"`
		RedirectURI string `yaml:"redirectURI"`
	} `yaml:"facebook"`
}

type PaymentCfg struct {
	BaseURL  string `yaml:"baseURL"`
	APIKey   string `yaml:"apiKey"`
	Currency string `yaml:"currency"`
}

type S3Cfg struct {
	Region string `yaml:"region"`
	Bucket string `yaml:"bucket"`
}

type KafkaCfg struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type SecurityCfg struct {
	OtpTTLMinutes               int `yaml:"otpTTLMinutes"`
	OtpRateLimitPerEmailPerHour int `yaml:"otpRateLimitPerEmailPerHour"`
	AuthRequestsPerMinute       int `yaml:"authRequestsPerMinute"`
	PasswordMinLength           int `yaml:"passwordMinLength"`
}

type Config struct {
	App      AppCfg      `yaml:"app"`
	Mongo    MongoCfg    `yaml:"mongo"`
	Redis    RedisCfg    `yaml:"redis"`
	Brevo    BrevoCfg    `yaml:"brevo"`
	OAuth    OAuthCfg    `yaml:"oauth"`
	Payment  PaymentCfg  `yaml:"payment"`
	S3       S3Cfg       `yaml:"s3"`
	Kafka    KafkaCfg    `yaml:"kafka"`
	Security SecurityCfg `yaml:"security"`
}

// Load reads the YAML config file, then applies environment variable
// overrides. Secrets normally arrive via .env / environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	override := func(env string, apply func(string)) {
		if v := os.Getenv(env); v != "" {
			apply(v)
		}
	}

	override("APP_ENV", func(v string) { cfg.App.Env = v })
	override("APP_PORT", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = n
		}
	})
	override("JWT_SECRET", func(v string) { cfg.App.JWT.Secret = v })
	override("JWT_ACCESS_TTL_MINUTES", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.JWT.AccessTTLMinutes = n
		}
	})
	override("JWT_REFRESH_TTL_DAYS", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.JWT.RefreshTTLDays = n
		}
	})
	override("MONGO_URI", func(v string) { cfg.Mongo.URI = v })
	override("MONGO_DB", func(v string) { cfg.Mongo.Database = v })
	override("REDIS_ADDR", func(v string) { cfg.Redis.Addr = v })
	override("REDIS_PASSWORD", func(v string) { cfg.Redis.Password = v })
	override("BREVO_API_KEY", func(v string) { cfg.Brevo.APIKey = v })
	override("BREVO_FROM_EMAIL", func(v string) { cfg.Brevo.FromEmail = v })
	override("BREVO_FROM_NAME", func(v string) { cfg.Brevo.FromName = v })
	override("GOOGLE_CLIENT_ID", func(v string) { cfg.OAuth.Google.ClientID = v })
	override("LINKEDIN_CLIENT_ID", func(v string) { cfg.OAuth.LinkedIn.ClientID = v })
	override("LINKEDIN_CLIENT_SECRET", func(v string) { cfg.OAuth.LinkedIn.ClientSecret = v })
	override("LINKEDIN_REDIRECT_URI", func(v string) { cfg.OAuth.LinkedIn.RedirectURI = v })
	override("FACEBOOK_APP_ID", func(v string) { cfg.OAuth.Facebook.AppID = v })
	override("FACEBOOK_APP_SECRET", func(v string) { cfg.OAuth.Facebook.AppSecret = v })
	override("FACEBOOK_REDIRECT_URI", func(v string) { cfg.OAuth.Facebook.RedirectURI = v })
	override("PAYMENT_BASE_URL", func(v string) { cfg.Payment.BaseURL = v })
	override("PAYMENT_API_KEY", func(v string) { cfg.Payment.APIKey = v })
	override("PAYMENT_CURRENCY", func(v string) { cfg.Payment.Currency = v })
	override("S3_REGION", func(v string) { cfg.S3.Region = v })
	override("S3_BUCKET", func(v string) { cfg.S3.Bucket = v })
	override("KAFKA_BROKERS", func(v string) { cfg.Kafka.Brokers = strings.Split(v, ",") })
	override("KAFKA_TOPIC", func(v string) { cfg.Kafka.Topic = v })
	override("OTP_TTL_MINUTES", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Security.OtpTTLMinutes = n
		}
	})
	override("OTP_RATE_LIMIT_PER_EMAIL_PER_HOUR", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Security.OtpRateLimitPerEmailPerHour = n
		}
	})

	applyDefaults(cfg)

	if cfg.App.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required (set in .env or config.yaml)")
	}
	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGO_URI is required")
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == 0 {
		cfg.App.Port = 8080
	}
	if cfg.App.JWT.AccessTTLMinutes == 0 {
		cfg.App.JWT.AccessTTLMinutes = 15
	}
	if cfg.App.JWT.RefreshTTLDays == 0 {
		cfg.App.JWT.RefreshTTLDays = 7
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "booking_web"
	}
	if cfg.Payment.Currency == "" {
		cfg.Payment.Currency = "USD"
	}
	if cfg.Security.OtpTTLMinutes == 0 {
		cfg.Security.OtpTTLMinutes = 10
	}
	if cfg.Security.OtpRateLimitPerEmailPerHour == 0 {
		cfg.Security.OtpRateLimitPerEmailPerHour = 5
	}
	if cfg.Security.AuthRequestsPerMinute == 0 {
		cfg.Security.AuthRequestsPerMinute = 30
	}
	if cfg.Security.PasswordMinLength == 0 {
		cfg.Security.PasswordMinLength = 8
	}
}
