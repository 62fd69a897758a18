package config

import (
	"strings"
	"time"

	"github.com/casalabia/realtor-backend/internal/logger"
	"github.com/casalabia/realtor-backend/internal/utils"
)

// Config is assembled once in main and handed to constructors. Services
// never read the environment themselves.
type Config struct {
	App     AppConfig
	Session SessionConfig
	AI      AIConfig
	Media   MediaConfig
}

type AppConfig struct {
	Version     string
	Env         string
	Port        string
	APIPrefix   string
	CORSOrigins []string
	MaxUploadMB int
}

type SessionConfig struct {
	CookieName   string
	IdleTTL      time.Duration
	AbsoluteTTL  time.Duration
	SecureCookie bool
	IPSalt       string
	UASalt       string
}

type AIConfig struct {
	APIKey           string
	BaseURL          string
	Model            string
	Temperature      float64
	MaxTokens        int
	Timeout          time.Duration
	RefineEnabled    bool
	QualityThreshold float64
	RequestsPerMin   int
}

type MediaConfig struct {
	BucketName         string
	CDNBaseURL         string
	MaxFilesPerListing int
	MaxFileSizeBytes   int64
	MinDimensionPx     int
	MaxDimensionPx     int
	PresignExpiry      time.Duration
	JPEGQuality        int
	VariantWidths      []int
}

func Load(log *logger.Logger) Config {
	env := utils.GetEnv("APP_ENV", "development", log)

	corsEnv := utils.GetEnv("CORS_ORIGIN", "http://localhost:3000", log)
	origins := make([]string, 0, 4)
	for _, o := range strings.Split(corsEnv, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Config{
		App: AppConfig{
			Version:     utils.GetEnv("APP_VERSION", "0.1.0", log),
			Env:         env,
			Port:        utils.GetEnv("PORT", "8080", log),
			APIPrefix:   utils.GetEnv("API_PREFIX", "/api/v1", log),
			CORSOrigins: origins,
			MaxUploadMB: utils.GetEnvAsInt("MAX_UPLOAD_MB", 25, log),
		},
		Session: SessionConfig{
			CookieName:   utils.GetEnv("SESSION_COOKIE_NAME", "sid", log),
			IdleTTL:      time.Duration(utils.GetEnvAsInt("SESSION_IDLE_DAYS", 7, log)) * 24 * time.Hour,
			AbsoluteTTL:  time.Duration(utils.GetEnvAsInt("SESSION_ABSOLUTE_DAYS", 30, log)) * 24 * time.Hour,
			SecureCookie: env == "production",
			IPSalt:       utils.GetEnv("SESSION_IP_SALT", "ip_salt", log),
			UASalt:       utils.GetEnv("SESSION_UA_SALT", "ua_salt", log),
		},
		AI: AIConfig{
			APIKey:           utils.GetEnv("OPENAI_API_KEY", "", log),
			BaseURL:          utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com", log),
			Model:            utils.GetEnv("OPENAI_MODEL", "gpt-4o-mini", log),
			Temperature:      utils.GetEnvAsFloat("OPENAI_TEMPERATURE", 0.7, log),
			MaxTokens:        utils.GetEnvAsInt("OPENAI_MAX_TOKENS", 2000, log),
			Timeout:          time.Duration(utils.GetEnvAsInt("OPENAI_TIMEOUT_SECONDS", 60, log)) * time.Second,
			RefineEnabled:    utils.GetEnvAsBool("AI_REFINE_ENABLED", true, log),
			QualityThreshold: utils.GetEnvAsFloat("AI_QUALITY_THRESHOLD", 0.7, log),
			RequestsPerMin:   utils.GetEnvAsInt("AI_REQUESTS_PER_MINUTE", 10, log),
		},
		Media: MediaConfig{
			BucketName:         utils.GetEnv("GCS_BUCKET_NAME", "", log),
			CDNBaseURL:         utils.GetEnv("CDN_BASE_URL", "https://media.casalabia.dev", log),
			MaxFilesPerListing: utils.GetEnvAsInt("MEDIA_MAX_FILES_PER_LISTING", 30, log),
			MaxFileSizeBytes:   int64(utils.GetEnvAsInt("MEDIA_MAX_FILE_SIZE_MB", 20, log)) * 1024 * 1024,
			MinDimensionPx:     100,
			MaxDimensionPx:     8000,
			PresignExpiry:      time.Duration(utils.GetEnvAsInt("MEDIA_PRESIGNED_URL_EXPIRES_MINUTES", 5, log)) * time.Minute,
			JPEGQuality:        utils.GetEnvAsInt("IMAGE_QUALITY_JPEG", 85, log),
			VariantWidths:      []int{1600, 1024, 512},
		},
	}
}
