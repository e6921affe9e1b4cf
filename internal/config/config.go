package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported values of STORAGE_DRIVER.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMongo  = "mongo"
)

type Config struct {
	AppPort  int    `mapstructure:"APP_PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	StorageDriver  string `mapstructure:"STORAGE_DRIVER"`
	DatabasePath   string `mapstructure:"DATABASE_PATH"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	MongoURI       string `mapstructure:"MONGODB_URI"`
	MongoDatabase  string `mapstructure:"MONGODB_DATABASE"`
	UploadDir      string `mapstructure:"UPLOAD_DIR"`
	MaxUploadFiles int    `mapstructure:"MAX_UPLOAD_FILES"`
	MaxUploadBytes int64  `mapstructure:"MAX_UPLOAD_BYTES"`

	OpenAIAPIKey     string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL    string        `mapstructure:"OPENAI_BASE_URL"`
	OpenAIModel      string        `mapstructure:"OPENAI_MODEL"`
	OpenAITimeout    time.Duration `mapstructure:"OPENAI_TIMEOUT"`
	OpenAIMaxRetries int           `mapstructure:"OPENAI_MAX_RETRIES"`
	OpenAIRetryWait  time.Duration `mapstructure:"OPENAI_RETRY_WAIT"`

	ElevenLabsAPIKey      string        `mapstructure:"ELEVENLABS_API_KEY"`
	ElevenLabsBaseURL     string        `mapstructure:"ELEVENLABS_BASE_URL"`
	ElevenLabsModel       string        `mapstructure:"ELEVENLABS_MODEL"`
	ElevenLabsVoiceMale   string        `mapstructure:"ELEVENLABS_VOICE_MALE"`
	ElevenLabsVoiceFemale string        `mapstructure:"ELEVENLABS_VOICE_FEMALE"`
	ElevenLabsTimeout     time.Duration `mapstructure:"ELEVENLABS_TIMEOUT"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`
}

func setDefaults() {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("LOG_LEVEL", "INFO")

	viper.SetDefault("STORAGE_DRIVER", StorageSQLite)
	viper.SetDefault("DATABASE_PATH", "./data/spareeye.db")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGODB_DATABASE", "spareeye")
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("MAX_UPLOAD_FILES", 6)
	viper.SetDefault("MAX_UPLOAD_BYTES", 10*1024*1024)

	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o")
	viper.SetDefault("OPENAI_TIMEOUT", "60s")
	viper.SetDefault("OPENAI_MAX_RETRIES", 1)
	viper.SetDefault("OPENAI_RETRY_WAIT", "500ms")

	viper.SetDefault("ELEVENLABS_API_KEY", "")
	viper.SetDefault("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io")
	viper.SetDefault("ELEVENLABS_MODEL", "eleven_monolingual_v1")
	viper.SetDefault("ELEVENLABS_VOICE_MALE", "pNInz6obpgDQGcFmaJgB")
	viper.SetDefault("ELEVENLABS_VOICE_FEMALE", "21m00Tcm4TlvDq8ikWAM")
	viper.SetDefault("ELEVENLABS_TIMEOUT", "60s")

	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_TTL", "24h")

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,https://spareeye.onrender.com")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
}

func LoadConfig() (*Config, error) {
	setDefaults()

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports configuration that would make the server unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must be set"))
	}
	switch c.StorageDriver {
	case StorageSQLite, StorageRedis, StorageMongo:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}
	if c.MaxUploadFiles <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_FILES must be positive"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS into its entries.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
