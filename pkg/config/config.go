package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Planner  PlannerConfig
	Cache    CacheConfig
	Metrics  MetricsConfig
	Tracing  TracingConfig
}

type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig controls zap output. File enables a rotating log file next to stdout.
type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// PlannerConfig holds the default engine options applied when a request leaves them out.
// Clock values use "HH:mm-HH:mm"; an empty lunch window disables lunch.
type PlannerConfig struct {
	CampStudyHours             string
	CampSelfStudyHours         string
	LunchTime                  string
	DesignatedHolidayHours     string
	SelfStudyOnHolidays        bool
	SelfStudyWithBlocks        bool
	DefaultTravelMinutes       *int
	StudyDays                  int
	ReviewDays                 int
	CrossCheckToleranceMinutes int
	AdjustMaxEndTime           string
	MaxPeriodDays              int
}

// CacheConfig governs caching of computed periods.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// TracingConfig configures OTLP trace export.
type TracingConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	SampleRate   float64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Enabled:      v.GetBool("DB_ENABLED"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{Secret: v.GetString("JWT_SECRET")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:      v.GetString("LOG_LEVEL"),
		Format:     v.GetString("LOG_FORMAT"),
		File:       v.GetString("LOG_FILE"),
		MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
		MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
	}

	travelMinutes := v.GetInt("PLANNER_DEFAULT_TRAVEL_MINUTES")
	cfg.Planner = PlannerConfig{
		CampStudyHours:             v.GetString("PLANNER_CAMP_STUDY_HOURS"),
		CampSelfStudyHours:         v.GetString("PLANNER_CAMP_SELF_STUDY_HOURS"),
		LunchTime:                  v.GetString("PLANNER_LUNCH_TIME"),
		DesignatedHolidayHours:     v.GetString("PLANNER_DESIGNATED_HOLIDAY_HOURS"),
		SelfStudyOnHolidays:        v.GetBool("PLANNER_SELF_STUDY_ON_HOLIDAYS"),
		SelfStudyWithBlocks:        v.GetBool("PLANNER_SELF_STUDY_WITH_BLOCKS"),
		DefaultTravelMinutes:       &travelMinutes,
		StudyDays:                  v.GetInt("PLANNER_STUDY_DAYS"),
		ReviewDays:                 v.GetInt("PLANNER_REVIEW_DAYS"),
		CrossCheckToleranceMinutes: v.GetInt("PLANNER_CROSS_CHECK_TOLERANCE_MINUTES"),
		AdjustMaxEndTime:           v.GetString("PLANNER_ADJUST_MAX_END_TIME"),
		MaxPeriodDays:              v.GetInt("PLANNER_MAX_PERIOD_DAYS"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_RESULT_CACHE"),
		TTL:     parseDuration(v.GetString("RESULT_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("ENABLE_METRICS"),
		Path:    v.GetString("METRICS_PATH"),
	}

	cfg.Tracing = TracingConfig{
		Enabled:      v.GetBool("ENABLE_TRACING"),
		ServiceName:  v.GetString("TRACING_SERVICE_NAME"),
		OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		SampleRate:   v.GetFloat64("TRACING_SAMPLE_RATE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "study_planner")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_MAX_SIZE_MB", 10)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("LOG_MAX_AGE_DAYS", 28)

	v.SetDefault("PLANNER_CAMP_STUDY_HOURS", "09:00-12:00")
	v.SetDefault("PLANNER_CAMP_SELF_STUDY_HOURS", "13:00-18:00")
	v.SetDefault("PLANNER_LUNCH_TIME", "12:00-13:00")
	v.SetDefault("PLANNER_DESIGNATED_HOLIDAY_HOURS", "13:00-18:00")
	v.SetDefault("PLANNER_SELF_STUDY_ON_HOLIDAYS", false)
	v.SetDefault("PLANNER_SELF_STUDY_WITH_BLOCKS", false)
	v.SetDefault("PLANNER_DEFAULT_TRAVEL_MINUTES", 60)
	v.SetDefault("PLANNER_STUDY_DAYS", 6)
	v.SetDefault("PLANNER_REVIEW_DAYS", 1)
	v.SetDefault("PLANNER_CROSS_CHECK_TOLERANCE_MINUTES", 30)
	v.SetDefault("PLANNER_ADJUST_MAX_END_TIME", "23:59")
	v.SetDefault("PLANNER_MAX_PERIOD_DAYS", 400)

	v.SetDefault("ENABLE_RESULT_CACHE", false)
	v.SetDefault("RESULT_CACHE_TTL", "10m")
	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("METRICS_PATH", "/metrics")

	v.SetDefault("ENABLE_TRACING", false)
	v.SetDefault("TRACING_SERVICE_NAME", "study-planner-api")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("TRACING_SAMPLE_RATE", 1.0)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
