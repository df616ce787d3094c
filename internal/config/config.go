package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	ServiceName string

	// Persistence
	StoreBackend   string
	BuntDBPath     string
	DatabaseURL    string
	SessionBackend string
	RedisURL       string
	SessionTTL     time.Duration

	// Risk assessment
	RiskProvider  string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	NatsURL       string
	FraudSubject  string
	RiskTimeout   time.Duration

	// Submission flow
	SettleDisplayDelay time.Duration
	AdminEmail         string

	// Events and telemetry
	KafkaBrokers   string
	KafkaTopic     string
	JaegerEndpoint string
	TracingEnabled bool
	LogLevel       string
	LogFile        string
}

// Load reads configuration from the environment, optionally layered over the
// file named by CONFIG_FILE. A CONFIG_FILE that cannot be read is an error.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("service_name", "payways")
	v.SetDefault("store_backend", "buntdb")
	v.SetDefault("buntdb_path", "payways.db")
	v.SetDefault("session_backend", "memory")
	v.SetDefault("session_ttl", 12*time.Hour)
	v.SetDefault("risk_provider", "gemini")
	v.SetDefault("gemini_model", "gemini-2.5-pro")
	v.SetDefault("gemini_base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("fraud_subject", "fraud.check")
	v.SetDefault("risk_timeout", 30*time.Second)
	v.SetDefault("settle_display_delay", 5*time.Second)
	v.SetDefault("admin_email", "admin@payways.com")
	v.SetDefault("kafka_topic", "payment.state.changed")
	v.SetDefault("tracing_enabled", true)
	v.SetDefault("log_level", "info")

	v.AutomaticEnv()
	// The gateway credential may arrive as API_KEY or GEMINI_API_KEY.
	_ = v.BindEnv("gemini_api_key", "API_KEY", "GEMINI_API_KEY")

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Port:               v.GetString("port"),
		ServiceName:        v.GetString("service_name"),
		StoreBackend:       strings.ToLower(v.GetString("store_backend")),
		BuntDBPath:         v.GetString("buntdb_path"),
		DatabaseURL:        v.GetString("database_url"),
		SessionBackend:     strings.ToLower(v.GetString("session_backend")),
		RedisURL:           v.GetString("redis_url"),
		SessionTTL:         v.GetDuration("session_ttl"),
		RiskProvider:       strings.ToLower(v.GetString("risk_provider")),
		GeminiAPIKey:       v.GetString("gemini_api_key"),
		GeminiModel:        v.GetString("gemini_model"),
		GeminiBaseURL:      v.GetString("gemini_base_url"),
		NatsURL:            v.GetString("nats_url"),
		FraudSubject:       v.GetString("fraud_subject"),
		RiskTimeout:        v.GetDuration("risk_timeout"),
		SettleDisplayDelay: v.GetDuration("settle_display_delay"),
		AdminEmail:         v.GetString("admin_email"),
		KafkaBrokers:       v.GetString("kafka_brokers"),
		KafkaTopic:         v.GetString("kafka_topic"),
		JaegerEndpoint:     v.GetString("jaeger_endpoint"),
		TracingEnabled:     v.GetBool("tracing_enabled"),
		LogLevel:           v.GetString("log_level"),
		LogFile:            v.GetString("log_file"),
	}
	return cfg, nil
}
