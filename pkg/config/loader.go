package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app/configs")

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	viper.BindEnv("http.port", "PORT", "APP_HTTP_PORT")
	viper.BindEnv("http.allowed_origins", "ALLOWED_ORIGINS")
	viper.BindEnv("database.url", "DATABASE_URL", "APP_DATABASE_URL")
	viper.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	viper.BindEnv("queue.url", "QUEUE_URL", "APP_QUEUE_URL")
	viper.BindEnv("queue.type", "QUEUE_TYPE")
	viper.BindEnv("razorpay.key_id", "RAZORPAY_KEY_ID")
	viper.BindEnv("razorpay.key_secret", "RAZORPAY_KEY_SECRET")
	viper.BindEnv("razorpay.webhook_secret", "RAZORPAY_WEBHOOK_SECRET")
	viper.BindEnv("vault.address", "VAULT_ADDR")
	viper.BindEnv("vault.token", "VAULT_TOKEN")
	viper.BindEnv("receipts.sendgrid_api_key", "SENDGRID_API_KEY")
	viper.BindEnv("app.environment", "APP_ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	viper.SetDefault("app.name", "payments-service")
	viper.SetDefault("http.port", 8080)
	viper.SetDefault("prometheus.path", "/metrics")
	viper.SetDefault("database.auto_migrate", true)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine, env vars carry the deploy settings.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
