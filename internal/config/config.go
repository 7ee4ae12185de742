package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP (plan export pipeline; empty URL disables publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Redis plan cache (empty address falls back to in-memory)
	RedisAddr    string
	PlanCacheTTL time.Duration

	// Advisory extra-payment clamp for payoff plans
	ExtraPaymentFloorCents   int64
	ExtraPaymentCeilingCents int64
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8081"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/financeflow.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "financeflow"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "plan_exports"),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		PlanCacheTTL: getEnvDuration("PLAN_CACHE_TTL", 5*time.Minute),

		ExtraPaymentFloorCents:   getEnvCents("EXTRA_PAYMENT_FLOOR", 200_00),
		ExtraPaymentCeilingCents: getEnvCents("EXTRA_PAYMENT_CEILING", 1000_00),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		problems = append(problems, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					problems = append(problems, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.PlanCacheTTL <= 0 {
		problems = append(problems, fmt.Sprintf("invalid plan cache TTL %v: must be positive", c.PlanCacheTTL))
	}

	if c.ExtraPaymentFloorCents < 0 {
		problems = append(problems, "extra payment floor cannot be negative")
	}
	if c.ExtraPaymentCeilingCents < c.ExtraPaymentFloorCents {
		problems = append(problems, fmt.Sprintf("extra payment ceiling %d below floor %d",
			c.ExtraPaymentCeilingCents, c.ExtraPaymentFloorCents))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvCents reads a whole-dollar amount from the environment and converts
// it to cents.
func getEnvCents(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if dollars, err := strconv.ParseInt(value, 10, 64); err == nil && dollars >= 0 {
			return dollars * 100
		}
	}
	return fallback
}
