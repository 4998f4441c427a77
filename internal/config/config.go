package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ms-restaurant/internal/billing"
	"ms-restaurant/internal/kafka"

	"github.com/joho/godotenv"
)

type Config struct {
	Restaurant RestaurantConfig
	Receipt    ReceiptConfig
	Archive    ArchiveConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Server     ServerConfig
	Log        LogConfig
}

type RestaurantConfig struct {
	TableQty      int
	TableCapacity int
	TaxRate       float64
	TipRate       float64
}

type ReceiptConfig struct {
	Dir            string
	QREnabled      bool
	QRSecret       string
	NumberAttempts int
}

type ArchiveConfig struct {
	Enabled bool
	DSN     string
}

type RedisConfig struct {
	Enabled bool
	Addr    string
	LockTTL time.Duration
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	GroupID string
	Topics  kafka.Topics
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type LogConfig struct {
	Dir     string
	Console bool
}

// LoadDotEnv reads .env when present. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func Load() *Config {
	return &Config{
		Restaurant: RestaurantConfig{
			TableQty:      getEnvInt("TABLE_QTY", 4),
			TableCapacity: getEnvInt("TABLE_CAPACITY", 4),
			TaxRate:       getEnvFloat("TAX_RATE", 0.10),
			TipRate:       getEnvFloat("TIP_RATE", 0.20),
		},
		Receipt: ReceiptConfig{
			Dir:            getEnv("RECEIPT_DIR", "."),
			QREnabled:      getEnvBool("RECEIPT_QR_ENABLED", false),
			QRSecret:       getEnv("RECEIPT_QR_SECRET", "restaurant-receipts"),
			NumberAttempts: getEnvInt("RECEIPT_NUMBER_ATTEMPTS", 5),
		},
		Archive: ArchiveConfig{
			Enabled: getEnvBool("ARCHIVE_ENABLED", false),
			DSN:     getEnv("ARCHIVE_DSN", "file:receipts.db?cache=shared"),
		},
		Redis: RedisConfig{
			Enabled: getEnvBool("REDIS_ENABLED", false),
			Addr:    getEnv("REDIS_ADDR", "localhost:6379"),
			LockTTL: time.Duration(getEnvInt("RECEIPT_LOCK_TTL_MINUTES", 24*60)) * time.Minute,
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Brokers: getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			GroupID: getEnv("KAFKA_GROUP_ID", "receipt-service-group"),
			Topics: kafka.Topics{
				OrderPlaced:    getEnv("KAFKA_TOPIC_ORDER_PLACED", "restaurant.order.placed"),
				OrderCompleted: getEnv("KAFKA_TOPIC_ORDER_COMPLETED", "restaurant.order.completed"),
				OrderPaid:      getEnv("KAFKA_TOPIC_ORDER_PAID", "restaurant.order.paid"),
				SessionClosed:  getEnv("KAFKA_TOPIC_SESSION_CLOSED", "restaurant.session.closed"),
			},
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Log: LogConfig{
			Dir:     getEnv("LOG_DIR", "logs"),
			Console: getEnvBool("LOG_CONSOLE", false),
		},
	}
}

func (c *Config) Validate() error {
	if c.Restaurant.TableQty <= 0 {
		return fmt.Errorf("TABLE_QTY must be positive, got %d", c.Restaurant.TableQty)
	}
	if c.Restaurant.TableCapacity <= 0 {
		return fmt.Errorf("TABLE_CAPACITY must be positive, got %d", c.Restaurant.TableCapacity)
	}
	if c.Restaurant.TaxRate < 0 {
		return fmt.Errorf("TAX_RATE must not be negative, got %v", c.Restaurant.TaxRate)
	}
	if c.Restaurant.TipRate < 0 {
		return fmt.Errorf("TIP_RATE must not be negative, got %v", c.Restaurant.TipRate)
	}
	if c.Receipt.Dir == "" {
		return errors.New("RECEIPT_DIR must not be empty")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS must list at least one broker when KAFKA_ENABLED is set")
	}
	return nil
}

func (c *Config) Calculator() (billing.Calculator, error) {
	return billing.FromFloats(c.Restaurant.TaxRate, c.Restaurant.TipRate)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
