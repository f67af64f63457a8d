package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Settings holds the full service configuration. Values come from an
// optional yaml file (CONFIG_FILE) overridden by environment variables;
// a .env file is loaded first if present.
type Settings struct {
	// HTTP listener
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	Debug bool   `yaml:"debug"`

	// Document store
	MongoURL         string        `yaml:"mongodb_url"`
	MongoDBName      string        `yaml:"mongodb_db_name"`
	MongoMaxRetries  int           `yaml:"mongodb_max_retries"`
	MongoRetryDelay  time.Duration `yaml:"mongodb_retry_delay"`
	MongoPingTimeout time.Duration `yaml:"mongodb_ping_timeout"`

	// Message bus
	KafkaBootstrapServers string        `yaml:"kafka_bootstrap_servers"`
	KafkaTransactionTopic string        `yaml:"kafka_transaction_topic"`
	KafkaCustodianTopic   string        `yaml:"kafka_custodian_topic"`
	KafkaEnabled          bool          `yaml:"kafka_enabled"`
	KafkaAckTimeout       time.Duration `yaml:"kafka_ack_timeout"`

	// Reserved for future auth, not used by any handler yet.
	SecretKey                string `yaml:"secret_key"`
	AccessTokenExpireMinutes int    `yaml:"access_token_expire_minutes"`
}

func defaults() Settings {
	return Settings{
		Host:                     "0.0.0.0",
		Port:                     8000,
		Debug:                    false,
		MongoURL:                 "mongodb://localhost:27017",
		MongoDBName:              "custodian_service",
		MongoMaxRetries:          5,
		MongoRetryDelay:          2 * time.Second,
		MongoPingTimeout:         5 * time.Second,
		KafkaBootstrapServers:    "kafka:9092",
		KafkaTransactionTopic:    "custodian.transactions",
		KafkaCustodianTopic:      "custodian.custodian",
		KafkaEnabled:             true,
		KafkaAckTimeout:          10 * time.Second,
		SecretKey:                "your-secret-key-for-development-only",
		AccessTokenExpireMinutes: 30,
	}
}

// Get loads the service configuration.
func Get() (Settings, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := fromYaml(path, &cfg); err != nil {
			return Settings{}, err
		}
	}

	fromEnv(&cfg)

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Settings{}, errors.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.MongoMaxRetries < 0 {
		return Settings{}, errors.Errorf("invalid mongodb max retries %d", cfg.MongoMaxRetries)
	}

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Brokers splits the comma-separated bootstrap server list.
func (s Settings) Brokers() []string {
	parts := strings.Split(s.KafkaBootstrapServers, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func fromYaml(path string, cfg *Settings) error {
	f, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config file %s", path)
	}
	if err := yaml.Unmarshal(f, cfg); err != nil {
		return errors.Wrapf(err, "parse config file %s", path)
	}
	return nil
}

func fromEnv(cfg *Settings) {
	envString("HOST", &cfg.Host)
	envInt("PORT", &cfg.Port)
	envBool("DEBUG", &cfg.Debug)
	envString("MONGODB_URL", &cfg.MongoURL)
	envString("MONGODB_DB_NAME", &cfg.MongoDBName)
	envInt("MONGODB_MAX_RETRIES", &cfg.MongoMaxRetries)
	envDuration("MONGODB_RETRY_DELAY", &cfg.MongoRetryDelay)
	envDuration("MONGODB_PING_TIMEOUT", &cfg.MongoPingTimeout)
	envString("KAFKA_BOOTSTRAP_SERVERS", &cfg.KafkaBootstrapServers)
	envString("KAFKA_TRANSACTION_TOPIC", &cfg.KafkaTransactionTopic)
	envString("KAFKA_CUSTODIAN_TOPIC", &cfg.KafkaCustodianTopic)
	envBool("KAFKA_ENABLED", &cfg.KafkaEnabled)
	envDuration("KAFKA_ACK_TIMEOUT", &cfg.KafkaAckTimeout)
	envString("SECRET_KEY", &cfg.SecretKey)
	envInt("ACCESS_TOKEN_EXPIRE_MINUTES", &cfg.AccessTokenExpireMinutes)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if v, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(v) {
		case "true", "1", "t":
			*dst = true
		default:
			*dst = false
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
