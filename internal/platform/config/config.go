package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	TokenSecret string
	TokenTTL    time.Duration

	RegistrationFeeAmount   float64
	RegistrationFeeCurrency string

	ProviderBaseURL string
	ProviderSecret  string
	ProviderTimeout time.Duration
	WebhookHash     string

	OutboxRelayInterval     time.Duration
	TallyReconcileInterval  time.Duration
	EnableVoteTallyConsumer bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "encore"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		TokenSecret: os.Getenv("TOKEN_SECRET"),
		TokenTTL:    envDuration("TOKEN_TTL", 24*time.Hour),

		RegistrationFeeAmount:   envFloat("REGISTRATION_FEE_AMOUNT", 5000),
		RegistrationFeeCurrency: envString("REGISTRATION_FEE_CURRENCY", "NGN"),

		ProviderBaseURL: envString("PROVIDER_BASE_URL", "https://api.flutterwave.com/v3"),
		ProviderSecret:  os.Getenv("PROVIDER_SECRET"),
		ProviderTimeout: envDuration("PROVIDER_TIMEOUT", 10*time.Second),
		WebhookHash:     os.Getenv("WEBHOOK_HASH"),

		OutboxRelayInterval:     envDuration("OUTBOX_RELAY_INTERVAL", time.Second),
		TallyReconcileInterval:  envDuration("TALLY_RECONCILE_INTERVAL", 5*time.Minute),
		EnableVoteTallyConsumer: envBool("ENABLE_VOTE_TALLY_CONSUMER", true),
	}, nil
}

func envString(name string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envFloat(name string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
