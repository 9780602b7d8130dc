package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"3000"`

	KeycloakIssuer       string `env:"KEYCLOAK_ISSUER,required"`
	KeycloakClientID     string `env:"KEYCLOAK_CLIENT_ID,required"`
	KeycloakClientSecret string `env:"KEYCLOAK_CLIENT_SECRET,required"`

	TokenStoreURL    string `env:"TOKEN_STORE_URL" envDefault:"http://localhost:5000/api/v1/token"`
	TokenStoreAPIKey string `env:"TOKEN_STORE_API_KEY"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	DatabaseDSN string `env:"DATABASE_DSN,required"`

	// StrictRegisterStatus makes /auth/register report failures with a 4xx
	// status instead of the always-200 contract the original client expects.
	StrictRegisterStatus bool `env:"STRICT_REGISTER_STATUS" envDefault:"false"`
}

// Load reads configuration from the environment, with .env as a convenience
// for local development. Missing required values are returned as an error so
// main can fail loudly.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
