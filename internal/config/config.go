package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	AWSRegion      string `env:"AWS_REGION" envDefault:"us-west-2"`
	EmbedModelID   string `env:"EMBED_MODEL_ID" envDefault:"amazon.titan-embed-text-v2:0"`
	EmbedDimension int    `env:"EMBED_DIMENSION" envDefault:"1024"`
	EmbedLanguage  string `env:"EMBED_LANGUAGE" envDefault:"en"`

	MatchConcurrency     int `env:"MATCH_CONCURRENCY" envDefault:"4"`
	EmbedCacheTTLMinutes int `env:"EMBED_CACHE_TTL_MINUTES" envDefault:"1440"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
