package app

import (
	server "github.com/kimblewick/MiraAI/internal/adapters/primary/http"
	"github.com/kimblewick/MiraAI/internal/adapters/primary/http/middlewares"
	astroApi "github.com/kimblewick/MiraAI/internal/adapters/secondary/astroApi"
	kafkaAdapter "github.com/kimblewick/MiraAI/internal/adapters/secondary/kafka"
	llmAdapter "github.com/kimblewick/MiraAI/internal/adapters/secondary/llm"
	"github.com/kimblewick/MiraAI/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/kimblewick/MiraAI/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/kimblewick/MiraAI/internal/adapters/secondary/storage/s3"
	"github.com/kimblewick/MiraAI/internal/pkg/logger"
	chatUsecase "github.com/kimblewick/MiraAI/internal/usecases/chat"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Postgres *pg.Config              `envconfig:"POSTGRES"`
	Log      *logger.Config          `envconfig:"LOG"`
	Server   *server.Config          `envconfig:"APISERVER"`
	Auth     *middlewares.AuthConfig `envconfig:"AUTH"`
	AstroAPI *astroApi.Config        `envconfig:"ASTRO_API"`
	LLM      *llmAdapter.Config      `envconfig:"LLM"`
	Redis    *redisAdapter.Config    `envconfig:"REDIS"`
	S3       *s3Adapter.Config       `envconfig:"S3"`
	Kafka    *kafkaAdapter.Config    `envconfig:"KAFKA"`
	Chat     *chatUsecase.Config     `envconfig:"ASTRO_CACHE"`
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
