package llm

type Config struct {
	BaseURL     string  `envconfig:"BASE_URL"` // OpenAI-совместимый gateway
	ApiKey      string  `envconfig:"API_KEY" required:"true"`
	Model       string  `envconfig:"MODEL" default:"gpt-4o-mini"`
	MaxTokens   int     `envconfig:"MAX_TOKENS" default:"1024"`
	Temperature float32 `envconfig:"TEMPERATURE" default:"0.7"`
}
