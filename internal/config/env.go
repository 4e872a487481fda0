package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Env holds every environment-sourced setting. Entry points load it once and
// pass it into constructors; nothing reads os.Getenv mid-function.
type Env struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`

	Port         int           `envconfig:"PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`

	OpenAIAPIKey  string        `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIBaseURL string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAIModel   string        `envconfig:"OPENAI_MODEL" default:"gpt-4o"`
	LLMTimeout    time.Duration `envconfig:"LLM_TIMEOUT" default:"30s"`

	WeatherBaseURL string        `envconfig:"WEATHER_BASE_URL" default:"https://api.open-meteo.com"`
	WeatherTimeout time.Duration `envconfig:"WEATHER_TIMEOUT" default:"10s"`

	ToolsDir string `envconfig:"TOOLS_DIR" default:"definitions"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func LoadEnv() (*Env, error) {
	var v Env
	if err := envconfig.Process("", &v); err != nil {
		return nil, err
	}
	return &v, nil
}
