// Tool-calling pattern: declare get_weather, execute whatever the model
// calls, feed the result back, print the structured report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/pcastellanos/llm-workflows/internal/config"
	"github.com/pcastellanos/llm-workflows/internal/llm"
	"github.com/pcastellanos/llm-workflows/internal/logx"
	"github.com/pcastellanos/llm-workflows/internal/tools"
)

func main() {
	question := flag.String("question", "What's the weather like in Paris today?", "question for the weather assistant")
	flag.Parse()

	_ = godotenv.Load()

	env, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if err := logx.Init(env.AppEnv, env.LogLevel); err != nil {
		log.Fatalf("initializing logger: %v", err)
	}

	specs, err := config.LoadToolsDir(env.ToolsDir)
	if err != nil {
		log.Fatalf("loading tool definitions: %v", err)
	}
	spec, ok := specs["get_weather"]
	if !ok {
		log.Fatalf("tool definitions in %s miss get_weather", env.ToolsDir)
	}

	client := llm.NewOpenAIClient(env.OpenAIBaseURL, env.OpenAIAPIKey, env.OpenAIModel)
	client.Timeout = env.LLMTimeout

	registry := tools.NewRegistry()
	tools.RegisterWeather(registry, spec, tools.NewWeatherClient(env.WeatherBaseURL, env.WeatherTimeout))

	loop := tools.NewLoop(client, env.OpenAIModel, registry)
	report, err := loop.Run(context.Background(), *question)
	if err != nil {
		log.Fatalf("weather loop: %v", err)
	}

	fmt.Printf("%.1f°C — %s\n", report.Temperature, report.Response)
}
