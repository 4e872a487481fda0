// Routing pattern: classify a calendar request and dispatch to the matching
// extraction handler.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/pcastellanos/llm-workflows/internal/calendar"
	"github.com/pcastellanos/llm-workflows/internal/config"
	"github.com/pcastellanos/llm-workflows/internal/llm"
	"github.com/pcastellanos/llm-workflows/internal/logx"
)

func main() {
	message := flag.String("message", "Let's schedule a 1h team meeting next Tuesday at 2pm with Alice and Bob", "calendar request to route")
	flag.Parse()

	_ = godotenv.Load()

	env, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if err := logx.Init(env.AppEnv, env.LogLevel); err != nil {
		log.Fatalf("initializing logger: %v", err)
	}

	client := llm.NewOpenAIClient(env.OpenAIBaseURL, env.OpenAIAPIKey, env.OpenAIModel)
	client.Timeout = env.LLMTimeout

	router := calendar.NewRouter(client, env.OpenAIModel)
	result, err := router.Route(context.Background(), *message)
	if err != nil {
		log.Fatalf("routing request: %v", err)
	}

	if !result.Handled {
		fmt.Printf("Request classified as %q (confidence %.2f); nothing to do.\n",
			result.Classification.RequestType, result.Classification.Confidence)
		os.Exit(1)
	}

	fmt.Println(result.Response.Message)
	if result.Response.CalendarLink != "" {
		fmt.Println(result.Response.CalendarLink)
	}
}
