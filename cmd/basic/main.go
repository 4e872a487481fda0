// Basic completion pattern: one chat request, print the answer.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/pcastellanos/llm-workflows/internal/config"
	"github.com/pcastellanos/llm-workflows/internal/llm"
	"github.com/pcastellanos/llm-workflows/internal/logx"
)

func main() {
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

	resp, err := client.CreateChatCompletion(context.Background(), llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "You're a helpful assistant"},
			{Role: llm.RoleUser, Content: "Write a limerick about the Go programming language."},
		},
	})
	if err != nil {
		log.Fatalf("chat completion: %v", err)
	}

	fmt.Println(resp.Choices[0].Message.Content)
}
