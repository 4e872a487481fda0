package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pcastellanos/llm-workflows/internal/app"
	"github.com/pcastellanos/llm-workflows/internal/config"
	"github.com/pcastellanos/llm-workflows/internal/logx"
)

// runner is the minimal interface our app must satisfy for running.
type runner interface{ Run(context.Context) error }

// appCtor is a constructor indirection to enable testing without launching the real app.
var appCtor = func(env *config.Env) (runner, error) { return app.New(env) }

// fatalf indirection allows testing fatal paths without exiting the test process.
var fatalf = log.Fatalf

func run(ctx context.Context) {
	_ = godotenv.Load()

	env, err := config.LoadEnv()
	if err != nil {
		fatalf("error loading config: %v", err)
		return
	}
	if err := logx.Init(env.AppEnv, env.LogLevel); err != nil {
		fatalf("error initializing logger: %v", err)
		return
	}

	a, err := appCtor(env)
	if err != nil {
		fatalf("error initializing app: %v", err)
		return
	}
	if err := a.Run(ctx); err != nil {
		fatalf("error running app: %v", err)
		return
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	run(ctx)
}
