package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pcastellanos/llm-workflows/internal/calendar"
	"github.com/pcastellanos/llm-workflows/internal/config"
	"github.com/pcastellanos/llm-workflows/internal/llm"
	"github.com/pcastellanos/llm-workflows/internal/logx"
	"github.com/pcastellanos/llm-workflows/internal/runtime"
	"github.com/pcastellanos/llm-workflows/internal/tools"
)

// App wires the config, the LLM client, the tool registry and both workflows
// behind the HTTP server.
type App struct {
	env    *config.Env
	router *calendar.Router
	loop   *tools.Loop
	http   *HTTPServer
}

func New(env *config.Env) (*App, error) {
	client := llm.NewOpenAIClient(env.OpenAIBaseURL, env.OpenAIAPIKey, env.OpenAIModel)
	client.Timeout = env.LLMTimeout

	specs, err := config.LoadToolsDir(env.ToolsDir)
	if err != nil {
		return nil, err
	}
	weatherSpec, ok := specs["get_weather"]
	if !ok {
		return nil, fmt.Errorf("tool definitions in %s miss get_weather", env.ToolsDir)
	}

	registry := tools.NewRegistry()
	weather := tools.NewWeatherClient(env.WeatherBaseURL, env.WeatherTimeout)
	tools.RegisterWeather(registry, weatherSpec, weather)

	router := calendar.NewRouter(client, env.OpenAIModel)
	loop := tools.NewLoop(client, env.OpenAIModel, registry)

	rt := &runtime.Runtime{
		ToolsLoaded: true,
		LLMClient:   client,
	}

	return &App{
		env:    env,
		router: router,
		loop:   loop,
		http:   NewHTTPServer(env, router, loop, rt),
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.http.Start(gctx)
	})

	logx.Info("App", "assistantd started (model=%s)", a.env.OpenAIModel)

	return g.Wait()
}
