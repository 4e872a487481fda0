package logx

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Component-tagged logging for the whole repo, backed by zap. Components are
// the short names used across packages: "Router", "ToolLoop", "LLM", "HTTP",
// "App", "Config".

var (
	mu   sync.RWMutex
	base = zap.NewNop().Sugar()
)

// Init builds the process logger. In dev the output is colored console
// encoding; anything else gets production JSON.
func Init(appEnv, level string) error {
	var cfg zap.Config
	if appEnv == "dev" || appEnv == "local" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		return err
	}
	SetLogger(logger)
	return nil
}

// SetLogger swaps the process logger. Tests use zap.NewNop().
func SetLogger(l *zap.Logger) {
	mu.Lock()
	base = l.Sugar()
	mu.Unlock()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func Debug(component, msg string, args ...any) {
	get().With("component", component).Debugf(msg, args...)
}

func Info(component, msg string, args ...any) {
	get().With("component", component).Infof(msg, args...)
}

func Warn(component, msg string, args ...any) {
	get().With("component", component).Warnf(msg, args...)
}

func Error(component, msg string, args ...any) {
	get().With("component", component).Errorf(msg, args...)
}

// Timer measures one operation and logs its duration on End.
type Timer struct {
	start     time.Time
	id        string
	component string
	op        string
}

func Start(id, component, op string) *Timer {
	return &Timer{start: time.Now(), id: id, component: component, op: op}
}

func (t *Timer) End() {
	get().With("component", t.component, "id", t.id).
		Infof("%s took %v", t.op, time.Since(t.start))
}
