package runtime

import (
	"github.com/pcastellanos/llm-workflows/internal/llm"
)

// Runtime carries the readiness state the health endpoints report on.
type Runtime struct {
	ToolsLoaded bool
	LLMClient   llm.Client
}
