// Package llm provides the AI-completion call used by agents.
// The engine treats it as opaque: prompt in, text out, provider error
// on failure.
package llm

import "context"

// CompleteFunc is the completion contract agents depend on. A system
// prompt and a user prompt go in, generated text comes out. Agents
// never see the provider or its configuration.
type CompleteFunc func(ctx context.Context, system, prompt string) (string, error)
