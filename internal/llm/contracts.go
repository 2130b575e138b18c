package llm

import "context"

// TextGenerator is the generative-model collaborator the interpreter reads
// from. Implementations are expected to run with deterministic-leaning
// settings (temperature 0); the pipeline treats generation failures as
// collaborator-unavailable and propagates them.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
