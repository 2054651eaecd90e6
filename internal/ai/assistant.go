package ai

import "context"

// Completer produces a raw model completion for a system instruction and a
// user message.
type Completer interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}
