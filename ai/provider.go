package ai

import "context"

// ChatRequest is a single vision chat-completion request: a text prompt
// plus one base64 image data URL.
type ChatRequest struct {
	Model       string
	Prompt      string
	ImageURL    string
	MaxTokens   int
	Temperature float64
}

// ChatCompleter is the minimal surface the analyzer needs from a
// vision-capable chat-completion provider: submit one request, get back
// the message text of the first choice. The live OpenRouter client and the
// offline stub both satisfy it; the choice is made once at startup.
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}
