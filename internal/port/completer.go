package port

import "context"

// CompletionRequest carries one system + user exchange for a chat-completion model.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float32
	JSONObject  bool // constrain the reply to a single JSON object
}

// Completer abstracts a chat-completion provider. Complete returns the raw
// content of the first choice.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
