package adk

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Outcome is the result of a best-effort AI call: either text, or the reason
// the provider was unavailable. Callers must handle both branches.
type Outcome struct {
	Text string
	Err  error
}

// Available reports whether the outcome carries a usable answer
func (o Outcome) Available() bool {
	return o.Err == nil
}

// Ask sends prompt to p, bounded by timeout. A nil provider, an error, a
// timeout or an empty answer all yield an unavailable Outcome. Ask returns
// once ctx is done even if the provider ignores cancellation.
func Ask(ctx context.Context, p LLMProvider, timeout time.Duration, prompt string) Outcome {
	if p == nil {
		return Outcome{Err: fmt.Errorf("%w: disabled", ErrUnavailable)}
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type reply struct {
		text string
		err  error
	}
	ch := make(chan reply, 1)
	go func() {
		text, err := p.Complete(ctx, prompt)
		ch <- reply{text, err}
	}()

	select {
	case <-ctx.Done():
		return Outcome{Err: fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())}
	case r := <-ch:
		if r.err != nil {
			return Outcome{Err: fmt.Errorf("%w: %v", ErrUnavailable, r.err)}
		}
		if strings.TrimSpace(r.text) == "" {
			return Outcome{Err: fmt.Errorf("%w: empty response", ErrUnavailable)}
		}
		return Outcome{Text: r.text}
	}
}

// DecodeJSON extracts the JSON document from the answer and unmarshals it
func (o Outcome) DecodeJSON(v any) error {
	if !o.Available() {
		return o.Err
	}
	doc := ExtractJSON(o.Text)
	if doc == "" {
		return fmt.Errorf("no JSON document in response")
	}
	if err := json.Unmarshal([]byte(doc), v); err != nil {
		return fmt.Errorf("malformed JSON in response: %w", err)
	}
	return nil
}

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// ExtractJSON strips reasoning blocks and markdown fences that local models
// like to emit, and returns the outermost JSON array or object.
func ExtractJSON(text string) string {
	text = thinkBlock.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	start := strings.IndexAny(text, "[{")
	if start < 0 {
		return ""
	}
	closer := byte('}')
	if text[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(text, closer)
	if end < start {
		return ""
	}
	return text[start : end+1]
}
