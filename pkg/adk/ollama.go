package adk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

const (
	DefaultOllamaHost  = "http://localhost:11434"
	DefaultOllamaModel = "deepseek-r1:14b"
)

// probeTimeout bounds the /api/tags reachability check
const probeTimeout = 2 * time.Second

// jsonFormat asks Ollama to constrain the completion to JSON
var jsonFormat = json.RawMessage(`"json"`)

// OllamaProvider talks to a local Ollama server
type OllamaProvider struct {
	Host   string
	Model  string
	client *api.Client
}

func NewOllamaProvider(host, model string) (*OllamaProvider, error) {
	if host == "" {
		host = DefaultOllamaHost
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	host = strings.TrimRight(host, "/")
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama host %q: %w", host, err)
	}
	return &OllamaProvider{
		Host:   host,
		Model:  model,
		client: api.NewClient(base, http.DefaultClient),
	}, nil
}

// Complete calls /api/generate in non-streaming JSON mode
func (p *OllamaProvider) Complete(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  p.Model,
		Prompt: prompt,
		Stream: &stream,
		Format: jsonFormat,
	}

	var sb strings.Builder
	err := p.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return sb.String(), nil
}

// Available probes /api/tags with a short timeout
func (p *OllamaProvider) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	_, err := p.client.List(ctx)
	return err == nil
}

func (p *OllamaProvider) ListModels(ctx context.Context) ([]string, error) {
	list, err := p.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ollama list: %w", err)
	}
	names := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		names = append(names, m.Name)
	}
	return names, nil
}
