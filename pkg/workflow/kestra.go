package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultHost      = "http://localhost:8080"
	DefaultNamespace = "security"
	DefaultFlowID    = "bugbounty-security-scan"

	// ScanDepthStandard is the only depth the flow currently defines
	ScanDepthStandard = "STANDARD"

	triggerTimeout = 5 * time.Second
)

// Kestra starts executions of the scan flow on a Kestra server
type Kestra struct {
	Host      string
	Namespace string
	FlowID    string
	client    *http.Client
}

func NewKestra(host, namespace, flowID string) *Kestra {
	if host == "" {
		host = DefaultHost
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if flowID == "" {
		flowID = DefaultFlowID
	}
	return &Kestra{
		Host:      strings.TrimRight(host, "/"),
		Namespace: namespace,
		FlowID:    flowID,
		client:    &http.Client{Timeout: triggerTimeout},
	}
}

// Inputs are passed to the flow as-is
type Inputs struct {
	RepoURL    string `json:"repo_url"`
	TargetPath string `json:"target_path"`
	ScanDepth  string `json:"scan_depth"`
}

type executionRequest struct {
	Namespace string `json:"namespace"`
	FlowID    string `json:"flowId"`
	Inputs    Inputs `json:"inputs"`
}

type executionResponse struct {
	ID string `json:"id"`
}

// Trigger creates an execution and returns its id
func (k *Kestra) Trigger(ctx context.Context, in Inputs) (string, error) {
	if in.ScanDepth == "" {
		in.ScanDepth = ScanDepthStandard
	}
	body, err := json.Marshal(executionRequest{
		Namespace: k.Namespace,
		FlowID:    k.FlowID,
		Inputs:    in,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.Host+"/api/v1/executions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := k.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("kestra unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("kestra returned status: %s", resp.Status)
	}
	var out executionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to parse kestra response: %w", err)
	}
	return out.ID, nil
}
