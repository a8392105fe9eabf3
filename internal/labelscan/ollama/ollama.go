package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ymorita/solventory/internal/labelscan"
)

// OllamaScanner identifies solvent labels with a local Ollama vision model.
type OllamaScanner struct {
	host   string
	model  string
	client *http.Client
}

func NewOllamaScanner(host, model string) *OllamaScanner {
	return &OllamaScanner{
		host:   host,
		model:  model,
		client: &http.Client{},
	}
}

func (s *OllamaScanner) Scan(ctx context.Context, r io.Reader, mimeType string) (*labelscan.ScanResult, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	reqBody := map[string]any{
		"model":  s.model,
		"prompt": labelscan.ScanPrompt,
		"images": []string{base64.StdEncoding.EncodeToString(imageData)},
		"stream": false,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var respBody struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &labelscan.ScanResult{
		Candidates:  labelscan.ParseResponse(respBody.Response),
		RawResponse: respBody.Response,
	}, nil
}
