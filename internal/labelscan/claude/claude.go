package claude

import (
	"context"
	"fmt"
	"io"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/ymorita/solventory/internal/labelscan"
)

// ClaudeScanner identifies solvent labels with the Anthropic Messages API.
type ClaudeScanner struct {
	client *anthropic.Client
	model  string
}

func NewClaudeScanner(apiKey, model string, opts ...anthropic.ClientOption) *ClaudeScanner {
	return &ClaudeScanner{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (s *ClaudeScanner) Scan(ctx context.Context, r io.Reader, mimeType string) (*labelscan.ScanResult, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	resp, err := s.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(s.model),
		// A label scan yields a handful of short candidate lines.
		MaxTokens: 256,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
						anthropic.MessagesContentSourceTypeBase64,
						normaliseMIME(mimeType),
						imageData,
					)),
					anthropic.NewTextMessageContent(labelscan.ScanPrompt),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call claude: %w", err)
	}

	text := resp.GetFirstContentText()
	return &labelscan.ScanResult{
		Candidates:  labelscan.ParseResponse(text),
		RawResponse: text,
	}, nil
}

// normaliseMIME maps browser MIME types to the values the Anthropic API
// accepts. Unknown types are coerced to jpeg as the most universally
// supported lossy fallback.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
