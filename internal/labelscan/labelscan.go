package labelscan

import (
	"context"
	"io"
)

// ScanPrompt is the shared prompt used by all label-scan backends.
const ScanPrompt = `Read the chemical container label in this photo.
Identify the solvent. Respond in plain text, one candidate per line,
most likely first, format: solvent name | CAS number
Use an empty CAS field if the label does not show one.`

// Scanner identifies a solvent from a photo of its container label, used to
// prefill the adjustment form.
type Scanner interface {
	Scan(ctx context.Context, r io.Reader, mimeType string) (*ScanResult, error)
}

type ScanResult struct {
	Candidates  []Candidate
	RawResponse string
}

type Candidate struct {
	Name      string
	CASNumber string
}
