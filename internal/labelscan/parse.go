package labelscan

import "strings"

// ParseResponse parses a model response in format: solvent name | CAS number,
// one candidate per line.
func ParseResponse(raw string) []Candidate {
	lines := strings.Split(raw, "\n")
	candidates := make([]Candidate, 0)

	for _, line := range lines {
		if c := ParseLine(line); c != nil {
			candidates = append(candidates, *c)
		}
	}

	return candidates
}

// ParseLine parses a single "name | cas" line, returning nil for blank or
// non-candidate lines.
func ParseLine(line string) *Candidate {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	// Skip preambles the model sometimes emits.
	if strings.HasPrefix(line, "Here") || strings.HasPrefix(line, "I see") || strings.HasPrefix(line, "Based on") {
		return nil
	}

	name, cas, _ := strings.Cut(line, "|")
	c := &Candidate{
		Name:      strings.TrimSpace(name),
		CASNumber: strings.TrimSpace(cas),
	}
	if c.Name == "" {
		return nil
	}
	return c
}
