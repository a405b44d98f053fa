// Package report turns a slice of integrity.Violation into either a
// human-readable multi-line report or a JSON document, selected by name
// the same way the wsl CLI selects any other named format.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wsl-format/wsl/integrity"
)

// Format names a supported report rendering.
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
)

// Formatter renders a violation list to its chosen output format.
type Formatter interface {
	Format(violations []integrity.Violation) (string, error)
}

// NewFormatter returns the Formatter for name. An empty name defaults to
// human, matching the CLI's own default.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatHuman:
		return humanFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	default:
		return nil, fmt.Errorf("report: unsupported format %q; use %q or %q", name, FormatHuman, FormatJSON)
	}
}

type humanFormatter struct{}

func (humanFormatter) Format(violations []integrity.Violation) (string, error) {
	if len(violations) == 0 {
		return "No integrity violations found.\n", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d integrity violation(s):\n", len(violations))
	for _, v := range violations {
		kind := "unique"
		if v.Kind == integrity.KindReferential {
			kind = "reference"
		}
		fmt.Fprintf(&b, "  [%s] %s violates %s: %s\n", v.Relation, kind, v.Constraint, v.Rendered)
	}
	return b.String(), nil
}

type jsonFormatter struct{}

type violationPayload struct {
	Relation   string `json:"relation"`
	Rendered   string `json:"rendered"`
	Constraint string `json:"constraint"`
	Kind       string `json:"kind"`
}

type reportPayload struct {
	Format     string             `json:"format"`
	Count      int                `json:"count"`
	Violations []violationPayload `json:"violations,omitempty"`
}

func (jsonFormatter) Format(violations []integrity.Violation) (string, error) {
	payload := reportPayload{
		Format: string(FormatJSON),
		Count:  len(violations),
	}
	for _, v := range violations {
		kind := "unique"
		if v.Kind == integrity.KindReferential {
			kind = "reference"
		}
		payload.Violations = append(payload.Violations, violationPayload{
			Relation:   v.Relation,
			Rendered:   v.Rendered,
			Constraint: v.Constraint,
			Kind:       kind,
		})
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("report: marshal json: %w", err)
	}
	return string(out) + "\n", nil
}
