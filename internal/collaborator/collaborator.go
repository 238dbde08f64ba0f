// Package collaborator defines the narrow interfaces to the external
// services this platform consumes: the LLM narrative generator and the
// OCR/identity verifier. The numeric engines never depend on these being
// reachable; ErrUnavailable always routes callers onto a deterministic
// fallback path.
package collaborator

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
)

// ErrUnavailable covers unreachable services and malformed responses alike:
// output that fails schema validation is treated the same as no output.
var ErrUnavailable = errors.New("collaborator unavailable")

// Narrative is the validated shape a text-generation collaborator must
// return. Anything that does not satisfy it is discarded.
type Narrative struct {
	Text    string `json:"text" validate:"required,min=1"`
	Subject string `json:"subject" validate:"required,min=1"`
}

// NarrativeGenerator produces display text (contract prose, dispute
// summaries). Its output augments numeric results and never replaces them.
type NarrativeGenerator interface {
	Generate(ctx context.Context, subject string, input map[string]any) (*Narrative, error)
}

// IdentityVerification is the verdict of the OCR/identity service.
type IdentityVerification struct {
	Verified   bool     `json:"verified"`
	MatchScore *float64 `json:"match_score" validate:"omitempty,gte=0,lte=100"`
}

// IdentityVerifier wraps the external KYC service. The scoring engine only
// consumes the stored verdict; a live call merely refreshes it.
type IdentityVerifier interface {
	Verify(ctx context.Context, userID string) (*IdentityVerification, error)
}

var validate = validator.New()

// DecodeNarrative parses and validates raw collaborator output. Invalid or
// unparseable payloads yield ErrUnavailable, never a partially trusted value.
func DecodeNarrative(raw []byte) (*Narrative, error) {
	var n Narrative
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, ErrUnavailable
	}
	if err := validate.Struct(&n); err != nil {
		return nil, ErrUnavailable
	}
	return &n, nil
}
