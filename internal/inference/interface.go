package inference

import (
	"context"
	"errors"
	"fmt"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client generates the per-domain descriptions of a single term
type Client interface {
	Describe(ctx context.Context, params DescribeRequest) (Descriptions, error)
}

// OutputMode selects how the model is asked to shape its reply
type OutputMode string

const (
	// OutputModeStructured requests a JSON document constrained by DescriptionsSchema
	OutputModeStructured OutputMode = "structured"
	// OutputModeText requests the "For astrology: ... Key Points: ... Example: ..." free-text format
	OutputModeText OutputMode = "text"
)

func ParseOutputMode(value string) (OutputMode, error) {
	switch OutputMode(value) {
	case OutputModeStructured, OutputModeText:
		return OutputMode(value), nil
	}
	return "", fmt.Errorf("invalid output mode: %s", value)
}

type DescribeRequest struct {
	Term string `json:"term"`
}

// Descriptions is the model's answer for one term across the three domains
type Descriptions struct {
	Astrology   AstrologyDescription   `json:"astrology" yaml:"astrology" validate:"required"`
	Music       MusicDescription       `json:"music" yaml:"music" validate:"required"`
	Mathematics MathematicsDescription `json:"mathematics" yaml:"mathematics" validate:"required"`
}

type AstrologyDescription struct {
	Definition string   `json:"definition" yaml:"definition" validate:"required"`
	KeyPoints  []string `json:"key_points" yaml:"key_points" validate:"min=1,dive,required"`
	Example    string   `json:"example" yaml:"example" validate:"required"`
}

type MusicDescription struct {
	Analogy   string   `json:"analogy" yaml:"analogy" validate:"required"`
	KeyPoints []string `json:"key_points" yaml:"key_points" validate:"min=1,dive,required"`
	Example   string   `json:"example" yaml:"example" validate:"required"`
}

type MathematicsDescription struct {
	Concept   string   `json:"concept" yaml:"concept" validate:"required"`
	KeyPoints []string `json:"key_points" yaml:"key_points" validate:"min=1,dive,required"`
	Example   string   `json:"example" yaml:"example" validate:"required"`
}

var (
	// ErrMalformedResponse is returned when a reply cannot be turned into Descriptions
	ErrMalformedResponse = errors.New("malformed model response")
	// ErrMissingHeader is returned when a free-text reply lacks a section header
	ErrMissingHeader = fmt.Errorf("%w: missing expected headers", ErrMalformedResponse)
)

const (
	DefaultMaxRetryAttempts = 0
)
