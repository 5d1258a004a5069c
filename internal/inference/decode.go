package inference

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DecodeResponse turns the content of a model reply into Descriptions according to mode
func DecodeResponse(content string, mode OutputMode) (Descriptions, error) {
	if mode == OutputModeText {
		return ParseSections(content)
	}
	return DecodeJSON(content)
}

// DecodeJSON decodes a structured reply and validates it
func DecodeJSON(content string) (Descriptions, error) {
	var decoded Descriptions
	content = StripCodeFences(content)
	if err := json.NewDecoder(strings.NewReader(content)).Decode(&decoded); err != nil {
		return Descriptions{}, fmt.Errorf("%w: json.Unmarshal(%s) > %w", ErrMalformedResponse, content, err)
	}
	if err := Validate(decoded); err != nil {
		return Descriptions{}, err
	}
	return decoded, nil
}

// Validate checks that every section has its leading text, at least one key point and an example
func Validate(descriptions Descriptions) error {
	if err := validate.Struct(descriptions); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}
