package validation

import (
	"fmt"
	"regexp"

	"github.com/xeipuuv/gojsonschema"
)

// requestEnvelopeSchema describes the envelope accepted by the dispatcher.
// Unknown top-level fields are allowed so clients can attach extra metadata.
const requestEnvelopeSchema = `{
	"type": "object",
	"properties": {
		"id": {"type": "string"},
		"type": {"type": "string", "minLength": 1},
		"action": {"type": "string"},
		"description": {"type": "string"},
		"language": {"type": "string"},
		"location": {"type": "string"},
		"business": {
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"type": {"type": "string"},
				"location": {"type": "string"},
				"phone": {"type": "string"},
				"email": {"type": "string"}
			}
		},
		"metadata": {"type": "object"}
	},
	"anyOf": [
		{"required": ["type"]},
		{"required": ["description"]}
	]
}`

var compiledEnvelopeSchema = gojsonschema.NewStringLoader(requestEnvelopeSchema)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateRequestEnvelope checks a raw request map against the envelope schema.
func ValidateRequestEnvelope(request map[string]interface{}) (*ValidationResult, error) {
	documentLoader := gojsonschema.NewGoLoader(request)

	result, err := gojsonschema.Validate(compiledEnvelopeSchema, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}, nil
	}

	errs := make([]ValidationError, len(result.Errors()))
	for i, desc := range result.Errors() {
		errs[i] = ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		}
	}
	return &ValidationResult{Valid: false, Errors: errs}, nil
}

// ValidateAgainst checks data against an arbitrary schema map.
func ValidateAgainst(schemaMap, data map[string]interface{}) error {
	if len(schemaMap) == 0 {
		return nil
	}

	schemaLoader := gojsonschema.NewGoLoader(schemaMap)
	documentLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("data validation failed: %v", errs)
	}

	return nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	emailPattern := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailPattern.MatchString(email)
}

// ValidatePhone validates basic phone number format
func ValidatePhone(phone string) bool {
	phonePattern := regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)
	return phonePattern.MatchString(phone)
}

// ValidateURL validates URL format
func ValidateURL(url string) bool {
	urlPattern := regexp.MustCompile(`^(https?|ftp)://[^\s/$.?#].[^\s]*$`)
	return urlPattern.MatchString(url)
}
