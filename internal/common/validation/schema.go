package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const rootField = "(root)"

// Result is the outcome of validating one document.
type Result struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Schema is a compiled JSON schema, safe for concurrent use.
type Schema struct {
	schema *gojsonschema.Schema
}

// Compile loads a schema held as a decoded JSON object.
func Compile(schema map[string]interface{}) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// MustCompile is Compile for schemas known at build time.
func MustCompile(schema map[string]interface{}) *Schema {
	s, err := Compile(schema)
	if err != nil {
		panic(err)
	}
	return s
}

// ValidateJSON validates a raw JSON document such as job variables.
func (s *Schema) ValidateJSON(raw string) (*Result, error) {
	return s.validate(gojsonschema.NewStringLoader(raw))
}

// Validate validates a decoded Go value.
func (s *Schema) Validate(document interface{}) (*Result, error) {
	return s.validate(gojsonschema.NewGoLoader(document))
}

func (s *Schema) validate(doc gojsonschema.JSONLoader) (*Result, error) {
	res, err := s.schema.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	return toResult(res), nil
}

// Validate compiles schema and validates document in one step.
func Validate(schema map[string]interface{}, document interface{}) (*Result, error) {
	if len(schema) == 0 {
		return &Result{Valid: true}, nil
	}
	s, err := Compile(schema)
	if err != nil {
		return nil, err
	}
	return s.Validate(document)
}

func toResult(res *gojsonschema.Result) *Result {
	out := &Result{Valid: res.Valid()}
	for _, desc := range res.Errors() {
		field := desc.Field()
		if prop, ok := desc.Details()["property"].(string); ok && desc.Type() == "required" {
			if field == rootField {
				field = prop
			} else {
				field = field + "." + prop
			}
		}
		out.Errors = append(out.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return out
}

// ValidateActivityNaming validates activity ID follows naming convention.
func ValidateActivityNaming(activityID string) error {
	namingPattern := regexp.MustCompile(`^[a-z]+\.[a-z]+\.[a-z]+$`)
	if !namingPattern.MatchString(activityID) {
		return fmt.Errorf("activity ID must follow format: domain.subdomain.action (e.g., bankimport.links.resolve)")
	}
	return nil
}

// GetErrorMessages returns "field: message" lines.
func (r *Result) GetErrorMessages() []string {
	messages := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// Summary joins every error message.
func (r *Result) Summary() string {
	return strings.Join(r.GetErrorMessages(), "; ")
}

func (r *Result) HasErrors(field string) bool {
	return len(r.GetErrorsForField(field)) > 0
}

// GetErrorsForField returns errors for field and anything nested under it.
func (r *Result) GetErrorsForField(field string) []FieldError {
	var fieldErrors []FieldError
	for _, err := range r.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}
