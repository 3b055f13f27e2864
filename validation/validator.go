package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kbukum/discoverykit/errors"
)

// FieldError is one invalid configuration key.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator collects checks that struct tags cannot express, such as rules
// spanning two fields, alongside the results of Validate.
type Validator struct {
	fields []FieldError
}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) add(field, message string) {
	v.fields = append(v.fields, FieldError{Field: field, Message: message})
}

// Errors returns the collected field errors in the order they were found.
func (v *Validator) Errors() []FieldError {
	return v.fields
}

// Err returns nil when every check passed and otherwise an INVALID_INPUT
// AppError listing the fields, with the FieldError slice under the
// "fields" detail.
func (v *Validator) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	messages := make([]string, len(v.fields))
	for i, f := range v.fields {
		messages[i] = f.Field + ": " + f.Message
	}
	return errors.Validation(strings.Join(messages, "; ")).
		WithDetail("fields", v.fields)
}

// URL checks that every comma-separated entry of value is an absolute
// http or https URL.
func (v *Validator) URL(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
		return v
	}
	for _, raw := range strings.Split(value, ",") {
		raw = strings.TrimSpace(raw)
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			v.add(field, fmt.Sprintf("%q is not a valid http(s) URL", raw))
		}
	}
	return v
}

// OneOf checks value against allowed, ignoring case. An empty value passes.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return v
		}
	}
	v.add(field, "must be one of: "+strings.Join(allowed, ", "))
	return v
}

// Custom records message under field when ok is false.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if !ok {
		v.add(field, message)
	}
	return v
}

// Merge adds the result of Validate run on the struct bound from the prefix
// branch, qualifying each field with prefix. Any other error is recorded
// under prefix itself.
func (v *Validator) Merge(prefix string, err error) *Validator {
	if err == nil {
		return v
	}
	if appErr, ok := errors.AsAppError(err); ok {
		if fields, ok := appErr.Details["fields"].([]FieldError); ok {
			for _, f := range fields {
				v.add(prefix+"."+f.Field, f.Message)
			}
			return v
		}
	}
	v.add(prefix, err.Error())
	return v
}
