// Package form holds the declarative field rules enforced before any submission.
package form

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/AlecAivazis/survey/v2"
)

// ErrInvalid marks a form validation failure
var ErrInvalid = errors.New("invalid form")

// FieldError is a failed rule on one field
type FieldError struct {
	Field   string
	Message string
}

// Error implements error
func (e *FieldError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match ErrInvalid
func (e *FieldError) Unwrap() error {
	return ErrInvalid
}

// Rule constrains a single field. Lengths count runes; zero means unbounded.
type Rule struct {
	Field    string
	Required bool
	Min      int
	Max      int

	RequiredMessage string
	LengthMessage   string
}

// Check validates one value against the rule. Empty optional values always pass.
func (r Rule) Check(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		if r.Required {
			return &FieldError{Field: r.Field, Message: r.requiredMessage()}
		}
		return nil
	}

	n := utf8.RuneCountInString(value)
	if (r.Min > 0 && n < r.Min) || (r.Max > 0 && n > r.Max) {
		return &FieldError{Field: r.Field, Message: r.lengthMessage()}
	}
	return nil
}

// Validator adapts the rule for survey prompts
func (r Rule) Validator() survey.Validator {
	return func(ans interface{}) error {
		s, ok := ans.(string)
		if !ok {
			return fmt.Errorf("cannot validate %T", ans)
		}
		return r.Check(s)
	}
}

func (r Rule) requiredMessage() string {
	if r.RequiredMessage != "" {
		return r.RequiredMessage
	}
	return fmt.Sprintf("%s is required", r.Field)
}

func (r Rule) lengthMessage() string {
	if r.LengthMessage != "" {
		return r.LengthMessage
	}
	switch {
	case r.Min > 0 && r.Max > 0:
		return fmt.Sprintf("%s must be %d-%d characters", r.Field, r.Min, r.Max)
	case r.Max > 0:
		return fmt.Sprintf("%s must be at most %d characters", r.Field, r.Max)
	default:
		return fmt.Sprintf("%s must be at least %d characters", r.Field, r.Min)
	}
}

// Rules is an ordered set of field rules
type Rules []Rule

// Validate checks every rule and returns the first failure in declaration order
func (rs Rules) Validate(values map[string]string) error {
	for _, r := range rs {
		if err := r.Check(values[r.Field]); err != nil {
			return err
		}
	}
	return nil
}

// Field returns the rule for a field; an unknown field yields an empty rule
func (rs Rules) Field(name string) Rule {
	for _, r := range rs {
		if r.Field == name {
			return r
		}
	}
	return Rule{Field: name}
}

// KnowledgeBaseRules validate the create/edit knowledge base form
var KnowledgeBaseRules = Rules{
	{Field: "name", Required: true, Min: 2, Max: 50, RequiredMessage: "请输入知识库名称", LengthMessage: "名称长度应在2-50字符之间"},
	{Field: "description", Max: 500, LengthMessage: "描述不能超过500字符"},
	{Field: "owner", Required: true, RequiredMessage: "请输入Owner"},
}

// DocumentRules validate the upload form
var DocumentRules = Rules{
	{Field: "title", Required: true, RequiredMessage: "请输入文档标题"},
	{Field: "description", Max: 500, LengthMessage: "描述不能超过500字符"},
}

// DefaultOwner pre-fills the owner field in new mode
const DefaultOwner = "admin"
