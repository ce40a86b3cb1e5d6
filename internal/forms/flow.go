// Package forms is the step machine behind the lead-capture funnels. A Flow
// walks a fixed sequence of field groups, validating the current group
// before advancing and reporting each completed step to an analytics
// recorder. All state lives in memory: there is no autosave between steps.
package forms

import (
	"context"
	"fmt"
	"strings"

	"github.com/juicefit/juice-platform/internal/domain"
)

type FieldKind int

const (
	Text FieldKind = iota
	Email
)

type Field struct {
	Name     string
	Required bool
	Kind     FieldKind
	MinLen   int
	MaxLen   int
}

type Step struct {
	Name   string
	Fields []Field
}

// Recorder receives step-completion analytics events.
type Recorder func(flowName string, stepIndex int, stepName string)

// SubmitFunc performs the single network call on the final step.
type SubmitFunc func(ctx context.Context, values map[string]string) error

// FieldError identifies which field failed which check.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Flow struct {
	name      string
	steps     []Step
	values    map[string]string
	index     int
	submitted bool
	recorder  Recorder
}

func NewFlow(name string, steps []Step, recorder Recorder) *Flow {
	return &Flow{
		name:     name,
		steps:    steps,
		values:   make(map[string]string),
		recorder: recorder,
	}
}

func (f *Flow) Set(field, value string) {
	f.values[field] = value
}

func (f *Flow) Value(field string) string {
	return f.values[field]
}

// Values returns a copy of the accumulated object.
func (f *Flow) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// StepIndex returns the current zero-based step.
func (f *Flow) StepIndex() int {
	return f.index
}

func (f *Flow) Submitted() bool {
	return f.submitted
}

// Next validates the current step and advances by one. Not usable on the
// last step; that transition is Submit.
func (f *Flow) Next() error {
	if f.index >= len(f.steps)-1 {
		return fmt.Errorf("already on the final step")
	}
	if err := f.validateStep(f.index); err != nil {
		return err
	}
	if f.recorder != nil {
		f.recorder(f.name, f.index, f.steps[f.index].Name)
	}
	f.index++
	return nil
}

// Back is always allowed except from the first step and never validates.
func (f *Flow) Back() error {
	if f.index == 0 {
		return fmt.Errorf("already on the first step")
	}
	f.index--
	return nil
}

// Submit re-validates the final step and performs the one network call. On
// failure the flow stays on the last step so the user can retry manually.
func (f *Flow) Submit(ctx context.Context, fn SubmitFunc) error {
	if f.index != len(f.steps)-1 {
		return fmt.Errorf("submit is only reachable from the final step")
	}
	if err := f.validateStep(f.index); err != nil {
		return err
	}
	if err := fn(ctx, f.Values()); err != nil {
		return err
	}
	if f.recorder != nil {
		f.recorder(f.name, f.index, f.steps[f.index].Name)
	}
	f.submitted = true
	return nil
}

func (f *Flow) validateStep(i int) error {
	for _, field := range f.steps[i].Fields {
		if err := validateField(field, f.values[field.Name]); err != nil {
			return err
		}
	}
	return nil
}

func validateField(field Field, raw string) error {
	value := strings.TrimSpace(raw)

	if value == "" {
		if field.Required {
			return &FieldError{Field: field.Name, Message: "is required"}
		}
		return nil
	}
	if field.MinLen > 0 && len(value) < field.MinLen {
		return &FieldError{Field: field.Name, Message: fmt.Sprintf("must be at least %d characters", field.MinLen)}
	}
	if field.MaxLen > 0 && len(value) > field.MaxLen {
		return &FieldError{Field: field.Name, Message: fmt.Sprintf("must be at most %d characters", field.MaxLen)}
	}
	if field.Kind == Email && !domain.EmailRe.MatchString(value) {
		return &FieldError{Field: field.Name, Message: "must be a valid email address"}
	}
	return nil
}
