// Package errors provides structured error types for plan.
package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Code represents a unique error code.
type Code string

// Error codes for plan.
const (
	// Initialization errors
	CodeNotInitialized     Code = "PLAN_NOT_INITIALIZED"
	CodeAlreadyInitialized Code = "PLAN_ALREADY_INITIALIZED"

	// Ordering errors
	CodeItemNotFound     Code = "ITEM_NOT_FOUND"
	CodeInvalidParent    Code = "INVALID_PARENT"
	CodePositionConflict Code = "POSITION_CONFLICT"

	// Schedule errors
	CodeScheduleExists Code = "SCHEDULE_EXISTS"
	CodeDateInvalid    Code = "DATE_INVALID"

	// Config errors
	CodeConfigInvalid Code = "CONFIG_INVALID"
)

// Category groups error codes for HTTP status mapping.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryNotFound
	CategoryBadRequest
	CategoryConflict
	CategoryInternal
)

// codeCategories maps error codes to their categories.
var codeCategories = map[Code]Category{
	CodeNotInitialized:     CategoryBadRequest,
	CodeAlreadyInitialized: CategoryConflict,
	CodeItemNotFound:       CategoryNotFound,
	CodeInvalidParent:      CategoryBadRequest,
	CodePositionConflict:   CategoryConflict,
	CodeScheduleExists:     CategoryConflict,
	CodeDateInvalid:        CategoryBadRequest,
	CodeConfigInvalid:      CategoryBadRequest,
}

// HTTPStatus returns the HTTP status code for a category.
func (c Category) HTTPStatus() int {
	switch c {
	case CategoryNotFound:
		return 404
	case CategoryBadRequest:
		return 400
	case CategoryConflict:
		return 409
	default:
		return 500
	}
}

// PlanError is the structured error type for plan.
type PlanError struct {
	Code  Code   `json:"code"`
	What  string `json:"what"`
	Why   string `json:"why,omitempty"`
	Fix   string `json:"fix,omitempty"`
	Cause error  `json:"-"`
}

// Error implements the error interface.
func (e *PlanError) Error() string {
	var b strings.Builder
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString(": ")
		b.WriteString(e.Why)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *PlanError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a user-friendly message for CLI output.
func (e *PlanError) UserMessage() string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString("\n\nWhy: ")
		b.WriteString(e.Why)
	}
	if e.Fix != "" {
		b.WriteString("\n\nFix: ")
		b.WriteString(e.Fix)
	}
	return b.String()
}

// Category returns the error category for HTTP status mapping.
func (e *PlanError) Category() Category {
	if cat, ok := codeCategories[e.Code]; ok {
		return cat
	}
	return CategoryUnknown
}

// HTTPStatus returns the appropriate HTTP status code for this error.
func (e *PlanError) HTTPStatus() int {
	return e.Category().HTTPStatus()
}

// MarshalJSON implements json.Marshaler.
func (e *PlanError) MarshalJSON() ([]byte, error) {
	type alias PlanError
	aux := struct {
		*alias
		CauseMsg string `json:"cause,omitempty"`
	}{
		alias: (*alias)(e),
	}
	if e.Cause != nil {
		aux.CauseMsg = e.Cause.Error()
	}
	return json.Marshal(aux)
}

// Is reports whether target is a PlanError with the same code.
func (e *PlanError) Is(target error) bool {
	t, ok := target.(*PlanError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause.
func (e *PlanError) WithCause(err error) *PlanError {
	return &PlanError{
		Code:  e.Code,
		What:  e.What,
		Why:   e.Why,
		Fix:   e.Fix,
		Cause: err,
	}
}

// --- Error constructors ---

// ErrNotInitialized returns an error for an uninitialized plan directory.
func ErrNotInitialized() *PlanError {
	return &PlanError{
		Code: CodeNotInitialized,
		What: "plan is not initialized in this directory",
		Why:  "No .plan/ directory found in the current path",
		Fix:  "Run 'plan init' to initialize a plan in this directory",
	}
}

// ErrAlreadyInitialized returns an error when a plan already exists.
func ErrAlreadyInitialized(path string) *PlanError {
	return &PlanError{
		Code: CodeAlreadyInitialized,
		What: "plan is already initialized",
		Why:  fmt.Sprintf("Found existing .plan/ directory at %s", path),
		Fix:  "Use 'plan init --force' to reinitialize, or remove .plan/ manually",
	}
}

// ErrItemNotFound returns an error when a container or resource doesn't exist
// or is not owned by the caller.
func ErrItemNotFound(tier, id string) *PlanError {
	return &PlanError{
		Code: CodeItemNotFound,
		What: fmt.Sprintf("%s %s not found", tier, id),
		Why:  "No item with this ID exists for this owner",
		Fix:  "Run 'plan tree' to list the current hierarchy",
	}
}

// ErrInvalidParent returns an error for a tier-mismatched or cross-owner parent.
func ErrInvalidParent(tier, parentID string) *PlanError {
	return &PlanError{
		Code: CodeInvalidParent,
		What: fmt.Sprintf("invalid parent %s for %s", parentID, tier),
		Why:  "The target parent is the wrong tier or belongs to another owner",
		Fix:  "A week moves under a phase, a day under a week, a resource under a day",
	}
}

// ErrPositionConflict returns an error when a move keeps colliding after retries.
func ErrPositionConflict(attempts int) *PlanError {
	return &PlanError{
		Code: CodePositionConflict,
		What: fmt.Sprintf("move failed after %d attempts", attempts),
		Why:  "Concurrent reorders kept colliding on sibling positions",
		Fix:  "Retry the move; the previous ordering is intact",
	}
}

// ErrScheduleExists returns an error when projecting over an existing schedule.
func ErrScheduleExists() *PlanError {
	return &PlanError{
		Code: CodeScheduleExists,
		What: "a schedule projection already exists",
		Why:  "Projecting again would overwrite current assigned dates",
		Fix:  "Use 'plan schedule set-start --reset' to re-project from scratch",
	}
}

// ErrDateInvalid returns an error for a malformed date argument.
func ErrDateInvalid(input string) *PlanError {
	return &PlanError{
		Code: CodeDateInvalid,
		What: fmt.Sprintf("invalid date %q", input),
		Why:  "Dates must be in YYYY-MM-DD form",
		Fix:  "Example: 2024-01-01",
	}
}

// ErrConfigInvalid returns an error for invalid configuration.
func ErrConfigInvalid(field, reason string) *PlanError {
	return &PlanError{
		Code: CodeConfigInvalid,
		What: fmt.Sprintf("invalid configuration: %s", field),
		Why:  reason,
		Fix:  "Check .plan/config.yaml and fix the invalid field",
	}
}

// AsPlanError attempts to convert an error to a PlanError.
// Returns nil if the error is not a PlanError.
func AsPlanError(err error) *PlanError {
	var planErr *PlanError
	if As(err, &planErr) {
		return planErr
	}
	return nil
}

// As is a convenience wrapper for errors.As.
func As(err error, target any) bool {
	return asError(err, target)
}

// asError implements errors.As behavior.
func asError(err error, target any) bool {
	if err == nil {
		return false
	}
	if planErr, ok := err.(*PlanError); ok {
		if t, ok := target.(**PlanError); ok {
			*t = planErr
			return true
		}
	}
	// Check unwrapped error
	if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
		return asError(unwrapper.Unwrap(), target)
	}
	return false
}

// Wrap wraps a generic error into a PlanError with unknown code.
func Wrap(err error, what string) *PlanError {
	return &PlanError{
		Code:  Code("UNKNOWN"),
		What:  what,
		Cause: err,
	}
}
