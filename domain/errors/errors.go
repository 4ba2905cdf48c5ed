// Package errors provides domain-specific error types for the module host.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// DetailedError is an interface for custom error types that can convert themselves
// to a structured ErrorDetail. New error types only need to implement this
// interface without modifying ToErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
// This function recognizes custom error types and categorizes them appropriately.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// Sentinel errors for expected rejections.
var (
	ErrEmptyPath        = stdErrors.New("empty library path")
	ErrEmptyName        = stdErrors.New("library path has no file name")
	ErrNotPlugin        = stdErrors.New("not a plugin library")
	ErrRegistryNotEmpty = stdErrors.New("module registry is not empty")
	ErrInvalidTable     = stdErrors.New("invalid operation table")
)

// Class is the severity of a load failure. Higher is more severe.
type Class int

const (
	// ClassSoft is a recoverable rejection: not a module, incompatible,
	// or the library could not be opened.
	ClassSoft Class = iota
	// ClassInitialization is a recognized module failing its pre-init hook.
	ClassInitialization
	// ClassMemory is an allocation failure.
	ClassMemory
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassSoft:
		return "soft"
	case ClassInitialization:
		return "initialization"
	case ClassMemory:
		return "out-of-memory"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Fatal reports whether the class is fatal.
func (c Class) Fatal() bool {
	return c != ClassSoft
}

// ClassOf returns the severity class of err. Errors the taxonomy does not
// know about are soft.
func ClassOf(err error) Class {
	var le *LoadError
	if stdErrors.As(err, &le) {
		return le.Class
	}
	var se *ScanError
	if stdErrors.As(err, &se) {
		return se.Class
	}
	var me *MemoryError
	if stdErrors.As(err, &me) {
		return ClassMemory
	}
	var ae *AbortError
	if stdErrors.As(err, &ae) {
		return ae.Class()
	}
	var he *HookError
	if stdErrors.As(err, &he) {
		return ClassInitialization
	}
	return ClassSoft
}

// IsFatal reports whether err is an initialization or out-of-memory failure.
func IsFatal(err error) bool {
	return err != nil && ClassOf(err).Fatal()
}

// LoadError is the failure of loading one library path.
type LoadError struct {
	Err   error
	Path  string
	Class Class
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load '%s' (%s): %v", e.Path, e.Class, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *LoadError) ToErrorDetail() *entities.ErrorDetail {
	detail := &entities.ErrorDetail{Message: e.Error(), Type: "load", Code: e.Class.String()}
	if inner := ToErrorDetail(e.Err); inner != nil && inner.Type != "internal" {
		detail.Wrapped = inner
	}
	return detail
}

// OpenError is a failure of the library primitive to open a path.
type OpenError struct {
	Err  error
	Path string
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("could not open library '%s': %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *OpenError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "open", Code: "open_failed", IsNotFound: true}
}

// CompatibilityReason says which axis of the compatibility gate rejected a library.
type CompatibilityReason string

const (
	// ReasonWidth is a numeric width mismatch.
	ReasonWidth CompatibilityReason = "width"
	// ReasonVersion is an API version mismatch.
	ReasonVersion CompatibilityReason = "version"
)

// CompatibilityError is a rejection by the compatibility gate.
type CompatibilityError struct {
	Reason  CompatibilityReason
	Library entities.Info
	Host    entities.Info
}

func (e *CompatibilityError) Error() string {
	if e.Reason == ReasonWidth {
		return fmt.Sprintf("uses incompatible numeric width %d (host %d)", e.Library.Width, e.Host.Width)
	}
	return fmt.Sprintf("incompatible with API version %d.%d (built for %d.%d)",
		e.Host.Major, e.Host.Minor, e.Library.Major, e.Library.Minor)
}

// ToErrorDetail implements DetailedError.
func (e *CompatibilityError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "compatibility", Code: string(e.Reason)}
}

// MemoryError represents a failed module record allocation.
type MemoryError struct {
	Current int // Records currently held
	Limit   int // Maximum allowed
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("module record allocation failed: %d records in use, limit %d", e.Current, e.Limit)
}

// ToErrorDetail implements DetailedError.
func (e *MemoryError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "internal", Code: "memory_limit"}
}

// HookError is a module hook returning a nonzero status.
type HookError struct {
	Module  string
	Hook    string
	Message string // module-supplied text, if any
	Status  int
}

func (e *HookError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("module '%s': %s returned %d: %s", e.Module, e.Hook, e.Status, e.Message)
	}
	return fmt.Sprintf("module '%s': %s returned %d", e.Module, e.Hook, e.Status)
}

// ToErrorDetail implements DetailedError.
func (e *HookError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message: e.Error(),
		Type:    "hook",
		Code:    fmt.Sprintf("status_%d", e.Status),
		Details: map[string]any{"module": e.Module, "hook": e.Hook},
	}
}

// AbortError is an abrupt abort caught at a hook call site.
type AbortError struct {
	Value  any // recovered panic value, if the abort was not raised via Instance.Abort
	Module string
	Stack  []byte
	Code   entities.AbortCode
}

func (e *AbortError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("module '%s' aborted (code %d)", e.Module, e.Code)
	}
	return fmt.Sprintf("module '%s' aborted: %v", e.Module, e.Value)
}

func (e *AbortError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Class maps the abort code to a severity class.
func (e *AbortError) Class() Class {
	if e.Code == entities.AbortOutOfMemory {
		return ClassMemory
	}
	return ClassInitialization
}

// ToErrorDetail implements DetailedError.
func (e *AbortError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "panic", Code: e.Class().String(), Stack: e.Stack}
}

// DirectoryError is a module directory that could not be read.
type DirectoryError struct {
	Err error
	Dir string
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("error opening plugin directory '%s': %v", e.Dir, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *DirectoryError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: "module_dir", IsNotFound: true}
}

// ScanError is the aggregate result of a directory scan that saw fatal
// load failures. Initialization failures fold to ClassSoft here.
type ScanError struct {
	Dir    string
	Failed []string
	Class  Class
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("some modules in '%s' could not be loaded (%s): %s",
		e.Dir, e.Class, strings.Join(e.Failed, ", "))
}

// ToErrorDetail implements DetailedError.
func (e *ScanError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message: e.Error(),
		Type:    "load",
		Code:    e.Class.String(),
		Details: map[string]any{"failed": e.Failed},
	}
}

// Phase names a pass over the registry.
type Phase string

const (
	PhaseInit    Phase = "init"
	PhaseDestroy Phase = "destroy"
)

// PhaseError collects per-module failures of an init or teardown pass.
type PhaseError struct {
	Phase    Phase
	Failures []error
}

func (e *PhaseError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("%s pass: %d module(s) failed: %s", e.Phase, len(e.Failures), strings.Join(msgs, "; "))
}

func (e *PhaseError) Unwrap() []error {
	return e.Failures
}

// ToErrorDetail implements DetailedError.
func (e *PhaseError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message: e.Error(),
		Type:    "lifecycle",
		Code:    string(e.Phase),
		Details: map[string]any{"failures": len(e.Failures)},
	}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: e.Field}
}
