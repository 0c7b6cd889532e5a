package loom

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeBindingNotFound indicates the requested token has no active binding.
	CodeBindingNotFound = "BINDING_NOT_FOUND"

	// CodeAsyncOnlyBinding indicates a blocking resolution was attempted on a
	// definition whose creator suspends.
	CodeAsyncOnlyBinding = "ASYNC_ONLY_BINDING"

	// CodeCircularDependency indicates a token was re-entered while already
	// in flight within the same resolution chain.
	CodeCircularDependency = "CIRCULAR_DEPENDENCY"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// ErrBindingNotFound is matched by errors.Is for BINDING_NOT_FOUND failures.
var ErrBindingNotFound = errors.New("binding not found")

// ErrAsyncOnlyBinding is matched by errors.Is for ASYNC_ONLY_BINDING failures.
var ErrAsyncOnlyBinding = errors.New("binding requires suspending resolution")

// ErrCircularDependency is matched by errors.Is for CIRCULAR_DEPENDENCY failures.
var ErrCircularDependency = errors.New("circular dependency detected")

// ErrTypeMismatch is returned by the typed helpers when a resolved value does
// not have the expected type.
var ErrTypeMismatch = errors.New("type mismatch")

// =============================================================================
// RESOLUTION ERROR
// =============================================================================

// ResolutionError is the typed failure raised by the engine itself. Errors
// returned by creators propagate through the chain unchanged; only cycle,
// missing-binding, and async-mismatch detection produce a ResolutionError.
type ResolutionError struct {
	// Code is one of the Code* constants.
	Code string

	// Label is the debug label of the token the failure is attributed to.
	Label string

	// RequestID correlates the failure with one top-level resolution chain.
	// Empty for failures raised outside a chain (static validation).
	RequestID string

	// Path is the rendered resolution path, possibly front-truncated.
	Path string

	// Hint is a short instruction specific to the failure code.
	Hint string

	sentinel error
}

// Error renders the label, reason, hint, request id, and resolution path.
func (e *ResolutionError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: token %q: %s", e.sentinel.Error(), e.Label, e.Hint)

	if e.RequestID != "" {
		fmt.Fprintf(&b, " (request %s)", e.RequestID)
	}

	if e.Path != "" {
		fmt.Fprintf(&b, " [path: %s]", e.Path)
	}

	return b.String()
}

// Unwrap exposes the matching sentinel so errors.Is works against
// ErrBindingNotFound, ErrAsyncOnlyBinding, and ErrCircularDependency.
func (e *ResolutionError) Unwrap() error {
	return e.sentinel
}

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

func newBindingNotFound(tok AnyToken, requestID, path string) *ResolutionError {
	return &ResolutionError{
		Code:      CodeBindingNotFound,
		Label:     tok.Label(),
		RequestID: requestID,
		Path:      path,
		Hint:      "apply a definition for this token before resolving it",
		sentinel:  ErrBindingNotFound,
	}
}

func newAsyncOnlyBinding(tok AnyToken, requestID, path string) *ResolutionError {
	return &ResolutionError{
		Code:      CodeAsyncOnlyBinding,
		Label:     tok.Label(),
		RequestID: requestID,
		Path:      path,
		Hint:      "this creator suspends; resolve it with Resolve instead of ResolveSync",
		sentinel:  ErrAsyncOnlyBinding,
	}
}

func newCircularDependency(tok AnyToken, requestID, path string) *ResolutionError {
	return &ResolutionError{
		Code:      CodeCircularDependency,
		Label:     tok.Label(),
		RequestID: requestID,
		Path:      path,
		Hint:      "break the cycle by deferring one side with a Lazy or a suspending creator",
		sentinel:  ErrCircularDependency,
	}
}

// renderPath joins token labels with an arrow connector. When the path is
// longer than keep entries, the front is replaced with a truncated(N) marker,
// where N counts the dropped entries; the entries closest to the failure stay
// visible.
func renderPath(path []AnyToken, keep int) string {
	labels := make([]string, len(path))
	for i, tok := range path {
		labels[i] = tok.Label()
	}

	if keep > 0 && len(labels) > keep {
		dropped := len(labels) - keep
		labels = append([]string{fmt.Sprintf("truncated(%d)...", dropped)}, labels[dropped:]...)
	}

	return strings.Join(labels, " -> ")
}
