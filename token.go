package loom

// AnyToken is the untyped view of a Token. The container's registry, the
// resolution monitor, and error paths work with AnyToken so that definitions
// of different value types can share one registry.
//
// Two tokens compare equal iff they wrap the same underlying handle; the
// label never participates in equality.
type AnyToken interface {
	// Label returns the human-readable debug label the token was created with.
	Label() string

	handle() *tokenHandle
}

// tokenHandle is the process-unique identity behind a token. Every NewToken
// call allocates a fresh handle, so pointer identity is token identity.
type tokenHandle struct {
	label string
}

// Token identifies the value built by a wire definition. The type parameter
// is a compile-time tag only; it carries no runtime representation beyond
// the debug label.
//
// Create tokens once, at definition time, and share the variable:
//
//	var LoggerToken = loom.NewToken[*Logger]("logger")
type Token[T any] struct {
	h *tokenHandle
}

// NewToken creates a unique token with the given debug label. Two tokens
// created independently are never equal, even with identical labels.
func NewToken[T any](label string) Token[T] {
	return Token[T]{h: &tokenHandle{label: label}}
}

// Label returns the token's debug label.
func (t Token[T]) Label() string {
	return t.h.label
}

func (t Token[T]) handle() *tokenHandle {
	return t.h
}
