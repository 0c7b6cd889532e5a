package loom

// Scope controls how many instances of a definition the container creates.
type Scope int

const (
	// Singleton is the default scope. The creator runs at most once per
	// active binding and the resulting value is cached on the container.
	Singleton Scope = iota

	// Transient means the creator runs on every resolution and nothing is
	// cached.
	Transient
)

// String returns the human-readable name of the scope.
func (s Scope) String() string {
	switch s {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}
