package provider

import "fmt"

// Mode is the lifecycle of the instances a provider hands out.
type Mode int

const (
	// AtOne makes the instance once, when the provider is built.
	AtOne Mode = iota
	// Lazy makes the instance on first use and caches it after success.
	Lazy
	// Weak caches the instance only while something else references it.
	Weak
	// Many makes a new instance on every call.
	Many
)

func (m Mode) String() string {
	switch m {
	case AtOne:
		return "atOne"
	case Lazy:
		return "lazy"
	case Weak:
		return "weak"
	case Many:
		return "many"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}
