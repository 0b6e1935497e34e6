package resolve

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// BuiltinFunc produces a dynamic value each time it is invoked, e.g. a
// fresh UUID or the current timestamp. Narrowed to the no-argument
// dynamic variables Postman exposes ($guid, $timestamp,
// $isoTimestamp, $randomInt).
type BuiltinFunc func() string

// BuiltinRegistry holds the dynamic ($-prefixed) variable functions.
type BuiltinRegistry struct {
	funcs map[string]BuiltinFunc
}

// NewBuiltinRegistry returns a registry preloaded with the standard set.
func NewBuiltinRegistry() *BuiltinRegistry {
	r := &BuiltinRegistry{funcs: map[string]BuiltinFunc{}}
	r.registerDefaults()
	return r
}

func (r *BuiltinRegistry) registerDefaults() {
	r.funcs["$guid"] = func() string {
		return uuid.New().String()
	}
	r.funcs["$timestamp"] = func() string {
		return fmt.Sprintf("%d", time.Now().Unix())
	}
	r.funcs["$isoTimestamp"] = func() string {
		return time.Now().UTC().Format(time.RFC3339)
	}
	r.funcs["$randomInt"] = func() string {
		return fmt.Sprintf("%d", rand.Intn(1001))
	}
}

// Register adds or overrides a builtin, letting callers extend the set.
func (r *BuiltinRegistry) Register(name string, fn BuiltinFunc) {
	r.funcs[name] = fn
}

// Call invokes a $-prefixed builtin by name, if registered.
func (r *BuiltinRegistry) Call(name string) (string, bool) {
	fn, ok := r.funcs[name]
	if !ok {
		return "", false
	}
	return fn(), true
}
