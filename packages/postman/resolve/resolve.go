// Package resolve implements template expansion over the layered
// variable store in packages/postman/context: {{name}} substitution,
// :name path parameters, dynamic $-prefixed builtins, and a max-visit
// cycle guard.
package resolve

import (
	"regexp"
	"strings"

	"github.com/hitcall/hitcall/packages/postman/context"
)

// maxVisitsPerKey bounds how many times a single variable key may be
// re-substituted while expanding one input string, guarding against
// cycles such as a -> {{b}}, b -> {{a}}.
const maxVisitsPerKey = 10

// DiagnosticKind classifies a resolution diagnostic.
type DiagnosticKind string

const (
	DiagUnresolved           DiagnosticKind = "unresolved"
	DiagCycle                DiagnosticKind = "cycle"
	DiagHookError            DiagnosticKind = "hook_error"
	DiagBodyExtensionSkipped DiagnosticKind = "body_extension_skipped"
)

// Diagnostic records one non-fatal resolution event, e.g. a reference to
// an undefined variable or a cycle that was cut short.
type Diagnostic struct {
	Kind    DiagnosticKind
	Key     string
	Message string
}

// UndefinedPolicy controls what happens when a {{name}} reference has no
// matching variable in any scope and is not a recognized builtin.
type UndefinedPolicy string

const (
	// PolicyLenient leaves the literal "{{name}}" text in place (the
	// teacher's resolver.go behavior) and records a Diagnostic.
	PolicyLenient UndefinedPolicy = "lenient"
	// PolicyStrict behaves like PolicyLenient but callers are expected
	// to treat any returned Diagnostic of kind DiagUnresolved as fatal;
	// see Resolver.ResolveStrict.
	PolicyStrict UndefinedPolicy = "strict"
)

var variablePattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Resolver expands templates against one Context using one BuiltinRegistry.
type Resolver struct {
	ctx      *context.Context
	builtins *BuiltinRegistry
	policy   UndefinedPolicy
}

// New builds a Resolver. A nil builtins registry is replaced with the
// standard defaults.
func New(ctx *context.Context, builtins *BuiltinRegistry, policy UndefinedPolicy) *Resolver {
	if builtins == nil {
		builtins = NewBuiltinRegistry()
	}
	return &Resolver{ctx: ctx, builtins: builtins, policy: policy}
}

// Resolve expands every {{name}} template in input, recursively
// resolving values that themselves contain templates, up to
// maxVisitsPerKey re-substitutions per key. It never touches :name path
// parameters — see ResolvePath for that.
func (r *Resolver) Resolve(input string) (string, []Diagnostic) {
	visits := map[string]int{}
	var diags []Diagnostic
	out := r.expand(input, visits, &diags)
	return out, diags
}

// ResolveStrict is Resolve, but returns an error naming the first
// unresolved-or-cyclic reference when policy is PolicyStrict and any
// such diagnostic was produced. Under PolicyLenient it never errors.
func (r *Resolver) ResolveStrict(input string) (string, []Diagnostic, error) {
	out, diags := r.Resolve(input)
	if r.policy == PolicyStrict {
		for _, d := range diags {
			return out, diags, &UnresolvedError{Diagnostic: d}
		}
	}
	return out, diags, nil
}

// ResolvePath expands {{name}} templates and then :name path parameters
// in a URL path segment string, in that order: templates resolve
// first, path parameters second, since a template may itself expand
// into text containing further ':' characters that are not path
// parameters.
func (r *Resolver) ResolvePath(input string) (string, []Diagnostic) {
	expanded, diags := r.Resolve(input)
	substituted, pdiags := SubstitutePathParams(expanded, func(name string) (string, bool) {
		return r.ctx.Get(name)
	})
	return substituted, append(diags, pdiags...)
}

func (r *Resolver) expand(input string, visits map[string]int, diags *[]Diagnostic) string {
	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		sub := variablePattern.FindStringSubmatch(match)
		expr := strings.TrimSpace(sub[1])
		if expr == "" {
			return match
		}

		if strings.HasPrefix(expr, "$") {
			if v, ok := r.builtins.Call(expr); ok {
				return v
			}
			*diags = append(*diags, Diagnostic{Kind: DiagUnresolved, Key: expr, Message: "unresolved builtin " + expr})
			return match
		}

		visits[expr]++
		if visits[expr] > maxVisitsPerKey {
			*diags = append(*diags, Diagnostic{Kind: DiagCycle, Key: expr, Message: "cycle detected resolving " + expr})
			return match
		}

		v, ok := r.ctx.Get(expr)
		if !ok {
			*diags = append(*diags, Diagnostic{Kind: DiagUnresolved, Key: expr, Message: "unresolved variable " + expr})
			return match
		}
		return r.expand(v, visits, diags)
	})
}

// UnresolvedError adapts a Diagnostic to the error interface for
// PolicyStrict callers.
type UnresolvedError struct {
	Diagnostic Diagnostic
}

func (e *UnresolvedError) Error() string {
	return e.Diagnostic.Message
}
