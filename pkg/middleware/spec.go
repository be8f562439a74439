package middleware

import (
	"slices"
	"strings"
)

// Args is the ordered argument list of a middleware invocation.
type Args []string

// Get returns the argument at position i, or def if absent.
func (a Args) Get(i int, def string) string {
	if i < 0 || i >= len(a) {
		return def
	}
	return a[i]
}

// Spec identifies one middleware invocation in a chain.
//
// A Spec is either named (a registered identifier plus arguments) or inline
// (Inline holds a callable supplied directly on the route). Specs are values;
// treat them as immutable once built.
type Spec struct {
	Inline any    // Inline callable; nil for named specs
	Name   string // Concrete identifier, or a label for inline specs
	Args   Args
}

// IsInline reports whether the spec wraps an inline callable.
func (s Spec) IsInline() bool {
	return s.Inline != nil
}

// Key returns the identity used for deduplication: name plus arguments.
func (s Spec) Key() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + ":" + strings.Join(s.Args, ",")
}

// Equal reports whether two named specs have the same name and arguments.
func (s Spec) Equal(o Spec) bool {
	if s.IsInline() || o.IsInline() {
		return false
	}
	return s.Name == o.Name && slices.Equal(s.Args, o.Args)
}

// String returns the spec in token form.
func (s Spec) String() string {
	if s.IsInline() {
		if s.Name == "" {
			return "<inline>"
		}
		return "<inline:" + s.Name + ">"
	}
	return s.Key()
}

// Ref is a middleware reference as declared on a route or router: either a
// raw token or an inline callable.
type Ref struct {
	inline any
	token  string
	label  string
}

// Token creates a reference from a raw token such as "auth" or "throttle:60,1m".
func Token(token string) Ref {
	return Ref{token: token}
}

// Tokens creates references for each raw token.
func Tokens(tokens ...string) []Ref {
	refs := make([]Ref, 0, len(tokens))
	for _, t := range tokens {
		refs = append(refs, Token(t))
	}
	return refs
}

// Inline creates a reference to an inline callable. The label only shows up
// in logs and error messages.
func Inline(label string, fn any) Ref {
	return Ref{inline: fn, label: label}
}

// IsInline reports whether the reference holds an inline callable.
func (r Ref) IsInline() bool {
	return r.inline != nil
}

// String returns the raw token or the inline label.
func (r Ref) String() string {
	if r.IsInline() {
		return Spec{Inline: r.inline, Name: r.label}.String()
	}
	return r.token
}

// ParseToken splits "name:arg1,arg2" into the name and its arguments.
// Whitespace around the name and each argument is trimmed.
func ParseToken(token string) (string, Args) {
	name, rest, found := strings.Cut(token, ":")
	name = strings.TrimSpace(name)
	if !found || strings.TrimSpace(rest) == "" {
		return name, nil
	}

	parts := strings.Split(rest, ",")
	args := make(Args, 0, len(parts))
	for _, p := range parts {
		args = append(args, strings.TrimSpace(p))
	}
	return name, args
}
