package query

import (
	"fmt"
	"strings"

	"github.com/lyraproj/dgo/dgo"
	"github.com/lyraproj/dgo/typ"
	"github.com/lyraproj/dgo/vf"
)

// An Argument describes one URL query key together with the rules that govern its
// value. Several arguments registered on the same query may share a wire key, in
// which case their encoded values are merged when the query is rendered.
type Argument interface {
	// Key is the literal query string key that this argument serializes under
	Key() string

	// Type is the type that a value must be an instance of. The default is typ.Any
	Type() dgo.Type

	// Required indicates that a query is unacceptable unless this argument holds a value
	Required() bool

	// Mutable indicates whether the value may be written after construction
	Mutable() bool

	// Value returns the currently held value or nil when the argument is unset
	Value() dgo.Value

	// SetValue assigns a new value. A nil value unsets the argument. The checks are
	// performed in mutability, type, choice order and the first violation is returned
	// as an *ImmutableError, *InvalidTypeError, or *InvalidChoiceError. The held value
	// remains unchanged when an error is returned.
	SetValue(value interface{}) error

	// Choices returns the closed set of legal values or nil when any instance of the
	// declared type is acceptable
	Choices() dgo.Array

	// Requires returns the wire keys of other arguments that must be registered on the
	// same query for this argument to be satisfied
	Requires() []string

	// DisplayName returns the human readable name of the argument or an empty string
	DisplayName() string

	// Empty returns true when the argument holds no value and no value is required
	Empty() bool

	// Valid returns true when the argument holds a value if one is required and the
	// held value, if any, satisfies the type and choice rules
	Valid() bool

	// ErrorMessage returns the most relevant violation for an invalid argument or an
	// empty string when the argument is valid. A missing required value takes priority
	// over a type mismatch which takes priority over a choice mismatch.
	ErrorMessage() string

	// Encoded renders the held value through the format spec when one is declared, or
	// using its plain string form otherwise
	Encoded() (string, error)

	// MissingRequirements returns the subset of Requires that is not present in the
	// given wire keys
	MissingRequirements(keys []string) []string

	// Doc returns a one line documentation string describing the argument
	Doc() string

	// Copy returns an independent argument holding the same declaration and value
	Copy() Argument
}

// An ArgOption amends the declaration of an argument under construction.
type ArgOption func(a *argument)

// Typed declares the type that values of the argument must be an instance of.
func Typed(t dgo.Type) ArgOption {
	return func(a *argument) { a.typ = t }
}

// Required declares that a query is unacceptable unless the argument holds a value.
func Required() ArgOption {
	return func(a *argument) { a.required = true }
}

// Immutable declares that the value may not be written after construction.
func Immutable() ArgOption {
	return func(a *argument) { a.mutable = false }
}

// Default assigns an initial value. The value is subject to the type and choice rules
// but not to the mutability rule, so that immutable arguments can carry a fixed value.
func Default(value interface{}) ArgOption {
	return func(a *argument) { a.value = vf.Value(value) }
}

// Fmt declares a template used to render the value into its string form. Percent-style
// substitution is tried first and brace-style substitution second.
func Fmt(spec string) ArgOption {
	return func(a *argument) { a.fmt = spec }
}

// Choices declares the closed set of legal values. A single choice means that the
// value, when present, must be exactly that value.
func Choices(choices ...interface{}) ArgOption {
	return func(a *argument) { a.choices = vf.Values(choices...) }
}

// Requires declares the wire keys of other arguments that must be registered on the
// same query for this argument to be satisfied.
func Requires(keys ...string) ArgOption {
	return func(a *argument) { a.requires = keys }
}

// DispName declares a human readable name used in documentation and error text.
func DispName(name string) ArgOption {
	return func(a *argument) { a.dispName = name }
}

type argument struct {
	key      string
	typ      dgo.Type
	required bool
	mutable  bool
	value    dgo.Value
	fmt      string
	choices  dgo.Array
	requires []string
	dispName string
}

// NewArgument creates a new query argument for the given wire key. Without options the
// argument is optional, mutable, unset, and accepts a value of any type. Panics when
// an initial value violates the type or choice rules of the declaration.
func NewArgument(key string, options ...ArgOption) Argument {
	a := &argument{key: key, typ: typ.Any, mutable: true}
	for _, o := range options {
		o(a)
	}
	if a.value != nil {
		if err := a.checkValue(a.value); err != nil {
			panic(err)
		}
	}
	return a
}

func (a *argument) Key() string {
	return a.key
}

func (a *argument) Type() dgo.Type {
	return a.typ
}

func (a *argument) Required() bool {
	return a.required
}

func (a *argument) Mutable() bool {
	return a.mutable
}

func (a *argument) Value() dgo.Value {
	return a.value
}

func (a *argument) Choices() dgo.Array {
	return a.choices
}

func (a *argument) Requires() []string {
	return a.requires
}

func (a *argument) DisplayName() string {
	return a.dispName
}

func (a *argument) SetValue(value interface{}) error {
	if !a.mutable {
		return &ImmutableError{Key: a.key}
	}
	if value == nil {
		a.value = nil
		return nil
	}
	v := vf.Value(value)
	if v.Equals(vf.Nil) {
		a.value = nil
		return nil
	}
	if err := a.checkValue(v); err != nil {
		return err
	}
	a.value = v
	return nil
}

func (a *argument) checkValue(v dgo.Value) error {
	if a.typ != typ.Any && !a.typ.Instance(v) {
		return &InvalidTypeError{Expected: a.typ, Actual: v.Type()}
	}
	if a.choices != nil && !contains(a.choices, v) {
		return &InvalidChoiceError{Choices: a.choices, Value: v}
	}
	return nil
}

func (a *argument) Empty() bool {
	return a.value == nil && !a.required
}

func (a *argument) Valid() bool {
	return a.hasValueIfRequired() && a.validType() && a.validChoice()
}

func (a *argument) ErrorMessage() string {
	switch {
	case !a.hasValueIfRequired():
		return fmt.Sprintf(`%s: missing value for required argument`, a.name())
	case !a.validType():
		return fmt.Sprintf(`%s: expected %s; got %s`, a.name(), a.typ, a.value.Type())
	case !a.validChoice():
		return fmt.Sprintf(`%s: expected an element from %s; got %s`, a.name(), a.choices, a.value)
	}
	return ``
}

func (a *argument) MissingRequirements(keys []string) []string {
	var missing []string
	for _, req := range a.requires {
		found := false
		for _, k := range keys {
			if k == req {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, req)
		}
	}
	return missing
}

// Encoded renders the value. Percent-style substitution is accepted when it changes the
// spec without leaving a verb error behind, otherwise the first brace placeholder is
// substituted. Rendering an unset argument yields an empty string.
func (a *argument) Encoded() (string, error) {
	if a.value == nil {
		return ``, nil
	}
	var iv interface{}
	vf.FromValue(a.value, &iv)
	plain := fmt.Sprintf(`%v`, iv)
	if a.fmt == `` {
		return plain, nil
	}
	if s := fmt.Sprintf(a.fmt, iv); s != a.fmt && !strings.Contains(s, `%!`) {
		return s, nil
	}
	for _, ph := range []string{`{}`, `{0}`} {
		if strings.Contains(a.fmt, ph) {
			return strings.Replace(a.fmt, ph, plain, 1), nil
		}
	}
	return ``, &FormatError{Spec: a.fmt, Value: a.value}
}

func (a *argument) Doc() string {
	b := strings.Builder{}
	b.WriteString(`Query argument for `)
	b.WriteString(a.name())
	b.WriteString(`; value must be of type `)
	b.WriteString(a.typ.String())
	if a.choices != nil {
		b.WriteString(` from the following choices `)
		b.WriteString(a.choices.String())
	}
	b.WriteString(`.`)
	return b.String()
}

func (a *argument) Copy() Argument {
	c := *a
	if a.requires != nil {
		c.requires = make([]string, len(a.requires))
		copy(c.requires, a.requires)
	}
	return &c
}

func (a *argument) name() string {
	if a.dispName != `` {
		return fmt.Sprintf(`'%s' (%s)`, a.key, a.dispName)
	}
	return fmt.Sprintf(`'%s'`, a.key)
}

func (a *argument) hasValueIfRequired() bool {
	return !a.required || a.value != nil
}

func (a *argument) validType() bool {
	if a.typ == typ.Any {
		return true
	}
	return a.value != nil && a.typ.Instance(a.value) || a.Empty()
}

func (a *argument) validChoice() bool {
	if a.choices == nil {
		return true
	}
	return a.value != nil && contains(a.choices, a.value) || a.Empty()
}

func contains(choices dgo.Array, v dgo.Value) bool {
	found := false
	choices.EachWithIndex(func(c dgo.Value, _ int) {
		if v.Equals(c) {
			found = true
		}
	})
	return found
}
