package query

import (
	"fmt"
	"strings"

	"github.com/lyraproj/dgo/dgo"
)

// UnknownArgument is an error implementation used by Query to provide information about
// a named argument not being registered on the query.
type UnknownArgument string

func (u UnknownArgument) Error() string {
	return fmt.Sprintf(`no argument named %q is defined on the query`, string(u))
}

// InvalidTypeError is returned from an attempt to assign a value whose type doesn't
// match the type declared by the argument.
type InvalidTypeError struct {
	Expected dgo.Type
	Actual   dgo.Type
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf(`expected the value to be of type %s; got %s`, e.Expected, e.Actual)
}

// InvalidChoiceError is returned from an attempt to assign a value that is not a member
// of the closed choice set declared by the argument.
type InvalidChoiceError struct {
	Choices dgo.Array
	Value   dgo.Value
}

func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf(`expected the value to be one of %s; got %s`, e.Choices, e.Value)
}

// ImmutableError is returned from any attempt to write the value of an argument that
// was declared immutable, including an attempt to write the value it already holds.
type ImmutableError struct {
	Key string
}

func (e *ImmutableError) Error() string {
	return fmt.Sprintf(`attempt to mutate the value of immutable argument %q`, e.Key)
}

// FormatError is returned when an argument's format spec could not be applied to its
// value, i.e. when neither substitution style produced output that differs from the
// spec itself.
type FormatError struct {
	Spec  string
	Value dgo.Value
}

func (e *FormatError) Error() string {
	return fmt.Sprintf(
		`unable to format %s using %q; neither percent-style nor brace-style substitution applied`, e.Value, e.Spec)
}

// ValueError aggregates the error messages of every argument on a query that holds an
// invalid value. The messages appear in argument registration order.
type ValueError struct {
	Messages []string
}

func (e *ValueError) Error() string {
	b := strings.Builder{}
	b.WriteString(`the following arguments have errors with their values:`)
	for _, m := range e.Messages {
		b.WriteString("\n    ")
		b.WriteString(m)
	}
	return b.String()
}

// RequirementError aggregates, per wire key and in argument registration order, the
// keys of required supporting arguments that are not registered on the query.
type RequirementError struct {
	// Keys holds the wire keys that have missing requirements, in registration order
	Keys []string

	// Missing maps each entry of Keys to the requirement keys it lacks
	Missing map[string][]string
}

func (e *RequirementError) Error() string {
	b := strings.Builder{}
	b.WriteString(`the following query arguments are missing required supporting arguments:`)
	for _, k := range e.Keys {
		reqs := e.Missing[k]
		b.WriteString("\n    ")
		b.WriteString(k)
		if len(reqs) > 1 {
			b.WriteString(` is missing requirements: `)
			b.WriteString(strings.Join(reqs[:len(reqs)-1], `, `))
			b.WriteString(` and `)
			b.WriteString(reqs[len(reqs)-1])
		} else {
			b.WriteString(` is missing requirement: `)
			b.WriteString(reqs[0])
		}
	}
	return b.String()
}
