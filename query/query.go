// Package query contains the query argument descriptor and the query container that
// validates and encodes a set of arguments into a request URL.
package query

import (
	"net/url"
	"strings"

	"github.com/lyraproj/dgo/dgo"
)

// A NamedArgument associates an argument with the name under which it is registered
// on a query. The name is the caller facing accessor and need not match the wire key.
type NamedArgument struct {
	Name     string
	Argument Argument
}

// Named creates a NamedArgument.
func Named(name string, a Argument) NamedArgument {
	return NamedArgument{Name: name, Argument: a}
}

// A Query owns a base URL and an ordered collection of named arguments. Argument
// values are assigned through the named accessors and the query renders itself into
// an encoded query string or a full request URL once all arguments check out.
//
// A query is not safe for concurrent mutation. Create one query per logical request.
type Query struct {
	baseURL string
	names   []string
	args    map[string]Argument
}

// New creates a query for the given base URL. The arguments are registered in the
// given order and each argument is copied, so that a catalog of shared declarations
// never leaks values between queries built from it.
func New(baseURL string, args ...NamedArgument) *Query {
	q := &Query{baseURL: baseURL, names: make([]string, 0, len(args)), args: make(map[string]Argument, len(args))}
	for _, na := range args {
		q.names = append(q.names, na.Name)
		q.args[na.Name] = na.Argument.Copy()
	}
	return q
}

// BaseURL returns the base URL the query was created with.
func (q *Query) BaseURL() string {
	return q.baseURL
}

// Names returns the accessor names of all registered arguments in registration order.
func (q *Query) Names() []string {
	names := make([]string, len(q.names))
	copy(names, q.names)
	return names
}

// Argument returns the argument registered under the given name.
func (q *Query) Argument(name string) (Argument, error) {
	if a, ok := q.args[name]; ok {
		return a, nil
	}
	return nil, UnknownArgument(name)
}

// Value returns the value of the argument registered under the given name.
func (q *Query) Value(name string) (dgo.Value, error) {
	a, err := q.Argument(name)
	if err != nil {
		return nil, err
	}
	return a.Value(), nil
}

// Set assigns a value to the argument registered under the given name. A nil value
// unsets the argument. All failure modes of Argument.SetValue apply.
func (q *Query) Set(name string, value interface{}) error {
	a, err := q.Argument(name)
	if err != nil {
		return err
	}
	return a.SetValue(value)
}

// SetAll assigns values from the given map, keyed by accessor name. The first failing
// assignment is returned and leaves earlier assignments in place.
func (q *Query) SetAll(values dgo.Map) error {
	if values == nil {
		return nil
	}
	var err error
	values.EachEntry(func(e dgo.MapEntry) {
		if err != nil {
			return
		}
		ks, ok := e.Key().(dgo.String)
		if !ok {
			err = UnknownArgument(e.Key().String())
			return
		}
		err = q.Set(ks.GoString(), e.Value())
	})
	return err
}

// Unset removes the value of the argument registered under the given name.
func (q *Query) Unset(name string) error {
	return q.Set(name, nil)
}

// Delete removes the argument registered under the given name from the query
// entirely. Rarely used; unsetting the value is the normal way to exclude an
// argument from the encoded result.
func (q *Query) Delete(name string) error {
	if _, ok := q.args[name]; !ok {
		return UnknownArgument(name)
	}
	delete(q.args, name)
	for i, n := range q.names {
		if n == name {
			q.names = append(q.names[:i], q.names[i+1:]...)
			break
		}
	}
	return nil
}

// Check validates the query in two ordered phases. The first phase collects the error
// message of every argument holding an invalid value and reports them all in one
// *ValueError. The second phase runs only when the first one passes and collects every
// argument whose required supporting arguments are not all registered, reported in one
// *RequirementError.
func (q *Query) Check() error {
	var messages []string
	for _, n := range q.names {
		a := q.args[n]
		if !a.Valid() {
			messages = append(messages, a.ErrorMessage())
		}
	}
	if messages != nil {
		return &ValueError{Messages: messages}
	}

	keys := make([]string, len(q.names))
	for i, n := range q.names {
		keys[i] = q.args[n].Key()
	}
	var order []string
	missing := map[string][]string{}
	for _, n := range q.names {
		a := q.args[n]
		if m := a.MissingRequirements(keys); len(m) > 0 {
			if _, seen := missing[a.Key()]; !seen {
				order = append(order, a.Key())
			}
			missing[a.Key()] = m
		}
	}
	if order != nil {
		return &RequirementError{Keys: order, Missing: missing}
	}
	return nil
}

// Params validates the query and renders its percent-encoded query string. Arguments
// sharing a wire key have their encoded values joined by a literal '+' in registration
// order. Wire keys appear in the order they were first registered.
func (q *Query) Params() (string, error) {
	if err := q.Check(); err != nil {
		return ``, err
	}
	var keys []string
	merged := map[string][]string{}
	for _, n := range q.names {
		a := q.args[n]
		if a.Empty() {
			continue
		}
		enc, err := a.Encoded()
		if err != nil {
			return ``, err
		}
		if _, seen := merged[a.Key()]; !seen {
			keys = append(keys, a.Key())
		}
		merged[a.Key()] = append(merged[a.Key()], enc)
	}

	// Build a predictable order query string
	pqs := strings.Builder{}
	for _, k := range keys {
		if pqs.Len() > 0 {
			_ = pqs.WriteByte('&')
		}
		_, _ = pqs.WriteString(url.QueryEscape(k))
		_ = pqs.WriteByte('=')
		_, _ = pqs.WriteString(url.QueryEscape(strings.Join(merged[k], `+`)))
	}
	return pqs.String(), nil
}

// URL validates the query and renders the full request URL. The query string is
// appended with '?' unless the base URL already carries a query component, in which
// case '&' is used.
func (q *Query) URL() (string, error) {
	params, err := q.Params()
	if err != nil {
		return ``, err
	}
	sep := `?`
	if u, err := url.Parse(q.baseURL); err == nil && u.RawQuery != `` {
		sep = `&`
	}
	return q.baseURL + sep + params, nil
}

// String returns the full request URL when the query validates and a placeholder
// otherwise.
func (q *Query) String() string {
	u, err := q.URL()
	if err != nil {
		return `Unset query object.`
	}
	return `Query for: ` + u
}
