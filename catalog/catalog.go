// Package catalog contains named query catalog definitions and the YAML reader that
// produces them from files on disk.
package catalog

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/lyraproj/dgo/dgo"
	"github.com/lyraproj/dgo/typ"
	"github.com/lyraproj/dgo/vf"
	"github.com/lyraproj/dgoyaml/yaml"

	"github.com/joe-habel/JobSearch/query"
)

// A Definition is a named catalog: a base URL together with an ordered set of named
// argument declarations. Queries built from the same definition are independent.
type Definition struct {
	name    string
	baseURL string
	args    []query.NamedArgument
}

// NewDefinition creates a catalog definition.
func NewDefinition(name, baseURL string, args []query.NamedArgument) *Definition {
	return &Definition{name: name, baseURL: baseURL, args: args}
}

// Name returns the name the definition registers under.
func (d *Definition) Name() string {
	return d.name
}

// BaseURL returns the base URL that queries built from this definition target.
func (d *Definition) BaseURL() string {
	return d.baseURL
}

// Arguments returns the named argument declarations in registration order.
func (d *Definition) Arguments() []query.NamedArgument {
	return d.args
}

// New builds a fresh query from the definition.
func (d *Definition) New() *query.Query {
	return query.New(d.baseURL, d.args...)
}

var typesByName = map[string]dgo.Type{
	`any`:    typ.Any,
	`string`: typ.String,
	`int`:    typ.Integer,
	`float`:  typ.Float,
	`bool`:   typ.Boolean,
}

// Read loads a catalog definition from the YAML file at the given path. The file must
// contain a map with a `base_url` string and an `args` map of argument declarations
// keyed by accessor name. Each declaration may set key, type, required, mutable,
// value, fmt, choices, requires, and disp_name. The read is guarded by a shared file
// lock. The definition is named after the file, without its extension.
func Read(path string) (*Definition, error) {
	lock := flock.New(path)
	if err := lock.RLock(); err != nil {
		return nil, err
	}
	defer func() {
		_ = lock.Close()
	}()

	/* #nosec */
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dv, err := yaml.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	dm, ok := dv.(dgo.Map)
	if !ok {
		return nil, fmt.Errorf(`the file %q does not contain a map of values`, path)
	}

	base, ok := dm.Get(`base_url`).(dgo.String)
	if !ok {
		return nil, fmt.Errorf(`the catalog %q has no base_url`, path)
	}
	am, ok := dm.Get(`args`).(dgo.Map)
	if !ok {
		return nil, fmt.Errorf(`the catalog %q has no args map`, path)
	}

	var args []query.NamedArgument
	am.EachEntry(func(e dgo.MapEntry) {
		if err != nil {
			return
		}
		name, nameOk := e.Key().(dgo.String)
		if !nameOk {
			err = fmt.Errorf(`the catalog %q contains a non string argument name`, path)
			return
		}
		spec, specOk := e.Value().(dgo.Map)
		if !specOk {
			err = fmt.Errorf(`argument %q in catalog %q is not a map`, name.GoString(), path)
			return
		}
		var a query.Argument
		a, err = readArgument(name.GoString(), spec)
		if err == nil {
			args = append(args, query.Named(name.GoString(), a))
		}
	})
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewDefinition(name, base.GoString(), args), nil
}

func readArgument(name string, spec dgo.Map) (query.Argument, error) {
	key := name
	if ks, ok := spec.Get(`key`).(dgo.String); ok {
		key = ks.GoString()
	}

	var options []query.ArgOption
	if ts, ok := spec.Get(`type`).(dgo.String); ok {
		t, found := typesByName[ts.GoString()]
		if !found {
			return nil, fmt.Errorf(`argument %q uses unknown type %q`, name, ts.GoString())
		}
		options = append(options, query.Typed(t))
	}
	if boolField(spec, `required`) {
		options = append(options, query.Required())
	}
	if m := spec.Get(`mutable`); m != nil && !boolField(spec, `mutable`) {
		options = append(options, query.Immutable())
	}
	if v := spec.Get(`value`); v != nil {
		options = append(options, query.Default(v))
	}
	if fs, ok := spec.Get(`fmt`).(dgo.String); ok {
		options = append(options, query.Fmt(fs.GoString()))
	}
	if c := spec.Get(`choices`); c != nil {
		var choices []interface{}
		if ca, ok := c.(dgo.Array); ok {
			ca.EachWithIndex(func(e dgo.Value, _ int) { choices = append(choices, e) })
		} else {
			choices = []interface{}{c}
		}
		options = append(options, query.Choices(choices...))
	}
	if r := spec.Get(`requires`); r != nil {
		var requires []string
		switch r := r.(type) {
		case dgo.String:
			requires = []string{r.GoString()}
		case dgo.Array:
			var bad error
			r.EachWithIndex(func(e dgo.Value, _ int) {
				if rs, ok := e.(dgo.String); ok {
					requires = append(requires, rs.GoString())
				} else {
					bad = fmt.Errorf(`argument %q has a non string requirement`, name)
				}
			})
			if bad != nil {
				return nil, bad
			}
		default:
			return nil, fmt.Errorf(`argument %q has a non string requirement`, name)
		}
		options = append(options, query.Requires(requires...))
	}
	if ds, ok := spec.Get(`disp_name`).(dgo.String); ok {
		options = append(options, query.DispName(ds.GoString()))
	}
	return query.NewArgument(key, options...), nil
}

func boolField(spec dgo.Map, name string) bool {
	if v := spec.Get(name); v != nil {
		return v.Equals(vf.Value(true))
	}
	return false
}

// A Registry holds named catalog definitions in a predictable order.
type Registry struct {
	lock  sync.Mutex
	dir   string
	names []string
	defs  map[string]*Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: map[string]*Definition{}}
}

// Add registers a definition under its name. A definition that replaces an existing
// one keeps its position in the name order.
func (r *Registry) Add(d *Definition) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.defs[d.Name()]; !ok {
		r.names = append(r.names, d.Name())
	}
	r.defs[d.Name()] = d
}

// Get returns the definition registered under the given name or nil.
func (r *Registry) Get(name string) *Definition {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.defs[name]
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// LoadDir reads every YAML file in the given directory into the registry. The
// directory is remembered so that Watch can pick up subsequent changes.
func (r *Registry) LoadDir(dir string) error {
	fis, err := ioutil.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, fi := range fis {
		if fi.IsDir() || !yamlFile(fi.Name()) {
			continue
		}
		d, err := Read(filepath.Join(dir, fi.Name()))
		if err != nil {
			return err
		}
		r.Add(d)
	}
	r.lock.Lock()
	r.dir = dir
	r.lock.Unlock()
	return nil
}

func yamlFile(name string) bool {
	return strings.HasSuffix(name, `.yaml`) || strings.HasSuffix(name, `.yml`)
}
