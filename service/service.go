// Package service contains the resgate based job search service. It exposes the
// registered query catalogs and builds validated request URLs on demand.
package service

import (
	"errors"
	"strings"

	"github.com/jirenius/go-res"
	"github.com/lyraproj/dgo/dgo"
	"github.com/lyraproj/dgo/streamer"
	"github.com/sirupsen/logrus"

	"github.com/joe-habel/JobSearch/catalog"
)

// ServiceName is the name of the Resgate service
const ServiceName = `jobsearch`

const prefix = ServiceName + `.`

const catalogPrefix = ServiceName + `.catalog.`
const catalogPrefixLen = len(catalogPrefix)

type buildResult struct {
	URL string `json:"url"`
}

// A Service contains all the resgate handlers and a catalog registry.
type Service struct {
	resService *res.Service
	registry   *catalog.Registry
}

// NewService creates a new Resgate service that will serve the catalogs of the given
// registry.
func NewService(rs *res.Service, registry *catalog.Registry) *Service {
	s := &Service{rs, registry}
	rs.Handle(
		`>`,
		res.Access(res.AccessGranted),
		res.GetResource(s.getHandler),
		res.Call("build", s.buildHandler),
	)
	return s
}

func (s *Service) getHandler(r res.GetRequest) {
	key := r.ResourceName()
	if key == prefix+`catalogs` {
		s.getCatalogs(r)
		return
	}
	if strings.HasPrefix(key, catalogPrefix) {
		s.getCatalog(r, key[catalogPrefixLen:])
		return
	}
	r.NotFound()
}

// getCatalogs responds with the collection of registered catalog names.
func (s *Service) getCatalogs(r res.GetRequest) {
	names := s.registry.Names()
	c := make([]interface{}, len(names))
	for i, n := range names {
		c[i] = n
	}
	r.Collection(c)
}

// getCatalog responds with a model that maps each accessor name of the named catalog
// to the documentation line of its argument.
func (s *Service) getCatalog(r res.GetRequest, name string) {
	d := s.registry.Get(name)
	if d == nil {
		r.NotFound()
		return
	}
	args := d.Arguments()
	m := make(map[string]interface{}, len(args))
	for _, na := range args {
		m[na.Name] = na.Argument.Doc()
	}
	r.Model(m)
}

// buildHandler builds a fresh query from the named catalog, applies the values given
// in the call parameters, and responds with the encoded URL.
func (s *Service) buildHandler(r res.CallRequest) {
	key := r.ResourceName()
	if !strings.HasPrefix(key, catalogPrefix) {
		r.NotFound()
		return
	}
	d := s.registry.Get(key[catalogPrefixLen:])
	if d == nil {
		r.NotFound()
		return
	}

	var values dgo.Map
	if rp := r.RawParams(); len(rp) > 0 {
		params, ok := streamer.UnmarshalJSON(rp, nil).(dgo.Map)
		if !ok {
			panic(errors.New(`unable to extract values from parameters`))
		}
		values, _ = params.Get(`values`).(dgo.Map)
	}

	q := d.New()
	if err := q.SetAll(values); err != nil {
		r.InvalidParams(err.Error())
		return
	}
	u, err := q.URL()
	if err != nil {
		r.InvalidParams(err.Error())
		return
	}
	logrus.Debugf(`built %s: %s`, d.Name(), u)
	r.OK(&buildResult{URL: u})
}
