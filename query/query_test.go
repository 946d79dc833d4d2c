package query_test

import (
	"net/url"
	"strings"
	"testing"

	require "github.com/lyraproj/dgo/dgo_test"
	"github.com/lyraproj/dgo/typ"
	"github.com/lyraproj/dgo/vf"

	"github.com/joe-habel/JobSearch/query"
)

func mergeQuery() *query.Query {
	return query.New(`https://example.com/jobs`,
		query.Named(`what`, query.NewArgument(`q`, query.Typed(typ.String), query.DispName(`What`))),
		query.Named(`min_salary`, query.NewArgument(`q`, query.Typed(typ.Integer), query.Fmt(`${}`), query.DispName(`Minimum Salary`))),
		query.Named(`where`, query.NewArgument(`l`, query.Typed(typ.String), query.DispName(`Where`))),
	)
}

func TestParams_merge(t *testing.T) {
	q := mergeQuery()
	ok(t, q.Set(`what`, `engineer`))
	ok(t, q.Set(`min_salary`, 50000))

	params, err := q.Params()
	ok(t, err)
	require.Equal(t, `q=engineer%2B%2450000`, params)
}

func TestParams_mergeOrder(t *testing.T) {
	// Join order follows registration order, not assignment order
	q := mergeQuery()
	ok(t, q.Set(`min_salary`, 50000))
	ok(t, q.Set(`what`, `engineer`))

	params, err := q.Params()
	ok(t, err)
	require.Equal(t, `q=engineer%2B%2450000`, params)
}

func TestParams_keyOrder(t *testing.T) {
	q := mergeQuery()
	ok(t, q.Set(`where`, `Austin`))
	ok(t, q.Set(`what`, `engineer`))

	params, err := q.Params()
	ok(t, err)
	require.Equal(t, `q=engineer&l=Austin`, params)
}

func TestURL_noExistingQuery(t *testing.T) {
	q := query.New(`https://example.com/jobs`,
		query.Named(`where`, query.NewArgument(`l`, query.Typed(typ.String))))
	ok(t, q.Set(`where`, `Austin`))

	u, err := q.URL()
	ok(t, err)
	require.Equal(t, `https://example.com/jobs?l=Austin`, u)
}

func TestURL_existingQuery(t *testing.T) {
	q := query.New(`https://example.com/jobs?tk=abc`,
		query.Named(`where`, query.NewArgument(`l`, query.Typed(typ.String))))
	ok(t, q.Set(`where`, `Austin`))

	u, err := q.URL()
	ok(t, err)
	require.Equal(t, `https://example.com/jobs?tk=abc&l=Austin`, u)
}

func TestCheck_aggregatesValueErrors(t *testing.T) {
	q := query.New(`https://example.com/jobs`,
		query.Named(`where`, query.NewArgument(`l`, query.Typed(typ.String), query.Required(), query.DispName(`Where`))),
		query.Named(`psf`, query.NewArgument(`psf`, query.Typed(typ.String), query.Required())),
	)
	err := q.Check()
	ve, isValue := err.(*query.ValueError)
	require.True(t, isValue)
	require.Equal(t, []string{
		`'l' (Where): missing value for required argument`,
		`'psf': missing value for required argument`,
	}, ve.Messages)
	require.True(t, strings.Contains(ve.Error(), `'l' (Where)`))
}

func TestCheck_requirements(t *testing.T) {
	q := query.New(`https://example.com/jobs`,
		query.Named(`company`, query.NewArgument(`rbc`, query.Typed(typ.String), query.Requires(`jcid`))))
	ok(t, q.Set(`company`, `Initech`))

	err := q.Check()
	re, isReq := err.(*query.RequirementError)
	require.True(t, isReq)
	require.Equal(t, []string{`rbc`}, re.Keys)
	require.Equal(t, []string{`jcid`}, re.Missing[`rbc`])
	require.Equal(t,
		"the following query arguments are missing required supporting arguments:\n    rbc is missing requirement: jcid",
		re.Error())
}

func TestCheck_requirementsSatisfiedByKey(t *testing.T) {
	// Requirements are checked against registered wire keys, not values
	q := query.New(`https://example.com/jobs`,
		query.Named(`company`, query.NewArgument(`rbc`, query.Typed(typ.String), query.Requires(`jcid`))),
		query.Named(`company_id`, query.NewArgument(`jcid`, query.Typed(typ.String), query.Requires(`rbc`))),
	)
	ok(t, q.Set(`company`, `Initech`))
	ok(t, q.Check())
}

func TestCheck_valuesBeforeRequirements(t *testing.T) {
	// A query holding an invalid value is never requirement checked in the same call
	q := query.New(`https://example.com/jobs`,
		query.Named(`where`, query.NewArgument(`l`, query.Typed(typ.String), query.Required())),
		query.Named(`company`, query.NewArgument(`rbc`, query.Typed(typ.String), query.Requires(`jcid`))),
	)
	ok(t, q.Set(`company`, `Initech`))

	err := q.Check()
	_, isValue := err.(*query.ValueError)
	require.True(t, isValue)
}

func TestCheck_multipleMissingRequirements(t *testing.T) {
	q := query.New(`https://example.com/jobs`,
		query.Named(`scoped`, query.NewArgument(`sc`, query.Typed(typ.String), query.Requires(`a`, `b`, `c`))))
	ok(t, q.Set(`scoped`, `all`))

	err := q.Check()
	re, isReq := err.(*query.RequirementError)
	require.True(t, isReq)
	require.Equal(t, []string{`a`, `b`, `c`}, re.Missing[`sc`])
	require.True(t, strings.Contains(re.Error(), `sc is missing requirements: a, b and c`))
}

func TestValue_unknownArgument(t *testing.T) {
	q := mergeQuery()
	_, err := q.Value(`nope`)
	_, isUnknown := err.(query.UnknownArgument)
	require.True(t, isUnknown)
	require.Equal(t, `no argument named "nope" is defined on the query`, err.Error())
	require.True(t, q.Set(`nope`, 1) != nil)
}

func TestSetAll(t *testing.T) {
	q := mergeQuery()
	ok(t, q.SetAll(vf.Map(`what`, `engineer`, `where`, `Austin`)))
	v, err := q.Value(`where`)
	ok(t, err)
	require.Equal(t, `Austin`, v)
}

func TestSetAll_unknownName(t *testing.T) {
	q := mergeQuery()
	require.True(t, q.SetAll(vf.Map(`nope`, 1)) != nil)
}

func TestNew_copiesCatalogArguments(t *testing.T) {
	what := query.NewArgument(`q`, query.Typed(typ.String))
	catalog := []query.NamedArgument{query.Named(`what`, what)}

	q1 := query.New(`https://example.com/jobs`, catalog...)
	q2 := query.New(`https://example.com/jobs`, catalog...)
	ok(t, q1.Set(`what`, `engineer`))

	v, err := q2.Value(`what`)
	ok(t, err)
	require.True(t, v == nil)
	require.True(t, what.Value() == nil)
}

func TestDelete(t *testing.T) {
	q := mergeQuery()
	ok(t, q.Delete(`min_salary`))
	require.Equal(t, []string{`what`, `where`}, q.Names())
	_, isUnknown := q.Delete(`min_salary`).(query.UnknownArgument)
	require.True(t, isUnknown)
}

func TestParams_roundTrip(t *testing.T) {
	q := mergeQuery()
	ok(t, q.Set(`what`, `engineer`))
	ok(t, q.Set(`min_salary`, 50000))
	ok(t, q.Set(`where`, `Austin`))

	params, err := q.Params()
	ok(t, err)
	decoded, err := url.ParseQuery(params)
	ok(t, err)
	require.Equal(t, `engineer+$50000`, decoded.Get(`q`))
	require.Equal(t, `Austin`, decoded.Get(`l`))
	require.Equal(t, 2, len(decoded))
}

func TestString(t *testing.T) {
	q := query.New(`https://example.com/jobs`,
		query.Named(`where`, query.NewArgument(`l`, query.Typed(typ.String), query.Required())))
	require.Equal(t, `Unset query object.`, q.String())

	ok(t, q.Set(`where`, `Austin`))
	require.Equal(t, `Query for: https://example.com/jobs?l=Austin`, q.String())
}
