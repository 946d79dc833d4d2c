// Package indeed contains the built in query catalogs for the Indeed job listing
// site: a simple search and the advanced search behind its advanced search form.
package indeed

import (
	"github.com/lyraproj/dgo/typ"

	"github.com/joe-habel/JobSearch/catalog"
	"github.com/joe-habel/JobSearch/query"
)

// BaseURL is the URL that all Indeed job searches are issued against.
const BaseURL = `https://indeed.com/jobs`

// SimpleName and AdvancedName are the names the catalogs register under.
const (
	SimpleName   = `simple`
	AdvancedName = `advanced`
)

func what() query.NamedArgument {
	return query.Named(`what`, query.NewArgument(`q`, query.Typed(typ.String), query.DispName(`What`)))
}

func where() query.NamedArgument {
	return query.Named(`where`, query.NewArgument(`l`, query.Typed(typ.String), query.Required(), query.DispName(`Where`)))
}

func radius() query.NamedArgument {
	return query.Named(`radius`, query.NewArgument(`radius`, query.Typed(typ.Integer),
		query.Choices(0, 5, 10, 15, 25, 50, 100), query.DispName(`Miles away`)))
}

func minSalary() query.NamedArgument {
	return query.Named(`min_salary`, query.NewArgument(`q`, query.Typed(typ.Integer),
		query.Fmt(`${}`), query.DispName(`Minimum Salary`)))
}

func jobType() query.NamedArgument {
	return query.Named(`job_type`, query.NewArgument(`jt`, query.Typed(typ.String),
		query.Choices(`fulltime`, `parttime`, `contract`, `internship`, `temporary`, `commission`),
		query.DispName(`Job Type`)))
}

func experience() query.NamedArgument {
	return query.Named(`experience`, query.NewArgument(`explvl`, query.Typed(typ.String),
		query.Choices(`entry_level`, `mid_level`, `senior_level`), query.DispName(`Experience Level`)))
}

func start() query.NamedArgument {
	return query.Named(`start`, query.NewArgument(`start`, query.Typed(typ.Integer), query.DispName(`start`)))
}

func simpleArguments() []query.NamedArgument {
	return []query.NamedArgument{
		what(),
		where(),
		radius(),
		minSalary(),
		query.Named(`company`, query.NewArgument(`rbc`, query.Typed(typ.String),
			query.Requires(`jcid`), query.DispName(`Company Name`))),
		query.Named(`company_id`, query.NewArgument(`jcid`, query.Typed(typ.String),
			query.Requires(`rbc`), query.DispName(`Company id`))),
		jobType(),
		experience(),
		start(),
	}
}

func advancedArguments() []query.NamedArgument {
	return []query.NamedArgument{
		where(),
		radius(),
		minSalary(),
		jobType(),
		experience(),
		start(),

		// Search strings
		query.Named(`all_words`, query.NewArgument(`as_and`, query.Typed(typ.String), query.DispName(`All of these words`))),
		query.Named(`exact_phrase`, query.NewArgument(`as_phr`, query.Typed(typ.String), query.DispName(`Exact phrase`))),
		query.Named(`any_words`, query.NewArgument(`as_any`, query.Typed(typ.String), query.DispName(`Any of these words`))),
		query.Named(`none_words`, query.NewArgument(`as_not`, query.Typed(typ.String), query.DispName(`None of these words`))),
		query.Named(`title_words`, query.NewArgument(`as_ttl`, query.Typed(typ.String), query.DispName(`These words in title`))),
		query.Named(`from_company`, query.NewArgument(`as_cmp`, query.Typed(typ.String), query.DispName(`From this company`))),
		query.Named(`from_job_site`, query.NewArgument(`as_src`, query.Typed(typ.String), query.DispName(`From this job site`))),

		// Ad origin
		query.Named(`posted_to`, query.NewArgument(`st`, query.Typed(typ.String),
			query.Choices(`jobsite`, `employer`), query.DispName(`Posted to`))),
		query.Named(`hired_by`, query.NewArgument(`sr`, query.Typed(typ.String),
			query.Choices(`directhire`), query.DispName(`Who handles hiring`))),

		// Sort and paging
		query.Named(`sort_by`, query.NewArgument(`sort`, query.Typed(typ.String),
			query.Choices(`date`), query.DispName(`Sort by`))),
		query.Named(`limit`, query.NewArgument(`limit`, query.Typed(typ.Integer),
			query.Choices(10, 20, 30, 50), query.DispName(`Per Page`))),

		// Age
		query.Named(`age`, query.NewArgument(`fromage`,
			query.Choices(`last`, 1, 3, 7, 15, `any`), query.DispName(`Max days old`))),

		// The advanced search form always sends these two
		query.Named(`psf`, query.NewArgument(`psf`, query.Typed(typ.String),
			query.Required(), query.Default(`advsrch`), query.Immutable(), query.Requires(`from`))),
		query.Named(`searched_from`, query.NewArgument(`from`, query.Typed(typ.String),
			query.Required(), query.Default(`advancedsearch`), query.Immutable(), query.Requires(`psf`))),
	}
}

// NewSimple builds a fresh simple search query.
func NewSimple() *query.Query {
	return query.New(BaseURL, simpleArguments()...)
}

// NewAdvanced builds a fresh advanced search query. The psf and from arguments come
// preset, immutable, and mutually required.
func NewAdvanced() *query.Query {
	return query.New(BaseURL, advancedArguments()...)
}

// Register installs both Indeed catalogs into the given registry.
func Register(reg *catalog.Registry) {
	reg.Add(catalog.NewDefinition(SimpleName, BaseURL, simpleArguments()))
	reg.Add(catalog.NewDefinition(AdvancedName, BaseURL, advancedArguments()))
}
