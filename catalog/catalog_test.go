package catalog_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	require "github.com/lyraproj/dgo/dgo_test"

	"github.com/joe-habel/JobSearch/catalog"
	"github.com/joe-habel/JobSearch/query"
)

func TestRead(t *testing.T) {
	d, err := catalog.Read(filepath.Join(`testdata`, `catalogs`, `indeed.yaml`))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, `indeed`, d.Name())
	require.Equal(t, `https://indeed.com/jobs`, d.BaseURL())

	q := d.New()
	if err := q.Set(`where`, `Austin`); err != nil {
		t.Fatal(err)
	}
	if err := q.Set(`what`, `engineer`); err != nil {
		t.Fatal(err)
	}
	if err := q.Set(`min_salary`, 50000); err != nil {
		t.Fatal(err)
	}
	params, err := q.Params()
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, `q=engineer%2B%2450000&l=Austin`, params)
}

func TestRead_eagerChoiceCheck(t *testing.T) {
	d, err := catalog.Read(filepath.Join(`testdata`, `catalogs`, `indeed.yaml`))
	if err != nil {
		t.Fatal(err)
	}
	q := d.New()
	setErr := q.Set(`radius`, 7)
	_, isChoice := setErr.(*query.InvalidChoiceError)
	require.True(t, isChoice)
}

func TestRead_presets(t *testing.T) {
	d, err := catalog.Read(filepath.Join(`testdata`, `catalogs`, `advanced.yaml`))
	if err != nil {
		t.Fatal(err)
	}
	q := d.New()
	setErr := q.Set(`psf`, `advsrch`)
	_, isImmutable := setErr.(*query.ImmutableError)
	require.True(t, isImmutable)

	if err := q.Set(`where`, `Austin`); err != nil {
		t.Fatal(err)
	}
	u, err := q.URL()
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, `https://indeed.com/jobs?l=Austin&psf=advsrch&from=advancedsearch`, u)
}

func TestRead_mixedChoices(t *testing.T) {
	d, err := catalog.Read(filepath.Join(`testdata`, `catalogs`, `advanced.yaml`))
	if err != nil {
		t.Fatal(err)
	}
	q := d.New()
	if err := q.Set(`age`, 7); err != nil {
		t.Fatal(err)
	}
	if err := q.Set(`age`, `last`); err != nil {
		t.Fatal(err)
	}
	require.True(t, q.Set(`age`, 2) != nil)
}

func TestRead_scalarChoice(t *testing.T) {
	d, err := catalog.Read(filepath.Join(`testdata`, `catalogs`, `advanced.yaml`))
	if err != nil {
		t.Fatal(err)
	}
	q := d.New()
	require.True(t, q.Set(`hired_by`, `agency`) != nil)
	if err := q.Set(`hired_by`, `directhire`); err != nil {
		t.Fatal(err)
	}
}

func TestRead_unknownType(t *testing.T) {
	_, err := catalog.Read(filepath.Join(`testdata`, `bad`, `wrongtype.yaml`))
	require.True(t, err != nil)
	require.True(t, strings.Contains(err.Error(), `unknown type "decimal"`))
}

func TestLoadDir(t *testing.T) {
	reg := catalog.NewRegistry()
	if err := reg.LoadDir(filepath.Join(`testdata`, `catalogs`)); err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []string{`advanced`, `indeed`}, reg.Names())
	require.True(t, reg.Get(`indeed`) != nil)
	require.True(t, reg.Get(`monster`) == nil)
}

func TestWatch(t *testing.T) {
	dir, err := ioutil.TempDir(``, `catalogs`)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()

	path := filepath.Join(dir, `indeed.yaml`)
	src, err := ioutil.ReadFile(filepath.Join(`testdata`, `catalogs`, `indeed.yaml`))
	if err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(path, src, 0640); err != nil {
		t.Fatal(err)
	}

	reg := catalog.NewRegistry()
	if err := reg.LoadDir(dir); err != nil {
		t.Fatal(err)
	}
	reloaded := make(chan string, 1)
	watcher := reg.Watch(func(name string) { reloaded <- name })
	defer func() {
		_ = watcher.Close()
	}()

	modified := strings.Replace(string(src), `https://indeed.com/jobs`, `https://indeed.com/m/jobs`, 1)
	if err := ioutil.WriteFile(path, []byte(modified), 0640); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-reloaded:
		require.Equal(t, `indeed`, name)
		require.Equal(t, `https://indeed.com/m/jobs`, reg.Get(`indeed`).BaseURL())
	case <-time.After(5 * time.Second):
		t.Fatal(`timeout waiting for catalog reload`)
	}
}
