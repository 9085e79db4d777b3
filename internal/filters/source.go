package filters

import (
	"net/url"
	"strconv"
)

// Loader produces the fields a source knows about.
type Loader interface {
	Load() Partial
}

// ConfigSource is a Loader that can also persist the effective spec.
type ConfigSource interface {
	Loader
	Save(spec Spec) error
}

// Resolve builds the effective spec. Each field comes from the first loader
// that sets it, otherwise from defaults.
func Resolve(defaults Spec, loaders ...Loader) Spec {
	var merged Partial
	for _, l := range loaders {
		if l == nil {
			continue
		}
		merged = merged.Merge(l.Load())
	}
	return merged.ApplyTo(defaults)
}

// QuerySource reads a spec from URL query parameters. It is read-only.
type QuerySource struct {
	values url.Values
}

func NewQuerySource(values url.Values) QuerySource {
	return QuerySource{values: values}
}

// Load ignores empty values, unparseable numbers and unknown sort keys so
// those fields fall through to the next source. inStock is only set by the
// literal "true". A query that filters or sorts without naming a page
// starts at page 1 instead of the saved one.
func (q QuerySource) Load() Partial {
	var p Partial
	if v := q.values.Get("categoryId"); v != "" {
		p.CategoryID = stringPtr(v)
	}
	if v := q.values.Get("search"); v != "" {
		p.Search = stringPtr(v)
	}
	if n, ok := q.int64("minPrice"); ok {
		p.MinPrice = &n
	}
	if n, ok := q.int64("maxPrice"); ok {
		p.MaxPrice = &n
	}
	if q.values.Get("inStock") == "true" {
		v := true
		p.InStock = &v
	}
	if f, ok := ParseSortField(q.values.Get("sortBy")); ok {
		p.SortBy = &f
	}
	if o, ok := ParseSortOrder(q.values.Get("sortOrder")); ok {
		p.SortOrder = &o
	}
	if n, err := strconv.Atoi(q.values.Get("page")); err == nil {
		p.Page = &n
	}
	p = p.sanitize()
	if p.Page == nil && p.shapesListing() {
		first := 1
		p.Page = &first
	}
	return p
}

func (q QuerySource) int64(key string) (int64, bool) {
	v := q.values.Get(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MemorySource keeps the last saved spec in process. Useful for callers
// without an HTTP round trip, and in tests.
type MemorySource struct {
	partial Partial
}

func NewMemorySource(initial Partial) *MemorySource {
	return &MemorySource{partial: initial}
}

func (m *MemorySource) Load() Partial { return m.partial }

func (m *MemorySource) Save(spec Spec) error {
	m.partial = FromSpec(spec)
	return nil
}
