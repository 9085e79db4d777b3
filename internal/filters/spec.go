// Package filters implements the product listing pipeline: category, search,
// price and stock filters, locale-aware sorting and pagination, plus the
// sources a listing spec is assembled from (query string, cookie, defaults).
package filters

type SortField string

const (
	SortByPrice     SortField = "price"
	SortByName      SortField = "name"
	SortByRating    SortField = "rating"
	SortByCreatedAt SortField = "createdAt"
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

func ParseSortField(s string) (SortField, bool) {
	switch f := SortField(s); f {
	case SortByPrice, SortByName, SortByRating, SortByCreatedAt:
		return f, true
	}
	return "", false
}

func ParseSortOrder(s string) (SortOrder, bool) {
	switch o := SortOrder(s); o {
	case Asc, Desc:
		return o, true
	}
	return "", false
}

// DefaultOrder is the direction used when a sort field is chosen without one:
// cheapest and alphabetical first, best rated and newest first.
func DefaultOrder(field SortField) SortOrder {
	switch field {
	case SortByPrice, SortByName:
		return Asc
	}
	return Desc
}

// Spec is a complete listing request. Page is 1-based.
type Spec struct {
	CategoryID string    `json:"categoryId,omitempty"`
	Search     string    `json:"search,omitempty"`
	MinPrice   *int64    `json:"minPrice,omitempty"`
	MaxPrice   *int64    `json:"maxPrice,omitempty"`
	InStock    bool      `json:"inStock,omitempty"`
	SortBy     SortField `json:"sortBy"`
	SortOrder  SortOrder `json:"sortOrder"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
}

// Defaults is the spec used when no source sets a field.
func Defaults(pageSize int) Spec {
	return Spec{
		SortBy:    SortByCreatedAt,
		SortOrder: Desc,
		Page:      1,
		PageSize:  pageSize,
	}
}

// Partial is a spec where every field may be unset. Sources produce
// partials; Resolve layers them over the defaults. PageSize is never part of
// a partial, it is fixed by configuration.
type Partial struct {
	CategoryID *string    `json:"categoryId,omitempty"`
	Search     *string    `json:"search,omitempty"`
	MinPrice   *int64     `json:"minPrice,omitempty"`
	MaxPrice   *int64     `json:"maxPrice,omitempty"`
	InStock    *bool      `json:"inStock,omitempty"`
	SortBy     *SortField `json:"sortBy,omitempty"`
	SortOrder  *SortOrder `json:"sortOrder,omitempty"`
	Page       *int       `json:"page,omitempty"`
}

// FromSpec turns a spec into the partial that reproduces it. Empty strings,
// a false InStock and absent bounds stay unset.
func FromSpec(s Spec) Partial {
	var p Partial
	if s.CategoryID != "" {
		p.CategoryID = stringPtr(s.CategoryID)
	}
	if s.Search != "" {
		p.Search = stringPtr(s.Search)
	}
	if s.MinPrice != nil {
		v := *s.MinPrice
		p.MinPrice = &v
	}
	if s.MaxPrice != nil {
		v := *s.MaxPrice
		p.MaxPrice = &v
	}
	if s.InStock {
		v := true
		p.InStock = &v
	}
	if s.SortBy != "" {
		v := s.SortBy
		p.SortBy = &v
	}
	if s.SortOrder != "" {
		v := s.SortOrder
		p.SortOrder = &v
	}
	if s.Page > 0 {
		v := s.Page
		p.Page = &v
	}
	return p
}

// Merge returns p with every unset field taken from fallback.
func (p Partial) Merge(fallback Partial) Partial {
	if p.CategoryID == nil {
		p.CategoryID = fallback.CategoryID
	}
	if p.Search == nil {
		p.Search = fallback.Search
	}
	if p.MinPrice == nil {
		p.MinPrice = fallback.MinPrice
	}
	if p.MaxPrice == nil {
		p.MaxPrice = fallback.MaxPrice
	}
	if p.InStock == nil {
		p.InStock = fallback.InStock
	}
	if p.SortBy == nil {
		p.SortBy = fallback.SortBy
	}
	if p.SortOrder == nil {
		p.SortOrder = fallback.SortOrder
	}
	if p.Page == nil {
		p.Page = fallback.Page
	}
	return p
}

// ApplyTo overlays the set fields on base. When a sort field is set without
// a direction the field's DefaultOrder is used.
func (p Partial) ApplyTo(base Spec) Spec {
	s := base
	if p.CategoryID != nil {
		s.CategoryID = *p.CategoryID
	}
	if p.Search != nil {
		s.Search = *p.Search
	}
	if p.MinPrice != nil {
		v := *p.MinPrice
		s.MinPrice = &v
	}
	if p.MaxPrice != nil {
		v := *p.MaxPrice
		s.MaxPrice = &v
	}
	if p.InStock != nil {
		s.InStock = *p.InStock
	}
	if p.SortBy != nil {
		s.SortBy = *p.SortBy
		if p.SortOrder == nil {
			s.SortOrder = DefaultOrder(s.SortBy)
		}
	}
	if p.SortOrder != nil {
		s.SortOrder = *p.SortOrder
	}
	if p.Page != nil {
		s.Page = *p.Page
	}
	return s
}

// sanitize drops values no source may set: empty strings, unknown sort keys
// and pages below 1.
func (p Partial) sanitize() Partial {
	if p.CategoryID != nil && *p.CategoryID == "" {
		p.CategoryID = nil
	}
	if p.Search != nil && *p.Search == "" {
		p.Search = nil
	}
	if p.SortBy != nil {
		if _, ok := ParseSortField(string(*p.SortBy)); !ok {
			p.SortBy = nil
		}
	}
	if p.SortOrder != nil {
		if _, ok := ParseSortOrder(string(*p.SortOrder)); !ok {
			p.SortOrder = nil
		}
	}
	if p.Page != nil && *p.Page < 1 {
		p.Page = nil
	}
	return p
}

// shapesListing reports whether any filter or sort field is set.
func (p Partial) shapesListing() bool {
	return p.CategoryID != nil || p.Search != nil ||
		p.MinPrice != nil || p.MaxPrice != nil || p.InStock != nil ||
		p.SortBy != nil || p.SortOrder != nil
}

func stringPtr(s string) *string { return &s }
