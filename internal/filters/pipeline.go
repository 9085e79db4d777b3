package filters

import (
	"sort"
	"strings"

	"buildmart-storefront/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const DefaultPageSize = 12

// Result is one page of a filtered listing.
type Result struct {
	Items      []models.Product `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

// Pipeline filters, sorts and paginates product lists for one locale.
// It holds no mutable state and may be shared between goroutines.
type Pipeline struct {
	tag      language.Tag
	pageSize int
}

// NewPipeline builds a pipeline for locale (a BCP 47 tag such as "ko").
// An unparseable locale falls back to Korean; a non-positive page size to
// DefaultPageSize.
func NewPipeline(locale string, pageSize int) *Pipeline {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Korean
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pipeline{tag: tag, pageSize: pageSize}
}

func (p *Pipeline) PageSize() int { return p.pageSize }

// Apply runs category, search, price, stock, sort and pagination in that
// order. products is not modified.
func (p *Pipeline) Apply(products []models.Product, spec Spec) Result {
	filtered := make([]models.Product, 0, len(products))
	lower := cases.Lower(p.tag)
	term := ""
	if spec.Search != "" {
		term = lower.String(spec.Search)
	}

	for i := range products {
		prod := &products[i]
		if spec.CategoryID != "" && prod.CategoryID != spec.CategoryID {
			continue
		}
		if term != "" && !matchesSearch(lower, prod, term) {
			continue
		}
		if spec.MinPrice != nil && prod.Price < *spec.MinPrice {
			continue
		}
		if spec.MaxPrice != nil && prod.Price > *spec.MaxPrice {
			continue
		}
		if spec.InStock && prod.Stock <= 0 {
			continue
		}
		filtered = append(filtered, *prod)
	}

	p.sort(filtered, spec.SortBy, spec.SortOrder)

	size := spec.PageSize
	if size <= 0 {
		size = p.pageSize
	}
	items, page, totalPages := Paginate(filtered, spec.Page, size)
	return Result{
		Items:      items,
		Total:      len(filtered),
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
	}
}

func matchesSearch(lower cases.Caser, prod *models.Product, term string) bool {
	if strings.Contains(lower.String(prod.Name), term) {
		return true
	}
	if strings.Contains(lower.String(prod.Description), term) {
		return true
	}
	return prod.Category != nil && strings.Contains(lower.String(prod.Category.Name), term)
}

// sort orders items in place. Every field compares ascending; Desc reverses.
// Equal elements keep their input order.
func (p *Pipeline) sort(items []models.Product, field SortField, order SortOrder) {
	if len(items) < 2 {
		return
	}
	if order == "" {
		order = DefaultOrder(field)
	}

	var cmp func(a, b *models.Product) int
	switch field {
	case SortByPrice:
		cmp = func(a, b *models.Product) int { return compareInt64(a.Price, b.Price) }
	case SortByName:
		// collate.Collator is not safe for concurrent use.
		col := collate.New(p.tag)
		cmp = func(a, b *models.Product) int { return col.CompareString(a.Name, b.Name) }
	case SortByRating:
		cmp = func(a, b *models.Product) int { return compareFloat(a.Rating(), b.Rating()) }
	default:
		cmp = func(a, b *models.Product) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		c := cmp(&items[i], &items[j])
		if order == Desc {
			return c > 0
		}
		return c < 0
	})
}

// Paginate slices items to the 1-based page. A page below 1 is treated as 1
// and a page past the end yields no items.
func Paginate[T any](items []T, page, pageSize int) ([]T, int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	totalPages := (len(items) + pageSize - 1) / pageSize

	// Checked before multiplying so a huge page cannot overflow start.
	if page > totalPages {
		return []T{}, page, totalPages
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], page, totalPages
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
