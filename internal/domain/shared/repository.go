package shared

// ItemsPerPage is the fixed page size of every dashboard table
const ItemsPerPage = 6

// MaxPage bounds page numbers so offsets stay far from integer overflow
const MaxPage = 1_000_000

// ListQuery is the search box text plus the current page
type ListQuery struct {
	Query string
	Page  int
}

// NewListQuery normalises the page number into [1, MaxPage]
func NewListQuery(query string, page int) ListQuery {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	return ListQuery{Query: query, Page: page}
}

// Offset returns the row offset for the page
func (q ListQuery) Offset() int {
	page := q.Page
	if page < 1 {
		return 0
	}
	if page > MaxPage {
		page = MaxPage
	}
	return (page - 1) * ItemsPerPage
}

// Pattern returns the ILIKE pattern for the search text
func (q ListQuery) Pattern() string {
	return "%" + q.Query + "%"
}

// TotalPages returns ceil(count / ItemsPerPage)
func TotalPages(count int64) int {
	pages := int(count) / ItemsPerPage
	if int(count)%ItemsPerPage > 0 {
		pages++
	}
	return pages
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page int) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   ItemsPerPage,
		TotalPages: TotalPages(total),
	}
}
