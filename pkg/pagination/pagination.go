package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any page query can request.
	MaxLimit = 100
)

// Params holds page/limit pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage treats anything below one as the first page.
func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// Normalize returns a copy with both fields clamped.
func Normalize(p Params) Params {
	return Params{
		Page:  NormalizePage(p.Page),
		Limit: NormalizeLimit(p.Limit),
	}
}

// Offset computes the row offset for the normalized params.
func (p Params) Offset() int {
	return (NormalizePage(p.Page) - 1) * NormalizeLimit(p.Limit)
}

// Meta describes the page returned alongside a collection response.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewMeta derives response metadata from the normalized params and row count.
func NewMeta(p Params, total int64) Meta {
	p = Normalize(p)
	pages := int(total) / p.Limit
	if int(total)%p.Limit != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
	}
}
