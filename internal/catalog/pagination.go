package catalog

import "github.com/mrlokans/lexicon/internal/entities"

const (
	DefaultPage     = 1
	DefaultLimit    = 10
	DefaultMaxLimit = 100
	DefaultFeatured = 6
)

// Page is one page of entries plus the metadata callers render pagination from.
type Page struct {
	Words      []entities.WordEntry `json:"words"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}

// pageRequest is a clamped (page, limit) pair.
type pageRequest struct {
	page  int
	limit int
}

// clampPage applies the pagination policy: page < 1 becomes 1, limit < 1
// becomes the default and limit above max is capped.
func clampPage(page, limit, maxLimit int) pageRequest {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return pageRequest{page: page, limit: limit}
}

func (p pageRequest) offset() int {
	return (p.page - 1) * p.limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func newPage(words []entities.WordEntry, total int64, req pageRequest) *Page {
	if words == nil {
		words = []entities.WordEntry{}
	}
	return &Page{
		Words:      words,
		Total:      total,
		Page:       req.page,
		Limit:      req.limit,
		TotalPages: totalPages(total, req.limit),
	}
}
