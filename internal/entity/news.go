package entity

import "time"

// Category is the derived topic of a news item.
type Category string

const (
	CategoryGeneral   Category = "GENERAL"
	CategoryPersonnel Category = "PERSONNEL"
	CategoryBusiness  Category = "BUSINESS"
	CategoryProduct   Category = "PRODUCT"
	CategoryIR        Category = "IR"
	CategoryEvent     Category = "EVENT"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryPersonnel, CategoryBusiness, CategoryProduct, CategoryIR, CategoryEvent:
		return true
	}
	return false
}

// CandidateItem is a search hit that has not been fetched or persisted yet.
type CandidateItem struct {
	Title      string `json:"title"`
	SourceURL  string `json:"source_url"`
	SourceName string `json:"source_name"`
}

// NewsItem mirrors the `news` PostgreSQL table schema.
// SourceURL is the natural key used for deduplication.
type NewsItem struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Summary     string    `json:"summary"`
	SourceURL   string    `json:"source_url"`
	SourceName  string    `json:"source_name"`
	PublishedAt time.Time `json:"published_at"`
	Category    Category  `json:"category"`
	IsPersonnel bool      `json:"is_personnel"`
}
