package models

// Pagination describes the position of a page within a full result set.
// TotalPages is ceil(Total/Limit); requesting a page beyond it yields an
// empty item list with this metadata intact, never an error.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// ContributionPage is a single page of contributions plus its metadata.
type ContributionPage struct {
	Contributions []*Contribution `json:"contributions"`
	Pagination    Pagination      `json:"pagination"`
}

// NewPagination computes page metadata for the given totals.
func NewPagination(total int64, page, limit int) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
