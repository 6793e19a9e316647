package model

// Pagination is the metadata block returned by every list endpoint.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

func NewPagination(page, limit, total, count int) Pagination {
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	skip := (page - 1) * limit
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    skip+count < total,
	}
}
