package models

// Pagination is returned alongside every paged listing
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination computes total pages for the given page size
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// All returns every persisted model, in dependency order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Region{},
		&Province{},
		&City{},
		&Barangay{},
		&LoanApplication{},
		&Receipt{},
		&AuditLog{},
		&SystemSetting{},
	}
}
