package utils

// Page is a validated page/limit pair
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Paginated builds the list payload shared by every paginated endpoint
func Paginated(key string, items interface{}, total int64, p Page) map[string]interface{} {
	return map[string]interface{}{
		key: items,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  p.Page,
			"limit": p.Limit,
		},
	}
}
