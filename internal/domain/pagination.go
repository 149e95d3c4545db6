package domain

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePage приводит limit и offset к допустимым значениям
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
