package listquery

import "github.com/kailas-cloud/recipeshare/internal/domain"

// Paginate returns data[offset:min(offset+limit, len(data))]. An offset at or
// past the end of non-empty data is domain.ErrOffsetOutOfBounds.
func Paginate[T any](data []T, offset, limit int) ([]T, error) {
	if data == nil {
		return nil, ErrDataRequired
	}
	if offset < 0 || limit < 0 {
		return nil, ErrNegativeBound
	}
	if len(data) == 0 {
		return data, nil
	}
	if offset >= len(data) {
		return nil, domain.ErrOffsetOutOfBounds
	}
	end := len(data)
	if limit < end-offset {
		end = offset + limit
	}
	return data[offset:end], nil
}
