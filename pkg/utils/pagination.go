package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

// GetPaginationParams extracts pagination parameters from request
func GetPaginationParams(c echo.Context) PaginationParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("limit"))

	if page <= 0 {
		page = 1
	}

	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

// QueryLimit reads an optional "limit" query parameter. Missing or invalid
// values yield 0, which callers treat as "no limit"; values above max are clamped.
func QueryLimit(c echo.Context, max int) int {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		return 0
	}
	if max > 0 && limit > max {
		return max
	}
	return limit
}

// Page slices items according to params and reports the total before slicing.
func Page[T any](items []T, params PaginationParams) ([]T, int64) {
	total := int64(len(items))
	if params.Offset >= len(items) {
		return []T{}, total
	}
	end := params.Offset + params.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[params.Offset:end], total
}
