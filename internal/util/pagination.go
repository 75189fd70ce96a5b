package util

import (
	"math"
	"strconv"
)

const (
	DefaultPageSize = 2
	MaxPageSize     = 6

	// MaxPage keeps page*MaxPageSize within int.
	MaxPage = math.MaxInt / MaxPageSize
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// ClampPage bounds a requested page number to [1, MaxPage].
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	if page > MaxPage {
		return MaxPage
	}
	return page
}

// Calculate turns a 1-based page number and a requested size into an
// offset/limit pair. Sizes above MaxPageSize are clamped, not rejected.
func Calculate(page, size int) (offset, limit int) {
	page = ClampPage(page)
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	offset = (page - 1) * size
	return offset, size
}

func TotalPages(total int64, size int) int64 {
	if size < 1 {
		return 0
	}
	return (total + int64(size) - 1) / int64(size)
}
