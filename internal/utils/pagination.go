// Package utils provides small helpers for parsing request parameters.
// They are independent of domain or business logic.
package utils

import (
	"errors"
	"strconv"
	"strings"
)

// Paging bounds applied by ParsePage.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ErrInvalidID is returned by ParseID for non-integer or non-positive input.
var ErrInvalidID = errors.New("id must be a positive integer")

// AtoiDefault converts s with strconv.Atoi, returning def when s is empty
// or unparsable.
//
//	n := utils.AtoiDefault("42", 0) // 42
//	n = utils.AtoiDefault("x", 5)   // 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ParsePage reads optional page and page_size query values. paged is false
// when both are empty, meaning the caller should return the full list.
// page is at least 1; pageSize is clamped to [1, MaxPageSize].
func ParsePage(pageStr, sizeStr string) (page, pageSize int, paged bool) {
	pageStr, sizeStr = strings.TrimSpace(pageStr), strings.TrimSpace(sizeStr)
	if pageStr == "" && sizeStr == "" {
		return 0, 0, false
	}
	page = AtoiDefault(pageStr, 1)
	if page < 1 {
		page = 1
	}
	pageSize = AtoiDefault(sizeStr, DefaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize, true
}

// ParseID parses a path identifier as a positive int64.
func ParseID(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidID
	}
	return n, nil
}
