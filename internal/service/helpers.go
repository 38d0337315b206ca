package service

import (
	"math"

	"github.com/team-mid/arcms-api/internal/dto"
)

func paginationMeta(page, pageSize int, total int64) dto.PaginationMeta {
	meta := dto.PaginationMeta{
		Page:       maxInt(page, 1),
		PageSize:   pageSize,
		TotalItems: total,
	}
	if pageSize > 0 {
		meta.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	} else {
		meta.TotalPages = 1
	}

	return meta
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
