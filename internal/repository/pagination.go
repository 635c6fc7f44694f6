package repository

import "gorm.io/gorm"

// applyPagination 应用分页参数，page/pageSize 非法时不限制
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if page <= 0 || pageSize <= 0 {
		return query
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}
