package dto

import "github.com/o-vuong/doggo-hotel/response"

// PaginatedResponse là struct chung cho các response có phân trang
type PaginatedResponse[T any] struct {
	Data       T                   `json:"data"`
	Pagination response.Pagination `json:"pagination"`
}

// PageQuery là tham số phân trang chung, page bắt đầu từ 0
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=0"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

// Bounds trả về [from, to) của trang trong danh sách n phần tử
func (q PageQuery) Bounds(n int) (from, to int) {
	limit := q.Limit
	if limit == 0 {
		limit = 20
	}
	from = q.Page * limit
	if from > n {
		from = n
	}
	to = from + limit
	if to > n {
		to = n
	}
	return from, to
}

// PageSize trả về limit sau khi áp mặc định
func (q PageQuery) PageSize() int {
	if q.Limit == 0 {
		return 20
	}
	return q.Limit
}
