package api

import "encoding/json"

// Page is the normalized shape of every paginated collection response.
// All four pagination fields are always populated, whatever shape the
// backend actually returned.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// EmptyPage returns the normalized empty result for a collection,
// used when the backend answers 404 on a collection fetch.
func EmptyPage[T any](page, limit int) Page[T] {
	if page < 1 {
		page = 1
	}
	return Page[T]{
		Items:      []T{},
		Total:      0,
		Page:       page,
		Limit:      limit,
		TotalPages: 0,
	}
}

// pageEnvelope covers the response shapes the backend is known to
// produce for collections.
type pageEnvelope[T any] struct {
	Items []T `json:"items"`
	Data  []T `json:"data"`

	Total      *int `json:"total"`
	Page       *int `json:"page"`
	Limit      *int `json:"limit"`
	TotalPages *int `json:"totalPages"`

	Pagination *struct {
		Total      *int `json:"total"`
		Page       *int `json:"page"`
		Limit      *int `json:"limit"`
		TotalPages *int `json:"totalPages"`
	} `json:"pagination"`
}

// decodePage reshapes a raw collection response body into a Page.
// Handles three shapes: a flat {items,total,page,limit,totalPages}
// object, a {data,pagination:{...}} envelope, and a bare JSON array.
// reqPage and reqLimit fill in pagination fields the body omits.
func decodePage[T any](body []byte, reqPage, reqLimit int) (Page[T], error) {
	if reqPage < 1 {
		reqPage = 1
	}

	// Bare array: the backend returned the items with no envelope.
	var bare []T
	if err := json.Unmarshal(body, &bare); err == nil {
		return normalizePage(bare, len(bare), reqPage, reqLimit, nil), nil
	}

	var env pageEnvelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return Page[T]{}, err
	}

	items := env.Items
	if items == nil {
		items = env.Data
	}
	if items == nil {
		items = []T{}
	}

	total := len(items)
	page := reqPage
	limit := reqLimit
	var totalPages *int

	pick := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	pick(&total, env.Total)
	pick(&page, env.Page)
	pick(&limit, env.Limit)
	totalPages = env.TotalPages

	if env.Pagination != nil {
		pick(&total, env.Pagination.Total)
		pick(&page, env.Pagination.Page)
		pick(&limit, env.Pagination.Limit)
		if env.Pagination.TotalPages != nil {
			totalPages = env.Pagination.TotalPages
		}
	}

	return normalizePage(items, total, page, limit, totalPages), nil
}

// normalizePage assembles a Page, deriving totalPages when the backend
// did not provide it.
func normalizePage[T any](items []T, total, page, limit int, totalPages *int) Page[T] {
	p := Page[T]{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}

	switch {
	case totalPages != nil:
		p.TotalPages = *totalPages
	case limit > 0:
		p.TotalPages = (total + limit - 1) / limit
	case total > 0:
		p.TotalPages = 1
	}

	return p
}
