package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Sort directions as the backend spells them.
const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// ListQuery is the uniform query every list endpoint accepts.
type ListQuery struct {
	OrderBy   string
	OrderType string // ASC | DESC
	Page      int    // 1-based; sent as offset = (page-1)*pageSize
	PageSize  int
	Filter    string // free-text, passed through verbatim
}

// Values encodes the query as URL parameters.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.OrderBy != "" {
		v.Set("orderBy", q.OrderBy)
		v.Set("orderType", q.OrderType)
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set("offset", strconv.Itoa((page-1)*q.PageSize))
	v.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.Filter != "" {
		v.Set("filter", q.Filter)
	}
	return v
}

// ListResult is the normalized form of the backend's list envelope.
type ListResult[T any] struct {
	Results []T
	Total   int
}

type listEnvelope[T any] struct {
	Status string `json:"status"`
	Data   struct {
		Results []T `json:"results"`
		Total   int `json:"total"`
	} `json:"data"`
}

// List fetches one page of a resource collection.
func List[T any](ctx context.Context, cl *Client, path string, q ListQuery) (*ListResult[T], error) {
	var env listEnvelope[T]
	if err := cl.Do(ctx, http.MethodGet, path, q.Values(), nil, &env); err != nil {
		return nil, err
	}
	return &ListResult[T]{Results: env.Data.Results, Total: env.Data.Total}, nil
}

// Get fetches a single resource by id.
func Get[T any](ctx context.Context, cl *Client, path, id string) (*T, error) {
	var out T
	if err := cl.Do(ctx, http.MethodGet, path+"/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create POSTs a new resource.
func Create(ctx context.Context, cl *Client, path string, body any) error {
	return cl.Do(ctx, http.MethodPost, path, nil, body, nil)
}

// Update PATCHes a resource by id.
func Update(ctx context.Context, cl *Client, path, id string, body any) error {
	return cl.Do(ctx, http.MethodPatch, path+"/"+id, nil, body, nil)
}

// Delete removes a resource by id.
func Delete(ctx context.Context, cl *Client, path, id string) error {
	return cl.Do(ctx, http.MethodDelete, path+"/"+id, nil, nil, nil)
}
