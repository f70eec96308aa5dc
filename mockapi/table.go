package mockapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// listParams are the uniform query parameters every list endpoint accepts.
type listParams struct {
	orderBy   string
	orderType string
	offset    int
	pageSize  int
	filter    string
}

func parseListParams(c *gin.Context) listParams {
	p := listParams{
		orderBy:   c.Query("orderBy"),
		orderType: strings.ToUpper(c.DefaultQuery("orderType", "ASC")),
		filter:    c.Query("filter"),
	}
	p.offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	p.pageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if p.pageSize <= 0 {
		p.pageSize = 10
	}
	return p
}

// table is one in-memory resource collection.
type table[T any] struct {
	mu    sync.RWMutex
	items []T

	id      func(T) string
	setID   func(*T, string)
	name    func(T) string      // uniqueness key; nil disables the 409 check
	sortKey func(T, string) any // value for orderBy fields
	matches func(T, string) bool
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		return strings.Compare(strings.ToLower(av), strings.ToLower(b.(string)))
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case int:
		return av - b.(int)
	case time.Time:
		bv := b.(time.Time)
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		}
		return 0
	}
	return 0
}

// list applies filter, sort and paging and returns the page plus the
// filtered total.
func (t *table[T]) list(p listParams) ([]T, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	filtered := make([]T, 0, len(t.items))
	for _, item := range t.items {
		if p.filter == "" || t.matches == nil || t.matches(item, strings.ToLower(p.filter)) {
			filtered = append(filtered, item)
		}
	}

	if p.orderBy != "" && t.sortKey != nil {
		sort.SliceStable(filtered, func(i, j int) bool {
			cmp := compareValues(t.sortKey(filtered[i], p.orderBy), t.sortKey(filtered[j], p.orderBy))
			if p.orderType == "DESC" {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	total := len(filtered)
	if p.offset >= total {
		return []T{}, total
	}
	end := p.offset + p.pageSize
	if end > total {
		end = total
	}
	return filtered[p.offset:end], total
}

func (t *table[T]) get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, item := range t.items {
		if t.id(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// create inserts the item, assigning a fresh id. It reports false when the
// uniqueness key already exists.
func (t *table[T]) create(item T) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.name != nil {
		for _, existing := range t.items {
			if strings.EqualFold(t.name(existing), t.name(item)) {
				var zero T
				return zero, false
			}
		}
	}
	t.setID(&item, uuid.New().String())
	t.items = append(t.items, item)
	return item, true
}

// patch merges the raw JSON body onto the stored item.
func (t *table[T]) patch(id string, raw []byte) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, item := range t.items {
		if t.id(item) != id {
			continue
		}
		merged, err := mergeJSON(item, raw)
		if err != nil {
			var zero T
			return zero, false
		}
		t.setID(&merged, id)
		t.items[i] = merged
		return merged, true
	}
	var zero T
	return zero, false
}

func (t *table[T]) delete(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, item := range t.items {
		if t.id(item) == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return true
		}
	}
	return false
}

// mergeJSON overlays the fields present in raw onto item.
func mergeJSON[T any](item T, raw []byte) (T, error) {
	var merged T
	base, err := json.Marshal(item)
	if err != nil {
		return merged, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(base, &m); err != nil {
		return merged, err
	}
	var overlay map[string]json.RawMessage
	if err := json.Unmarshal(raw, &overlay); err != nil {
		return merged, err
	}
	for k, v := range overlay {
		m[k] = v
	}
	combined, err := json.Marshal(m)
	if err != nil {
		return merged, err
	}
	err = json.Unmarshal(combined, &merged)
	return merged, err
}

func listEnvelope(c *gin.Context, results any, total int) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"results": results, "total": total},
	})
}

// registerResource mounts list/get/create/patch/delete routes for a table.
func registerResource[T any](g *gin.RouterGroup, path string, t *table[T]) {
	registerReadOnly(g, path, t)
	g.GET("/"+path+"/:id", func(c *gin.Context) {
		item, ok := t.get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, item)
	})
	g.POST("/"+path, func(c *gin.Context) {
		var item T
		if err := c.ShouldBindJSON(&item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}
		created, ok := t.create(item)
		if !ok {
			c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
			return
		}
		c.JSON(http.StatusCreated, created)
	})
	g.PATCH("/"+path+"/:id", func(c *gin.Context) {
		raw, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
			return
		}
		updated, ok := t.patch(c.Param("id"), raw)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, updated)
	})
	g.DELETE("/"+path+"/:id", func(c *gin.Context) {
		if !t.delete(c.Param("id")) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	})
}

// registerReadOnly mounts only the list route.
func registerReadOnly[T any](g *gin.RouterGroup, path string, t *table[T]) {
	g.GET("/"+path, func(c *gin.Context) {
		results, total := t.list(parseListParams(c))
		listEnvelope(c, results, total)
	})
}
