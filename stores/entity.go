// Package stores implements the client-side state layer: one store per
// backend resource, plus the rearrange, booking-wizard and statistics
// stores. Stores cache the last fetched page and re-fetch after every
// mutation; the backend owns all canonical state.
package stores

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"salonova/backend"
	"salonova/notify"
	"salonova/utils"
)

// FetchErrorMessage is the fixed message recorded when a list fetch fails
// for any reason other than an expired session.
const FetchErrorMessage = "Ocurrió un error al obtener los datos"

// State is the observable state of an entity store.
type State[T any] struct {
	Items       []T
	Total       int
	CurrentPage int
	PageSize    int
	IsLoading   bool
	Error       string
	OrderBy     string
	OrderType   string
	Filter      string
}

// Config describes one backend resource.
type Config struct {
	Resource       string // e.g. "/api/categories"
	Name           string // log/display name
	DefaultOrderBy string
	PageSize       int

	MsgConflict string // shown on 409 from Create
	MsgCreated  string
	MsgUpdated  string
	MsgDeleted  string
	MsgFailed   string // generic action failure

	// RefetchOnSet makes every setter re-fetch immediately instead of
	// waiting for the presentation layer to do it (audit store behavior).
	RefetchOnSet bool
}

// EntityStore is the generic CRUD/list store shared by every entity
// resource. All state is guarded by a mutex and published to subscribers
// after each change; concurrent fetches race last-writer-wins, exactly like
// overlapping requests from a browser tab.
type EntityStore[T any] struct {
	cfg      Config
	client   *backend.Client
	notifier notify.Notifier

	mu    sync.RWMutex
	state State[T]
	subs  []func(State[T])
}

// New builds a store for one resource.
func New[T any](client *backend.Client, notifier notify.Notifier, cfg Config) *EntityStore[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.MsgFailed == "" {
		cfg.MsgFailed = "Ocurrió un error, intente nuevamente"
	}
	return &EntityStore[T]{
		cfg:      cfg,
		client:   client,
		notifier: notifier,
		state: State[T]{
			CurrentPage: 1,
			PageSize:    cfg.PageSize,
			OrderBy:     cfg.DefaultOrderBy,
			OrderType:   backend.OrderAsc,
		},
	}
}

// State returns a snapshot of the current state.
func (s *EntityStore[T]) State() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers a callback invoked with a snapshot after every state
// change.
func (s *EntityStore[T]) Subscribe(fn func(State[T])) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *EntityStore[T]) publish() {
	s.mu.RLock()
	snapshot := s.state
	subs := make([]func(State[T]), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(snapshot)
	}
}

// Fetch loads one page of the resource. On a 403 the session has already
// been expired by the transport; the store keeps its previous items and
// records no error. On any other failure the fixed error message is
// recorded and the stale items stay visible.
func (s *EntityStore[T]) Fetch(ctx context.Context, page int) error {
	logger := utils.GetLogger()
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	s.state.IsLoading = true
	q := backend.ListQuery{
		OrderBy:   s.state.OrderBy,
		OrderType: s.state.OrderType,
		Page:      page,
		PageSize:  s.state.PageSize,
		Filter:    s.state.Filter,
	}
	s.mu.Unlock()
	s.publish()

	res, err := backend.List[T](ctx, s.client, s.cfg.Resource, q)

	s.mu.Lock()
	s.state.IsLoading = false
	switch {
	case errors.Is(err, backend.ErrSessionExpired):
		// Logout already triggered; keep items and error untouched.
		s.mu.Unlock()
	case err != nil:
		logger.Error("Fetch failed", zap.String("store", s.cfg.Name), zap.Error(err))
		s.state.Error = FetchErrorMessage
		s.mu.Unlock()
	default:
		s.state.Items = res.Results
		s.state.Total = res.Total
		s.state.CurrentPage = page
		s.state.Error = ""
		s.mu.Unlock()
	}
	s.publish()
	return err
}

// Refetch reloads the current page.
func (s *EntityStore[T]) Refetch(ctx context.Context) error {
	s.mu.RLock()
	page := s.state.CurrentPage
	s.mu.RUnlock()
	return s.Fetch(ctx, page)
}

// Create POSTs a new record. There is no optimistic insert: a successful
// create re-fetches the current page in full.
func (s *EntityStore[T]) Create(ctx context.Context, body any) error {
	err := backend.Create(ctx, s.client, s.cfg.Resource, body)
	switch {
	case errors.Is(err, backend.ErrSessionExpired):
		return err
	case errors.Is(err, backend.ErrConflict):
		s.notifier.Error(s.cfg.MsgConflict)
		return err
	case err != nil:
		utils.GetLogger().Error("Create failed", zap.String("store", s.cfg.Name), zap.Error(err))
		s.notifier.Error(s.cfg.MsgFailed)
		return err
	}
	if s.cfg.MsgCreated != "" {
		s.notifier.Success(s.cfg.MsgCreated)
	}
	return s.Refetch(ctx)
}

// Update PATCHes a record by id and re-fetches on success.
func (s *EntityStore[T]) Update(ctx context.Context, id string, body any) error {
	err := backend.Update(ctx, s.client, s.cfg.Resource, id, body)
	switch {
	case errors.Is(err, backend.ErrSessionExpired):
		return err
	case err != nil:
		utils.GetLogger().Error("Update failed", zap.String("store", s.cfg.Name), zap.String("id", id), zap.Error(err))
		s.notifier.Error(s.cfg.MsgFailed)
		return err
	}
	if s.cfg.MsgUpdated != "" {
		s.notifier.Success(s.cfg.MsgUpdated)
	}
	return s.Refetch(ctx)
}

// Delete removes a record by id and re-fetches on success.
func (s *EntityStore[T]) Delete(ctx context.Context, id string) error {
	err := backend.Delete(ctx, s.client, s.cfg.Resource, id)
	switch {
	case errors.Is(err, backend.ErrSessionExpired):
		return err
	case err != nil:
		utils.GetLogger().Error("Delete failed", zap.String("store", s.cfg.Name), zap.String("id", id), zap.Error(err))
		s.notifier.Error(s.cfg.MsgFailed)
		return err
	}
	if s.cfg.MsgDeleted != "" {
		s.notifier.Success(s.cfg.MsgDeleted)
	}
	return s.Refetch(ctx)
}

// SetOrderBy sets the sort field. Pure setter unless RefetchOnSet.
func (s *EntityStore[T]) SetOrderBy(ctx context.Context, field string) {
	s.mu.Lock()
	s.state.OrderBy = field
	s.mu.Unlock()
	s.publish()
	s.maybeRefetch(ctx)
}

// SetOrderType sets the sort direction (ASC or DESC).
func (s *EntityStore[T]) SetOrderType(ctx context.Context, orderType string) {
	s.mu.Lock()
	s.state.OrderType = orderType
	s.mu.Unlock()
	s.publish()
	s.maybeRefetch(ctx)
}

// SetFilter sets the free-text filter passed through to the backend.
func (s *EntityStore[T]) SetFilter(ctx context.Context, filter string) {
	s.mu.Lock()
	s.state.Filter = filter
	s.mu.Unlock()
	s.publish()
	s.maybeRefetch(ctx)
}

// ToggleSort implements the header-click contract: the current field flips
// direction, any other field becomes the sort field ascending.
func (s *EntityStore[T]) ToggleSort(ctx context.Context, field string) {
	s.mu.Lock()
	if s.state.OrderBy == field {
		if s.state.OrderType == backend.OrderAsc {
			s.state.OrderType = backend.OrderDesc
		} else {
			s.state.OrderType = backend.OrderAsc
		}
	} else {
		s.state.OrderBy = field
		s.state.OrderType = backend.OrderAsc
	}
	s.mu.Unlock()
	s.publish()
	s.maybeRefetch(ctx)
}

func (s *EntityStore[T]) maybeRefetch(ctx context.Context) {
	if s.cfg.RefetchOnSet {
		_ = s.Refetch(ctx)
	}
}

// TotalPages derives the page count from the last fetched total.
func (s *EntityStore[T]) TotalPages() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalPages(s.state.Total, s.state.PageSize)
}

// PageLinks returns the pagination links for the current state.
func (s *EntityStore[T]) PageLinks() []PageLink {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pageLinks(s.state.CurrentPage, totalPages(s.state.Total, s.state.PageSize))
}

// NextPage fetches the following page, clamped to the last one.
func (s *EntityStore[T]) NextPage(ctx context.Context) error {
	s.mu.RLock()
	page := s.state.CurrentPage + 1
	last := totalPages(s.state.Total, s.state.PageSize)
	s.mu.RUnlock()
	if last > 0 && page > last {
		page = last
	}
	return s.Fetch(ctx, page)
}

// PrevPage fetches the preceding page, clamped to the first one.
func (s *EntityStore[T]) PrevPage(ctx context.Context) error {
	s.mu.RLock()
	page := s.state.CurrentPage - 1
	s.mu.RUnlock()
	if page < 1 {
		page = 1
	}
	return s.Fetch(ctx, page)
}
