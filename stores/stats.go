package stores

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"salonova/backend"
	"salonova/models"
)

// StatsStore aggregates the read-only analytics queries behind the charts.
// Each fetch replaces the corresponding slice; the client computes nothing
// itself.
type StatsStore struct {
	client *backend.Client

	mu             sync.RWMutex
	byCategory     []models.CategoryStat
	byProfessional []models.ProfessionalStat
	byDay          []models.DayStat
	byMethod       []models.PaymentMethodStat
}

func NewStatsStore(cl *backend.Client) *StatsStore {
	return &StatsStore{client: cl}
}

func rangeQuery(from, to time.Time) url.Values {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("from", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		q.Set("to", to.Format("2006-01-02"))
	}
	return q
}

// FetchByCategory loads completed-appointment counts and revenue per category.
func (s *StatsStore) FetchByCategory(ctx context.Context, from, to time.Time) error {
	var out []models.CategoryStat
	if err := s.client.Do(ctx, http.MethodGet, "/api/statistics/categories", rangeQuery(from, to), nil, &out); err != nil {
		return err
	}
	s.mu.Lock()
	s.byCategory = out
	s.mu.Unlock()
	return nil
}

// FetchByProfessional loads per-professional counts and revenue.
func (s *StatsStore) FetchByProfessional(ctx context.Context, from, to time.Time) error {
	var out []models.ProfessionalStat
	if err := s.client.Do(ctx, http.MethodGet, "/api/statistics/professionals", rangeQuery(from, to), nil, &out); err != nil {
		return err
	}
	s.mu.Lock()
	s.byProfessional = out
	s.mu.Unlock()
	return nil
}

// FetchByDay loads the per-day series.
func (s *StatsStore) FetchByDay(ctx context.Context, from, to time.Time) error {
	var out []models.DayStat
	if err := s.client.Do(ctx, http.MethodGet, "/api/statistics/days", rangeQuery(from, to), nil, &out); err != nil {
		return err
	}
	s.mu.Lock()
	s.byDay = out
	s.mu.Unlock()
	return nil
}

// FetchByPaymentMethod loads collected amounts per payment method.
func (s *StatsStore) FetchByPaymentMethod(ctx context.Context, from, to time.Time) error {
	var out []models.PaymentMethodStat
	if err := s.client.Do(ctx, http.MethodGet, "/api/statistics/payment-methods", rangeQuery(from, to), nil, &out); err != nil {
		return err
	}
	s.mu.Lock()
	s.byMethod = out
	s.mu.Unlock()
	return nil
}

func (s *StatsStore) ByCategory() []models.CategoryStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byCategory
}

func (s *StatsStore) ByProfessional() []models.ProfessionalStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byProfessional
}

func (s *StatsStore) ByDay() []models.DayStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byDay
}

func (s *StatsStore) ByPaymentMethod() []models.PaymentMethodStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byMethod
}
