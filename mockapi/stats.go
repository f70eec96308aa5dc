package mockapi

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"salonova/models"
)

func parseRange(c *gin.Context) (time.Time, time.Time) {
	from, _ := time.Parse("2006-01-02", c.Query("from"))
	to, _ := time.Parse("2006-01-02", c.Query("to"))
	if to.IsZero() {
		to = time.Now().AddDate(1, 0, 0)
	} else {
		to = to.AddDate(0, 0, 1) // inclusive upper bound
	}
	return from, to
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

// countable appointments for statistics: everything except cancelled and
// inactive ones.
func counts(a models.Appointment) bool {
	return a.State != models.AppointmentCancelled && a.State != models.AppointmentInactive
}

func (s *Server) statsByCategoryHandler(c *gin.Context) {
	from, to := parseRange(c)
	acc := map[string]*models.CategoryStat{}

	s.store.appointments.mu.RLock()
	for _, a := range s.store.appointments.items {
		if !counts(a) || !inRange(a.DatetimeStart, from, to) {
			continue
		}
		for _, d := range a.Details {
			if d.Service == nil || d.Service.Category == nil {
				continue
			}
			name := d.Service.Category.Name
			st, ok := acc[name]
			if !ok {
				st = &models.CategoryStat{Category: name}
				acc[name] = st
			}
			st.Count++
			st.Revenue += d.PriceNow
		}
	}
	s.store.appointments.mu.RUnlock()

	c.JSON(http.StatusOK, sortedStats(acc, func(s *models.CategoryStat) string { return s.Category }))
}

func (s *Server) statsByProfessionalHandler(c *gin.Context) {
	from, to := parseRange(c)
	acc := map[string]*models.ProfessionalStat{}

	s.store.appointments.mu.RLock()
	for _, a := range s.store.appointments.items {
		if !counts(a) || !inRange(a.DatetimeStart, from, to) {
			continue
		}
		for _, d := range a.Details {
			if d.Employee == nil {
				continue
			}
			name := d.Employee.FullName()
			st, ok := acc[name]
			if !ok {
				st = &models.ProfessionalStat{Professional: name}
				acc[name] = st
			}
			st.Count++
			st.Revenue += d.PriceNow
		}
	}
	s.store.appointments.mu.RUnlock()

	c.JSON(http.StatusOK, sortedStats(acc, func(s *models.ProfessionalStat) string { return s.Professional }))
}

func (s *Server) statsByDayHandler(c *gin.Context) {
	from, to := parseRange(c)
	acc := map[string]*models.DayStat{}

	s.store.appointments.mu.RLock()
	for _, a := range s.store.appointments.items {
		if !counts(a) || !inRange(a.DatetimeStart, from, to) {
			continue
		}
		day := a.DatetimeStart.Format("2006-01-02")
		st, ok := acc[day]
		if !ok {
			st = &models.DayStat{Date: day}
			acc[day] = st
		}
		st.Count++
		st.Revenue += a.Total - a.Discount
	}
	s.store.appointments.mu.RUnlock()

	c.JSON(http.StatusOK, sortedStats(acc, func(s *models.DayStat) string { return s.Date }))
}

func (s *Server) statsByMethodHandler(c *gin.Context) {
	from, to := parseRange(c)
	acc := map[string]*models.PaymentMethodStat{}

	s.store.payments.mu.RLock()
	for _, p := range s.store.payments.items {
		if p.Status != models.PaymentCompleted || !inRange(p.Datetime, from, to) {
			continue
		}
		st, ok := acc[p.Method]
		if !ok {
			st = &models.PaymentMethodStat{Method: p.Method}
			acc[p.Method] = st
		}
		st.Count++
		st.Amount += p.Amount
	}
	s.store.payments.mu.RUnlock()

	c.JSON(http.StatusOK, sortedStats(acc, func(s *models.PaymentMethodStat) string { return s.Method }))
}

// sortedStats flattens the accumulator map into a deterministically ordered
// slice.
func sortedStats[T any](acc map[string]*T, key func(*T) string) []T {
	out := make([]T, 0, len(acc))
	for _, v := range acc {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool {
		return key(&out[i]) < key(&out[j])
	})
	return out
}
