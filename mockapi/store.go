package mockapi

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonova/models"
)

// account pairs a user with its login credentials and granted permissions.
type account struct {
	user         models.User
	passwordHash string
	permissions  []string
}

// memStore is the whole in-memory dataset.
type memStore struct {
	categories   *table[models.Category]
	services     *table[models.Service]
	packages     *table[models.Package]
	users        *table[models.User]
	workstations *table[models.Workstation]
	payments     *table[models.Payment]
	audits       *table[models.AuditRecord]
	appointments *table[models.Appointment]

	mu       sync.RWMutex
	accounts map[string]account // by lowercased email
}

func (m *memStore) accountByEmail(email string) (account, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[strings.ToLower(email)]
	return a, ok
}

// activeWorkstations counts stations able to take an appointment.
func (m *memStore) activeWorkstations() int {
	n := 0
	m.workstations.mu.RLock()
	defer m.workstations.mu.RUnlock()
	for _, w := range m.workstations.items {
		if w.State == models.WorkstationActive {
			n++
		}
	}
	return n
}

// isAvailable checks whether the package fits at start: the number of
// active appointments overlapping the requested interval must stay below
// the number of active workstations. excludeID skips the appointment being
// rearranged.
func (m *memStore) isAvailable(pkg models.Package, start time.Time, excludeID string) bool {
	end := start.Add(time.Duration(pkg.Duration) * time.Minute)
	capacity := m.activeWorkstations()
	if capacity == 0 {
		return false
	}

	overlapping := 0
	m.appointments.mu.RLock()
	defer m.appointments.mu.RUnlock()
	for _, a := range m.appointments.items {
		if a.ID == excludeID {
			continue
		}
		if a.State == models.AppointmentCancelled || a.State == models.AppointmentInactive {
			continue
		}
		if a.DatetimeStart.Before(end) && start.Before(a.DatetimeEnd) {
			overlapping++
		}
	}
	return overlapping < capacity
}

// buildAppointment assembles a new appointment for the package: one detail
// per service with price and duration frozen at booking time.
func (m *memStore) buildAppointment(pkg models.Package, client *models.User, start time.Time) models.Appointment {
	details := make([]models.Detail, 0, len(pkg.Services))
	offset := 0
	for _, svc := range pkg.Services {
		service := svc
		details = append(details, models.Detail{
			ID:            uuid.New().String(),
			PriceNow:      service.Price,
			DurationNow:   service.Duration,
			DatetimeStart: start.Add(time.Duration(offset) * time.Minute),
			Service:       &service,
		})
		offset += service.Duration
	}
	p := pkg
	return models.Appointment{
		ID:             uuid.New().String(),
		DatetimeStart:  start,
		DatetimeEnd:    start.Add(time.Duration(pkg.Duration) * time.Minute),
		State:          models.AppointmentPending,
		Client:         client,
		Package:        &p,
		Details:        details,
		Total:          pkg.Price,
		PendingPayment: pkg.Price,
	}
}

func (m *memStore) appendAudit(userID, entity, action, description string) {
	var actor *models.User
	if userID != "" {
		if u, ok := m.users.get(userID); ok {
			actor = &u
		}
	}
	m.audits.mu.Lock()
	m.audits.items = append(m.audits.items, models.AuditRecord{
		ID:          uuid.New().String(),
		User:        actor,
		Entity:      entity,
		Action:      action,
		Description: description,
		Datetime:    time.Now(),
	})
	m.audits.mu.Unlock()
}

// --- appointment handlers ---

func (s *Server) listAppointmentsHandler(c *gin.Context) {
	results, total := s.store.appointments.list(parseListParams(c))
	listEnvelope(c, results, total)
}

func (s *Server) listMyAppointmentsHandler(c *gin.Context) {
	userID := c.GetString("userID")
	p := parseListParams(c)

	mine := &table[models.Appointment]{
		id:      s.store.appointments.id,
		sortKey: s.store.appointments.sortKey,
		matches: s.store.appointments.matches,
	}
	s.store.appointments.mu.RLock()
	for _, a := range s.store.appointments.items {
		if a.Client != nil && a.Client.ID == userID {
			mine.items = append(mine.items, a)
		}
	}
	s.store.appointments.mu.RUnlock()

	results, total := mine.list(p)
	listEnvelope(c, results, total)
}

func (s *Server) createAppointmentHandler(c *gin.Context) {
	var input struct {
		DatetimeStart time.Time `json:"datetimeStart"`
		PackageID     string    `json:"package"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	pkg, ok := s.store.packages.get(input.PackageID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "package not found"})
		return
	}
	if !s.store.isAvailable(pkg, input.DatetimeStart, "") {
		c.JSON(http.StatusConflict, gin.H{"error": "time slot not available"})
		return
	}

	var client *models.User
	if u, ok := s.store.users.get(c.GetString("userID")); ok {
		client = &u
	}
	appt := s.store.buildAppointment(pkg, client, input.DatetimeStart)
	s.store.appointments.mu.Lock()
	s.store.appointments.items = append(s.store.appointments.items, appt)
	s.store.appointments.mu.Unlock()

	s.store.appendAudit(c.GetString("userID"), "appointment", "CREATE", "Cita agendada: "+pkg.Name)
	c.JSON(http.StatusCreated, appt)
}

func (s *Server) deleteAppointmentHandler(c *gin.Context) {
	if !s.store.appointments.delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	s.store.appendAudit(c.GetString("userID"), "appointment", "DELETE", "Cita eliminada")
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) availabilityHandler(c *gin.Context) {
	packageID := c.Query("package")
	datetime, err := time.Parse(time.RFC3339, c.Query("datetime"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid datetime"})
		return
	}
	pkg, ok := s.store.packages.get(packageID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "package not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": s.store.isAvailable(pkg, datetime, "")})
}

func (s *Server) rearrangeHandler(c *gin.Context) {
	id := c.Param("id")
	var input struct {
		DatetimeStart time.Time `json:"datetimeStart"`
		PackageID     string    `json:"package"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	appt, ok := s.store.appointments.get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	pkg := *appt.Package
	if input.PackageID != "" && input.PackageID != pkg.ID {
		pkg, ok = s.store.packages.get(input.PackageID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "package not found"})
			return
		}
	}

	// The availability check runs again here no matter what the client saw.
	if !s.store.isAvailable(pkg, input.DatetimeStart, id) {
		c.JSON(http.StatusConflict, gin.H{"error": "time slot not available"})
		return
	}

	s.store.appointments.mu.Lock()
	for i, a := range s.store.appointments.items {
		if a.ID != id {
			continue
		}
		shift := input.DatetimeStart.Sub(a.DatetimeStart)
		a.DatetimeStart = input.DatetimeStart
		a.DatetimeEnd = input.DatetimeStart.Add(time.Duration(pkg.Duration) * time.Minute)
		a.Package = &pkg
		for j := range a.Details {
			a.Details[j].DatetimeStart = a.Details[j].DatetimeStart.Add(shift)
		}
		s.store.appointments.items[i] = a
		break
	}
	s.store.appointments.mu.Unlock()

	s.store.appendAudit(c.GetString("userID"), "appointment", "REARRANGE", "Cita reprogramada")
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (s *Server) updateDetailHandler(c *gin.Context) {
	detailID := c.Param("id")
	var input struct {
		EmployeeID    string `json:"employee"`
		WorkstationID string `json:"workstation"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	var employee *models.User
	if input.EmployeeID != "" {
		u, ok := s.store.users.get(input.EmployeeID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
			return
		}
		employee = &u
	}
	var workstation *models.Workstation
	if input.WorkstationID != "" {
		w, ok := s.store.workstations.get(input.WorkstationID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "workstation not found"})
			return
		}
		workstation = &w
	}

	s.store.appointments.mu.Lock()
	defer s.store.appointments.mu.Unlock()
	for i, a := range s.store.appointments.items {
		for j, d := range a.Details {
			if d.ID != detailID {
				continue
			}
			if employee != nil {
				a.Details[j].Employee = employee
			}
			if workstation != nil {
				a.Details[j].Workstation = workstation
			}
			s.store.appointments.items[i] = a
			c.JSON(http.StatusOK, a.Details[j])
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "detail not found"})
}

func (s *Server) createPaymentHandler(c *gin.Context) {
	var input struct {
		AppointmentID string  `json:"appointment"`
		Amount        float64 `json:"amount"`
		Method        string  `json:"method"`
		Observation   string  `json:"observation"`
		TransactionID string  `json:"transactionId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	payment := models.Payment{
		ID:            uuid.New().String(),
		AppointmentID: input.AppointmentID,
		Datetime:      time.Now(),
		Amount:        input.Amount,
		Method:        input.Method,
		Status:        models.PaymentCompleted,
		Observation:   input.Observation,
		TransactionID: input.TransactionID,
	}

	s.store.appointments.mu.Lock()
	found := false
	for i, a := range s.store.appointments.items {
		if a.ID != input.AppointmentID {
			continue
		}
		found = true
		a.Payments = append(a.Payments, payment)
		// pending = total - discount - sum(completed payments)
		paid := 0.0
		for _, p := range a.Payments {
			if p.Status == models.PaymentCompleted {
				paid += p.Amount
			}
		}
		a.PendingPayment = a.Total - a.Discount - paid
		if a.PendingPayment <= 0 {
			a.State = models.AppointmentCompleted
		}
		s.store.appointments.items[i] = a
		break
	}
	s.store.appointments.mu.Unlock()

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
		return
	}

	s.store.payments.mu.Lock()
	s.store.payments.items = append(s.store.payments.items, payment)
	s.store.payments.mu.Unlock()

	s.store.appendAudit(c.GetString("userID"), "payment", "CREATE", "Pago registrado")
	c.JSON(http.StatusCreated, payment)
}
