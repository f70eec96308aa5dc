package mockapi

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"salonova/models"
)

// Seeded credentials for local development and tests.
const (
	SeedAdminEmail     = "admin@salonova.test"
	SeedAdminPassword  = "Admin$1234"
	SeedClientEmail    = "cliente@salonova.test"
	SeedClientPassword = "Cliente$1234"
)

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// seed builds the deterministic dataset every fresh server starts from.
// IDs are fixed so tests can reference them directly.
func seed() *memStore {
	m := &memStore{}

	m.categories = &table[models.Category]{
		id:    func(c models.Category) string { return c.ID },
		setID: func(c *models.Category, id string) { c.ID = id },
		name:  func(c models.Category) string { return c.Name },
		sortKey: func(c models.Category, field string) any {
			if field == "description" {
				return c.Description
			}
			return c.Name
		},
		matches: func(c models.Category, f string) bool {
			return containsFold(c.Name, f) || containsFold(c.Description, f)
		},
	}

	m.services = &table[models.Service]{
		id:    func(s models.Service) string { return s.ID },
		setID: func(s *models.Service, id string) { s.ID = id },
		name:  func(s models.Service) string { return s.Name },
		sortKey: func(s models.Service, field string) any {
			switch field {
			case "price":
				return s.Price
			case "duration":
				return s.Duration
			default:
				return s.Name
			}
		},
		matches: func(s models.Service, f string) bool {
			return containsFold(s.Name, f) || containsFold(s.Description, f)
		},
	}

	m.packages = &table[models.Package]{
		id:    func(p models.Package) string { return p.ID },
		setID: func(p *models.Package, id string) { p.ID = id },
		name:  func(p models.Package) string { return p.Name },
		sortKey: func(p models.Package, field string) any {
			switch field {
			case "price":
				return p.Price
			case "duration":
				return p.Duration
			default:
				return p.Name
			}
		},
		matches: func(p models.Package, f string) bool {
			return containsFold(p.Name, f) || containsFold(p.Description, f)
		},
	}

	m.users = &table[models.User]{
		id:    func(u models.User) string { return u.ID },
		setID: func(u *models.User, id string) { u.ID = id },
		name:  func(u models.User) string { return u.Email },
		sortKey: func(u models.User, field string) any {
			switch field {
			case "email":
				return u.Email
			case "lastname":
				return u.Lastname
			default:
				return u.Name
			}
		},
		matches: func(u models.User, f string) bool {
			return containsFold(u.Name, f) || containsFold(u.Lastname, f) || containsFold(u.Email, f)
		},
	}

	m.workstations = &table[models.Workstation]{
		id:    func(w models.Workstation) string { return w.ID },
		setID: func(w *models.Workstation, id string) { w.ID = id },
		name:  func(w models.Workstation) string { return w.Name },
		sortKey: func(w models.Workstation, field string) any {
			if field == "state" {
				return w.State
			}
			return w.Name
		},
		matches: func(w models.Workstation, f string) bool {
			return containsFold(w.Name, f) || containsFold(w.Description, f)
		},
	}

	m.payments = &table[models.Payment]{
		id:    func(p models.Payment) string { return p.ID },
		setID: func(p *models.Payment, id string) { p.ID = id },
		sortKey: func(p models.Payment, field string) any {
			switch field {
			case "amount":
				return p.Amount
			case "method":
				return p.Method
			case "status":
				return p.Status
			default:
				return p.Datetime
			}
		},
		matches: func(p models.Payment, f string) bool {
			return containsFold(p.Method, f) || containsFold(p.Status, f) || containsFold(p.Observation, f)
		},
	}

	m.audits = &table[models.AuditRecord]{
		id:    func(a models.AuditRecord) string { return a.ID },
		setID: func(a *models.AuditRecord, id string) { a.ID = id },
		sortKey: func(a models.AuditRecord, field string) any {
			switch field {
			case "entity":
				return a.Entity
			case "action":
				return a.Action
			default:
				return a.Datetime
			}
		},
		matches: func(a models.AuditRecord, f string) bool {
			return containsFold(a.Entity, f) || containsFold(a.Action, f) || containsFold(a.Description, f)
		},
	}

	m.appointments = &table[models.Appointment]{
		id:    func(a models.Appointment) string { return a.ID },
		setID: func(a *models.Appointment, id string) { a.ID = id },
		sortKey: func(a models.Appointment, field string) any {
			switch field {
			case "state":
				return a.State
			case "total":
				return a.Total
			default:
				return a.DatetimeStart
			}
		},
		matches: func(a models.Appointment, f string) bool {
			if containsFold(a.State, f) {
				return true
			}
			return a.Client != nil && (containsFold(a.Client.Name, f) || containsFold(a.Client.Lastname, f))
		},
	}

	// --- data ---

	manicure := models.Category{ID: "cat-1", Name: "Manicure", Description: "Cuidado de uñas"}
	hair := models.Category{ID: "cat-2", Name: "Peluquería", Description: "Corte y peinado"}
	makeup := models.Category{ID: "cat-3", Name: "Maquillaje", Description: "Maquillaje profesional"}
	m.categories.items = []models.Category{manicure, hair, makeup}

	svcManicure := models.Service{ID: "svc-1", Name: "Manicure clásica", Price: 15000, Duration: 45, Category: &manicure}
	svcGel := models.Service{ID: "svc-2", Name: "Uñas en gel", Price: 35000, Duration: 90, Category: &manicure}
	svcCut := models.Service{ID: "svc-3", Name: "Corte de cabello", Price: 25000, Duration: 30, Category: &hair}
	svcColor := models.Service{ID: "svc-4", Name: "Tinte completo", Price: 80000, Duration: 120, Category: &hair}
	svcMakeup := models.Service{ID: "svc-5", Name: "Maquillaje de noche", Price: 50000, Duration: 60, Category: &makeup}
	m.services.items = []models.Service{svcManicure, svcGel, svcCut, svcColor, svcMakeup}

	m.packages.items = []models.Package{
		{ID: "pkg-1", Name: "Manicure clásica", Price: 15000, Duration: 45, Services: []models.Service{svcManicure}},
		{ID: "pkg-2", Name: "Corte de cabello", Price: 25000, Duration: 30, Services: []models.Service{svcCut}},
		{ID: "pkg-3", Name: "Día de novia", Description: "Peinado, maquillaje y uñas",
			Price: 150000, Duration: 225, Services: []models.Service{svcColor, svcMakeup, svcManicure}},
		{ID: "pkg-4", Name: "Cambio de look", Description: "Corte y tinte",
			Price: 95000, Duration: 150, Services: []models.Service{svcCut, svcColor}},
	}

	roleAdmin := models.Role{ID: "role-1", Name: "Administrador",
		Permissions: []string{"manage:catalog", "manage:users", "manage:appointments", "view:audits", "view:statistics"}}
	roleProfessional := models.Role{ID: "role-2", Name: "Profesional",
		Permissions: []string{"manage:appointments"}}
	roleClient := models.Role{ID: "role-3", Name: "Cliente",
		Permissions: []string{"book:appointments"}}

	admin := models.User{ID: "user-1", Name: "Ana", Lastname: "Morales", Email: SeedAdminEmail, Role: &roleAdmin}
	pro1 := models.User{ID: "user-2", Name: "Lucía", Lastname: "Fernández", Email: "lucia@salonova.test", Role: &roleProfessional}
	pro2 := models.User{ID: "user-3", Name: "Carmen", Lastname: "Reyes", Email: "carmen@salonova.test", Role: &roleProfessional}
	client := models.User{ID: "user-4", Name: "Valentina", Lastname: "Soto", Email: SeedClientEmail, Role: &roleClient}
	m.users.items = []models.User{admin, pro1, pro2, client}

	m.accounts = map[string]account{
		strings.ToLower(SeedAdminEmail): {
			user: admin, passwordHash: mustHash(SeedAdminPassword), permissions: roleAdmin.Permissions,
		},
		strings.ToLower(SeedClientEmail): {
			user: client, passwordHash: mustHash(SeedClientPassword), permissions: roleClient.Permissions,
		},
	}

	ws1 := models.Workstation{ID: "ws-1", Name: "Estación 1", State: models.WorkstationActive, Categories: []models.Category{manicure, makeup}}
	ws2 := models.Workstation{ID: "ws-2", Name: "Estación 2", State: models.WorkstationActive, Categories: []models.Category{hair}}
	ws3 := models.Workstation{ID: "ws-3", Name: "Estación 3", State: models.WorkstationActive, Categories: []models.Category{manicure, hair, makeup}}
	m.workstations.items = []models.Workstation{
		ws1, ws2, ws3,
		{ID: "ws-4", Name: "Estación 4", State: models.WorkstationInactive, Categories: []models.Category{hair}},
	}

	// A couple of appointments on a fixed future date.
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	appt1 := m.buildAppointment(m.packages.items[0], &client, day.Add(14*time.Hour))
	appt1.ID = "appt-1"
	appt1.Details[0].ID = "det-1"
	appt1.Details[0].Employee = &pro1
	appt1.Details[0].Workstation = &ws1

	appt2 := m.buildAppointment(m.packages.items[3], &client, day.Add(10*time.Hour))
	appt2.ID = "appt-2"
	appt2.Details[0].ID = "det-2"
	appt2.Details[0].Employee = &pro2
	appt2.Details[0].Workstation = &ws2
	appt2.Details[1].ID = "det-3"
	appt2.Details[1].Employee = &pro2
	appt2.Details[1].Workstation = &ws2
	m.appointments.items = []models.Appointment{appt1, appt2}

	m.payments.items = []models.Payment{
		{ID: "pay-1", AppointmentID: "appt-2", Datetime: day.Add(-24 * time.Hour),
			Amount: 45000, Method: models.PaymentCash, Status: models.PaymentCompleted},
	}
	m.appointments.items[1].Payments = []models.Payment{m.payments.items[0]}
	m.appointments.items[1].PendingPayment = m.appointments.items[1].Total - 45000

	m.audits.items = []models.AuditRecord{
		{ID: "aud-1", User: &admin, Entity: "category", Action: "CREATE",
			Description: "Categoría creada: Manicure", Datetime: day.Add(-72 * time.Hour)},
		{ID: "aud-2", Entity: "appointment", Action: "STATE",
			Description: "Cita marcada como morosa por el sistema", Datetime: day.Add(-48 * time.Hour)},
	}

	return m
}
