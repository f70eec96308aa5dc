package models

import "time"

// Appointment states as reported by the backend. The client only reflects
// these; transitions are computed server-side.
const (
	AppointmentPending    = "PENDIENTE"
	AppointmentCompleted  = "COMPLETADO"
	AppointmentCancelled  = "CANCELADO"
	AppointmentDelinquent = "MOROSO"
	AppointmentInactive   = "INACTIVO"
)

// Appointment is the client-side projection of a booked appointment.
type Appointment struct {
	ID             string    `json:"id"`
	DatetimeStart  time.Time `json:"datetimeStart"`
	DatetimeEnd    time.Time `json:"datetimeEnd"`
	State          string    `json:"state"`
	Client         *User     `json:"client,omitempty"`
	Package        *Package  `json:"package,omitempty"`
	Details        []Detail  `json:"details"`
	Total          float64   `json:"total"`
	Discount       float64   `json:"discount"`
	PendingPayment float64   `json:"pendingPayment"` // total minus completed payments, computed backend-side
	Payments       []Payment `json:"payments,omitempty"`
}

// Detail is one line item of an Appointment: a single service within the
// booked package, with the price and duration frozen at booking time.
type Detail struct {
	ID            string       `json:"id"`
	PriceNow      float64      `json:"priceNow"`    // snapshot, independent of the live Service price
	DurationNow   int          `json:"durationNow"` // minutes, snapshot
	DatetimeStart time.Time    `json:"datetimeStart"`
	Employee      *User        `json:"employee,omitempty"`
	Workstation   *Workstation `json:"workstation,omitempty"`
	Service       *Service     `json:"service,omitempty"`
}
