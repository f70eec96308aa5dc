package models

import "time"

// Payment methods.
const (
	PaymentCash     = "EFECTIVO"
	PaymentCard     = "TARJETA"
	PaymentTransfer = "TRANSFERENCIA"
)

// Payment statuses.
const (
	PaymentCompleted = "COMPLETADO"
	PaymentPending   = "PENDIENTE"
	PaymentCancelled = "CANCELADO"
)

// Payment records one payment made against an appointment.
type Payment struct {
	ID            string    `json:"id"`
	AppointmentID string    `json:"appointment"`
	Datetime      time.Time `json:"datetime"`
	Amount        float64   `json:"amount"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	Observation   string    `json:"observation,omitempty"`
	TransactionID string    `json:"transactionId,omitempty"`
}
