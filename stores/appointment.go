package stores

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"salonova/backend"
	"salonova/models"
	"salonova/notify"
	"salonova/utils"
)

// AppointmentStore is the entity store for appointments plus the per-detail
// resource reassignment and payment registration operations.
type AppointmentStore struct {
	*EntityStore[models.Appointment]
	client   *backend.Client
	notifier notify.Notifier
}

func NewAppointmentStore(cl *backend.Client, n notify.Notifier) *AppointmentStore {
	return &AppointmentStore{
		EntityStore: New[models.Appointment](cl, n, Config{
			Resource:       "/api/appointments",
			Name:           "appointments",
			DefaultOrderBy: "datetimeStart",
			MsgCreated:     "Cita creada correctamente",
			MsgUpdated:     "Cita actualizada correctamente",
			MsgDeleted:     "Cita eliminada correctamente",
		}),
		client:   cl,
		notifier: n,
	}
}

// DetailAssignment names the professional and workstation to assign to one
// detail.
type DetailAssignment struct {
	DetailID      string
	EmployeeID    string
	WorkstationID string
}

// UpdateDetail reassigns one detail's professional and workstation.
func (s *AppointmentStore) UpdateDetail(ctx context.Context, a DetailAssignment) error {
	body := map[string]string{
		"employee":    a.EmployeeID,
		"workstation": a.WorkstationID,
	}
	return backend.Update(ctx, s.client, "/api/details", a.DetailID, body)
}

// DetailUpdateReport records the outcome of a sequential multi-detail
// reassignment. There is no batch endpoint, so partial success is possible;
// the report makes it visible instead of leaving it in a log nobody reads.
type DetailUpdateReport struct {
	Updated []string
	Failed  map[string]error
}

// Partial reports whether some but not all details were updated.
func (r DetailUpdateReport) Partial() bool {
	return len(r.Updated) > 0 && len(r.Failed) > 0
}

// UpdateDetails applies the assignments one request at a time, in order.
// It stops early only on an expired session; any other per-detail failure
// is recorded and the remaining details are still attempted. On success
// the appointment list is re-fetched.
func (s *AppointmentStore) UpdateDetails(ctx context.Context, assignments []DetailAssignment) (DetailUpdateReport, error) {
	logger := utils.GetLogger()
	report := DetailUpdateReport{Failed: make(map[string]error)}

	for _, a := range assignments {
		err := s.UpdateDetail(ctx, a)
		if errors.Is(err, backend.ErrSessionExpired) {
			return report, err
		}
		if err != nil {
			logger.Error("Detail update failed", zap.String("detailID", a.DetailID), zap.Error(err))
			report.Failed[a.DetailID] = err
			continue
		}
		report.Updated = append(report.Updated, a.DetailID)
	}

	switch {
	case len(report.Failed) == 0:
		s.notifier.Success("Cita actualizada correctamente")
	case report.Partial():
		s.notifier.Error(fmt.Sprintf("Se actualizaron %d de %d servicios, intente nuevamente con los restantes",
			len(report.Updated), len(assignments)))
	default:
		s.notifier.Error("No se pudo actualizar la cita")
	}

	if len(report.Updated) > 0 {
		// Some details changed server-side; reflect them regardless of the
		// failures.
		_ = s.Refetch(ctx)
	}
	if len(report.Failed) > 0 {
		return report, fmt.Errorf("%d of %d detail updates failed", len(report.Failed), len(assignments))
	}
	return report, nil
}

// PaymentInput is the body for registering a payment against an appointment.
type PaymentInput struct {
	AppointmentID string  `json:"appointment"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	Observation   string  `json:"observation,omitempty"`
	TransactionID string  `json:"transactionId,omitempty"`
}

// RegisterPayment records a payment and re-fetches so the pending balance
// shown is the backend's, never a locally computed one.
func (s *AppointmentStore) RegisterPayment(ctx context.Context, in PaymentInput) error {
	err := s.client.Do(ctx, http.MethodPost, "/api/payments", nil, in, nil)
	switch {
	case errors.Is(err, backend.ErrSessionExpired):
		return err
	case err != nil:
		utils.GetLogger().Error("Payment registration failed",
			zap.String("appointmentID", in.AppointmentID), zap.Error(err))
		s.notifier.Error("No se pudo registrar el pago")
		return err
	}
	s.notifier.Success("Pago registrado correctamente")
	return s.Refetch(ctx)
}
