package stores

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"salonova/backend"
	"salonova/notify"
	"salonova/utils"
)

// RearrangeStore decouples "is this package available at time T" from
// "commit this reschedule". The availability verdict is advisory: the
// backend re-checks on commit.
type RearrangeStore struct {
	client   *backend.Client
	notifier notify.Notifier

	mu            sync.RWMutex
	available     *bool // nil until the first check completes
	isOpen        bool
	appointmentID string
	datetimeOld   time.Time
}

func NewRearrangeStore(cl *backend.Client, n notify.Notifier) *RearrangeStore {
	return &RearrangeStore{client: cl, notifier: n}
}

// Available returns the verdict of the most recent availability check, or
// nil when no check has completed yet.
func (s *RearrangeStore) Available() *bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.available == nil {
		return nil
	}
	v := *s.available
	return &v
}

// CheckAvailability asks the backend whether the package can be booked at
// the given time and records the asked-for time. Fail-closed: any failure
// other than an expired session records "unavailable", never an ambiguous
// nil. A 403 leaves the previous verdict in place.
func (s *RearrangeStore) CheckAvailability(ctx context.Context, packageID string, datetime time.Time) error {
	q := url.Values{}
	q.Set("package", packageID)
	q.Set("datetime", datetime.UTC().Format(time.RFC3339))

	var out struct {
		Available bool `json:"available"`
	}
	err := s.client.Do(ctx, http.MethodGet, "/api/appointments/rearrange", q, nil, &out)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.datetimeOld = datetime
	switch {
	case errors.Is(err, backend.ErrSessionExpired):
		return err
	case err != nil:
		utils.GetLogger().Warn("Availability check failed, treating as unavailable",
			zap.String("packageID", packageID), zap.Error(err))
		unavailable := false
		s.available = &unavailable
		return err
	}
	s.available = &out.Available
	return nil
}

// CanCommit reports whether the last completed check said available. The UI
// gate only; the backend enforces the real check.
func (s *RearrangeStore) CanCommit() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.available != nil && *s.available
}

// RearrangeInput is the commit body: new start time and optionally a new
// package for the appointment.
type RearrangeInput struct {
	DatetimeStart time.Time `json:"datetimeStart"`
	PackageID     string    `json:"package,omitempty"`
}

// Commit PATCHes the new start time and package onto the appointment set by
// SetAppointment. It does not clear the availability verdict; callers reset
// the workflow explicitly via Reset or CloseDialog.
func (s *RearrangeStore) Commit(ctx context.Context, in RearrangeInput) error {
	s.mu.RLock()
	id := s.appointmentID
	s.mu.RUnlock()
	if id == "" {
		return errors.New("no appointment selected")
	}

	err := backend.Update(ctx, s.client, "/api/appointments/rearrange", id, in)
	switch {
	case errors.Is(err, backend.ErrSessionExpired):
		return err
	case err != nil:
		utils.GetLogger().Error("Rearrange commit failed", zap.String("appointmentID", id), zap.Error(err))
		s.notifier.Error("No se pudo reprogramar la cita")
		return err
	}
	s.notifier.Success("Cita reprogramada correctamente")
	return nil
}

// SetAppointment selects the appointment the dialog operates on.
func (s *RearrangeStore) SetAppointment(id string) {
	s.mu.Lock()
	s.appointmentID = id
	s.mu.Unlock()
}

// AppointmentID returns the currently selected appointment, or "".
func (s *RearrangeStore) AppointmentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.appointmentID
}

// DatetimeOld returns the time the last availability check asked about.
func (s *RearrangeStore) DatetimeOld() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.datetimeOld
}

// OpenDialog marks the rearrange dialog as visible.
func (s *RearrangeStore) OpenDialog() {
	s.mu.Lock()
	s.isOpen = true
	s.mu.Unlock()
}

// CloseDialog hides the dialog and resets the workflow.
func (s *RearrangeStore) CloseDialog() {
	s.mu.Lock()
	s.isOpen = false
	s.available = nil
	s.appointmentID = ""
	s.datetimeOld = time.Time{}
	s.mu.Unlock()
}

// IsOpen reports dialog visibility.
func (s *RearrangeStore) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isOpen
}

// Reset clears the availability verdict without touching dialog state.
func (s *RearrangeStore) Reset() {
	s.mu.Lock()
	s.available = nil
	s.datetimeOld = time.Time{}
	s.mu.Unlock()
}
