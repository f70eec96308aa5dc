package stores

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"salonova/backend"
	"salonova/notify"
	"salonova/utils"
)

// Wizard steps.
const (
	StepDate    = 1
	StepTime    = 2
	StepPackage = 3
)

// StepData holds the partial data of every wizard step. Date and available
// times belong to step 1, the chosen time to step 2, the package to step 3.
type StepData struct {
	Date           time.Time
	AvailableTimes []string
	Time           string // "HH:MM"
	PackageID      string
}

// WizardStore is the multi-step booking form: a 3-step linear machine
// (date, time, package). SetStep jumps freely; nothing prevents skipping
// steps, validity is queried per step instead.
type WizardStore struct {
	client   *backend.Client
	notifier notify.Notifier

	mu   sync.RWMutex
	step int
	data StepData
}

func NewWizardStore(cl *backend.Client, n notify.Notifier) *WizardStore {
	return &WizardStore{client: cl, notifier: n, step: StepDate}
}

// Step returns the current step pointer.
func (s *WizardStore) Step() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.step
}

// SetStep jumps the pointer. No transition guard.
func (s *WizardStore) SetStep(step int) {
	s.mu.Lock()
	s.step = step
	s.mu.Unlock()
}

// Update shallow-merges partial data: zero-valued fields leave the stored
// value untouched.
func (s *WizardStore) Update(partial StepData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !partial.Date.IsZero() {
		s.data.Date = partial.Date
	}
	if partial.AvailableTimes != nil {
		s.data.AvailableTimes = partial.AvailableTimes
	}
	if partial.Time != "" {
		s.data.Time = partial.Time
	}
	if partial.PackageID != "" {
		s.data.PackageID = partial.PackageID
	}
}

// Data returns a snapshot of the accumulated form data.
func (s *WizardStore) Data() StepData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// StepValid reports whether the named step has what it needs: a date for
// step 1, a non-empty time for step 2, a chosen package for step 3.
func (s *WizardStore) StepValid(step int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch step {
	case StepDate:
		return !s.data.Date.IsZero()
	case StepTime:
		return s.data.Time != ""
	case StepPackage:
		return s.data.PackageID != ""
	}
	return false
}

// DatetimeStart combines the step-1 date and step-2 time into the single
// timestamp the backend expects, serialized as UTC ISO-8601 with
// millisecond precision.
func (s *WizardStore) DatetimeStart() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return combineDateTime(s.data.Date, s.data.Time)
}

func combineDateTime(date time.Time, clock string) (string, error) {
	if date.IsZero() || clock == "" {
		return "", errors.New("date and time are both required")
	}
	var hour, minute int
	if _, err := fmt.Sscanf(clock, "%d:%d", &hour, &minute); err != nil {
		return "", fmt.Errorf("invalid time %q: %w", clock, err)
	}
	combined := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
	return combined.UTC().Format("2006-01-02T15:04:05.000Z07:00"), nil
}

// Submit creates the appointment. It never resets the form or moves the
// step pointer; the caller decides what happens to the dialog afterwards.
func (s *WizardStore) Submit(ctx context.Context) error {
	datetimeStart, err := s.DatetimeStart()
	if err != nil {
		return err
	}
	s.mu.RLock()
	packageID := s.data.PackageID
	s.mu.RUnlock()
	if packageID == "" {
		return errors.New("a package is required")
	}

	body := map[string]string{
		"datetimeStart": datetimeStart,
		"package":       packageID,
	}
	err = s.client.Do(ctx, http.MethodPost, "/api/appointments", nil, body, nil)
	switch {
	case errors.Is(err, backend.ErrSessionExpired):
		return err
	case err != nil:
		utils.GetLogger().Error("Appointment submission failed", zap.Error(err))
		s.notifier.Error("No se pudo agendar la cita")
		return err
	}
	s.notifier.Success("Cita agendada correctamente")
	return nil
}

// Reset clears the form back to step 1 with no data.
func (s *WizardStore) Reset() {
	s.mu.Lock()
	s.step = StepDate
	s.data = StepData{}
	s.mu.Unlock()
}
