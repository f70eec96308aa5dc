package session

import (
	"testing"
	"time"

	"salonova/notify"
	"salonova/utils"
)

func testToken(t *testing.T, permissions []string) string {
	t.Helper()
	token, err := utils.GenerateToken([]byte("test-secret"), "user-1", "ana@salonova.test", permissions, time.Hour)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return token
}

func TestSetTokenDecodesClaims(t *testing.T) {
	s := NewStore(&notify.Recorder{})
	s.SetToken(testToken(t, []string{"manage:catalog", "view:audits"}))

	if !s.Active() {
		t.Fatal("session not active after SetToken")
	}
	if s.UserID() != "user-1" {
		t.Errorf("UserID = %q, want user-1", s.UserID())
	}
	if s.Email() != "ana@salonova.test" {
		t.Errorf("Email = %q", s.Email())
	}
	if !s.HasPermission("manage:catalog") || !s.HasPermission("view:audits") {
		t.Error("granted permissions not decoded")
	}
	if s.HasPermission("manage:users") {
		t.Error("ungranted permission reported present")
	}
}

func TestSetTokenKeepsUndecodableToken(t *testing.T) {
	s := NewStore(&notify.Recorder{})
	s.SetToken("not-a-jwt")

	if s.Token() != "not-a-jwt" {
		t.Error("opaque token dropped; the backend decides what it grants")
	}
	if s.HasPermission("anything") {
		t.Error("permissions granted from an undecodable token")
	}
}

func TestLogoutClearsSilently(t *testing.T) {
	rec := &notify.Recorder{}
	s := NewStore(rec)
	s.SetToken(testToken(t, nil))

	s.Logout()
	if s.Active() || s.UserID() != "" {
		t.Error("session survived Logout")
	}
	if len(rec.Messages()) != 0 {
		t.Errorf("Logout notified: %v", rec.Messages())
	}
}

func TestExpireNotifiesOnce(t *testing.T) {
	rec := &notify.Recorder{}
	s := NewStore(rec)
	s.SetToken(testToken(t, nil))

	// Overlapping rejected requests each invoke the hook.
	s.Expire()
	s.Expire()
	s.Expire()

	if s.Active() {
		t.Error("session survived Expire")
	}
	msgs := rec.Messages()
	if len(msgs) != 1 {
		t.Fatalf("notifications = %v, want exactly one", msgs)
	}
	if msgs[0] != "La sesión ha expirado, inicie sesión nuevamente" {
		t.Errorf("message = %q", msgs[0])
	}
}

func TestOnChangeFires(t *testing.T) {
	s := NewStore(&notify.Recorder{})
	changes := 0
	s.OnChange(func() { changes++ })

	s.SetToken(testToken(t, nil))
	s.Logout()
	s.Logout() // already cleared, no change

	if changes != 2 {
		t.Errorf("change callbacks = %d, want 2", changes)
	}
}
