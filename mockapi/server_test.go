package mockapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salonova/models"
	"salonova/utils"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewServer(testSecret).Router())
	t.Cleanup(ts.Close)
	return ts
}

func tokenFor(t *testing.T, userID, email string) string {
	t.Helper()
	token, err := utils.GenerateToken([]byte(testSecret), userID, email, nil, time.Hour)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return token
}

func doRequest(t *testing.T, ts *httptest.Server, token, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp.StatusCode, buf.Bytes()
}

func decodeList[T any](t *testing.T, data []byte) ([]T, int) {
	t.Helper()
	var env struct {
		Data struct {
			Results []T `json:"results"`
			Total   int `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	return env.Data.Results, env.Data.Total
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	status, body := doRequest(t, ts, "", http.MethodPost, "/api/login",
		map[string]string{"email": SeedAdminEmail, "password": SeedAdminPassword})
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %s", status, body)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.Token == "" {
		t.Fatalf("no token in %s", body)
	}

	claims, err := utils.DecodeClaims(out.Token)
	if err != nil {
		t.Fatalf("decoding issued token: %v", err)
	}
	if claims.Subject != "user-1" || len(claims.Permissions) == 0 {
		t.Errorf("claims = %+v", claims)
	}

	status, _ = doRequest(t, ts, "", http.MethodPost, "/api/login",
		map[string]string{"email": SeedAdminEmail, "password": "wrong"})
	if status != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", status)
	}
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	for _, token := range []string{"", "garbage"} {
		status, _ := doRequest(t, ts, token, http.MethodGet, "/api/categories", nil)
		if status != http.StatusForbidden {
			t.Errorf("token %q: status = %d, want 403", token, status)
		}
	}
}

func TestListQuerySemantics(t *testing.T) {
	ts := newTestServer(t)
	token := tokenFor(t, "user-1", SeedAdminEmail)

	// Five seeded services ordered by price descending, skipping the first
	// two: 35000 and 25000.
	status, body := doRequest(t, ts, token, http.MethodGet,
		"/api/services?orderBy=price&orderType=DESC&offset=2&pageSize=2", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	results, total := decodeList[models.Service](t, body)
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(results) != 2 || results[0].Price != 35000 || results[1].Price != 25000 {
		t.Errorf("page = %+v", results)
	}

	// Free-text filter, case-insensitive, total reflects the filtered set.
	status, body = doRequest(t, ts, token, http.MethodGet,
		"/api/services?offset=0&pageSize=10&filter=gel", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	results, total = decodeList[models.Service](t, body)
	if total != 1 || len(results) != 1 || results[0].Name != "Uñas en gel" {
		t.Errorf("filtered = %+v (total %d)", results, total)
	}

	// Offset past the end yields an empty page with the real total.
	status, body = doRequest(t, ts, token, http.MethodGet,
		"/api/services?offset=50&pageSize=10", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	results, total = decodeList[models.Service](t, body)
	if total != 5 || len(results) != 0 {
		t.Errorf("past-the-end page = %+v (total %d)", results, total)
	}
}

func TestCreateDuplicateConflicts(t *testing.T) {
	ts := newTestServer(t)
	token := tokenFor(t, "user-1", SeedAdminEmail)

	status, _ := doRequest(t, ts, token, http.MethodPost, "/api/categories",
		map[string]string{"name": "Manicure"})
	if status != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want 409", status)
	}

	status, _ = doRequest(t, ts, token, http.MethodPost, "/api/categories",
		map[string]string{"name": "Depilación"})
	if status != http.StatusCreated {
		t.Errorf("create status = %d, want 201", status)
	}
}

func TestResourceRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	token := tokenFor(t, "user-1", SeedAdminEmail)

	status, body := doRequest(t, ts, token, http.MethodPost, "/api/categories",
		map[string]string{"name": "Pestañas", "description": "Extensiones"})
	if status != http.StatusCreated {
		t.Fatalf("create status = %d", status)
	}
	var created models.Category
	if err := json.Unmarshal(body, &created); err != nil || created.ID == "" {
		t.Fatalf("created = %s", body)
	}

	status, body = doRequest(t, ts, token, http.MethodPatch, "/api/categories/"+created.ID,
		map[string]string{"description": "Extensiones y lifting"})
	if status != http.StatusOK {
		t.Fatalf("patch status = %d", status)
	}
	var patched models.Category
	if err := json.Unmarshal(body, &patched); err != nil {
		t.Fatal(err)
	}
	if patched.Name != "Pestañas" || patched.Description != "Extensiones y lifting" {
		t.Errorf("patch merged wrong: %+v", patched)
	}

	status, _ = doRequest(t, ts, token, http.MethodDelete, "/api/categories/"+created.ID, nil)
	if status != http.StatusOK {
		t.Fatalf("delete status = %d", status)
	}
	status, _ = doRequest(t, ts, token, http.MethodGet, "/api/categories/"+created.ID, nil)
	if status != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", status)
	}
}

func TestAvailabilityAndCapacity(t *testing.T) {
	ts := newTestServer(t)
	token := tokenFor(t, "user-4", SeedClientEmail)

	slot := "2026-09-20T10:00:00Z"
	availability := func() bool {
		status, body := doRequest(t, ts, token, http.MethodGet,
			"/api/appointments/rearrange?package=pkg-1&datetime="+slot, nil)
		if status != http.StatusOK {
			t.Fatalf("availability status = %d", status)
		}
		var out struct {
			Available bool `json:"available"`
		}
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatal(err)
		}
		return out.Available
	}

	if !availability() {
		t.Fatal("empty slot reported unavailable")
	}

	// Three active workstations: the third overlapping appointment fills the
	// slot, the fourth is rejected.
	for i := 0; i < 3; i++ {
		status, body := doRequest(t, ts, token, http.MethodPost, "/api/appointments",
			map[string]string{"datetimeStart": slot, "package": "pkg-1"})
		if status != http.StatusCreated {
			t.Fatalf("create %d status = %d, body %s", i, status, body)
		}
	}
	if availability() {
		t.Error("full slot reported available")
	}
	status, _ := doRequest(t, ts, token, http.MethodPost, "/api/appointments",
		map[string]string{"datetimeStart": slot, "package": "pkg-1"})
	if status != http.StatusConflict {
		t.Errorf("overbooked create status = %d, want 409", status)
	}
}

func TestRearrangeMovesAppointment(t *testing.T) {
	ts := newTestServer(t)
	token := tokenFor(t, "user-1", SeedAdminEmail)

	newStart := "2026-09-21T09:00:00Z"
	status, body := doRequest(t, ts, token, http.MethodPatch, "/api/appointments/rearrange/appt-1",
		map[string]string{"datetimeStart": newStart})
	if status != http.StatusOK {
		t.Fatalf("rearrange status = %d, body %s", status, body)
	}

	_, body = doRequest(t, ts, token, http.MethodGet, "/api/appointments?offset=0&pageSize=10", nil)
	appts, _ := decodeList[models.Appointment](t, body)
	var moved *models.Appointment
	for i := range appts {
		if appts[i].ID == "appt-1" {
			moved = &appts[i]
		}
	}
	if moved == nil {
		t.Fatal("appt-1 missing from list")
	}
	want, _ := time.Parse(time.RFC3339, newStart)
	if !moved.DatetimeStart.Equal(want) {
		t.Errorf("DatetimeStart = %v, want %v", moved.DatetimeStart, want)
	}
	if !moved.Details[0].DatetimeStart.Equal(want) {
		t.Errorf("detail start not shifted: %v", moved.Details[0].DatetimeStart)
	}
}

func TestUpdateDetailReassigns(t *testing.T) {
	ts := newTestServer(t)
	token := tokenFor(t, "user-1", SeedAdminEmail)

	status, body := doRequest(t, ts, token, http.MethodPatch, "/api/details/det-1",
		map[string]string{"employee": "user-3", "workstation": "ws-3"})
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %s", status, body)
	}
	var detail models.Detail
	if err := json.Unmarshal(body, &detail); err != nil {
		t.Fatal(err)
	}
	if detail.Employee == nil || detail.Employee.ID != "user-3" {
		t.Errorf("employee = %+v", detail.Employee)
	}
	if detail.Workstation == nil || detail.Workstation.ID != "ws-3" {
		t.Errorf("workstation = %+v", detail.Workstation)
	}

	status, _ = doRequest(t, ts, token, http.MethodPatch, "/api/details/nope",
		map[string]string{"employee": "user-3"})
	if status != http.StatusNotFound {
		t.Errorf("unknown detail status = %d, want 404", status)
	}
}

func TestPaymentRecomputesPending(t *testing.T) {
	ts := newTestServer(t)
	token := tokenFor(t, "user-1", SeedAdminEmail)

	// appt-1 totals 15000 with nothing paid; one full payment settles it.
	status, body := doRequest(t, ts, token, http.MethodPost, "/api/payments",
		map[string]any{"appointment": "appt-1", "amount": 15000.0, "method": models.PaymentCard})
	if status != http.StatusCreated {
		t.Fatalf("payment status = %d, body %s", status, body)
	}

	_, body = doRequest(t, ts, token, http.MethodGet, "/api/appointments?offset=0&pageSize=10", nil)
	appts, _ := decodeList[models.Appointment](t, body)
	for _, a := range appts {
		if a.ID != "appt-1" {
			continue
		}
		if a.PendingPayment != 0 {
			t.Errorf("PendingPayment = %v, want 0", a.PendingPayment)
		}
		if a.State != models.AppointmentCompleted {
			t.Errorf("State = %s, want %s", a.State, models.AppointmentCompleted)
		}
		return
	}
	t.Fatal("appt-1 missing from list")
}

func TestMyAppointmentsScopedToCaller(t *testing.T) {
	ts := newTestServer(t)

	clientToken := tokenFor(t, "user-4", SeedClientEmail)
	_, body := doRequest(t, ts, clientToken, http.MethodGet, "/api/appointments/mine?offset=0&pageSize=10", nil)
	_, total := decodeList[models.Appointment](t, body)
	if total != 2 {
		t.Errorf("client sees %d appointments, want the 2 seeded ones", total)
	}

	adminToken := tokenFor(t, "user-1", SeedAdminEmail)
	_, body = doRequest(t, ts, adminToken, http.MethodGet, "/api/appointments/mine?offset=0&pageSize=10", nil)
	_, total = decodeList[models.Appointment](t, body)
	if total != 0 {
		t.Errorf("admin sees %d own appointments, want 0", total)
	}
}

func TestStatistics(t *testing.T) {
	ts := newTestServer(t)
	token := tokenFor(t, "user-1", SeedAdminEmail)
	window := "?from=2026-09-01&to=2026-09-30"

	status, body := doRequest(t, ts, token, http.MethodGet, "/api/statistics/days"+window, nil)
	if status != http.StatusOK {
		t.Fatalf("days status = %d", status)
	}
	var days []models.DayStat
	if err := json.Unmarshal(body, &days); err != nil {
		t.Fatal(err)
	}
	if len(days) != 1 || days[0].Date != "2026-09-10" || days[0].Count != 2 {
		t.Errorf("days = %+v", days)
	}

	status, body = doRequest(t, ts, token, http.MethodGet, "/api/statistics/payment-methods"+window, nil)
	if status != http.StatusOK {
		t.Fatalf("methods status = %d", status)
	}
	var methods []models.PaymentMethodStat
	if err := json.Unmarshal(body, &methods); err != nil {
		t.Fatal(err)
	}
	if len(methods) != 1 || methods[0].Method != models.PaymentCash || methods[0].Amount != 45000 {
		t.Errorf("methods = %+v", methods)
	}

	status, body = doRequest(t, ts, token, http.MethodGet, "/api/statistics/professionals"+window, nil)
	if status != http.StatusOK {
		t.Fatalf("professionals status = %d", status)
	}
	var pros []models.ProfessionalStat
	if err := json.Unmarshal(body, &pros); err != nil {
		t.Fatal(err)
	}
	if len(pros) != 2 {
		t.Errorf("professionals = %+v", pros)
	}

	status, body = doRequest(t, ts, token, http.MethodGet, "/api/statistics/categories"+window, nil)
	if status != http.StatusOK {
		t.Fatalf("categories status = %d", status)
	}
	var cats []models.CategoryStat
	if err := json.Unmarshal(body, &cats); err != nil {
		t.Fatal(err)
	}
	if len(cats) != 2 { // Manicure and Peluquería from the seeded details
		t.Errorf("categories = %+v", cats)
	}
}
