package stores

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"salonova/backend"
	"salonova/models"
	"salonova/notify"
)

func testConfig() Config {
	return Config{
		Resource:       "/api/categories",
		Name:           "categories",
		DefaultOrderBy: "name",
		PageSize:       20,
		MsgConflict:    "La categoría ya existe",
		MsgCreated:     "Categoría creada correctamente",
	}
}

func TestFetchReplacesStateAndSetsPage(t *testing.T) {
	cl, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeList(w, []models.Category{{ID: "c1", Name: "Manicure"}}, 45)
	})
	st := New[models.Category](cl, &notify.Recorder{}, testConfig())

	if err := st.Fetch(context.Background(), 3); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	state := st.State()
	if state.CurrentPage != 3 {
		t.Errorf("CurrentPage = %d, want 3", state.CurrentPage)
	}
	if state.Total != 45 {
		t.Errorf("Total = %d, want 45", state.Total)
	}
	if got := st.TotalPages(); got != 3 {
		t.Errorf("TotalPages = %d, want 3", got)
	}
	if len(state.Items) != 1 || state.Items[0].Name != "Manicure" {
		t.Errorf("Items = %+v, want the fetched page", state.Items)
	}
	if state.IsLoading || state.Error != "" {
		t.Errorf("IsLoading/Error not cleared: %+v", state)
	}
}

func TestFetchSendsUniformQuery(t *testing.T) {
	var query map[string]string
	cl, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{
			"orderBy":   r.URL.Query().Get("orderBy"),
			"orderType": r.URL.Query().Get("orderType"),
			"offset":    r.URL.Query().Get("offset"),
			"pageSize":  r.URL.Query().Get("pageSize"),
			"filter":    r.URL.Query().Get("filter"),
		}
		writeList(w, []models.Category{}, 0)
	})
	st := New[models.Category](cl, &notify.Recorder{}, testConfig())
	ctx := context.Background()

	st.SetOrderBy(ctx, "description")
	st.SetOrderType(ctx, backend.OrderDesc)
	st.SetFilter(ctx, "gel")
	if err := st.Fetch(ctx, 3); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	want := map[string]string{
		"orderBy":   "description",
		"orderType": "DESC",
		"offset":    "40", // (3-1) * 20
		"pageSize":  "20",
		"filter":    "gel",
	}
	for k, v := range want {
		if query[k] != v {
			t.Errorf("query[%s] = %q, want %q", k, query[k], v)
		}
	}
}

func TestToggleSort(t *testing.T) {
	cl, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeList(w, []models.Category{}, 0)
	})
	st := New[models.Category](cl, &notify.Recorder{}, testConfig())
	ctx := context.Background()

	// Same field flips the direction, OrderBy unchanged.
	st.ToggleSort(ctx, "name")
	if s := st.State(); s.OrderBy != "name" || s.OrderType != backend.OrderDesc {
		t.Errorf("after first toggle: %s %s, want name DESC", s.OrderBy, s.OrderType)
	}
	st.ToggleSort(ctx, "name")
	if s := st.State(); s.OrderBy != "name" || s.OrderType != backend.OrderAsc {
		t.Errorf("after second toggle: %s %s, want name ASC", s.OrderBy, s.OrderType)
	}

	// A different field takes over and resets to ascending.
	st.ToggleSort(ctx, "name")
	st.ToggleSort(ctx, "description")
	if s := st.State(); s.OrderBy != "description" || s.OrderType != backend.OrderAsc {
		t.Errorf("after switching field: %s %s, want description ASC", s.OrderBy, s.OrderType)
	}
}

func TestFetchForbiddenExpiresSessionKeepsState(t *testing.T) {
	status := http.StatusOK
	cl, auth, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		writeList(w, []models.Category{{ID: "c1", Name: "Manicure"}}, 1)
	})
	st := New[models.Category](cl, &notify.Recorder{}, testConfig())
	ctx := context.Background()

	if err := st.Fetch(ctx, 1); err != nil {
		t.Fatalf("priming fetch: %v", err)
	}

	status = http.StatusForbidden
	err := st.Fetch(ctx, 2)
	if !errors.Is(err, backend.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
	if auth.expiredCount() != 1 {
		t.Errorf("expire hook called %d times, want 1", auth.expiredCount())
	}

	state := st.State()
	if state.Error != "" {
		t.Errorf("Error = %q, want empty after 403", state.Error)
	}
	if len(state.Items) != 1 {
		t.Errorf("Items mutated on 403: %+v", state.Items)
	}
	if state.CurrentPage != 1 {
		t.Errorf("CurrentPage = %d, want untouched 1", state.CurrentPage)
	}
}

func TestFetchFailureKeepsStaleItems(t *testing.T) {
	status := http.StatusOK
	cl, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, `{"error":"boom"}`, status)
			return
		}
		writeList(w, []models.Category{{ID: "c1", Name: "Manicure"}}, 1)
	})
	st := New[models.Category](cl, &notify.Recorder{}, testConfig())
	ctx := context.Background()

	if err := st.Fetch(ctx, 1); err != nil {
		t.Fatalf("priming fetch: %v", err)
	}

	status = http.StatusInternalServerError
	if err := st.Fetch(ctx, 2); err == nil {
		t.Fatal("expected an error")
	}

	state := st.State()
	if state.Error != FetchErrorMessage {
		t.Errorf("Error = %q, want %q", state.Error, FetchErrorMessage)
	}
	if len(state.Items) != 1 {
		t.Errorf("stale items dropped: %+v", state.Items)
	}
}

func TestCreateConflictNotifiesAndSkipsRefetch(t *testing.T) {
	cl, _, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusConflict)
			return
		}
		writeList(w, []models.Category{}, 0)
	})
	rec := &notify.Recorder{}
	st := New[models.Category](cl, rec, testConfig())

	err := st.Create(context.Background(), models.Category{Name: "Manicure"})
	if !errors.Is(err, backend.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	msgs := rec.Messages()
	if len(msgs) != 1 || msgs[0] != "La categoría ya existe" {
		t.Errorf("notifications = %v, want the conflict message", msgs)
	}
	for _, e := range log.list() {
		if e == "GET /api/categories" {
			t.Errorf("re-fetch issued after 409: %v", log.list())
		}
	}
}

func TestMutationsRefetchInFull(t *testing.T) {
	cases := []struct {
		name string
		call func(st *EntityStore[models.Category]) error
		want []string
	}{
		{
			"create",
			func(st *EntityStore[models.Category]) error {
				return st.Create(context.Background(), models.Category{Name: "Pedicure"})
			},
			[]string{"POST /api/categories", "GET /api/categories"},
		},
		{
			"update",
			func(st *EntityStore[models.Category]) error {
				return st.Update(context.Background(), "c1", map[string]string{"name": "Pedicure"})
			},
			[]string{"PATCH /api/categories/c1", "GET /api/categories"},
		},
		{
			"delete",
			func(st *EntityStore[models.Category]) error {
				return st.Delete(context.Background(), "c1")
			},
			[]string{"DELETE /api/categories/c1", "GET /api/categories"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cl, _, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodGet {
					writeList(w, []models.Category{}, 0)
					return
				}
				w.WriteHeader(http.StatusOK)
			})
			st := New[models.Category](cl, &notify.Recorder{}, testConfig())

			if err := tc.call(st); err != nil {
				t.Fatalf("%s: %v", tc.name, err)
			}
			got := log.list()
			if len(got) != len(tc.want) {
				t.Fatalf("requests = %v, want %v", got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("request %d = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestAuditSettersRefetchImmediately(t *testing.T) {
	cfg := testConfig()
	cfg.Resource = "/api/audits"
	cfg.RefetchOnSet = true

	cl, _, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeList(w, []models.AuditRecord{}, 0)
	})
	st := New[models.AuditRecord](cl, &notify.Recorder{}, cfg)
	ctx := context.Background()

	st.SetOrderBy(ctx, "action")
	st.SetFilter(ctx, "cita")
	st.ToggleSort(ctx, "action")

	if got := len(log.list()); got != 3 {
		t.Errorf("setters issued %d fetches, want 3", got)
	}
}

func TestPlainSettersDoNotFetch(t *testing.T) {
	cl, _, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeList(w, []models.Category{}, 0)
	})
	st := New[models.Category](cl, &notify.Recorder{}, testConfig())
	ctx := context.Background()

	st.SetOrderBy(ctx, "description")
	st.SetOrderType(ctx, backend.OrderDesc)
	st.SetFilter(ctx, "gel")
	st.ToggleSort(ctx, "name")

	if got := len(log.list()); got != 0 {
		t.Errorf("setters issued %d fetches, want 0 (presentation layer re-fetches)", got)
	}
}

func TestPageClamping(t *testing.T) {
	cl, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeList(w, []models.Category{}, 45)
	})
	st := New[models.Category](cl, &notify.Recorder{}, testConfig())
	ctx := context.Background()

	if err := st.Fetch(ctx, 3); err != nil { // last page (45 / 20)
		t.Fatalf("Fetch: %v", err)
	}
	if err := st.NextPage(ctx); err != nil {
		t.Fatalf("NextPage: %v", err)
	}
	if got := st.State().CurrentPage; got != 3 {
		t.Errorf("NextPage past the end moved to %d, want clamp at 3", got)
	}

	if err := st.Fetch(ctx, 1); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if err := st.PrevPage(ctx); err != nil {
		t.Fatalf("PrevPage: %v", err)
	}
	if got := st.State().CurrentPage; got != 1 {
		t.Errorf("PrevPage before the start moved to %d, want clamp at 1", got)
	}
}
