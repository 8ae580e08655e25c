package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"atlas-hq/gatewarden/pkg/admission"
	"atlas-hq/gatewarden/pkg/admission/audit"
	"atlas-hq/gatewarden/pkg/admission/capacity"
	"atlas-hq/gatewarden/pkg/config"
)

func testServer(t *testing.T) (*Server, *audit.MemorySink) {
	t.Helper()

	provider := capacity.NewStatic(capacity.Table{
		Tenants:  map[string]int64{"ACME": 10000},
		Paths:    map[string]int64{"/login": 5},
		Defaults: capacity.TableDefaults{Tenant: 100, User: 20, Path: 1000},
	})
	limiter := admission.New(admission.Config{Capacity: provider})
	sink := audit.NewMemorySink(100)
	return New(config.ServerConfig{ListenAddress: ":0"}, limiter, sink, nil), sink
}

func postCheck(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/check", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleCheck_Allowed(t *testing.T) {
	s, _ := testServer(t)
	handler := s.routes()

	rec := postCheck(t, handler, `{"ip":"1.2.3.4","identity":"alice","path":"/home","method":"GET","tenant_id":"ACME","event_time":1000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp checkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Allowed {
		t.Fatal("expected allowed decision")
	}
}

func TestHandleCheck_Denied(t *testing.T) {
	s, _ := testServer(t)
	handler := s.routes()

	// Anonymous POST on /login: effective capacity 5, cost 5. The second
	// call must be denied with 429.
	body := `{"ip":"9.9.9.9","path":"/login","method":"POST","tenant_id":"ACME","event_time":1000}`
	if rec := postCheck(t, handler, body); rec.Code != http.StatusOK {
		t.Fatalf("first call status = %d, want 200", rec.Code)
	}
	rec := postCheck(t, handler, body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second call status = %d, want 429", rec.Code)
	}

	var resp checkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Allowed || resp.Level != admission.LevelIdentity {
		t.Fatalf("unexpected decision: %+v", resp)
	}
}

func TestHandleCheck_InvalidInput(t *testing.T) {
	s, _ := testServer(t)
	handler := s.routes()

	if rec := postCheck(t, handler, `{not json`); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d, want 400", rec.Code)
	}

	rec := postCheck(t, handler, `{"ip":"1.2.3.4","path":"/home","method":"GET","tenant_id":"ACME","event_time":-5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("negative event time status = %d, want 400", rec.Code)
	}
}

func TestHandleCheck_WritesAudit(t *testing.T) {
	s, sink := testServer(t)
	handler := s.routes()

	postCheck(t, handler, `{"ip":"1.2.3.4","identity":"alice","path":"/home","method":"GET","tenant_id":"ACME","event_time":1000}`)

	records, err := sink.Recent(t.Context(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d audit records, want 1", len(records))
	}
	if records[0].Subject != "alice" || !records[0].Allowed {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestHandleAuditRecent(t *testing.T) {
	s, _ := testServer(t)
	handler := s.routes()

	postCheck(t, handler, `{"ip":"1.2.3.4","identity":"alice","path":"/home","method":"GET","tenant_id":"ACME","event_time":1000}`)

	req := httptest.NewRequest(http.MethodGet, "/v1/audit/recent", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var records []*audit.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
}

func TestHandleHealth(t *testing.T) {
	s, _ := testServer(t)
	handler := s.routes()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestMiddleware(t *testing.T) {
	provider := capacity.NewStatic(capacity.Table{
		Paths:    map[string]int64{"/login": 2},
		Defaults: capacity.TableDefaults{Tenant: 1000, User: 20, Path: 1000},
	})
	limiter := admission.New(admission.Config{Capacity: provider})

	var reached int
	gated := Middleware(limiter, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached++
	}))

	call := func() int {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.RemoteAddr = "7.7.7.7:1234"
		req.Header.Set(HeaderTenantID, "ACME")
		req.Header.Set(HeaderIdentity, "alice")
		rec := httptest.NewRecorder()
		gated.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := call(); code != http.StatusOK {
		t.Fatalf("first call status = %d, want 200", code)
	}
	if code := call(); code != http.StatusOK {
		t.Fatalf("second call status = %d, want 200", code)
	}
	if code := call(); code != http.StatusTooManyRequests {
		t.Fatalf("third call status = %d, want 429", code)
	}
	if reached != 2 {
		t.Fatalf("next handler reached %d times, want 2", reached)
	}
}
