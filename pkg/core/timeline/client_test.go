package timeline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const sampleResponse = `{
  "monthly": {"type": "monthly", "total_periods": 2, "start_date": "2025-01-01", "end_date": "2025-02-28",
    "columns": [{"period": 1, "month_end": "31-Jan-25"}, {"period": 2, "month_end": "28-Feb-25"}],
    "rows": [{"field_name": "Monthly period", "values": [1, 2]}]},
  "quarterly": {"type": "quarterly", "total_periods": 100, "start_date": "2025-01-01", "end_date": "2053-01-31", "columns": [], "rows": []},
  "metadata": {"project_start": "2025-01-01"}
}`

func TestClient_Generate(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/generate-timelines" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %s", ct)
		}
		json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/")
	resp, err := client.Generate(context.Background(), DefaultInputs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if received["model_start_date"] != "2025-01-01" || received["tenor_of_ppa"] != 25.0 || received["months_in_quarterly_period"] != 3.0 {
		t.Errorf("inputs not forwarded: %v", received)
	}
	if _, ok := received["financial_close_date"]; ok {
		t.Error("empty optional date should be omitted")
	}

	monthly, err := resp.Grid("monthly")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if monthly.TotalPeriods != 2 || len(monthly.Columns) != 2 || monthly.EndDate != "2025-02-28" {
		t.Errorf("unexpected monthly grid: %+v", monthly)
	}
	if monthly.Rows[0]["field_name"] != "Monthly period" {
		t.Errorf("unexpected row: %v", monthly.Rows[0])
	}
	if _, err := resp.Grid("annual"); err == nil {
		t.Error("expected error for missing grid")
	}

	if got := strings.Join(resp.Names(), ","); got != "metadata,monthly,quarterly" {
		t.Errorf("unexpected names: %s", got)
	}
}

func TestClient_GenerateForwardsRawPayload(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	payload := map[string]interface{}{"model_start_date": "2026-01-01", "custom_flag": true}
	if _, err := NewClient(srv.URL).Generate(context.Background(), payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["custom_flag"] != true || body["model_start_date"] != "2026-01-01" {
		t.Errorf("payload altered: %v", body)
	}
}

func TestClient_GenerateNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"construction_period missing"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Generate(context.Background(), Inputs{})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %v", err)
	}
	if reqErr.Status != http.StatusUnprocessableEntity {
		t.Errorf("unexpected status %d", reqErr.Status)
	}
	want := `Backend API error: 422 - {"detail":"construction_period missing"}`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestClient_GenerateHTMLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html><head><title>x</title><style>body{}</style></head><body><h1>502 Bad Gateway</h1>
<p>upstream   timed out</p></body></html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Generate(context.Background(), Inputs{})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "Backend API error: 502 - 502 Bad Gateway upstream timed out" {
		t.Errorf("unexpected error text: %q", got)
	}
}

func TestClient_GenerateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, WithTimeout(time.Second)).Generate(context.Background(), Inputs{})
	if err == nil {
		t.Fatal("expected network error")
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		t.Error("network failure should not be a RequestError")
	}
}

func TestClient_GenerateCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewClient(srv.URL).Generate(ctx, Inputs{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"status":"healthy","timestamp":"2026-01-01T00:00:00"}`))
	}))
	defer srv.Close()

	status, err := NewClient(srv.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != "healthy" {
		t.Errorf("unexpected status %+v", status)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("")
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("expected default base URL, got %s", c.BaseURL())
	}
	hc := &http.Client{}
	c = NewClient("http://svc:9000/", WithHTTPClient(hc), WithTimeout(5*time.Second))
	if c.BaseURL() != "http://svc:9000" || c.httpClient != hc || hc.Timeout != 5*time.Second {
		t.Errorf("options not applied: %+v", c)
	}
}
