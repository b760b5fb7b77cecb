package grid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(Config{Endpoint: srv.URL}), srv
}

func TestFetchStage(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		_, _ = w.Write([]byte("4\n"))
	})
	defer srv.Close()

	stage, err := c.FetchStage(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if stage != 4 {
		t.Fatalf("expected stage 4, got %d", stage)
	}
}

func TestFetchStageNonNumeric(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	})
	defer srv.Close()

	if _, err := c.FetchStage(context.Background()); err == nil {
		t.Fatalf("non-numeric body accepted")
	}
}

func TestFetchStageHTTPError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	if _, err := c.FetchStage(context.Background()); err == nil {
		t.Fatalf("non-2xx accepted")
	}
}

func TestFetchStageOutOfRange(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("12"))
	})
	defer srv.Close()

	if _, err := c.FetchStage(context.Background()); err == nil {
		t.Fatalf("out-of-range stage accepted")
	}
}

func TestFetchStageUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := NewClient(Config{Endpoint: srv.URL})
	srv.Close()

	if _, err := c.FetchStage(context.Background()); err == nil {
		t.Fatalf("unreachable endpoint accepted")
	}
}
