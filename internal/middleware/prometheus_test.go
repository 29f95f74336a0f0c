// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/menurec/internal/metrics"
)

func TestPrometheusMetrics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		method   string
		path     string
		status   int
		wantPath string
		wantCode string
	}{
		{name: "known route", method: http.MethodGet, path: "/test-known", status: http.StatusOK, wantPath: "/test-known", wantCode: "200"},
		{name: "explicit error status", method: http.MethodPost, path: "/test-known", status: http.StatusInternalServerError, wantPath: "/test-known", wantCode: "500"},
		{name: "pattern not raw path", method: http.MethodGet, path: "/test-items/42", status: http.StatusAccepted, wantPath: "/test-items/{id}", wantCode: "202"},
		{name: "unknown route", method: http.MethodDelete, path: "/test-unknown/123", status: http.StatusNotFound, wantPath: OtherPath, wantCode: "404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			counter := metrics.APIRequestsTotal.WithLabelValues(tt.method, tt.wantPath, tt.wantCode)
			before := testutil.ToFloat64(counter)

			r := chi.NewRouter()
			r.Use(PrometheusMetrics)
			r.HandleFunc("/test-known", func(w http.ResponseWriter, _ *http.Request) {
				if tt.status == http.StatusOK {
					_, _ = w.Write([]byte("ok"))
					return
				}
				w.WriteHeader(tt.status)
			})
			r.Get("/test-items/{id}", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("requests{%s %s %s} delta = %v, want 1", tt.method, tt.wantPath, tt.wantCode, got)
			}
		})
	}
}

func TestPrometheusMetrics_OutsideRouter(t *testing.T) {
	t.Parallel()

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, OtherPath, "200")
	before := testutil.ToFloat64(counter)

	h := PrometheusMetrics(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/anything", nil))

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("delta = %v, want 1", got)
	}
}
