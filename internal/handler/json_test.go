// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	return resp
}

func TestWriteJSONError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		message    string
	}{
		{"bad request", http.StatusBadRequest, "Invalid input"},
		{"not found", http.StatusNotFound, "Resource not found"},
		{"service unavailable", http.StatusServiceUnavailable, "Not configured"},
		{"empty message", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeJSONError(rec, tt.statusCode, tt.message)

			if rec.Code != tt.statusCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.statusCode)
			}

			resp := decodeJSONBody(t, rec)
			if success, _ := resp["success"].(bool); success {
				t.Error("success should be false")
			}
			if msg, _ := resp["error"].(string); msg != tt.message {
				t.Errorf("error = %q, want %q", msg, tt.message)
			}
		})
	}
}

func TestWriteJSONSuccess(t *testing.T) {
	t.Run("with data", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeJSONSuccess(rec, map[string]any{"excerpt": "short", "tags": []string{"a", "b"}})

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		resp := decodeJSONBody(t, rec)
		if success, _ := resp["success"].(bool); !success {
			t.Error("success should be true")
		}
		if excerpt, _ := resp["excerpt"].(string); excerpt != "short" {
			t.Errorf("excerpt = %q, want %q", excerpt, "short")
		}
	})

	t.Run("nil data still reports success", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeJSONSuccess(rec, nil)

		resp := decodeJSONBody(t, rec)
		if success, _ := resp["success"].(bool); !success {
			t.Error("success should be true")
		}
	})
}
