// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request hardening.
package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/sandeshshrestha/studio-go/internal/auth"
	"github.com/sandeshshrestha/studio-go/internal/model"
	"github.com/sandeshshrestha/studio-go/internal/service"
	"github.com/sandeshshrestha/studio-go/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped data.
const (
	ContextKeyIdentity    ContextKey = "identity"
	ContextKeyRequestPath ContextKey = "request_path"
)

// SessionKeyAccountID stores the logged-in account's ID.
const SessionKeyAccountID = "account_id"

// Identity is the resolved admin identity for a request: the credential
// account plus its admin directory entry. Both must exist; an account
// without a directory entry has no back-office access.
type Identity struct {
	Account model.Account
	Admin   model.AdminUser
}

// RequireAuth requires a logged-in session and redirects to login otherwise.
func RequireAuth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID := sm.GetInt64(r.Context(), SessionKeyAccountID)
			if accountID == 0 {
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LoadIdentity loads the account and its admin directory entry into the
// request context. A session pointing at a deleted account or a revoked
// directory entry is destroyed and sent back to login.
func LoadIdentity(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID := sm.GetInt64(r.Context(), SessionKeyAccountID)
			if accountID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			account, err := queries.GetAccountByID(r.Context(), accountID)
			if err != nil {
				_ = sm.Destroy(r.Context())
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}

			admin, err := queries.GetAdminUserByEmail(r.Context(), account.Email)
			if err != nil {
				// Access was revoked since login
				slog.Warn("session without admin access destroyed",
					"account_id", account.ID,
					"email", account.Email,
				)
				_ = sm.Destroy(r.Context())
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyIdentity, Identity{
				Account: account,
				Admin:   admin,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the current identity from the request context.
// Returns nil if the request is not authenticated.
func GetIdentity(r *http.Request) *Identity {
	id, ok := r.Context().Value(ContextKeyIdentity).(Identity)
	if !ok {
		return nil
	}
	return &id
}

// GetAccountID returns the current account's ID, or 0 if not authenticated.
func GetAccountID(r *http.Request) int64 {
	if id := GetIdentity(r); id != nil {
		return id.Account.ID
	}
	return 0
}

// GetAccountIDPtr returns a pointer to the current account's ID, or nil.
// Useful for optional account parameters in event logging.
func GetAccountIDPtr(r *http.Request) *int64 {
	if id := GetIdentity(r); id != nil {
		accountID := id.Account.ID
		return &accountID
	}
	return nil
}

// RequireAction requires the current identity's role to permit an action.
// Emits a 403 and an audit event on refusal.
func RequireAction(action auth.Action, eventService *service.EventService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r)
			if identity == nil {
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}

			if !auth.CanPerform(identity.Admin.Role, action) {
				slog.Warn("access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"account_id", identity.Account.ID,
					"role", identity.Admin.Role,
					"action", string(action),
				)

				if eventService != nil {
					accountID := identity.Account.ID
					metadata := map[string]any{
						"method": r.Method,
						"path":   r.URL.Path,
						"role":   identity.Admin.Role,
						"action": string(action),
					}
					_ = eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
						"Access denied: insufficient permissions", &accountID, metadata)
				}

				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestPath stores the request path in the context for error logging.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
