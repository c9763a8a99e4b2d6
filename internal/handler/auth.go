// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/sandeshshrestha/studio-go/internal/auth"
	"github.com/sandeshshrestha/studio-go/internal/middleware"
	"github.com/sandeshshrestha/studio-go/internal/model"
	"github.com/sandeshshrestha/studio-go/internal/render"
	"github.com/sandeshshrestha/studio-go/internal/service"
	"github.com/sandeshshrestha/studio-go/internal/store"
)

// defaultAdminName is the display name written on gate records ensured
// during registration; users can change it later on the users screen.
const defaultAdminName = "Studio Admin"

// minPasswordLength is the minimum accepted password length at registration.
const minPasswordLength = 8

// AuthHandler handles authentication routes.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
	allowlist       auth.Allowlist
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection, allowlist auth.Allowlist) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		eventService:    service.NewEventService(db),
		loginProtection: lp,
		allowlist:       allowlist,
	}
}

// LoginForm renders the login page.
// Already-authenticated admins are sent straight to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if accountID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyAccountID); accountID > 0 {
		if _, err := h.queries.GetAccountByID(r.Context(), accountID); err == nil {
			http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
			return
		}
	}

	if err := h.renderer.Render(w, r, "auth/login", render.TemplateData{Title: "Sign In"}); err != nil {
		logAndInternalError(w, "failed to render login page", "error", err)
	}
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	email := auth.NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, "Email and password are required")
		return
	}

	// Check if account is locked
	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login attempt on locked account", nil, map[string]any{"email": email, "ip": clientIP(r)})
			flashError(w, r, h.renderer, redirectLogin, fmt.Sprintf("Too many failed attempts. Try again in %s", formatDuration(remaining)))
			return
		}
	}

	account, err := h.queries.GetAccountByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Debug("login attempt for unknown account", "email", email)
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login failed: account not found", nil, map[string]any{"email": email, "ip": clientIP(r)})
		} else {
			slog.Error("database error during login", "error", err)
		}
		// Record failed attempt even for unknown accounts to prevent enumeration
		h.failLogin(w, r, email)
		return
	}

	valid, err := auth.CheckPassword(password, account.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err)
		flashError(w, r, h.renderer, redirectLogin, "Invalid email or password")
		return
	}
	if !valid {
		slog.Debug("invalid password attempt", "email", email)
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login failed: invalid password", &account.ID, map[string]any{"email": email, "ip": clientIP(r)})
		h.failLogin(w, r, email)
		return
	}

	// The credentials are good, but the back office is gated on a
	// separate admin_users record. No record means no access.
	admin, err := h.queries.GetAdminUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login denied: no admin access", &account.ID, map[string]any{"email": email, "ip": clientIP(r)})
			_ = h.sessionManager.Destroy(r.Context())
			flashError(w, r, h.renderer, redirectLogin, "Access denied: this account has no admin access")
			return
		}
		logAndInternalError(w, "database error loading admin record", "error", err)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	// Re-hash password if it uses old/expensive parameters
	if auth.NeedsRehash(account.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := h.queries.UpdateAccountPassword(r.Context(), account.ID, newHash, time.Now()); err != nil {
				slog.Error("failed to re-hash password", "error", err, "account_id", account.ID)
			} else {
				slog.Info("password re-hashed with updated parameters", "account_id", account.ID)
			}
		}
	}

	now := time.Now()
	if err := h.queries.UpdateAccountLastLogin(r.Context(), account.ID, now); err != nil {
		slog.Error("failed to update last login time", "error", err, "account_id", account.ID)
		// Don't block login on this error
	}
	if err := h.queries.UpdateAdminUserLastLogin(r.Context(), admin.ID, now); err != nil {
		slog.Error("failed to update admin last login time", "error", err, "admin_id", admin.ID)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyAccountID, account.ID)

	slog.Info("admin logged in", "account_id", account.ID, "email", account.Email, "role", admin.Role)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "Admin logged in", &account.ID, map[string]any{"email": account.Email, "ip": clientIP(r)})

	flashSuccess(w, r, h.renderer, redirectAdmin, fmt.Sprintf("Welcome back, %s", admin.Name))
}

// failLogin records a failed attempt and flashes the matching message.
func (h *AuthHandler) failLogin(w http.ResponseWriter, r *http.Request, email string) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Account locked due to failed attempts", nil, map[string]any{"email": email, "duration": lockDuration.String()})
			flashError(w, r, h.renderer, redirectLogin, fmt.Sprintf("Too many failed attempts. Try again in %s", formatDuration(lockDuration)))
			return
		}
		remaining := h.loginProtection.GetRemainingAttempts(email)
		if remaining <= 3 && remaining > 0 {
			flashError(w, r, h.renderer, redirectLogin, fmt.Sprintf("Invalid email or password. %d attempts remaining", remaining))
			return
		}
	}
	flashError(w, r, h.renderer, redirectLogin, "Invalid email or password")
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "auth/register", render.TemplateData{Title: "Register"}); err != nil {
		logAndInternalError(w, "failed to render register page", "error", err)
	}
}

// Register handles the registration form submission. Registration is
// restricted to allowlisted addresses; an existing account still gets
// its admin_users gate record ensured so a stranded admin can recover.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectRegister) {
		return
	}

	email := auth.NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("password_confirm")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectRegister, "Email and password are required")
		return
	}
	if !isValidEmail(email) {
		flashError(w, r, h.renderer, redirectRegister, "Invalid email address")
		return
	}
	if len(password) < minPasswordLength {
		flashError(w, r, h.renderer, redirectRegister, fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
		return
	}
	if password != confirm {
		flashError(w, r, h.renderer, redirectRegister, "Passwords do not match")
		return
	}

	if !h.allowlist.Contains(email) {
		slog.Warn("registration attempt for non-allowlisted email", "email", email)
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Registration denied: email not allowlisted", nil, map[string]any{"email": email, "ip": clientIP(r)})
		flashError(w, r, h.renderer, redirectRegister, "Registration is restricted to invited addresses")
		return
	}

	if existing, err := h.queries.GetAccountByEmail(r.Context(), email); err == nil {
		// Account exists: make sure the gate record does too, then
		// point the user at the login form.
		if _, err := h.queries.EnsureAdminUser(r.Context(), email, defaultAdminName); err != nil {
			slog.Error("failed to ensure admin record", "error", err, "account_id", existing.ID)
		}
		flashAndRedirect(w, r, h.renderer, redirectLogin, "An account with this email already exists. Try logging in", "info")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		logAndInternalError(w, "database error during registration", "error", err)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logAndInternalError(w, "failed to hash password", "error", err)
		return
	}

	now := time.Now()
	account, err := h.queries.CreateAccount(r.Context(), store.CreateAccountParams{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create account", "error", err)
		return
	}
	if _, err := h.queries.EnsureAdminUser(r.Context(), email, defaultAdminName); err != nil {
		logAndInternalError(w, "failed to create admin record", "error", err, "account_id", account.ID)
		return
	}

	slog.Info("admin account registered", "account_id", account.ID, "email", email)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "Admin account registered", &account.ID, map[string]any{"email": email})

	flashSuccess(w, r, h.renderer, redirectLogin, "Account created. Please sign in")
}

// Logout handles logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	accountID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyAccountID)

	// Log the event before destroying the session
	if accountID > 0 {
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "Admin logged out", &accountID, nil)
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("admin logged out", "account_id", accountID)
	flashAndRedirect(w, r, h.renderer, redirectLogin, "You have been logged out", "info")
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
