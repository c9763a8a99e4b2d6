package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
)

// New creates a session manager backed by the SQLite sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := configure(isDev)
	sm.Store = sqlite3store.New(db)
	return sm
}

// NewMemory creates a session manager with an in-process store, used
// when the database is not SQLite.
func NewMemory(isDev bool) *scs.SessionManager {
	sm := configure(isDev)
	sm.Store = memstore.New()
	return sm
}

func configure(isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only
	return sm
}
