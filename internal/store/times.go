// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// timeLayout is the canonical TEXT rendering for timestamp columns.
// Always UTC and fixed width (zero-padded nanoseconds), so string
// equality holds for the updated_at precondition and string ordering
// matches chronological ordering for range comparisons, regardless of
// how a driver would serialize time.Time itself.
const timeLayout = "2006-01-02 15:04:05.000000000"

// timeArg renders a timestamp for binding into a query. Every
// timestamp written or compared by this package goes through it;
// binding a raw time.Time would leave the stored text at the driver's
// mercy and break the precondition match on re-bind.
func timeArg(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// nullTimeArg renders an optional timestamp, binding NULL when unset.
func nullTimeArg(t sql.NullTime) any {
	if !t.Valid {
		return nil
	}
	return timeArg(t.Time)
}
