// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves submitter IPs to countries using a MaxMind
// GeoLite2-Country database. Used to annotate contact submissions.
package geoip

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

// Resolver handles IP to country lookup. It reloads the database when the
// file on disk changes, so GeoLite2 updates do not require a restart.
type Resolver struct {
	db        *maxminddb.Reader
	dbPath    string
	dbModTime time.Time
	enabled   bool
	mu        sync.RWMutex
}

// countryRecord matches the GeoLite2-Country database structure.
type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// NewResolver creates a resolver for the given database path. An empty
// path disables lookups; a missing or unreadable database returns an
// error so the caller can log it, with lookups disabled.
func NewResolver(dbPath string) (*Resolver, error) {
	r := &Resolver{dbPath: dbPath}
	if dbPath == "" {
		return r, nil
	}
	if err := r.load(); err != nil {
		return r, err
	}
	return r, nil
}

// load opens or reopens the database. Caller must hold the write lock or
// have exclusive access.
func (r *Resolver) load() error {
	info, err := os.Stat(r.dbPath)
	if err != nil {
		r.enabled = false
		return fmt.Errorf("geoip database unavailable: %w", err)
	}

	// Skip reload if not modified
	if r.db != nil && info.ModTime().Equal(r.dbModTime) {
		return nil
	}

	if r.db != nil {
		_ = r.db.Close()
		r.db = nil
	}

	db, err := maxminddb.Open(r.dbPath)
	if err != nil {
		r.enabled = false
		return fmt.Errorf("failed to open geoip database: %w", err)
	}

	r.db = db
	r.dbModTime = info.ModTime()
	r.enabled = true
	return nil
}

// Reload reopens the database if the file changed. Safe to call
// periodically from the scheduler.
func (r *Resolver) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dbPath == "" {
		return nil
	}
	return r.load()
}

// Country returns the 2-letter ISO country code for an IP address.
// Returns "LOCAL" for private and loopback addresses, and "" when the
// lookup is disabled or the country cannot be determined.
func (r *Resolver) Country(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}

	if parsed.IsPrivate() || parsed.IsLoopback() || parsed.IsLinkLocalUnicast() {
		return "LOCAL"
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.enabled || r.db == nil {
		return ""
	}

	var record countryRecord
	if err := r.db.Lookup(parsed, &record); err != nil {
		return ""
	}
	return record.Country.ISOCode
}

// Enabled reports whether country lookups are available.
func (r *Resolver) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// Close closes the database.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db != nil {
		err := r.db.Close()
		r.db = nil
		r.enabled = false
		return err
	}
	return nil
}

// countryNames covers the markets the studio actually sees inquiries
// from; anything else falls back to the raw code.
var countryNames = map[string]string{
	"LOCAL": "Local Network",
	"US":    "United States",
	"GB":    "United Kingdom",
	"CA":    "Canada",
	"AU":    "Australia",
	"DE":    "Germany",
	"FR":    "France",
	"NL":    "Netherlands",
	"ES":    "Spain",
	"IT":    "Italy",
	"SE":    "Sweden",
	"NO":    "Norway",
	"DK":    "Denmark",
	"CH":    "Switzerland",
	"AT":    "Austria",
	"IE":    "Ireland",
	"PT":    "Portugal",
	"IN":    "India",
	"NP":    "Nepal",
	"SG":    "Singapore",
	"JP":    "Japan",
	"NZ":    "New Zealand",
	"BR":    "Brazil",
	"MX":    "Mexico",
	"AE":    "United Arab Emirates",
}

// CountryName returns the display name for a 2-letter country code.
func CountryName(code string) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	if code == "" {
		return "Unknown"
	}
	return code
}
