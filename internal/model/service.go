// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// ServiceIcon is the closed set of icons a service card can display.
type ServiceIcon string

// Service icons
const (
	IconPalette    ServiceIcon = "palette"
	IconMonitor    ServiceIcon = "monitor"
	IconVideo      ServiceIcon = "video"
	IconSmartphone ServiceIcon = "smartphone"
	IconZap        ServiceIcon = "zap"
	IconCoffee     ServiceIcon = "coffee"
)

// DefaultServiceIcon is used when a stored icon name is not recognized.
const DefaultServiceIcon = IconPalette

// AllServiceIcons returns the accepted icon names in display order.
func AllServiceIcons() []ServiceIcon {
	return []ServiceIcon{IconPalette, IconMonitor, IconVideo, IconSmartphone, IconZap, IconCoffee}
}

// ParseServiceIcon maps a stored icon name onto the closed icon set,
// falling back to DefaultServiceIcon for unknown values.
func ParseServiceIcon(s string) ServiceIcon {
	for _, icon := range AllServiceIcons() {
		if string(icon) == s {
			return icon
		}
	}
	return DefaultServiceIcon
}

// Service represents a service offering shown on the services page.
type Service struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Features      string    `json:"-"` // JSON array stored as string
	Price         string    `json:"price"`
	OriginalPrice string    `json:"original_price"`
	Timeline      string    `json:"timeline"`
	Popular       bool      `json:"popular"`
	Icon          string    `json:"icon"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// GetFeatures parses the JSON features string into a slice.
func (s *Service) GetFeatures() []string {
	return parseStringList(s.Features)
}

// SetFeatures sets the features from a slice to JSON string.
func (s *Service) SetFeatures(features []string) {
	s.Features = stringListToJSON(features)
}

// IconName returns the service icon resolved against the closed icon set.
func (s *Service) IconName() ServiceIcon {
	return ParseServiceIcon(s.Icon)
}
