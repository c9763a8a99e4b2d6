// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "github.com/sandeshshrestha/studio-go/internal/model"

// Action identifies an operation subject to a permission check.
type Action string

// View actions gate read-only screens, manage actions gate forms and
// mutations.
const (
	ActionViewContent    Action = "content.view"    // list projects, services, blog posts
	ActionViewContacts   Action = "contacts.view"   // list/read submissions
	ActionViewMedia      Action = "media.view"      // browse the media library
	ActionManageContent  Action = "content.manage"  // create/update/delete projects, services, blog posts
	ActionManageContacts Action = "contacts.manage" // update status/notes, delete submissions
	ActionManageUsers    Action = "users.manage"    // create/update/delete admin users
	ActionManageMedia    Action = "media.manage"    // upload/delete media
	ActionViewEvents     Action = "events.view"     // read the event log
)

// CanPerform reports whether a role is permitted to perform an action.
// Viewers are read-only, editors also manage content, admins
// additionally manage users and the event log.
func CanPerform(role string, action Action) bool {
	switch role {
	case model.RoleAdmin:
		return true
	case model.RoleEditor:
		switch action {
		case ActionViewContent, ActionViewContacts, ActionViewMedia,
			ActionManageContent, ActionManageContacts, ActionManageMedia:
			return true
		}
		return false
	case model.RoleViewer:
		switch action {
		case ActionViewContent, ActionViewContacts, ActionViewMedia:
			return true
		}
		return false
	default:
		return false
	}
}
