package models

import (
	"encoding/json"
	"slices"
)

// MaxRecentProjects bounds AppMemory.RecentProjects.
const MaxRecentProjects = 5

// MemoryPreferences is the small nested preferences object kept in app memory.
type MemoryPreferences struct {
	Theme         string `json:"theme"`
	Animations    bool   `json:"animations"`
	Notifications bool   `json:"notifications"`
}

// AppMemory is the navigation state restored on the next launch.
type AppMemory struct {
	CurrentPage      string            `json:"currentPage"`
	SidebarCollapsed bool              `json:"sidebarCollapsed"`
	UserPreferences  MemoryPreferences `json:"userPreferences"`
	RecentProjects   []string          `json:"recentProjects"`
	ChatHistory      []json.RawMessage `json:"chatHistory"`
}

func DefaultAppMemory() AppMemory {
	return AppMemory{
		CurrentPage:      "/dashboard",
		SidebarCollapsed: false,
		UserPreferences: MemoryPreferences{
			Theme:         "dark",
			Animations:    true,
			Notifications: true,
		},
		RecentProjects: []string{},
		ChatHistory:    []json.RawMessage{},
	}
}

// PushRecentProject returns a new list with id at the front, any previous
// occurrence removed, truncated to MaxRecentProjects. The input is not modified.
func PushRecentProject(recent []string, id string) []string {
	out := make([]string, 0, MaxRecentProjects)
	out = append(out, id)
	for _, existing := range recent {
		if len(out) == MaxRecentProjects {
			break
		}
		if existing == id {
			continue
		}
		out = append(out, existing)
	}
	return out
}

// NormalizeRecentProjects drops empty and repeated ids, keeping the first
// occurrence, and truncates to MaxRecentProjects.
func NormalizeRecentProjects(recent []string) []string {
	out := make([]string, 0, min(len(recent), MaxRecentProjects))
	for _, id := range recent {
		if len(out) == MaxRecentProjects {
			break
		}
		if id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}
