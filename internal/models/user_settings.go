package models

// UserSettings holds the user's UI preferences. It is persisted as a flat
// JSON object in the "aix-user-settings" storage slot.
type UserSettings struct {
	Theme            string `json:"theme"` // "dark" | "light"
	Animations       bool   `json:"animations"`
	Notifications    bool   `json:"notifications"`
	AutoSave         bool   `json:"autoSave"`
	Language         string `json:"language"`
	FontSize         string `json:"fontSize"` // "small" | "medium" | "large"
	SidebarCollapsed bool   `json:"sidebarCollapsed"`
	AIResponseSpeed  string `json:"aiResponseSpeed"` // "fast" | "balanced" | "detailed"
	CodeTheme        string `json:"codeTheme"`       // "dark" | "light" | "auto"
	ChatHistory      bool   `json:"chatHistory"`
	SoundEffects     bool   `json:"soundEffects"`
}

// DefaultUserSettings returns the settings used on first run and after a reset.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		Theme:            "dark",
		Animations:       true,
		Notifications:    true,
		AutoSave:         true,
		Language:         "en",
		FontSize:         "medium",
		SidebarCollapsed: false,
		AIResponseSpeed:  "balanced",
		CodeTheme:        "dark",
		ChatHistory:      true,
		SoundEffects:     false,
	}
}

// SettingChoices lists the accepted values for enum-like settings keys.
var SettingChoices = map[string][]string{
	"theme":           {"dark", "light"},
	"fontSize":        {"small", "medium", "large"},
	"aiResponseSpeed": {"fast", "balanced", "detailed"},
	"codeTheme":       {"dark", "light", "auto"},
}
