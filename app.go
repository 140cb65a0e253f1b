package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"aiteam/internal/models"
	"aiteam/internal/services"
)

// App is the object bound to the frontend. Bound methods receive no
// context, so each call runs against the context saved at startup.
type App struct {
	ctx     context.Context
	svc     *services.Services
	log     zerolog.Logger
	dbClose func() error
}

// NewApp creates a new App application struct
func NewApp(svc *services.Services, log zerolog.Logger) *App {
	return &App{svc: svc, log: log}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.svc.Startup(ctx)
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	a.svc.Shutdown()

	// Close database connection pool
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			runtime.LogError(ctx, fmt.Sprintf("failed to close database: %v", err))
		} else {
			runtime.LogInfo(ctx, "database closed")
		}
		a.dbClose = nil
	}
}

// GetSettings returns the current user settings
func (a *App) GetSettings() models.UserSettings {
	return a.svc.Settings.Get()
}

// UpdateSetting replaces one settings field
func (a *App) UpdateSetting(key string, value any) (models.UserSettings, error) {
	return a.svc.Settings.Update(a.ctx, key, value)
}

// UpdateSettings replaces several settings fields at once
func (a *App) UpdateSettings(patch map[string]any) (models.UserSettings, error) {
	return a.svc.Settings.UpdateMany(a.ctx, patch)
}

func (a *App) ResetSettings() (models.UserSettings, error) {
	return a.svc.Settings.Reset(a.ctx)
}

// ExportSettings asks for a destination and writes the settings there.
// It returns the chosen path, or "" when the dialog was cancelled.
func (a *App) ExportSettings() (string, error) {
	path, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:           "Export Settings",
		DefaultFilename: fmt.Sprintf("aix-settings-%s.json", time.Now().Format("2006-01-02")),
		Filters:         []runtime.FileFilter{{DisplayName: "JSON", Pattern: "*.json"}},
	})
	if err != nil || path == "" {
		return "", err
	}
	if err := a.svc.Settings.ExportFile(path); err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("failed to export settings: %v", err))
		return "", err
	}
	return path, nil
}

// ImportSettings asks for a previously exported file and merges it in.
func (a *App) ImportSettings() (models.UserSettings, error) {
	path, err := runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title:   "Import Settings",
		Filters: []runtime.FileFilter{{DisplayName: "JSON", Pattern: "*.json"}},
	})
	if err != nil || path == "" {
		return a.svc.Settings.Get(), err
	}
	settings, err := a.svc.Settings.ImportFile(a.ctx, path)
	if err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("failed to import settings: %v", err))
	}
	return settings, err
}

func (a *App) GetAppMemory() models.AppMemory {
	return a.svc.Memory.Get()
}

func (a *App) UpdateCurrentPage(page string) (models.AppMemory, error) {
	return a.svc.Memory.UpdateCurrentPage(a.ctx, page)
}

func (a *App) ToggleSidebar() (models.AppMemory, error) {
	return a.svc.Memory.ToggleSidebar(a.ctx)
}

func (a *App) UpdateUserPreferences(patch services.PreferencesPatch) (models.AppMemory, error) {
	return a.svc.Memory.UpdateUserPreferences(a.ctx, patch)
}

func (a *App) AddRecentProject(id string) (models.AppMemory, error) {
	return a.svc.Memory.AddRecentProject(a.ctx, id)
}

func (a *App) ClearMemory() (models.AppMemory, error) {
	return a.svc.Memory.Clear(a.ctx)
}

// SendMessage posts a chat message. Replies arrive as chat events.
func (a *App) SendMessage(content, senderID, messageType string) (models.Message, error) {
	t, err := models.ParseMessageType(messageType)
	if err != nil {
		return models.Message{}, err
	}
	body, err := models.DecodeBody(t, nil)
	if err != nil {
		return models.Message{}, err
	}
	return a.svc.Chat.SendMessage(a.ctx, content, senderID, body)
}

func (a *App) GetMessages() []models.Message {
	return a.svc.Chat.Messages()
}

func (a *App) ClearMessages() {
	a.svc.Chat.ClearMessages(a.ctx)
}

func (a *App) IsTyping() bool {
	return a.svc.Chat.IsTyping()
}

func (a *App) GenerateCode(prompt, language string) (string, error) {
	return a.svc.Chat.GenerateCode(a.ctx, prompt, language)
}

func (a *App) PerformResearch(query string) (models.ResearchResult, error) {
	return a.svc.Chat.PerformResearch(a.ctx, query)
}

// SaveApiKey stores a credential for the current user, or locally when
// nobody is signed in.
func (a *App) SaveApiKey(service, apiKey string) error {
	return a.svc.Credentials.Save(a.ctx, a.currentUserID(), service, apiKey)
}

func (a *App) RemoveApiKey(service string) error {
	return a.svc.Credentials.Remove(a.ctx, a.currentUserID(), service)
}

func (a *App) ListApiKeys() []models.CredentialInfo {
	return a.svc.Credentials.List()
}

func (a *App) IsConfigured(service string) bool {
	return a.svc.AI.IsConfigured(service)
}

func (a *App) ListModelGroups() []models.LLMModelGroup {
	return a.svc.Models.ListModelGroups()
}

func (a *App) GetTeamMembers() []models.TeamMember {
	return a.svc.Team.List()
}

func (a *App) SetTeamMemberStatus(id, status string) ([]models.TeamMember, error) {
	return a.svc.Team.SetStatus(a.ctx, id, status)
}

func (a *App) GetProjects() []models.Project {
	return a.svc.Projects.List()
}

func (a *App) CreateProject(in services.NewProject) (*models.Project, error) {
	return a.svc.Projects.Create(a.ctx, in)
}

func (a *App) UpdateProject(id string, patch models.ProjectPatch) (*models.Project, error) {
	return a.svc.Projects.Update(a.ctx, id, patch)
}

// SignIn makes the given user id the current identity and loads their
// keys and projects.
func (a *App) SignIn(userID string) (*models.User, error) {
	u, err := a.svc.Users.SignIn(a.ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := a.svc.Credentials.LoadUserKeys(a.ctx, u.ID); err != nil {
		runtime.LogWarning(a.ctx, fmt.Sprintf("failed to load API keys: %v", err))
	}
	if err := a.svc.Projects.Sync(a.ctx); err != nil {
		runtime.LogWarning(a.ctx, fmt.Sprintf("failed to sync projects: %v", err))
	}
	return u, nil
}

func (a *App) SignOut() {
	a.svc.Users.SignOut()
}

func (a *App) CurrentUser() *models.User {
	return a.svc.Users.Current()
}

func (a *App) currentUserID() string {
	if u := a.svc.Users.Current(); u != nil {
		return u.ID
	}
	return ""
}
