package state

import (
	"maps"
	"slices"
	"time"

	"aiteam/internal/models"
)

// AppState is the process-wide UI state shared by the services.
type AppState struct {
	User               *models.User
	Messages           []models.Message
	TeamMembers        []models.TeamMember
	Projects           []models.Project
	APIKeys            map[string]string
	IsTyping           bool
	ActiveConversation string
}

func NewAppState() AppState {
	return AppState{APIKeys: map[string]string{}}
}

// The functions below are reducers for Store[AppState]. Each returns a
// function that copies whatever slice or map it changes.

func SetUser(u *models.User) func(AppState) AppState {
	return func(s AppState) AppState {
		if u != nil {
			cp := *u
			u = &cp
		}
		s.User = u
		return s
	}
}

func AddMessage(m models.Message) func(AppState) AppState {
	return func(s AppState) AppState {
		s.Messages = append(slices.Clip(s.Messages), m)
		return s
	}
}

func ClearMessages() func(AppState) AppState {
	return func(s AppState) AppState {
		s.Messages = nil
		return s
	}
}

func SetTeamMembers(members []models.TeamMember) func(AppState) AppState {
	return func(s AppState) AppState {
		s.TeamMembers = slices.Clone(members)
		return s
	}
}

func UpdateMemberStatus(id string, status models.MemberStatus) func(AppState) AppState {
	return func(s AppState) AppState {
		members := slices.Clone(s.TeamMembers)
		for i := range members {
			if members[i].ID == id {
				members[i].Status = status
			}
		}
		s.TeamMembers = members
		return s
	}
}

func AddProject(p models.Project) func(AppState) AppState {
	return func(s AppState) AppState {
		s.Projects = append(slices.Clip(s.Projects), p)
		return s
	}
}

func SetProjects(projects []models.Project) func(AppState) AppState {
	return func(s AppState) AppState {
		s.Projects = slices.Clone(projects)
		return s
	}
}

func UpdateProject(id string, patch models.ProjectPatch, now time.Time) func(AppState) AppState {
	return func(s AppState) AppState {
		projects := slices.Clone(s.Projects)
		for i := range projects {
			if projects[i].ID == id {
				projects[i] = patch.Apply(projects[i])
				projects[i].UpdatedAt = now
			}
		}
		s.Projects = projects
		return s
	}
}

func SetAPIKey(service, key string) func(AppState) AppState {
	return func(s AppState) AppState {
		keys := maps.Clone(s.APIKeys)
		if keys == nil {
			keys = map[string]string{}
		}
		keys[service] = key
		s.APIKeys = keys
		return s
	}
}

func RemoveAPIKey(service string) func(AppState) AppState {
	return func(s AppState) AppState {
		keys := maps.Clone(s.APIKeys)
		delete(keys, service)
		s.APIKeys = keys
		return s
	}
}

func SetTyping(typing bool) func(AppState) AppState {
	return func(s AppState) AppState {
		s.IsTyping = typing
		return s
	}
}

func SetActiveConversation(id string) func(AppState) AppState {
	return func(s AppState) AppState {
		s.ActiveConversation = id
		return s
	}
}

// FindProject returns the project with id, if present.
func (s AppState) FindProject(id string) (models.Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}
