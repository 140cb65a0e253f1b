package models

import "fmt"

type Role string

const (
	RoleDeveloper  Role = "developer"
	RoleDesigner   Role = "designer"
	RoleResearcher Role = "researcher"
	RolePM         Role = "pm"
	RoleQA         Role = "qa"
)

type MemberStatus string

const (
	StatusOnline  MemberStatus = "online"
	StatusBusy    MemberStatus = "busy"
	StatusAway    MemberStatus = "away"
	StatusOffline MemberStatus = "offline"
)

// ParseMemberStatus validates a status string.
func ParseMemberStatus(s string) (MemberStatus, error) {
	switch st := MemberStatus(s); st {
	case StatusOnline, StatusBusy, StatusAway, StatusOffline:
		return st, nil
	default:
		return "", fmt.Errorf("invalid member status %q", s)
	}
}

// TeamMember is a persona that chat replies are attributed to.
type TeamMember struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Role       Role         `json:"role"`
	Avatar     string       `json:"avatar"`
	Status     MemberStatus `json:"status"`
	Specialty  string       `json:"specialty"`
	Experience int          `json:"experience"`
	IsAI       bool         `json:"isAI"`
}
