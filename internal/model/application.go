package model

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// applicationTransitions lists every allowed status change. Accepted and
// rejected are terminal.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending: {ApplicationAccepted, ApplicationRejected},
}

// CanTransitionTo reports whether the status may move to next
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ApplicationStatus) IsTerminal() bool {
	return len(applicationTransitions[s]) == 0
}

// DecisionAction is what an organization does with a pending application
type DecisionAction string

const (
	ActionAccept DecisionAction = "accept"
	ActionReject DecisionAction = "reject"
)

// TargetStatus maps an action onto the status it produces
func (a DecisionAction) TargetStatus() (ApplicationStatus, bool) {
	switch a {
	case ActionAccept:
		return ApplicationAccepted, true
	case ActionReject:
		return ApplicationRejected, true
	default:
		return "", false
	}
}

type Application struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Message       string            `gorm:"type:text;not null" json:"message"`
	Status        ApplicationStatus `gorm:"type:application_status;not null;default:'pending'" json:"status"`
	AppliedAt     time.Time         `gorm:"not null;autoCreateTime" json:"applied_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	UserID        uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_applications_user_opportunity" json:"user_id"`
	OpportunityID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_applications_user_opportunity;index" json:"opportunity_id"`
	Volunteer     *User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"volunteer,omitempty"`
	Opportunity   *Opportunity      `gorm:"foreignKey:OpportunityID;constraint:OnDelete:CASCADE" json:"opportunity,omitempty"`
}

// ApplicationCounts is the status breakdown of a set of applications
type ApplicationCounts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// CountApplications folds a set of applications into per-status counts
func CountApplications(apps []*Application) ApplicationCounts {
	counts := ApplicationCounts{Total: len(apps)}
	for _, app := range apps {
		switch app.Status {
		case ApplicationPending:
			counts.Pending++
		case ApplicationAccepted:
			counts.Accepted++
		case ApplicationRejected:
			counts.Rejected++
		}
	}
	return counts
}
