package model

import "github.com/google/uuid"

// Entity is the object side of an authorization check
type Entity struct {
	Type string
	ID   string
}

// Subject is the acting side of an authorization check
type Subject struct {
	Type string
	ID   string
}

const (
	EntityTypeUser        = "user"
	EntityTypeOpportunity = "opportunity"
	EntityTypeApplication = "application"
)

func UserSubject(id uuid.UUID) Subject {
	return Subject{Type: EntityTypeUser, ID: id.String()}
}

func OpportunityEntity(id uuid.UUID) Entity {
	return Entity{Type: EntityTypeOpportunity, ID: id.String()}
}

func ApplicationEntity(id uuid.UUID) Entity {
	return Entity{Type: EntityTypeApplication, ID: id.String()}
}
