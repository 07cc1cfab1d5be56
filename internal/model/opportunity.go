package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OpportunityStatus string

const (
	OpportunityOpen      OpportunityStatus = "open"
	OpportunityClosed    OpportunityStatus = "closed"
	OpportunityCompleted OpportunityStatus = "completed"
)

type Opportunity struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title          string            `gorm:"type:text;not null" json:"title"`
	Description    string            `gorm:"type:text;not null" json:"description"`
	Location       string            `gorm:"type:text;not null" json:"location"`
	Date           Date              `gorm:"type:date;not null" json:"date"`
	Duration       string            `gorm:"type:text" json:"duration,omitempty"`
	SkillsRequired Skills            `gorm:"type:text" json:"skills_required"`
	SpotsAvailable int               `gorm:"not null;default:1" json:"spots_available"`
	Status         OpportunityStatus `gorm:"type:opportunity_status;not null;default:'open'" json:"status"`
	OrgID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"org_id"`
	Organization   *User             `gorm:"foreignKey:OrgID;constraint:OnDelete:CASCADE" json:"organization,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

func (o *Opportunity) IsOpen() bool {
	return o.Status == OpportunityOpen
}

// OwnedBy reports whether the given user posted the opportunity
func (o *Opportunity) OwnedBy(userID uuid.UUID) bool {
	return o.OrgID == userID
}

// Skills is a tag list persisted as a comma separated string
type Skills []string

// ParseSkills splits a comma separated list, trimming blanks
func ParseSkills(raw string) Skills {
	skills := Skills{}
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func (s Skills) String() string {
	return strings.Join(s, ", ")
}

// Scan implements the sql.Scanner interface
func (s *Skills) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = Skills{}
	case string:
		*s = ParseSkills(v)
	case []byte:
		*s = ParseSkills(string(v))
	default:
		return fmt.Errorf("unsupported Scan, storing driver.Value type %T into type %T", value, s)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s Skills) Value() (driver.Value, error) {
	return s.String(), nil
}

// DateLayout is the wire and storage format of an opportunity date
const DateLayout = "2006-01-02"

// Date is a calendar day without a time component
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	parsed, err := ParseDate(strings.Trim(string(b), `"`))
	if err != nil {
		return fmt.Errorf("invalid date %s: %w", b, err)
	}
	*d = parsed
	return nil
}

// Scan implements the sql.Scanner interface
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*d = NewDate(v)
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
	default:
		return fmt.Errorf("unsupported Scan, storing driver.Value type %T into type %T", value, d)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}
