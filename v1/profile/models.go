package profile

import (
	"time"
)

// UserProfile is the relational record for a platform user. Embedding-based
// state lives in the vector collections; this table carries identity,
// preferences, and scheduling data.
type UserProfile struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName string    `json:"displayName"`
	Timezone    string    `gorm:"default:UTC" json:"timezone"`
	Preferences string    `gorm:"type:jsonb;default:'{}'" json:"preferences"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TherapySession is the relational shadow of a therapy conversation. The
// session transcript embedding is stored in the therapy-sessions collection;
// VectorPointID links the two.
type TherapySession struct {
	ID            string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string     `gorm:"index;type:uuid;not null" json:"userId"`
	StartedAt     time.Time  `gorm:"not null" json:"startedAt"`
	EndedAt       *time.Time `json:"endedAt,omitempty"`
	Summary       string     `json:"summary"`
	MoodBefore    float64    `json:"moodBefore"`
	MoodAfter     float64    `json:"moodAfter"`
	CrisisFlagged bool       `gorm:"index" json:"crisisFlagged"`
	VectorPointID string     `gorm:"type:uuid" json:"vectorPointId"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Plan kinds.
const (
	PlanKindFitness   = "fitness"
	PlanKindNutrition = "nutrition"
	PlanKindMental    = "mental"
)

// Plan statuses.
const (
	PlanStatusActive    = "active"
	PlanStatusCompleted = "completed"
	PlanStatusArchived  = "archived"
)

// WellnessPlan is a generated fitness, nutrition, or mental-exercise plan.
// Content is the agent-generated plan body as JSON.
type WellnessPlan struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string     `gorm:"index;type:uuid;not null" json:"userId"`
	Kind        string     `gorm:"index;not null" json:"kind"`
	Content     string     `gorm:"type:jsonb;not null" json:"content"`
	Status      string     `gorm:"index;default:active" json:"status"`
	ActiveFrom  time.Time  `json:"activeFrom"`
	ActiveUntil *time.Time `json:"activeUntil,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Appointment statuses.
const (
	AppointmentStatusScheduled = "scheduled"
	AppointmentStatusCancelled = "cancelled"
	AppointmentStatusCompleted = "completed"
)

// Appointment mirrors a scheduled calendar event. CalendarEventID links to
// the external calendar; the scheduling agent keeps the two in sync.
type Appointment struct {
	ID              string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID          string    `gorm:"index;type:uuid;not null" json:"userId"`
	CalendarEventID string    `gorm:"index" json:"calendarEventId"`
	Title           string    `gorm:"not null" json:"title"`
	Notes           string    `json:"notes"`
	StartsAt        time.Time `gorm:"index;not null" json:"startsAt"`
	EndsAt          time.Time `json:"endsAt"`
	Status          string    `gorm:"default:scheduled" json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// allModels is the migration set for the store.
func allModels() []any {
	return []any{
		&UserProfile{},
		&TherapySession{},
		&WellnessPlan{},
		&Appointment{},
	}
}
