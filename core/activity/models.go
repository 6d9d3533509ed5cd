package activity

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasalabs/darasa/core"
	"github.com/darasalabs/darasa/core/group"
	"github.com/darasalabs/darasa/core/user"
)

// Lifecycle states. NEW is the sole initial state; the creator may move an
// activity to any state from any state.
const (
	StateNew        = "NEW"
	StateInProgress = "IN_PROGRESS"
	StateCompleted  = "COMPLETED"
	StateCanceled   = "CANCELED"
)

var AllStates = []string{StateNew, StateInProgress, StateCompleted, StateCanceled}

// Joinable reports whether students may still join an activity in the given state.
func Joinable(state string) bool {
	return state == StateNew || state == StateInProgress
}

type Activity struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ScheduledAt time.Time `json:"scheduled_at"` // UTC
	Location    string    `json:"location,omitempty"`
	State       string    `json:"state"`
	CreatedByID string    `json:"created_by_id"`
	GroupID     string    `json:"group_id"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC

	// loaded relations
	CreatedBy *user.User   `json:"created_by,omitempty"`
	Group     *group.Group `json:"group,omitempty"`
	Attendees []user.User  `json:"attendees,omitempty"`
}

// HasAttendee reports whether the given user is in the loaded attendee set.
func (a *Activity) HasAttendee(userID string) bool {
	for _, att := range a.Attendees {
		if att.ID == userID {
			return true
		}
	}
	return false
}

// NewActivity contains information needed to schedule a new Activity.
type NewActivity struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	GroupID     string    `json:"group_id" validate:"required"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	State       string    `json:"state" validate:"omitempty,activitystate"`
	Location    string    `json:"location"`
}

func (na *NewActivity) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.Location = core.CleanString(na.Location)
	return validate.Struct(na)
}

// UpdateActivityState carries a state transition request.
type UpdateActivityState struct {
	State string `json:"state" validate:"required,activitystate"`
}

func (us *UpdateActivityState) Validate(validate *validator.Validate) error {
	return validate.Struct(us)
}
