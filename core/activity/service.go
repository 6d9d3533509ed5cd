package activity

import (
	"context"
	"time"

	"github.com/darasalabs/darasa/core"
	"github.com/darasalabs/darasa/core/group"
	"github.com/darasalabs/darasa/core/user"
)

var (
	// errors
	ErrNotFound      = core.NewNotFoundError("activity not found")
	ErrNotTeacher    = core.NewForbiddenError("only teachers can create activities")
	ErrNotGroupOwner = core.NewForbiddenError("you can only create activities for groups you own")
	ErrNotCreator    = core.NewForbiddenError("only the creator can update this activity")
	ErrNotMember     = core.NewForbiddenError("you must be a member of the group to join this activity")
	ErrNotJoinable   = core.NewForbiddenError("this activity is no longer open for joining")
)

type (
	Repository interface {
		CreateActivity(ctx context.Context, act Activity) (Activity, error)
		// GetActivity loads the matching Activity with its CreatedBy, Group (and its Members) and Attendees.
		GetActivity(ctx context.Context, id string) (Activity, error)
		// Query* return activities ordered by scheduled_at ascending.
		QueryActivitiesByGroup(ctx context.Context, groupID string) ([]Activity, error)
		QueryActivitiesByCreator(ctx context.Context, userID string) ([]Activity, error)
		QueryActivitiesByMember(ctx context.Context, userID string) ([]Activity, error)
		QueryAttendedActivities(ctx context.Context, userID string) ([]Activity, error)
		UpdateActivityState(ctx context.Context, id, state string) (Activity, error)
		// AddAttendee is an idempotent insert: adding an existing attendee is a no-op.
		AddAttendee(ctx context.Context, activityID, userID string) error
	}

	Service interface {
		Create(ctx context.Context, requesterID string, na NewActivity) (Activity, error)
		GetByID(ctx context.Context, id string) (Activity, error)
		QueryByGroup(ctx context.Context, groupID string) ([]Activity, error)
		QueryByTeacher(ctx context.Context, teacherID string) ([]Activity, error)
		QueryFeed(ctx context.Context, studentID string) ([]Activity, error)
		QueryJoined(ctx context.Context, studentID string) ([]Activity, error)
		UpdateState(ctx context.Context, requesterID, activityID, state string) (Activity, error)
		Join(ctx context.Context, studentID, activityID string) (Activity, error)
	}

	service struct {
		repo   Repository
		groups group.Repository
		users  user.Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, groups group.Repository, users user.Repository) Service {
	return &service{
		repo:   repo,
		groups: groups,
		users:  users,
	}
}

// Create schedules a new Activity. The requester must be a teacher and own the target group.
func (svc *service) Create(ctx context.Context, requesterID string, na NewActivity) (Activity, error) {
	usr, err := svc.users.GetUser(ctx, user.GetFilter{ID: requesterID})
	if err != nil {
		if core.IsNotFound(err) {
			return Activity{}, ErrNotTeacher
		}
		return Activity{}, err
	}
	if !usr.IsTeacher() {
		return Activity{}, ErrNotTeacher
	}

	grp, err := svc.groups.GetGroup(ctx, group.GetFilter{ID: na.GroupID})
	if err != nil {
		return Activity{}, err
	}
	if grp.OwnerID != requesterID {
		return Activity{}, ErrNotGroupOwner
	}

	state := na.State
	if state == "" {
		state = StateNew
	}
	now := time.Now().UTC()
	act := Activity{
		Title:       na.Title,
		Description: na.Description,
		ScheduledAt: na.ScheduledAt.UTC(),
		Location:    na.Location,
		State:       state,
		CreatedByID: requesterID,
		GroupID:     na.GroupID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateActivity(ctx, act)
}

func (svc *service) GetByID(ctx context.Context, id string) (Activity, error) {
	return svc.repo.GetActivity(ctx, id)
}

func (svc *service) QueryByGroup(ctx context.Context, groupID string) ([]Activity, error) {
	return svc.repo.QueryActivitiesByGroup(ctx, groupID)
}

func (svc *service) QueryByTeacher(ctx context.Context, teacherID string) ([]Activity, error) {
	return svc.repo.QueryActivitiesByCreator(ctx, teacherID)
}

// QueryFeed returns the activities of all groups the student is a member of.
func (svc *service) QueryFeed(ctx context.Context, studentID string) ([]Activity, error) {
	return svc.repo.QueryActivitiesByMember(ctx, studentID)
}

// QueryJoined returns the activities the student has joined as an attendee.
func (svc *service) QueryJoined(ctx context.Context, studentID string) ([]Activity, error) {
	if _, err := svc.users.GetUser(ctx, user.GetFilter{ID: studentID}); err != nil {
		return nil, err
	}
	return svc.repo.QueryAttendedActivities(ctx, studentID)
}

// UpdateState sets the activity's state unconditionally; any state is
// reachable from any state. Only the activity's creator may do this.
func (svc *service) UpdateState(ctx context.Context, requesterID, activityID, state string) (Activity, error) {
	act, err := svc.repo.GetActivity(ctx, activityID)
	if err != nil {
		return Activity{}, err
	}
	if act.CreatedByID != requesterID {
		return Activity{}, ErrNotCreator
	}
	return svc.repo.UpdateActivityState(ctx, activityID, state)
}

// Join adds the student to the activity's attendee set. The student must be a
// member of the activity's group and the activity must be NEW or IN_PROGRESS.
// Joining twice has no observable effect beyond the first.
func (svc *service) Join(ctx context.Context, studentID, activityID string) (Activity, error) {
	act, err := svc.repo.GetActivity(ctx, activityID)
	if err != nil {
		return Activity{}, err
	}

	if _, err = svc.groups.GetMember(ctx, act.GroupID, studentID); err != nil {
		if core.IsNotFound(err) {
			return Activity{}, ErrNotMember
		}
		return Activity{}, err
	}

	if !Joinable(act.State) {
		return Activity{}, ErrNotJoinable
	}

	if err = svc.repo.AddAttendee(ctx, activityID, studentID); err != nil {
		return Activity{}, err
	}
	return svc.repo.GetActivity(ctx, activityID)
}
