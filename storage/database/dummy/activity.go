package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/darasalabs/darasa/core/activity"
	"github.com/darasalabs/darasa/core/group"
	"github.com/darasalabs/darasa/core/user"
)

type activityRepository struct {
	db     *DB
	groups group.Repository
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *DB) activity.Repository {
	return &activityRepository{db: db, groups: NewGroupRepository(db)}
}

// load returns a copy of the activity with its CreatedBy, Group and Attendees loaded.
// Callers hold the activity table lock; the user table has its own lock, released
// before GetGroup since the group repo takes it again while loading the owner.
func (repo *activityRepository) load(ctx context.Context, act activity.Activity) activity.Activity {
	repo.db.user.RLock()
	if usr, ok := repo.db.user.table[act.CreatedByID]; ok {
		usrCopy := *usr
		act.CreatedBy = &usrCopy
	}
	repo.db.user.RUnlock()

	if grp, err := repo.groups.GetGroup(ctx, group.GetFilter{ID: act.GroupID}); err == nil {
		act.Group = &grp
	}

	attendees := make([]user.User, 0)
	repo.db.user.RLock()
	for userID := range repo.db.activity.attendees[act.ID] {
		if usr, ok := repo.db.user.table[userID]; ok {
			attendees = append(attendees, *usr)
		}
	}
	repo.db.user.RUnlock()
	sort.Slice(attendees, func(i, j int) bool { return attendees[i].ID < attendees[j].ID })
	act.Attendees = attendees
	return act
}

func (repo *activityRepository) query(ctx context.Context, match func(act activity.Activity) bool) []activity.Activity {
	activities := make([]activity.Activity, 0)
	for _, act := range repo.db.activity.table {
		if match(*act) {
			activities = append(activities, repo.load(ctx, *act))
		}
	}
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].ScheduledAt.Before(activities[j].ScheduledAt)
	})
	return activities
}

func (repo *activityRepository) CreateActivity(ctx context.Context, act activity.Activity) (activity.Activity, error) {
	repo.db.activity.Lock()
	defer repo.db.activity.Unlock()

	act.ID = uuid.New().String()
	stored := act
	repo.db.activity.table[act.ID] = &stored
	return repo.load(ctx, act), nil
}

func (repo *activityRepository) GetActivity(ctx context.Context, id string) (activity.Activity, error) {
	repo.db.activity.RLock()
	defer repo.db.activity.RUnlock()

	if act, ok := repo.db.activity.table[id]; ok {
		return repo.load(ctx, *act), nil
	}
	return activity.Activity{}, activity.ErrNotFound
}

func (repo *activityRepository) QueryActivitiesByGroup(ctx context.Context, groupID string) ([]activity.Activity, error) {
	repo.db.activity.RLock()
	defer repo.db.activity.RUnlock()

	return repo.query(ctx, func(act activity.Activity) bool { return act.GroupID == groupID }), nil
}

func (repo *activityRepository) QueryActivitiesByCreator(ctx context.Context, userID string) ([]activity.Activity, error) {
	repo.db.activity.RLock()
	defer repo.db.activity.RUnlock()

	return repo.query(ctx, func(act activity.Activity) bool { return act.CreatedByID == userID }), nil
}

func (repo *activityRepository) QueryActivitiesByMember(ctx context.Context, userID string) ([]activity.Activity, error) {
	repo.db.activity.RLock()
	defer repo.db.activity.RUnlock()

	return repo.query(ctx, func(act activity.Activity) bool {
		_, err := repo.groups.GetMember(ctx, act.GroupID, userID)
		return err == nil
	}), nil
}

func (repo *activityRepository) QueryAttendedActivities(ctx context.Context, userID string) ([]activity.Activity, error) {
	repo.db.activity.RLock()
	defer repo.db.activity.RUnlock()

	return repo.query(ctx, func(act activity.Activity) bool {
		return repo.db.activity.attendees[act.ID][userID]
	}), nil
}

func (repo *activityRepository) UpdateActivityState(ctx context.Context, id, state string) (activity.Activity, error) {
	repo.db.activity.Lock()
	defer repo.db.activity.Unlock()

	act, ok := repo.db.activity.table[id]
	if !ok {
		return activity.Activity{}, activity.ErrNotFound
	}
	act.State = state
	act.UpdatedAt = time.Now().UTC()
	return repo.load(ctx, *act), nil
}

func (repo *activityRepository) AddAttendee(ctx context.Context, activityID, userID string) error {
	repo.db.activity.Lock()
	defer repo.db.activity.Unlock()

	if _, ok := repo.db.activity.table[activityID]; !ok {
		return activity.ErrNotFound
	}
	if repo.db.activity.attendees[activityID] == nil {
		repo.db.activity.attendees[activityID] = make(map[string]bool)
	}
	repo.db.activity.attendees[activityID][userID] = true
	return nil
}
