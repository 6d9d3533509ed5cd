package pgrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasalabs/darasa/core/activity"
	"github.com/darasalabs/darasa/core/group"
	"github.com/darasalabs/darasa/core/user"
)

const (
	activityTable = "activity"
	attendeeTable = "activity_attendee"
)

var activityColumns = []string{
	"id", "title", "description", "scheduled_at", "location",
	"state", "created_by_id", "group_id", "created_at", "updated_at",
}

type activityRow struct {
	ID          string       `db:"id"`
	Title       string       `db:"title"`
	Description string       `db:"description"`
	ScheduledAt sql.NullTime `db:"scheduled_at"`
	Location    string       `db:"location"`
	State       string       `db:"state"`
	CreatedByID string       `db:"created_by_id"`
	GroupID     string       `db:"group_id"`
	CreatedAt   sql.NullTime `db:"created_at"`
	UpdatedAt   sql.NullTime `db:"updated_at"`
}

func (r activityRow) unpack() activity.Activity {
	return activity.Activity{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		ScheduledAt: r.ScheduledAt.Time,
		Location:    r.Location,
		State:       r.State,
		CreatedByID: r.CreatedByID,
		GroupID:     r.GroupID,
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}
}

type activityRepository struct {
	db     *sqlx.DB
	groups group.Repository
	users  user.Repository
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *sqlx.DB, groups group.Repository, users user.Repository) activity.Repository {
	return &activityRepository{db: db, groups: groups, users: users}
}

func (repo *activityRepository) CreateActivity(ctx context.Context, act activity.Activity) (activity.Activity, error) {
	act.ID = uuid.New().String()
	qry, args, err := psql.Insert(activityTable).
		Columns(activityColumns...).
		Values(
			act.ID, act.Title, act.Description, act.ScheduledAt.UTC(), act.Location,
			act.State, act.CreatedByID, act.GroupID, act.CreatedAt.UTC(), act.UpdatedAt.UTC(),
		).
		ToSql()
	if err != nil {
		return activity.Activity{}, errors.Wrap(err, "building activity insert")
	}
	if _, err = repo.db.ExecContext(ctx, qry, args...); err != nil {
		return activity.Activity{}, errors.Wrap(err, "inserting activity")
	}
	return repo.load(ctx, act)
}

func (repo *activityRepository) GetActivity(ctx context.Context, id string) (activity.Activity, error) {
	if _, err := uuid.Parse(id); err != nil {
		return activity.Activity{}, activity.ErrNotFound
	}
	qry, args, err := psql.Select(activityColumns...).
		From(activityTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return activity.Activity{}, errors.Wrap(err, "building activity query")
	}

	var row activityRow
	if err = repo.db.GetContext(ctx, &row, qry, args...); err != nil {
		return activity.Activity{}, trapNoRowsErr(err, activity.ErrNotFound, "finding activity")
	}
	return repo.load(ctx, row.unpack())
}

// load populates the activity's CreatedBy, Group and Attendees.
func (repo *activityRepository) load(ctx context.Context, act activity.Activity) (activity.Activity, error) {
	creator, err := repo.users.GetUser(ctx, user.GetFilter{ID: act.CreatedByID})
	if err != nil {
		return activity.Activity{}, errors.Wrap(err, "loading activity creator")
	}
	act.CreatedBy = &creator

	grp, err := repo.groups.GetGroup(ctx, group.GetFilter{ID: act.GroupID})
	if err != nil {
		return activity.Activity{}, errors.Wrap(err, "loading activity group")
	}
	act.Group = &grp

	qry, args, err := psql.Select(prefixColumns("u", userColumns)...).
		From(userTable + " u").
		Join(attendeeTable + " a ON a.user_id = u.id").
		Where(sq.Eq{"a.activity_id": act.ID}).
		OrderBy("u.id ASC").
		ToSql()
	if err != nil {
		return activity.Activity{}, errors.Wrap(err, "building attendees query")
	}

	var rows []userRow
	if err = repo.db.SelectContext(ctx, &rows, qry, args...); err != nil {
		return activity.Activity{}, errors.Wrap(err, "querying attendees")
	}
	act.Attendees = unpackUserRows(rows)
	return act, nil
}

func (repo *activityRepository) queryActivities(ctx context.Context, q sq.SelectBuilder) ([]activity.Activity, error) {
	qry, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building activities query")
	}

	var rows []activityRow
	if err = repo.db.SelectContext(ctx, &rows, qry, args...); err != nil {
		return nil, errors.Wrap(err, "querying activities")
	}

	activities := make([]activity.Activity, 0, len(rows))
	for _, r := range rows {
		act, err := repo.load(ctx, r.unpack())
		if err != nil {
			return nil, err
		}
		activities = append(activities, act)
	}
	return activities, nil
}

func (repo *activityRepository) QueryActivitiesByGroup(ctx context.Context, groupID string) ([]activity.Activity, error) {
	q := psql.Select(activityColumns...).
		From(activityTable).
		Where(sq.Eq{"group_id": groupID}).
		OrderBy("scheduled_at ASC")
	return repo.queryActivities(ctx, q)
}

func (repo *activityRepository) QueryActivitiesByCreator(ctx context.Context, userID string) ([]activity.Activity, error) {
	q := psql.Select(activityColumns...).
		From(activityTable).
		Where(sq.Eq{"created_by_id": userID}).
		OrderBy("scheduled_at ASC")
	return repo.queryActivities(ctx, q)
}

func (repo *activityRepository) QueryActivitiesByMember(ctx context.Context, userID string) ([]activity.Activity, error) {
	q := psql.Select(prefixColumns("a", activityColumns)...).
		From(activityTable + " a").
		Join(memberTable + " m ON m.group_id = a.group_id").
		Where(sq.Eq{"m.user_id": userID}).
		OrderBy("a.scheduled_at ASC")
	return repo.queryActivities(ctx, q)
}

func (repo *activityRepository) QueryAttendedActivities(ctx context.Context, userID string) ([]activity.Activity, error) {
	q := psql.Select(prefixColumns("a", activityColumns)...).
		From(activityTable + " a").
		Join(attendeeTable + " at ON at.activity_id = a.id").
		Where(sq.Eq{"at.user_id": userID}).
		OrderBy("a.scheduled_at ASC")
	return repo.queryActivities(ctx, q)
}

func (repo *activityRepository) UpdateActivityState(ctx context.Context, id, state string) (activity.Activity, error) {
	qry, args, err := psql.Update(activityTable).
		Set("state", state).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return activity.Activity{}, errors.Wrap(err, "building activity update")
	}
	res, err := repo.db.ExecContext(ctx, qry, args...)
	if err != nil {
		return activity.Activity{}, errors.Wrap(err, "updating activity")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return activity.Activity{}, activity.ErrNotFound
	}
	return repo.GetActivity(ctx, id)
}

func (repo *activityRepository) AddAttendee(ctx context.Context, activityID, userID string) error {
	qry, args, err := psql.Insert(attendeeTable).
		Columns("activity_id", "user_id").
		Values(activityID, userID).
		Suffix("ON CONFLICT (activity_id, user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building attendee insert")
	}
	if _, err = repo.db.ExecContext(ctx, qry, args...); err != nil {
		return errors.Wrap(err, "inserting attendee")
	}
	return nil
}
