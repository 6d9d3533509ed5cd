package pgrepos

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasalabs/darasa/core/group"
	"github.com/darasalabs/darasa/core/user"
)

const (
	groupTable  = `"group"`
	memberTable = "group_member"
)

var (
	groupColumns  = []string{"id", "name", "description", "owner_id", "created_at", "updated_at"}
	memberColumns = []string{"id", "group_id", "user_id", "role", "joined_at"}
)

type groupRow struct {
	ID          string       `db:"id"`
	Name        string       `db:"name"`
	Description string       `db:"description"`
	OwnerID     string       `db:"owner_id"`
	CreatedAt   sql.NullTime `db:"created_at"`
	UpdatedAt   sql.NullTime `db:"updated_at"`
}

func (r groupRow) unpack() group.Group {
	return group.Group{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		OwnerID:     r.OwnerID,
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}
}

type memberRow struct {
	ID       string       `db:"id"`
	GroupID  string       `db:"group_id"`
	UserID   string       `db:"user_id"`
	Role     string       `db:"role"`
	JoinedAt sql.NullTime `db:"joined_at"`
}

func (r memberRow) unpack() group.Member {
	return group.Member{
		ID:       r.ID,
		GroupID:  r.GroupID,
		UserID:   r.UserID,
		Role:     r.Role,
		JoinedAt: r.JoinedAt.Time,
	}
}

type groupRepository struct {
	db    *sqlx.DB
	users user.Repository
}

var _ group.Repository = (*groupRepository)(nil) // interface compliance check

func NewGroupRepository(db *sqlx.DB, users user.Repository) group.Repository {
	return &groupRepository{db: db, users: users}
}

func (repo *groupRepository) CreateGroup(ctx context.Context, grp group.Group) (group.Group, error) {
	grp.ID = uuid.New().String()
	qry, args, err := psql.Insert(groupTable).
		Columns(groupColumns...).
		Values(grp.ID, grp.Name, grp.Description, grp.OwnerID, grp.CreatedAt.UTC(), grp.UpdatedAt.UTC()).
		ToSql()
	if err != nil {
		return group.Group{}, errors.Wrap(err, "building group insert")
	}
	if _, err = repo.db.ExecContext(ctx, qry, args...); err != nil {
		if isUniqueViolation(err) {
			return group.Group{}, group.ErrNameExists
		}
		return group.Group{}, errors.Wrap(err, "inserting group")
	}
	return grp, nil
}

func (repo *groupRepository) GetGroup(ctx context.Context, filter group.GetFilter) (group.Group, error) {
	q := psql.Select(groupColumns...).From(groupTable)

	if filter.ID != "" {
		if _, err := uuid.Parse(filter.ID); err != nil {
			return group.Group{}, group.ErrNotFound
		}
		q = q.Where(sq.Eq{"id": filter.ID})
	} else {
		q = q.Where(sq.Eq{"name": filter.Name})
	}

	qry, args, err := q.ToSql()
	if err != nil {
		return group.Group{}, errors.Wrap(err, "building group query")
	}

	var row groupRow
	if err = repo.db.GetContext(ctx, &row, qry, args...); err != nil {
		return group.Group{}, trapNoRowsErr(err, group.ErrNotFound, "finding group")
	}
	return repo.load(ctx, row.unpack())
}

// load populates the group's Owner and Members (with their Users).
func (repo *groupRepository) load(ctx context.Context, grp group.Group) (group.Group, error) {
	owner, err := repo.users.GetUser(ctx, user.GetFilter{ID: grp.OwnerID})
	if err != nil {
		return group.Group{}, errors.Wrap(err, "loading group owner")
	}
	grp.Owner = &owner

	qry, args, err := psql.Select(memberColumns...).
		From(memberTable).
		Where(sq.Eq{"group_id": grp.ID}).
		OrderBy("joined_at ASC").
		ToSql()
	if err != nil {
		return group.Group{}, errors.Wrap(err, "building members query")
	}

	var rows []memberRow
	if err = repo.db.SelectContext(ctx, &rows, qry, args...); err != nil {
		return group.Group{}, errors.Wrap(err, "querying members")
	}

	members := make([]group.Member, 0, len(rows))
	for _, r := range rows {
		mbr := r.unpack()
		usr, err := repo.users.GetUser(ctx, user.GetFilter{ID: mbr.UserID})
		if err != nil {
			return group.Group{}, errors.Wrap(err, "loading member user")
		}
		mbr.User = &usr
		members = append(members, mbr)
	}
	grp.Members = members
	return grp, nil
}

func (repo *groupRepository) queryGroups(ctx context.Context, q sq.SelectBuilder) ([]group.Group, error) {
	qry, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building groups query")
	}

	var rows []groupRow
	if err = repo.db.SelectContext(ctx, &rows, qry, args...); err != nil {
		return nil, errors.Wrap(err, "querying groups")
	}

	groups := make([]group.Group, 0, len(rows))
	for _, r := range rows {
		grp, err := repo.load(ctx, r.unpack())
		if err != nil {
			return nil, err
		}
		groups = append(groups, grp)
	}
	return groups, nil
}

func (repo *groupRepository) QueryGroups(ctx context.Context) ([]group.Group, error) {
	return repo.queryGroups(ctx, psql.Select(groupColumns...).From(groupTable).OrderBy("created_at ASC"))
}

func (repo *groupRepository) QueryGroupsByOwner(ctx context.Context, ownerID string) ([]group.Group, error) {
	q := psql.Select(groupColumns...).
		From(groupTable).
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at ASC")
	return repo.queryGroups(ctx, q)
}

func (repo *groupRepository) QueryGroupsByMember(ctx context.Context, userID string) ([]group.Group, error) {
	q := psql.Select(prefixColumns("g", groupColumns)...).
		From(groupTable + " g").
		Join(memberTable + " m ON m.group_id = g.id").
		Where(sq.Eq{"m.user_id": userID}).
		OrderBy("g.created_at ASC")
	return repo.queryGroups(ctx, q)
}

func (repo *groupRepository) UpdateGroup(ctx context.Context, grp group.Group) (group.Group, error) {
	qry, args, err := psql.Update(groupTable).
		Set("name", grp.Name).
		Set("description", grp.Description).
		Set("updated_at", grp.UpdatedAt.UTC()).
		Where(sq.Eq{"id": grp.ID}).
		ToSql()
	if err != nil {
		return group.Group{}, errors.Wrap(err, "building group update")
	}
	res, err := repo.db.ExecContext(ctx, qry, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return group.Group{}, group.ErrNameExists
		}
		return group.Group{}, errors.Wrap(err, "updating group")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return group.Group{}, group.ErrNotFound
	}
	return repo.GetGroup(ctx, group.GetFilter{ID: grp.ID})
}

func (repo *groupRepository) DeleteGroup(ctx context.Context, id string) error {
	qry, args, err := psql.Delete(groupTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building group delete")
	}
	res, err := repo.db.ExecContext(ctx, qry, args...)
	if err != nil {
		return errors.Wrap(err, "deleting group")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return group.ErrNotFound
	}
	return nil
}

func (repo *groupRepository) CreateMember(ctx context.Context, mbr group.Member) (group.Member, error) {
	mbr.ID = uuid.New().String()
	qry, args, err := psql.Insert(memberTable).
		Columns(memberColumns...).
		Values(mbr.ID, mbr.GroupID, mbr.UserID, mbr.Role, mbr.JoinedAt.UTC()).
		ToSql()
	if err != nil {
		return group.Member{}, errors.Wrap(err, "building member insert")
	}
	if _, err = repo.db.ExecContext(ctx, qry, args...); err != nil {
		if isUniqueViolation(err) {
			return group.Member{}, group.ErrAlreadyMember
		}
		return group.Member{}, errors.Wrap(err, "inserting member")
	}
	return mbr, nil
}

func (repo *groupRepository) GetMember(ctx context.Context, groupID, userID string) (group.Member, error) {
	qry, args, err := psql.Select(memberColumns...).
		From(memberTable).
		Where(sq.Eq{"group_id": groupID, "user_id": userID}).
		ToSql()
	if err != nil {
		return group.Member{}, errors.Wrap(err, "building member query")
	}

	var row memberRow
	if err = repo.db.GetContext(ctx, &row, qry, args...); err != nil {
		return group.Member{}, trapNoRowsErr(err, group.ErrMemberNotFound, "finding member")
	}
	return row.unpack(), nil
}

func (repo *groupRepository) DeleteMember(ctx context.Context, groupID, userID string) (int, error) {
	qry, args, err := psql.Delete(memberTable).
		Where(sq.Eq{"group_id": groupID, "user_id": userID}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building member delete")
	}
	res, err := repo.db.ExecContext(ctx, qry, args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting member")
	}
	cnt, _ := res.RowsAffected()
	return int(cnt), nil
}

func (repo *groupRepository) DeleteMembersByGroupID(ctx context.Context, groupID string) (int, error) {
	qry, args, err := psql.Delete(memberTable).Where(sq.Eq{"group_id": groupID}).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building members delete")
	}
	res, err := repo.db.ExecContext(ctx, qry, args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting members")
	}
	cnt, _ := res.RowsAffected()
	return int(cnt), nil
}
