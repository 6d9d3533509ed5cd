package pgrepos

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasalabs/darasa/core"
	"github.com/darasalabs/darasa/core/user"
)

const userTable = `"user"`

var userColumns = []string{
	"id", "first_name", "last_name", "email", "role",
	"is_active", "password_hash", "created_at", "updated_at", "last_login",
}

type userRow struct {
	ID           string       `db:"id"`
	FirstName    string       `db:"first_name"`
	LastName     string       `db:"last_name"`
	Email        string       `db:"email"`
	Role         string       `db:"role"`
	IsActive     bool         `db:"is_active"`
	PasswordHash []byte       `db:"password_hash"`
	CreatedAt    sql.NullTime `db:"created_at"`
	UpdatedAt    sql.NullTime `db:"updated_at"`
	LastLogin    sql.NullTime `db:"last_login"`
}

func (r userRow) unpack() user.User {
	return user.User{
		ID:           r.ID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		Role:         r.Role,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.Time,
		UpdatedAt:    r.UpdatedAt.Time,
		LastLogin:    r.LastLogin.Time,
	}
}

func unpackUserRows(rows []userRow) []user.User {
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.unpack())
	}
	return users
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	q := psql.Select("count(*)").From(userTable).Where(sq.Eq{"email": email})
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		q = q.Where(sq.NotEq{"id": ids})
	}
	qry, args, err := q.ToSql()
	if err != nil {
		return errors.Wrap(err, "building user uniqueness query")
	}

	var cnt int
	if err = repo.db.GetContext(ctx, &cnt, qry, args...); err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}
	if cnt > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	qry, args, err := psql.Insert(userTable).
		Columns(userColumns...).
		Values(
			usr.ID, usr.FirstName, usr.LastName, usr.Email, usr.Role,
			usr.IsActive, usr.PasswordHash, usr.CreatedAt.UTC(), usr.UpdatedAt.UTC(), nullTime(usr.LastLogin),
		).
		ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building user insert")
	}
	if _, err = repo.db.ExecContext(ctx, qry, args...); err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter, ordering ...core.DBOrdering) ([]user.User, error) {
	q := psql.Select(userColumns...).From(userTable)

	if filter != nil {
		// users with FirstName, LastName or Email matching the search keyword
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			q = q.Where(sq.Or{
				sq.ILike{"first_name": val},
				sq.ILike{"last_name": val},
				sq.ILike{"email": val},
			})
		}
		if filter.Role != "" {
			q = q.Where(sq.Eq{"role": filter.Role})
		}
		if filter.IsActive != nil {
			q = q.Where(sq.Eq{"is_active": *filter.IsActive})
		}
		if !filter.CreatedFrom.IsZero() {
			q = q.Where(sq.GtOrEq{"created_at": filter.CreatedFrom.UTC()})
		}
		if !filter.CreatedTo.IsZero() {
			q = q.Where(sq.LtOrEq{"created_at": filter.CreatedTo.UTC()})
		}
	}

	if len(ordering) > 0 {
		for _, ord := range ordering {
			q = q.OrderBy(ord.String())
		}
	} else {
		q = q.OrderBy("created_at ASC")
	}

	qry, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building users query")
	}

	var rows []userRow
	if err = repo.db.SelectContext(ctx, &rows, qry, args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return unpackUserRows(rows), nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	q := psql.Select(userColumns...).From(userTable)

	if filter.ID != "" {
		if _, err := uuid.Parse(filter.ID); err != nil {
			return user.User{}, user.ErrNotFound
		}
		q = q.Where(sq.Eq{"id": filter.ID})
	} else {
		q = q.Where(sq.Eq{"email": filter.Email})
	}

	qry, args, err := q.ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building user query")
	}

	var row userRow
	if err = repo.db.GetContext(ctx, &row, qry, args...); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "finding user")
	}
	return row.unpack(), nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	q := psql.Update(userTable).Where(sq.Eq{"id": usr.ID}).Set("updated_at", usr.UpdatedAt.UTC())
	if usr.FirstName != "" {
		q = q.Set("first_name", usr.FirstName)
	}
	if usr.LastName != "" {
		q = q.Set("last_name", usr.LastName)
	}
	if usr.Email != "" {
		q = q.Set("email", usr.Email)
	}
	if usr.Role != "" {
		q = q.Set("role", usr.Role)
	}
	if usr.PasswordHash != nil {
		q = q.Set("password_hash", usr.PasswordHash)
	}
	if !usr.LastLogin.IsZero() {
		q = q.Set("last_login", usr.LastLogin.UTC())
	}
	if isActive != nil {
		q = q.Set("is_active", *isActive)
	}

	qry, args, err := q.ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building user update")
	}
	res, err := repo.db.ExecContext(ctx, qry, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) (int, error) {
	qry, args, err := psql.Delete(userTable).Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building users delete")
	}
	res, err := repo.db.ExecContext(ctx, qry, args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting users")
	}
	cnt, _ := res.RowsAffected()
	return int(cnt), nil
}
