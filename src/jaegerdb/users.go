package jaegerdb

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/MGavranovic/jaeger-tracker/src/jaegererr"
	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

type userStore struct {
	db *DB
}

func (s *userStore) Get(ctx context.Context, id int64) (jaegermodel.User, error) {
	u, err := queryOne[jaegermodel.User](ctx, s.db, "jaegerdb.GetUser",
		psql.Select(userColumns...).From("users").Where(sq.Eq{"id": id}))
	return u, notFoundAs(err, "User", id)
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (jaegermodel.User, error) {
	u, err := queryOne[jaegermodel.User](ctx, s.db, "jaegerdb.GetUserByEmail",
		psql.Select(userColumns...).From("users").
			Where(sq.Expr("lower(email) = ?", jaegermodel.NormalizeEmail(email))))
	if jaegererr.Is(err, jaegererr.ENotFound) {
		return u, &jaegererr.Error{Code: jaegererr.ENotFound, Msg: "user not found", Err: err}
	}
	return u, err
}

func (s *userStore) List(ctx context.Context) ([]jaegermodel.User, error) {
	return queryAll[jaegermodel.User](ctx, s.db, "jaegerdb.ListUsers",
		psql.Select(userColumns...).From("users").OrderBy("id ASC"))
}

func (s *userStore) Add(ctx context.Context, u jaegermodel.User) (jaegermodel.User, error) {
	return queryOne[jaegermodel.User](ctx, s.db, "jaegerdb.AddUser",
		psql.Insert("users").
			Columns("email", "first_name", "last_name", "password_hash", "role", "created_at", "updated_at").
			Values(jaegermodel.NormalizeEmail(u.Email), u.FirstName, u.LastName, u.PasswordHash, string(u.Role), u.CreatedAt, u.UpdatedAt).
			Suffix(returning(userColumns)))
}

func (s *userStore) Update(ctx context.Context, u jaegermodel.User) (jaegermodel.User, error) {
	out, err := queryOne[jaegermodel.User](ctx, s.db, "jaegerdb.UpdateUser",
		psql.Update("users").
			Set("email", jaegermodel.NormalizeEmail(u.Email)).
			Set("first_name", u.FirstName).
			Set("last_name", u.LastName).
			Set("password_hash", u.PasswordHash).
			Set("role", string(u.Role)).
			Set("updated_at", u.UpdatedAt).
			Where(sq.Eq{"id": u.ID}).
			Suffix(returning(userColumns)))
	return out, notFoundAs(err, "User", u.ID)
}

func (s *userStore) Delete(ctx context.Context, u jaegermodel.User) error {
	n, err := exec(ctx, s.db, "jaegerdb.DeleteUser", psql.Delete("users").Where(sq.Eq{"id": u.ID}))
	if err != nil {
		return err
	}
	if n == 0 {
		return NotFound("User", u.ID)
	}
	return nil
}

func (s *userStore) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, s.db, "jaegerdb.UserExists",
		psql.Select("1").From("users").Where(sq.Eq{"id": id}))
}

func (s *userStore) EmailExists(ctx context.Context, email string) (bool, error) {
	return exists(ctx, s.db, "jaegerdb.EmailExists",
		psql.Select("1").From("users").
			Where(sq.Expr("lower(email) = ?", jaegermodel.NormalizeEmail(email))))
}
