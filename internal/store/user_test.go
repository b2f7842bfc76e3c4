package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"park-with-ease/internal/database"
	"park-with-ease/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func userRow(u model.User) database.FakeRow {
	return database.FakeRow{Values: []any{u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.CreatedAt}}
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	sample := model.User{
		ID:           7,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash123",
		Role:         model.RoleUser,
		CreatedAt:    now,
	}

	t.Run("GetUserByID success", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "WHERE id = $1")
			require.Equal(t, []any{7}, args)
			return userRow(sample)
		}}
		u, err := GetUserByID(ctx, db, 7)
		require.NoError(t, err)
		require.Equal(t, sample, *u)
	})

	t.Run("GetUserByID not found", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row {
			return database.FakeRow{Err: pgx.ErrNoRows}
		}}
		_, err := GetUserByID(ctx, db, 1)
		require.ErrorIs(t, err, pgx.ErrNoRows)
		require.ErrorContains(t, err, "GetUserByID")
	})

	t.Run("GetUserByUsername", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "WHERE username = $1")
			return userRow(sample)
		}}
		u, err := GetUserByUsername(ctx, db, "alice")
		require.NoError(t, err)
		require.Equal(t, 7, u.ID)
	})

	t.Run("taken checks", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row {
			return database.FakeRow{Values: []any{true}}
		}}
		taken, err := UsernameTaken(ctx, db, "alice")
		require.NoError(t, err)
		require.True(t, taken)
		taken, err = EmailTaken(ctx, db, "alice@example.com")
		require.NoError(t, err)
		require.True(t, taken)
		exists, err := AdminExists(ctx, db)
		require.NoError(t, err)
		require.True(t, exists)

		db.QueryRowFn = func(context.Context, string, ...any) pgx.Row { return database.FakeRow{Err: errors.New("db")} }
		_, err = UsernameTaken(ctx, db, "alice")
		require.Error(t, err)
		_, err = EmailTaken(ctx, db, "x")
		require.Error(t, err)
		_, err = AdminExists(ctx, db)
		require.Error(t, err)
	})

	t.Run("CreateUser", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "INSERT INTO users")
			require.Equal(t, []any{"bob", "bob@example.com", "h", model.RoleUser}, args)
			return database.FakeRow{Values: []any{9, now}}
		}}
		u, err := CreateUser(ctx, db, &model.User{Username: "bob", Email: "bob@example.com", PasswordHash: "h", Role: model.RoleUser})
		require.NoError(t, err)
		require.Equal(t, 9, u.ID)
		require.Equal(t, now, u.CreatedAt)

		db.QueryRowFn = func(context.Context, string, ...any) pgx.Row { return database.FakeRow{Err: errors.New("dup")} }
		_, err = CreateUser(ctx, db, &model.User{})
		require.ErrorContains(t, err, "CreateUser")
	})

	t.Run("ListUsersByRole", func(t *testing.T) {
		db := &database.FakeDB{QueryFn: func(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
			require.Equal(t, []any{model.RoleUser}, args)
			return &database.FakeRows{Data: [][]any{userRow(sample).Values}}, nil
		}}
		users, err := ListUsersByRole(ctx, db, model.RoleUser)
		require.NoError(t, err)
		require.Len(t, users, 1)
		require.Equal(t, "alice", users[0].Username)

		db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) { return nil, errors.New("q") }
		_, err = ListUsersByRole(ctx, db, model.RoleUser)
		require.Error(t, err)

		db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) {
			return &database.FakeRows{Data: [][]any{{1}}}, nil
		}
		_, err = ListUsersByRole(ctx, db, model.RoleUser)
		require.Error(t, err)

		db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) {
			return &database.FakeRows{ErrVal: errors.New("rows")}, nil
		}
		_, err = ListUsersByRole(ctx, db, model.RoleUser)
		require.Error(t, err)
	})

	t.Run("CountUsersByRole", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row {
			return database.FakeRow{Values: []any{4}}
		}}
		n, err := CountUsersByRole(ctx, db, model.RoleUser)
		require.NoError(t, err)
		require.Equal(t, 4, n)
	})
}

func TestUniqueViolation(t *testing.T) {
	name, ok := UniqueViolation(fmt.Errorf("CreateUser: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}))
	require.True(t, ok)
	require.Equal(t, "users_email_key", name)

	_, ok = UniqueViolation(&pgconn.PgError{Code: "23503"})
	require.False(t, ok)
	_, ok = UniqueViolation(errors.New("other"))
	require.False(t, ok)
}
