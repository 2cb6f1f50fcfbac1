package user

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	myErr "lavka-main/internal/types/errors"
	types "lavka-main/internal/types/user"
)

func userRows(email, passwordHash string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"user_id", "name", "surname", "email", "phone_number", "password_hash", "is_admin", "registration_date",
	}).AddRow("some-id", "John", "Doe", email, "1234567890", passwordHash, false, time.Now())
}

func TestUserDBRepository_CreateUser(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &UserDBRepository{DB: db, Logger: zaptest.NewLogger(t).Sugar()}

	u := types.CreateUser{
		Name:        "John",
		Surname:     "Doe",
		Email:       "john@example.com",
		PhoneNumber: "1234567890",
		Password:    "securepass123",
	}

	t.Run("successfully_create_user", func(t *testing.T) {
		// 1. Поиск по почте - не найден
		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
			WithArgs(u.Email).
			WillReturnError(sql.ErrNoRows)

		// 2. INSERT INTO users
		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(sqlmock.AnyArg(), u.Name, u.Surname, u.Email,
				u.PhoneNumber, sqlmock.AnyArg(), false, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		created, err := repo.CreateUser(u)
		require.NoError(t, err)
		require.NotNil(t, created)
		require.Equal(t, u.Name, created.Name)
		require.Equal(t, u.Email, created.Email)
		require.NotEmpty(t, created.PasswordHash)
	})

	t.Run("user_already_exists", func(t *testing.T) {
		hash, _ := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost) // nolint:errcheck

		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
			WithArgs(u.Email).
			WillReturnRows(userRows(u.Email, string(hash)))

		_, err := repo.CreateUser(u)
		require.ErrorIs(t, err, myErr.ErrAlreadyExists)
	})
}

func TestUserDBRepository_CheckUser(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &UserDBRepository{DB: db, Logger: zaptest.NewLogger(t).Sugar()}

	email := "john@example.com"
	password := "securepass123"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
			WithArgs(email).
			WillReturnRows(userRows(email, string(hash)))

		u, err := repo.CheckUser(email, password)
		require.NoError(t, err)
		assert.Equal(t, email, u.Email)
	})

	t.Run("bad_password", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
			WithArgs(email).
			WillReturnRows(userRows(email, string(hash)))

		_, err := repo.CheckUser(email, "wrong-password")
		require.ErrorIs(t, err, myErr.ErrBadPassword)
	})

	t.Run("not_found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
			WithArgs(email).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.CheckUser(email, password)
		require.ErrorIs(t, err, myErr.ErrNotFound)
	})
}

func TestUserDBRepository_Info(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &UserDBRepository{DB: db, Logger: zaptest.NewLogger(t).Sugar()}

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"user_id", "name", "surname", "email", "phone_number", "is_admin", "registration_date",
		}).AddRow("id-1", "John", "Doe", "john@example.com", "1234567890", true, time.Now())

		mock.ExpectQuery(`SELECT .* FROM users WHERE user_id = \$1`).
			WithArgs("id-1").
			WillReturnRows(rows)

		u, err := repo.Info("id-1")
		require.NoError(t, err)
		assert.True(t, u.IsAdmin)
	})

	t.Run("not_found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE user_id = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Info("missing")
		require.ErrorIs(t, err, myErr.ErrNotFound)
	})
}

func TestUserDBRepository_ChangeProfile(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &UserDBRepository{DB: db, Logger: zaptest.NewLogger(t).Sugar()}

	t.Run("updates_and_returns_fresh_info", func(t *testing.T) {
		mock.ExpectExec(`UPDATE users SET name = \$1 WHERE user_id = \$2`).
			WithArgs("Jane", "id-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		rows := sqlmock.NewRows([]string{
			"user_id", "name", "surname", "email", "phone_number", "is_admin", "registration_date",
		}).AddRow("id-1", "Jane", "Doe", "john@example.com", "1234567890", false, time.Now())

		mock.ExpectQuery(`SELECT .* FROM users WHERE user_id = \$1`).
			WithArgs("id-1").
			WillReturnRows(rows)

		u, err := repo.ChangeProfile("id-1", types.ChangeUser{Name: "Jane"})
		require.NoError(t, err)
		assert.Equal(t, "Jane", u.Name)
	})

	t.Run("not_found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE users SET name = \$1 WHERE user_id = \$2`).
			WithArgs("Jane", "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.ChangeProfile("missing", types.ChangeUser{Name: "Jane"})
		require.ErrorIs(t, err, myErr.ErrNotFound)
	})

	t.Run("db_error", func(t *testing.T) {
		mock.ExpectExec(`UPDATE users SET name = \$1 WHERE user_id = \$2`).
			WithArgs("Jane", "id-1").
			WillReturnError(errors.New("db down"))

		_, err := repo.ChangeProfile("id-1", types.ChangeUser{Name: "Jane"})
		require.ErrorIs(t, err, myErr.ErrDBInternal)
	})
}
