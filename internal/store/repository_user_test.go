package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/chatter-social/chatter/internal/logger"
	"github.com/chatter-social/chatter/models"
)

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &userRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func userRows(id int64, name, email string) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{"id", "name", "email", "password_digest", "remember_digest", "activation_digest", "reset_digest", "activated", "activated_at", "reset_sent_at", "created_at"}).
		AddRow(id, name, email, "pw-digest", "", "act-digest", "", false, nil, nil, time.Now())
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{
		Name:             "Example User",
		Email:            "user@example.com",
		PasswordDigest:   "pw-digest",
		ActivationDigest: "act-digest",
		ActivationToken:  "raw-activation",
	}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Name, user.Email, user.PasswordDigest, user.ActivationDigest).
		WillReturnRows(userRows(1, user.Name, user.Email))

	created, err := repo.CreateUser(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("expected ID=1, got %d", created.ID)
	}
	if created.Email != user.Email {
		t.Errorf("expected email %s, got %s", user.Email, created.Email)
	}
	// transient token survives the round-trip in memory only
	if created.ActivationToken != "raw-activation" {
		t.Errorf("expected activation token to be carried over, got %q", created.ActivationToken)
	}
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{Email: "user@example.com"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(ctx, user)
	if !errors.Is(err, ErrEmailAlreadyTaken) {
		t.Fatalf("expected ErrEmailAlreadyTaken, got %v", err)
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db network error"))

	_, err := repo.CreateUser(ctx, models.User{})
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestFindUserByEmail_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("user@example.com").
		WillReturnRows(userRows(7, "Example User", "user@example.com"))

	user, err := repo.FindUserByEmail(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 7 {
		t.Errorf("expected ID=7, got %d", user.ID)
	}
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByEmail(context.Background(), "missing@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFindUserByID_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByID(context.Background(), 99)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateRememberDigest_SetAndClear(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(1), "new-digest").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateRememberDigest(context.Background(), 1, "new-digest"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(1), "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateRememberDigest(context.Background(), 1, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateRememberDigest_MissingUser(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(404), "digest").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateRememberDigest(context.Background(), 404, "digest")
	if !errors.Is(err, ErrUserNotUpdated) {
		t.Fatalf("expected ErrUserNotUpdated, got %v", err)
	}
}

func TestSetResetDigest(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	sentAt := time.Now()
	mock.ExpectExec("UPDATE users").
		WithArgs(int64(1), "reset-digest", sentAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetResetDigest(context.Background(), 1, "reset-digest", sentAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdatePasswordClearReset(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	// the one statement consumes the reset and severs existing sessions
	mock.ExpectExec(`UPDATE users\s+SET password_digest = \$2, reset_digest = '', reset_sent_at = NULL, remember_digest = ''`).
		WithArgs(int64(1), "new-pw-digest").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePasswordClearReset(context.Background(), 1, "new-pw-digest"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestActivate(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	at := time.Now()
	mock.ExpectExec("UPDATE users").
		WithArgs(int64(3), at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Activate(context.Background(), 3, at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClearExpiredResets(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	cutoff := time.Now().Add(-2 * time.Hour)
	mock.ExpectExec("UPDATE users").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 5))

	swept, err := repo.ClearExpiredResets(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if swept != 5 {
		t.Errorf("expected 5 swept rows, got %d", swept)
	}
}
