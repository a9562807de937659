package services

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/formbay/formbay-be/internal/database"
	"github.com/formbay/formbay-be/internal/models"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	// A second pool connection would see an empty in-memory database.
	db.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// assertCode fails unless err is a ServiceError with the given code.
func assertCode(t *testing.T, err error, code ErrorCode) *ServiceError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ServiceError, got %T: %v", err, err)
	}
	if svcErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, svcErr.Code, err)
	}
	return svcErr
}

func hasFieldDetail(details []FieldError, field string) bool {
	for _, d := range details {
		if d.Field == field {
			return true
		}
	}
	return false
}

// newOwner registers a user to satisfy the owner_id foreign key.
func newOwner(t *testing.T, db *sql.DB) string {
	t.Helper()
	users := NewUserService(db)
	user, err := users.Register(uuid.New().String()+"@example.com", "pw", "Owner")
	if err != nil {
		t.Fatalf("register owner: %v", err)
	}
	return user.ID
}

func sampleQuestions() []models.Question {
	return []models.Question{
		{Text: "What is your name?", Type: models.QuestionShortText, Required: true},
		{Text: "Tell us about yourself", Type: models.QuestionLongText},
	}
}
