package services

import (
	"testing"
	"time"
)

func TestRegister_ReturnsUserWithoutHash(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	user, err := svc.Register("alice@example.com", "s3cret", "Alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" {
		t.Error("expected an assigned id")
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked in returned user")
	}
	if user.Email != "alice@example.com" || user.Name != "Alice" {
		t.Errorf("unexpected user %+v", user)
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.Register("", "", "")
	svcErr := assertCode(t, err, ErrorInvalid)
	for _, field := range []string{"email", "password", "name"} {
		if !hasFieldDetail(svcErr.Details, field) {
			t.Errorf("missing %s detail in %v", field, svcErr.Details)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	if _, err := svc.Register("bob@example.com", "pw1", "Bob"); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register("bob@example.com", "pw2", "Robert")
	svcErr := assertCode(t, err, ErrorConflict)
	if !hasFieldDetail(svcErr.Details, "email") {
		t.Errorf("expected email detail, got %v", svcErr.Details)
	}

	// Only one user persists.
	users, err := svc.ListUsers()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if users[0].Name != "Bob" {
		t.Errorf("second registration overwrote the first: %+v", users[0])
	}
}

func TestAuthenticate(t *testing.T) {
	svc := NewUserService(newTestDB(t))
	if _, err := svc.Register("carol@example.com", "hunter2", "Carol"); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Authenticate("carol@example.com", "hunter2")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked from Authenticate")
	}

	if _, err := svc.Authenticate("carol@example.com", "wrong"); err == nil {
		t.Fatal("expected failure for wrong password")
	} else {
		assertCode(t, err, ErrorUnauthorized)
	}

	// Unknown email produces the same error class as a bad password.
	_, err = svc.Authenticate("nobody@example.com", "hunter2")
	assertCode(t, err, ErrorUnauthorized)
}

func TestUpdateProfile(t *testing.T) {
	svc := NewUserService(newTestDB(t))
	user, err := svc.Register("dave@example.com", "old-pass", "Dave")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := svc.UpdateProfile(user.ID, "David", "new-pass")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "David" {
		t.Errorf("name not updated: %+v", updated)
	}
	if !updated.UpdatedAt.After(user.UpdatedAt) && !updated.UpdatedAt.Equal(user.UpdatedAt) {
		t.Error("updated_at went backwards")
	}

	if _, err := svc.Authenticate("dave@example.com", "old-pass"); err == nil {
		t.Error("old password still accepted")
	}
	if _, err := svc.Authenticate("dave@example.com", "new-pass"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	svc := NewUserService(newTestDB(t))
	user, err := svc.Register("erin@example.com", "pw", "Erin")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.DeleteUser(user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = svc.GetUserByID(user.ID)
	assertCode(t, err, ErrorNotFound)

	err = svc.DeleteUser(user.ID)
	assertCode(t, err, ErrorNotFound)
}

func TestDeleteUser_RevokesSessions(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	sessions := NewSessionService(db, testSecret, time.Hour)

	user, err := users.Register("gone@example.com", "pw", "Gone")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	_, token, err := sessions.Create(user.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := sessions.Verify(token); err != nil {
		t.Fatalf("verify before delete: %v", err)
	}

	if err := users.DeleteUser(user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// The deleted user's token must stop authenticating immediately.
	_, err = sessions.Verify(token)
	assertCode(t, err, ErrorUnauthorized)

	var remaining int
	if err := db.QueryRow("SELECT COUNT(1) FROM sessions WHERE user_id = ?", user.ID).Scan(&remaining); err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if remaining != 0 {
		t.Errorf("expected no surviving sessions, got %d", remaining)
	}
}
