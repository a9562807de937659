package services

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/formbay/formbay-be/internal/database"
	"github.com/formbay/formbay-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(email, password, name string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
	ListUsers() ([]models.User, error)
	UpdateProfile(id, name, password string) (models.User, error)
	DeleteUser(id string) error
}

// UserService provides business logic for user accounts.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a new user, hashing their password. The returned user
// never carries the hash.
func (s *UserService) Register(email, password, name string) (models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)

	var details []FieldError
	if email == "" {
		details = append(details, FieldError{Field: "email", Message: "Email is required"})
	} else if !strings.Contains(email, "@") {
		details = append(details, FieldError{Field: "email", Message: "Email is invalid"})
	}
	if password == "" {
		details = append(details, FieldError{Field: "password", Message: "Password is required"})
	}
	if name == "" {
		details = append(details, FieldError{Field: "name", Message: "Name is required"})
	}
	if len(details) > 0 {
		return models.User{}, NewInvalidError("Validation failed", details...)
	}

	var exists int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE email = ?", email).Scan(&exists); err != nil {
		return models.User{}, err
	}
	if exists > 0 {
		return models.User{}, NewConflictError("Validation failed",
			FieldError{Field: "email", Message: "Email already exists"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, email, name, password_hash, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(user.ID, user.Email, user.Name, string(hashedPassword), user.CreatedAt, user.UpdatedAt); err != nil {
		// Two concurrent registrations can both pass the COUNT above; the
		// UNIQUE index decides the loser.
		if database.IsUniqueViolation(err) {
			return models.User{}, NewConflictError("Validation failed",
				FieldError{Field: "email", Message: "Email already exists"})
		}
		return models.User{}, err
	}

	return user, nil
}

// Authenticate verifies a user's credentials. Unknown email and wrong
// password produce the same error.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var user models.User
	row := s.db.QueryRow("SELECT id, email, name, password_hash, created_at, updated_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, NewUnauthorizedError("Email or password is incorrect")
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, NewUnauthorizedError("Email or password is incorrect")
	}

	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, name, created_at, updated_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, NewNotFoundError("User not found")
		}
		return models.User{}, err
	}
	return user, nil
}

// ListUsers retrieves all users in registration order.
func (s *UserService) ListUsers() ([]models.User, error) {
	rows, err := s.db.Query("SELECT id, email, name, created_at, updated_at FROM users ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateProfile sets a new name and/or password for a user and bumps
// updated_at. Empty arguments leave the corresponding field untouched.
func (s *UserService) UpdateProfile(id, name, password string) (models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" && password == "" {
		return models.User{}, NewInvalidError("Validation failed",
			FieldError{Field: "name", Message: "Name or password is required"})
	}

	user, err := s.GetUserByID(id)
	if err != nil {
		return models.User{}, err
	}

	if name != "" {
		user.Name = name
	}

	hash := ""
	if password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, err
		}
		hash = string(hashedPassword)
	}

	user.UpdatedAt = time.Now().UTC()

	if hash != "" {
		_, err = s.db.Exec("UPDATE users SET name = ?, password_hash = ?, updated_at = ? WHERE id = ?",
			user.Name, hash, user.UpdatedAt, id)
	} else {
		_, err = s.db.Exec("UPDATE users SET name = ?, updated_at = ? WHERE id = ?",
			user.Name, user.UpdatedAt, id)
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// DeleteUser removes a user. Their sessions and forms go with them via the
// foreign key cascade.
func (s *UserService) DeleteUser(id string) error {
	res, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return NewNotFoundError("User not found")
	}
	return nil
}
