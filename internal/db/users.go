package db

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"bedrift/internal/models"
)

const userColumns = `id, username, email, image_file, password_hash, is_admin, created_at`

// CreateUser inserts a new user and returns it with its assigned ID.
// A taken username or email yields ErrDuplicate.
func CreateUser(dbc *sql.DB, username, email, passwordHash string, isAdmin bool) (*models.User, error) {
	now := time.Now().UTC()
	res, err := dbc.Exec(`INSERT INTO users(username,email,password_hash,is_admin,created_at) VALUES(?,?,?,?,?)`,
		username, email, passwordHash, isAdmin, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, errors.Wrap(err, "insert user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "insert user")
	}
	return GetUserByID(dbc, id)
}

func GetUserByID(dbc *sql.DB, id int64) (*models.User, error) {
	return scanUser(dbc.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func GetUserByEmail(dbc *sql.DB, email string) (*models.User, error) {
	return scanUser(dbc.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func GetUserByUsername(dbc *sql.DB, username string) (*models.User, error) {
	return scanUser(dbc.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

// ListUsers returns every registered user, oldest first.
func ListUsers(dbc *sql.DB) ([]models.User, error) {
	rows, err := dbc.Query(`SELECT ` + userColumns + ` FROM users ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.ImageFile, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func CountUsers(dbc *sql.DB) (int, error) {
	var n int
	err := dbc.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.ImageFile, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "scan user")
	}
	return u, nil
}
