package db

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"bedrift/internal/models"
)

// CreateInquiry persists a contact-form submission. Inquiries are
// insert-only; no route updates or deletes them.
func CreateInquiry(dbc *sql.DB, name, email, body string) (*models.Inquiry, error) {
	now := time.Now().UTC()
	res, err := dbc.Exec(`INSERT INTO inquiries(name,email,body,created_at) VALUES(?,?,?,?)`,
		name, email, body, now)
	if err != nil {
		return nil, errors.Wrap(err, "insert inquiry")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "insert inquiry")
	}
	return &models.Inquiry{ID: id, Name: name, Email: email, Body: body, CreatedAt: now}, nil
}

// ListInquiries returns every inquiry, newest first.
func ListInquiries(dbc *sql.DB) ([]models.Inquiry, error) {
	rows, err := dbc.Query(`SELECT id, name, email, body, created_at FROM inquiries ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "list inquiries")
	}
	defer rows.Close()

	var inquiries []models.Inquiry
	for rows.Next() {
		var q models.Inquiry
		if err := rows.Scan(&q.ID, &q.Name, &q.Email, &q.Body, &q.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan inquiry")
		}
		inquiries = append(inquiries, q)
	}
	return inquiries, rows.Err()
}

func CountInquiries(dbc *sql.DB) (int, error) {
	var n int
	err := dbc.QueryRow(`SELECT COUNT(*) FROM inquiries`).Scan(&n)
	return n, err
}
