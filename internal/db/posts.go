package db

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"bedrift/internal/models"
)

// CreatePost inserts a post owned by the given user. No route exposes
// post creation yet; the site schema carries it for the account pages.
func CreatePost(dbc *sql.DB, userID int64, title, content string) (*models.Post, error) {
	now := time.Now().UTC()
	res, err := dbc.Exec(`INSERT INTO posts(user_id,title,content,created_at) VALUES(?,?,?,?)`,
		userID, title, content, now)
	if err != nil {
		return nil, errors.Wrap(err, "insert post")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "insert post")
	}
	return &models.Post{ID: id, UserID: userID, Title: title, Content: content, CreatedAt: now}, nil
}

// ListPostsByUser returns the posts owned by userID, newest first.
func ListPostsByUser(dbc *sql.DB, userID int64) ([]models.Post, error) {
	rows, err := dbc.Query(`SELECT id, user_id, title, content, created_at FROM posts
		WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list posts")
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan post")
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
