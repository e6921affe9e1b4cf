package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"spareeye/backend/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

const requestColumns = "id, owner, name, car_details, image, image_urls, description, messages, created_at, updated_at"

// --- Requests ---

func (r *sqliteRepository) CreateRequest(ctx context.Context, req *model.DiagnosisRequest) error {
	carDetails, imageURLs, messages, err := encodeRequestColumns(req)
	if err != nil {
		return err
	}

	query := "INSERT INTO requests (" + requestColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err = r.db.ExecContext(ctx, query,
		req.ID,
		req.Owner,
		req.Name,
		carDetails,
		req.Image,
		imageURLs,
		req.Description,
		messages,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("could not insert request: %w", err)
	}
	return nil
}

func (r *sqliteRepository) GetRequest(ctx context.Context, id string) (*model.DiagnosisRequest, error) {
	query := "SELECT " + requestColumns + " FROM requests WHERE id = ?"
	row := r.db.QueryRowContext(ctx, query, id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *sqliteRepository) ListRequests(ctx context.Context, owner string) ([]*model.DiagnosisRequest, error) {
	query := "SELECT " + requestColumns + " FROM requests WHERE owner = ? ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*model.DiagnosisRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (r *sqliteRepository) UpdateRequest(ctx context.Context, req *model.DiagnosisRequest) error {
	carDetails, imageURLs, messages, err := encodeRequestColumns(req)
	if err != nil {
		return err
	}

	query := `
		UPDATE requests
		SET name = ?, car_details = ?, image = ?, image_urls = ?, description = ?, messages = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		req.Name,
		carDetails,
		req.Image,
		imageURLs,
		req.Description,
		messages,
		req.UpdatedAt,
		req.ID,
	)
	if err != nil {
		return fmt.Errorf("could not update request: %w", err)
	}
	return requireAffected(res)
}

func (r *sqliteRepository) DeleteRequest(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM requests WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// --- Users ---

func (r *sqliteRepository) CreateUser(ctx context.Context, user *model.User) error {
	query := "INSERT INTO users (id, username, email, role, hashed_password, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.Email, user.Role, user.HashedPassword, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicate
		}
		return fmt.Errorf("could not insert user: %w", err)
	}
	return nil
}

func (r *sqliteRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return r.getUser(ctx, "id", id)
}

func (r *sqliteRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getUser(ctx, "username", username)
}

func (r *sqliteRepository) getUser(ctx context.Context, column, value string) (*model.User, error) {
	query := "SELECT id, username, email, role, hashed_password, created_at, updated_at FROM users WHERE " + column + " = ?"
	row := r.db.QueryRowContext(ctx, query, value)

	var user model.User
	var email sql.NullString
	err := row.Scan(&user.ID, &user.Username, &email, &user.Role, &user.HashedPassword, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	user.Email = email.String
	return &user, nil
}

func (r *sqliteRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, username, role, created_at FROM users ORDER BY username ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Role, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

func (r *sqliteRepository) UpdatePassword(ctx context.Context, userID, hashedPassword string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET hashed_password = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", hashedPassword, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// --- Settings ---

func (r *sqliteRepository) GetSettings(ctx context.Context, userID string) (*model.Settings, error) {
	query := "SELECT user_id, theme, ai_voice, notifications, auto_updates, created_at, updated_at FROM settings WHERE user_id = ?"
	row := r.db.QueryRowContext(ctx, query, userID)

	var s model.Settings
	err := row.Scan(&s.UserID, &s.Theme, &s.AIVoice, &s.Notifications, &s.AutoUpdates, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *sqliteRepository) SaveSettings(ctx context.Context, s *model.Settings) error {
	query := `
		INSERT INTO settings (user_id, theme, ai_voice, notifications, auto_updates, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			theme = excluded.theme,
			ai_voice = excluded.ai_voice,
			notifications = excluded.notifications,
			auto_updates = excluded.auto_updates,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, s.UserID, s.Theme, s.AIVoice, s.Notifications, s.AutoUpdates, s.CreatedAt, s.UpdatedAt)
	return err
}

// --- Helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*model.DiagnosisRequest, error) {
	var req model.DiagnosisRequest
	var name, carDetails, image, description sql.NullString
	var imageURLs, messages string

	err := row.Scan(&req.ID, &req.Owner, &name, &carDetails, &image, &imageURLs, &description, &messages, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}

	req.Name = name.String
	req.Image = image.String
	req.Description = description.String

	if carDetails.Valid && carDetails.String != "" {
		req.CarDetails = &model.CarDetails{}
		if err := json.Unmarshal([]byte(carDetails.String), req.CarDetails); err != nil {
			return nil, fmt.Errorf("could not decode car details of request %s: %w", req.ID, err)
		}
	}
	if err := json.Unmarshal([]byte(imageURLs), &req.ImageURLs); err != nil {
		return nil, fmt.Errorf("could not decode image urls of request %s: %w", req.ID, err)
	}
	if err := json.Unmarshal([]byte(messages), &req.Messages); err != nil {
		return nil, fmt.Errorf("could not decode messages of request %s: %w", req.ID, err)
	}
	normalizeRequest(&req)
	return &req, nil
}

func encodeRequestColumns(req *model.DiagnosisRequest) (carDetails sql.NullString, imageURLs, messages string, err error) {
	normalizeRequest(req)

	if req.CarDetails != nil {
		b, err := json.Marshal(req.CarDetails)
		if err != nil {
			return carDetails, "", "", fmt.Errorf("could not encode car details: %w", err)
		}
		carDetails = sql.NullString{String: string(b), Valid: true}
	}

	b, err := json.Marshal(req.ImageURLs)
	if err != nil {
		return carDetails, "", "", fmt.Errorf("could not encode image urls: %w", err)
	}
	imageURLs = string(b)

	b, err = json.Marshal(req.Messages)
	if err != nil {
		return carDetails, "", "", fmt.Errorf("could not encode messages: %w", err)
	}
	messages = string(b)

	return carDetails, imageURLs, messages, nil
}

// normalizeRequest replaces nil collections with empty ones so every backend
// serializes them as [] rather than null.
func normalizeRequest(req *model.DiagnosisRequest) {
	if req.ImageURLs == nil {
		req.ImageURLs = []string{}
	}
	if req.Messages == nil {
		req.Messages = []model.Message{}
	}
	for i := range req.Messages {
		if req.Messages[i].ImageURLs == nil {
			req.Messages[i].ImageURLs = []string{}
		}
		if req.Messages[i].Links == nil {
			req.Messages[i].Links = []model.Link{}
		}
	}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
