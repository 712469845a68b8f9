package form

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrFormNotFound covers both a missing form and a form owned by
	// someone else; callers cannot tell the two apart.
	ErrFormNotFound = errors.New("form not found")
)

type Service struct {
	db *sql.DB
}

type Form struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) CreateForm(ctx context.Context, name string, ownerID int64) (*Form, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	f := &Form{ID: uuid.NewString(), Name: name}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO forms (id, name, user_id)
		VALUES ($1, $2, $3)
	`, f.ID, f.Name, ownerID); err != nil {
		return nil, fmt.Errorf("insert form: %w", err)
	}

	return f, nil
}

func (s *Service) ListForms(ctx context.Context, ownerID int64) ([]Form, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name
		FROM forms
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query forms: %w", err)
	}
	defer rows.Close()

	out := make([]Form, 0)
	for rows.Next() {
		var f Form
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, fmt.Errorf("scan form: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate forms: %w", err)
	}
	return out, nil
}

func (s *Service) RenameForm(ctx context.Context, formID string, ownerID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidInput
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE forms
		SET name = $3
		WHERE id = $1 AND user_id = $2
	`, formID, ownerID, name)
	if err != nil {
		return fmt.Errorf("rename form: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFormNotFound
	}
	return nil
}

// DeleteForm removes the form; questions, options and responses go with it
// through the schema's cascade rules.
func (s *Service) DeleteForm(ctx context.Context, formID string, ownerID int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM forms
		WHERE id = $1 AND user_id = $2
	`, formID, ownerID)
	if err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFormNotFound
	}
	return nil
}

func (s *Service) IsOwner(ctx context.Context, formID string, userID int64) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM forms WHERE id = $1 AND user_id = $2
		)
	`, formID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check form owner: %w", err)
	}
	return exists, nil
}
