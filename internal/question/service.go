package question

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnknownKind      = errors.New("unknown question kind")
	ErrFormNotFound     = errors.New("form not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrOptionNotFound   = errors.New("option not found")
)

// questionTable maps a kind to the table owning its records. All five tables
// share the common columns (question, order_index, required, editable);
// rating_questions additionally carries levels.
var questionTable = map[Kind]string{
	KindChoice:  "choice_questions",
	KindText:    "text_questions",
	KindRating:  "rating_questions",
	KindDate:    "date_questions",
	KindRanking: "ranking_questions",
}

// optionTable maps the two option-bearing kinds to their option tables.
var optionTable = map[Kind]struct {
	table string
	fk    string
}{
	KindChoice:  {table: "choice_options", fk: "choice_id"},
	KindRanking: {table: "ranking_options", fk: "ranking_id"},
}

type Service struct {
	db    *sql.DB
	forms FormDirectory
}

// FormDirectory is the ownership-check boundary provided by the form
// lifecycle service. The public completion path needs no boundary call;
// LoadQuestionsPublic resolves existence through its own name lookup.
type FormDirectory interface {
	IsOwner(ctx context.Context, formID string, userID int64) (bool, error)
}

type CreateQuestionInput struct {
	FormID       string
	OwnerID      int64
	Kind         Kind
	Text         string
	Options      []string
	RatingLevels int
	Required     bool
	OrderIndex   int
}

type UpdateQuestionInput struct {
	Kind         Kind
	ID           int64
	OwnerID      int64
	Text         string
	OrderIndex   int
	Required     bool
	RatingLevels int
	Options      []Option
}

func NewService(db *sql.DB, forms FormDirectory) *Service {
	return &Service{db: db, forms: forms}
}

// CreateQuestion inserts a question and, for choice and ranking kinds, its
// options in a single transaction so a crash cannot leave an option-less
// question behind.
func (s *Service) CreateQuestion(ctx context.Context, in CreateQuestionInput) (*Question, error) {
	if !in.Kind.valid() {
		return nil, ErrUnknownKind
	}
	if strings.TrimSpace(in.FormID) == "" {
		return nil, ErrInvalidInput
	}
	if in.Kind == KindRating {
		if in.RatingLevels == 0 {
			in.RatingLevels = 5
		}
		if in.RatingLevels < 2 || in.RatingLevels > 10 {
			return nil, ErrInvalidInput
		}
	}

	owner, err := s.forms.IsOwner(ctx, in.FormID, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, ErrFormNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := &Question{
		Kind:       in.Kind,
		Text:       in.Text,
		OrderIndex: in.OrderIndex,
		Required:   in.Required,
		Editable:   true,
	}

	if in.Kind == KindRating {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO rating_questions (form_id, question, levels, order_index, required)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, in.FormID, in.Text, in.RatingLevels, in.OrderIndex, in.Required).Scan(&q.ID)
		q.RatingLevels = in.RatingLevels
	} else {
		err = tx.QueryRowContext(ctx, fmt.Sprintf(`
			INSERT INTO %s (form_id, question, order_index, required)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, questionTable[in.Kind]), in.FormID, in.Text, in.OrderIndex, in.Required).Scan(&q.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("insert %s question: %w", in.Kind, err)
	}

	if opt, ok := optionTable[in.Kind]; ok {
		opts := make([]Option, 0, len(in.Options))
		for i, text := range in.Options {
			o := Option{Text: text, OrderIndex: i}
			if err := tx.QueryRowContext(ctx, fmt.Sprintf(`
				INSERT INTO %s (%s, option_text, order_index)
				VALUES ($1, $2, $3)
				RETURNING id
			`, opt.table, opt.fk), q.ID, text, i).Scan(&o.ID); err != nil {
				return nil, fmt.Errorf("insert %s option: %w", in.Kind, err)
			}
			opts = append(opts, o)
		}
		if in.Kind == KindChoice {
			q.Options = opts
		} else {
			q.RankOptions = opts
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}
	return q, nil
}

func (s *Service) UpdateQuestion(ctx context.Context, in UpdateQuestionInput) error {
	if !in.Kind.valid() {
		return ErrUnknownKind
	}
	if in.Kind == KindRating && (in.RatingLevels < 2 || in.RatingLevels > 10) {
		return ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var res sql.Result
	if in.Kind == KindRating {
		res, err = tx.ExecContext(ctx, `
			UPDATE rating_questions q
			SET question = $3, levels = $4, order_index = $5, required = $6
			FROM forms f
			WHERE q.id = $1 AND q.form_id = f.id AND f.user_id = $2
		`, in.ID, in.OwnerID, in.Text, in.RatingLevels, in.OrderIndex, in.Required)
	} else {
		res, err = tx.ExecContext(ctx, fmt.Sprintf(`
			UPDATE %s q
			SET question = $3, order_index = $4, required = $5
			FROM forms f
			WHERE q.id = $1 AND q.form_id = f.id AND f.user_id = $2
		`, questionTable[in.Kind]), in.ID, in.OwnerID, in.Text, in.OrderIndex, in.Required)
	}
	if err != nil {
		return fmt.Errorf("update %s question: %w", in.Kind, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrQuestionNotFound
	}

	if opt, ok := optionTable[in.Kind]; ok {
		for _, o := range in.Options {
			if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
				UPDATE %s
				SET option_text = $3, order_index = $4
				WHERE id = $1 AND %s = $2
			`, opt.table, opt.fk), o.ID, in.ID, o.Text, o.OrderIndex); err != nil {
				return fmt.Errorf("update %s option: %w", in.Kind, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}
	return nil
}

func (s *Service) DeleteQuestion(ctx context.Context, kind Kind, questionID, ownerID int64) error {
	if !kind.valid() {
		return ErrUnknownKind
	}

	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		DELETE FROM %s q
		USING forms f
		WHERE q.id = $1 AND q.form_id = f.id AND f.user_id = $2
	`, questionTable[kind]), questionID, ownerID)
	if err != nil {
		return fmt.Errorf("delete %s question: %w", kind, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

// AddChoiceOption appends one option to an existing choice question.
func (s *Service) AddChoiceOption(ctx context.Context, choiceID, ownerID int64, text string, orderIndex int) (*Option, error) {
	return s.addOption(ctx, KindChoice, choiceID, ownerID, text, orderIndex)
}

// AddRankingOption appends one rank option to an existing ranking question.
func (s *Service) AddRankingOption(ctx context.Context, rankingID, ownerID int64, text string, orderIndex int) (*Option, error) {
	return s.addOption(ctx, KindRanking, rankingID, ownerID, text, orderIndex)
}

func (s *Service) DeleteChoiceOption(ctx context.Context, optionID, ownerID int64) error {
	return s.deleteOption(ctx, KindChoice, optionID, ownerID)
}

func (s *Service) DeleteRankingOption(ctx context.Context, optionID, ownerID int64) error {
	return s.deleteOption(ctx, KindRanking, optionID, ownerID)
}

func (s *Service) addOption(ctx context.Context, kind Kind, questionID, ownerID int64, text string, orderIndex int) (*Option, error) {
	opt := optionTable[kind]

	var exists bool
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1
			FROM %s q
			JOIN forms f ON f.id = q.form_id
			WHERE q.id = $1 AND f.user_id = $2
		)
	`, questionTable[kind]), questionID, ownerID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check %s owner: %w", kind, err)
	}
	if !exists {
		return nil, ErrQuestionNotFound
	}

	o := &Option{Text: text, OrderIndex: orderIndex}
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (%s, option_text, order_index)
		VALUES ($1, $2, $3)
		RETURNING id
	`, opt.table, opt.fk), questionID, text, orderIndex).Scan(&o.ID); err != nil {
		return nil, fmt.Errorf("insert %s option: %w", kind, err)
	}
	return o, nil
}

func (s *Service) deleteOption(ctx context.Context, kind Kind, optionID, ownerID int64) error {
	opt := optionTable[kind]

	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		DELETE FROM %s o
		USING %s q, forms f
		WHERE o.id = $1 AND o.%s = q.id AND q.form_id = f.id AND f.user_id = $2
	`, opt.table, questionTable[kind], opt.fk), optionID, ownerID)
	if err != nil {
		return fmt.Errorf("delete %s option: %w", kind, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOptionNotFound
	}
	return nil
}

// updateOrderIndex writes one question's order index. The form-scoped WHERE
// clause re-authorizes the write: a question that was deleted concurrently or
// belongs to someone else's form affects zero rows.
func (s *Service) updateOrderIndex(ctx context.Context, kind Kind, questionID int64, formID string, ownerID int64, newIndex int) (bool, error) {
	table, ok := questionTable[kind]
	if !ok {
		return false, ErrUnknownKind
	}

	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s q
		SET order_index = $4
		FROM forms f
		WHERE q.id = $1 AND q.form_id = f.id AND f.id = $2 AND f.user_id = $3
	`, table), questionID, formID, ownerID, newIndex)
	if err != nil {
		return false, fmt.Errorf("update %s order index: %w", kind, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
