package response

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"formlab/internal/question"

	"github.com/google/uuid"
)

// ErrCountMismatch rejects a batch whose length disagrees with the form's
// question count; it is the only validation failure that blocks the whole
// submission.
var ErrCountMismatch = errors.New("response count does not match question count")

type Service struct {
	db        *sql.DB
	questions questionLoader
}

type questionLoader interface {
	LoadQuestionsPublic(ctx context.Context, formID string) (*question.FormQuestions, error)
}

// lockSQL flips a question's editable flag once a response references it.
// The flip is permanent; there is no unlock path.
var lockSQL = map[question.Kind]string{
	question.KindChoice:  `UPDATE choice_questions SET editable = FALSE WHERE id = $1`,
	question.KindText:    `UPDATE text_questions SET editable = FALSE WHERE id = $1`,
	question.KindRating:  `UPDATE rating_questions SET editable = FALSE WHERE id = $1`,
	question.KindDate:    `UPDATE date_questions SET editable = FALSE WHERE id = $1`,
	question.KindRanking: `UPDATE ranking_questions SET editable = FALSE WHERE id = $1`,
}

func NewService(db *sql.DB, questions questionLoader) *Service {
	return &Service{db: db, questions: questions}
}

// SubmitResponses validates a full batch of answers against the freshly
// reloaded question list and persists them best-effort: a response that
// fails validation, or an individual write that errors, is logged and
// skipped while the rest of the batch proceeds. Only a count mismatch (or a
// failure to load the form at all) rejects the batch before any write.
//
// Each persisted response locks its question via a read-then-write on the
// editable flag. Two concurrent first submissions can both pass the read and
// both insert; the flag still converges to false, which is the documented
// relaxation rather than a defect.
func (s *Service) SubmitResponses(ctx context.Context, formID string, responses []ClientResponse) error {
	loaded, err := s.questions.LoadQuestionsPublic(ctx, formID)
	if err != nil {
		return err
	}

	if len(responses) != len(loaded.Questions) {
		return ErrCountMismatch
	}

	byRef := make(map[question.QuestionRef]question.Question, len(loaded.Questions))
	for _, q := range loaded.Questions {
		byRef[question.QuestionRef{Kind: q.Kind, ID: q.ID}] = q
	}

	for _, r := range responses {
		q, ok := byRef[question.QuestionRef{Kind: r.Kind, ID: r.QuestionID}]
		if !ok {
			log.Printf("submit: form %s: skipping response for unknown question %s/%d", formID, r.Kind, r.QuestionID)
			continue
		}
		if err := validateResponse(q, r); err != nil {
			log.Printf("submit: form %s: %v", formID, err)
			continue
		}
		if err := s.persistResponse(ctx, formID, q, r); err != nil {
			log.Printf("submit: form %s: persist question %s/%d: %v", formID, q.Kind, q.ID, err)
		}
	}
	return nil
}

func (s *Service) persistResponse(ctx context.Context, formID string, q question.Question, r ClientResponse) error {
	if q.Editable {
		if _, err := s.db.ExecContext(ctx, lockSQL[q.Kind], q.ID); err != nil {
			return fmt.Errorf("lock question: %w", err)
		}
	}

	switch q.Kind {
	case question.KindChoice:
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO choice_responses (id, form_id, choice_id, option_id)
			VALUES ($1, $2, $3, $4)
		`, uuid.NewString(), formID, q.ID, r.OptionID)
		if err != nil {
			return fmt.Errorf("insert choice response: %w", err)
		}

	case question.KindText:
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO text_responses (id, form_id, text_id, response)
			VALUES ($1, $2, $3, $4)
		`, uuid.NewString(), formID, q.ID, r.Text)
		if err != nil {
			return fmt.Errorf("insert text response: %w", err)
		}

	case question.KindRating:
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO rating_responses (id, form_id, rating_id, response)
			VALUES ($1, $2, $3, $4)
		`, uuid.NewString(), formID, q.ID, *r.Rating)
		if err != nil {
			return fmt.Errorf("insert rating response: %w", err)
		}

	case question.KindDate:
		// Already validated; parse cannot fail here.
		day, _ := parseDate(r.Date)
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO date_responses (id, form_id, date_id, response)
			VALUES ($1, $2, $3, $4)
		`, uuid.NewString(), formID, q.ID, day)
		if err != nil {
			return fmt.Errorf("insert date response: %w", err)
		}

	case question.KindRanking:
		return s.persistRankingResponse(ctx, formID, q.ID, r.Ranking)
	}
	return nil
}

// persistRankingResponse stores the submitted order as one group row plus a
// (position, option) row per rank option, all referencing a generated
// response-group id.
func (s *Service) persistRankingResponse(ctx context.Context, formID string, rankingID int64, ordered []int64) error {
	responseID := uuid.NewString()
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO ranking_responses (id, form_id, ranking_id)
		VALUES ($1, $2, $3)
	`, responseID, formID, rankingID); err != nil {
		return fmt.Errorf("insert ranking response: %w", err)
	}

	for position, optionID := range ordered {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO ranking_option_responses (response_id, option_id, position)
			VALUES ($1, $2, $3)
		`, responseID, optionID, position); err != nil {
			return fmt.Errorf("insert ranking option response: %w", err)
		}
	}
	return nil
}
