package question

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// LoadQuestions returns the form name and the merged, order-sorted question
// list for the form's owner. A missing form and a form owned by someone else
// are both ErrFormNotFound.
func (s *Service) LoadQuestions(ctx context.Context, formID string, requestorID int64) (*FormQuestions, error) {
	var formName string
	err := s.db.QueryRowContext(ctx, `
		SELECT name
		FROM forms
		WHERE id = $1 AND user_id = $2
	`, formID, requestorID).Scan(&formName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("load form: %w", err)
	}

	questions, err := s.loadAllKinds(ctx, formID)
	if err != nil {
		return nil, err
	}
	return &FormQuestions{FormName: formName, Questions: questions}, nil
}

// LoadQuestionsPublic is the completion-path variant: it only requires that
// the form exists, so respondents who are not the owner can load it.
func (s *Service) LoadQuestionsPublic(ctx context.Context, formID string) (*FormQuestions, error) {
	var formName string
	err := s.db.QueryRowContext(ctx, `
		SELECT name
		FROM forms
		WHERE id = $1
	`, formID).Scan(&formName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("load form: %w", err)
	}

	questions, err := s.loadAllKinds(ctx, formID)
	if err != nil {
		return nil, err
	}
	return &FormQuestions{FormName: formName, Questions: questions}, nil
}

// loadAllKinds fetches the five collections concurrently (they are
// independent queries) and merges them into one sorted list. Loading never
// writes: a question still carrying the -1 sentinel index is returned as-is
// and only renumbered by ApplyReorder.
func (s *Service) loadAllKinds(ctx context.Context, formID string) ([]Question, error) {
	var (
		mu      sync.Mutex
		byKind  = make(map[Kind][]Question, len(kindOrder))
		loaders = map[Kind]func(context.Context, string) ([]Question, error){
			KindChoice:  s.loadChoiceQuestions,
			KindText:    s.loadPlainQuestions(KindText),
			KindRating:  s.loadRatingQuestions,
			KindDate:    s.loadPlainQuestions(KindDate),
			KindRanking: s.loadRankingQuestions,
		}
	)

	g, gctx := errgroup.WithContext(ctx)
	for kind, load := range loaders {
		kind, load := kind, load
		g.Go(func() error {
			qs, err := load(gctx, formID)
			if err != nil {
				return err
			}
			mu.Lock()
			byKind[kind] = qs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]Question, 0)
	for _, kind := range []Kind{KindChoice, KindText, KindRating, KindDate, KindRanking} {
		merged = append(merged, byKind[kind]...)
	}
	sortMerged(merged)
	return merged, nil
}

// sortMerged orders questions by order index ascending. Ties (typically the
// -1 sentinel before a first reorder) break deterministically on kind rank
// then id, independent of storage return order.
func sortMerged(qs []Question) {
	sort.Slice(qs, func(i, j int) bool {
		a, b := qs[i], qs[j]
		if a.OrderIndex != b.OrderIndex {
			return a.OrderIndex < b.OrderIndex
		}
		if kindOrder[a.Kind] != kindOrder[b.Kind] {
			return kindOrder[a.Kind] < kindOrder[b.Kind]
		}
		return a.ID < b.ID
	})
}

// loadPlainQuestions covers the two payload-less kinds (text, date).
func (s *Service) loadPlainQuestions(kind Kind) func(context.Context, string) ([]Question, error) {
	return func(ctx context.Context, formID string) ([]Question, error) {
		rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
			SELECT id, question, order_index, required, editable
			FROM %s
			WHERE form_id = $1
			ORDER BY id ASC
		`, questionTable[kind]), formID)
		if err != nil {
			return nil, fmt.Errorf("query %s questions: %w", kind, err)
		}
		defer rows.Close()

		out := make([]Question, 0)
		for rows.Next() {
			q := Question{Kind: kind}
			if err := rows.Scan(&q.ID, &q.Text, &q.OrderIndex, &q.Required, &q.Editable); err != nil {
				return nil, fmt.Errorf("scan %s question: %w", kind, err)
			}
			out = append(out, q)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate %s questions: %w", kind, err)
		}
		return out, nil
	}
}

func (s *Service) loadRatingQuestions(ctx context.Context, formID string) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, levels, order_index, required, editable
		FROM rating_questions
		WHERE form_id = $1
		ORDER BY id ASC
	`, formID)
	if err != nil {
		return nil, fmt.Errorf("query rating questions: %w", err)
	}
	defer rows.Close()

	out := make([]Question, 0)
	for rows.Next() {
		q := Question{Kind: KindRating}
		if err := rows.Scan(&q.ID, &q.Text, &q.RatingLevels, &q.OrderIndex, &q.Required, &q.Editable); err != nil {
			return nil, fmt.Errorf("scan rating question: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating questions: %w", err)
	}
	return out, nil
}

func (s *Service) loadChoiceQuestions(ctx context.Context, formID string) ([]Question, error) {
	return s.loadOptionQuestions(ctx, KindChoice, formID)
}

func (s *Service) loadRankingQuestions(ctx context.Context, formID string) ([]Question, error) {
	return s.loadOptionQuestions(ctx, KindRanking, formID)
}

// loadOptionQuestions fetches an option-bearing kind with a single left join
// and regroups the flat rows into questions with nested option lists.
func (s *Service) loadOptionQuestions(ctx context.Context, kind Kind, formID string) ([]Question, error) {
	opt := optionTable[kind]
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT q.id, q.question, q.order_index, q.required, q.editable,
			o.id, o.option_text, o.order_index
		FROM %s q
		LEFT JOIN %s o ON o.%s = q.id
		WHERE q.form_id = $1
		ORDER BY q.id ASC, o.order_index ASC, o.id ASC
	`, questionTable[kind], opt.table, opt.fk), formID)
	if err != nil {
		return nil, fmt.Errorf("query %s questions: %w", kind, err)
	}
	defer rows.Close()

	out := make([]Question, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var (
			q        Question
			optID    sql.NullInt64
			optText  sql.NullString
			optOrder sql.NullInt64
		)
		if err := rows.Scan(&q.ID, &q.Text, &q.OrderIndex, &q.Required, &q.Editable, &optID, &optText, &optOrder); err != nil {
			return nil, fmt.Errorf("scan %s question: %w", kind, err)
		}

		pos, seen := index[q.ID]
		if !seen {
			q.Kind = kind
			pos = len(out)
			index[q.ID] = pos
			out = append(out, q)
		}
		if optID.Valid {
			o := Option{ID: optID.Int64, Text: optText.String, OrderIndex: int(optOrder.Int64)}
			if kind == KindChoice {
				out[pos].Options = append(out[pos].Options, o)
			} else {
				out[pos].RankOptions = append(out[pos].RankOptions, o)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s questions: %w", kind, err)
	}
	return out, nil
}
