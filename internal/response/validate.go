package response

import (
	"errors"
	"fmt"
	"time"

	"formlab/internal/question"
)

var errValidation = errors.New("response validation failed")

// ClientResponse is one submitted answer, tagged by the owning question's
// kind. Exactly one payload field is meaningful per kind: OptionID for
// choice, Text for text, Rating for rating, Date for date and Ranking for
// ranking questions.
type ClientResponse struct {
	Kind       question.Kind `json:"kind"`
	QuestionID int64         `json:"question_id"`
	OptionID   int64         `json:"option_id,omitempty"`
	Text       string        `json:"text,omitempty"`
	Rating     *int          `json:"rating,omitempty"`
	Date       string        `json:"date,omitempty"`
	Ranking    []int64       `json:"ranking,omitempty"`
}

// validateResponse checks a submitted answer against the question it claims
// to answer. The required flag is intentionally not enforced here: the
// original product stored it without ever rejecting empty answers, and
// tightening that is a pending product decision.
func validateResponse(q question.Question, r ClientResponse) error {
	switch q.Kind {
	case question.KindChoice:
		for _, o := range q.Options {
			if o.ID == r.OptionID {
				return nil
			}
		}
		return fmt.Errorf("%w: option %d does not belong to choice question %d", errValidation, r.OptionID, q.ID)

	case question.KindText:
		return nil

	case question.KindRating:
		if r.Rating == nil {
			return fmt.Errorf("%w: rating value missing for question %d", errValidation, q.ID)
		}
		if *r.Rating < 0 || *r.Rating > q.RatingLevels {
			return fmt.Errorf("%w: rating %d outside [0,%d] for question %d", errValidation, *r.Rating, q.RatingLevels, q.ID)
		}
		return nil

	case question.KindDate:
		if _, err := parseDate(r.Date); err != nil {
			return fmt.Errorf("%w: %q is not a valid date for question %d", errValidation, r.Date, q.ID)
		}
		return nil

	case question.KindRanking:
		if !isPermutation(q.RankOptions, r.Ranking) {
			return fmt.Errorf("%w: ranking is not a permutation of question %d's options", errValidation, q.ID)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown kind %q", errValidation, q.Kind)
}

// isPermutation reports whether submitted contains exactly the ids of opts,
// each once: no omissions, no duplicates, no foreign ids.
func isPermutation(opts []question.Option, submitted []int64) bool {
	if len(submitted) != len(opts) {
		return false
	}
	remaining := make(map[int64]struct{}, len(opts))
	for _, o := range opts {
		remaining[o.ID] = struct{}{}
	}
	for _, id := range submitted {
		if _, ok := remaining[id]; !ok {
			return false
		}
		delete(remaining, id)
	}
	return len(remaining) == 0
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
