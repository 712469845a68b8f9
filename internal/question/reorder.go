package question

import (
	"context"
	"log"
)

// ReorderResult reports how many order indices were rewritten and which
// entries could not be applied.
type ReorderResult struct {
	Updated int           `json:"updated"`
	Failed  []QuestionRef `json:"failed,omitempty"`
}

// orderUpdate is one pending order-index write.
type orderUpdate struct {
	Ref      QuestionRef
	NewIndex int
}

// ApplyReorder renumbers the form's questions to match refs: the question at
// position i gets order index i. Entries already at the right index are
// skipped. Each write re-authorizes against the owning form; a failed write
// (deleted row, revoked ownership) is reported but does not stop the rest.
// The writes are idempotent position assignments, so a partial application
// converges on the next reorder.
func (s *Service) ApplyReorder(ctx context.Context, formID string, requestorID int64, refs []QuestionRef) (*ReorderResult, error) {
	loaded, err := s.LoadQuestions(ctx, formID, requestorID)
	if err != nil {
		return nil, err
	}

	updates, unknown := planReorder(loaded.Questions, refs)

	result := &ReorderResult{Failed: unknown}
	for _, u := range updates {
		ok, err := s.updateOrderIndex(ctx, u.Ref.Kind, u.Ref.ID, formID, requestorID, u.NewIndex)
		if err != nil {
			log.Printf("reorder: update %s/%d failed: %v", u.Ref.Kind, u.Ref.ID, err)
			result.Failed = append(result.Failed, u.Ref)
			continue
		}
		if !ok {
			result.Failed = append(result.Failed, u.Ref)
			continue
		}
		result.Updated++
	}
	return result, nil
}

// planReorder diffs the desired ordering against the currently stored
// indices. It returns the minimal set of writes plus any refs that do not
// resolve to a question in the form (stale or forged ids).
func planReorder(current []Question, refs []QuestionRef) (updates []orderUpdate, unknown []QuestionRef) {
	stored := make(map[QuestionRef]int, len(current))
	for _, q := range current {
		stored[QuestionRef{Kind: q.Kind, ID: q.ID}] = q.OrderIndex
	}

	for i, ref := range refs {
		idx, ok := stored[ref]
		if !ok {
			unknown = append(unknown, ref)
			continue
		}
		if idx == i {
			continue
		}
		updates = append(updates, orderUpdate{Ref: ref, NewIndex: i})
	}
	return updates, unknown
}
