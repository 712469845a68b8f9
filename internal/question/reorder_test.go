package question

import "testing"

func TestPlanReorderMinimalWrites(t *testing.T) {
	current := []Question{
		{Kind: KindChoice, ID: 1, OrderIndex: 0},
		{Kind: KindText, ID: 2, OrderIndex: 1},
		{Kind: KindDate, ID: 3, OrderIndex: 2},
	}
	// Swap the last two; the first stays in place.
	refs := []QuestionRef{
		{Kind: KindChoice, ID: 1},
		{Kind: KindDate, ID: 3},
		{Kind: KindText, ID: 2},
	}

	updates, unknown := planReorder(current, refs)

	if len(unknown) != 0 {
		t.Fatalf("expected no unknown refs, got %v", unknown)
	}
	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d: %v", len(updates), updates)
	}
	if updates[0].Ref != (QuestionRef{Kind: KindDate, ID: 3}) || updates[0].NewIndex != 1 {
		t.Fatalf("unexpected first update: %+v", updates[0])
	}
	if updates[1].Ref != (QuestionRef{Kind: KindText, ID: 2}) || updates[1].NewIndex != 2 {
		t.Fatalf("unexpected second update: %+v", updates[1])
	}
}

func TestPlanReorderNoopWhenAlreadyOrdered(t *testing.T) {
	current := []Question{
		{Kind: KindRating, ID: 5, OrderIndex: 0},
		{Kind: KindRanking, ID: 6, OrderIndex: 1},
	}
	refs := []QuestionRef{
		{Kind: KindRating, ID: 5},
		{Kind: KindRanking, ID: 6},
	}

	updates, unknown := planReorder(current, refs)
	if len(updates) != 0 || len(unknown) != 0 {
		t.Fatalf("expected no work, got updates=%v unknown=%v", updates, unknown)
	}
}

func TestPlanReorderRenumbersSentinels(t *testing.T) {
	current := []Question{
		{Kind: KindChoice, ID: 1, OrderIndex: -1},
		{Kind: KindText, ID: 2, OrderIndex: -1},
	}
	refs := []QuestionRef{
		{Kind: KindText, ID: 2},
		{Kind: KindChoice, ID: 1},
	}

	updates, _ := planReorder(current, refs)
	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(updates))
	}
	if updates[0].NewIndex != 0 || updates[1].NewIndex != 1 {
		t.Fatalf("expected indices 0 and 1, got %d and %d", updates[0].NewIndex, updates[1].NewIndex)
	}
}

func TestPlanReorderReportsUnknownRefs(t *testing.T) {
	current := []Question{
		{Kind: KindChoice, ID: 1, OrderIndex: 0},
	}
	refs := []QuestionRef{
		{Kind: KindChoice, ID: 1},
		{Kind: KindText, ID: 99},
		// Same id, wrong kind: ids are only unique per kind.
		{Kind: KindRanking, ID: 1},
	}

	updates, unknown := planReorder(current, refs)
	if len(updates) != 0 {
		t.Fatalf("expected no updates, got %v", updates)
	}
	if len(unknown) != 2 {
		t.Fatalf("expected 2 unknown refs, got %v", unknown)
	}
	if unknown[0] != (QuestionRef{Kind: KindText, ID: 99}) || unknown[1] != (QuestionRef{Kind: KindRanking, ID: 1}) {
		t.Fatalf("unexpected unknown refs: %v", unknown)
	}
}
