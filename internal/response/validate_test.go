package response

import (
	"testing"

	"formlab/internal/question"
)

func intPtr(v int) *int { return &v }

func TestValidateResponse(t *testing.T) {
	choice := question.Question{
		Kind: question.KindChoice, ID: 1,
		Options: []question.Option{{ID: 10}, {ID: 11}},
	}
	rating := question.Question{Kind: question.KindRating, ID: 2, RatingLevels: 5}
	date := question.Question{Kind: question.KindDate, ID: 3}
	ranking := question.Question{
		Kind: question.KindRanking, ID: 4,
		RankOptions: []question.Option{{ID: 20}, {ID: 21}, {ID: 22}},
	}
	text := question.Question{Kind: question.KindText, ID: 5}

	tests := []struct {
		name string
		q    question.Question
		r    ClientResponse
		ok   bool
	}{
		{name: "choice own option", q: choice, r: ClientResponse{Kind: question.KindChoice, QuestionID: 1, OptionID: 11}, ok: true},
		{name: "choice foreign option", q: choice, r: ClientResponse{Kind: question.KindChoice, QuestionID: 1, OptionID: 99}, ok: false},
		{name: "text empty accepted", q: text, r: ClientResponse{Kind: question.KindText, QuestionID: 5}, ok: true},
		{name: "rating in range", q: rating, r: ClientResponse{Kind: question.KindRating, QuestionID: 2, Rating: intPtr(5)}, ok: true},
		{name: "rating zero allowed", q: rating, r: ClientResponse{Kind: question.KindRating, QuestionID: 2, Rating: intPtr(0)}, ok: true},
		{name: "rating above levels", q: rating, r: ClientResponse{Kind: question.KindRating, QuestionID: 2, Rating: intPtr(6)}, ok: false},
		{name: "rating missing", q: rating, r: ClientResponse{Kind: question.KindRating, QuestionID: 2}, ok: false},
		{name: "date plain", q: date, r: ClientResponse{Kind: question.KindDate, QuestionID: 3, Date: "2026-08-31"}, ok: true},
		{name: "date rfc3339", q: date, r: ClientResponse{Kind: question.KindDate, QuestionID: 3, Date: "2026-08-31T10:00:00Z"}, ok: true},
		{name: "date garbage", q: date, r: ClientResponse{Kind: question.KindDate, QuestionID: 3, Date: "tomorrow"}, ok: false},
		{name: "ranking full permutation", q: ranking, r: ClientResponse{Kind: question.KindRanking, QuestionID: 4, Ranking: []int64{22, 20, 21}}, ok: true},
		{name: "ranking missing option", q: ranking, r: ClientResponse{Kind: question.KindRanking, QuestionID: 4, Ranking: []int64{20, 21}}, ok: false},
		{name: "ranking duplicate option", q: ranking, r: ClientResponse{Kind: question.KindRanking, QuestionID: 4, Ranking: []int64{20, 20, 21}}, ok: false},
		{name: "ranking foreign option", q: ranking, r: ClientResponse{Kind: question.KindRanking, QuestionID: 4, Ranking: []int64{20, 21, 99}}, ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateResponse(tc.q, tc.r)
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestIsPermutationEmpty(t *testing.T) {
	if !isPermutation(nil, nil) {
		t.Fatalf("empty over empty should be a permutation")
	}
	if isPermutation(nil, []int64{1}) {
		t.Fatalf("non-empty over empty should fail")
	}
}

func TestParseDateRejectsPartial(t *testing.T) {
	if _, err := parseDate("2026-08"); err == nil {
		t.Fatalf("expected error for partial date")
	}
	if _, err := parseDate(""); err == nil {
		t.Fatalf("expected error for empty date")
	}
}
