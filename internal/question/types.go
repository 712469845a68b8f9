package question

// Kind discriminates the five question variants. Every question lives in its
// own kind's table and id space; (Kind, ID) is the only globally unique key.
type Kind string

const (
	KindChoice  Kind = "choice"
	KindText    Kind = "text"
	KindRating  Kind = "rating"
	KindDate    Kind = "date"
	KindRanking Kind = "ranking"
)

// kindOrder is the merge tiebreak order, matching the order the collections
// are concatenated in (choices first, rankings last).
var kindOrder = map[Kind]int{
	KindChoice:  0,
	KindText:    1,
	KindRating:  2,
	KindDate:    3,
	KindRanking: 4,
}

func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	_, ok := kindOrder[k]
	return k, ok
}

func (k Kind) valid() bool {
	_, ok := kindOrder[k]
	return ok
}

// Question is the tagged variant exposed to the editor and completion UIs.
// Options is set for choice questions, RankOptions for ranking questions and
// RatingLevels for rating questions; the other payload fields stay empty.
type Question struct {
	Kind         Kind     `json:"kind"`
	ID           int64    `json:"id"`
	Text         string   `json:"question"`
	OrderIndex   int      `json:"order_index"`
	Required     bool     `json:"required"`
	Editable     bool     `json:"editable"`
	Options      []Option `json:"options,omitempty"`
	RankOptions  []Option `json:"rank_options,omitempty"`
	RatingLevels int      `json:"rating_levels,omitempty"`
}

// Option is an orderable answer option, used both by choice questions and
// ranking questions (which keep separate option tables).
type Option struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	OrderIndex int    `json:"order_index"`
}

// QuestionRef addresses one question across the five id spaces.
type QuestionRef struct {
	Kind Kind  `json:"kind"`
	ID   int64 `json:"id"`
}

// FormQuestions is the aggregated, order-sorted view of a form.
type FormQuestions struct {
	FormName  string     `json:"form_name"`
	Questions []Question `json:"questions"`
}
