package recommendation

import (
	"errors"
	"slices"
)

type QuestionID string

const (
	Purpose   QuestionID = "purpose"
	Spiciness QuestionID = "spiciness"
	Pairing   QuestionID = "pairing"
)

var ErrInvalidOption = errors.New("option is not valid for the current question")

type Question struct {
	ID      QuestionID `json:"id"`
	Text    string     `json:"text"`
	Options []string   `json:"options"`
}

// Questions is the fixed quiz sequence.
var Questions = []Question{
	{ID: Purpose, Text: "Is this sauce for a gift or for yourself?", Options: []string{"Gift", "For myself"}},
	{ID: Spiciness, Text: "How spicy do you like your food?", Options: []string{"Mild", "Medium", "Hot", "Extra Hot"}},
	{ID: Pairing, Text: "What foods do you want to pair with this sauce?", Options: []string{"Mexican", "Asian", "BBQ", "Seafood", "Vegetarian"}},
}

// Answers maps question ids to the chosen option.
type Answers map[QuestionID]string

// Quiz walks the question sequence. It is not safe for concurrent use; the
// Engine serializes access.
type Quiz struct {
	index   int
	answers Answers
}

func NewQuiz() *Quiz {
	return &Quiz{answers: Answers{}}
}

// Index is the position of the question currently being asked.
func (q *Quiz) Index() int { return q.index }

func (q *Quiz) Current() Question { return Questions[q.index] }

// Answer records option for the current question. On the last question it
// returns the completed answer set and resets the quiz for another run.
func (q *Quiz) Answer(option string) (Answers, bool, error) {
	current := Questions[q.index]
	if !slices.Contains(current.Options, option) {
		return nil, false, ErrInvalidOption
	}
	q.answers[current.ID] = option

	if q.index < len(Questions)-1 {
		q.index++
		return nil, false, nil
	}

	done := q.answers
	q.Cancel()
	return done, true, nil
}

// Cancel abandons the run without producing a result.
func (q *Quiz) Cancel() {
	q.index = 0
	q.answers = Answers{}
}
