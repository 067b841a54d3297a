package models

// QuizOptionCount is the number of choices every quiz question carries.
const QuizOptionCount = 4

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"` // index into Options, 0-3
}

// Valid reports whether q has a question, exactly four options and an in-range answer index.
func (q QuizQuestion) Valid() bool {
	if q.Question == "" || len(q.Options) != QuizOptionCount {
		return false
	}
	return q.CorrectAnswer >= 0 && q.CorrectAnswer < QuizOptionCount
}
