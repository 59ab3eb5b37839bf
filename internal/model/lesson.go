package model

import "time"

// QuizPassPercent is the score needed to pass any lesson quiz.
const QuizPassPercent = 70.0

// Question is one quiz question. Correct is only populated inside the simulation.
type Question struct {
	Prompt  string   `json:"question" yaml:"question"`
	Options []string `json:"options" yaml:"options"`
	Correct *int     `json:"correct,omitempty" yaml:"correct"`
}

// Quiz is the ordered question list embedded in a lesson
type Quiz struct {
	Questions []Question `json:"questions" yaml:"questions"`
}

// Lesson is training content for clippers
type Lesson struct {
	ID        int64     `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	Quiz      Quiz      `json:"quiz" yaml:"quiz"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Redacted returns a copy of the lesson without the answer key.
func (l Lesson) Redacted() Lesson {
	out := l
	out.Quiz.Questions = make([]Question, len(l.Quiz.Questions))
	for i, q := range l.Quiz.Questions {
		out.Quiz.Questions[i] = Question{
			Prompt:  q.Prompt,
			Options: append([]string(nil), q.Options...),
		}
	}
	return out
}

// QuizResult is the outcome of a graded quiz attempt
type QuizResult struct {
	LessonID            int64   `json:"lesson_id"`
	Score               float64 `json:"score"`
	Passed              bool    `json:"passed"`
	CorrectAnswers      int     `json:"correct_answers"`
	TotalQuestions      int     `json:"total_questions"`
	CertificationEarned bool    `json:"certification_earned"`
	Message             string  `json:"message,omitempty"`
}

// CertificationBasic is the only level issued today.
const CertificationBasic = "basic"

// Certification is earned by passing a lesson quiz
type Certification struct {
	ID          int64      `json:"id" yaml:"id"`
	ClipperID   int64      `json:"clipper_id" yaml:"clipper_id"`
	Level       string     `json:"level" yaml:"level"`
	Completed   bool       `json:"completed" yaml:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at"`
}
