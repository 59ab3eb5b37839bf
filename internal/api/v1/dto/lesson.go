package dto

// QuizAnswersDTO is the body of POST /lessons/{lessonId}/complete-quiz.
type QuizAnswersDTO struct {
	Answers []int `json:"answers" doc:"One option index per question, in order"`
}
