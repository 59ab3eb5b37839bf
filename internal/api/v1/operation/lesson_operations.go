package operation

import (
	"mx70/internal/api/v1/dto"
	"mx70/internal/model"
)

type ListLessonsInput struct{}

type ListLessonsOutput struct {
	Body []model.Lesson `json:"body"`
}

type GetLessonInput struct {
	LessonID int64 `path:"lessonId" doc:"Lesson ID"`
}

type GetLessonOutput struct {
	Body model.Lesson `json:"body"`
}

type CompleteQuizInput struct {
	LessonID int64              `path:"lessonId" doc:"Lesson ID"`
	Body     dto.QuizAnswersDTO `json:"body"`
}

type CompleteQuizOutput struct {
	Body model.QuizResult `json:"body"`
}

type ListCertificationsInput struct{}

type ListCertificationsOutput struct {
	Body []model.Certification `json:"body"`
}

type CheckEligibilityInput struct{}

type CheckEligibilityOutput struct {
	Body model.Eligibility `json:"body"`
}
