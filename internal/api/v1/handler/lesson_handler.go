package handler

import (
	"context"

	"mx70/internal/api/v1/operation"
	"mx70/internal/service"

	"github.com/rs/zerolog"
)

// LessonHandler implements lessons, quizzes and certifications
type LessonHandler struct {
	authService   service.AuthService
	lessonService service.LessonService
	logger        zerolog.Logger
}

func NewLessonHandler(authService service.AuthService, lessonService service.LessonService, logger zerolog.Logger) *LessonHandler {
	return &LessonHandler{
		authService:   authService,
		lessonService: lessonService,
		logger:        logger,
	}
}

func (h *LessonHandler) ListLessons(ctx context.Context, input *operation.ListLessonsInput) (*operation.ListLessonsOutput, error) {
	if _, err := getOptionalUser(ctx, h.authService); err != nil {
		return nil, err
	}
	lessons, err := h.lessonService.ListLessons(ctx)
	if err != nil {
		return nil, toHumaError(err, h.logger)
	}
	return &operation.ListLessonsOutput{Body: lessons}, nil
}

func (h *LessonHandler) GetLesson(ctx context.Context, input *operation.GetLessonInput) (*operation.GetLessonOutput, error) {
	if _, err := getOptionalUser(ctx, h.authService); err != nil {
		return nil, err
	}
	l, err := h.lessonService.GetLesson(ctx, input.LessonID)
	if err != nil {
		return nil, toHumaError(err, h.logger)
	}
	return &operation.GetLessonOutput{Body: *l}, nil
}

// CompleteQuiz grades the answers; a passing clipper earns the basic certification
func (h *LessonHandler) CompleteQuiz(ctx context.Context, input *operation.CompleteQuizInput) (*operation.CompleteQuizOutput, error) {
	u, err := getOptionalUser(ctx, h.authService)
	if err != nil {
		return nil, err
	}
	res, err := h.lessonService.CompleteQuiz(ctx, u, input.LessonID, input.Body.Answers)
	if err != nil {
		return nil, toHumaError(err, h.logger)
	}
	return &operation.CompleteQuizOutput{Body: *res}, nil
}

func (h *LessonHandler) ListCertifications(ctx context.Context, input *operation.ListCertificationsInput) (*operation.ListCertificationsOutput, error) {
	u, err := getUserFromContext(ctx, h.authService)
	if err != nil {
		return nil, err
	}
	certs, err := h.lessonService.ListCertifications(ctx, u)
	if err != nil {
		return nil, toHumaError(err, h.logger)
	}
	return &operation.ListCertificationsOutput{Body: certs}, nil
}

func (h *LessonHandler) CheckEligibility(ctx context.Context, input *operation.CheckEligibilityInput) (*operation.CheckEligibilityOutput, error) {
	u, err := getUserFromContext(ctx, h.authService)
	if err != nil {
		return nil, err
	}
	e, err := h.lessonService.CheckEligibility(ctx, u)
	if err != nil {
		return nil, toHumaError(err, h.logger)
	}
	return &operation.CheckEligibilityOutput{Body: *e}, nil
}
