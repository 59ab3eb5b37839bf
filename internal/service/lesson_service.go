package service

import (
	"context"
	"math"
	"time"

	"mx70/internal/apperr"
	"mx70/internal/model"
	"mx70/internal/repository"

	"github.com/rs/zerolog"
)

// LessonService serves lessons and grades quizzes. Lessons leave the service without their answer key.
type LessonService interface {
	ListLessons(ctx context.Context) ([]model.Lesson, error)
	GetLesson(ctx context.Context, id int64) (*model.Lesson, error)
	CompleteQuiz(ctx context.Context, caller *model.User, lessonID int64, answers []int) (*model.QuizResult, error)
	ListCertifications(ctx context.Context, caller *model.User) ([]model.Certification, error)
	CheckEligibility(ctx context.Context, caller *model.User) (*model.Eligibility, error)
}

type lessonService struct {
	lessons        repository.LessonRepository
	certifications repository.CertificationRepository
	now            func() time.Time
	logger         zerolog.Logger
}

func NewLessonService(lessons repository.LessonRepository, certifications repository.CertificationRepository, now func() time.Time, logger zerolog.Logger) LessonService {
	return &lessonService{
		lessons:        lessons,
		certifications: certifications,
		now:            now,
		logger:         logger.With().Str("service", "LessonService").Logger(),
	}
}

func (s *lessonService) ListLessons(ctx context.Context) ([]model.Lesson, error) {
	lessons, err := s.lessons.ListLessons(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Lesson, len(lessons))
	for i, l := range lessons {
		out[i] = l.Redacted()
	}
	return out, nil
}

func (s *lessonService) GetLesson(ctx context.Context, id int64) (*model.Lesson, error) {
	l, err := s.lessons.GetLessonByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, apperr.NotFound("Lesson not found")
	}
	redacted := l.Redacted()
	return &redacted, nil
}

func (s *lessonService) CompleteQuiz(ctx context.Context, caller *model.User, lessonID int64, answers []int) (*model.QuizResult, error) {
	l, err := s.lessons.GetLessonByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, apperr.NotFound("Lesson not found")
	}

	questions := l.Quiz.Questions
	if len(answers) != len(questions) {
		return nil, apperr.Validation("Expected %d answers, got %d", len(questions), len(answers))
	}

	result := ScoreQuiz(questions, answers)
	result.LessonID = lessonID

	if result.Passed && caller != nil && caller.Role == model.RoleClipper {
		_, created, err := s.certifications.Issue(ctx, caller.ID, model.CertificationBasic, s.now().UTC())
		if err != nil {
			s.logger.Error().Err(err).Int64("clipper_id", caller.ID).Msg("Failed to issue certification")
			return nil, err
		}
		result.CertificationEarned = created
		if created {
			s.logger.Info().Int64("clipper_id", caller.ID).Int64("lesson_id", lessonID).Msg("Certification issued")
		}
	}

	if result.Passed {
		result.Message = "Congratulations! You passed the quiz."
	} else {
		result.Message = "You need 70% to pass. Review the lesson and try again."
	}
	return result, nil
}

// ScoreQuiz compares answers to the key index by index.
// The score is rounded to one decimal; passing uses the exact ratio.
func ScoreQuiz(questions []model.Question, answers []int) *model.QuizResult {
	correct := 0
	for i, q := range questions {
		if i < len(answers) && q.Correct != nil && answers[i] == *q.Correct {
			correct++
		}
	}

	total := len(questions)
	var raw float64
	if total > 0 {
		raw = 100 * float64(correct) / float64(total)
	}
	return &model.QuizResult{
		Score:          math.Round(raw*10) / 10,
		Passed:         total > 0 && raw >= model.QuizPassPercent,
		CorrectAnswers: correct,
		TotalQuestions: total,
	}
}

func (s *lessonService) ListCertifications(ctx context.Context, caller *model.User) ([]model.Certification, error) {
	if caller == nil {
		return nil, apperr.New(apperr.ErrUnauthenticated, "Not authenticated")
	}
	return s.certifications.ListByClipper(ctx, caller.ID)
}

// CheckEligibility reports whether the caller holds a completed basic certification.
func (s *lessonService) CheckEligibility(ctx context.Context, caller *model.User) (*model.Eligibility, error) {
	if err := requireRole(caller, model.RoleClipper, "check gig eligibility"); err != nil {
		return nil, err
	}
	certs, err := s.certifications.ListByClipper(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	e := &model.Eligibility{
		CertificationRequired: model.CertificationBasic,
		Message:               "Complete lesson quizzes to earn basic certification",
	}
	for _, c := range certs {
		if c.Level == model.CertificationBasic && c.Completed {
			e.Eligible, e.Message = true, "You are eligible to claim gigs"
			break
		}
	}
	return e, nil
}
