package handler

import (
	"context"

	"mx70/internal/api/v1/operation"
	"mx70/internal/service"

	"github.com/rs/zerolog"
)

// PaymentHandler implements approval, payout and balance endpoints
type PaymentHandler struct {
	authService    service.AuthService
	paymentService service.PaymentService
	logger         zerolog.Logger
}

func NewPaymentHandler(authService service.AuthService, paymentService service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		authService:    authService,
		paymentService: paymentService,
		logger:         logger,
	}
}

func (h *PaymentHandler) ApproveSubmission(ctx context.Context, input *operation.SubmissionPathInput) (*operation.ApproveSubmissionOutput, error) {
	u, err := getUserFromContext(ctx, h.authService)
	if err != nil {
		return nil, err
	}
	a, err := h.paymentService.ApproveSubmission(ctx, u, input.SubmissionID)
	if err != nil {
		return nil, toHumaError(err, h.logger)
	}
	return &operation.ApproveSubmissionOutput{Body: *a}, nil
}

func (h *PaymentHandler) Payout(ctx context.Context, input *operation.SubmissionPathInput) (*operation.PayoutOutput, error) {
	u, err := getUserFromContext(ctx, h.authService)
	if err != nil {
		return nil, err
	}
	p, err := h.paymentService.Payout(ctx, u, input.SubmissionID)
	if err != nil {
		return nil, toHumaError(err, h.logger)
	}
	return &operation.PayoutOutput{Body: *p}, nil
}

func (h *PaymentHandler) GetBalance(ctx context.Context, input *operation.GetBalanceInput) (*operation.GetBalanceOutput, error) {
	u, err := getUserFromContext(ctx, h.authService)
	if err != nil {
		return nil, err
	}
	b, err := h.paymentService.Balance(ctx, u)
	if err != nil {
		return nil, toHumaError(err, h.logger)
	}
	return &operation.GetBalanceOutput{Body: *b}, nil
}
