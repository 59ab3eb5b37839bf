package service

import (
	"context"

	"mx70/internal/model"
	"mx70/internal/storage"
	"mx70/internal/upload"

	"github.com/rs/zerolog"
)

// UploadService checks files against the upload policy and stores them.
type UploadService interface {
	Upload(ctx context.Context, kind model.UploadKind, f model.UploadFile) (*model.UploadResult, error)
}

type uploadService struct {
	blobs  storage.BlobStore
	policy upload.Policy
	logger zerolog.Logger
}

func NewUploadService(blobs storage.BlobStore, policy upload.Policy, logger zerolog.Logger) UploadService {
	return &uploadService{
		blobs:  blobs,
		policy: policy,
		logger: logger.With().Str("service", "UploadService").Logger(),
	}
}

func (s *uploadService) Upload(ctx context.Context, kind model.UploadKind, f model.UploadFile) (*model.UploadResult, error) {
	prepared, err := s.policy.Prepare(kind, f)
	if err != nil {
		return nil, err
	}

	key := storage.ObjectKey(kind, prepared.Name)
	url, err := s.blobs.Put(ctx, key, prepared.ContentType, prepared.Body, prepared.Size)
	if err != nil {
		s.logger.Error().Err(err).Str("object_key", key).Msg("Failed to store upload")
		return nil, err
	}

	s.logger.Info().Str("object_key", key).Str("content_type", prepared.ContentType).Msg("Upload stored")
	return &model.UploadResult{URL: url}, nil
}
