package handler

import (
	"errors"
	"net/http"
	"strings"

	"mx70/internal/api/v1/dto"
	"mx70/internal/apperr"
	"mx70/internal/middleware"
	"mx70/internal/model"
	"mx70/internal/service"

	"github.com/rs/zerolog"
)

// multipartOverhead is the slack allowed on top of the file limit for boundaries and fields.
const multipartOverhead = 1 << 20

// UploadHandler accepts multipart file uploads. Mounted as raw handlers
// because huma operations expect JSON bodies.
type UploadHandler struct {
	uploadService service.UploadService
	maxBytes      int64
	logger        zerolog.Logger
}

func NewUploadHandler(uploadService service.UploadService, maxBytes int64, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		maxBytes:      maxBytes,
		logger:        logger,
	}
}

// RawFootage handles POST /gigs/upload-raw-footage
func (h *UploadHandler) RawFootage(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, model.UploadRawFootage)
}

// File handles POST /files/upload; the kind comes from the "type" field and defaults to video.
func (h *UploadHandler) File(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "")
}

func (h *UploadHandler) handle(w http.ResponseWriter, r *http.Request, kind model.UploadKind) {
	// 1. Refuse oversize bodies before reading them
	if r.ContentLength > h.maxBytes+multipartOverhead {
		middleware.WriteProblem(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	// 2. Parse the form (large parts spill to temp files)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			middleware.WriteProblem(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		middleware.WriteProblem(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}
	defer r.MultipartForm.RemoveAll()

	if kind == "" {
		kind = model.UploadVideo
		if t := r.FormValue("type"); t != "" {
			kind = model.UploadKind(t)
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteProblem(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	// 3. Store it
	res, err := h.uploadService.Upload(r.Context(), kind, model.UploadFile{
		Name:    header.Filename,
		Size:    header.Size,
		Content: file,
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.ErrUnknown {
			h.logger.Error().Err(err).Str("file", header.Filename).Msg("Failed to store upload")
		}
		middleware.WriteProblem(w, apperr.Status(err), apperr.Message(err))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.UploadResponseDTO{URL: res.URL})
}
