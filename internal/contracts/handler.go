package contracts

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"contract-backend/internal/extract"
	"contract-backend/internal/records"
	"contract-backend/internal/shared/server/middleware"
	"contract-backend/internal/shared/server/respond"
	"contract-backend/internal/shared/util"
)

const defaultMaxUpload = 10 << 20

// Handler exposes contract endpoints.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUpload
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches contract routes to an authenticated router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contracts/analyze", h.analyze)
	rg.POST("/contracts/evaluate", h.evaluate)
	rg.GET("/contracts", h.list)
}

func (h *Handler) analyze(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing session", nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", gin.H{"limitBytes": h.MaxUploadBytes})
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	res, err := h.Svc.Analyze(c.Request.Context(), sess, data, fileHeader.Header.Get("Content-Type"), util.CleanFileName(fileHeader.Filename))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) evaluate(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing session", nil)
		return
	}

	var req evaluateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}

	out, err := h.Svc.Evaluate(c.Request.Context(), sess, req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	if out.RecordID != "" {
		c.Set("recordId", out.RecordID)
		respond.Created(c, toEvaluateResponse(out))
		return
	}
	respond.OK(c, toEvaluateResponse(out))
}

func (h *Handler) list(c *gin.Context) {
	owner := middleware.UsernameFromContext(c)
	recs, err := h.Svc.List(c.Request.Context(), owner)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, listResponse{Owner: owner, Count: len(recs), Records: recs})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, extract.ErrExtractionFailed):
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "Unable to read the uploaded document", nil)
	case errors.Is(err, ErrNoPendingAnalysis):
		respond.Error(c, http.StatusConflict, "no_pending_analysis", "Analyze a contract before evaluating it", nil)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, records.ErrInvalidPayload):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, records.ErrInvalidOwner):
		respond.Error(c, http.StatusBadRequest, "invalid_owner", "Username cannot be used to store records", nil)
	case errors.Is(err, records.ErrStorageUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "storage_unavailable", "Record storage is unavailable", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
	}
}
