package documents

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dms-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
	// MaxUploadBytes caps the request body on upload.
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches document routes to the router group. The search
// route is registered before the wildcard download route.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/upload", h.upload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/search", h.search)
	rg.GET("/documents/:id/download", h.download)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("document")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload size limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "document file is required", nil)
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
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload size limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	mediaType := fileHeader.Header.Get("Content-Type")

	res, err := h.Svc.Ingest(c.Request.Context(), fileHeader.Filename, mediaType, data)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "ingest_failed", "failed to store document", nil)
		}
		return
	}

	c.Set("documentId", res.Document.ID)
	respond.JSON(c, http.StatusCreated, toUploadResponse(res))
}

func (h *Handler) list(c *gin.Context) {
	docs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}

	resp := make([]DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toSummary(doc))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) search(c *gin.Context) {
	hits, err := h.Svc.SearchDocs(c.Request.Context(), c.Query("q"))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "query parameter q is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "search_failed", "failed to search documents", nil)
		}
		return
	}

	resp := make([]SearchHitResponse, 0, len(hits))
	for _, hit := range hits {
		resp = append(resp, toSearchHit(hit))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) download(c *gin.Context) {
	id := c.Param("id")

	doc, body, err := h.Svc.Download(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch document", nil)
		}
		return
	}
	defer body.Close()

	c.Set("documentId", doc.ID)
	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%s", strconv.Quote(doc.OriginalName)),
	}
	c.DataFromReader(http.StatusOK, doc.SizeBytes, doc.MediaType, body, extraHeaders)
}
