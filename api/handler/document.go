package handler

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/fyerfyer/civic-doc-system/api/middleware"
	"github.com/fyerfyer/civic-doc-system/api/model"
	"github.com/fyerfyer/civic-doc-system/internal/repository"
	"github.com/fyerfyer/civic-doc-system/internal/services"
	"github.com/fyerfyer/civic-doc-system/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DocumentHandler serves the document processing endpoints.
type DocumentHandler struct {
	documentService *services.DocumentService        // pipeline service
	statusManager   *services.DocumentStatusManager  // status lifecycle
	repo            repository.DocumentRepository    // status row listing
	fileStorage     storage.Storage                  // raw file staging
	logger          *logrus.Logger
}

// NewDocumentHandler creates the document handler.
func NewDocumentHandler(
	documentService *services.DocumentService,
	statusManager *services.DocumentStatusManager,
	repo repository.DocumentRepository,
	fileStorage storage.Storage,
) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		statusManager:   statusManager,
		repo:            repo,
		fileStorage:     fileStorage,
		logger:          middleware.GetLogger(),
	}
}

// pathResolver is implemented by storage backends that can map a
// stored file's relative path to one the pipeline can open.
type pathResolver interface {
	FullPath(relPath string) string
}

// UploadDocument stages an uploaded file and starts pipeline processing.
// POST /api/documents
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	var req model.DocumentUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.WithField("error", err.Error()).Warn("Invalid document upload request")
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(
			http.StatusBadRequest,
			"invalid request parameters",
		))
		return
	}

	if req.File == nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(
			http.StatusBadRequest,
			"no file provided",
		))
		return
	}

	filename := req.File.Filename
	if !isValidFileType(filepath.Ext(filename)) {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(
			http.StatusBadRequest,
			"unsupported file type, only .pdf, .md, .markdown and .txt are accepted",
		))
		return
	}

	file, err := req.File.Open()
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"error":    err.Error(),
			"filename": filename,
		}).Error("Failed to open uploaded file")

		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(
			http.StatusInternalServerError,
			"failed to open uploaded file",
		))
		return
	}
	defer file.Close()

	fileInfo, err := h.fileStorage.Save(file, filename)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"error":    err.Error(),
			"filename": filename,
		}).Error("Failed to save file")

		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(
			http.StatusInternalServerError,
			"failed to save file",
		))
		return
	}

	if err := h.statusManager.MarkAsUploaded(c.Request.Context(), fileInfo.ID, filename, fileInfo.Path, fileInfo.Size); err != nil {
		h.logger.WithFields(logrus.Fields{
			"error":   err.Error(),
			"file_id": fileInfo.ID,
		}).Error("Failed to record uploaded document")

		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(
			http.StatusInternalServerError,
			"failed to record uploaded document",
		))
		return
	}

	h.logger.WithFields(logrus.Fields{
		"file_id":  fileInfo.ID,
		"filename": fileInfo.Name,
		"size":     fileInfo.Size,
	}).Info("File uploaded successfully")

	filePath := fileInfo.Path
	if resolver, ok := h.fileStorage.(pathResolver); ok {
		filePath = resolver.FullPath(fileInfo.Path)
	}

	go func() {
		ctx := context.Background()
		if _, err := h.documentService.ProcessFile(ctx, fileInfo.ID, filePath, fileInfo.Name); err != nil {
			h.logger.WithFields(logrus.Fields{
				"error":   err.Error(),
				"file_id": fileInfo.ID,
			}).Error("Failed to process document")
		}
	}()

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.DocumentUploadResponse{
		FileID:   fileInfo.ID,
		FileName: filename,
		Status:   "processing",
	}))
}

// ProcessText runs the pipeline over raw text and returns the record.
// POST /api/process
func (h *DocumentHandler) ProcessText(c *gin.Context) {
	var req model.ProcessTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(
			http.StatusBadRequest,
			"text is required",
		))
		return
	}

	rec := h.documentService.ProcessText(c.Request.Context(), req.Text, req.Filename)

	h.logger.WithFields(logrus.Fields{
		"title":    rec.Title,
		"doc_type": rec.DocType,
		"sector":   rec.Sector,
	}).Info("Text processed")

	c.JSON(http.StatusOK, model.NewSuccessResponse(rec))
}

// GetDocumentStatus returns the processing status of a document.
// GET /api/documents/:id/status
func (h *DocumentHandler) GetDocumentStatus(c *gin.Context) {
	var req model.DocumentStatusRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "invalid document ID"))
		return
	}

	doc, err := h.statusManager.GetStatus(c.Request.Context(), req.ID)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"error":   err.Error(),
			"file_id": req.ID,
		}).Warn("Failed to get document status")

		c.JSON(http.StatusNotFound, model.NewErrorResponse(http.StatusNotFound, "document not found"))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.NewDocumentStatusResponse(doc)))
}

// ListDocuments returns a page of document status rows.
// GET /api/documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	var req model.DocumentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "invalid query parameters"))
		return
	}

	filters := make(map[string]interface{})
	if req.Status != "" {
		filters["status"] = req.Status
	}
	if req.DocType != "" {
		filters["doc_type"] = req.DocType
	}
	if req.Sector != "" {
		filters["sector"] = req.Sector
	}

	page := req.GetPage()
	pageSize := req.GetPageSize()
	offset := (page - 1) * pageSize

	docs, total, err := h.repo.List(offset, pageSize, filters)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list documents")
		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(
			http.StatusInternalServerError,
			"failed to list documents",
		))
		return
	}

	infos := make([]model.DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		infos = append(infos, model.NewDocumentInfo(doc))
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.DocumentListResponse{
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
		Documents: infos,
	}))
}

// SearchRecords returns processed records matching the query.
// An empty query returns every record.
// GET /api/records/search
func (h *DocumentHandler) SearchRecords(c *gin.Context) {
	var req model.RecordSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "invalid query parameters"))
		return
	}

	query := strings.TrimSpace(req.Query)

	records := h.documentService.Search(query)

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.RecordSearchResponse{
		Count:   len(records),
		Records: records,
	}))
}

// DeleteDocument removes a document's staged file and status row.
// DELETE /api/documents/:id
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	var req model.DocumentDeleteRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "invalid document ID"))
		return
	}

	if err := h.fileStorage.Delete(req.ID); err != nil {
		h.logger.WithFields(logrus.Fields{
			"error":   err.Error(),
			"file_id": req.ID,
		}).Warn("Failed to delete staged file")
		// keep going, the status row should still be removed
	}

	if err := h.repo.Delete(req.ID); err != nil {
		h.logger.WithFields(logrus.Fields{
			"error":   err.Error(),
			"file_id": req.ID,
		}).Error("Failed to delete document")

		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(
			http.StatusInternalServerError,
			"failed to delete document",
		))
		return
	}

	h.logger.WithField("file_id", req.ID).Info("Document deleted successfully")

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.DocumentDeleteResponse{
		Success: true,
		FileID:  req.ID,
	}))
}

// isValidFileType reports whether the extension is accepted for upload.
func isValidFileType(ext string) bool {
	validTypes := map[string]bool{
		".pdf":      true,
		".md":       true,
		".markdown": true,
		".txt":      true,
	}
	return validTypes[strings.ToLower(ext)]
}
