package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinicdesk/internal/attachments"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
)

// maxAttachmentSize caps multipart uploads at 25 MiB.
const maxAttachmentSize = 25 << 20

type AttachmentsHandler struct {
	svc *attachments.Service
}

func NewAttachmentsHandler(svc *attachments.Service) *AttachmentsHandler {
	return &AttachmentsHandler{svc: svc}
}

func (h *AttachmentsHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/patients/:patientId/attachments")
	a.GET("", h.List)
	a.POST("", h.Upload)
	a.GET("/:attachmentId", h.Download)
	a.GET("/:attachmentId/url", h.PresignedURL)
	a.DELETE("/:attachmentId", h.Delete)
}

func (h *AttachmentsHandler) Upload(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	patientID, ok := pathID(c, "patientId")
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "file form field is required"})
		return
	}
	if fh.Size > maxAttachmentSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "File too large"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		logger.Errorf("open upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to read upload"})
		return
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	a, err := h.svc.Upload(c.Request.Context(), doctor, patientID, fh.Filename, contentType, fh.Size, f)
	if err != nil {
		if errors.Is(err, attachments.ErrPatientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Patient not found"})
			return
		}
		logger.Errorf("upload attachment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store attachment"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Attachment uploaded successfully", "attachment": a})
}

func (h *AttachmentsHandler) List(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	patientID, ok := pathID(c, "patientId")
	if !ok {
		return
	}
	list, err := h.svc.ListByPatient(c.Request.Context(), patientID, doctor)
	if err != nil {
		if errors.Is(err, attachments.ErrPatientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Patient not found"})
			return
		}
		logger.Errorf("list attachments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch attachments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"attachments": list})
}

func (h *AttachmentsHandler) Download(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	patientID, ok := pathID(c, "patientId")
	if !ok {
		return
	}
	id, ok := pathID(c, "attachmentId")
	if !ok {
		return
	}
	a, rc, err := h.svc.Download(c.Request.Context(), id, patientID, doctor)
	if err != nil {
		if errors.Is(err, attachments.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Attachment not found"})
			return
		}
		logger.Errorf("download attachment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch attachment"})
		return
	}
	defer rc.Close()
	c.Header("Content-Disposition", `attachment; filename="`+a.FileName+`"`)
	c.DataFromReader(http.StatusOK, a.Size, a.ContentType, rc, nil)
}

func (h *AttachmentsHandler) PresignedURL(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	patientID, ok := pathID(c, "patientId")
	if !ok {
		return
	}
	id, ok := pathID(c, "attachmentId")
	if !ok {
		return
	}
	u, err := h.svc.PresignedURL(c.Request.Context(), id, patientID, doctor, 15*time.Minute)
	if err != nil {
		if errors.Is(err, attachments.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Attachment not found"})
			return
		}
		logger.Errorf("presign attachment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create download link"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": u})
}

func (h *AttachmentsHandler) Delete(c *gin.Context) {
	doctor, ok := doctorID(c)
	if !ok {
		return
	}
	patientID, ok := pathID(c, "patientId")
	if !ok {
		return
	}
	id, ok := pathID(c, "attachmentId")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id, patientID, doctor); err != nil {
		if errors.Is(err, attachments.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Attachment not found"})
			return
		}
		logger.Errorf("delete attachment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete attachment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted successfully"})
}
