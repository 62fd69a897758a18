package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/casalabia/realtor-backend/internal/logger"
	"github.com/casalabia/realtor-backend/internal/middleware"
	"github.com/casalabia/realtor-backend/internal/services"
)

type PhotoHandler struct {
	log          *logger.Logger
	photoService services.PhotoService
}

func NewPhotoHandler(photoService services.PhotoService, log *logger.Logger) *PhotoHandler {
	return &PhotoHandler{
		log:          log.With("handler", "PhotoHandler"),
		photoService: photoService,
	}
}

// RequestUploads returns one signed PUT URL per requested file.
func (ph *PhotoHandler) RequestUploads(c *gin.Context) {
	listingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}
	var req struct {
		Files []services.UploadSlotInput `json:"files"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	slots, err := ph.photoService.CreateUploadSlots(c.Request.Context(), listingID, userID, req.Files)
	if err != nil {
		respondError(c, ph.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"uploads": slots})
}

// CompleteUploads flips the named photos to PROCESSING and schedules the
// resize work; 202 because the variants are not ready yet.
func (ph *PhotoHandler) CompleteUploads(c *gin.Context) {
	listingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		PhotoIDs []uuid.UUID `json:"photoIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	photos, err := ph.photoService.CompleteUploads(c.Request.Context(), listingID, req.PhotoIDs)
	if err != nil {
		respondError(c, ph.log, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"photos": photos})
}

func (ph *PhotoHandler) List(c *gin.Context) {
	listingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	photos, err := ph.photoService.ListByListing(c.Request.Context(), listingID)
	if err != nil {
		respondError(c, ph.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

func (ph *PhotoHandler) SetOrder(c *gin.Context) {
	listingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		PhotoIDs []uuid.UUID `json:"photoIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := ph.photoService.SetOrder(c.Request.Context(), listingID, req.PhotoIDs); err != nil {
		respondError(c, ph.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (ph *PhotoHandler) SetCover(c *gin.Context) {
	listingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	photoID, ok := pathUUID(c, "photoId")
	if !ok {
		return
	}
	if err := ph.photoService.SetCover(c.Request.Context(), listingID, photoID); err != nil {
		respondError(c, ph.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (ph *PhotoHandler) Delete(c *gin.Context) {
	listingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	photoID, ok := pathUUID(c, "photoId")
	if !ok {
		return
	}
	if err := ph.photoService.Delete(c.Request.Context(), listingID, photoID); err != nil {
		respondError(c, ph.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteAll wipes a listing's whole photo set in one call.
func (ph *PhotoHandler) DeleteAll(c *gin.Context) {
	listingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	deleted, err := ph.photoService.DeleteAll(c.Request.Context(), listingID)
	if err != nil {
		respondError(c, ph.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
