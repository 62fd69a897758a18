package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/casalabia/realtor-backend/internal/ai"
	"github.com/casalabia/realtor-backend/internal/logger"
	"github.com/casalabia/realtor-backend/internal/repos"
	"github.com/casalabia/realtor-backend/internal/services"
	"github.com/casalabia/realtor-backend/internal/types"
)

type ListingHandler struct {
	log            *logger.Logger
	listingService services.ListingService
	draftGenerator ai.Generator
}

func NewListingHandler(listingService services.ListingService, draftGenerator ai.Generator, log *logger.Logger) *ListingHandler {
	return &ListingHandler{
		log:            log.With("handler", "ListingHandler"),
		listingService: listingService,
		draftGenerator: draftGenerator,
	}
}

func (lh *ListingHandler) Create(c *gin.Context) {
	var req services.CreateListingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	listing, err := lh.listingService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, lh.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"listing": listing})
}

func (lh *ListingHandler) Get(c *gin.Context) {
	listingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	listing, err := lh.listingService.GetByID(c.Request.Context(), listingID)
	if err != nil {
		respondError(c, lh.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": listing})
}

func (lh *ListingHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := repos.ListingFilter{
		Status:       types.ListingStatus(c.Query("status")),
		Type:         types.ListingType(c.Query("type")),
		PropertyType: c.Query("propertyType"),
		Query:        c.Query("q"),
		Sort:         repos.ListingSort(c.Query("sort")),
		Page:         page,
		Limit:        limit,
	}
	listings, total, err := lh.listingService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, lh.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"total":    total,
		"page":     filter.Page,
		"limit":    filter.Limit,
	})
}

func (lh *ListingHandler) Update(c *gin.Context) {
	listingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateListingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	listing, err := lh.listingService.Update(c.Request.Context(), listingID, req)
	if err != nil {
		respondError(c, lh.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": listing})
}

func (lh *ListingHandler) Delete(c *gin.Context) {
	listingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := lh.listingService.Delete(c.Request.Context(), listingID); err != nil {
		respondError(c, lh.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GenerateDraft runs the AI pipeline for a listing. The result is returned
// to the client, never written to the listing; applying it is a separate
// explicit update.
func (lh *ListingHandler) GenerateDraft(c *gin.Context) {
	listingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	// The body is optional; every request field has a default.
	var req ai.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	listing, err := lh.listingService.GetByID(c.Request.Context(), listingID)
	if err != nil {
		respondError(c, lh.log, err)
		return
	}
	result, err := lh.draftGenerator.GenerateDraft(c.Request.Context(), ai.FactsFromListing(listing), req)
	if err != nil {
		respondError(c, lh.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
