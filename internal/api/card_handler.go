package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"

	"github.com/card-builder/internal/form"
	"github.com/card-builder/internal/models"
	"github.com/card-builder/internal/service"
	"github.com/card-builder/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CardHandler handles the card admin endpoints
type CardHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(services *service.Services, log zerolog.Logger) *CardHandler {
	return &CardHandler{
		services: services,
		log:      log.With().Str("handler", "cards").Logger(),
	}
}

// ListCards handles GET /v1/cards?q=...
func (h *CardHandler) ListCards(c *gin.Context) {
	query := c.Query("q")

	cards, err := h.services.Cards.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.log, err, "failed to list cards")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cards": cards,
		"count": len(cards),
		"query": query,
	})
}

// GetCard handles GET /v1/cards/:employee_code
func (h *CardHandler) GetCard(c *gin.Context) {
	card, ok := findCard(c, h.services.Cards, h.log)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, card)
}

// SaveCard handles POST /v1/cards
// The body is the full card; an existing card with the same employee code is replaced.
func (h *CardHandler) SaveCard(c *gin.Context) {
	var card models.CardRecord
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": FormatBindingError(err)})
		return
	}

	h.save(c, card, http.StatusOK)
}

// editCardRequest needs at least one edit: a non-empty fields map, a theme, or both
type editCardRequest struct {
	Fields map[string]string `json:"fields" binding:"required_without=Theme,omitempty,min=1"`
	Theme  *string           `json:"theme" binding:"required_without=Fields"`
}

type uploadImageRequest struct {
	File *multipart.FileHeader `form:"file" binding:"required"`
}

// EditCard handles PATCH /v1/cards/:employee_code
// Fields are applied to the stored card one by one, then the whole card is saved.
// Changing employeeCode saves a copy under the new code and leaves the old card in place.
func (h *CardHandler) EditCard(c *gin.Context) {
	var req editCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": FormatBindingError(err)})
		return
	}

	existing, ok := findCard(c, h.services.Cards, h.log)
	if !ok {
		return
	}

	draft := *existing
	names := make([]string, 0, len(req.Fields))
	for name := range req.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		field, known := models.ParseCardField(name)
		if !known {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown field %q", name)})
			return
		}
		next, err := form.SetField(draft, field, req.Fields[name])
		if err != nil {
			respondError(c, h.log, err, "failed to edit card")
			return
		}
		draft = next
	}
	if req.Theme != nil {
		draft = form.SetTheme(draft, *req.Theme)
	}

	h.save(c, draft, http.StatusOK)
}

// DeleteCard handles DELETE /v1/cards/:employee_code
// Deleting an unknown code succeeds.
func (h *CardHandler) DeleteCard(c *gin.Context) {
	code := c.Param("employee_code")

	collection, err := h.services.Cards.Remove(c.Request.Context(), code)
	if err != nil {
		respondError(c, h.log, err, "failed to delete card")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted":   code,
		"remaining": collection.Len(),
	})
}

// UploadImage handles PUT /v1/cards/:employee_code/images/:slot (multipart field "file")
func (h *CardHandler) UploadImage(c *gin.Context) {
	slot, ok := models.ParseImageSlot(c.Param("slot"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot must be one of: profilePicture, companyLogo"})
		return
	}

	var req uploadImageRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": FormatBindingError(err)})
		return
	}
	header := req.File

	file, err := header.Open()
	if err != nil {
		respondError(c, h.log, err, "failed to read image")
		return
	}
	defer file.Close()

	maxSize := h.services.Images.MaxSize()
	if header.Size > maxSize {
		respondError(c, h.log, validation.ValidateImage(header.Header.Get("Content-Type"), header.Size, maxSize), "failed to read image")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		respondError(c, h.log, err, "failed to read image")
		return
	}

	dataURL, err := h.services.Images.EncodeDataURL(data)
	if err != nil {
		respondError(c, h.log, err, "failed to encode image")
		return
	}

	existing, ok := findCard(c, h.services.Cards, h.log)
	if !ok {
		return
	}

	draft, err := form.AttachImage(*existing, slot, dataURL)
	if err != nil {
		respondError(c, h.log, err, "failed to attach image")
		return
	}

	h.log.Info().
		Str("employee_code", existing.EmployeeCode).
		Str("slot", string(slot)).
		Str("filename", header.Filename).
		Int("bytes", len(data)).
		Msg("Image attached")

	h.save(c, draft, http.StatusOK)
}

// RemoveImage handles DELETE /v1/cards/:employee_code/images/:slot
func (h *CardHandler) RemoveImage(c *gin.Context) {
	slot, ok := models.ParseImageSlot(c.Param("slot"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot must be one of: profilePicture, companyLogo"})
		return
	}

	existing, ok := findCard(c, h.services.Cards, h.log)
	if !ok {
		return
	}

	draft, err := form.DetachImage(*existing, slot)
	if err != nil {
		respondError(c, h.log, err, "failed to detach image")
		return
	}

	h.save(c, draft, http.StatusOK)
}

// findCard loads the card named by the employee_code path parameter.
// It writes the 404/500 response itself and reports false when the caller should stop.
func findCard(c *gin.Context, cards service.CardStore, log zerolog.Logger) (*models.CardRecord, bool) {
	card, err := cards.Find(c.Request.Context(), c.Param("employee_code"))
	if err != nil {
		respondError(c, log, err, "failed to get card")
		return nil, false
	}
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return nil, false
	}
	return card, true
}

func (h *CardHandler) save(c *gin.Context, card models.CardRecord, status int) {
	if err := validation.ValidateCardImages(&card, h.services.Images.MaxSize()); err != nil {
		respondError(c, h.log, err, "failed to save card")
		return
	}

	collection, err := h.services.Cards.Upsert(c.Request.Context(), card)
	if err != nil {
		respondError(c, h.log, err, "failed to save card")
		return
	}

	saved, _ := collection.Get(card.EmployeeCode)
	c.JSON(status, saved)
}
