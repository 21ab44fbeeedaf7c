package api

import (
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/card-builder/internal/config"
	"github.com/card-builder/internal/models"
	"github.com/card-builder/internal/service"
	"github.com/card-builder/internal/vcard"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ShareHandler serves the shareable artifacts of a card: vCard, QR code and the public view
type ShareHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewShareHandler creates a new ShareHandler
func NewShareHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ShareHandler {
	return &ShareHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "share").Logger(),
	}
}

// cardView is the presentation payload of a card
type cardView struct {
	Card  models.CardRecord `json:"card"`
	Theme models.Theme      `json:"theme"`
	VCard string            `json:"vcard"`
	Links map[string]string `json:"links,omitempty"`
}

func newCardView(card models.CardRecord) cardView {
	return cardView{
		Card:  card,
		Theme: models.ResolveTheme(card.Theme),
		VCard: vcard.Encode(&card),
	}
}

// ViewCard handles GET /view/:employee_code
func (h *ShareHandler) ViewCard(c *gin.Context) {
	card, ok := findCard(c, h.services.Cards, h.log)
	if !ok {
		return
	}

	view := newCardView(*card)
	base := "/v1/cards/" + url.PathEscape(card.EmployeeCode)
	view.Links = map[string]string{
		"vcard": base + "/vcard",
		"qr":    base + "/qr",
		"edit":  "/admin?" + url.Values{"edit": {card.EmployeeCode}}.Encode(),
	}
	c.JSON(http.StatusOK, view)
}

// PreviewDraft handles POST /v1/drafts/preview
// Nothing is stored; the draft may lack an employee code.
func (h *ShareHandler) PreviewDraft(c *gin.Context) {
	draft, ok := bindDraft(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newCardView(draft))
}

// DownloadVCard handles GET /v1/cards/:employee_code/vcard
func (h *ShareHandler) DownloadVCard(c *gin.Context) {
	card, ok := findCard(c, h.services.Cards, h.log)
	if !ok {
		return
	}
	h.writeVCard(c, card)
}

// DraftVCard handles POST /v1/vcard
func (h *ShareHandler) DraftVCard(c *gin.Context) {
	draft, ok := bindDraft(c)
	if !ok {
		return
	}
	h.writeVCard(c, &draft)
}

// DownloadQR handles GET /v1/cards/:employee_code/qr?size=...
func (h *ShareHandler) DownloadQR(c *gin.Context) {
	size, ok := h.qrSize(c)
	if !ok {
		return
	}
	card, ok := findCard(c, h.services.Cards, h.log)
	if !ok {
		return
	}
	h.writeQR(c, card, size)
}

// DraftQR handles POST /v1/qr?size=...
func (h *ShareHandler) DraftQR(c *gin.Context) {
	size, ok := h.qrSize(c)
	if !ok {
		return
	}
	draft, ok := bindDraft(c)
	if !ok {
		return
	}
	h.writeQR(c, &draft, size)
}

func (h *ShareHandler) writeVCard(c *gin.Context, card *models.CardRecord) {
	setAttachment(c, vcard.FileName(card))
	c.Data(http.StatusOK, vcard.MIMEType, []byte(vcard.Encode(card)))
}

func (h *ShareHandler) writeQR(c *gin.Context, card *models.CardRecord, size int) {
	png, err := vcard.RenderQR(vcard.Encode(card), size)
	if err != nil {
		respondError(c, h.log, err, "failed to render QR code")
		return
	}
	setAttachment(c, vcard.QRFileName(card))
	c.Data(http.StatusOK, vcard.QRMIMEType, png)
}

func (h *ShareHandler) qrSize(c *gin.Context) (int, bool) {
	raw := c.Query("size")
	if raw == "" {
		return h.cfg.QR.Size, true
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size < 1 || size > h.cfg.QR.MaxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size must be an integer between 1 and " + strconv.Itoa(h.cfg.QR.MaxSize)})
		return 0, false
	}
	return size, true
}

func bindDraft(c *gin.Context) (models.CardRecord, bool) {
	var draft models.CardRecord
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": FormatBindingError(err)})
		return draft, false
	}
	return draft, true
}

func setAttachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}
