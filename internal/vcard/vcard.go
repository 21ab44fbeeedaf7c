// Package vcard encodes cards as vCard 3.0 text and renders it as a QR code.
//
// Values are written verbatim; no RFC 6350 escaping is applied.
package vcard

import (
	"strings"

	"github.com/card-builder/internal/models"
)

// MIMEType is the content type of an encoded vCard
const MIMEType = "text/vcard"

// Encode renders card as vCard lines joined by "\n".
// Empty fields are omitted; BEGIN, VERSION and END are always present.
func Encode(card *models.CardRecord) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\nVERSION:3.0\n")

	line := func(key, value string) {
		if value == "" {
			return
		}
		b.WriteString(key)
		b.WriteByte(':')
		b.WriteString(value)
		b.WriteByte('\n')
	}

	line("FN", card.Name)
	line("TITLE", card.Title)
	line("ORG", card.Company)
	line("EMAIL", card.Email)
	line("TEL", card.Phone)
	line("URL", card.Website)
	if card.Address != "" {
		line("ADR", ";;"+card.Address+";;;")
	}

	b.WriteString("END:VCARD")
	return b.String()
}

// FileName is the download name of a card's vCard
func FileName(card *models.CardRecord) string {
	return nameOr(card, "contact") + ".vcf"
}

// QRFileName is the download name of a card's QR image
func QRFileName(card *models.CardRecord) string {
	return nameOr(card, "business") + "-qr-code.png"
}

// CardImageFileName is the download name of a rasterized card
func CardImageFileName(card *models.CardRecord) string {
	return nameOr(card, "business") + "-card.png"
}

func nameOr(card *models.CardRecord, fallback string) string {
	if card.Name != "" {
		return card.Name
	}
	return fallback
}
