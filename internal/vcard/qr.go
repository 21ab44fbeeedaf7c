package vcard

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QRMIMEType is the content type of a rendered QR code
const QRMIMEType = "image/png"

// RenderQR encodes payload as a PNG QR code of size x size pixels.
// Medium error correction keeps the symbol readable under a logo overlay.
func RenderQR(payload string, size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("qr size must be positive, got %d", size)
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}
	return png, nil
}
