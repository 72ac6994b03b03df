package qr

import (
	qrcode "github.com/skip2/go-qrcode"
)

const pngSize = 300

// PNG encodes the given text as a QR code PNG image.
func PNG(text string) ([]byte, error) {
	return qrcode.Encode(text, qrcode.Medium, pngSize)
}
