package services

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QRService renders QR code images for ticket gate payloads
type QRService struct{}

// NewQRService creates a new QR service
func NewQRService() *QRService {
	return &QRService{}
}

// Render encodes the payload as a PNG QR code. The code is square, so
// the smaller of width and height is used as the side length.
func (s *QRService) Render(payload string, width, height int) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("qr payload is empty")
	}

	size := width
	if height < size {
		size = height
	}
	if size <= 0 {
		size = 256
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}

	return png, nil
}
