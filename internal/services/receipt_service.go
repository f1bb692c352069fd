package services

import (
	"bytes"
	"fmt"
	"image/png"
	"net/http"
	"net/url"

	"github.com/skip2/go-qrcode"
)

const receiptQRSize = 256

type ReceiptService struct{}

func NewReceiptService() *ReceiptService {
	return &ReceiptService{}
}

// GenerateQRCode renders link as a PNG QR code
func (s *ReceiptService) GenerateQRCode(link string) ([]byte, error) {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, fmt.Errorf("link must be an absolute http(s) URL")
	}

	qr, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(receiptQRSize)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReceiptQR serves a scannable QR code of a transaction link
// @Summary Transaction receipt QR code
// @Tags settlement
// @Produce png
// @Param link query string true "Transaction explorer link"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Router /settlement/receipt-qr [get]
func (s *ReceiptService) ReceiptQR(w http.ResponseWriter, r *http.Request) {
	img, err := s.GenerateQRCode(r.URL.Query().Get("link"))
	if err != nil {
		SendErrorResponse(w, err.Error(), ErrTypeRequest, http.StatusBadRequest, nil)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(img)
}
