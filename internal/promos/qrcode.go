package promos

import (
	"github.com/skip2/go-qrcode"
)

const (
	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

// QRPayload mobil uygulamanın promosyonu açtığı deep link
func QRPayload(promoID string) string {
	return "alhidayah://promo/" + promoID
}

// QRCode baskı materyali için PNG üretir. Boyut sınırların dışındaysa varsayılan kullanılır.
func QRCode(promoID string, size int) ([]byte, error) {
	if size < minQRSize || size > maxQRSize {
		size = defaultQRSize
	}
	return qrcode.Encode(QRPayload(promoID), qrcode.Medium, size)
}
