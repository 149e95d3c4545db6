// Package qrcode рисует PNG с QR кодом карточки
package qrcode

import (
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize - сторона изображения в пикселях
const DefaultSize = 512

// Encoder кодирует текст в PNG
type Encoder struct {
	size  int
	level goqrcode.RecoveryLevel
}

// NewEncoder создает кодировщик. size <= 0 заменяется на DefaultSize
func NewEncoder(size int) *Encoder {
	if size <= 0 {
		size = DefaultSize
	}
	return &Encoder{size: size, level: goqrcode.Medium}
}

// PNG возвращает изображение QR кода с текстом content
func (e *Encoder) PNG(content string) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr content is empty")
	}
	png, err := goqrcode.Encode(content, e.level, e.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
