package storage

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Допустимые типы изображений документов
var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/webp": "webp",
}

// Image - декодированное изображение из data URL
type Image struct {
	ContentType string
	Extension   string
	Data        []byte
}

// DecodeDataURL разбирает строку вида data:image/png;base64,.... Без префикса data: строка считается base64 JPEG
func DecodeDataURL(s string) (*Image, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("image is empty")
	}

	contentType := "image/jpeg"
	payload := s

	if strings.HasPrefix(s, "data:") {
		meta, data, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
		if !ok {
			return nil, fmt.Errorf("malformed data url")
		}
		mediaType, encoding, _ := strings.Cut(meta, ";")
		if encoding != "base64" {
			return nil, fmt.Errorf("data url must be base64 encoded")
		}
		contentType = strings.ToLower(mediaType)
		payload = data
	}

	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("unsupported image type %q", contentType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image is empty")
	}

	return &Image{ContentType: contentType, Extension: ext, Data: data}, nil
}
