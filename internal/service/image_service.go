package service

import (
	"encoding/base64"
	"strings"

	"github.com/card-builder/internal/validation"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// imageService converts uploaded image bytes into data URLs
type imageService struct {
	maxSize int64
	log     zerolog.Logger
}

// NewImageService creates an ImageService accepting images up to maxSize bytes
func NewImageService(maxSize int64, log zerolog.Logger) ImageService {
	return &imageService{
		maxSize: maxSize,
		log:     log.With().Str("service", "images").Logger(),
	}
}

func (s *imageService) MaxSize() int64 {
	return s.maxSize
}

// EncodeDataURL sniffs the image type from its content and returns
// "data:<type>;base64,<payload>". The client-declared type is not trusted.
func (s *imageService) EncodeDataURL(data []byte) (string, error) {
	detected, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")

	if err := validation.ValidateImage(detected, int64(len(data)), s.maxSize); err != nil {
		s.log.Debug().Str("detected_type", detected).Int("bytes", len(data)).Msg("Image rejected")
		return "", err
	}

	return "data:" + detected + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
