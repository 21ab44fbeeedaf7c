package validation

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/card-builder/internal/models"
)

// ValidationError represents a single failed precondition on user input
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Errors is a list of validation errors reported together
type Errors []*ValidationError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, "; ")
}

// ErrEmployeeCodeRequired is returned when a card is saved without an employee code
var ErrEmployeeCodeRequired = &ValidationError{Field: string(models.FieldEmployeeCode), Message: "employee code required"}

// ValidateForSave checks the preconditions for persisting a card
func ValidateForSave(card *models.CardRecord) error {
	if card == nil || card.EmployeeCode == "" {
		return ErrEmployeeCodeRequired
	}
	return nil
}

// ValidateImage checks an uploaded image's MIME type and size
func ValidateImage(contentType string, size, maxSize int64) error {
	var errs Errors

	if !models.AcceptedImageTypes[normalizeType(contentType)] {
		errs = append(errs, &ValidationError{
			Field:   "file",
			Message: "invalid file type, please upload a JPEG, PNG, GIF or WebP image",
			Value:   contentType,
		})
	}
	if size > maxSize {
		errs = append(errs, &ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("file too large, please upload an image smaller than %s", humanSize(maxSize)),
			Value:   size,
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateDataURL checks that value is a base64 data URL carrying an accepted image within maxSize
func ValidateDataURL(field, value string, maxSize int64) error {
	invalid := &ValidationError{Field: field, Message: field + " must be a base64 image data URL"}

	rest, ok := strings.CutPrefix(value, "data:")
	if !ok {
		return invalid
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return invalid
	}
	mediaType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return invalid
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return invalid
	}

	if err := ValidateImage(mediaType, int64(len(decoded)), maxSize); err != nil {
		errs := err.(Errors)
		for _, e := range errs {
			e.Field = field
		}
		return errs
	}
	return nil
}

// ValidateCardImages checks both image slots of card, skipping empty ones
func ValidateCardImages(card *models.CardRecord, maxSize int64) error {
	var errs Errors
	for _, slot := range []struct {
		name  models.ImageSlot
		value *string
	}{
		{models.SlotProfilePicture, card.ProfilePicture},
		{models.SlotCompanyLogo, card.CompanyLogo},
	} {
		if slot.value == nil || *slot.value == "" {
			continue
		}
		if err := ValidateDataURL(string(slot.name), *slot.value, maxSize); err != nil {
			errs = append(errs, flatten(err)...)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func flatten(err error) Errors {
	switch e := err.(type) {
	case Errors:
		return e
	case *ValidationError:
		return Errors{e}
	}
	return Errors{{Message: err.Error()}}
}

func normalizeType(contentType string) string {
	t, _, _ := strings.Cut(contentType, ";")
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "image/jpg" {
		return "image/jpeg"
	}
	return t
}

func humanSize(n int64) string {
	const mib = 1024 * 1024
	if n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	return fmt.Sprintf("%d bytes", n)
}
