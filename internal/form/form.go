// Package form edits draft cards. Every operation takes a draft by value and
// returns the updated copy; nothing is persisted and the input is never modified.
package form

import (
	"errors"
	"fmt"

	"github.com/card-builder/internal/models"
)

var (
	ErrUnknownField = errors.New("unknown card field")
	ErrUnknownSlot  = errors.New("unknown image slot")
)

// Reset returns the empty draft
func Reset() models.CardRecord {
	return models.CardRecord{Theme: models.DefaultTheme}
}

// SetField returns draft with one string field replaced
func SetField(draft models.CardRecord, field models.CardField, value string) (models.CardRecord, error) {
	switch field {
	case models.FieldEmployeeCode:
		draft.EmployeeCode = value
	case models.FieldName:
		draft.Name = value
	case models.FieldTitle:
		draft.Title = value
	case models.FieldCompany:
		draft.Company = value
	case models.FieldEmail:
		draft.Email = value
	case models.FieldPhone:
		draft.Phone = value
	case models.FieldWebsite:
		draft.Website = value
	case models.FieldAddress:
		draft.Address = value
	case models.FieldBio:
		draft.Bio = value
	case models.FieldTheme:
		draft.Theme = value
	default:
		return draft, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return draft, nil
}

// SetTheme returns draft with its theme replaced. Any id is accepted.
func SetTheme(draft models.CardRecord, themeID string) models.CardRecord {
	draft.Theme = themeID
	return draft
}

// AttachImage returns draft with dataURL stored in slot
func AttachImage(draft models.CardRecord, slot models.ImageSlot, dataURL string) (models.CardRecord, error) {
	return setImage(draft, slot, &dataURL)
}

// DetachImage returns draft with slot cleared
func DetachImage(draft models.CardRecord, slot models.ImageSlot) (models.CardRecord, error) {
	return setImage(draft, slot, nil)
}

func setImage(draft models.CardRecord, slot models.ImageSlot, value *string) (models.CardRecord, error) {
	switch slot {
	case models.SlotProfilePicture:
		draft.ProfilePicture = value
	case models.SlotCompanyLogo:
		draft.CompanyLogo = value
	default:
		return draft, fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	return draft, nil
}
