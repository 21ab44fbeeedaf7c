package models

import "time"

// DefaultTheme is the theme every fresh draft starts with
const DefaultTheme = "card-gradient-purple"

// LastUpdatedLayout is the ISO-8601 layout used for CardRecord.LastUpdated
const LastUpdatedLayout = "2006-01-02T15:04:05.000Z"

// CardRecord represents one business card
type CardRecord struct {
	ID             string  `json:"id,omitempty"`
	EmployeeCode   string  `json:"employeeCode"`
	Name           string  `json:"name"`
	Title          string  `json:"title"`
	Company        string  `json:"company"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Website        string  `json:"website"`
	Address        string  `json:"address"`
	Bio            string  `json:"bio"`
	Theme          string  `json:"theme"`
	ProfilePicture *string `json:"profilePicture"`
	CompanyLogo    *string `json:"companyLogo"`
	IsActive       *bool   `json:"isActive,omitempty"`
	LastUpdated    string  `json:"lastUpdated,omitempty"`
}

// LastUpdatedTime parses LastUpdated. The zero time is returned when it is unset or malformed.
func (r CardRecord) LastUpdatedTime() time.Time {
	if r.LastUpdated == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, r.LastUpdated)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CardField names one of the free-text fields of a CardRecord
type CardField string

const (
	FieldEmployeeCode CardField = "employeeCode"
	FieldName         CardField = "name"
	FieldTitle        CardField = "title"
	FieldCompany      CardField = "company"
	FieldEmail        CardField = "email"
	FieldPhone        CardField = "phone"
	FieldWebsite      CardField = "website"
	FieldAddress      CardField = "address"
	FieldBio          CardField = "bio"
	FieldTheme        CardField = "theme"
)

// StringFields lists every editable string field in form order
var StringFields = []CardField{
	FieldEmployeeCode,
	FieldName,
	FieldTitle,
	FieldCompany,
	FieldEmail,
	FieldPhone,
	FieldWebsite,
	FieldAddress,
	FieldBio,
	FieldTheme,
}

// ParseCardField returns the CardField for name, or false if name is not a string field
func ParseCardField(name string) (CardField, bool) {
	for _, f := range StringFields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// ImageSlot names one of the two image fields of a CardRecord
type ImageSlot string

const (
	SlotProfilePicture ImageSlot = "profilePicture"
	SlotCompanyLogo    ImageSlot = "companyLogo"
)

// ParseImageSlot returns the ImageSlot for name, or false if name is not an image field
func ParseImageSlot(name string) (ImageSlot, bool) {
	switch ImageSlot(name) {
	case SlotProfilePicture, SlotCompanyLogo:
		return ImageSlot(name), true
	}
	return "", false
}

// AcceptedImageTypes defines the MIME types allowed for card images
var AcceptedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// DefaultMaxImageSize is the upload ceiling for card images (2 MiB)
const DefaultMaxImageSize int64 = 2 * 1024 * 1024
