package addressControllers

import (
	"context"
	"strings"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/Vznu7/one-piece-web-application/store"
)

// AddressInput is an address typed in at checkout or in the address book.
type AddressInput struct {
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

func (in AddressInput) trimmed() AddressInput {
	return AddressInput{
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        strings.TrimSpace(in.Email),
		AddressLine1: strings.TrimSpace(in.AddressLine1),
		AddressLine2: strings.TrimSpace(in.AddressLine2),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
		Pincode:      strings.TrimSpace(in.Pincode),
	}
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func validPincode(s string) bool {
	return len(s) == 6 && countDigits(s) == 6
}

// Validate reports the first missing or malformed field.
func (in AddressInput) Validate() error {
	in = in.trimmed()
	switch {
	case in.FullName == "":
		return apperrors.Invalid("fullName", "full name is required")
	case in.Phone == "":
		return apperrors.Invalid("phone", "phone is required")
	case countDigits(in.Phone) < 10:
		return apperrors.Invalid("phone", "phone must have at least 10 digits")
	case in.AddressLine1 == "":
		return apperrors.Invalid("addressLine1", "address line 1 is required")
	case in.City == "":
		return apperrors.Invalid("city", "city is required")
	case in.State == "":
		return apperrors.Invalid("state", "state is required")
	case in.Pincode == "":
		return apperrors.Invalid("pincode", "pincode is required")
	case !validPincode(in.Pincode):
		return apperrors.Invalid("pincode", "pincode must be exactly 6 digits")
	}
	return nil
}

func (in AddressInput) Snapshot() models.ShippingAddress {
	in = in.trimmed()
	return models.ShippingAddress{
		FullName:     in.FullName,
		Phone:        in.Phone,
		Email:        in.Email,
		AddressLine1: in.AddressLine1,
		AddressLine2: in.AddressLine2,
		City:         in.City,
		State:        in.State,
		Pincode:      in.Pincode,
	}
}

// Resolve picks the shipping address for an order: the caller's saved
// address when addressID is set, otherwise the validated inline address.
// Stored addresses are never modified.
func Resolve(ctx context.Context, s store.Store, userID, addressID string, inline *AddressInput) (models.ShippingAddress, error) {
	if addressID != "" {
		addr, err := s.GetAddress(ctx, userID, addressID)
		if err != nil {
			return models.ShippingAddress{}, err
		}
		return addr.Snapshot(), nil
	}
	if inline == nil {
		return models.ShippingAddress{}, apperrors.Invalid("address", "an address id or an address is required")
	}
	if err := inline.Validate(); err != nil {
		return models.ShippingAddress{}, err
	}
	return inline.Snapshot(), nil
}
