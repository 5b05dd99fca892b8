package dtos

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format for date-only fields.
const DateLayout = "2006-01-02"

var pincodePattern = regexp.MustCompile(`^\d{5,6}$`)

// RegisterCustomValidations wires the domain's custom validation tags
// into a validator instance.
func RegisterCustomValidations(v *validator.Validate) error {
	return v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodePattern.MatchString(fl.Field().String())
	})
}

type AddPropertyRequest struct {
	OwnerName         string  `json:"ownerName" validate:"required,min=2"`
	OwnerEmail        string  `json:"ownerEmail" validate:"required,email"`
	OwnerPhone        string  `json:"ownerPhone" validate:"required,min=7,max=15"`
	AddressLine       string  `json:"addressLine" validate:"required"`
	City              string  `json:"city" validate:"required"`
	State             string  `json:"state" validate:"required"`
	Pincode           string  `json:"pincode" validate:"required,pincode"`
	ProjectEndingDate string  `json:"projectEndingDate" validate:"required,datetime=2006-01-02"`
	ServiceIDs        []int64 `json:"serviceIds" validate:"required,min=1,dive,gt=0"`
	VendorIDs         []int64 `json:"vendorIds" validate:"required,min=1,dive,gt=0"`
}

// EditPropertyRequest updates a property partially. Omitted fields keep
// their stored values; omitted serviceIds or vendorIds keep that side of
// the current assignment selection.
type EditPropertyRequest struct {
	OwnerName         *string `json:"ownerName" validate:"omitempty,min=2"`
	OwnerEmail        *string `json:"ownerEmail" validate:"omitempty,email"`
	OwnerPhone        *string `json:"ownerPhone" validate:"omitempty,min=7,max=15"`
	AddressLine       *string `json:"addressLine" validate:"omitempty"`
	City              *string `json:"city" validate:"omitempty"`
	State             *string `json:"state" validate:"omitempty"`
	Pincode           *string `json:"pincode" validate:"omitempty,pincode"`
	ProjectEndingDate *string `json:"projectEndingDate" validate:"omitempty,datetime=2006-01-02"`
	ServiceIDs        []int64 `json:"serviceIds" validate:"omitempty,min=1,dive,gt=0"`
	VendorIDs         []int64 `json:"vendorIds" validate:"omitempty,min=1,dive,gt=0"`
}

type VendorsByServicesRequest struct {
	ServiceIDs []int64 `json:"serviceIds" validate:"required,min=1,dive,gt=0"`
}
