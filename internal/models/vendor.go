package models

import "time"

type Vendor struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	City         string       `json:"city"`
	CompanyName  string       `json:"companyName"`
	PasswordHash string       `json:"-"`
	RecordStatus RecordStatus `json:"-"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// VendorService links a vendor to a catalog service it offers.
type VendorService struct {
	ID        int64     `json:"id"`
	VendorID  int64     `json:"vendorId"`
	ServiceID int64     `json:"serviceId"`
	CreatedAt time.Time `json:"createdAt"`
}
