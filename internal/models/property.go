package models

import "time"

type Property struct {
	ID                int64          `json:"id"`
	AgentID           int64          `json:"agentId"`
	OwnerName         string         `json:"ownerName"`
	OwnerEmail        string         `json:"ownerEmail"`
	OwnerPhone        string         `json:"ownerPhone"`
	AddressLine       string         `json:"addressLine"`
	City              string         `json:"city"`
	State             string         `json:"state"`
	Pincode           string         `json:"pincode"`
	ProjectEndingDate time.Time      `json:"projectEndingDate"`
	Status            PropertyStatus `json:"status"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// PropertyService is one vendor-service pair assigned to a property,
// stamped with the agent who made the assignment and when.
type PropertyService struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"propertyId"`
	VendorID   int64     `json:"vendorId"`
	ServiceID  int64     `json:"serviceId"`
	AssignedBy int64     `json:"assignedBy"`
	AssignedAt time.Time `json:"assignedAt"`
}
