package models

import "fmt"

// RecordStatus marks whether a row is live or soft-deleted. Deleted rows
// stay in the table for audit but are excluded from every active query.
type RecordStatus string

const (
	RecordActive  RecordStatus = "ACTIVE"
	RecordDeleted RecordStatus = "DELETED"
)

// PropertyStatus is the lifecycle of a property engagement.
type PropertyStatus string

const (
	PropertyNew       PropertyStatus = "New"
	PropertyCancelled PropertyStatus = "Cancelled"
	PropertyInvoiced  PropertyStatus = "Invoiced"
	PropertyPaid      PropertyStatus = "Paid"
)

// ParsePropertyStatus validates a wire string against the closed status set.
func ParsePropertyStatus(s string) (PropertyStatus, error) {
	switch PropertyStatus(s) {
	case PropertyNew, PropertyCancelled, PropertyInvoiced, PropertyPaid:
		return PropertyStatus(s), nil
	default:
		return "", fmt.Errorf("unknown property status %q", s)
	}
}
