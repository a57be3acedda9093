package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// SocietySortFields contains allowed sort fields for societies
var SocietySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"location":   true,
}

// PlotSortFields contains allowed sort fields for plots
var PlotSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"plot_number":   true,
	"block":         true,
	"category":      true,
	"plot_type":     true,
	"status":        true,
	"booking_state": true,
	"price":         true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"cnic":       true,
}

// BookingSortFields contains allowed sort fields for bookings
var BookingSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"booking_number": true,
	"booking_date":   true,
	"total_amount":   true,
	"total_paid":     true,
	"status":         true,
}

// InstallmentSortFields contains allowed sort fields for installments
var InstallmentSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"sequence":   true,
	"due_date":   true,
	"amount":     true,
	"status":     true,
}

// TransactionSortFields contains allowed sort fields for ledger transactions
var TransactionSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"transaction_date": true,
	"amount":           true,
	"type":             true,
	"direction":        true,
	"receipt_no":       true,
}
