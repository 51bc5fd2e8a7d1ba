package domain

import (
	"time"

	"github.com/google/uuid"
)

type LandTenureType string

const (
	TenureOwned           LandTenureType = "OWNED"
	TenureLeased          LandTenureType = "LEASED"
	TenureCommunalAccess  LandTenureType = "COMMUNAL_ACCESS"
	TenureCustomAgreement LandTenureType = "CUSTOM_AGREEMENT"
	TenureUnknown         LandTenureType = "UNKNOWN"
)

func ValidLandTenureType(t string) bool {
	switch LandTenureType(t) {
	case TenureOwned, TenureLeased, TenureCommunalAccess, TenureCustomAgreement, TenureUnknown:
		return true
	}
	return false
}

// ParseLandTenureType maps unrecognized input to TenureUnknown rather than
// failing, so callers can always persist something meaningful.
func ParseLandTenureType(t string) LandTenureType {
	if ValidLandTenureType(t) {
		return LandTenureType(t)
	}
	return TenureUnknown
}

// LandTenure records who holds a plot and under what terms. At most one row
// exists per plot; the storage layer enforces the uniqueness.
type LandTenure struct {
	LandTenureIdentifier       uuid.UUID      `json:"land_tenure_identifier"`
	PlotIdentifier             uuid.UUID      `json:"plot_identifier"`
	TenureType                 LandTenureType `json:"tenure_type"`
	LeaseStartDate             *time.Time     `json:"lease_start_date,omitempty"`
	LeaseEndDate               *time.Time     `json:"lease_end_date,omitempty"`
	OwnerDetails               *string        `json:"owner_details,omitempty"`
	AgreementDocumentReference *string        `json:"agreement_document_reference,omitempty"`
	TenantID                   uuid.UUID      `json:"tenant_id"`
	CreatedAt                  time.Time      `json:"created_at"`
	UpdatedAt                  time.Time      `json:"updated_at"`
	Version                    int64          `json:"version"`
}
