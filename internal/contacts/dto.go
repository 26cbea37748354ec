package contacts

import (
	"time"

	"github.com/google/uuid"

	"github.com/mintalist/mintalist-backend/pkg/db/models"
	"github.com/mintalist/mintalist-backend/pkg/enums"
)

// UnknownEmail is stored when the identity token carries no email.
const UnknownEmail = "unknown"

type ContactRequestDTO struct {
	ID          uuid.UUID           `json:"id"`
	VendorID    uuid.UUID           `json:"vendorId"`
	VendorName  string              `json:"vendorName"`
	VendorEmail string              `json:"vendorEmail"`
	VendorPhone *string             `json:"vendorPhone"`
	Source      enums.ContactSource `json:"source"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type VendorVisitDTO struct {
	ID            uuid.UUID   `json:"id"`
	EmployeeName  string      `json:"employeeName"`
	EmployeeEmail *string     `json:"employeeEmail"`
	BusinessName  string      `json:"businessName"`
	ContactName   *string     `json:"contactName"`
	ContactPhone  *string     `json:"contactPhone"`
	ContactEmail  *string     `json:"contactEmail"`
	Address       *string     `json:"address"`
	LocationName  *string     `json:"locationName"`
	AgreedTier    *enums.Tier `json:"agreedTier"`
	Notes         *string     `json:"notes"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// CreateVisitInput captures a field visit logged from the hub.
type CreateVisitInput struct {
	EmployeeName  string
	EmployeeEmail *string
	BusinessName  string
	ContactName   *string
	ContactPhone  *string
	ContactEmail  *string
	Address       *string
	LocationName  *string
	AgreedTier    *enums.Tier
	Notes         *string
}

func RequestFromModel(m *models.ContactRequest) ContactRequestDTO {
	return ContactRequestDTO{
		ID:          m.ID,
		VendorID:    m.VendorID,
		VendorName:  m.VendorName,
		VendorEmail: m.VendorEmail,
		VendorPhone: m.VendorPhone,
		Source:      m.Source,
		CreatedAt:   m.CreatedAt,
	}
}

func VisitFromModel(m *models.VendorVisit) VendorVisitDTO {
	return VendorVisitDTO{
		ID:            m.ID,
		EmployeeName:  m.EmployeeName,
		EmployeeEmail: m.EmployeeEmail,
		BusinessName:  m.BusinessName,
		ContactName:   m.ContactName,
		ContactPhone:  m.ContactPhone,
		ContactEmail:  m.ContactEmail,
		Address:       m.Address,
		LocationName:  m.LocationName,
		AgreedTier:    m.AgreedTier,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}
