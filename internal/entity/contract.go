package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/helpdesk-core/renewals-tracker/constants"
)

// RenewalContract is the central record of the renewal subsystem. Status and
// the four reminder flags are derived state owned by the nightly sweep;
// everything else is extracted or manually entered metadata.
type RenewalContract struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	PONumber    *string    `gorm:"column:po_number" json:"po_number,omitempty"`
	VendorName  string     `json:"vendor_name"`
	Description string     `json:"description"`
	Value       *float64   `json:"value,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `gorm:"index" json:"end_date,omitempty"`

	// Source file reference; empty for manually entered contracts.
	Filename    string `json:"filename,omitempty"`
	StoragePath string `json:"storage_path,omitempty"`
	FileSize    int64  `json:"file_size,omitempty"`
	ContentHash []byte `json:"-"`

	Status constants.ContractStatus `gorm:"index" json:"status"`

	// One-way latches, one per lead-time threshold. Only a manual end-date
	// edit may reset them.
	ReminderD60Sent bool `gorm:"column:reminder_d60_sent" json:"reminder_d60_sent"`
	ReminderD30Sent bool `gorm:"column:reminder_d30_sent" json:"reminder_d30_sent"`
	ReminderD7Sent  bool `gorm:"column:reminder_d7_sent" json:"reminder_d7_sent"`
	ReminderD1Sent  bool `gorm:"column:reminder_d1_sent" json:"reminder_d1_sent"`

	// While acknowledged, the contract is excluded from reminder dispatch;
	// its status still updates nightly.
	IsAcknowledged bool       `json:"is_acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	AcknowledgedBy *uuid.UUID `gorm:"type:uuid" json:"acknowledged_by,omitempty"`

	// Extraction provenance for audit and manual review.
	ExtractionStrategy   string         `json:"extraction_strategy"`
	ExtractionConfidence float32        `json:"extraction_confidence"`
	ExtractedJSON        datatypes.JSON `gorm:"column:extracted_json" json:"extracted_json,omitempty"`

	UploadedBy *uuid.UUID `gorm:"type:uuid" json:"uploaded_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (RenewalContract) TableName() string { return "renewal_contracts" }

func (c *RenewalContract) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ReminderSent reports whether the flag for the given threshold is latched.
func (c *RenewalContract) ReminderSent(threshold int) bool {
	switch threshold {
	case 60:
		return c.ReminderD60Sent
	case 30:
		return c.ReminderD30Sent
	case 7:
		return c.ReminderD7Sent
	case 1:
		return c.ReminderD1Sent
	}
	return false
}
