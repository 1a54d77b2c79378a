package constants

// ContractStatus is the derived lifecycle status for rows in renewal_contracts.
type ContractStatus string

// Stable values (store these exact strings in DB).
const (
	StatusDraft        ContractStatus = "DRAFT"         // no end date yet; never selected for reminders
	StatusActive       ContractStatus = "ACTIVE"        // more than 30 days until expiry
	StatusExpiringSoon ContractStatus = "EXPIRING_SOON" // 0..30 days until expiry
	StatusExpired      ContractStatus = "EXPIRED"       // end date is in the past
)

// Strategy names recorded as extraction provenance.
const (
	StrategyNone   = "NONE"   // no strategy claimed the text; confidence 0
	StrategyManual = "MANUAL" // manually entered metadata; confidence 1.0
)
