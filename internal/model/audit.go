package model

import "time"

const (
	ActionCreateProperty   = "CREATE_PROPERTY"
	ActionUpdateProperty   = "UPDATE_PROPERTY"
	ActionDeleteProperty   = "DELETE_PROPERTY"
	ActionUndeleteProperty = "UNDELETE_PROPERTY"
	ActionCreateRent       = "CREATE_RENT"
	ActionUpdateRent       = "UPDATE_RENT"
	ActionDeleteRent       = "DELETE_RENT"
	ActionUndeleteRent     = "UNDELETE_RENT"
	ActionCreateRate       = "CREATE_RATE"
	ActionUpdateRate       = "UPDATE_RATE"
	ActionDeleteRate       = "DELETE_RATE"
	ActionRecordState      = "RECORD_METER_STATE"
	ActionConfirmState     = "CONFIRM_METER_STATE"
	ActionGenerateInvoice  = "GENERATE_INVOICE"
	ActionDistributeInvoice = "DISTRIBUTE_INVOICE"
	ActionDeleteTenant     = "DELETE_TENANT"
	ActionUndeleteTenant   = "UNDELETE_TENANT"
	ActionDeleteLandlord   = "DELETE_LANDLORD"
	ActionUndeleteLandlord = "UNDELETE_LANDLORD"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     *uint     `gorm:"index" json:"user_id"` // Nullable gracefully if automated job
	User       *User     `gorm:"foreignKey:UserID" json:"user"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string    `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string    `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string    `gorm:"type:jsonb" json:"details"` // Serialized JSON payload of the action
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
