package tenantconfig

import (
	"encoding/json"
	"time"

	"github.com/MrJamesThe3rd/condobill/internal/apperr"
)

const (
	KeyResendInterval         = "notification_resend_interval_minutes"
	KeyOverdueReminderEnabled = "bill_overdue_reminder_enabled"
	KeyDefaultDueDays         = "bill_default_due_days"
	KeyNotificationChannels   = "bill_notification_channels"
)

var (
	ErrNotFound        = apperr.NotFound("CONFIG_NOT_FOUND", "config not found")
	ErrInvalidDataType = apperr.Validation("INVALID_DATA_TYPE", "data_type must be one of string, number, boolean, json")
	ErrInvalidValue    = apperr.Validation("INVALID_CONFIG_VALUE", "value does not match data_type")
)

// Entry is one config row. CustomerID is empty for global rows.
type Entry struct {
	CustomerID string
	Key        string
	Value      Value
	Metadata   json.RawMessage
	UpdateDate *time.Time
	UpdateBy   *string
}

// Default is a built-in entry seeded by init.
type Default struct {
	Key         string
	Value       Value
	Description string
}

var Defaults = []Default{
	{
		Key:         KeyResendInterval,
		Value:       Value{Kind: TypeNumber, Raw: "30"},
		Description: "minutes between notification resends for one unit charge",
	},
	{
		Key:         KeyOverdueReminderEnabled,
		Value:       Value{Kind: TypeBoolean, Raw: "true"},
		Description: "remind residents of overdue charges",
	},
	{
		Key:         KeyDefaultDueDays,
		Value:       Value{Kind: TypeNumber, Raw: "30"},
		Description: "days from creation to due date offered by default",
	},
	{
		Key:         KeyNotificationChannels,
		Value:       Value{Kind: TypeJSON, Raw: `["app"]`},
		Description: "channels bill notifications are delivered on",
	},
}

func defaultFor(key string) (Default, bool) {
	for _, d := range Defaults {
		if d.Key == key {
			return d, true
		}
	}

	return Default{}, false
}
