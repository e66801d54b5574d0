package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// BusinessSettingID is the primary key of the single settings row.
const BusinessSettingID uint = 1

type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

type BusinessSetting struct {
	ID uint `gorm:"primaryKey;autoIncrement:false" json:"id"`

	CompanyName string `gorm:"size:100;not null" json:"companyName"`
	Email       string `gorm:"size:100" json:"email"`
	Phone       string `gorm:"size:20" json:"phone"`
	Address     string `gorm:"size:255" json:"address"`

	BusinessHours        datatypes.JSONType[map[string]DayHours] `json:"businessHours"`
	NotificationSettings datatypes.JSONMap                       `json:"notificationSettings"`

	Terms    string          `gorm:"type:text" json:"terms"`
	Currency string          `gorm:"size:3;not null" json:"currency"`
	TaxRate  decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"taxRate"`

	UpdatedAt time.Time `json:"updatedAt"`
}

func DefaultBusinessSetting() BusinessSetting {
	weekday := DayHours{Open: "08:00", Close: "17:00"}
	closed := DayHours{Closed: true}

	return BusinessSetting{
		ID:          BusinessSettingID,
		CompanyName: "GardenPro Services",
		BusinessHours: datatypes.NewJSONType(map[string]DayHours{
			"monday":    weekday,
			"tuesday":   weekday,
			"wednesday": weekday,
			"thursday":  weekday,
			"friday":    weekday,
			"saturday":  closed,
			"sunday":    closed,
		}),
		NotificationSettings: datatypes.JSONMap{
			"appointmentConfirmation": true,
			"appointmentReminder":     true,
			"estimateUpdates":         true,
			"paymentReceipts":         true,
		},
		Currency: "USD",
	}
}
