package models

import "time"

// StoreSettings is the singleton configuration row for the storefront.
type StoreSettings struct {
	ID             int       `gorm:"primaryKey"`
	StoreName      string    `gorm:"column:store_name;not null"`
	WhatsAppNumber *string   `gorm:"column:whatsapp_number"`
	LogoURL        *string   `gorm:"column:logo_url"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// StoreSettingsID is the fixed primary key of the singleton row.
const StoreSettingsID = 1
