package models

// Currency represents an ISO 4217 currency. The table is seeded by migration;
// rows are looked up by code and referenced by ID everywhere else.
type Currency struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Code   string `gorm:"size:3;uniqueIndex;not null" json:"code"`
	Name   string `gorm:"not null" json:"name"`
	Symbol string `gorm:"size:8" json:"symbol"`
}
