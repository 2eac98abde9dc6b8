package models

import (
	"time"
)

// CampaignSetting holds the countdown deadline shown on the public site.
// Only the most recently created row is meaningful.
type CampaignSetting struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DeadlineDate time.Time `gorm:"not null" json:"deadlineDate"`
	CreatedAt    time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (CampaignSetting) TableName() string { return "campaign_settings" }
