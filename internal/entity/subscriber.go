package entity

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// ReportLevel controls the narrative style of a generated report.
type ReportLevel string

const (
	LevelBeginner ReportLevel = "beginner"
	LevelStandard ReportLevel = "standard"
	LevelExpert   ReportLevel = "expert"
)

// ReportFrequency controls how often a subscriber receives reports.
type ReportFrequency string

const (
	FrequencyDaily   ReportFrequency = "daily"
	FrequencyWeekly  ReportFrequency = "weekly"
	FrequencyMonthly ReportFrequency = "monthly"
)

// Subscriber represents a registered report subscriber. Settings are
// managed by the settings API; the report pipeline only reads them.
type Subscriber struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Email              string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	IsActive           bool            `gorm:"default:true" json:"is_active"`
	ReportLevel        ReportLevel     `gorm:"type:varchar(20);not null;default:'standard'" json:"report_level"`
	ReportFrequency    ReportFrequency `gorm:"type:varchar(20);not null;default:'weekly'" json:"report_frequency"`
	SelectedIndicators pq.StringArray  `gorm:"type:text[]" json:"selected_indicators"`
	PushSubscription   datatypes.JSON  `json:"push_subscription"`
	PushEnabled        bool            `gorm:"default:false" json:"push_enabled"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Subscriber model.
func (Subscriber) TableName() string {
	return "subscribers"
}

// pushEndpoint is the stored shape of a subscriber's push subscription.
type pushEndpoint struct {
	ChatID int64 `json:"chat_id"`
}

// PushChatID extracts the Telegram chat ID from the push subscription.
// Returns false when the subscription is absent or malformed.
func (s *Subscriber) PushChatID() (int64, bool) {
	if len(s.PushSubscription) == 0 {
		return 0, false
	}
	var ep pushEndpoint
	if err := json.Unmarshal(s.PushSubscription, &ep); err != nil || ep.ChatID == 0 {
		return 0, false
	}
	return ep.ChatID, true
}
