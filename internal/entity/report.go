package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Report is a generated economic report owned by one subscriber.
// The pipeline creates it exactly once and never mutates it afterwards;
// only the read-state toggle and deletion touch it later.
type Report struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	SubscriberID   uint           `gorm:"not null;index" json:"subscriber_id"`
	Title          string         `gorm:"type:varchar(200);not null" json:"title"`
	Summary        string         `gorm:"type:text;not null" json:"summary"`
	HTMLContent    string         `gorm:"type:text;not null" json:"html_content"`
	Level          ReportLevel    `gorm:"type:varchar(20);not null" json:"level"`
	IndicatorsUsed pq.StringArray `gorm:"type:text[]" json:"indicators_used"`
	RawData        datatypes.JSON `json:"raw_data"`
	IsRead         bool           `gorm:"default:false" json:"is_read"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the Report model.
func (Report) TableName() string {
	return "reports"
}
