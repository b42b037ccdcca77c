package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is a single journal entry against a strategy. Rows are immutable
// once written: there is no edit or delete path for trades.
//
// Price fields and RiskPercent are set only when the trade was taken.
// RMultiple is nil exactly when the trade was missed or entry == stop.
type Trade struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	StrategyID uint64 `gorm:"not null;index"`

	Taken        bool   `gorm:"not null;index"`
	MissedReason string `gorm:"type:text"`

	Direction string `gorm:"type:varchar(10);not null"`
	Session   string `gorm:"type:varchar(20);not null"`
	Bias      string `gorm:"type:varchar(10)"`

	TradeTimestamp time.Time `gorm:"type:timestamptz;not null;index"`

	EntryPrice    *decimal.Decimal `gorm:"type:numeric(20,8)"`
	StopLossPrice *decimal.Decimal `gorm:"type:numeric(20,8)"`
	ExitPrice     *decimal.Decimal `gorm:"type:numeric(20,8)"`
	RiskPercent   *decimal.Decimal `gorm:"type:numeric(10,4)"`
	RMultiple     *decimal.Decimal `gorm:"type:numeric(12,2)"`

	Reason         string `gorm:"type:text"`
	EmotionalNotes string `gorm:"type:text"`

	ChecklistLogs    []TradeChecklistLog    `gorm:"foreignKey:TradeID;constraint:OnDelete:CASCADE"`
	InvalidationLogs []TradeInvalidationLog `gorm:"foreignKey:TradeID;constraint:OnDelete:CASCADE"`
	Screenshots      []TradeScreenshot      `gorm:"foreignKey:TradeID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (Trade) TableName() string {
	return "trades"
}

// TradeChecklistLog records which entry/exit criteria were checked when the
// trade was logged. ChecklistType is "entry" or "exit".
type TradeChecklistLog struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	TradeID       uint64 `gorm:"not null;index"`
	ChecklistType string `gorm:"type:varchar(10);not null"`
	CriterionID   uint64 `gorm:"not null"`
	Checked       bool   `gorm:"not null;default:true"`
}

func (TradeChecklistLog) TableName() string {
	return "trade_checklist_logs"
}

type TradeInvalidationLog struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement"`
	TradeID        uint64 `gorm:"not null;index"`
	InvalidationID uint64 `gorm:"not null"`
	Active         bool   `gorm:"not null;default:true"`
}

func (TradeInvalidationLog) TableName() string {
	return "trade_invalidation_logs"
}

type TradeScreenshot struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	TradeID   uint64    `gorm:"not null;index"`
	ImagePath string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (TradeScreenshot) TableName() string {
	return "trade_screenshots"
}
