package models

import (
	"time"

	"gorm.io/datatypes"
)

// Strategy is a user-defined trading playbook: instrument, timeframe and
// session sets, plus the checklists a trade is logged against.
type Strategy struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	Name       string `gorm:"type:varchar(100);not null;index"`
	Instrument string `gorm:"type:varchar(30);not null"`

	Timeframes datatypes.JSON `gorm:"type:jsonb;not null"`
	Sessions   datatypes.JSON `gorm:"type:jsonb;not null"`

	ChartImageURL string `gorm:"type:text"`

	EntryCriteria []EntryCriterion `gorm:"foreignKey:StrategyID;constraint:OnDelete:CASCADE"`
	ExitCriteria  []ExitCriterion  `gorm:"foreignKey:StrategyID;constraint:OnDelete:CASCADE"`
	Invalidations []Invalidation   `gorm:"foreignKey:StrategyID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Strategy) TableName() string {
	return "strategies"
}

type EntryCriterion struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	StrategyID  uint64 `gorm:"not null;index"`
	Label       string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	SortOrder   int    `gorm:"not null;default:0"`
}

func (EntryCriterion) TableName() string {
	return "entry_criteria"
}

type ExitCriterion struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	StrategyID  uint64 `gorm:"not null;index"`
	Label       string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	SortOrder   int    `gorm:"not null;default:0"`
}

func (ExitCriterion) TableName() string {
	return "exit_criteria"
}

// Invalidation is a labeled condition that compromises a setup. Code is a
// sequential letter (A, B, C, ...) reassigned on every strategy save.
type Invalidation struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	StrategyID uint64 `gorm:"not null;index"`
	Label      string `gorm:"type:varchar(200);not null"`
	Reason     string `gorm:"type:text"`
	Code       string `gorm:"type:varchar(2);not null"`
}

func (Invalidation) TableName() string {
	return "invalidations"
}
