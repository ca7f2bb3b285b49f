package models

import (
	"time"

	"gorm.io/datatypes"
)

// Run is one invocation of the linter over a module root
type Run struct {
	ID     string `gorm:"primaryKey;type:varchar(36)"`
	Root   string `gorm:"type:varchar(1024);not null;index"`
	Module string `gorm:"type:varchar(255)"`
	Fix    bool   `gorm:"default:false"`

	// Configuration the run resolved, including its origin
	Config datatypes.JSON `gorm:"type:json"`

	// Statistics
	Files       int `gorm:"default:0"`
	Diagnostics int `gorm:"default:0"`
	Fixed       int `gorm:"default:0"`
	Suppressed  int `gorm:"default:0"`
	Errors      int `gorm:"default:0"`

	StartedAt  time.Time
	FinishedAt time.Time `gorm:"index"`

	// Relationships
	Findings []Finding `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// Finding is a diagnostic recorded for a run. Path is relative to the run root.
type Finding struct {
	ID    uint   `gorm:"primaryKey"`
	RunID string `gorm:"type:varchar(36);not null;index"`

	Path    string `gorm:"type:varchar(1024);not null"`
	Line    int
	Column  int
	Rule    string `gorm:"type:varchar(20);not null;index"`
	Message string `gorm:"type:text"`

	// path + rule + message, stable across unrelated edits
	Fingerprint string `gorm:"type:varchar(2048);index"`
	Fixed       bool   `gorm:"default:false"`
}

// TableName customizations for cleaner names
func (Run) TableName() string     { return "runs" }
func (Finding) TableName() string { return "findings" }
