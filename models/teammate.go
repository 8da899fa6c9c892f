package models

import "time"

// Teammate is a directed edge: TeamMemberID added TeammateID to their team.
// The reverse edge is a separate row.
type Teammate struct {
	TeamMemberID uint `gorm:"primaryKey;autoIncrement:false"`
	TeammateID   uint `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt    time.Time
}

func (Teammate) TableName() string {
	return "teammates"
}
