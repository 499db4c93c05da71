package model

import "time"

// Task is a user's to-do item. Hierarchy is expressed only through ParentID;
// children are found by scanning the owner's tasks.
type Task struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"not null" json:"title"`
	Description   *string    `json:"description"`
	DueDate       *time.Time `json:"due_date"`
	Weight        int        `gorm:"not null;default:1" json:"weight"`
	PriorityScore int        `gorm:"not null;default:0;index" json:"priority_score"`
	OwnerID       uint       `gorm:"not null;index" json:"owner_id"`
	ParentID      *uint      `gorm:"index" json:"parent_id"`
	Version       uint       `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (t Task) IsRoot() bool {
	return t.ParentID == nil
}
