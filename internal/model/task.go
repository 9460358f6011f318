package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

// ParseTaskStatus converts a raw string into a TaskStatus.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown task status %q", raw)
	}
	return s, nil
}

// UnmarshalJSON rejects statuses outside the known set. null is a no-op.
func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTaskStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Task is a unit of work owned by a single user.
type Task struct {
	ID            uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	OwnerID       uuid.UUID  `json:"owner_id" gorm:"type:char(36);not null;index"`
	Title         string     `json:"title" gorm:"size:255;not null"`
	Description   *string    `json:"description" gorm:"size:255"`
	Status        TaskStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedDate *time.Time `json:"completed_date"`

	// Relations
	Owner *User `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TaskCreate carries the client-supplied fields of a new task.
// The owner is never part of it.
type TaskCreate struct {
	Title         string
	Description   *string
	Status        TaskStatus
	CompletedDate *time.Time
}

// TaskPatch is a partial update. For Title and Status a nil pointer means the
// field was not supplied. The nullable fields carry a Set flag so that an
// explicit null can be told apart from an absent field.
type TaskPatch struct {
	Title            *string
	Description      *string
	DescriptionSet   bool
	Status           *TaskStatus
	CompletedDate    *time.Time
	CompletedDateSet bool
}

// TaskPage is one page of tasks plus the total number of tasks in scope.
type TaskPage struct {
	Data  []Task `json:"data"`
	Count int64  `json:"count"`
}
