package service

import (
	"time"

	"github.com/google/uuid"

	"tasktracker/internal/model"
)

// ApplyCreate builds the record for a new task owned by ownerID.
// A task created as completed without an explicit completed_date is stamped with now.
func ApplyCreate(ownerID uuid.UUID, in model.TaskCreate, now time.Time) model.Task {
	status := in.Status
	if status == "" {
		status = model.TaskStatusPending
	}

	task := model.Task{
		OwnerID:       ownerID,
		Title:         in.Title,
		Description:   in.Description,
		Status:        status,
		CompletedDate: in.CompletedDate,
	}
	if task.Status == model.TaskStatusCompleted && task.CompletedDate == nil {
		task.CompletedDate = timePtr(now)
	}
	return task
}

// ApplyUpdate merges the supplied fields of patch onto task, then derives
// completed_date from the status transition. Without a status in the patch
// completed_date keeps whatever the merge left.
func ApplyUpdate(task *model.Task, patch model.TaskPatch, now time.Time) {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.DescriptionSet {
		task.Description = patch.Description
	}
	if patch.CompletedDateSet {
		task.CompletedDate = patch.CompletedDate
	}
	if patch.Status == nil {
		return
	}

	task.Status = *patch.Status
	switch task.Status {
	case model.TaskStatusCompleted:
		if task.CompletedDate == nil {
			task.CompletedDate = timePtr(now)
		}
	case model.TaskStatusPending:
		task.CompletedDate = nil
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
