package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tasktracker/internal/auth"
	apperrors "tasktracker/internal/errors"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"
)

// DefaultPageLimit is used when a list request carries no positive limit.
const DefaultPageLimit = 100

// TaskService implements task operations on behalf of an authenticated caller.
type TaskService interface {
	List(ctx context.Context, caller *model.User, skip, limit int) (*model.TaskPage, error)
	Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Task, error)
	Create(ctx context.Context, caller *model.User, in model.TaskCreate) (*model.Task, error)
	Update(ctx context.Context, caller *model.User, id uuid.UUID, patch model.TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, caller *model.User, id uuid.UUID) error
}

type taskService struct {
	repo repository.TaskRepository
	now  func() time.Time
}

// NewTaskService creates a new task service.
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// List returns the caller's tasks, or every task for a superuser.
func (s *taskService) List(ctx context.Context, caller *model.User, skip, limit int) (*model.TaskPage, error) {
	if caller == nil {
		return nil, apperrors.ErrInvalidToken
	}
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	var scope repository.TaskScope
	if !caller.IsSuperuser {
		scope.OwnerID = &caller.ID
	}

	tasks, count, err := s.repo.List(ctx, scope, skip, limit)
	if err != nil {
		return nil, err
	}
	return &model.TaskPage{Data: tasks, Count: count}, nil
}

// Get returns a task. Existence is checked before permission.
func (s *taskService) Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Task, error) {
	return s.load(ctx, s.repo, caller, id)
}

// Create stores a new task owned by the caller.
func (s *taskService) Create(ctx context.Context, caller *model.User, in model.TaskCreate) (*model.Task, error) {
	if caller == nil {
		return nil, apperrors.ErrInvalidToken
	}

	task := ApplyCreate(caller.ID, in, s.now())
	if err := s.repo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update applies a partial update inside one transaction.
func (s *taskService) Update(ctx context.Context, caller *model.User, id uuid.UUID, patch model.TaskPatch) (*model.Task, error) {
	var updated *model.Task
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.TaskRepository) error {
		task, err := s.load(ctx, repo, caller, id)
		if err != nil {
			return err
		}

		ApplyUpdate(task, patch, s.now())
		if err := repo.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a task inside one transaction. A second delete reports ErrTaskNotFound.
func (s *taskService) Delete(ctx context.Context, caller *model.User, id uuid.UUID) error {
	return s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.TaskRepository) error {
		if _, err := s.load(ctx, repo, caller, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

// load fetches a task and applies the access policy.
func (s *taskService) load(ctx context.Context, repo repository.TaskRepository, caller *model.User, id uuid.UUID) (*model.Task, error) {
	if caller == nil {
		return nil, apperrors.ErrInvalidToken
	}

	task, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanAccess(caller, task.OwnerID) {
		return nil, apperrors.ErrForbidden
	}
	return task, nil
}
