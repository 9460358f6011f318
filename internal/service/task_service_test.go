package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "tasktracker/internal/errors"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestTaskService(repo *MockTaskRepository) TaskService {
	return &taskService{repo: repo, now: func() time.Time { return fixedNow }}
}

func TestTaskService_List(t *testing.T) {
	owner := &model.User{ID: uuid.New(), IsActive: true}
	admin := &model.User{ID: uuid.New(), IsActive: true, IsSuperuser: true}

	tests := []struct {
		name       string
		caller     *model.User
		skip       int
		limit      int
		wantScope  repository.TaskScope
		wantOffset int
		wantLimit  int
	}{
		{
			name:       "regular user is scoped to own tasks",
			caller:     owner,
			skip:       0,
			limit:      100,
			wantScope:  repository.TaskScope{OwnerID: &owner.ID},
			wantOffset: 0,
			wantLimit:  100,
		},
		{
			name:       "superuser sees everything",
			caller:     admin,
			skip:       5,
			limit:      10,
			wantScope:  repository.TaskScope{},
			wantOffset: 5,
			wantLimit:  10,
		},
		{
			name:       "non-positive limit falls back to default",
			caller:     owner,
			skip:       -3,
			limit:      0,
			wantScope:  repository.TaskScope{OwnerID: &owner.ID},
			wantOffset: 0,
			wantLimit:  DefaultPageLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tasks := []model.Task{{ID: uuid.New(), OwnerID: owner.ID, Title: "t"}}
			mockRepo.On("List", mock.Anything, tt.wantScope, tt.wantOffset, tt.wantLimit).Return(tasks, int64(7), nil)

			page, err := newTestTaskService(mockRepo).List(context.Background(), tt.caller, tt.skip, tt.limit)

			require.NoError(t, err)
			assert.Equal(t, int64(7), page.Count)
			assert.Len(t, page.Data, 1)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_Create(t *testing.T) {
	caller := &model.User{ID: uuid.New(), IsActive: true}
	mockRepo := new(MockTaskRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)

	task, err := newTestTaskService(mockRepo).Create(context.Background(), caller, model.TaskCreate{
		Title:  "Write report",
		Status: model.TaskStatusCompleted,
	})

	require.NoError(t, err)
	assert.Equal(t, caller.ID, task.OwnerID)
	assert.Equal(t, model.TaskStatusCompleted, task.Status)
	require.NotNil(t, task.CompletedDate)
	assert.True(t, fixedNow.Equal(*task.CompletedDate))
	mockRepo.AssertExpectations(t)
}

func TestTaskService_AccessPolicy(t *testing.T) {
	owner := &model.User{ID: uuid.New(), IsActive: true}
	stranger := &model.User{ID: uuid.New(), IsActive: true}
	admin := &model.User{ID: uuid.New(), IsActive: true, IsSuperuser: true}
	taskID := uuid.New()

	stored := func() *model.Task {
		return &model.Task{ID: taskID, OwnerID: owner.ID, Title: "t", Status: model.TaskStatusPending}
	}

	tests := []struct {
		name          string
		caller        *model.User
		found         bool
		expectedError error
	}{
		{name: "owner", caller: owner, found: true},
		{name: "superuser", caller: admin, found: true},
		{name: "stranger", caller: stranger, found: true, expectedError: apperrors.ErrForbidden},
		{name: "missing task for owner", caller: owner, expectedError: apperrors.ErrTaskNotFound},
		{name: "missing task for stranger", caller: stranger, expectedError: apperrors.ErrTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := func() *MockTaskRepository {
				m := new(MockTaskRepository)
				if tt.found {
					m.On("FindByID", mock.Anything, taskID).Return(stored(), nil)
				} else {
					m.On("FindByID", mock.Anything, taskID).Return(nil, apperrors.ErrTaskNotFound)
				}
				return m
			}

			t.Run("get", func(t *testing.T) {
				m := setup()
				task, err := newTestTaskService(m).Get(context.Background(), tt.caller, taskID)
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
					assert.Nil(t, task)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, taskID, task.ID)
			})

			t.Run("update", func(t *testing.T) {
				m := setup()
				if tt.expectedError == nil {
					m.On("Update", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)
				}
				title := "renamed"
				task, err := newTestTaskService(m).Update(context.Background(), tt.caller, taskID, model.TaskPatch{Title: &title})
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
					m.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, "renamed", task.Title)
				assert.Equal(t, owner.ID, task.OwnerID)
			})

			t.Run("delete", func(t *testing.T) {
				m := setup()
				if tt.expectedError == nil {
					m.On("Delete", mock.Anything, taskID).Return(nil)
				}
				err := newTestTaskService(m).Delete(context.Background(), tt.caller, taskID)
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
					m.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
					return
				}
				require.NoError(t, err)
				m.AssertExpectations(t)
			})
		})
	}
}

func TestTaskService_UpdateStatusTransitions(t *testing.T) {
	owner := &model.User{ID: uuid.New(), IsActive: true}
	taskID := uuid.New()
	task := &model.Task{ID: taskID, OwnerID: owner.ID, Title: "t", Status: model.TaskStatusPending}

	mockRepo := new(MockTaskRepository)
	mockRepo.On("FindByID", mock.Anything, taskID).Return(task, nil)
	mockRepo.On("Update", mock.Anything, task).Return(nil)
	service := newTestTaskService(mockRepo)

	completed := model.TaskStatusCompleted
	updated, err := service.Update(context.Background(), owner, taskID, model.TaskPatch{Status: &completed})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedDate)
	assert.True(t, fixedNow.Equal(*updated.CompletedDate))

	pending := model.TaskStatusPending
	updated, err = service.Update(context.Background(), owner, taskID, model.TaskPatch{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusPending, updated.Status)
	assert.Nil(t, updated.CompletedDate)
}

func TestTaskService_NilCaller(t *testing.T) {
	service := newTestTaskService(new(MockTaskRepository))

	_, err := service.List(context.Background(), nil, 0, 10)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = service.Create(context.Background(), nil, model.TaskCreate{Title: "t"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = service.Get(context.Background(), nil, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
