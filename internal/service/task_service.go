package service

import (
	"context"
	"time"

	"github.com/momonga11/notenext-server/internal/apperror"
	"github.com/momonga11/notenext-server/internal/dto"
	"github.com/momonga11/notenext-server/internal/entity"
	"github.com/momonga11/notenext-server/internal/pkg/logger"
	"github.com/momonga11/notenext-server/internal/repository/specification"
	"github.com/momonga11/notenext-server/internal/repository/unitofwork"
	"github.com/momonga11/notenext-server/pkg/events"

	"github.com/google/uuid"
)

type ITaskService interface {
	// Create attaches the note's single task. A second task on the same note
	// is a validation failure.
	Create(ctx context.Context, userId, projectId, noteId uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	Update(ctx context.Context, userId, projectId, noteId, taskId uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	Delete(ctx context.Context, userId, projectId, noteId, taskId uuid.UUID) error
}

type taskService struct {
	uowFactory       unitofwork.RepositoryFactory
	authorizer       IAuthorizer
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewTaskService(
	uowFactory unitofwork.RepositoryFactory,
	authorizer IAuthorizer,
	publisherService IPublisherService,
	log logger.ILogger,
) ITaskService {
	return &taskService{
		uowFactory:       uowFactory,
		authorizer:       authorizer,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *taskService) Create(ctx context.Context, userId, projectId, noteId uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return nil, err
	}
	if err := s.requireNote(ctx, projectId, noteId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// The uniqueness check and the insert share the transaction; the unique
	// index on note_id backstops a lost race.
	exists, err := uow.TaskRepository().ExistsByNoteId(ctx, noteId)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewValidation("note already has a task")
	}

	task := entity.Task{
		Id:        uuid.New(),
		ProjectId: projectId,
		NoteId:    noteId,
		DateTo:    req.DateTo,
		Completed: req.Completed,
		CreatedAt: time.Now(),
	}
	if err := uow.TaskRepository().Create(ctx, &task); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.notifyMembers(ctx, projectId, events.TaskCreated, map[string]interface{}{
		"project_id": projectId,
		"note_id":    noteId,
		"task_id":    task.Id,
	})

	return toTaskResponse(&task), nil
}

func (s *taskService) Update(ctx context.Context, userId, projectId, noteId, taskId uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return nil, err
	}
	if req.LockVersion == nil {
		return nil, apperror.NewMissingVersion()
	}
	if err := s.requireNote(ctx, projectId, noteId); err != nil {
		return nil, err
	}
	if _, err := s.findTask(ctx, projectId, noteId, taskId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	task, err := uow.TaskRepository().UpdateVersioned(ctx, taskId, *req.LockVersion, map[string]any{
		"date_to":   req.DateTo,
		"completed": req.Completed,
	})
	if err != nil {
		return nil, err
	}

	s.notifyMembers(ctx, projectId, events.TaskUpdated, map[string]interface{}{
		"project_id": projectId,
		"note_id":    noteId,
		"task_id":    taskId,
	})

	return toTaskResponse(task), nil
}

func (s *taskService) Delete(ctx context.Context, userId, projectId, noteId, taskId uuid.UUID) error {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return err
	}
	if err := s.requireNote(ctx, projectId, noteId); err != nil {
		return err
	}
	if _, err := s.findTask(ctx, projectId, noteId, taskId); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.TaskRepository().Delete(ctx, taskId); err != nil {
		return err
	}

	s.notifyMembers(ctx, projectId, events.TaskDeleted, map[string]interface{}{
		"project_id": projectId,
		"note_id":    noteId,
		"task_id":    taskId,
	})

	return nil
}

func (s *taskService) requireNote(ctx context.Context, projectId, noteId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.InProject{ProjectID: projectId},
	)
	if err != nil {
		return err
	}
	if note == nil {
		return apperror.NewNotFound("note", noteId)
	}
	return nil
}

func (s *taskService) findTask(ctx context.Context, projectId, noteId, taskId uuid.UUID) (*entity.Task, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	task, err := uow.TaskRepository().FindOne(ctx,
		specification.ByID{ID: taskId},
		specification.InProject{ProjectID: projectId},
	)
	if err != nil {
		return nil, err
	}
	if task == nil || task.NoteId != noteId {
		return nil, apperror.NewNotFound("task", taskId)
	}
	return task, nil
}

func (s *taskService) notifyMembers(ctx context.Context, projectId uuid.UUID, eventType string, data map[string]interface{}) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	memberIds, err := uow.MembershipRepository().FindUserIdsByProjectId(ctx, projectId)
	if err != nil {
		s.logger.Warn("TaskService", "Failed to resolve event recipients", map[string]interface{}{
			"project_id": projectId,
			"error":      err.Error(),
		})
		return
	}

	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.publisherService.Publish(ctx, memberIds, evt); err != nil {
		s.logger.Warn("TaskService", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func toTaskResponse(task *entity.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		Id:          task.Id,
		ProjectId:   task.ProjectId,
		NoteId:      task.NoteId,
		DateTo:      task.DateTo,
		Completed:   task.Completed,
		LockVersion: task.LockVersion,
	}
}
