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

type IProjectService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.ProjectResponse, error)
	Show(ctx context.Context, userId, projectId uuid.UUID) (*dto.ProjectResponse, error)
	ShowWithAssociation(ctx context.Context, userId, projectId uuid.UUID) (*dto.ProjectWithAssociationResponse, error)
	Update(ctx context.Context, userId, projectId uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	Delete(ctx context.Context, userId, projectId uuid.UUID) error
}

type projectService struct {
	uowFactory       unitofwork.RepositoryFactory
	authorizer       IAuthorizer
	attachments      IAttachmentStore
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewProjectService(
	uowFactory unitofwork.RepositoryFactory,
	authorizer IAuthorizer,
	attachments IAttachmentStore,
	publisherService IPublisherService,
	log logger.ILogger,
) IProjectService {
	return &projectService{
		uowFactory:       uowFactory,
		authorizer:       authorizer,
		attachments:      attachments,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *projectService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// The ownership check and the insert share one transaction so that two
	// concurrent creations cannot both pass the ceiling.
	owned, err := uow.MembershipRepository().ExistsOwned(ctx, userId)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, apperror.NewValidation("user cannot own more than one project")
	}

	project := entity.Project{
		Id:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}

	if err := uow.ProjectRepository().Create(ctx, &project); err != nil {
		return nil, err
	}

	member := entity.ProjectMember{
		Id:        uuid.New(),
		UserId:    userId,
		ProjectId: project.Id,
		IsOwner:   true,
		CreatedAt: time.Now(),
	}
	if err := uow.MembershipRepository().Create(ctx, &member); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.authorizer.Invalidate(userId, project.Id)
	s.publish(ctx, []uuid.UUID{userId}, events.ProjectCreated, map[string]interface{}{
		"project_id": project.Id,
		"name":       project.Name,
	})

	return toProjectResponse(&project), nil
}

func (s *projectService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	projects, err := uow.ProjectRepository().FindAllByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ProjectResponse, len(projects))
	for i, project := range projects {
		res[i] = toProjectResponse(project)
	}
	return res, nil
}

func (s *projectService) Show(ctx context.Context, userId, projectId uuid.UUID) (*dto.ProjectResponse, error) {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	project, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: projectId})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NewNotFound("project", projectId)
	}

	return toProjectResponse(project), nil
}

func (s *projectService) ShowWithAssociation(ctx context.Context, userId, projectId uuid.UUID) (*dto.ProjectWithAssociationResponse, error) {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	project, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: projectId})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NewNotFound("project", projectId)
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFound("user", userId)
	}

	folders, err := uow.FolderRepository().FindAllWithTaskCounts(ctx, projectId)
	if err != nil {
		return nil, err
	}

	folderRes := make([]dto.FolderWithTaskCountResponse, len(folders))
	for i, folder := range folders {
		folderRes[i] = dto.FolderWithTaskCountResponse{
			Id:          folder.Id,
			Name:        folder.Name,
			Description: folder.Description,
			LockVersion: folder.LockVersion,
			TasksCount:  folder.TasksCount,
		}
	}

	return &dto.ProjectWithAssociationResponse{
		Id:   project.Id,
		Name: project.Name,
		User: dto.UserHeader{
			Id:     user.Id,
			Name:   user.Name,
			Avatar: s.avatarURL(ctx, user.Id),
		},
		Folders: folderRes,
	}, nil
}

func (s *projectService) Update(ctx context.Context, userId, projectId uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return nil, err
	}
	if req.LockVersion == nil {
		return nil, apperror.NewMissingVersion()
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	project, err := uow.ProjectRepository().UpdateVersioned(ctx, projectId, *req.LockVersion, map[string]any{
		"name":        req.Name,
		"description": req.Description,
	})
	if err != nil {
		return nil, err
	}

	s.publishToMembers(ctx, projectId, events.ProjectUpdated, map[string]interface{}{
		"project_id": project.Id,
		"name":       project.Name,
	})

	return toProjectResponse(project), nil
}

func (s *projectService) Delete(ctx context.Context, userId, projectId uuid.UUID) error {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	memberIds, err := uow.MembershipRepository().FindUserIdsByProjectId(ctx, projectId)
	if err != nil {
		return err
	}
	notes, err := uow.NoteRepository().FindAll(ctx, specification.InProject{ProjectID: projectId})
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MembershipRepository().DeleteAllByProjectId(ctx, projectId); err != nil {
		return err
	}
	// Folders, notes and tasks go with the project via FK cascade.
	if err := uow.ProjectRepository().Delete(ctx, projectId); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	// Image rows have no FK to their polymorphic owner; clean them up along
	// with the blobs once the delete is durable.
	for _, note := range notes {
		if err := s.attachments.PurgeAllByOwner(ctx, entity.OwnerNote, note.Id); err != nil {
			s.logger.Warn("ProjectService", "Failed to purge note images after project delete", map[string]interface{}{
				"note_id": note.Id,
				"error":   err.Error(),
			})
		}
	}

	for _, memberId := range memberIds {
		s.authorizer.Invalidate(memberId, projectId)
	}
	s.publish(ctx, memberIds, events.ProjectDeleted, map[string]interface{}{
		"project_id": projectId,
	})

	return nil
}

func (s *projectService) avatarURL(ctx context.Context, userId uuid.UUID) string {
	avatars, err := s.attachments.List(ctx, entity.OwnerUser, userId)
	if err != nil || len(avatars) == 0 {
		return ""
	}
	return s.attachments.ResolveURL(avatars[len(avatars)-1])
}

func (s *projectService) publishToMembers(ctx context.Context, projectId uuid.UUID, eventType string, data map[string]interface{}) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	memberIds, err := uow.MembershipRepository().FindUserIdsByProjectId(ctx, projectId)
	if err != nil {
		s.logger.Warn("ProjectService", "Failed to resolve event recipients", map[string]interface{}{
			"project_id": projectId,
			"error":      err.Error(),
		})
		return
	}
	s.publish(ctx, memberIds, eventType, data)
}

func (s *projectService) publish(ctx context.Context, userIds []uuid.UUID, eventType string, data map[string]interface{}) {
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	// Activity delivery is auxiliary; a failed publish never fails the request.
	if err := s.publisherService.Publish(ctx, userIds, evt); err != nil {
		s.logger.Warn("ProjectService", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func toProjectResponse(project *entity.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		Id:          project.Id,
		Name:        project.Name,
		Description: project.Description,
		LockVersion: project.LockVersion,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}
