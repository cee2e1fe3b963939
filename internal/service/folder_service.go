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

type IFolderService interface {
	Create(ctx context.Context, userId, projectId uuid.UUID, req *dto.CreateFolderRequest) (*dto.FolderResponse, error)
	// List returns the project's folders. When noteOnly is set only folders
	// containing at least one note are returned, optionally narrowed by an
	// ambiguous note search.
	List(ctx context.Context, userId, projectId uuid.UUID, noteOnly bool, search string) ([]*dto.FolderResponse, error)
	Show(ctx context.Context, userId, projectId, folderId uuid.UUID) (*dto.FolderResponse, error)
	Update(ctx context.Context, userId, projectId, folderId uuid.UUID, req *dto.UpdateFolderRequest) (*dto.FolderResponse, error)
	Delete(ctx context.Context, userId, projectId, folderId uuid.UUID) error
}

type folderService struct {
	uowFactory       unitofwork.RepositoryFactory
	authorizer       IAuthorizer
	attachments      IAttachmentStore
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewFolderService(
	uowFactory unitofwork.RepositoryFactory,
	authorizer IAuthorizer,
	attachments IAttachmentStore,
	publisherService IPublisherService,
	log logger.ILogger,
) IFolderService {
	return &folderService{
		uowFactory:       uowFactory,
		authorizer:       authorizer,
		attachments:      attachments,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *folderService) Create(ctx context.Context, userId, projectId uuid.UUID, req *dto.CreateFolderRequest) (*dto.FolderResponse, error) {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	folder := entity.Folder{
		Id:          uuid.New(),
		ProjectId:   projectId,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	if err := uow.FolderRepository().Create(ctx, &folder); err != nil {
		return nil, err
	}

	s.notifyMembers(ctx, projectId, events.FolderCreated, map[string]interface{}{
		"project_id": projectId,
		"folder_id":  folder.Id,
		"name":       folder.Name,
	})

	return toFolderResponse(&folder), nil
}

func (s *folderService) List(ctx context.Context, userId, projectId uuid.UUID, noteOnly bool, search string) ([]*dto.FolderResponse, error) {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return nil, err
	}

	specs := []specification.Specification{specification.InProject{ProjectID: projectId}}
	if noteOnly {
		specs = append(specs, specification.HasNotes{Search: search})
	} else {
		specs = append(specs, specification.OrderBy{Field: "folders.id"})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	folders, err := uow.FolderRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.FolderResponse, len(folders))
	for i, folder := range folders {
		res[i] = toFolderResponse(folder)
	}
	return res, nil
}

func (s *folderService) Show(ctx context.Context, userId, projectId, folderId uuid.UUID) (*dto.FolderResponse, error) {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return nil, err
	}

	folder, err := s.findFolder(ctx, projectId, folderId)
	if err != nil {
		return nil, err
	}
	return toFolderResponse(folder), nil
}

func (s *folderService) Update(ctx context.Context, userId, projectId, folderId uuid.UUID, req *dto.UpdateFolderRequest) (*dto.FolderResponse, error) {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return nil, err
	}
	if req.LockVersion == nil {
		return nil, apperror.NewMissingVersion()
	}
	if _, err := s.findFolder(ctx, projectId, folderId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	folder, err := uow.FolderRepository().UpdateVersioned(ctx, folderId, *req.LockVersion, map[string]any{
		"name":        req.Name,
		"description": req.Description,
	})
	if err != nil {
		return nil, err
	}

	s.notifyMembers(ctx, projectId, events.FolderUpdated, map[string]interface{}{
		"project_id": projectId,
		"folder_id":  folder.Id,
		"name":       folder.Name,
	})

	return toFolderResponse(folder), nil
}

func (s *folderService) Delete(ctx context.Context, userId, projectId, folderId uuid.UUID) error {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return err
	}
	if _, err := s.findFolder(ctx, projectId, folderId); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx, specification.InFolder{FolderID: folderId})
	if err != nil {
		return err
	}

	// Notes and tasks fall with the folder via FK cascade.
	if err := uow.FolderRepository().Delete(ctx, folderId); err != nil {
		return err
	}

	for _, note := range notes {
		if err := s.attachments.PurgeAllByOwner(ctx, entity.OwnerNote, note.Id); err != nil {
			s.logger.Warn("FolderService", "Failed to purge note images after folder delete", map[string]interface{}{
				"note_id": note.Id,
				"error":   err.Error(),
			})
		}
	}

	s.notifyMembers(ctx, projectId, events.FolderDeleted, map[string]interface{}{
		"project_id": projectId,
		"folder_id":  folderId,
	})

	return nil
}

// findFolder resolves the folder only when it belongs to the project; a
// mismatched parent link reads as not found so that foreign folder ids leak
// nothing.
func (s *folderService) findFolder(ctx context.Context, projectId, folderId uuid.UUID) (*entity.Folder, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	folder, err := uow.FolderRepository().FindOne(ctx,
		specification.ByID{ID: folderId},
		specification.InProject{ProjectID: projectId},
	)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, apperror.NewNotFound("folder", folderId)
	}
	return folder, nil
}

func (s *folderService) notifyMembers(ctx context.Context, projectId uuid.UUID, eventType string, data map[string]interface{}) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	memberIds, err := uow.MembershipRepository().FindUserIdsByProjectId(ctx, projectId)
	if err != nil {
		s.logger.Warn("FolderService", "Failed to resolve event recipients", map[string]interface{}{
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
		s.logger.Warn("FolderService", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func toFolderResponse(folder *entity.Folder) *dto.FolderResponse {
	return &dto.FolderResponse{
		Id:          folder.Id,
		ProjectId:   folder.ProjectId,
		Name:        folder.Name,
		Description: folder.Description,
		LockVersion: folder.LockVersion,
		CreatedAt:   folder.CreatedAt,
		UpdatedAt:   folder.UpdatedAt,
	}
}
