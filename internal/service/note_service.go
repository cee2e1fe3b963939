package service

import (
	"context"
	"strings"
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

const notesPerPage = 25

type INoteService interface {
	Create(ctx context.Context, userId, projectId, folderId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	ListByFolder(ctx context.Context, userId, projectId, folderId uuid.UUID, q *dto.ListNotesQuery) ([]*dto.NoteResponse, error)
	// ListByFolderWithAssociation returns the folder header together with its
	// notes, used for the initial folder render.
	ListByFolderWithAssociation(ctx context.Context, userId, projectId, folderId uuid.UUID, q *dto.ListNotesQuery) (*dto.FolderWithNotesResponse, error)
	// ListAll returns every note of the project regardless of folder,
	// newest first.
	ListAll(ctx context.Context, userId, projectId uuid.UUID, q *dto.ListNotesQuery) ([]*dto.NoteResponse, error)
	Show(ctx context.Context, userId, projectId, folderId, noteId uuid.UUID) (*dto.NoteResponse, error)
	Update(ctx context.Context, userId, projectId, folderId, noteId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, userId, projectId, folderId, noteId uuid.UUID) error
	// AttachImage stores one image owned by the note and bumps the note's
	// version in the same transaction.
	AttachImage(ctx context.Context, userId, projectId, noteId uuid.UUID, req *dto.AttachImageRequest) (*dto.AttachImageResponse, error)
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	authorizer       IAuthorizer
	attachments      IAttachmentStore
	reconciler       IImageReconciler
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	authorizer IAuthorizer,
	attachments IAttachmentStore,
	reconciler IImageReconciler,
	publisherService IPublisherService,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		authorizer:       authorizer,
		attachments:      attachments,
		reconciler:       reconciler,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *noteService) Create(ctx context.Context, userId, projectId, folderId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return nil, err
	}
	if err := s.requireFolder(ctx, projectId, folderId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	note := entity.Note{
		Id:        uuid.New(),
		ProjectId: projectId,
		FolderId:  folderId,
		Title:     req.Title,
		Text:      req.Text,
		HtmlText:  req.HtmlText,
		CreatedAt: time.Now(),
	}
	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	s.notifyMembers(ctx, projectId, events.NoteCreated, map[string]interface{}{
		"project_id": projectId,
		"folder_id":  folderId,
		"note_id":    note.Id,
		"title":      note.Title,
	})

	return toNoteResponse(&note), nil
}

func (s *noteService) ListByFolder(ctx context.Context, userId, projectId, folderId uuid.UUID, q *dto.ListNotesQuery) ([]*dto.NoteResponse, error) {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return nil, err
	}
	if err := s.requireFolder(ctx, projectId, folderId); err != nil {
		return nil, err
	}

	notes, err := s.findFolderNotes(ctx, folderId, q)
	if err != nil {
		return nil, err
	}
	return toNoteResponses(notes), nil
}

func (s *noteService) ListByFolderWithAssociation(ctx context.Context, userId, projectId, folderId uuid.UUID, q *dto.ListNotesQuery) (*dto.FolderWithNotesResponse, error) {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return nil, err
	}

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

	notes, err := s.findFolderNotes(ctx, folderId, q)
	if err != nil {
		return nil, err
	}

	headers := make([]dto.NoteHeaderResponse, len(notes))
	for i, note := range notes {
		headers[i] = dto.NoteHeaderResponse{
			Id:          note.Id,
			FolderId:    note.FolderId,
			Title:       note.Title,
			Text:        note.Text,
			LockVersion: note.LockVersion,
			CreatedAt:   note.CreatedAt,
			UpdatedAt:   note.UpdatedAt,
		}
	}

	return &dto.FolderWithNotesResponse{
		Id:          folder.Id,
		Name:        folder.Name,
		Description: folder.Description,
		LockVersion: folder.LockVersion,
		Notes:       headers,
	}, nil
}

func (s *noteService) ListAll(ctx context.Context, userId, projectId uuid.UUID, q *dto.ListNotesQuery) ([]*dto.NoteResponse, error) {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return nil, err
	}

	specs := []specification.Specification{
		specification.InProject{ProjectID: projectId},
		specification.WithTask{},
	}
	if q.Search != "" {
		specs = append(specs, specification.NoteAmbiguousText{Text: q.Search})
	}
	specs = append(specs,
		specification.OrderBy{Field: "notes.created_at", Desc: true},
		pagination(q.Page),
	)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return toNoteResponses(notes), nil
}

func (s *noteService) Show(ctx context.Context, userId, projectId, folderId, noteId uuid.UUID) (*dto.NoteResponse, error) {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return nil, err
	}

	note, err := s.findNote(ctx, projectId, noteId, specification.WithTask{})
	if err != nil {
		return nil, err
	}
	// The note exists but hangs off another folder: report the folder as
	// missing rather than confirming the note id.
	if note.FolderId != folderId {
		return nil, apperror.NewNotFound("folder", folderId)
	}

	return toNoteResponse(note), nil
}

func (s *noteService) Update(ctx context.Context, userId, projectId, folderId, noteId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return nil, err
	}
	if req.LockVersion == nil {
		return nil, apperror.NewMissingVersion()
	}

	note, err := s.findNote(ctx, projectId, noteId)
	if err != nil {
		return nil, err
	}
	if note.FolderId != folderId {
		return nil, apperror.NewNotFound("folder", folderId)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	updated, err := uow.NoteRepository().UpdateVersioned(ctx, noteId, *req.LockVersion, map[string]any{
		"title":    req.Title,
		"text":     req.Text,
		"htmltext": req.HtmlText,
	})
	if err != nil {
		return nil, err
	}

	// The body changed, so some attached images may have lost their last
	// reference.
	if note.HtmlText != updated.HtmlText {
		if err := s.reconciler.Reconcile(ctx, noteId, updated.HtmlText); err != nil {
			s.logger.Warn("NoteService", "Image reconciliation failed", map[string]interface{}{
				"note_id": noteId,
				"error":   err.Error(),
			})
		}
	}

	s.notifyMembers(ctx, projectId, events.NoteUpdated, map[string]interface{}{
		"project_id": projectId,
		"folder_id":  folderId,
		"note_id":    noteId,
		"title":      updated.Title,
	})

	return toNoteResponse(updated), nil
}

func (s *noteService) Delete(ctx context.Context, userId, projectId, folderId, noteId uuid.UUID) error {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return err
	}

	note, err := s.findNote(ctx, projectId, noteId)
	if err != nil {
		return err
	}
	if note.FolderId != folderId {
		return apperror.NewNotFound("folder", folderId)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().Delete(ctx, noteId); err != nil {
		return err
	}

	if err := s.attachments.PurgeAllByOwner(ctx, entity.OwnerNote, noteId); err != nil {
		s.logger.Warn("NoteService", "Failed to purge images after note delete", map[string]interface{}{
			"note_id": noteId,
			"error":   err.Error(),
		})
	}

	s.notifyMembers(ctx, projectId, events.NoteDeleted, map[string]interface{}{
		"project_id": projectId,
		"folder_id":  folderId,
		"note_id":    noteId,
	})

	return nil
}

func (s *noteService) AttachImage(ctx context.Context, userId, projectId, noteId uuid.UUID, req *dto.AttachImageRequest) (*dto.AttachImageResponse, error) {
	if err := s.authorizer.AuthorizeProject(ctx, userId, projectId); err != nil {
		return nil, err
	}
	if req.LockVersion == nil {
		return nil, apperror.NewMissingVersion()
	}
	if _, err := s.findNote(ctx, projectId, noteId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// Bumping the version first makes the attach race-free: a stale client
	// fails here before any blob is written.
	updated, err := uow.NoteRepository().UpdateVersioned(ctx, noteId, *req.LockVersion, map[string]any{})
	if err != nil {
		return nil, err
	}

	image, err := s.attachments.Attach(ctx, uow, entity.OwnerNote, noteId, req.Image)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.notifyMembers(ctx, projectId, events.ImageAttached, map[string]interface{}{
		"project_id": projectId,
		"note_id":    noteId,
		"image_id":   image.Id,
	})

	return &dto.AttachImageResponse{
		Id:          noteId,
		ImageURL:    s.attachments.ResolveURL(image),
		LockVersion: updated.LockVersion,
	}, nil
}

func (s *noteService) findFolderNotes(ctx context.Context, folderId uuid.UUID, q *dto.ListNotesQuery) ([]*entity.Note, error) {
	specs := []specification.Specification{
		specification.InFolder{FolderID: folderId},
		specification.WithTask{},
	}
	if q.Search != "" {
		specs = append(specs, specification.NoteAmbiguousText{Text: q.Search})
	}
	specs = append(specs, noteOrder(q.Sort), pagination(q.Page))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NoteRepository().FindAll(ctx, specs...)
}

func (s *noteService) findNote(ctx context.Context, projectId, noteId uuid.UUID, extra ...specification.Specification) (*entity.Note, error) {
	specs := append([]specification.Specification{
		specification.ByID{ID: noteId},
		specification.InProject{ProjectID: projectId},
	}, extra...)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.NewNotFound("note", noteId)
	}
	return note, nil
}

func (s *noteService) requireFolder(ctx context.Context, projectId, folderId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	folder, err := uow.FolderRepository().FindOne(ctx,
		specification.ByID{ID: folderId},
		specification.InProject{ProjectID: projectId},
	)
	if err != nil {
		return err
	}
	if folder == nil {
		return apperror.NewNotFound("folder", folderId)
	}
	return nil
}

func (s *noteService) notifyMembers(ctx context.Context, projectId uuid.UUID, eventType string, data map[string]interface{}) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	memberIds, err := uow.MembershipRepository().FindUserIdsByProjectId(ctx, projectId)
	if err != nil {
		s.logger.Warn("NoteService", "Failed to resolve event recipients", map[string]interface{}{
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
		s.logger.Warn("NoteService", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

// noteOrder parses "column:asc|desc". Unknown columns fall back to id order;
// a missing or bad direction means ascending.
func noteOrder(sort string) specification.Specification {
	if sort == "" {
		return specification.OrderBy{Field: "notes.id"}
	}

	column, direction, _ := strings.Cut(sort, ":")
	if !specification.NoteSortColumns[column] {
		return specification.OrderBy{Field: "notes.id"}
	}
	return specification.NoteOrder{Column: column, Direction: direction}
}

func pagination(page int) specification.Specification {
	if page < 1 {
		page = 1
	}
	return specification.Pagination{
		Limit:  notesPerPage,
		Offset: (page - 1) * notesPerPage,
	}
}

func toNoteResponse(note *entity.Note) *dto.NoteResponse {
	res := &dto.NoteResponse{
		Id:          note.Id,
		ProjectId:   note.ProjectId,
		FolderId:    note.FolderId,
		Title:       note.Title,
		Text:        note.Text,
		HtmlText:    note.HtmlText,
		LockVersion: note.LockVersion,
		CreatedAt:   note.CreatedAt,
		UpdatedAt:   note.UpdatedAt,
	}
	if note.Task != nil {
		res.Task = &dto.TaskHeaderResponse{
			Id:          note.Task.Id,
			DateTo:      note.Task.DateTo,
			Completed:   note.Task.Completed,
			LockVersion: note.Task.LockVersion,
		}
	}
	return res
}

func toNoteResponses(notes []*entity.Note) []*dto.NoteResponse {
	res := make([]*dto.NoteResponse, len(notes))
	for i, note := range notes {
		res[i] = toNoteResponse(note)
	}
	return res
}
