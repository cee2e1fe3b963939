package service

import (
	"context"
	"fmt"

	"github.com/momonga11/notenext-server/internal/apperror"
	"github.com/momonga11/notenext-server/internal/dto"
	"github.com/momonga11/notenext-server/internal/entity"
	"github.com/momonga11/notenext-server/internal/repository/contract"
	"github.com/momonga11/notenext-server/internal/repository/specification"
	"github.com/momonga11/notenext-server/internal/repository/unitofwork"
	"github.com/momonga11/notenext-server/pkg/events"

	"github.com/google/uuid"
)

// The fakes below back the service tests with in-memory state. Versioned
// updates implement the same compare-and-set contract as the SQL
// implementations: a mismatched claimed version yields a conflict, a match
// applies the changes and stores claimed+1.

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakePublisher struct {
	published []publishedEvent
}

type publishedEvent struct {
	UserIds []uuid.UUID
	Type    string
}

func (p *fakePublisher) Publish(_ context.Context, userIds []uuid.UUID, event events.Event) error {
	p.published = append(p.published, publishedEvent{UserIds: userIds, Type: event.EventType()})
	return nil
}

type allowAuthorizer struct {
	invalidated []string
}

func (a *allowAuthorizer) AuthorizeProject(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (a *allowAuthorizer) Invalidate(userId, projectId uuid.UUID) {
	a.invalidated = append(a.invalidated, membershipKey(userId, projectId))
}

type denyAuthorizer struct{}

func (denyAuthorizer) AuthorizeProject(context.Context, uuid.UUID, uuid.UUID) error {
	return apperror.NewForbidden()
}
func (denyAuthorizer) Invalidate(uuid.UUID, uuid.UUID) {}

// fakeUnitOfWork exposes one shared set of repositories; the factory hands the
// same instance to every caller so tests can seed and inspect state.
type fakeUnitOfWork struct {
	users       *fakeUserRepo
	projects    *fakeProjectRepo
	memberships *fakeMembershipRepo
	folders     *fakeFolderRepo
	notes       *fakeNoteRepo
	tasks       *fakeTaskRepo
	images      *fakeImageRepo

	begun      int
	committed  int
	rolledBack int
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		users:       &fakeUserRepo{byId: map[uuid.UUID]*entity.User{}},
		projects:    &fakeProjectRepo{byId: map[uuid.UUID]*entity.Project{}},
		memberships: &fakeMembershipRepo{},
		folders:     &fakeFolderRepo{byId: map[uuid.UUID]*entity.Folder{}},
		notes:       &fakeNoteRepo{byId: map[uuid.UUID]*entity.Note{}},
		tasks:       &fakeTaskRepo{byId: map[uuid.UUID]*entity.Task{}},
		images:      &fakeImageRepo{},
	}
}

func (u *fakeUnitOfWork) Begin(context.Context) error { u.begun++; return nil }
func (u *fakeUnitOfWork) Commit() error               { u.committed++; return nil }
func (u *fakeUnitOfWork) Rollback() error             { u.rolledBack++; return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository             { return u.users }
func (u *fakeUnitOfWork) ProjectRepository() contract.ProjectRepository       { return u.projects }
func (u *fakeUnitOfWork) MembershipRepository() contract.MembershipRepository { return u.memberships }
func (u *fakeUnitOfWork) FolderRepository() contract.FolderRepository         { return u.folders }
func (u *fakeUnitOfWork) NoteRepository() contract.NoteRepository             { return u.notes }
func (u *fakeUnitOfWork) TaskRepository() contract.TaskRepository             { return u.tasks }
func (u *fakeUnitOfWork) ImageRepository() contract.ImageRepository           { return u.images }

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

func newFakeFactory() (*fakeFactory, *fakeUnitOfWork) {
	uow := newFakeUnitOfWork()
	return &fakeFactory{uow: uow}, uow
}

// matches applies the filtering specifications a fake can interpret; ordering
// and pagination specs are ignored.
func matchesNote(note *entity.Note, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if note.Id != s.ID {
				return false
			}
		case specification.InProject:
			if note.ProjectId != s.ProjectID {
				return false
			}
		case specification.InFolder:
			if note.FolderId != s.FolderID {
				return false
			}
		}
	}
	return true
}

type fakeUserRepo struct {
	byId map[uuid.UUID]*entity.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.byId[user.Id] = user
	return nil
}

func (r *fakeUserRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByID); ok {
			return r.byId[s.ID], nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.byId {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.byId[user.Id] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byId, id)
	return nil
}

type fakeProjectRepo struct {
	byId map[uuid.UUID]*entity.Project
}

func (r *fakeProjectRepo) Create(_ context.Context, project *entity.Project) error {
	r.byId[project.Id] = project
	return nil
}

func (r *fakeProjectRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Project, error) {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByID); ok {
			return r.byId[s.ID], nil
		}
	}
	return nil, nil
}

func (r *fakeProjectRepo) FindAllByUserId(context.Context, uuid.UUID) ([]*entity.Project, error) {
	projects := make([]*entity.Project, 0, len(r.byId))
	for _, project := range r.byId {
		projects = append(projects, project)
	}
	return projects, nil
}

func (r *fakeProjectRepo) UpdateVersioned(_ context.Context, id uuid.UUID, claimedVersion int, changes map[string]any) (*entity.Project, error) {
	project, ok := r.byId[id]
	if !ok || project.LockVersion != claimedVersion {
		return nil, apperror.NewConflict("project")
	}
	if name, ok := changes["name"].(string); ok {
		project.Name = name
	}
	if description, ok := changes["description"].(string); ok {
		project.Description = description
	}
	project.LockVersion = claimedVersion + 1
	return project, nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byId, id)
	return nil
}

type fakeMembershipRepo struct {
	members     []*entity.ProjectMember
	existsCalls int
}

func (r *fakeMembershipRepo) Create(_ context.Context, member *entity.ProjectMember) error {
	r.members = append(r.members, member)
	return nil
}

func (r *fakeMembershipRepo) Exists(_ context.Context, userId, projectId uuid.UUID) (bool, error) {
	r.existsCalls++
	for _, m := range r.members {
		if m.UserId == userId && m.ProjectId == projectId {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMembershipRepo) ExistsOwned(_ context.Context, userId uuid.UUID) (bool, error) {
	for _, m := range r.members {
		if m.UserId == userId && m.IsOwner {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMembershipRepo) FindUserIdsByProjectId(_ context.Context, projectId uuid.UUID) ([]uuid.UUID, error) {
	var userIds []uuid.UUID
	for _, m := range r.members {
		if m.ProjectId == projectId {
			userIds = append(userIds, m.UserId)
		}
	}
	return userIds, nil
}

func (r *fakeMembershipRepo) DeleteAllByProjectId(_ context.Context, projectId uuid.UUID) error {
	kept := r.members[:0]
	for _, m := range r.members {
		if m.ProjectId != projectId {
			kept = append(kept, m)
		}
	}
	r.members = kept
	return nil
}

type fakeFolderRepo struct {
	byId map[uuid.UUID]*entity.Folder
}

func (r *fakeFolderRepo) Create(_ context.Context, folder *entity.Folder) error {
	r.byId[folder.Id] = folder
	return nil
}

func (r *fakeFolderRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Folder, error) {
	var folder *entity.Folder
	for _, spec := range specs {
		if s, ok := spec.(specification.ByID); ok {
			folder = r.byId[s.ID]
		}
	}
	if folder == nil {
		return nil, nil
	}
	for _, spec := range specs {
		if s, ok := spec.(specification.InProject); ok && folder.ProjectId != s.ProjectID {
			return nil, nil
		}
	}
	return folder, nil
}

func (r *fakeFolderRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.Folder, error) {
	folders := make([]*entity.Folder, 0, len(r.byId))
	for _, folder := range r.byId {
		folders = append(folders, folder)
	}
	return folders, nil
}

func (r *fakeFolderRepo) FindAllWithTaskCounts(context.Context, uuid.UUID) ([]*entity.FolderWithTaskCount, error) {
	return nil, nil
}

func (r *fakeFolderRepo) UpdateVersioned(_ context.Context, id uuid.UUID, claimedVersion int, changes map[string]any) (*entity.Folder, error) {
	folder, ok := r.byId[id]
	if !ok || folder.LockVersion != claimedVersion {
		return nil, apperror.NewConflict("folder")
	}
	if name, ok := changes["name"].(string); ok {
		folder.Name = name
	}
	if description, ok := changes["description"].(string); ok {
		folder.Description = description
	}
	folder.LockVersion = claimedVersion + 1
	return folder, nil
}

func (r *fakeFolderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byId, id)
	return nil
}

type fakeNoteRepo struct {
	byId map[uuid.UUID]*entity.Note
}

func (r *fakeNoteRepo) Create(_ context.Context, note *entity.Note) error {
	r.byId[note.Id] = note
	return nil
}

func (r *fakeNoteRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Note, error) {
	for _, note := range r.byId {
		if matchesNote(note, specs) {
			// A fresh copy per lookup, the way a real row scan behaves.
			found := *note
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeNoteRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	var notes []*entity.Note
	for _, note := range r.byId {
		if matchesNote(note, specs) {
			notes = append(notes, note)
		}
	}
	return notes, nil
}

func (r *fakeNoteRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	notes, _ := r.FindAll(context.Background(), specs...)
	return int64(len(notes)), nil
}

func (r *fakeNoteRepo) UpdateVersioned(_ context.Context, id uuid.UUID, claimedVersion int, changes map[string]any) (*entity.Note, error) {
	note, ok := r.byId[id]
	if !ok || note.LockVersion != claimedVersion {
		return nil, apperror.NewConflict("note")
	}
	if title, ok := changes["title"].(string); ok {
		note.Title = title
	}
	if text, ok := changes["text"].(string); ok {
		note.Text = text
	}
	if htmlText, ok := changes["htmltext"].(string); ok {
		note.HtmlText = htmlText
	}
	note.LockVersion = claimedVersion + 1
	updated := *note
	return &updated, nil
}

func (r *fakeNoteRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byId, id)
	return nil
}

type fakeTaskRepo struct {
	byId map[uuid.UUID]*entity.Task
}

func (r *fakeTaskRepo) Create(_ context.Context, task *entity.Task) error {
	r.byId[task.Id] = task
	return nil
}

func (r *fakeTaskRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Task, error) {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByID); ok {
			task := r.byId[s.ID]
			if task == nil {
				return nil, nil
			}
			for _, inner := range specs {
				if p, ok := inner.(specification.InProject); ok && task.ProjectId != p.ProjectID {
					return nil, nil
				}
			}
			return task, nil
		}
	}
	return nil, nil
}

func (r *fakeTaskRepo) ExistsByNoteId(_ context.Context, noteId uuid.UUID) (bool, error) {
	for _, task := range r.byId {
		if task.NoteId == noteId {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTaskRepo) UpdateVersioned(_ context.Context, id uuid.UUID, claimedVersion int, changes map[string]any) (*entity.Task, error) {
	task, ok := r.byId[id]
	if !ok || task.LockVersion != claimedVersion {
		return nil, apperror.NewConflict("task")
	}
	if completed, ok := changes["completed"].(bool); ok {
		task.Completed = completed
	}
	task.LockVersion = claimedVersion + 1
	return task, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byId, id)
	return nil
}

type fakeImageRepo struct {
	images []*entity.Image
}

func (r *fakeImageRepo) Create(_ context.Context, image *entity.Image) error {
	r.images = append(r.images, image)
	return nil
}

func (r *fakeImageRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Image, error) {
	var images []*entity.Image
	for _, image := range r.images {
		keep := true
		for _, spec := range specs {
			if s, ok := spec.(specification.OwnedBy); ok {
				if image.OwnerType != s.OwnerType || image.OwnerId != s.OwnerID {
					keep = false
				}
			}
		}
		if keep {
			images = append(images, image)
		}
	}
	return images, nil
}

func (r *fakeImageRepo) Delete(_ context.Context, id uuid.UUID) error {
	kept := r.images[:0]
	for _, image := range r.images {
		if image.Id != id {
			kept = append(kept, image)
		}
	}
	r.images = kept
	return nil
}

// fakeAttachmentStore keeps per-owner image lists and records every purge.
type fakeAttachmentStore struct {
	byOwner map[string][]*entity.Image
	purged  []uuid.UUID
	baseURL string
}

func newFakeAttachmentStore() *fakeAttachmentStore {
	return &fakeAttachmentStore{
		byOwner: map[string][]*entity.Image{},
		baseURL: "http://blobs.test",
	}
}

func ownerKey(ownerType string, ownerId uuid.UUID) string {
	return fmt.Sprintf("%s:%s", ownerType, ownerId)
}

func (s *fakeAttachmentStore) add(ownerType string, ownerId uuid.UUID, key string) *entity.Image {
	image := &entity.Image{
		Id:        uuid.New(),
		OwnerType: ownerType,
		OwnerId:   ownerId,
		Key:       key,
	}
	k := ownerKey(ownerType, ownerId)
	s.byOwner[k] = append(s.byOwner[k], image)
	return image
}

func (s *fakeAttachmentStore) Attach(_ context.Context, _ unitofwork.UnitOfWork, ownerType string, ownerId uuid.UUID, payload *dto.ImagePayload) (*entity.Image, error) {
	return s.add(ownerType, ownerId, payload.Filename), nil
}

func (s *fakeAttachmentStore) List(_ context.Context, ownerType string, ownerId uuid.UUID) ([]*entity.Image, error) {
	// A fresh slice per query, the way the real repository materializes rows.
	return append([]*entity.Image(nil), s.byOwner[ownerKey(ownerType, ownerId)]...), nil
}

func (s *fakeAttachmentStore) ResolveURL(image *entity.Image) string {
	return s.baseURL + "/" + image.Key
}

func (s *fakeAttachmentStore) Purge(_ context.Context, image *entity.Image) error {
	s.purged = append(s.purged, image.Id)
	k := ownerKey(image.OwnerType, image.OwnerId)
	kept := make([]*entity.Image, 0, len(s.byOwner[k]))
	for _, img := range s.byOwner[k] {
		if img.Id != image.Id {
			kept = append(kept, img)
		}
	}
	s.byOwner[k] = kept
	return nil
}

func (s *fakeAttachmentStore) PurgeAllByOwner(ctx context.Context, ownerType string, ownerId uuid.UUID) error {
	for _, image := range append([]*entity.Image(nil), s.byOwner[ownerKey(ownerType, ownerId)]...) {
		if err := s.Purge(ctx, image); err != nil {
			return err
		}
	}
	return nil
}
