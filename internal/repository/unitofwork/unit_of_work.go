package unitofwork

import (
	"context"

	"github.com/momonga11/notenext-server/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ProjectRepository() contract.ProjectRepository
	MembershipRepository() contract.MembershipRepository
	FolderRepository() contract.FolderRepository
	NoteRepository() contract.NoteRepository
	TaskRepository() contract.TaskRepository
	ImageRepository() contract.ImageRepository
}
