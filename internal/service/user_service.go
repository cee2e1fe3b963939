package service

import (
	"context"

	"github.com/momonga11/notenext-server/internal/apperror"
	"github.com/momonga11/notenext-server/internal/dto"
	"github.com/momonga11/notenext-server/internal/entity"
	"github.com/momonga11/notenext-server/internal/pkg/logger"
	"github.com/momonga11/notenext-server/internal/repository/specification"
	"github.com/momonga11/notenext-server/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	Profile(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
	UpdateAccount(ctx context.Context, userId uuid.UUID, req *dto.UpdateAccountRequest) (*dto.UserResponse, error)
	DeleteAccount(ctx context.Context, userId uuid.UUID) error
	// UploadAvatar replaces the user's avatar; a user keeps at most one.
	UploadAvatar(ctx context.Context, userId uuid.UUID, payload *dto.ImagePayload) (*dto.AvatarResponse, error)
	DeleteAvatar(ctx context.Context, userId uuid.UUID) error
}

type userService struct {
	uowFactory  unitofwork.RepositoryFactory
	attachments IAttachmentStore
	logger      logger.ILogger
}

func NewUserService(
	uowFactory unitofwork.RepositoryFactory,
	attachments IAttachmentStore,
	log logger.ILogger,
) IUserService {
	return &userService{
		uowFactory:  uowFactory,
		attachments: attachments,
		logger:      log,
	}
}

func (s *userService) Profile(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.findUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, user), nil
}

func (s *userService) UpdateAccount(ctx context.Context, userId uuid.UUID, req *dto.UpdateAccountRequest) (*dto.UserResponse, error) {
	user, err := s.findUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if req.Email != "" && req.Email != user.Email {
		existing, err := uow.UserRepository().FindByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewValidation("email has already been taken")
		}
		user.Email = req.Email
	}
	if req.Name != "" {
		user.Name = req.Name
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, user), nil
}

func (s *userService) DeleteAccount(ctx context.Context, userId uuid.UUID) error {
	if _, err := s.findUser(ctx, userId); err != nil {
		return err
	}

	if err := s.attachments.PurgeAllByOwner(ctx, entity.OwnerUser, userId); err != nil {
		s.logger.Warn("UserService", "Failed to purge avatar on account delete", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
	}

	// Membership rows go via FK cascade; shared projects survive for the
	// remaining members.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().Delete(ctx, userId)
}

func (s *userService) UploadAvatar(ctx context.Context, userId uuid.UUID, payload *dto.ImagePayload) (*dto.AvatarResponse, error) {
	if _, err := s.findUser(ctx, userId); err != nil {
		return nil, err
	}

	if err := s.attachments.PurgeAllByOwner(ctx, entity.OwnerUser, userId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	image, err := s.attachments.Attach(ctx, uow, entity.OwnerUser, userId, payload)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.AvatarResponse{Avatar: s.attachments.ResolveURL(image)}, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userId uuid.UUID) error {
	if _, err := s.findUser(ctx, userId); err != nil {
		return err
	}
	return s.attachments.PurgeAllByOwner(ctx, entity.OwnerUser, userId)
}

func (s *userService) findUser(ctx context.Context, userId uuid.UUID) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFound("user", userId)
	}
	return user, nil
}

func (s *userService) toResponse(ctx context.Context, user *entity.User) *dto.UserResponse {
	avatar := ""
	if avatars, err := s.attachments.List(ctx, entity.OwnerUser, user.Id); err == nil && len(avatars) > 0 {
		avatar = s.attachments.ResolveURL(avatars[len(avatars)-1])
	}
	return &dto.UserResponse{
		Id:     user.Id,
		Email:  user.Email,
		Name:   user.Name,
		Avatar: avatar,
	}
}
