package service

import (
	"context"
	"encoding/base64"
	"path"
	"strings"
	"time"

	"github.com/momonga11/notenext-server/internal/apperror"
	"github.com/momonga11/notenext-server/internal/config"
	"github.com/momonga11/notenext-server/internal/dto"
	"github.com/momonga11/notenext-server/internal/entity"
	"github.com/momonga11/notenext-server/internal/repository/specification"
	"github.com/momonga11/notenext-server/internal/repository/unitofwork"
	"github.com/momonga11/notenext-server/pkg/blobstore"

	"github.com/google/uuid"
)

type IAttachmentStore interface {
	// Attach validates and stores one uploaded image for an owner. The
	// metadata row joins the caller's unit of work; the blob write follows
	// immediately and is not transactional.
	Attach(ctx context.Context, uow unitofwork.UnitOfWork, ownerType string, ownerId uuid.UUID, payload *dto.ImagePayload) (*entity.Image, error)

	// List returns the owner's images in insertion order.
	List(ctx context.Context, ownerType string, ownerId uuid.UUID) ([]*entity.Image, error)

	// ResolveURL yields the stable public URL for an image.
	ResolveURL(image *entity.Image) string

	// Purge removes the blob and the metadata row. Purging an image that is
	// already gone is a no-op.
	Purge(ctx context.Context, image *entity.Image) error

	// PurgeAllByOwner purges every image of the owner.
	PurgeAllByOwner(ctx context.Context, ownerType string, ownerId uuid.UUID) error
}

type attachmentStore struct {
	uowFactory unitofwork.RepositoryFactory
	blobs      blobstore.BlobStorage
	storageCfg config.StorageConfig
}

func NewAttachmentStore(
	uowFactory unitofwork.RepositoryFactory,
	blobs blobstore.BlobStorage,
	storageCfg config.StorageConfig,
) IAttachmentStore {
	return &attachmentStore{
		uowFactory: uowFactory,
		blobs:      blobs,
		storageCfg: storageCfg,
	}
}

func (s *attachmentStore) Attach(ctx context.Context, uow unitofwork.UnitOfWork, ownerType string, ownerId uuid.UUID, payload *dto.ImagePayload) (*entity.Image, error) {
	data, err := decodeImageData(payload.Data)
	if err != nil {
		return nil, apperror.NewValidation("image data is not valid base64")
	}

	if int64(len(data)) > s.storageCfg.MaxImageSize {
		return nil, apperror.NewTooLarge(s.storageCfg.MaxImageSize)
	}
	if !s.contentTypeAllowed(payload.ContentType) {
		return nil, apperror.NewUnsupportedType(payload.ContentType)
	}

	image := &entity.Image{
		Id:          uuid.New(),
		OwnerType:   ownerType,
		OwnerId:     ownerId,
		Key:         uuid.NewString() + path.Ext(payload.Filename),
		Filename:    payload.Filename,
		ContentType: payload.ContentType,
		ByteSize:    int64(len(data)),
		CreatedAt:   time.Now(),
	}

	if err := uow.ImageRepository().Create(ctx, image); err != nil {
		return nil, err
	}
	if err := s.blobs.Put(ctx, image.Key, data, image.ContentType); err != nil {
		return nil, err
	}

	return image, nil
}

func (s *attachmentStore) List(ctx context.Context, ownerType string, ownerId uuid.UUID) ([]*entity.Image, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ImageRepository().FindAll(ctx,
		specification.OwnedBy{OwnerType: ownerType, OwnerID: ownerId},
		specification.InsertionOrder{},
	)
}

func (s *attachmentStore) ResolveURL(image *entity.Image) string {
	return s.blobs.URL(image.Key)
}

func (s *attachmentStore) Purge(ctx context.Context, image *entity.Image) error {
	if err := s.blobs.Delete(ctx, image.Key); err != nil {
		return err
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ImageRepository().Delete(ctx, image.Id)
}

func (s *attachmentStore) PurgeAllByOwner(ctx context.Context, ownerType string, ownerId uuid.UUID) error {
	images, err := s.List(ctx, ownerType, ownerId)
	if err != nil {
		return err
	}
	for _, image := range images {
		if err := s.Purge(ctx, image); err != nil {
			return err
		}
	}
	return nil
}

func (s *attachmentStore) contentTypeAllowed(contentType string) bool {
	for _, allowed := range s.storageCfg.AllowedImageTypes {
		if strings.EqualFold(strings.TrimSpace(allowed), contentType) {
			return true
		}
	}
	return false
}

// decodeImageData accepts raw base64 and data-URI payloads
// ("data:image/png;base64,....").
func decodeImageData(data string) ([]byte, error) {
	if idx := strings.Index(data, ","); idx >= 0 && strings.Contains(data[:idx], "base64") {
		data = data[idx+1:]
	}
	return base64.StdEncoding.DecodeString(data)
}
