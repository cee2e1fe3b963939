package service

import (
	"context"

	"github.com/momonga11/notenext-server/internal/entity"
	"github.com/momonga11/notenext-server/internal/pkg/logger"
	"github.com/momonga11/notenext-server/pkg/htmlscan"

	"github.com/google/uuid"
)

type IImageReconciler interface {
	// Reconcile compares the img references in the note's rich-text body
	// against its attached images and purges every image the body no longer
	// references. A body with no img tags purges all attachments.
	Reconcile(ctx context.Context, noteId uuid.UUID, htmlBody string) error
}

type imageReconciler struct {
	attachments IAttachmentStore
	logger      logger.ILogger
}

func NewImageReconciler(attachments IAttachmentStore, log logger.ILogger) IImageReconciler {
	return &imageReconciler{
		attachments: attachments,
		logger:      log,
	}
}

func (r *imageReconciler) Reconcile(ctx context.Context, noteId uuid.UUID, htmlBody string) error {
	refs := htmlscan.ImageSources(htmlBody)

	images, err := r.attachments.List(ctx, entity.OwnerNote, noteId)
	if err != nil {
		return err
	}

	for _, image := range images {
		// Each attachment consumes its reference, so two attachments never
		// share one URL entry and stale copies are still purged.
		if len(refs) == 0 {
			if err := r.purge(ctx, noteId, image); err != nil {
				return err
			}
			continue
		}

		url := r.attachments.ResolveURL(image)
		if refs.Contains(url) {
			refs.Remove(url)
			continue
		}

		if err := r.purge(ctx, noteId, image); err != nil {
			return err
		}
	}

	return nil
}

func (r *imageReconciler) purge(ctx context.Context, noteId uuid.UUID, image *entity.Image) error {
	if err := r.attachments.Purge(ctx, image); err != nil {
		return err
	}
	r.logger.Info("Reconciler", "Purged unreferenced image", map[string]interface{}{
		"note_id":  noteId,
		"image_id": image.Id,
	})
	return nil
}
