package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/suigate/mint-gateway/common/errs"
	"github.com/suigate/mint-gateway/modules/mint/entity"
)

func (r *Repository) GetEventById(ctx context.Context, id string) (*entity.MintEvent, error) {
	var (
		event         entity.MintEvent
		imageBlobId   *string
		imageMimeType *string
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, active, start_at, end_at, total_cap, collection_id, move_call, image_blob_id, image_mime_type
		 FROM mint_events WHERE id = $1`,
		id,
	).Scan(
		&event.Id,
		&event.Active,
		&event.StartAt,
		&event.EndAt,
		&event.TotalCap,
		&event.CollectionId,
		&event.MoveCall,
		&imageBlobId,
		&imageMimeType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(errs.NotFound, "event %q", id)
		}
		return nil, errors.Wrap(err, "failed to query mint event")
	}
	if imageBlobId != nil {
		event.Image = &entity.ImageRef{
			BlobId:   *imageBlobId,
			MimeType: stringFromPtr(imageMimeType),
		}
	}
	return &event, nil
}

func stringFromPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
