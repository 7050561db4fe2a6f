package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/suigate/mint-gateway/pkg/logger"
	"github.com/suigate/mint-gateway/pkg/logger/slogx"
	"github.com/suigate/mint-gateway/pkg/walrusclient"
)

// BlobStore is the upstream blob storage surface the usecase depends on.
type BlobStore interface {
	Store(ctx context.Context, data []byte, policy walrusclient.RetentionPolicy) (walrusclient.StoreResult, error)
	Fetch(ctx context.Context, blobId string) (data []byte, contentType string, err error)
}

// Mirror keeps a best-effort secondary copy of stored blobs.
type Mirror interface {
	Upload(ctx context.Context, blobId, contentType string, data []byte) error
}

type Usecase struct {
	store            BlobStore
	mirror           Mirror
	defaultRetention walrusclient.RetentionPolicy
}

// New builds the blob usecase. mirror may be nil when mirroring is not
// configured. defaultEpochs is substituted when a store request carries no
// explicit retention choice, so the upstream call always names exactly one
// policy.
func New(store BlobStore, mirror Mirror, defaultEpochs int) *Usecase {
	if defaultEpochs <= 0 {
		defaultEpochs = 1
	}
	return &Usecase{
		store:            store,
		mirror:           mirror,
		defaultRetention: walrusclient.RetainEpochs(defaultEpochs),
	}
}

type StoreResult struct {
	BlobId      string
	ContentType string
	Size        int64
}

// Store uploads the blob under the caller's retention policy, falling back
// to the configured default when the caller made no choice. On success the
// blob is mirrored best-effort; a mirror failure never fails the store.
func (u *Usecase) Store(ctx context.Context, data []byte, contentType string, policy *walrusclient.RetentionPolicy) (StoreResult, error) {
	effective := u.defaultRetention
	if policy != nil {
		effective = *policy
	}

	result, err := u.store.Store(ctx, data, effective)
	if err != nil {
		return StoreResult{}, errors.WithStack(err)
	}

	if u.mirror != nil {
		if err := u.mirror.Upload(ctx, result.BlobId, contentType, data); err != nil {
			logger.WarnContext(ctx, "best-effort blob mirror failed",
				slogx.Error(err),
				slogx.String("blob_id", result.BlobId),
			)
		}
	}

	size := result.Size
	if size == 0 {
		size = int64(len(data))
	}
	return StoreResult{
		BlobId:      result.BlobId,
		ContentType: contentType,
		Size:        size,
	}, nil
}

// Fetch reads a stored blob back from the aggregator.
func (u *Usecase) Fetch(ctx context.Context, blobId string) (data []byte, contentType string, err error) {
	data, contentType, err = u.store.Fetch(ctx, blobId)
	if err != nil {
		return nil, "", errors.WithStack(err)
	}
	return data, contentType, nil
}
