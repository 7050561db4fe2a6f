package usecase_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suigate/mint-gateway/modules/blob/usecase"
	"github.com/suigate/mint-gateway/pkg/walrusclient"
)

type fakeStore struct {
	lastPolicy walrusclient.RetentionPolicy
	lastData   []byte
	storeErr   error
	fetchData  []byte
	fetchType  string
	fetchErr   error
}

func (f *fakeStore) Store(_ context.Context, data []byte, policy walrusclient.RetentionPolicy) (walrusclient.StoreResult, error) {
	f.lastData = data
	f.lastPolicy = policy
	if f.storeErr != nil {
		return walrusclient.StoreResult{}, f.storeErr
	}
	return walrusclient.StoreResult{BlobId: "blob-1", Size: int64(len(data))}, nil
}

func (f *fakeStore) Fetch(_ context.Context, _ string) ([]byte, string, error) {
	if f.fetchErr != nil {
		return nil, "", f.fetchErr
	}
	return f.fetchData, f.fetchType, nil
}

type fakeMirror struct {
	uploads int
	lastId  string
	err     error
}

func (f *fakeMirror) Upload(_ context.Context, blobId, _ string, _ []byte) error {
	f.uploads++
	f.lastId = blobId
	return f.err
}

func TestStore_ExplicitPolicy(t *testing.T) {
	store := &fakeStore{}
	u := usecase.New(store, nil, 3)

	policy := walrusclient.RetainPermanent()
	result, err := u.Store(context.Background(), []byte("data"), "image/png", &policy)
	require.NoError(t, err)
	assert.Equal(t, "blob-1", result.BlobId)
	assert.Equal(t, "image/png", result.ContentType)
	assert.Equal(t, int64(4), result.Size)
	assert.True(t, store.lastPolicy.Permanent)
}

func TestStore_DefaultPolicySubstituted(t *testing.T) {
	store := &fakeStore{}
	u := usecase.New(store, nil, 3)

	_, err := u.Store(context.Background(), []byte("data"), "image/png", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, store.lastPolicy.Epochs)
	assert.False(t, store.lastPolicy.Permanent)
	assert.False(t, store.lastPolicy.Deletable)
}

func TestStore_MirrorFailureSwallowed(t *testing.T) {
	store := &fakeStore{}
	mirror := &fakeMirror{err: errors.New("bucket gone")}
	u := usecase.New(store, mirror, 1)

	result, err := u.Store(context.Background(), []byte("data"), "image/png", nil)
	require.NoError(t, err)
	assert.Equal(t, "blob-1", result.BlobId)
	assert.Equal(t, 1, mirror.uploads)
}

func TestStore_MirrorReceivesBlobId(t *testing.T) {
	store := &fakeStore{}
	mirror := &fakeMirror{}
	u := usecase.New(store, mirror, 1)

	_, err := u.Store(context.Background(), []byte("data"), "image/png", nil)
	require.NoError(t, err)
	assert.Equal(t, "blob-1", mirror.lastId)
}

func TestStore_UpstreamFailureNotMirrored(t *testing.T) {
	store := &fakeStore{storeErr: errors.WithStack(walrusclient.ErrUnavailable)}
	mirror := &fakeMirror{}
	u := usecase.New(store, mirror, 1)

	_, err := u.Store(context.Background(), []byte("data"), "image/png", nil)
	assert.ErrorIs(t, err, walrusclient.ErrUnavailable)
	assert.Zero(t, mirror.uploads)
}

func TestFetch(t *testing.T) {
	store := &fakeStore{fetchData: []byte("png bytes"), fetchType: "image/png"}
	u := usecase.New(store, nil, 1)

	data, contentType, err := u.Fetch(context.Background(), "blob-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("png bytes"), data)
	assert.Equal(t, "image/png", contentType)
}
