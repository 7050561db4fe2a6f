package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suigate/mint-gateway/common/errs"
	"github.com/suigate/mint-gateway/modules/mint/entity"
	"github.com/suigate/mint-gateway/modules/mint/repository/memory"
	"github.com/suigate/mint-gateway/modules/mint/usecase"
	"github.com/suigate/mint-gateway/pkg/sponsorclient"
)

const (
	testEventId = "genesis-drop"
	testAddress = "0x" + "1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f1a2b"
	testDigest  = "9WzSHcP1JEUW2n8HqrkL3mDdTAfMR7vYxGQy4pNbKtEw"
)

func testEvent() entity.MintEvent {
	return entity.MintEvent{
		Id:           testEventId,
		Active:       true,
		StartAt:      time.Now().Add(-time.Hour),
		EndAt:        time.Now().Add(time.Hour),
		CollectionId: "0xc0ffee",
		MoveCall: entity.MoveCallSpec{
			Target:    "0xabc::collection::mint",
			GasBudget: 20_000_000,
		},
	}
}

type fakeSponsor struct {
	calls int
	last  sponsorclient.DelegateRequest
	err   error
}

func (f *fakeSponsor) Delegate(_ context.Context, req sponsorclient.DelegateRequest) (string, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return "", f.err
	}
	return testDigest, nil
}

func acceptAll([]byte, []byte, string, []byte) bool { return true }
func rejectAll([]byte, []byte, string, []byte) bool { return false }

func newUsecase(repo *memory.Repository, sponsor *fakeSponsor, verify usecase.SignatureVerifier) *usecase.Usecase {
	return usecase.New(repo, repo, sponsor, verify, usecase.DefaultLockTTL)
}

func mintRequest() usecase.MintRequest {
	return usecase.MintRequest{
		EventId:   testEventId,
		Address:   testAddress,
		Signature: []byte("sig"),
		Message:   []byte("msg"),
	}
}

func TestMint_Success(t *testing.T) {
	repo := memory.NewRepository(testEvent())
	sponsor := &fakeSponsor{}
	u := newUsecase(repo, sponsor, acceptAll)

	digest, err := u.Mint(context.Background(), mintRequest())
	require.NoError(t, err)
	assert.Equal(t, testDigest, digest)
	assert.Equal(t, 1, sponsor.calls)
	assert.Equal(t, strings.ToLower(testAddress), sponsor.last.Recipient)
	assert.Equal(t, "0xabc::collection::mint", sponsor.last.Target)

	minted, err := repo.AlreadyMinted(context.Background(), testEventId, strings.ToLower(testAddress))
	require.NoError(t, err)
	assert.True(t, minted)

	count, err := repo.MintedCount(context.Background(), testEventId)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.False(t, repo.IsLocked(testEventId, strings.ToLower(testAddress)))
}

func TestMint_InvalidAddress(t *testing.T) {
	repo := memory.NewRepository(testEvent())
	sponsor := &fakeSponsor{}
	u := newUsecase(repo, sponsor, acceptAll)

	for _, address := range []string{
		"",
		"0x123",
		strings.TrimPrefix(testAddress, "0x"),
		"0x" + strings.Repeat("z", 64),
	} {
		req := mintRequest()
		req.Address = address
		_, err := u.Mint(context.Background(), req)
		assert.ErrorIs(t, err, usecase.ErrInvalidAddress, "address %q", address)
	}
	assert.Zero(t, sponsor.calls)
}

func TestMint_EventNotFound(t *testing.T) {
	repo := memory.NewRepository()
	u := newUsecase(repo, &fakeSponsor{}, acceptAll)

	_, err := u.Mint(context.Background(), mintRequest())
	assert.ErrorIs(t, err, errs.NotFound)
}

func TestMint_EventNotActive(t *testing.T) {
	tests := []struct {
		name  string
		event func() entity.MintEvent
	}{
		{
			name: "deactivated",
			event: func() entity.MintEvent {
				e := testEvent()
				e.Active = false
				return e
			},
		},
		{
			name: "before window",
			event: func() entity.MintEvent {
				e := testEvent()
				e.StartAt = time.Now().Add(time.Hour)
				e.EndAt = time.Now().Add(2 * time.Hour)
				return e
			},
		},
		{
			name: "after window",
			event: func() entity.MintEvent {
				e := testEvent()
				e.StartAt = time.Now().Add(-2 * time.Hour)
				e.EndAt = time.Now().Add(-time.Hour)
				return e
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewRepository(tt.event())
			sponsor := &fakeSponsor{}
			u := newUsecase(repo, sponsor, acceptAll)

			_, err := u.Mint(context.Background(), mintRequest())
			assert.ErrorIs(t, err, usecase.ErrEventNotActive)
			assert.Zero(t, sponsor.calls)
		})
	}
}

func TestMint_WindowBoundariesInclusive(t *testing.T) {
	event := testEvent()
	now := time.Now()
	event.StartAt = now
	event.EndAt = now
	assert.True(t, event.IsActiveAt(now))
	assert.False(t, event.IsActiveAt(now.Add(-time.Nanosecond)))
	assert.False(t, event.IsActiveAt(now.Add(time.Nanosecond)))
}

func TestMint_AlreadyMinted(t *testing.T) {
	repo := memory.NewRepository(testEvent())
	sponsor := &fakeSponsor{}
	u := newUsecase(repo, sponsor, acceptAll)

	_, err := u.Mint(context.Background(), mintRequest())
	require.NoError(t, err)

	_, err = u.Mint(context.Background(), mintRequest())
	assert.ErrorIs(t, err, usecase.ErrAlreadyMinted)
	assert.Equal(t, 1, sponsor.calls)
}

func TestMint_AddressCaseInsensitive(t *testing.T) {
	repo := memory.NewRepository(testEvent())
	u := newUsecase(repo, &fakeSponsor{}, acceptAll)

	_, err := u.Mint(context.Background(), mintRequest())
	require.NoError(t, err)

	req := mintRequest()
	req.Address = strings.ToUpper(strings.TrimPrefix(testAddress, "0x"))
	req.Address = "0x" + req.Address
	_, err = u.Mint(context.Background(), req)
	assert.ErrorIs(t, err, usecase.ErrAlreadyMinted)
}

func TestMint_CapReached(t *testing.T) {
	event := testEvent()
	capacity := int64(1)
	event.TotalCap = &capacity
	repo := memory.NewRepository(event)
	sponsor := &fakeSponsor{}
	u := newUsecase(repo, sponsor, acceptAll)

	_, err := u.Mint(context.Background(), mintRequest())
	require.NoError(t, err)

	req := mintRequest()
	req.Address = "0x" + strings.Repeat("f", 64)
	_, err = u.Mint(context.Background(), req)
	assert.ErrorIs(t, err, usecase.ErrCapReached)
	assert.Equal(t, 1, sponsor.calls)
}

func TestMint_InvalidSignature(t *testing.T) {
	repo := memory.NewRepository(testEvent())
	sponsor := &fakeSponsor{}
	u := newUsecase(repo, sponsor, rejectAll)

	_, err := u.Mint(context.Background(), mintRequest())
	assert.ErrorIs(t, err, usecase.ErrInvalidSignature)
	assert.Zero(t, sponsor.calls)
	assert.False(t, repo.IsLocked(testEventId, strings.ToLower(testAddress)))
}

func TestMint_SponsorFailureReleasesLock(t *testing.T) {
	repo := memory.NewRepository(testEvent())
	sponsor := &fakeSponsor{err: errors.WithStack(sponsorclient.ErrSponsorTimeout)}
	u := newUsecase(repo, sponsor, acceptAll)

	_, err := u.Mint(context.Background(), mintRequest())
	assert.ErrorIs(t, err, sponsorclient.ErrSponsorTimeout)

	address := strings.ToLower(testAddress)
	assert.False(t, repo.IsLocked(testEventId, address))

	minted, err := repo.AlreadyMinted(context.Background(), testEventId, address)
	require.NoError(t, err)
	assert.False(t, minted)

	count, err := repo.MintedCount(context.Background(), testEventId)
	require.NoError(t, err)
	assert.Zero(t, count)

	// the address can retry after a sponsor failure
	sponsor.err = nil
	digest, err := u.Mint(context.Background(), mintRequest())
	require.NoError(t, err)
	assert.Equal(t, testDigest, digest)
}

func TestMint_ImageForwardedToSponsor(t *testing.T) {
	event := testEvent()
	event.Image = &entity.ImageRef{BlobId: "blob-123", MimeType: "image/png"}
	repo := memory.NewRepository(event)
	sponsor := &fakeSponsor{}
	u := newUsecase(repo, sponsor, acceptAll)

	_, err := u.Mint(context.Background(), mintRequest())
	require.NoError(t, err)
	assert.Equal(t, "blob-123", sponsor.last.ImageBlobId)
	assert.Equal(t, "image/png", sponsor.last.ImageMimeType)
}

func TestCheck(t *testing.T) {
	repo := memory.NewRepository(testEvent())
	u := newUsecase(repo, &fakeSponsor{}, acceptAll)

	minted, err := u.Check(context.Background(), testEventId, testAddress)
	require.NoError(t, err)
	assert.False(t, minted)

	_, err = u.Check(context.Background(), testEventId, "not-an-address")
	assert.ErrorIs(t, err, usecase.ErrInvalidAddress)

	_, err = u.Mint(context.Background(), mintRequest())
	require.NoError(t, err)

	minted, err = u.Check(context.Background(), testEventId, "0x"+strings.ToUpper(testAddress[2:]))
	require.NoError(t, err)
	assert.True(t, minted)
}

func TestMintedCount(t *testing.T) {
	repo := memory.NewRepository(testEvent())
	u := newUsecase(repo, &fakeSponsor{}, acceptAll)

	count, err := u.MintedCount(context.Background(), testEventId)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = u.Mint(context.Background(), mintRequest())
	require.NoError(t, err)

	count, err = u.MintedCount(context.Background(), testEventId)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
