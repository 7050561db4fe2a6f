package httphandler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suigate/mint-gateway/common/errs"
	"github.com/suigate/mint-gateway/modules/blob/api/httphandler"
	"github.com/suigate/mint-gateway/modules/blob/usecase"
	"github.com/suigate/mint-gateway/pkg/errorhandler"
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

func (f *fakeStore) Fetch(context.Context, string) ([]byte, string, error) {
	if f.fetchErr != nil {
		return nil, "", f.fetchErr
	}
	return f.fetchData, f.fetchType, nil
}

func newTestApp(t *testing.T, store *fakeStore) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: errorhandler.NewHTTPErrorHandler(),
	})
	handler := httphandler.New(usecase.New(store, nil, 2))
	require.NoError(t, handler.Mount(app))
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

func TestPostStore_RawBody(t *testing.T) {
	store := &fakeStore{}
	app := newTestApp(t, store)

	req, err := http.NewRequest(http.MethodPost, "/api/walrus/store?epochs=5", bytes.NewReader([]byte("png bytes")))
	require.NoError(t, err)
	req.Header.Set(fiber.HeaderContentType, "image/png")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body := decodeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "blob-1", data["blobId"])
	assert.Equal(t, "image/png", data["contentType"])
	assert.Equal(t, float64(9), data["size"])
	assert.Equal(t, 5, store.lastPolicy.Epochs)
}

func TestPostStore_Multipart(t *testing.T) {
	store := &fakeStore{}
	app := newTestApp(t, store)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "art.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/api/walrus/store?permanent=true", &buf)
	require.NoError(t, err)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body := decodeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []byte("png bytes"), store.lastData)
	assert.True(t, store.lastPolicy.Permanent)
}

func TestPostStore_DefaultRetention(t *testing.T) {
	store := &fakeStore{}
	app := newTestApp(t, store)

	req, err := http.NewRequest(http.MethodPost, "/api/walrus/store", bytes.NewReader([]byte("data")))
	require.NoError(t, err)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, store.lastPolicy.Epochs)
}

func TestPostStore_Validation(t *testing.T) {
	store := &fakeStore{}
	app := newTestApp(t, store)

	tests := []struct {
		name   string
		target string
		body   []byte
	}{
		{"conflicting retention", "/api/walrus/store?epochs=5&permanent=true", []byte("data")},
		{"bad epochs", "/api/walrus/store?epochs=-1", []byte("data")},
		{"empty body", "/api/walrus/store?epochs=5", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, tt.target, bytes.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			body := decodeBody(t, resp)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestPostStore_TooLarge(t *testing.T) {
	store := &fakeStore{storeErr: errors.WithStack(walrusclient.ErrBlobTooLarge)}
	app := newTestApp(t, store)

	req, err := http.NewRequest(http.MethodPost, "/api/walrus/store?epochs=1", bytes.NewReader([]byte("data")))
	require.NoError(t, err)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestPostStore_Unavailable(t *testing.T) {
	store := &fakeStore{storeErr: errors.WithStack(walrusclient.ErrUnavailable)}
	app := newTestApp(t, store)

	req, err := http.NewRequest(http.MethodPost, "/api/walrus/store?epochs=1", bytes.NewReader([]byte("data")))
	require.NoError(t, err)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestGetBlob(t *testing.T) {
	store := &fakeStore{fetchData: []byte("png bytes"), fetchType: "image/png"}
	app := newTestApp(t, store)

	req, err := http.NewRequest(http.MethodGet, "/walrus/blobs/blob-1", nil)
	require.NoError(t, err)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, "public, max-age=31536000, immutable", resp.Header.Get(fiber.HeaderCacheControl))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("png bytes"), raw)
}

func TestGetBlob_NotFound(t *testing.T) {
	store := &fakeStore{fetchErr: errors.Wrapf(errs.NotFound, "blob %q", "missing")}
	app := newTestApp(t, store)

	req, err := http.NewRequest(http.MethodGet, "/walrus/blobs/missing", nil)
	require.NoError(t, err)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
