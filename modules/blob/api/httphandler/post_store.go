package httphandler

import (
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/suigate/mint-gateway/common/errs"
	"github.com/suigate/mint-gateway/pkg/walrusclient"
)

type postStoreResult struct {
	BlobId      string `json:"blobId"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type postStoreResponse = HttpResponse[postStoreResult]

// retentionFromQuery builds the caller's retention choice from the
// epochs|permanent|deletable query parameters. A nil policy means the caller
// made no choice and the configured default applies; naming more than one is
// a validation error.
func retentionFromQuery(ctx *fiber.Ctx) (*walrusclient.RetentionPolicy, error) {
	var (
		policies []walrusclient.RetentionPolicy
		errList  []error
	)
	if raw := ctx.Query("epochs"); raw != "" {
		epochs, err := strconv.Atoi(raw)
		if err != nil || epochs <= 0 {
			errList = append(errList, errors.New("'epochs' must be a positive integer"))
		} else {
			policies = append(policies, walrusclient.RetainEpochs(epochs))
		}
	}
	if raw := ctx.Query("permanent"); raw != "" {
		permanent, err := strconv.ParseBool(raw)
		if err != nil {
			errList = append(errList, errors.New("'permanent' must be a boolean"))
		} else if permanent {
			policies = append(policies, walrusclient.RetainPermanent())
		}
	}
	if raw := ctx.Query("deletable"); raw != "" {
		deletable, err := strconv.ParseBool(raw)
		if err != nil {
			errList = append(errList, errors.New("'deletable' must be a boolean"))
		} else if deletable {
			policies = append(policies, walrusclient.RetainDeletable())
		}
	}
	if len(policies) > 1 {
		errList = append(errList, errors.New("at most one of 'epochs', 'permanent', 'deletable' may be set"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, errs.WithPublicMessage(err, "validation error")
	}
	if len(policies) == 0 {
		return nil, nil
	}
	return &policies[0], nil
}

// blobPayload extracts the upload bytes: a multipart file field when the
// request is multipart, otherwise the raw body.
func blobPayload(ctx *fiber.Ctx) (data []byte, contentType string, err error) {
	if strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			return nil, "", errs.NewPublicError("multipart request must carry a 'file' field")
		}
		file, err := fileHeader.Open()
		if err != nil {
			return nil, "", errors.Wrap(err, "can't open multipart file")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", errors.Wrap(err, "can't read multipart file")
		}
		return data, fileHeader.Header.Get(fiber.HeaderContentType), nil
	}
	return ctx.Body(), ctx.Get(fiber.HeaderContentType), nil
}

func (h *HttpHandler) PostStore(ctx *fiber.Ctx) (err error) {
	policy, err := retentionFromQuery(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	data, contentType, err := blobPayload(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if len(data) == 0 {
		return errs.NewPublicError("request body is empty")
	}
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}

	result, err := h.usecase.Store(ctx.UserContext(), data, contentType, policy)
	if err != nil {
		if errors.Is(err, walrusclient.ErrBlobTooLarge) {
			return errors.WithStack(ctx.Status(fiber.StatusRequestEntityTooLarge).JSON(map[string]any{
				"success": false,
				"error":   "blob exceeds size ceiling",
			}))
		}
		return errors.Wrap(err, "error during Store")
	}

	resp := postStoreResponse{
		Success: true,
		Data: &postStoreResult{
			BlobId:      result.BlobId,
			ContentType: result.ContentType,
			Size:        result.Size,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
