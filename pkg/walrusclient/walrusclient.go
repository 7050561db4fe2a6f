package walrusclient

import (
	"context"
	"log/slog"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/suigate/mint-gateway/common/errs"
	"github.com/suigate/mint-gateway/pkg/httpclient"
	"github.com/suigate/mint-gateway/pkg/logger"
	"github.com/suigate/mint-gateway/pkg/logger/slogx"
)

const (
	DefaultMaxBlobSize    = int64(10 << 20) // publisher rejects anything larger anyway
	DefaultMaxAttempts    = 3
	DefaultRetryBaseDelay = 500 * time.Millisecond
	DefaultAttemptTimeout = 10 * time.Second
)

// Classification sentinels. ErrUnavailable marks retryable failure classes
// (5xx, transport); ErrUpstream marks failures that retrying cannot fix.
var (
	ErrBlobTooLarge = errors.New("blob exceeds size ceiling")
	ErrUnavailable  = errors.New("blob storage unavailable")
	ErrUpstream     = errors.New("blob storage rejected request")
)

type Config struct {
	PublisherURL   string        `mapstructure:"publisher_url"`
	AggregatorURL  string        `mapstructure:"aggregator_url"`
	MaxBlobSize    int64         `mapstructure:"max_blob_size"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay"`
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`
}

// Client stores and serves blobs against a Walrus publisher/aggregator pair.
type Client struct {
	publisher  *httpclient.Client
	aggregator *httpclient.Client
	config     Config
}

func New(config Config) (*Client, error) {
	if config.PublisherURL == "" || config.AggregatorURL == "" {
		return nil, errors.New("walrus.publisher_url and walrus.aggregator_url configs are required")
	}
	publisher, err := httpclient.New(config.PublisherURL)
	if err != nil {
		return nil, errors.Wrap(err, "can't create publisher http client")
	}
	aggregator, err := httpclient.New(config.AggregatorURL)
	if err != nil {
		return nil, errors.Wrap(err, "can't create aggregator http client")
	}
	config.MaxBlobSize = utils.Default(config.MaxBlobSize, DefaultMaxBlobSize)
	config.MaxAttempts = utils.Default(config.MaxAttempts, DefaultMaxAttempts)
	config.RetryBaseDelay = utils.Default(config.RetryBaseDelay, DefaultRetryBaseDelay)
	config.AttemptTimeout = utils.Default(config.AttemptTimeout, DefaultAttemptTimeout)
	return &Client{
		publisher:  publisher,
		aggregator: aggregator,
		config:     config,
	}, nil
}

type StoreResult struct {
	BlobId string
	Size   int64
}

// storeResponse covers both upload outcomes the publisher reports.
type storeResponse struct {
	NewlyCreated *struct {
		BlobObject struct {
			BlobId string `json:"blobId"`
			Size   int64  `json:"size"`
		} `json:"blobObject"`
	} `json:"newlyCreated"`
	AlreadyCertified *struct {
		BlobId string `json:"blobId"`
	} `json:"alreadyCertified"`
}

// Store uploads data under the given retention policy and returns the
// content-derived blob id.
//
// Oversized payloads are rejected locally before any round trip. Retryable
// failures (5xx, transport) are retried up to the configured attempt count
// with exponential backoff; non-retryable failures (4xx, malformed
// response) fail immediately. Each attempt runs under its own deadline,
// shorter than the overall operation budget.
func (c *Client) Store(ctx context.Context, data []byte, policy RetentionPolicy) (StoreResult, error) {
	if err := policy.Validate(); err != nil {
		return StoreResult{}, errors.WithStack(err)
	}
	if int64(len(data)) > c.config.MaxBlobSize {
		return StoreResult{}, errors.Wrapf(ErrBlobTooLarge, "%d bytes > %d", len(data), c.config.MaxBlobSize)
	}

	var lastErr error
	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		result, retryable, err := c.storeOnce(ctx, data, policy)
		if err == nil {
			if attempt > 1 {
				logger.InfoContext(ctx, "blob stored after retry",
					slogx.String("package", "walrusclient"),
					slogx.String("blob_id", result.BlobId),
					slogx.Int("attempt", attempt),
				)
			}
			return result, nil
		}
		if !retryable {
			return StoreResult{}, errors.WithStack(err)
		}
		lastErr = err
		if attempt == c.config.MaxAttempts {
			break
		}

		delay := c.config.RetryBaseDelay << (attempt - 1)
		logger.WarnContext(ctx, "blob store attempt failed, backing off",
			slogx.String("package", "walrusclient"),
			slogx.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slogx.Error(err),
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return StoreResult{}, errors.Wrap(ErrUnavailable, ctx.Err().Error())
		}
	}
	return StoreResult{}, errors.Wrapf(lastErr, "gave up after %d attempts", c.config.MaxAttempts)
}

// storeOnce performs a single upload attempt and classifies its failure.
func (c *Client) storeOnce(ctx context.Context, data []byte, policy RetentionPolicy) (result StoreResult, retryable bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.AttemptTimeout)
	defer cancel()

	resp, err := c.publisher.Put(ctx, "/v1/blobs", httpclient.RequestOptions{
		Body:        data,
		ContentType: "application/octet-stream",
		Query:       policy.Query(),
	})
	if err != nil {
		// transport failure: connection refused, timeout, DNS
		return StoreResult{}, true, errors.Wrapf(ErrUnavailable, "transport failure: %v", err)
	}

	status := resp.StatusCode()
	switch {
	case status >= 500:
		return StoreResult{}, true, errors.Wrapf(ErrUnavailable, "status %d", status)
	case status < 200 || status >= 300:
		return StoreResult{}, false, errors.Wrapf(ErrUpstream, "status %d", status)
	}

	var parsed storeResponse
	if err := resp.UnmarshalBody(&parsed); err != nil {
		return StoreResult{}, false, errors.Wrapf(ErrUpstream, "unparseable response: %v", err)
	}
	switch {
	case parsed.NewlyCreated != nil && parsed.NewlyCreated.BlobObject.BlobId != "":
		return StoreResult{
			BlobId: parsed.NewlyCreated.BlobObject.BlobId,
			Size:   parsed.NewlyCreated.BlobObject.Size,
		}, false, nil
	case parsed.AlreadyCertified != nil && parsed.AlreadyCertified.BlobId != "":
		return StoreResult{
			BlobId: parsed.AlreadyCertified.BlobId,
			Size:   int64(len(data)),
		}, false, nil
	default:
		return StoreResult{}, false, errors.Wrap(ErrUpstream, "response missing blob id")
	}
}

// Fetch reads a stored blob back. It is a thin pass-through with no retry;
// reads are cheap to retry at the caller or CDN layer instead.
func (c *Client) Fetch(ctx context.Context, blobId string) (data []byte, contentType string, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.AttemptTimeout)
	defer cancel()

	resp, err := c.aggregator.Get(ctx, "/v1/blobs/"+blobId, httpclient.RequestOptions{})
	if err != nil {
		return nil, "", errors.Wrapf(ErrUnavailable, "transport failure: %v", err)
	}
	switch status := resp.StatusCode(); {
	case status == 404:
		return nil, "", errors.Wrapf(errs.NotFound, "blob %q", blobId)
	case status < 200 || status >= 300:
		return nil, "", errors.Wrapf(ErrUpstream, "status %d", status)
	}

	body, err := resp.BodyUncompressed()
	if err != nil {
		return nil, "", errors.Wrap(err, "can't read blob body")
	}
	data = append([]byte(nil), body...)
	return data, string(resp.Header.ContentType()), nil
}
