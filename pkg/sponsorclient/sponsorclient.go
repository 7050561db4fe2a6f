package sponsorclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/suigate/mint-gateway/pkg/httpclient"
	"github.com/suigate/mint-gateway/pkg/logger"
	"github.com/suigate/mint-gateway/pkg/logger/slogx"
)

// Sentinel errors callers classify on. A timeout means "try again"; an
// upstream error means the sponsor answered badly and should page an
// operator before anyone retries blindly.
var (
	ErrSponsorTimeout  = errors.New("sponsor timeout")
	ErrSponsorUpstream = errors.New("sponsor upstream error")
)

const (
	// DefaultTimeout bounds one delegation call. It must stay below the
	// orchestrator's own per-request budget with visible margin.
	DefaultTimeout = 30 * time.Second

	maxErrorBodyLen = 256
)

type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Client delegates authorized mints to the transaction-sponsoring service.
//
// Client never retries: a retried delegation risks double-minting when the
// first attempt succeeded upstream. Idempotency protection belongs to the
// mint ledger, not here.
type Client struct {
	httpClient *httpclient.Client
	config     Config
}

func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.New("sponsor.base_url config is required")
	}
	headers := make(map[string]string)
	if config.APIKey != "" {
		headers["Authorization"] = "Bearer " + config.APIKey
	}
	httpClient, err := httpclient.New(config.BaseURL, httpclient.Config{Headers: headers})
	if err != nil {
		return nil, errors.Wrap(err, "can't create http client")
	}
	config.Timeout = utils.Default(config.Timeout, DefaultTimeout)
	return &Client{
		httpClient: httpClient,
		config:     config,
	}, nil
}

// DelegateRequest carries only the transaction template, the recipient and
// the artwork reference. Raw image bytes and URLs never travel to the
// sponsor; the content id keeps the call small and storage-agnostic.
type DelegateRequest struct {
	Target        string          `json:"target"`
	Arguments     json.RawMessage `json:"arguments,omitempty"`
	GasBudget     uint64          `json:"gasBudget"`
	Recipient     string          `json:"recipient"`
	CollectionId  string          `json:"collectionId,omitempty"`
	ImageBlobId   string          `json:"imageBlobId,omitempty"`
	ImageMimeType string          `json:"imageMimeType,omitempty"`
}

type delegateResponse struct {
	TxDigest string `json:"txDigest"`
	Digest   string `json:"digest"`
	Error    string `json:"error"`
}

// Delegate submits the mint to the sponsor and returns the resulting
// transaction digest. The call runs under the configured hard deadline;
// deadline expiry surfaces as ErrSponsorTimeout, anything else wrong with
// the upstream as ErrSponsorUpstream.
func (c *Client) Delegate(ctx context.Context, req DelegateRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", errors.Wrap(err, "can't marshal delegate payload")
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.httpClient.Post(ctx, "/v1/sponsor/mint", httpclient.RequestOptions{
		Body: body,
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", errors.Wrapf(ErrSponsorTimeout, "after %v", time.Since(start).Round(time.Millisecond))
		}
		return "", errors.Wrapf(ErrSponsorUpstream, "transport failure: %v", err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return "", errors.Wrapf(ErrSponsorUpstream, "status %d: %s", resp.StatusCode(), truncate(resp.Body()))
	}

	var parsed delegateResponse
	if err := resp.UnmarshalBody(&parsed); err != nil {
		return "", errors.Wrapf(ErrSponsorUpstream, "unparseable response: %v", err)
	}
	digest := utils.Default(parsed.TxDigest, parsed.Digest)
	if digest == "" {
		return "", errors.Wrapf(ErrSponsorUpstream, "response missing transaction digest: %s", truncate(resp.Body()))
	}

	logger.DebugContext(ctx, "sponsor delegation succeeded",
		slogx.String("package", "sponsorclient"),
		slogx.String("recipient", req.Recipient),
		slog.Duration("latency", time.Since(start)),
	)
	return digest, nil
}

// truncate bounds upstream error bodies before they reach responses or logs.
func truncate(body []byte) string {
	if len(body) > maxErrorBodyLen {
		return string(body[:maxErrorBodyLen]) + "..."
	}
	return string(body)
}
