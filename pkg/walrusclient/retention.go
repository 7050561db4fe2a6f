package walrusclient

import (
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
)

// RetentionPolicy is the explicit lifetime contract for a stored blob:
// exactly one of an epoch count, permanent, or deletable. There is no safe
// default: the backend's own default is its least durable policy, so a
// request that names no policy is treated as a defect, not a preference.
type RetentionPolicy struct {
	Epochs    int
	Permanent bool
	Deletable bool
}

func RetainEpochs(n int) RetentionPolicy {
	return RetentionPolicy{Epochs: n}
}

func RetainPermanent() RetentionPolicy {
	return RetentionPolicy{Permanent: true}
}

func RetainDeletable() RetentionPolicy {
	return RetentionPolicy{Deletable: true}
}

// Validate enforces the exactly-one rule.
func (p RetentionPolicy) Validate() error {
	chosen := 0
	if p.Epochs > 0 {
		chosen++
	}
	if p.Permanent {
		chosen++
	}
	if p.Deletable {
		chosen++
	}
	switch chosen {
	case 0:
		return errors.New("retention policy is required: one of epochs, permanent or deletable")
	case 1:
		if p.Epochs < 0 {
			return errors.New("epochs must be positive")
		}
		return nil
	default:
		return errors.New("retention policy choices are mutually exclusive")
	}
}

// Query renders the policy as upstream query parameters.
func (p RetentionPolicy) Query() url.Values {
	query := url.Values{}
	switch {
	case p.Permanent:
		query.Set("permanent", "true")
	case p.Deletable:
		query.Set("deletable", "true")
	default:
		query.Set("epochs", strconv.Itoa(p.Epochs))
	}
	return query
}

func (p RetentionPolicy) String() string {
	switch {
	case p.Permanent:
		return "permanent"
	case p.Deletable:
		return "deletable"
	default:
		return "epochs=" + strconv.Itoa(p.Epochs)
	}
}
