package walrusclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetentionPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		policy  RetentionPolicy
		wantErr bool
	}{
		{"epochs", RetainEpochs(5), false},
		{"permanent", RetainPermanent(), false},
		{"deletable", RetainDeletable(), false},
		{"none chosen", RetentionPolicy{}, true},
		{"epochs and permanent", RetentionPolicy{Epochs: 5, Permanent: true}, true},
		{"permanent and deletable", RetentionPolicy{Permanent: true, Deletable: true}, true},
		{"all three", RetentionPolicy{Epochs: 1, Permanent: true, Deletable: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRetentionPolicyQuery(t *testing.T) {
	assert.Equal(t, "epochs=5", RetainEpochs(5).Query().Encode())
	assert.Equal(t, "permanent=true", RetainPermanent().Query().Encode())
	assert.Equal(t, "deletable=true", RetainDeletable().Query().Encode())
}
