package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCOSStorage_Validation(t *testing.T) {
	t.Run("MissingBucket", func(t *testing.T) {
		cfg := &COSConfig{
			Region:    "ap-guangzhou",
			SecretID:  "test-id",
			SecretKey: "test-key",
		}

		s, err := NewCOSStorage(cfg)
		assert.Error(t, err)
		assert.Nil(t, s)
		assert.Contains(t, err.Error(), "bucket and region are required")
	})

	t.Run("MissingRegion", func(t *testing.T) {
		cfg := &COSConfig{
			Bucket:    "test-bucket",
			SecretID:  "test-id",
			SecretKey: "test-key",
		}

		s, err := NewCOSStorage(cfg)
		assert.Error(t, err)
		assert.Nil(t, s)
		assert.Contains(t, err.Error(), "bucket and region are required")
	})

	t.Run("MissingCredentials", func(t *testing.T) {
		cfg := &COSConfig{
			Bucket: "test-bucket",
			Region: "ap-guangzhou",
		}

		s, err := NewCOSStorage(cfg)
		assert.Error(t, err)
		assert.Nil(t, s)
		assert.Contains(t, err.Error(), "credentials are required")
	})

	t.Run("ValidConfig", func(t *testing.T) {
		cfg := &COSConfig{
			Bucket:    "test-bucket",
			Region:    "ap-guangzhou",
			SecretID:  "test-id",
			SecretKey: "test-key",
		}

		s, err := NewCOSStorage(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, s)
	})
}

func TestCOSStorage_URL(t *testing.T) {
	cfg := &COSConfig{
		Bucket:    "my-bucket",
		Region:    "ap-guangzhou",
		SecretID:  "test-id",
		SecretKey: "test-key",
	}

	s, err := NewCOSStorage(cfg)
	assert.NoError(t, err)

	got := s.URL("plans/panels.json")
	expected := "https://my-bucket.cos.ap-guangzhou.myqcloud.com/plans/panels.json"
	assert.Equal(t, expected, got)
}
