package retry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const profilesYAML = `
api:
  max_retries: 5
  base_delay: 200ms
  max_delay: 10s
  backoff_multiple: 2.0
  jitter: true
  retry_on: network

openai:
  max_retries: 3
  base_delay: 1s
  max_delay: 30s
  backoff_multiple: 2.0
  retry_on: rate-limit

anything:
  max_retries: 1
`

func TestParseProfiles(t *testing.T) {
	profiles, err := ParseProfiles([]byte(profilesYAML))
	assert.NoError(t, err)
	assert.Len(t, profiles, 3)

	opts, err := profiles.Options("api")
	assert.NoError(t, err)
	assert.Equal(t, "api", opts.Name)
	assert.Equal(t, 5, opts.Config.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, opts.Config.BaseDelay)
	assert.Equal(t, 10*time.Second, opts.Config.MaxDelay)
	assert.True(t, opts.Config.Jitter)
	assert.NotNil(t, opts.Condition)
	assert.True(t, opts.Condition(errors.New("ECONNRESET")))
	assert.False(t, opts.Condition(errors.New("validation failed")))
}

func TestParseProfiles_RateLimitCondition(t *testing.T) {
	profiles, err := ParseProfiles([]byte(profilesYAML))
	assert.NoError(t, err)

	opts, err := profiles.Options("openai")
	assert.NoError(t, err)
	assert.True(t, opts.Condition(errors.New("429 Too Many Requests")))
	assert.False(t, opts.Condition(errors.New("404 Not Found")))
}

func TestParseProfiles_DefaultConditionIsAlways(t *testing.T) {
	profiles, err := ParseProfiles([]byte(profilesYAML))
	assert.NoError(t, err)

	opts, err := profiles.Options("anything")
	assert.NoError(t, err)
	// Nil condition means every error is retryable
	assert.Nil(t, opts.Condition)
	assert.Equal(t, 1, opts.Config.MaxRetries)
}

func TestProfiles_UnknownName(t *testing.T) {
	profiles, err := ParseProfiles([]byte(profilesYAML))
	assert.NoError(t, err)

	_, err = profiles.Options("missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `unknown profile "missing"`)
}

func TestParseProfiles_BadRetryOn(t *testing.T) {
	_, err := ParseProfiles([]byte("api:\n  retry_on: sometimes\n"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown retry_on")
}

func TestParseProfiles_BadDuration(t *testing.T) {
	_, err := ParseProfiles([]byte("api:\n  base_delay: fast\n"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base_delay")
}

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retry.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(profilesYAML), 0644))

	profiles, err := LoadProfiles(path)
	assert.NoError(t, err)
	assert.Contains(t, profiles, "api")

	_, err = LoadProfiles(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
