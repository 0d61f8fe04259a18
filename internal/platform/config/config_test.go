package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("DRAFT_BACKEND", "")
	t.Setenv("TOKEN_SIGNING_KEY", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.SessionBackend)
	assert.Equal(t, BackendMemory, cfg.DraftBackend)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.NotEmpty(t, cfg.TokenSigningKey)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.UsesS3())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("DRAFT_BACKEND", "s3")
	t.Setenv("DRAFT_BUCKET", "drafts")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092,")
	t.Setenv("CRM_SCOPES", "https://crm.example/.default")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 45*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"https://crm.example/.default"}, cfg.CRM.Scopes)
	assert.True(t, cfg.UsesS3())
}

func TestFromEnvRejectsIncompleteBackends(t *testing.T) {
	cases := map[string]map[string]string{
		"redis without url":     {"SESSION_BACKEND": "redis", "REDIS_URL": ""},
		"postgres without dsn":  {"DRAFT_BACKEND": "postgres", "DATABASE_URL": ""},
		"unknown draft backend": {"DRAFT_BACKEND": "dynamo"},
		"bad duration":          {"SESSION_TTL": "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
