//go:build integration

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"cites/internal/session"
	"cites/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *session.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = session.NewRedis(s.redis.Client, time.Minute)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

type value struct {
	PermitType string `json:"permitType"`
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "s1", session.KeySubmission, value{PermitType: "import"}))

	var got value
	found, err := s.store.Get(ctx, "s1", session.KeySubmission, &got)
	s.Require().NoError(err)
	s.True(found)
	s.Equal("import", got.PermitType)

	ttl, err := s.redis.Client.TTL(ctx, "cites:session:s1").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *RedisStoreSuite) TestMissingKey() {
	var got value
	found, err := s.store.Get(context.Background(), "nobody", session.KeySubmission, &got)
	s.Require().NoError(err)
	s.False(found)
}

func (s *RedisStoreSuite) TestDeleteAndReset() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "s1", session.KeySubmission, value{PermitType: "import"}))
	s.Require().NoError(s.store.Set(ctx, "s1", session.KeyChangeRoute, value{PermitType: "x"}))

	s.Require().NoError(s.store.Delete(ctx, "s1", session.KeyChangeRoute))
	var got value
	found, err := s.store.Get(ctx, "s1", session.KeyChangeRoute, &got)
	s.Require().NoError(err)
	s.False(found)

	s.Require().NoError(s.store.Reset(ctx, "s1"))
	found, err = s.store.Get(ctx, "s1", session.KeySubmission, &got)
	s.Require().NoError(err)
	s.False(found)
}
