package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/portfolio-builder/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

type RedisSessionRepoIntegrationTestSuite struct {
	suite.Suite
	rdb  *redis.Client
	repo *RedisSessionRepo
}

func (s *RedisSessionRepoIntegrationTestSuite) SetupSuite() {
	s.rdb = redis.NewClient(&redis.Options{Addr: os.Getenv("REDIS_ADDR"), DB: 15})
	if err := s.rdb.Ping(context.Background()).Err(); err != nil {
		s.T().Fatalf("Failed to connect redis: %s", err)
	}
	s.repo = NewRedisSessionRepo(s.rdb, time.Minute, logger.NewNopLogger())
}

func (s *RedisSessionRepoIntegrationTestSuite) TearDownSuite() {
	s.rdb.FlushDB(context.Background())
	s.rdb.Close()
}

func TestRedisSessionRepoIntegration(t *testing.T) {
	if os.Getenv("REDIS_ADDR") == "" {
		t.Skip("Skipping redis integration tests. Set REDIS_ADDR to run.")
	}
	suite.Run(t, new(RedisSessionRepoIntegrationTestSuite))
}

func (s *RedisSessionRepoIntegrationTestSuite) Test_Contract() {
	runSessionRepoContract(s.T(), s.repo)
}

func (s *RedisSessionRepoIntegrationTestSuite) Test_KeyExpires() {
	ctx := context.Background()
	sess := portfolio.NewSession(time.Now().UTC())
	s.Require().NoError(s.repo.Save(ctx, sess))

	ttl, err := s.rdb.TTL(ctx, sessionKey(sess.ID)).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}

func (s *RedisSessionRepoIntegrationTestSuite) Test_ProjectIDsSurviveRoundTrip() {
	ctx := context.Background()
	sess := portfolio.NewSession(time.Now().UTC())
	sess.Builder.SetDraftField(portfolio.DraftName, "Tracker")
	sess.Builder.SetDraftField(portfolio.DraftDescription, "A task app")
	s.Require().True(sess.Builder.CommitProject())
	s.Require().NoError(s.repo.Save(ctx, sess))

	got, err := s.repo.Get(ctx, sess.ID)
	s.Require().NoError(err)
	s.Require().Len(got.Builder.Profile.Projects, 1)
	s.Equal(sess.Builder.Profile.Projects[0].ID, got.Builder.Profile.Projects[0].ID)
}
