package profile

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetProfile() {
	err := s.repo.SaveProfile(context.Background(), &SaveProfileInput{
		Profile: &Profile{
			ID:       "u1",
			UserID:   "u1",
			Username: "alice",
			Name:     "Alice",
			Avatar:   "🦊",
		},
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetProfile(context.Background(), &GetProfileInput{})
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)
	s.Equal("u1", retrieved.UserID)
	s.Equal("alice", retrieved.Username)
	s.Equal("Alice", retrieved.Name)
}

func (s *RedisRepositoryTestSuite) TestGetProfileNotFound() {
	_, err := s.repo.GetProfile(context.Background(), &GetProfileInput{})
	s.Require().Error(err)
	s.Equal(ErrProfileNotFound, err)
}
