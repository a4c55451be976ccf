package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
	"github.com/vytor/lingoflash/internal/repository/sqlite"
	"github.com/vytor/lingoflash/internal/testutil"
)

type UserRepositorySuite struct {
	suite.Suite
	db       *sql.DB
	users    repository.UserRepository
	profiles repository.ProfileRepository
}

func (s *UserRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.users = sqlite.NewUserRepository(s.db)
	s.profiles = sqlite.NewProfileRepository(s.db)
}

func (s *UserRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *UserRepositorySuite) TestCreateAndGet() {
	ctx := context.Background()
	err := s.users.Create(ctx, models.User{ID: "u1", Email: "ala@example.com", PasswordHash: "h", CreatedAt: time.Now()})
	s.Require().NoError(err)

	byID, err := s.users.GetByID(ctx, "u1")
	s.Require().NoError(err)
	s.Require().NotNil(byID)
	s.Assert().Equal("ala@example.com", byID.Email)
	s.Assert().Equal("h", byID.PasswordHash)

	byEmail, err := s.users.GetByEmail(ctx, "ALA@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(byEmail)
	s.Assert().Equal("u1", byEmail.ID)
}

func (s *UserRepositorySuite) TestCreate_Duplicate() {
	ctx := context.Background()
	s.Require().NoError(s.users.Create(ctx, models.User{ID: "u1", Email: "a@example.com", PasswordHash: "h"}))

	err := s.users.Create(ctx, models.User{ID: "u2", Email: "A@example.com", PasswordHash: "h"})
	s.Assert().ErrorIs(err, repository.ErrDuplicate)
}

func (s *UserRepositorySuite) TestGet_NotFound() {
	u, err := s.users.GetByID(context.Background(), "nope")
	s.Assert().NoError(err)
	s.Assert().Nil(u)
}

func (s *UserRepositorySuite) TestProfileUpsert() {
	ctx := context.Background()
	testutil.SeedUser(s.T(), s.db, "u1", "a@example.com")

	p, err := s.profiles.Get(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().Nil(p)

	goal := "travel"
	created, err := s.profiles.Upsert(ctx, models.Profile{UserID: "u1", Language: "pl", Level: "B1", Goal: &goal, DailyGoal: 20})
	s.Require().NoError(err)
	s.Assert().Equal("pl", created.Language)
	s.Require().NotNil(created.Goal)
	s.Assert().Equal("travel", *created.Goal)

	updated, err := s.profiles.Upsert(ctx, models.Profile{UserID: "u1", Language: "pl", Level: "B2", DailyGoal: 5})
	s.Require().NoError(err)
	s.Assert().Equal("B2", updated.Level)
	s.Assert().Nil(updated.Goal)

	got, err := s.profiles.Get(ctx, "u1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(5, got.DailyGoal)
}

func (s *UserRepositorySuite) TestProfileUpsert_GoalOutOfRange() {
	testutil.SeedUser(s.T(), s.db, "u1", "a@example.com")

	_, err := s.profiles.Upsert(context.Background(), models.Profile{UserID: "u1", Language: "en", Level: "A1", DailyGoal: 500})
	s.Assert().Error(err)
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}
