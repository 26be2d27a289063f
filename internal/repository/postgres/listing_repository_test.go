package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/listing-service/internal/domain"
	"github.com/listing-service/internal/domain/repository"
	"github.com/listing-service/internal/pkg/errors"
	"github.com/listing-service/internal/repository/postgres/testhelpers"
)

// ListingRepositoryTestSuite тестирует ListingRepository и ReviewRepository на PostGIS
type ListingRepositoryTestSuite struct {
	suite.Suite
	testDB  *testhelpers.TestDB
	repo    repository.ListingRepository
	reviews repository.ReviewRepository
	ctx     context.Context
	ownerID string
}

func (s *ListingRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())

	err := testhelpers.ApplyMigrations(s.testDB.DB.DB, "../../../migrations")
	s.Require().NoError(err, "Failed to apply migrations")

	s.repo = testhelpers.NewListingRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.reviews = testhelpers.NewReviewRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *ListingRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *ListingRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))

	ownerID, err := testhelpers.InsertUser(s.ctx, s.testDB.DB.DB, "owner", "owner@example.com")
	s.Require().NoError(err)
	s.ownerID = ownerID
}

func (s *ListingRepositoryTestSuite) newListing(title string, category domain.Category) *domain.Listing {
	return &domain.Listing{
		Title:       title,
		Description: "Quiet place",
		Price:       1200,
		Location:    "Aspen",
		Country:     "USA",
		Category:    category,
		Geometry:    domain.NewPointGeometry(domain.Coordinates{Lon: -106.8, Lat: 39.2}),
		OwnerID:     s.ownerID,
	}
}

// ============================================================================
// Create / FindByID
// ============================================================================

func (s *ListingRepositoryTestSuite) TestCreate_AssignsIDAndTimestamps() {
	listing := s.newListing("Cabin", domain.CategoryMountains)

	err := s.repo.Create(s.ctx, listing)

	s.Require().NoError(err)
	s.NotEmpty(listing.ID)
	s.False(listing.CreatedAt.IsZero())
	s.Empty(listing.ReviewIDs)
}

func (s *ListingRepositoryTestSuite) TestFindByID_RoundTrip() {
	listing := s.newListing("Cabin", domain.CategoryMountains)
	listing.Image = &domain.Image{URL: "http://minio/listings/upload/a.png", Filename: "upload/a.png"}
	s.Require().NoError(s.repo.Create(s.ctx, listing))

	found, err := s.repo.FindByID(s.ctx, listing.ID, domain.PopulateNone)

	s.Require().NoError(err)
	s.Equal("Cabin", found.Title)
	s.Equal(domain.CategoryMountains, found.Category)
	s.Equal(1200.0, found.Price)
	s.InDelta(-106.8, found.Geometry.Lon(), 1e-9)
	s.InDelta(39.2, found.Geometry.Lat(), 1e-9)
	s.Equal(domain.GeometryTypePoint, found.Geometry.Type)
	s.Require().NotNil(found.Image)
	s.Equal("upload/a.png", found.Image.Filename)
	s.Nil(found.Owner, "owner is not populated without Populate.Owner")
}

func (s *ListingRepositoryTestSuite) TestFindByID_PopulateAll() {
	listing := s.newListing("Cabin", domain.CategoryMountains)
	s.Require().NoError(s.repo.Create(s.ctx, listing))

	authorID, err := testhelpers.InsertUser(s.ctx, s.testDB.DB.DB, "reviewer", "")
	s.Require().NoError(err)
	now := time.Now()
	first, err := testhelpers.InsertReview(s.ctx, s.testDB.DB.DB, listing.ID, authorID, 5, "Great", now.Add(-time.Hour))
	s.Require().NoError(err)
	second, err := testhelpers.InsertReview(s.ctx, s.testDB.DB.DB, listing.ID, authorID, 3, "Ok", now)
	s.Require().NoError(err)

	found, err := s.repo.FindByID(s.ctx, listing.ID, domain.PopulateAll)

	s.Require().NoError(err)
	s.Require().NotNil(found.Owner)
	s.Equal("owner", found.Owner.Username)
	s.Equal([]string{first, second}, found.ReviewIDs)
	s.Require().Len(found.Reviews, 2)
	s.Equal("Great", found.Reviews[0].Comment)
	s.Require().NotNil(found.Reviews[0].Author)
	s.Equal("reviewer", found.Reviews[0].Author.Username)
}

func (s *ListingRepositoryTestSuite) TestFindByID_NotFound() {
	_, err := s.repo.FindByID(s.ctx, uuid.NewString(), domain.PopulateNone)
	s.ErrorIs(err, errors.ErrListingNotFound)

	_, err = s.repo.FindByID(s.ctx, "not-a-uuid", domain.PopulateNone)
	s.ErrorIs(err, errors.ErrListingNotFound)
}

// ============================================================================
// FindAll
// ============================================================================

func (s *ListingRepositoryTestSuite) TestFindAll_FilterByCategory() {
	s.Require().NoError(s.repo.Create(s.ctx, s.newListing("Cabin", domain.CategoryMountains)))
	s.Require().NoError(s.repo.Create(s.ctx, s.newListing("Villa", domain.CategoryAmazingPools)))
	s.Require().NoError(s.repo.Create(s.ctx, s.newListing("Chalet", domain.CategoryMountains)))

	all, err := s.repo.FindAll(s.ctx, domain.ListingFilter{})
	s.Require().NoError(err)
	s.Len(all, 3)

	mountains := domain.CategoryMountains
	filtered, err := s.repo.FindAll(s.ctx, domain.ListingFilter{Category: &mountains})
	s.Require().NoError(err)
	s.Len(filtered, 2)
	for _, l := range filtered {
		s.Equal(domain.CategoryMountains, l.Category)
	}

	arctic := domain.CategoryArctic
	empty, err := s.repo.FindAll(s.ctx, domain.ListingFilter{Category: &arctic})
	s.Require().NoError(err)
	s.Empty(empty)
}

// ============================================================================
// Update
// ============================================================================

func (s *ListingRepositoryTestSuite) TestUpdate_ReplacesFieldsKeepsOwner() {
	listing := s.newListing("Cabin", domain.CategoryMountains)
	s.Require().NoError(s.repo.Create(s.ctx, listing))

	changed := *listing
	changed.Title = "Renovated Cabin"
	changed.Price = 1500
	changed.OwnerID = uuid.NewString()
	changed.Geometry = domain.SentinelGeometry()

	updated, err := s.repo.Update(s.ctx, &changed)

	s.Require().NoError(err)
	s.Equal("Renovated Cabin", updated.Title)
	s.Equal(1500.0, updated.Price)
	s.Equal(s.ownerID, updated.OwnerID)
	s.True(updated.Geometry.IsSentinel())
}

func (s *ListingRepositoryTestSuite) TestUpdate_NotFound() {
	listing := s.newListing("Ghost", domain.CategoryCastles)
	listing.ID = uuid.NewString()

	_, err := s.repo.Update(s.ctx, listing)
	s.ErrorIs(err, errors.ErrListingNotFound)
}

// ============================================================================
// Delete / DeleteByListing
// ============================================================================

func (s *ListingRepositoryTestSuite) TestDelete() {
	listing := s.newListing("Cabin", domain.CategoryMountains)
	s.Require().NoError(s.repo.Create(s.ctx, listing))

	deleted, err := s.repo.Delete(s.ctx, listing.ID)
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.repo.Delete(s.ctx, listing.ID)
	s.Require().NoError(err)
	s.False(deleted)

	_, err = s.repo.FindByID(s.ctx, listing.ID, domain.PopulateNone)
	s.ErrorIs(err, errors.ErrListingNotFound)
}

func (s *ListingRepositoryTestSuite) TestDeleteByListing() {
	listing := s.newListing("Cabin", domain.CategoryMountains)
	s.Require().NoError(s.repo.Create(s.ctx, listing))
	other := s.newListing("Villa", domain.CategoryAmazingPools)
	s.Require().NoError(s.repo.Create(s.ctx, other))

	for i := 0; i < 2; i++ {
		_, err := testhelpers.InsertReview(s.ctx, s.testDB.DB.DB, listing.ID, s.ownerID, 4, "Nice", time.Now())
		s.Require().NoError(err)
	}
	_, err := testhelpers.InsertReview(s.ctx, s.testDB.DB.DB, other.ID, s.ownerID, 4, "Nice", time.Now())
	s.Require().NoError(err)

	n, err := s.reviews.DeleteByListing(s.ctx, listing.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	left, err := testhelpers.CountReviews(s.ctx, s.testDB.DB.DB, other.ID)
	s.Require().NoError(err)
	s.Equal(1, left)
}

func TestListingRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ListingRepositoryTestSuite))
}
