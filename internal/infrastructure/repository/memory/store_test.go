package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/bid"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/errors"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/profile"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/project"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/values"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func seedProfile(t *testing.T, s *Store, userType profile.UserType, name string) *profile.Profile {
	t.Helper()
	p, err := profile.NewProfile(userType, name, "Park", name+"@example.com")
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), p))
	return p
}

func seedProject(t *testing.T, s *Store, ownerID uuid.UUID) *project.Project {
	t.Helper()
	p, err := project.New(ownerID, "Warehouse build", "construction", "Build it.", testNow.Add(48*time.Hour), testNow)
	require.NoError(t, err)
	require.NoError(t, s.Projects().Create(context.Background(), p))
	return p
}

func seedBid(t *testing.T, s *Store, projectID, bidderID uuid.UUID, amount int64) *bid.Bid {
	t.Helper()
	m := values.MustNewMoney(decimal.NewFromInt(amount), values.KRW)
	b, err := bid.New(projectID, bidderID, m, 14, "proposal", testNow)
	require.NoError(t, err)
	require.NoError(t, s.Bids().Create(context.Background(), b))
	return b
}

func TestStoreBidUniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	buyer := seedProfile(t, s, profile.TypeBuyer, "buyer")
	supplier := seedProfile(t, s, profile.TypeSupplier, "supplier")
	p := seedProject(t, s, buyer.ID)

	seedBid(t, s, p.ID, supplier.ID, 100)

	m := values.MustNewMoney(decimal.NewFromInt(200), values.KRW)
	dup, err := bid.New(p.ID, supplier.ID, m, 7, "again", testNow)
	require.NoError(t, err)
	err = s.Bids().Create(ctx, dup)
	assert.True(t, errors.IsDuplicateBid(err))
}

func TestStoreAward(t *testing.T) {
	ctx := context.Background()

	t.Run("applies all three mutations", func(t *testing.T) {
		s := NewStore()
		buyer := seedProfile(t, s, profile.TypeBuyer, "buyer")
		s1 := seedProfile(t, s, profile.TypeSupplier, "s1")
		s2 := seedProfile(t, s, profile.TypeSupplier, "s2")
		p := seedProject(t, s, buyer.ID)
		b1 := seedBid(t, s, p.ID, s1.ID, 100)
		b2 := seedBid(t, s, p.ID, s2.ID, 200)

		result, err := s.Award(ctx, p.ID, b1.ID, testNow.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, project.StatusAwarded, result.Project.Status)
		assert.Equal(t, bid.StatusAccepted, result.Winner.Status)
		require.Len(t, result.Rejected, 1)
		assert.Equal(t, b2.ID, result.Rejected[0].ID)
		assert.Equal(t, bid.StatusRejected, result.Rejected[0].Status)
	})

	t.Run("second award loses the race", func(t *testing.T) {
		s := NewStore()
		buyer := seedProfile(t, s, profile.TypeBuyer, "buyer")
		s1 := seedProfile(t, s, profile.TypeSupplier, "s1")
		s2 := seedProfile(t, s, profile.TypeSupplier, "s2")
		p := seedProject(t, s, buyer.ID)
		b1 := seedBid(t, s, p.ID, s1.ID, 100)
		b2 := seedBid(t, s, p.ID, s2.ID, 200)

		_, err := s.Award(ctx, p.ID, b1.ID, testNow)
		require.NoError(t, err)

		_, err = s.Award(ctx, p.ID, b2.ID, testNow)
		assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidState))
	})

	t.Run("unknown bid leaves project open", func(t *testing.T) {
		s := NewStore()
		buyer := seedProfile(t, s, profile.TypeBuyer, "buyer")
		p := seedProject(t, s, buyer.ID)

		_, err := s.Award(ctx, p.ID, uuid.New(), testNow)
		require.Error(t, err)

		got, err := s.Projects().GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, project.StatusOpen, got.Status)
	})
}

func TestStoreReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	buyer := seedProfile(t, s, profile.TypeBuyer, "buyer")
	p := seedProject(t, s, buyer.ID)

	got, err := s.Projects().GetByID(ctx, p.ID)
	require.NoError(t, err)
	got.Title = "mutated"

	again, err := s.Projects().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Warehouse build", again.Title)
}

func TestStoreListOpen(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	buyer := seedProfile(t, s, profile.TypeBuyer, "buyer")
	p := seedProject(t, s, buyer.ID)

	open, err := s.Projects().ListOpen(ctx, testNow)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, p.ID, open[0].ID)

	// Past the deadline the project drops out of the listing.
	open, err = s.Projects().ListOpen(ctx, testNow.Add(72*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, open)
}
