package lifecycle_test

import (
	"context"
	"sync"
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
	"github.com/procurebid/procurement-exchange-backend/internal/infrastructure/repository/memory"
	"github.com/procurebid/procurement-exchange-backend/internal/service/lifecycle"
)

type testEnv struct {
	engine *lifecycle.Service
	store  *memory.Store
	clock  *project.MockClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	clock := &project.MockClock{CurrentTime: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	engine := lifecycle.NewService(
		store.Projects(), store.Bids(), store, store,
		nil, nil, clock, nil,
	)
	return &testEnv{engine: engine, store: store, clock: clock}
}

func (e *testEnv) registerBuyer(t *testing.T, company string) *profile.Profile {
	t.Helper()
	p, err := e.engine.Register(context.Background(), profile.TypeBuyer, company, "Kim", company+"@example.com")
	require.NoError(t, err)
	return p
}

func (e *testEnv) registerSupplier(t *testing.T, company string) *profile.Profile {
	t.Helper()
	p, err := e.engine.Register(context.Background(), profile.TypeSupplier, company, "Lee", company+"@example.com")
	require.NoError(t, err)
	return p
}

func (e *testEnv) createProject(t *testing.T, ownerID uuid.UUID) *project.Project {
	t.Helper()
	p, err := e.engine.CreateProject(context.Background(), lifecycle.CreateProjectRequest{
		OwnerID:      ownerID,
		Title:        "Factory equipment procurement",
		Category:     "manufacturing",
		Requirements: "Supply and install three CNC lathes.",
		Deadline:     e.clock.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) submitBid(t *testing.T, projectID, bidderID uuid.UUID, amount int64) *bid.Bid {
	t.Helper()
	b, err := e.engine.SubmitBid(context.Background(), lifecycle.SubmitBidRequest{
		ProjectID:    projectID,
		BidderID:     bidderID,
		Amount:       values.MustNewMoney(decimal.NewFromInt(amount), values.KRW),
		DeliveryDays: 30,
		Proposal:     "We can deliver on schedule.",
	})
	require.NoError(t, err)
	return b
}

func TestCreateProject(t *testing.T) {
	env := newTestEnv(t)
	buyer := env.registerBuyer(t, "acme")
	supplier := env.registerSupplier(t, "widgets")
	ctx := context.Background()

	t.Run("buyer creates open project", func(t *testing.T) {
		p := env.createProject(t, buyer.ID)
		assert.Equal(t, project.StatusOpen, p.Status)
		assert.Equal(t, buyer.ID, p.OwnerID)
	})

	t.Run("supplier cannot create", func(t *testing.T) {
		_, err := env.engine.CreateProject(ctx, lifecycle.CreateProjectRequest{
			OwnerID:      supplier.ID,
			Title:        "t",
			Category:     "c",
			Requirements: "r",
			Deadline:     env.clock.Now().Add(time.Hour),
		})
		assert.True(t, errors.IsType(err, errors.ErrorTypeForbidden))
	})

	t.Run("deadline must be in the future", func(t *testing.T) {
		_, err := env.engine.CreateProject(ctx, lifecycle.CreateProjectRequest{
			OwnerID:      buyer.ID,
			Title:        "t",
			Category:     "c",
			Requirements: "r",
			Deadline:     env.clock.Now().Add(-time.Hour),
		})
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	})

	t.Run("inverted budget range rejected", func(t *testing.T) {
		min := values.MustNewMoney(decimal.NewFromInt(500), values.KRW)
		max := values.MustNewMoney(decimal.NewFromInt(100), values.KRW)
		_, err := env.engine.CreateProject(ctx, lifecycle.CreateProjectRequest{
			OwnerID:      buyer.ID,
			Title:        "t",
			Category:     "c",
			Requirements: "r",
			BudgetMin:    &min,
			BudgetMax:    &max,
			Deadline:     env.clock.Now().Add(time.Hour),
		})
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	})
}

func TestSubmitBid(t *testing.T) {
	ctx := context.Background()

	t.Run("supplier bids on open project", func(t *testing.T) {
		env := newTestEnv(t)
		buyer := env.registerBuyer(t, "acme")
		supplier := env.registerSupplier(t, "widgets")
		p := env.createProject(t, buyer.ID)

		b := env.submitBid(t, p.ID, supplier.ID, 1_000_000)
		assert.Equal(t, bid.StatusSubmitted, b.Status)
		assert.Equal(t, env.clock.Now(), b.SubmittedAt)
	})

	t.Run("buyer cannot bid", func(t *testing.T) {
		env := newTestEnv(t)
		buyer := env.registerBuyer(t, "acme")
		p := env.createProject(t, buyer.ID)

		_, err := env.engine.SubmitBid(ctx, lifecycle.SubmitBidRequest{
			ProjectID:    p.ID,
			BidderID:     buyer.ID,
			Amount:       values.MustNewMoney(decimal.NewFromInt(100), values.KRW),
			DeliveryDays: 10,
			Proposal:     "p",
		})
		assert.True(t, errors.IsType(err, errors.ErrorTypeForbidden))
	})

	t.Run("deadline passed means closed", func(t *testing.T) {
		env := newTestEnv(t)
		buyer := env.registerBuyer(t, "acme")
		supplier := env.registerSupplier(t, "widgets")
		p := env.createProject(t, buyer.ID)

		env.clock.Advance(73 * time.Hour)
		_, err := env.engine.SubmitBid(ctx, lifecycle.SubmitBidRequest{
			ProjectID:    p.ID,
			BidderID:     supplier.ID,
			Amount:       values.MustNewMoney(decimal.NewFromInt(100), values.KRW),
			DeliveryDays: 10,
			Proposal:     "p",
		})
		assert.True(t, errors.IsType(err, errors.ErrorTypeClosed))
	})

	t.Run("bid exactly at deadline rejected", func(t *testing.T) {
		env := newTestEnv(t)
		buyer := env.registerBuyer(t, "acme")
		supplier := env.registerSupplier(t, "widgets")
		p := env.createProject(t, buyer.ID)

		env.clock.CurrentTime = p.Deadline
		_, err := env.engine.SubmitBid(ctx, lifecycle.SubmitBidRequest{
			ProjectID:    p.ID,
			BidderID:     supplier.ID,
			Amount:       values.MustNewMoney(decimal.NewFromInt(100), values.KRW),
			DeliveryDays: 10,
			Proposal:     "p",
		})
		assert.True(t, errors.IsType(err, errors.ErrorTypeClosed))
	})

	t.Run("second bid by same supplier is a duplicate", func(t *testing.T) {
		env := newTestEnv(t)
		buyer := env.registerBuyer(t, "acme")
		supplier := env.registerSupplier(t, "widgets")
		p := env.createProject(t, buyer.ID)

		env.submitBid(t, p.ID, supplier.ID, 1_000_000)
		_, err := env.engine.SubmitBid(ctx, lifecycle.SubmitBidRequest{
			ProjectID:    p.ID,
			BidderID:     supplier.ID,
			Amount:       values.MustNewMoney(decimal.NewFromInt(900_000), values.KRW),
			DeliveryDays: 20,
			Proposal:     "cheaper",
		})
		assert.True(t, errors.IsDuplicateBid(err))

		// The original bid is untouched.
		bids, err := env.engine.ListBidsForProject(ctx, p.ID, buyer.ID)
		require.NoError(t, err)
		require.Len(t, bids, 1)
		assert.True(t, bids[0].Amount.Amount().Equal(decimal.NewFromInt(1_000_000)))
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		env := newTestEnv(t)
		buyer := env.registerBuyer(t, "acme")
		supplier := env.registerSupplier(t, "widgets")
		p := env.createProject(t, buyer.ID)

		_, err := env.engine.SubmitBid(ctx, lifecycle.SubmitBidRequest{
			ProjectID:    p.ID,
			BidderID:     supplier.ID,
			Amount:       values.Zero(values.KRW),
			DeliveryDays: 10,
			Proposal:     "p",
		})
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	})
}

func TestAcceptBid(t *testing.T) {
	ctx := context.Background()

	t.Run("award accepts winner and rejects the rest", func(t *testing.T) {
		env := newTestEnv(t)
		buyer := env.registerBuyer(t, "acme")
		s1 := env.registerSupplier(t, "first")
		s2 := env.registerSupplier(t, "second")
		s3 := env.registerSupplier(t, "third")
		p := env.createProject(t, buyer.ID)

		b1 := env.submitBid(t, p.ID, s1.ID, 500)
		b2 := env.submitBid(t, p.ID, s2.ID, 300)
		b3 := env.submitBid(t, p.ID, s3.ID, 400)

		awarded, err := env.engine.AcceptBid(ctx, p.ID, b2.ID, buyer.ID)
		require.NoError(t, err)
		assert.Equal(t, project.StatusAwarded, awarded.Status)

		bids, err := env.engine.ListBidsForProject(ctx, p.ID, buyer.ID)
		require.NoError(t, err)
		statuses := map[uuid.UUID]bid.Status{}
		for _, b := range bids {
			statuses[b.ID] = b.Status
		}
		assert.Equal(t, bid.StatusAccepted, statuses[b2.ID])
		assert.Equal(t, bid.StatusRejected, statuses[b1.ID])
		assert.Equal(t, bid.StatusRejected, statuses[b3.ID])
	})

	t.Run("re-accepting the winner is a no-op", func(t *testing.T) {
		env := newTestEnv(t)
		buyer := env.registerBuyer(t, "acme")
		supplier := env.registerSupplier(t, "widgets")
		p := env.createProject(t, buyer.ID)
		b := env.submitBid(t, p.ID, supplier.ID, 500)

		first, err := env.engine.AcceptBid(ctx, p.ID, b.ID, buyer.ID)
		require.NoError(t, err)
		second, err := env.engine.AcceptBid(ctx, p.ID, b.ID, buyer.ID)
		require.NoError(t, err)
		assert.Equal(t, first.Status, second.Status)
		assert.Equal(t, project.StatusAwarded, second.Status)
	})

	t.Run("accepting a different bid after award fails", func(t *testing.T) {
		env := newTestEnv(t)
		buyer := env.registerBuyer(t, "acme")
		s1 := env.registerSupplier(t, "first")
		s2 := env.registerSupplier(t, "second")
		p := env.createProject(t, buyer.ID)
		b1 := env.submitBid(t, p.ID, s1.ID, 500)
		b2 := env.submitBid(t, p.ID, s2.ID, 300)

		_, err := env.engine.AcceptBid(ctx, p.ID, b1.ID, buyer.ID)
		require.NoError(t, err)

		_, err = env.engine.AcceptBid(ctx, p.ID, b2.ID, buyer.ID)
		assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidState))
	})

	t.Run("only the owner can award", func(t *testing.T) {
		env := newTestEnv(t)
		buyer := env.registerBuyer(t, "acme")
		other := env.registerBuyer(t, "rival")
		supplier := env.registerSupplier(t, "widgets")
		p := env.createProject(t, buyer.ID)
		b := env.submitBid(t, p.ID, supplier.ID, 500)

		_, err := env.engine.AcceptBid(ctx, p.ID, b.ID, other.ID)
		assert.True(t, errors.IsType(err, errors.ErrorTypeForbidden))
	})

	t.Run("bid from another project is not found", func(t *testing.T) {
		env := newTestEnv(t)
		buyer := env.registerBuyer(t, "acme")
		supplier := env.registerSupplier(t, "widgets")
		p1 := env.createProject(t, buyer.ID)
		p2 := env.createProject(t, buyer.ID)
		b := env.submitBid(t, p2.ID, supplier.ID, 500)

		_, err := env.engine.AcceptBid(ctx, p1.ID, b.ID, buyer.ID)
		assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
	})

	t.Run("failed award leaves state unchanged", func(t *testing.T) {
		env := newTestEnv(t)
		buyer := env.registerBuyer(t, "acme")
		supplier := env.registerSupplier(t, "widgets")
		p := env.createProject(t, buyer.ID)
		env.submitBid(t, p.ID, supplier.ID, 500)

		_, err := env.engine.AcceptBid(ctx, p.ID, uuid.New(), buyer.ID)
		require.Error(t, err)

		got, err := env.engine.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, project.StatusOpen, got.Status)

		bids, err := env.engine.ListBidsForProject(ctx, p.ID, buyer.ID)
		require.NoError(t, err)
		assert.Equal(t, bid.StatusSubmitted, bids[0].Status)
	})

	t.Run("bids rejected once awarded", func(t *testing.T) {
		env := newTestEnv(t)
		buyer := env.registerBuyer(t, "acme")
		s1 := env.registerSupplier(t, "first")
		s2 := env.registerSupplier(t, "late")
		p := env.createProject(t, buyer.ID)
		b := env.submitBid(t, p.ID, s1.ID, 500)

		_, err := env.engine.AcceptBid(ctx, p.ID, b.ID, buyer.ID)
		require.NoError(t, err)

		_, err = env.engine.SubmitBid(ctx, lifecycle.SubmitBidRequest{
			ProjectID:    p.ID,
			BidderID:     s2.ID,
			Amount:       values.MustNewMoney(decimal.NewFromInt(100), values.KRW),
			DeliveryDays: 10,
			Proposal:     "too late",
		})
		assert.True(t, errors.IsType(err, errors.ErrorTypeClosed))
	})
}

func TestAcceptBidConcurrent(t *testing.T) {
	env := newTestEnv(t)
	buyer := env.registerBuyer(t, "acme")
	p := env.createProject(t, buyer.ID)

	const bidders = 8
	bidIDs := make([]uuid.UUID, bidders)
	for i := 0; i < bidders; i++ {
		s := env.registerSupplier(t, string(rune('a'+i))+"-supplier")
		b := env.submitBid(t, p.ID, s.ID, int64(1000+i))
		bidIDs[i] = b.ID
	}

	var wg sync.WaitGroup
	successes := make(chan uuid.UUID, bidders)
	for _, id := range bidIDs {
		wg.Add(1)
		go func(bidID uuid.UUID) {
			defer wg.Done()
			if _, err := env.engine.AcceptBid(context.Background(), p.ID, bidID, buyer.ID); err == nil {
				successes <- bidID
			}
		}(id)
	}
	wg.Wait()
	close(successes)

	var winners []uuid.UUID
	for id := range successes {
		winners = append(winners, id)
	}
	require.Len(t, winners, 1, "exactly one award attempt may win")

	bids, err := env.engine.ListBidsForProject(context.Background(), p.ID, buyer.ID)
	require.NoError(t, err)
	accepted := 0
	for _, b := range bids {
		if b.Status == bid.StatusAccepted {
			accepted++
			assert.Equal(t, winners[0], b.ID)
		} else {
			assert.Equal(t, bid.StatusRejected, b.Status)
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestMarkBidReviewed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	buyer := env.registerBuyer(t, "acme")
	supplier := env.registerSupplier(t, "widgets")
	p := env.createProject(t, buyer.ID)
	b := env.submitBid(t, p.ID, supplier.ID, 500)

	reviewed, err := env.engine.MarkBidReviewed(ctx, p.ID, b.ID, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, bid.StatusReviewed, reviewed.Status)

	// Idempotent.
	again, err := env.engine.MarkBidReviewed(ctx, p.ID, b.ID, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, bid.StatusReviewed, again.Status)

	// A reviewed bid is still acceptable.
	awarded, err := env.engine.AcceptBid(ctx, p.ID, b.ID, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, project.StatusAwarded, awarded.Status)

	// Terminal states cannot be reviewed.
	_, err = env.engine.MarkBidReviewed(ctx, p.ID, b.ID, buyer.ID)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidState))
}

func TestListBidsForProject(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	buyer := env.registerBuyer(t, "acme")
	s1 := env.registerSupplier(t, "first")
	s2 := env.registerSupplier(t, "second")
	s3 := env.registerSupplier(t, "outsider")
	p := env.createProject(t, buyer.ID)

	b1 := env.submitBid(t, p.ID, s1.ID, 500)
	env.clock.Advance(time.Minute)
	b2 := env.submitBid(t, p.ID, s2.ID, 300)

	t.Run("owner sees all bids ranked", func(t *testing.T) {
		bids, err := env.engine.ListBidsForProject(ctx, p.ID, buyer.ID)
		require.NoError(t, err)
		require.Len(t, bids, 2)
		assert.Equal(t, b2.ID, bids[0].ID)
		assert.Equal(t, b1.ID, bids[1].ID)
	})

	t.Run("supplier sees only their own bid", func(t *testing.T) {
		bids, err := env.engine.ListBidsForProject(ctx, p.ID, s1.ID)
		require.NoError(t, err)
		require.Len(t, bids, 1)
		assert.Equal(t, b1.ID, bids[0].ID)
	})

	t.Run("non-participant sees nothing", func(t *testing.T) {
		_, err := env.engine.ListBidsForProject(ctx, p.ID, s3.ID)
		assert.True(t, errors.IsType(err, errors.ErrorTypeForbidden))
	})
}

func TestRankBids(t *testing.T) {
	t1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	t3 := t2.Add(time.Minute)

	mk := func(amount int64, at time.Time) *bid.Bid {
		return &bid.Bid{
			ID:          uuid.New(),
			Amount:      values.MustNewMoney(decimal.NewFromInt(amount), values.KRW),
			SubmittedAt: at,
		}
	}

	a := mk(500, t1)
	b := mk(300, t2)
	c := mk(300, t3)

	bids := []*bid.Bid{a, b, c}
	lifecycle.RankBids(bids)

	assert.Equal(t, []*bid.Bid{b, c, a}, bids)
}

func TestProjectStatusFolding(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	buyer := env.registerBuyer(t, "acme")
	p := env.createProject(t, buyer.ID)

	env.clock.Advance(100 * time.Hour)

	got, err := env.engine.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, project.StatusClosed, got.Status)

	open, err := env.engine.ListOpenProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}
