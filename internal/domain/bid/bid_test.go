package bid

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/values"
)

var now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func krw(amount int64) values.Money {
	return values.MustNewMoney(decimal.NewFromInt(amount), values.KRW)
}

func TestNew(t *testing.T) {
	projectID, bidderID := uuid.New(), uuid.New()

	t.Run("valid", func(t *testing.T) {
		b, err := New(projectID, bidderID, krw(1000), 14, "We deliver.", now)
		require.NoError(t, err)
		assert.Equal(t, StatusSubmitted, b.Status)
		assert.Nil(t, b.AcceptedAt)
	})

	t.Run("zero amount", func(t *testing.T) {
		_, err := New(projectID, bidderID, values.Zero(values.KRW), 14, "p", now)
		assert.Error(t, err)
	})

	t.Run("negative delivery days", func(t *testing.T) {
		_, err := New(projectID, bidderID, krw(1000), -1, "p", now)
		assert.Error(t, err)
	})

	t.Run("blank proposal", func(t *testing.T) {
		_, err := New(projectID, bidderID, krw(1000), 14, "  ", now)
		assert.Error(t, err)
	})
}

func TestTransitions(t *testing.T) {
	b, err := New(uuid.New(), uuid.New(), krw(1000), 14, "p", now)
	require.NoError(t, err)

	assert.True(t, b.IsAcceptable())
	assert.False(t, b.IsDecided())

	b.MarkReviewed(now)
	assert.Equal(t, StatusReviewed, b.Status)
	assert.True(t, b.IsAcceptable(), "reviewed bids can still win")

	b.Accept(now.Add(time.Hour))
	assert.Equal(t, StatusAccepted, b.Status)
	require.NotNil(t, b.AcceptedAt)
	assert.Equal(t, now.Add(time.Hour), *b.AcceptedAt)
	assert.True(t, b.IsDecided())
	assert.False(t, b.IsAcceptable())
}

func TestReject(t *testing.T) {
	b, err := New(uuid.New(), uuid.New(), krw(1000), 14, "p", now)
	require.NoError(t, err)

	b.Reject(now)
	assert.Equal(t, StatusRejected, b.Status)
	assert.Nil(t, b.AcceptedAt)
	assert.True(t, b.IsDecided())
}

func TestParseStatus(t *testing.T) {
	for _, s := range []Status{StatusSubmitted, StatusReviewed, StatusAccepted, StatusRejected} {
		got, err := ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStatus("bogus")
	assert.Error(t, err)
}
