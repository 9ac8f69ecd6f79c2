package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"senstosales/internal/domain"
	"senstosales/internal/ledger"
	"senstosales/mocks"
)

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCheck(t *testing.T) {
	k := ledger.LineKey("L1")

	assert.NoError(t, ledger.Check(k, qty("40"), qty("40")))

	err := ledger.Check(k, qty("50"), qty("40"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBusinessRuleViolation)
	assert.Contains(t, err.Error(), "exceeds remaining (40)")
	assert.Contains(t, err.Error(), "PO line L1")

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "50", de.Details["requested"])
	assert.Equal(t, "40", de.Details["remaining"])
}

func TestTally_Accumulates(t *testing.T) {
	tally := ledger.Tally{}
	assert.Equal(t, "30", tally.Add(ledger.LineKey("L1"), qty("30")).String())
	assert.Equal(t, "55", tally.Add(ledger.LineKey("L1"), qty("25")).String())
	assert.Equal(t, "5", tally.Add(ledger.LotKey("L1", 1), qty("5")).String())
}

func TestKeyFor(t *testing.T) {
	lot := 2
	assert.Equal(t, ledger.LotKey("L1", 2), ledger.KeyFor("L1", &lot))
	assert.Equal(t, ledger.LineKey("L1"), ledger.KeyFor("L1", nil))
	assert.Nil(t, ledger.LineKey("L1").Lot())
	assert.Equal(t, 2, *ledger.LotKey("L1", 2).Lot())
	assert.Equal(t, "PO line L1 lot 2", ledger.LotKey("L1", 2).String())
}

func TestBook_Remaining(t *testing.T) {
	repo := new(mocks.MockLedgerRepo)
	repo.On("Ordered", mock.Anything, "L1", (*int)(nil)).Return(qty("100"), nil)
	repo.On("Dispatched", mock.Anything, "L1", (*int)(nil), "DC-A").Return(qty("60"), nil)

	got, err := ledger.New(repo).Remaining(context.Background(), ledger.LineKey("L1"), "DC-A")

	require.NoError(t, err)
	assert.Equal(t, "40", got.String())
	repo.AssertExpectations(t)
}

func TestBook_RemainingMayBeNegative(t *testing.T) {
	repo := new(mocks.MockLedgerRepo)
	repo.On("Ordered", mock.Anything, "L1", (*int)(nil)).Return(qty("10"), nil)
	repo.On("Dispatched", mock.Anything, "L1", (*int)(nil), "").Return(qty("12.5"), nil)

	got, err := ledger.New(repo).Remaining(context.Background(), ledger.LineKey("L1"), "")

	require.NoError(t, err)
	assert.Equal(t, "-2.5", got.String())
}

func TestBook_Position(t *testing.T) {
	repo := new(mocks.MockLedgerRepo)
	repo.On("Ordered", mock.Anything, "L1", mock.Anything).Return(qty("100"), nil)
	repo.On("Dispatched", mock.Anything, "L1", mock.Anything, "").Return(qty("60"), nil)
	repo.On("Invoiced", mock.Anything, "L1", mock.Anything).Return(qty("60"), nil)

	pos, err := ledger.New(repo).Position(context.Background(), ledger.LotKey("L1", 1))

	require.NoError(t, err)
	assert.Equal(t, "40", pos.Remaining.String())
	assert.Equal(t, "60", pos.Invoiced.String())
}

func TestBook_UnknownLine(t *testing.T) {
	repo := new(mocks.MockLedgerRepo)
	repo.On("Ordered", mock.Anything, "nope", (*int)(nil)).Return(decimal.Zero, domain.ErrNotFound)

	_, err := ledger.New(repo).Remaining(context.Background(), ledger.LineKey("nope"), "")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
