package view

import (
	"testing"

	"txadmin/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleList() []models.Transaction {
	return []models.Transaction{
		{ID: "1", Description: "Deposit", Amount: decimal.NewFromInt(10), Status: models.StatusPending},
		{ID: "42", Description: "Withdrawal", Amount: decimal.RequireFromString("12.5"), Status: models.StatusPending},
		{ID: "3", Description: "Transfer", Amount: decimal.NewFromInt(3), Status: models.StatusCompleted},
	}
}

func TestComputeDisplay_NonAdminAllLocked(t *testing.T) {
	rows := ComputeDisplay(sampleList(), false)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, VariantLocked, row.Variant, "non-admin must never see controls")
	}
}

func TestComputeDisplay_AdminVariants(t *testing.T) {
	rows := ComputeDisplay(sampleList(), true)
	require.Len(t, rows, 3)
	assert.Equal(t, VariantActionable, rows[0].Variant)
	assert.Equal(t, VariantActionable, rows[1].Variant)
	assert.Equal(t, VariantSettled, rows[2].Variant)
}

func TestComputeDisplay_UnknownStatusSettles(t *testing.T) {
	list := []models.Transaction{{ID: "9", Status: models.Status("Disputed")}}
	rows := ComputeDisplay(list, true)
	require.Len(t, rows, 1)
	assert.Equal(t, VariantSettled, rows[0].Variant)
}

func TestComputeDisplay_PendingCaseInsensitive(t *testing.T) {
	list := []models.Transaction{{ID: "9", Status: models.Status("Pending")}}
	rows := ComputeDisplay(list, true)
	require.Len(t, rows, 1)
	assert.Equal(t, VariantActionable, rows[0].Variant)
}

func TestComputeDisplay_PreservesOrder(t *testing.T) {
	rows := ComputeDisplay(sampleList(), true)
	assert.Equal(t, "1", rows[0].Transaction.ID)
	assert.Equal(t, "42", rows[1].Transaction.ID)
	assert.Equal(t, "3", rows[2].Transaction.ID)
}

func TestApplyConfirmed_ReplacesInPlace(t *testing.T) {
	list := sampleList()
	updated := models.Transaction{ID: "42", Description: "Withdrawal", Amount: decimal.RequireFromString("12.5"), Status: models.StatusCompleted}

	next, err := ApplyConfirmed(list, "42", updated)
	require.NoError(t, err)
	require.Len(t, next, 3)
	assert.Equal(t, models.StatusCompleted, next[1].Status)
	// neighbours untouched, order preserved
	assert.Equal(t, "1", next[0].ID)
	assert.Equal(t, "3", next[2].ID)
	// input not mutated
	assert.Equal(t, models.StatusPending, list[1].Status)
}

func TestApplyConfirmed_Idempotent(t *testing.T) {
	list := sampleList()
	updated := models.Transaction{ID: "42", Status: models.StatusCompleted}

	once, err := ApplyConfirmed(list, "42", updated)
	require.NoError(t, err)
	twice, err := ApplyConfirmed(once, "42", updated)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestApplyConfirmed_StaleID(t *testing.T) {
	list := sampleList()
	_, err := ApplyConfirmed(list, "missing", models.Transaction{ID: "missing"})
	assert.ErrorIs(t, err, ErrStaleView)
	// the cached list is untouched
	assert.Len(t, list, 3)
}

func TestListStates(t *testing.T) {
	var l List
	assert.Equal(t, StateNotLoaded, l.State(), "fresh list has never been fetched")

	l.Replace(nil)
	assert.Equal(t, StateEmpty, l.State(), "successful empty fetch is its own state")

	l.Replace(sampleList())
	assert.Equal(t, StateLoaded, l.State())

	l.Replace([]models.Transaction{})
	assert.Equal(t, StateEmpty, l.State())
}

func TestListConfirm(t *testing.T) {
	var l List
	l.Replace(sampleList())

	require.NoError(t, l.Confirm("42", models.Transaction{ID: "42", Status: models.StatusCompleted}))
	assert.Equal(t, models.StatusCompleted, l.Items()[1].Status)

	err := l.Confirm("missing", models.Transaction{ID: "missing"})
	assert.ErrorIs(t, err, ErrStaleView)
}

func TestRowGuard(t *testing.T) {
	var g RowGuard

	assert.True(t, g.Begin("42"))
	assert.False(t, g.Begin("42"), "second submit on the same row must be blocked")
	assert.True(t, g.Begin("7"), "other rows are independent")

	g.End("42")
	assert.True(t, g.Begin("42"), "row is usable again after the call finishes")
}

func TestFetchSequencer_DropsStaleResults(t *testing.T) {
	var s FetchSequencer

	first := s.Next()
	second := s.Next()

	// the later fetch resolves first and wins
	assert.True(t, s.Commit(second))
	// the earlier fetch resolves late and is dropped
	assert.False(t, s.Commit(first))

	third := s.Next()
	assert.True(t, s.Commit(third))
}

func TestSummarize(t *testing.T) {
	list := append(sampleList(), models.Transaction{ID: "4", Amount: decimal.NewFromInt(5), Status: models.Status("Pending")})

	sums := Summarize(list)
	require.Len(t, sums, 2)

	assert.Equal(t, models.Status("pending"), sums[0].Status)
	assert.Equal(t, 3, sums[0].Count)
	assert.True(t, sums[0].Total.Equal(decimal.RequireFromString("27.5")), "pending total: %s", sums[0].Total)

	assert.Equal(t, models.Status("completed"), sums[1].Status)
	assert.Equal(t, 1, sums[1].Count)
	assert.True(t, sums[1].Total.Equal(decimal.NewFromInt(3)))
}
