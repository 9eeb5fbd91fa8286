package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/hauptbuch/internal/model"
)

func TestReverse_NegatesSameSide(t *testing.T) {
	orig := booking("B-2025-01-001", date(2025, 1, 15), "AR 2025-001", debit("1400", "5950"), credit("8400", "5000"), credit("1776", "950"))
	orig.ContactID = "K-100"
	orig.InvoiceID = "INV-1"
	orig.Kind = model.KindInvoice

	rev, flagged, err := Reverse(orig, "S-2025-01-001", date(2025, 1, 20), model.ReasonCancellation)
	require.NoError(t, err)

	require.Len(t, rev.Lines, 3)
	assert.Equal(t, "-5950.00", rev.Lines[0].Debit.StringFixed(2))
	assert.True(t, rev.Lines[0].Credit.IsZero())
	assert.Equal(t, "-5000.00", rev.Lines[1].Credit.StringFixed(2))
	assert.Equal(t, "-950.00", rev.Lines[2].Credit.StringFixed(2))
	for i := range orig.Lines {
		assert.Equal(t, orig.Lines[i].AccountID, rev.Lines[i].AccountID)
	}

	assert.Equal(t, "S-2025-01-001", rev.ID)
	assert.Equal(t, "B-2025-01-001", rev.ReversalOf)
	assert.Equal(t, model.ReasonCancellation, rev.ReversalReason)
	assert.Equal(t, model.KindInvoice, rev.Kind)
	assert.Equal(t, "K-100", rev.ContactID)
	assert.Equal(t, "INV-1", rev.InvoiceID)
	assert.Equal(t, date(2025, 1, 20), rev.Date)

	assert.True(t, flagged.IsReversed)
	assert.False(t, orig.IsReversed, "input is not mutated")
	assert.Equal(t, "5950.00", orig.Lines[0].Debit.StringFixed(2))
}

func TestReverse_RoundTripCancels(t *testing.T) {
	orig := booking("B-2025-01-001", date(2025, 1, 15), "Mix", debit("4210", "800"), debit("1576", "152"), credit("1600", "952"))
	rev, _, err := Reverse(orig, "S-2025-01-001", date(2025, 1, 16), model.ReasonError)
	require.NoError(t, err)

	both := []model.Transaction{orig, rev}
	for _, acct := range []model.Account{rent, payable, {ID: "1576", Type: model.AccountTypeAsset}} {
		assert.True(t, Balance(acct.ID, acct.Type, both).IsZero(), "account %s", acct.ID)
	}

	debitSum, creditSum := rev.Totals()
	assert.True(t, debitSum.Equal(creditSum))
}

func TestReverse_Defaults(t *testing.T) {
	orig := booking("B-2025-01-001", date(2025, 1, 15), "x", debit("1200", "1"), credit("8400", "1"))
	rev, _, err := Reverse(orig, "S-2025-01-001", date(2025, 1, 16), "")
	require.NoError(t, err)
	assert.Equal(t, model.ReasonOther, rev.ReversalReason)

	rev, _, err = Reverse(orig, "S-2025-01-002", model.Transaction{}.Date, model.ReasonError)
	require.NoError(t, err)
	assert.Equal(t, orig.Date, rev.Date, "zero date falls back to the original date")
}

func TestReverse_Errors(t *testing.T) {
	orig := booking("B-2025-01-001", date(2025, 1, 15), "x", debit("1200", "1"), credit("8400", "1"))

	reversed := orig
	reversed.IsReversed = true
	_, _, err := Reverse(reversed, "S-2025-01-001", date(2025, 1, 16), model.ReasonError)
	assert.ErrorIs(t, err, ErrAlreadyReversed)

	storno := orig
	storno.ReversalOf = "B-2024-12-001"
	_, _, err = Reverse(storno, "S-2025-01-001", date(2025, 1, 16), model.ReasonError)
	assert.ErrorIs(t, err, ErrReverseReversal)

	_, _, err = Reverse(model.Transaction{ID: "B-2025-01-009"}, "S-2025-01-001", date(2025, 1, 16), model.ReasonError)
	assert.ErrorIs(t, err, ErrEmptyTransaction)
}

func TestMarkReversed(t *testing.T) {
	a := booking("B-2025-01-001", date(2025, 1, 15), "a", debit("1200", "1"), credit("8400", "1"))
	b := booking("B-2025-01-002", date(2025, 1, 15), "b", debit("1200", "2"), credit("8400", "2"))
	rev, _, err := Reverse(a, "S-2025-01-001", date(2025, 1, 16), model.ReasonError)
	require.NoError(t, err)

	in := []model.Transaction{a, b, rev}
	out := MarkReversed(in)
	assert.True(t, out[0].IsReversed)
	assert.False(t, out[1].IsReversed)
	assert.False(t, out[2].IsReversed)
	assert.False(t, in[0].IsReversed)
}
