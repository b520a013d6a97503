package records

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leanledger/leanledger/internal/ledger/accounts"
	"github.com/leanledger/leanledger/internal/ledger/shared"
)

func TestDeriveType(t *testing.T) {
	cases := []struct {
		name        string
		accountType accounts.AccountType
		amount      string
		want        VariationType
	}{
		{"origin increase is credit", accounts.TypeOrigin, "10.00", Credit},
		{"origin decrease is debit", accounts.TypeOrigin, "-10.00", Debit},
		{"destination increase is debit", accounts.TypeDestination, "10.00", Debit},
		{"destination decrease is credit", accounts.TypeDestination, "-10.00", Credit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DeriveType(tc.accountType, decimal.RequireFromString(tc.amount))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDeriveTypeZeroAmount(t *testing.T) {
	_, err := DeriveType(accounts.TypeOrigin, decimal.Zero)
	require.ErrorIs(t, err, shared.ErrZeroAmount)

	_, err = DeriveType(accounts.TypeDestination, decimal.RequireFromString("0.00"))
	require.ErrorIs(t, err, shared.ErrZeroAmount)
}

func TestDeriveTypeUnknownAccountType(t *testing.T) {
	_, err := DeriveType(accounts.AccountType("X"), decimal.NewFromInt(5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrUnknownAccountType))
}

func TestIsIncreaseMatchesDeriveType(t *testing.T) {
	for _, accType := range []accounts.AccountType{accounts.TypeOrigin, accounts.TypeDestination} {
		for _, amount := range []decimal.Decimal{decimal.NewFromInt(42), decimal.NewFromInt(-42)} {
			vt, err := DeriveType(accType, amount)
			require.NoError(t, err)
			assert.Equal(t, amount.IsPositive(), IsIncrease(accType, vt),
				"type=%s amount=%s", accType, amount)
		}
	}
}

func TestSignedAmountRoundTrip(t *testing.T) {
	magnitude := decimal.RequireFromString("123.45")
	for _, accType := range []accounts.AccountType{accounts.TypeOrigin, accounts.TypeDestination} {
		for _, vt := range []VariationType{Debit, Credit} {
			signed := SignedAmount(magnitude, accType, vt)
			got, err := DeriveType(accType, signed)
			require.NoError(t, err)
			assert.Equal(t, vt, got, "type=%s variation=%s", accType, vt)
			assert.True(t, signed.Abs().Equal(magnitude))
		}
	}
}

func TestSignedAmountSigns(t *testing.T) {
	m := decimal.RequireFromString("50.00")
	// Credit on a Destination account decreases it.
	assert.True(t, SignedAmount(m, accounts.TypeDestination, Credit).Equal(m.Neg()))
	// Debit on a Destination account increases it.
	assert.True(t, SignedAmount(m, accounts.TypeDestination, Debit).Equal(m))
	// Credit on an Origin account increases it.
	assert.True(t, SignedAmount(m, accounts.TypeOrigin, Credit).Equal(m))
	// Debit on an Origin account decreases it.
	assert.True(t, SignedAmount(m, accounts.TypeOrigin, Debit).Equal(m.Neg()))
}
