package payme

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}{
		{name: "number", raw: `150000`, want: 150000},
		{name: "quoted number", raw: `"42"`, want: 42},
		{name: "integral float", raw: `1000.0`, want: 1000},
		{name: "fraction", raw: `10.5`, wantErr: true},
		{name: "word", raw: `"abc"`, wantErr: true},
		{name: "object", raw: `{"a":1}`, wantErr: true},
		{name: "null", raw: `null`, wantErr: true},
		{name: "max int64", raw: `"9223372036854775807"`, want: 9223372036854775807},
		{name: "above int64", raw: `"18446744073709551633"`, wantErr: true},
		{name: "above int64 unquoted", raw: `18446744073709601616`, wantErr: true},
		{name: "above int64 as float", raw: `18446744073709551633.0`, wantErr: true},
		{name: "below int64", raw: `"-18446744073709551633"`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var s Scalar
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &s))
			got, err := s.Int64()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeParams(t *testing.T) {
	t.Parallel()

	t.Run("create transaction", func(t *testing.T) {
		t.Parallel()
		p, perr := DecodeParams[CreateTransactionParams](json.RawMessage(
			`{"id":"5305e3bab097f420a62ced0b","time":1399114284039,"amount":500000,"account":{"user_id":"17"}}`,
		))
		require.Nil(t, perr)
		assert.Equal(t, Scalar("5305e3bab097f420a62ced0b"), p.ID)
		assert.Equal(t, Scalar("17"), p.Account.UserID)
		amount, err := p.Amount.Int64()
		require.NoError(t, err)
		assert.Equal(t, int64(500000), amount)
	})

	t.Run("numeric user id is accepted", func(t *testing.T) {
		t.Parallel()
		p, perr := DecodeParams[CheckPerformTransactionParams](json.RawMessage(`{"amount":1000,"account":{"user_id":17}}`))
		require.Nil(t, perr)
		assert.Equal(t, Scalar("17"), p.Account.UserID)
	})

	t.Run("missing id names the field", func(t *testing.T) {
		t.Parallel()
		_, perr := DecodeParams[PerformTransactionParams](json.RawMessage(`{"time":1399114284039}`))
		require.NotNil(t, perr)
		assert.Equal(t, CodeInvalidRequest, perr.Code)
		assert.Equal(t, "id", perr.Data)
	})

	t.Run("non-integer reason names the field", func(t *testing.T) {
		t.Parallel()
		_, perr := DecodeParams[CancelTransactionParams](json.RawMessage(`{"id":"a","reason":"soon"}`))
		require.NotNil(t, perr)
		assert.Equal(t, "reason", perr.Data)
	})

	t.Run("missing params object", func(t *testing.T) {
		t.Parallel()
		_, perr := DecodeParams[CheckTransactionParams](nil)
		require.NotNil(t, perr)
		assert.Equal(t, "id", perr.Data)
	})

	t.Run("params must be an object", func(t *testing.T) {
		t.Parallel()
		_, perr := DecodeParams[CheckTransactionParams](json.RawMessage(`[1,2]`))
		require.NotNil(t, perr)
		assert.Equal(t, "params", perr.Data)
	})

	t.Run("statement bounds", func(t *testing.T) {
		t.Parallel()
		_, perr := DecodeParams[GetStatementParams](json.RawMessage(`{"from":1399114284039}`))
		require.NotNil(t, perr)
		assert.Equal(t, "to", perr.Data)
	})
}
