package store_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/fulfillment/internal/store"
)

func TestNormalizeCustomer(t *testing.T) {
	tests := []struct {
		name string
		raw  store.JSON
		want *store.CustomerName
	}{
		{
			name: "list takes first element",
			raw:  store.JSON(`[{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"},{"firstName":"Bob"}]`),
			want: &store.CustomerName{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		},
		{
			name: "empty list",
			raw:  store.JSON(`[]`),
			want: nil,
		},
		{
			name: "object passthrough",
			raw:  store.JSON(`{"firstName":"Grace","lastName":"Hopper","email":"grace@example.com"}`),
			want: &store.CustomerName{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"},
		},
		{
			name: "json null",
			raw:  store.JSON(`null`),
			want: nil,
		},
		{
			name: "sql null",
			raw:  nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.NormalizeCustomer(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeCustomer_RejectsScalars(t *testing.T) {
	_, err := store.NormalizeCustomer(store.JSON(`42`))
	assert.Error(t, err)
}

func TestJSON_Scan(t *testing.T) {
	var j store.JSON

	require.NoError(t, j.Scan([]byte(`{"city":"Austin"}`)))
	assert.JSONEq(t, `{"city":"Austin"}`, string(j))

	require.NoError(t, j.Scan(`{"city":"Dallas"}`))
	assert.JSONEq(t, `{"city":"Dallas"}`, string(j))

	require.NoError(t, j.Scan(nil))
	assert.True(t, j.IsNull())

	assert.Error(t, j.Scan(12))
}

func TestJSON_MarshalInsideStruct(t *testing.T) {
	order := store.Order{ShippingAddress: store.JSON(`{"city":"Austin"}`)}
	data, err := json.Marshal(order)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, map[string]any{"city": "Austin"}, decoded["shippingAddress"])

	empty, err := json.Marshal(store.Order{})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(empty, &decoded))
	assert.Nil(t, decoded["shippingAddress"])
}

func TestJSON_Value(t *testing.T) {
	v, err := store.JSON(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = store.JSON(`{"a":1}`).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), v)
}

func TestPgErrorIsClassified(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "57P01", Message: "terminating connection due to administrator command"}
	wrapped := fmt.Errorf("query: %w", pgErr)

	assert.True(t, store.IsUnavailable(wrapped))
	assert.False(t, store.IsUnavailable(&pgconn.PgError{Code: "42P01"}))
	assert.False(t, store.IsUnavailable(errors.New("boom")))
}
