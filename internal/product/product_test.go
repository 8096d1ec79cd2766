package product

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseStoreID(t *testing.T) {
	table := []struct {
		input    string
		expected StoreID
	}{
		{input: "AMAZON", expected: AMAZON},
		{input: " newegg\n", expected: NEWEGG},
		{input: "CANADA_COMPUTERS", expected: CANADA_COMPUTERS},
		{input: "canada-computers", expected: CANADA_COMPUTERS},
		{input: "Canada Computers", expected: CANADA_COMPUTERS},
	}
	for _, row := range table {
		result, err := ParseStoreID(row.input)
		require.NoError(t, err, row.input)
		require.Equal(t, row.expected, result)
	}

	_, err := ParseStoreID("BESTBUY")
	require.ErrorIs(t, err, ErrUnknownStore)
}

func TestStoreIDText(t *testing.T) {
	for _, s := range Stores {
		require.True(t, s.Valid())

		text, err := s.MarshalText()
		require.NoError(t, err)

		var parsed StoreID
		require.NoError(t, parsed.UnmarshalText(text))
		require.Equal(t, s, parsed)
	}

	require.False(t, StoreID(0).Valid())
	_, err := StoreID(0).MarshalText()
	require.ErrorIs(t, err, ErrUnknownStore)
}

func TestTargetJSON(t *testing.T) {
	var target Target
	err := json.Unmarshal([]byte(`{"id":"rtx-3090","store":"NEWEGG","url":"https://newegg.ca/p/1","title":"RTX 3090"}`), &target)
	require.NoError(t, err)
	require.Equal(t, Key{ProductID: "rtx-3090", Store: NEWEGG}, target.Key())

	err = json.Unmarshal([]byte(`{"id":"x","store":"EBAY"}`), &target)
	require.ErrorIs(t, err, ErrUnknownStore)
}

func TestFallback(t *testing.T) {
	target := Target{ProductID: "ram", Store: CANADA_COMPUTERS, URL: "https://cc/ram", Title: "GSKILL RipJaws 32GB"}
	snap := Fallback(target)

	require.Equal(t, target.Key(), snap.Key())
	require.Equal(t, target.Title, snap.Title())
	require.Equal(t, target.URL, snap.URL())
	require.False(t, snap.InStock())
	require.False(t, snap.Price().Valid)
}

func TestSnapshotString(t *testing.T) {
	key := Key{ProductID: "rtx", Store: AMAZON}
	priced := New(key, "RTX 3090 TI", "https://amazon.com/x", decimal.NewNullDecimal(decimal.RequireFromString("1999.99")), true)
	require.Equal(t, "RTX 3090 TI is in stock at Amazon for $1999.99", priced.String())

	unpriced := New(key, "RTX 3090 TI", "https://amazon.com/x", decimal.NullDecimal{}, false)
	require.Equal(t, "RTX 3090 TI is out of stock at Amazon (price unavailable)", unpriced.String())
}

func TestRecordRoundTrip(t *testing.T) {
	key := Key{ProductID: "rtx", Store: NEWEGG}
	snap := New(key, "RTX", "https://newegg.ca/rtx", decimal.NewNullDecimal(decimal.RequireFromString("10.50")), true)

	record := snap.Record()
	require.Equal(t, "NEWEGG", record.StoreId)

	encoded, err := json.Marshal(record)
	require.NoError(t, err)
	require.JSONEq(t, `{"PartId":"rtx","StoreId":"NEWEGG","Name":"RTX","Price":"10.5","Url":"https://newegg.ca/rtx","InStock":true}`, string(encoded))

	back, err := FromRecord(record)
	require.NoError(t, err)
	require.Equal(t, snap.Key(), back.Key())
	require.True(t, snap.Price().Decimal.Equal(back.Price().Decimal))

	_, err = FromRecord(Record{PartId: "rtx", StoreId: "NOWHERE"})
	require.ErrorIs(t, err, ErrUnknownStore)
	_, err = FromRecord(Record{StoreId: "AMAZON"})
	require.Error(t, err)
}
