package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePriceQuery(t *testing.T) {
	tests := []struct {
		name string
		text string
		want PriceQuery
	}{
		{"symbol only", "BTC", PriceQuery{Symbol: "BTC", Currency: "USD"}},
		{"symbol and currency", "eth eur", PriceQuery{Symbol: "eth", Currency: "eur"}},
		{"surrounding spaces", "  btc  ", PriceQuery{Symbol: "btc", Currency: "USD"}},
		{"extra words stay in currency", "btc eur now", PriceQuery{Symbol: "btc", Currency: "eur now"}},
		{"trailing space only", "btc ", PriceQuery{Symbol: "btc", Currency: "USD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePriceQuery(tt.text))
		})
	}
}

func TestQueryRequest_Validate(t *testing.T) {
	assert.Error(t, (&QueryRequest{Text: "   "}).Validate())
	assert.NoError(t, (&QueryRequest{ChatID: "1", Text: "btc"}).Validate())
}
