package tracker

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "€ 0.00"},
		{"12.5", "€ 12.50"},
		{"1000", "€ 1,000.00"},
		{"1234567.891", "€ 1,234,567.89"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestInputPrice(t *testing.T) {
	assert.Equal(t, "1000.00", inputPrice(decimal.NewFromInt(1000)))
	assert.Equal(t, "0.10", inputPrice(decimal.RequireFromString("0.1")))
}
