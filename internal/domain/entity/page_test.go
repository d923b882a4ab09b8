package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageIndicator(t *testing.T) {
	tests := []struct {
		name string
		text string
		want PageInfo
	}{
		{"Portuguese", "Página 2 de 10", PageInfo{Current: 2, Total: 10}},
		{"English", "Page 1 of 4", PageInfo{Current: 1, Total: 4}},
		{"Last page", "Page 4 of 4", PageInfo{Current: 4, Total: 4}},
		{"Padded", "  Página 12 de 15 ", PageInfo{Current: 12, Total: 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePageIndicator(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePageIndicator_Invalid(t *testing.T) {
	_, err := ParsePageIndicator("")
	assert.ErrorIs(t, err, ErrElementNotFound)

	_, err = ParsePageIndicator("Page 3")
	assert.ErrorIs(t, err, ErrElementNotFound)

	_, err = ParsePageIndicator("Page 5 of 4")
	assert.Error(t, err)

	_, err = ParsePageIndicator("Page 0 of 4")
	assert.Error(t, err)
}

func TestPageInfo_Percentage(t *testing.T) {
	assert.InDelta(t, 20.0, PageInfo{Current: 2, Total: 10}.Percentage(), 1e-9)
	assert.Zero(t, PageInfo{}.Percentage())
}
