package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress_PercentageText(t *testing.T) {
	assert.Equal(t, "Loading...", Progress{BotID: 1}.PercentageText())

	p := Progress{BotID: 1, Page: PageInfo{Current: 2, Total: 10}, HasPage: true}
	assert.Equal(t, "20.00%", p.PercentageText())

	p = Progress{BotID: 1, Page: PageInfo{Current: 1, Total: 3}, HasPage: true}
	assert.Equal(t, "33.33%", p.PercentageText())
}

func TestNewReport_Total(t *testing.T) {
	report := NewReport([]Progress{
		{BotID: 1, FormsSubmitted: 3},
		{BotID: 2, FormsSubmitted: 4},
		{BotID: 3},
	})

	assert.Len(t, report.Rows, 3)
	assert.Equal(t, 7, report.TotalSubmitted)
	assert.Zero(t, NewReport(nil).TotalSubmitted)
}
