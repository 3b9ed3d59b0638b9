package history_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-historic/internal/history"
)

func TestNewYearStrategy_YearOf(t *testing.T) {
	tests := []struct {
		name         string
		rule         history.NewYearRule
		month, day   int
		standard     int
		wantHistoric int
	}{
		{"January", history.BeginOfJanuary, 2, 1, 1500, 1500},
		{"March before", history.BeginOfMarch, 2, 28, 1400, 1399},
		{"March on", history.BeginOfMarch, 3, 1, 1400, 1400},
		{"September before", history.BeginOfSeptember, 8, 31, 1522, 1521},
		{"September on", history.BeginOfSeptember, 9, 1, 1522, 1522},
		{"Annunciation before", history.Annunciation, 3, 24, 1603, 1602},
		{"Annunciation on", history.Annunciation, 3, 25, 1603, 1603},
		{"Christmas before", history.ChristmasStyle, 12, 24, 1066, 1066},
		{"Christmas on", history.ChristmasStyle, 12, 25, 1066, 1067},
		{"Pisan before", history.CalculusPisanus, 3, 24, 1300, 1300},
		{"Pisan on", history.CalculusPisanus, 3, 25, 1300, 1301},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := history.Always(tt.rule)
			assert.Equal(t, tt.wantHistoric, s.YearOf(tt.standard, tt.month, tt.day))
		})
	}
}

func TestNewYearStrategy_Segments(t *testing.T) {
	s := history.BeginOfMarch.Until(1492).
		And(history.BeginOfSeptember.Until(1700)).
		And(history.Annunciation.Until(1600)) // out of order, ignored

	assert.Equal(t, history.BeginOfMarch, s.Rule(-500))
	assert.Equal(t, history.BeginOfSeptember, s.Rule(1699))
	assert.Equal(t, history.BeginOfJanuary, s.Rule(1700))
	assert.Equal(t, "begin-of-march->1492,begin-of-september->1700", s.String())

	assert.True(t, history.NewYearStrategy{}.IsDefault())
	assert.False(t, s.IsDefault())
	assert.True(t, s.Equal(history.BeginOfMarch.Until(1492).And(history.BeginOfSeptember.Until(1700))))
	assert.True(t, history.ChristmasStyle.Forward())
	assert.False(t, history.Annunciation.Forward())
}
