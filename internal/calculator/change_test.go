package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EconDash/internal/model"
)

func monthly(values ...float64) []model.IndicatorPoint {
	pts := make([]model.IndicatorPoint, len(values))
	for i, v := range values {
		pts[i] = pt(day(2023, 1, 1).AddMonths(i), v)
	}
	return pts
}

func TestChange(t *testing.T) {
	res, err := Change(monthly(200, 210))
	require.NoError(t, err)
	assert.Equal(t, 210.0, res.Current)
	assert.Equal(t, 200.0, res.Previous)
	assert.Equal(t, 10.0, res.Change)
	assert.Equal(t, 5.0, res.ChangePercent)

	_, err = Change(monthly(1))
	assert.Error(t, err)
}

func TestChange_ZeroPrevious(t *testing.T) {
	res, err := Change(monthly(0, 3))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.ChangePercent)
}

func TestYearOverYear(t *testing.T) {
	values := make([]float64, 13)
	for i := range values {
		values[i] = 300 + float64(i)
	}
	res, err := YearOverYear(monthly(values...))
	require.NoError(t, err)
	assert.Equal(t, 312.0, res.Current)
	assert.Equal(t, 301.0, res.Previous)

	_, err = YearOverYear(monthly(1, 2, 3))
	assert.Error(t, err)
}

func TestMovingAverage(t *testing.T) {
	out, err := MovingAverage(monthly(1, 2, 3, 4), 3)
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.False(t, out[1].HasAverage)
	assert.True(t, out[2].HasAverage)
	assert.Equal(t, 2.0, out[2].MovingAverage)
	assert.Equal(t, 3.0, out[3].MovingAverage)

	_, err = MovingAverage(monthly(1), 0)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	out := Normalize(monthly(10, 15, 20))
	require.Len(t, out, 3)
	assert.Equal(t, 0.0, out[0].Value)
	assert.Equal(t, 50.0, out[1].Value)
	assert.Equal(t, 100.0, out[2].Value)

	flat := monthly(7, 7)
	assert.Equal(t, flat, Normalize(flat))
}

func TestRange(t *testing.T) {
	low, high, err := Range(monthly(3.9, 3.4, 4.1, 3.7))
	require.NoError(t, err)
	assert.Equal(t, 3.4, low)
	assert.Equal(t, 4.1, high)

	_, _, err = Range(nil)
	assert.Error(t, err)
}

func TestPosition(t *testing.T) {
	pos, err := Position(15, 10, 20)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, pos, 1e-9)

	pos, _ = Position(25, 10, 20)
	assert.Equal(t, 1.0, pos)
	pos, _ = Position(5, 10, 20)
	assert.Equal(t, 0.0, pos)
	pos, _ = Position(7, 7, 7)
	assert.Equal(t, 0.5, pos)

	_, err = Position(1, 20, 10)
	assert.Error(t, err)
}
