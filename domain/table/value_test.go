package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueMissingNeverEqual(t *testing.T) {
	assert.False(t, Missing().Equal(Missing()))
	assert.False(t, Missing().Equal(Number(1)))
	assert.False(t, String("x").Equal(Missing()))
}

func TestValueNumericCrossCoercion(t *testing.T) {
	assert.True(t, Number(5).Equal(String("5")))
	assert.True(t, String("5.0").Equal(Number(5)))
	assert.False(t, Number(5).Equal(String("five")))
	assert.True(t, String("a").Equal(String("a")))
}

func TestValueCompare(t *testing.T) {
	c, ok := Number(2).Compare(String("10"))
	require.True(t, ok)
	assert.Equal(t, -1, c, "numeric comparison, not lexical")

	c, ok = String("b").Compare(String("a"))
	require.True(t, ok)
	assert.Equal(t, 1, c)

	_, ok = Missing().Compare(Number(1))
	assert.False(t, ok)
}

func TestValueAsTime(t *testing.T) {
	ts, ok := String("2024-03-15").AsTime()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), ts)

	ts, ok = String("03/15/2024").AsTime()
	require.True(t, ok)
	assert.Equal(t, 2024, ts.Year())

	_, ok = String("not a date").AsTime()
	assert.False(t, ok)
	_, ok = Missing().AsTime()
	assert.False(t, ok)
}

func TestValueStrAndLabel(t *testing.T) {
	assert.Equal(t, "3.5", Number(3.5).Str())
	assert.Equal(t, "3", Number(3).Str(), "no trailing zeros")
	assert.Equal(t, "", Missing().Str())
	assert.Equal(t, "NaN", Missing().Label())
	assert.Equal(t, "2024-01-07", Timestamp(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)).Str())
}

func TestValueAsFloat(t *testing.T) {
	f, ok := String(" 42.5 ").AsFloat()
	require.True(t, ok)
	assert.Equal(t, 42.5, f)

	_, ok = String("abc").AsFloat()
	assert.False(t, ok)
	_, ok = Missing().AsFloat()
	assert.False(t, ok)
}
