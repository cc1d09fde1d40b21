package accumulators

import (
	"testing"

	"github.com/go-sif/esframe"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func accumulateAll(t *testing.T, acc esframe.Accumulator, raw ...string) {
	for _, r := range raw {
		require.Nil(t, acc.Accumulate(gjson.Parse(r)))
	}
}

func TestCount(t *testing.T) {
	acc := Counter()
	accumulateAll(t, acc, `1`, `"a"`, `true`)
	other := Counter()
	accumulateAll(t, other, `2`)
	require.Nil(t, acc.Merge(other))
	require.EqualValues(t, 4, acc.(*Count).GetCount())
	require.Equal(t, map[string]interface{}{"value": uint64(4)}, acc.Result())
	require.NotNil(t, acc.Merge(Adder()))
}

func TestSum(t *testing.T) {
	acc := Adder()
	accumulateAll(t, acc, `1.5`, `2`, `"3.5"`)
	require.Equal(t, 7.0, acc.(*Sum).GetSum())
	require.NotNil(t, acc.Accumulate(gjson.Parse(`"abc"`)))
	require.NotNil(t, acc.Accumulate(gjson.Parse(`true`)))
	require.NotNil(t, acc.Merge(Counter()))
}

func TestExtendedStats(t *testing.T) {
	acc := ExtendedStatsAccumulator()
	accumulateAll(t, acc, `2`, `4`)
	other := ExtendedStatsAccumulator()
	accumulateAll(t, other, `4`, `4`, `5`, `5`, `7`, `9`)
	require.Nil(t, acc.Merge(other))
	result := acc.Result()
	require.Equal(t, uint64(8), result["count"])
	require.Equal(t, 2.0, result["min"])
	require.Equal(t, 9.0, result["max"])
	require.Equal(t, 5.0, result["avg"])
	require.Equal(t, 40.0, result["sum"])
	require.InDelta(t, 4.0, result["variance"].(float64), 1e-9)
	require.InDelta(t, 2.0, result["std_deviation"].(float64), 1e-9)
}

func TestExtendedStatsEmpty(t *testing.T) {
	result := ExtendedStatsAccumulator().Result()
	require.Equal(t, uint64(0), result["count"])
	require.Nil(t, result["avg"])
	require.Nil(t, result["min"])
	require.Nil(t, result["max"])
	require.Nil(t, result["std_deviation"])

	// merging an empty accumulator changes nothing
	acc := ExtendedStatsAccumulator()
	accumulateAll(t, acc, `3`)
	require.Nil(t, acc.Merge(ExtendedStatsAccumulator()))
	require.Equal(t, 3.0, acc.Result()["min"])
	require.Equal(t, 3.0, acc.Result()["max"])
}

func TestPercentiles(t *testing.T) {
	acc := PercentilesAccumulator(25, 50, 75)()
	accumulateAll(t, acc, `24.99`, `11.99`)
	other := PercentilesAccumulator(25, 50, 75)()
	accumulateAll(t, other, `53.96`, `20.99`)
	require.Nil(t, acc.Merge(other))
	values := acc.Result()["values"].(map[string]interface{})
	require.InDelta(t, 18.74, values["25.0"].(float64), 1e-9)
	require.InDelta(t, 22.99, values["50.0"].(float64), 1e-9)
	require.InDelta(t, 32.2325, values["75.0"].(float64), 1e-9)
}

func TestPercentilesEmpty(t *testing.T) {
	values := PercentilesAccumulator(50)().Result()["values"].(map[string]interface{})
	require.Equal(t, map[string]interface{}{"50.0": nil}, values)
}

func TestComposed(t *testing.T) {
	acc := Compose(Counter, Adder)()
	accumulateAll(t, acc, `1`, `2`)
	other := Compose(Counter, Adder)()
	accumulateAll(t, other, `3`)
	require.Nil(t, acc.Merge(other))
	results := acc.(*Composed).GetResults()
	require.Len(t, results, 2)
	require.EqualValues(t, 3, results[0].(*Count).GetCount())
	require.Equal(t, 6.0, results[1].(*Sum).GetSum())
	require.NotNil(t, acc.Accumulate(gjson.Parse(`"x"`)))
	require.NotNil(t, acc.Merge(Compose(Counter)()))
	require.NotNil(t, acc.Merge(Counter()))
}
