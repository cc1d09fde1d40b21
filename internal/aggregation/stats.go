package aggregation

import (
	"fmt"
	"strconv"

	"github.com/go-sif/esframe"
	"github.com/tidwall/gjson"
)

const (
	extendedStatsPrefix = "extended_stats_"
	percentilesPrefix   = "percentiles_"
)

// Percents are the percentiles requested for every described field
var Percents = []float64{25, 50, 75}

// ExtendedStatsName returns the name of the extended_stats aggregation for a field
func ExtendedStatsName(field string) string {
	return extendedStatsPrefix + field
}

// PercentilesName returns the name of the percentiles aggregation for a field
func PercentilesName(field string) string {
	return percentilesPrefix + field
}

// PercentileKey returns the key under which Elasticsearch reports a percentile value
func PercentileKey(percent float64) string {
	return strconv.FormatFloat(percent, 'f', 1, 64)
}

// BuildStatsRequest produces the aggregations needed to describe fields: for each
// field, an extended_stats aggregation (count, avg, std_deviation, min, max) and a
// percentiles aggregation (25, 50, 75), each named after the field.
func BuildStatsRequest(fields []string) esframe.AggregationRequest {
	req := make(esframe.AggregationRequest, 2*len(fields))
	for _, field := range fields {
		percents := make([]float64, len(Percents))
		copy(percents, Percents)
		req[ExtendedStatsName(field)] = map[string]interface{}{
			"extended_stats": map[string]interface{}{"field": field},
		}
		req[PercentilesName(field)] = map[string]interface{}{
			"percentiles": map[string]interface{}{"field": field, "percents": percents},
		}
	}
	return req
}

// ParseStatsResponse reassembles the response to a BuildStatsRequest into Statistics.
// Values are passed through as returned. A field whose statistics are all null is
// omitted; a count of zero counts as null, since Elasticsearch reports it for empty fields.
// A response missing either aggregation of a requested field is malformed.
func ParseStatsResponse(resp esframe.AggregationResponse, fields []string) (*esframe.Statistics, error) {
	if !gjson.ValidBytes(resp) {
		return nil, fmt.Errorf("aggregation response is not valid JSON")
	}
	aggs := gjson.ParseBytes(resp).Map()
	result := &esframe.Statistics{
		Columns: make([]string, 0, len(fields)),
		Values:  make(map[string][]*float64, len(fields)),
	}
	for _, field := range fields {
		extended, ok := aggs[ExtendedStatsName(field)]
		if !ok || !extended.IsObject() {
			return nil, fmt.Errorf("aggregation response has no %s object", ExtendedStatsName(field))
		}
		percentileAgg, ok := aggs[PercentilesName(field)]
		if !ok || !percentileAgg.Get("values").IsObject() {
			return nil, fmt.Errorf("aggregation response has no %s values", PercentilesName(field))
		}
		percentiles := percentileAgg.Get("values").Map()
		stats := []*float64{
			count(extended.Get("count")),
			number(extended.Get("avg")),
			number(extended.Get("std_deviation")),
			number(extended.Get("min")),
			number(percentiles[PercentileKey(Percents[0])]),
			number(percentiles[PercentileKey(Percents[1])]),
			number(percentiles[PercentileKey(Percents[2])]),
			number(extended.Get("max")),
		}
		if allNull(stats) {
			continue
		}
		result.Columns = append(result.Columns, field)
		result.Values[field] = stats
	}
	return result, nil
}

func number(r gjson.Result) *float64 {
	if r.Type != gjson.Number {
		return nil
	}
	v := r.Float()
	return &v
}

func count(r gjson.Result) *float64 {
	v := number(r)
	if v == nil || *v == 0 {
		return nil
	}
	return v
}

func allNull(values []*float64) bool {
	for _, v := range values {
		if v != nil {
			return false
		}
	}
	return true
}
