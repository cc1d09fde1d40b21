package esframe

import "log/slog"

// DefaultMaxConcurrentQueries is the default bound on queries a DataFrame issues in parallel
const DefaultMaxConcurrentQueries = 4

// DataFrameConf configures a DataFrame
type DataFrameConf struct {
	Logger               *slog.Logger // Logger receives debug and warning messages. Defaults to discarding them.
	MaxConcurrentQueries int          // MaxConcurrentQueries bounds the queries Count issues in parallel. Defaults to 4.
}
