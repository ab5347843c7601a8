package config

// Store kinds accepted by OutputSettings.Store.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Settings is the complete configuration of an analysis run.
type Settings struct {
	Mixer     MixerSettings     `koanf:"mixer" yaml:"mixer" json:"mixer"`
	Histogram HistogramSettings `koanf:"histogram" yaml:"histogram" json:"histogram"`
	Output    OutputSettings    `koanf:"output" yaml:"output" json:"output"`
}

// MixerSettings configures the event mixer.
//
// EventHash and PairHash name functions registered in a catalog; an empty
// name keeps the mixer's default. Reject is a cut expression over pair
// variables; pairs for which it holds go to the rejected bucket.
type MixerSettings struct {
	MaxBufferSize int    `koanf:"max_buffer_size" yaml:"max_buffer_size" json:"max_buffer_size" validate:"min=1"`
	FixedBuffer   bool   `koanf:"fixed_buffer" yaml:"fixed_buffer" json:"fixed_buffer"`
	EventHash     string `koanf:"event_hash" yaml:"event_hash" json:"event_hash"`
	PairHash      string `koanf:"pair_hash" yaml:"pair_hash" json:"pair_hash"`
	Reject        string `koanf:"reject" yaml:"reject" json:"reject"`
	// Seed of the sampling source. Zero means a random seed.
	Seed uint64 `koanf:"seed" yaml:"seed" json:"seed"`
}

// HistogramSettings selects the pair observable and its binning.
type HistogramSettings struct {
	Observable string  `koanf:"observable" yaml:"observable" json:"observable" validate:"required"`
	Bins       int     `koanf:"bins" yaml:"bins" json:"bins" validate:"min=1,max=1000000"`
	Min        float64 `koanf:"min" yaml:"min" json:"min"`
	Max        float64 `koanf:"max" yaml:"max" json:"max" validate:"gtfield=Min"`
}

// OutputSettings controls result persistence.
type OutputSettings struct {
	Store string `koanf:"store" yaml:"store" json:"store" validate:"oneof=none memory sqlite"`
	// Path of the SQLite database. Required when Store is "sqlite".
	Path string `koanf:"path" yaml:"path" json:"path" validate:"required_if=Store sqlite"`
	// Plot is an optional PNG path for the correlation plot.
	Plot string `koanf:"plot" yaml:"plot" json:"plot"`
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		Mixer: MixerSettings{
			MaxBufferSize: 10,
		},
		Histogram: HistogramSettings{
			Observable: "qinv",
			Bins:       50,
			Min:        0,
			Max:        0.5,
		},
		Output: OutputSettings{
			Store: StoreMemory,
		},
	}
}
