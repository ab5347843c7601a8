/*
Package config loads and validates femtomix analysis settings.

# Overview

Settings groups three sections: Mixer (buffer policy and the names of the
hash and cut functions), Histogram (the observable and its binning) and
Output (where results and plots are written). Every field has a default,
so an empty file is a valid configuration.

# Loading

Load layers three sources, later ones overriding earlier ones:

 1. Defaults from Default()
 2. An optional YAML file
 3. Environment variables prefixed with FEMTOMIX_

Environment variable names use a double underscore between section and
field:

	FEMTOMIX_MIXER__MAX_BUFFER_SIZE=20    -> mixer.max_buffer_size
	FEMTOMIX_HISTOGRAM__BINS=100          -> histogram.bins
	FEMTOMIX_OUTPUT__STORE=sqlite         -> output.store

Bytes can be decoded directly over the defaults:

	s, err := config.FromYAML(data)
	s, err = config.FromJSON(data)
	s, err = config.FromFile("analysis.yaml") // .yaml, .yml or .json

# Validation

Every loader validates the result. Failures are returned as
*ValidationError, which lists each offending field by its configuration
path:

	var verr *config.ValidationError
	if errors.As(err, &verr) {
	    for _, f := range verr.Fields {
	        fmt.Println(f.Path, f.Tag)
	    }
	}
*/
package config
