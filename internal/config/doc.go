// Package config loads the service configuration.
//
// Values are layered, later sources overriding earlier ones:
//
//  1. Default() values
//  2. a YAML file (VGS_CONFIG_FILE, ./config.yaml or ./configs/config.yaml)
//  3. environment variables prefixed with VGS_
//
// Environment variable names follow the struct nesting, for example:
//
//	VGS_SERVER_PORT=8050
//	VGS_DATA_CSV_PATH=/srv/data/vgsales.csv
//	VGS_PROCESSING_TOP_PUBLISHERS=20
//	VGS_CACHE_MAX_ENTRIES=0
//	VGS_LOGGING_LEVEL=debug
//
// Relative directories are resolved against Paths.BaseDir (the working
// directory by default) by ResolvePaths.
package config
