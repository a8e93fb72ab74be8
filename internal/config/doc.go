// Package config provides configuration management for Campaign Pulse.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones winning:
//
//  1. Default values (Default)
//  2. A YAML file: $PULSE_CONFIG, config.yaml or configs/config.yaml
//  3. Environment variables prefixed with PULSE_
//
// # Environment Variables
//
//	PULSE_SERVER_PORT=8080
//	PULSE_DATA_POSTS_FILE=data/posts.csv
//	PULSE_DATA_BENCHMARKS_FILE=data/benchmarks.csv
//	PULSE_DATA_POSTS_DELIMITER=;
//	PULSE_REPORT_RANK_SIZE=3
//	PULSE_LOGGING_LEVEL=debug
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := cfg.GetPaths()
package config
