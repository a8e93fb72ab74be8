package config

import "time"

// Application constants
const (
	// Application Info
	AppName     = "Campaign Pulse"
	ServiceName = "campaign-pulse"

	// Input files (relative to the working or executable directory)
	DefaultDataDir        = "data"
	DefaultPostsFile      = "data/posts.csv"
	DefaultBenchmarksFile = "data/benchmarks.csv"

	// Report
	DefaultRankSize = 3

	// Rate Limiting
	DefaultRateLimit = 20 // requests per second per client
	DefaultBurstSize = 40

	// Network Timeouts
	DefaultRequestTimeout = 30 * time.Second

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/campaign-pulse.log"
)
