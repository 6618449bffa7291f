package config

import "creditlens/pkg/contracts"

// Application constants
const (
	AppName    = "creditlens"
	AppVersion = contracts.Version

	// Data source
	DefaultSourcePath = "data/Case Open.xlsx"
	DefaultSheet      = "Base"

	// Analysis
	DefaultThresholdMultiplier = 1.1
	DefaultPreviewRows         = 5

	// Rate limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// File paths (relative to the working directory)
	DefaultReportsDir = "reports"
	DefaultLogsDir    = "logs"
)
