package samplegen

// Generation defaults.
const (
	defaultRows            = 500
	defaultDays            = 30
	defaultFillRate        = 0.7
	defaultBadDurationRate = 0.05
	defaultDuplicateRate   = 0.01
	defaultMarkerRate      = 0.1

	// DefaultSheet is the worksheet name used by the upstream export.
	DefaultSheet = "Sheet1"
)

// Consultation length bounds in seconds.
const (
	minConsultSeconds = 60
	maxConsultSeconds = 75 * 60
)

const (
	filePermission  = 0o600
	secondsPerDay   = 24 * 60 * 60
	workdayStartSec = 8 * 60 * 60
	workdaySeconds  = 10 * 60 * 60
)
