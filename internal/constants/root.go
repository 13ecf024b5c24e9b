package constants

import "time"

// SessionState represents the current screen of the TUI application
type SessionState int

const (
	AppName            = "routinize"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/routinize/routinize.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the wall-clock format used for routine windows (HH:MM)
	TimeFormat = "15:04"

	// Storage keys, one per collection
	RoutinesKey      = "routinize-routines"
	HealthRecordsKey = "routinize-health-records"
	TimeBlocksKey    = "routinize-time-blocks"

	// CorruptKeySuffix names the copy of a malformed collection kept when it
	// is replaced
	CorruptKeySuffix = ".corrupt"

	// CollectionVersion is the envelope version written by this release
	CollectionVersion = 1

	// Environment variables
	EnvConfig       = "ROUTINIZE_CONFIG"
	EnvDebug        = "ROUTINIZE_DEBUG"
	EnvDBConnection = "ROUTINIZE_DB_CONNECTION"
	EnvS3Bucket     = "ROUTINIZE_S3_BUCKET"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "routinize-"
	S3KeyPrefix      = "routinize/backups/"

	// Lock acquisition for file backed stores
	LockTimeout       = 3 * time.Second
	LockRetryInterval = 100 * time.Millisecond

	// Countdown
	TickInterval = time.Second

	// Health
	MetricMin         = 1
	MetricMax         = 10
	DefaultMetric     = 5
	RecentWindow      = 7
	ExcellentScoreMin = 8
	GoodScoreMin      = 6
	SliderLowMax      = 3
	SliderMidMax      = 6
)

// Session States
const (
	StateDashboard SessionState = iota
	StateRoutines
	StateBlocks
	StateHealth
	StateHealthForm
	StateAddBlock
	StateConfirmDelete
)
