package params

import "time"

const (
	ServerBodyLimit    = 1048576 // 1 MiB
	ServerIdleTimeout  = 30 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 10 * time.Second

	HealthCheckServerAddr = ":3001" // health check server address
	APIVersion            = "1.0"

	DefaultChainName     = "main"
	GenesisHash          = "0000000000000000000000000000000000000000000000000000000000000000"
	SigningKeyInfo       = "kaudit event signature v1" // hkdf info for the signing key
	DefaultRetentionDays = 365

	WriterFlushInterval = 2 * time.Second
	WriterBatchSize     = 500
	WriterMaxBuffer     = 10000
	WriterMaxRetries    = 5
	WriterFallbackPath  = "./data/fallback.jsonl"
	WriterJournalFile   = "journal.jsonl" // kept next to the fallback log

	EventIDKeyPrefix      = "eid:" // reservations of producer supplied event ids
	EventIDReservationTTL = 7 * 24 * time.Hour
	ChainLockPrefix       = "kaudit.chain." // database lock name prefix, one per chain
	ChainLockWait         = 10 * time.Second

	DetectorQueueSize         = 4096
	BruteForceThreshold       = 5
	BruteForceWindow          = 1 * time.Hour
	HighRiskThreshold         = 80
	CriticalEventIDsKeyPrefix = "ce:"   // dedup markers for pattern rules
	BruteForceKeyPrefix       = "bf:"   // sorted set of failed logins seen by the detector
	AuthFailureKeyPrefix      = "af:"   // sorted set of auth failure timestamps per subject
	ActorProfileKeyPrefix     = "ap:"   // hash of per-actor access statistics
	RiskHistoryWindow         = 1 * time.Hour
	RiskProfileMaxAge         = 90 * 24 * time.Hour

	AlertChannelTimeout = 10 * time.Second
	AlertRatePerMinute  = 60
	AlertMaxConcurrency = 8

	QueryDefaultPageSize = 50
	QueryMaxPageSize     = 500
	VerifyPageSize       = 1000
	ReportMaxEventIDs    = 10000

	RetentionInterval  = 1 * time.Hour
	RetentionBatchSize = 500

	RateLimitMax        = 300
	RateLimitExpiration = 1 * time.Minute
)
