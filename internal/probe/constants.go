package probe

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
)

// Generation constants.
const (
	minFormality        = 1
	maxFormality        = 10
	unratedOneIn        = 12 // one garment in this many carries no formality
	tuckedOneIn         = 4
	favoriteOneIn       = 10
	maxPartialSlots     = 2
	optionalSlotPercent = 50
	maxQueryAttempts    = 10
)
