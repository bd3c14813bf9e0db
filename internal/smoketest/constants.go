package smoketest

// HTTP status code constants.
const (
	StatusOK = 200
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	HistoryCheckLimit    = 20
	PercentageMultiplier = 100
)

// Expected outcome of the built-in example in generation 5.
const (
	ExampleMin = 274
	ExampleMax = 324
	ExampleHP  = 704
)
