package constants

// Common string constants used throughout the codebase
const (
	// Log levels
	ErrorLevel = "error"

	// Environments
	ProdEnvironment  = "prod"
	DevEnvironment   = "dev"
	LocalEnvironment = "local"

	// Vote support values understood by the governor
	SupportAgainst uint8 = 0
	SupportFor     uint8 = 1
	SupportAbstain uint8 = 2
)

// Refund caps protecting the relay's funding pool. All three are enforced
// independently: base fee, gas used, and the final amount against the pool
// balance.
const (
	// MaxRefundPriorityFee is the priority fee ceiling, in wei (2 gwei).
	MaxRefundPriorityFee = 2_000_000_000

	// RefundBaseGas is the fixed overhead added to the measured gas of a
	// refundable batch (intrinsic cost plus the refund bookkeeping itself).
	RefundBaseGas = 36_000

	// MaxRefundGasUsed caps the gas units a single batch may claim.
	MaxRefundGasUsed = 200_000

	// MaxRefundBaseFee is the base fee ceiling, in wei (200 gwei).
	MaxRefundBaseFee = 200_000_000_000
)

// IsValidStage reports whether the given stage name is one we deploy to.
func IsValidStage(stage string) bool {
	return stage == ProdEnvironment || stage == DevEnvironment || stage == LocalEnvironment
}
