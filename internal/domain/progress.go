package domain

// Stage names a step of a contract check, reported to progress listeners.
type Stage string

const (
	StageChain        Stage = "chain"
	StageHolders      Stage = "holders"
	StageTransactions Stage = "transactions"
	StageSourceCode   Stage = "source_code"
	StageAnalysis     Stage = "analysis"
)

// ProgressFunc receives stage notifications. It may be called from several goroutines.
type ProgressFunc func(stage Stage)
