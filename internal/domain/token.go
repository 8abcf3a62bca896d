package domain

import (
	"encoding/json"
	"sort"
)

// Fallback values used when a contract read fails.
const (
	UnknownName     = "Unknown"
	UnknownSymbol   = "Unknown"
	DefaultDecimals = 18
)

// Display limits used by presentation code.
const (
	MaxFetchedTransactions   = 100
	MaxDisplayedTransactions = 15
)

// TokenInfo holds the basic ERC20 properties of a token contract.
type TokenInfo struct {
	Address     string `json:"address"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    int    `json:"decimals"`
	TotalSupply string `json:"total_supply"` // decimal string, already scaled by Decimals
}

// Holder is one entry of the explorer's holder list.
type Holder struct {
	Account    string  `json:"account"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"` // share of total supply, 0..100
}

// Transaction is a token transfer as reported by the explorer.
type Transaction struct {
	Hash        string `json:"hash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`     // decimal string, already scaled by Decimals
	Timestamp   int64  `json:"timestamp"` // unix seconds
	BlockNumber string `json:"blockNumber"`
	Gas         string `json:"gas"`
	GasPrice    string `json:"gasPrice"`
}

// TokenData is the normalized record built for one check request.
// SourceCode is passed through from the explorer untouched.
type TokenData struct {
	TokenInfo    TokenInfo       `json:"tokenInfo"`
	Holders      []Holder        `json:"holders"`
	Transactions []Transaction   `json:"transactions"`
	SourceCode   json.RawMessage `json:"sourceCode,omitempty"`
}

// AnalysisResult is the response body of a successful check.
type AnalysisResult struct {
	TokenData *TokenData `json:"tokenData"`
	Analysis  string     `json:"analysis"`
}

// SortHoldersByAmount returns a copy of holders ordered by amount, largest first.
func SortHoldersByAmount(holders []Holder) []Holder {
	sorted := make([]Holder, len(holders))
	copy(sorted, holders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount > sorted[j].Amount
	})
	return sorted
}

// RecentTransactions returns at most limit transactions, keeping source order.
func RecentTransactions(txs []Transaction, limit int) []Transaction {
	if limit < 0 || len(txs) <= limit {
		return txs
	}
	return txs[:limit]
}
