package model

// AltDataFeatures holds the simulated alternative-data signals standing in for
// traditional bureau data. Generated fresh per request; never persisted on
// their own.
type AltDataFeatures struct {
	// LocationStability is a residential-permanence proxy in [0,1].
	LocationStability float64 `json:"location_stability"`
	// MobileUsageScore is an engagement proxy in [0,100].
	MobileUsageScore float64 `json:"mobile_usage_score"`
	// UPITransactionCount is a monthly digital-payment count, >= 0.
	UPITransactionCount int `json:"upi_transaction_count"`
}
