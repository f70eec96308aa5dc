package models

// Statistics rows returned by the read-only analytics endpoints. Each row
// feeds one chart series; the client performs no aggregation of its own.

type CategoryStat struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Revenue  float64 `json:"revenue"`
}

type ProfessionalStat struct {
	Professional string  `json:"professional"`
	Count        int     `json:"count"`
	Revenue      float64 `json:"revenue"`
}

type DayStat struct {
	Date    string  `json:"date"` // "YYYY-MM-DD"
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type PaymentMethodStat struct {
	Method string  `json:"method"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}
