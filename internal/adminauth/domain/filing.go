package domain

import "time"

// Filing is a quarterly holdings report for one fund. The maintenance worker
// refreshes these on a schedule; the auth surface never reads them.
type Filing struct {
	ID          string
	FundName    string
	Quarter     string
	Holdings    []Holding
	RefreshedAt time.Time
}

// Holding is one position inside a filing.
type Holding struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Shares int64   `json:"shares"`
	Value  float64 `json:"value"`
}
