package service

import "time"

const (
	DefaultCacheTTL = 10 * time.Minute

	// Limits for term comparison requests.
	MaxComparedTerms      = 24
	TermComparisonWorkers = 4

	// Number of alternative terms described to the advisor.
	MaxAdvisorAlternatives = 3
)
