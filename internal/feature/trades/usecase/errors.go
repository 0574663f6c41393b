// Package usecase implements the business logic for the trades feature.
package usecase

import "errors"

var (
	// ErrTradeNotFound is returned when a trade cannot be found for the requesting user.
	ErrTradeNotFound = errors.New("trade not found")

	// ErrTickerNotFound is returned when a trade references an unknown ticker.
	ErrTickerNotFound = errors.New("ticker not found")

	// ErrSideRequired is returned when neither a stoploss nor an explicit side
	// is provided at creation time, so the side cannot be inferred.
	ErrSideRequired = errors.New("either stoploss or side must be provided")
)
