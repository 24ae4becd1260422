// Package domain holds the persistent models of the wallet ledger.
package domain

import "github.com/shopspring/decimal"

func init() {
	// Money is rendered as JSON numbers, e.g. 70.5 rather than "70.5".
	decimal.MarshalJSONWithoutQuotes = true
}
