// Package fixtures provides canned demo statements for illustrative and
// testing use. The core treats them as just another input source.
package fixtures

import "github.com/cashflowstory/cashflowstory/internal/domain/statement"

// RebeccasCoffee returns the Rebeccas Coffee 2015-2018 case study: a rapidly
// growing coffee chain with declining margins, an extending working-capital
// cycle, and rising leverage. Four chronological periods.
func RebeccasCoffee() []statement.Statement {
	return []statement.Statement{
		{
			CompanyName:           "Rebeccas Coffee",
			Period:                "2015",
			Revenue:               3400000,
			CostOfGoods:           2400000,
			Overheads:             600000,
			Depreciation:          100000,
			InterestPaid:          60000,
			TaxPaid:               60000,
			Cash:                  150000,
			AccountsReceivable:    800000,
			Inventory:             900000,
			FixedAssets:           1500000,
			CurrentLiabilities:    700000,
			NoncurrentLiabilities: 1500000,
			AccountsPayable:       400000,
		},
		{
			CompanyName:           "Rebeccas Coffee",
			Period:                "2016",
			Revenue:               4200000,
			CostOfGoods:           2900000,
			Overheads:             750000,
			Depreciation:          120000,
			InterestPaid:          75000,
			TaxPaid:               85000,
			Cash:                  180000,
			AccountsReceivable:    1100000,
			Inventory:             1200000,
			FixedAssets:           1800000,
			CurrentLiabilities:    850000,
			NoncurrentLiabilities: 1700000,
			AccountsPayable:       550000,
		},
		{
			CompanyName:           "Rebeccas Coffee",
			Period:                "2017",
			Revenue:               5800000,
			CostOfGoods:           4100000,
			Overheads:             950000,
			Depreciation:          150000,
			InterestPaid:          95000,
			TaxPaid:               120000,
			Cash:                  190000,
			AccountsReceivable:    1400000,
			Inventory:             1600000,
			FixedAssets:           2200000,
			CurrentLiabilities:    1000000,
			NoncurrentLiabilities: 1900000,
			AccountsPayable:       650000,
		},
		{
			CompanyName:           "Rebeccas Coffee",
			Period:                "2018",
			Revenue:               6600000,
			CostOfGoods:           4700000,
			Overheads:             1100000,
			Depreciation:          180000,
			InterestPaid:          110000,
			TaxPaid:               140000,
			Cash:                  200000,
			AccountsReceivable:    1500000,
			Inventory:             1800000,
			FixedAssets:           2500000,
			CurrentLiabilities:    1200000,
			NoncurrentLiabilities: 2100000,
			AccountsPayable:       750000,
		},
	}
}
