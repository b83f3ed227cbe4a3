// Package statement defines the financial input record and the validation
// rules that guard the ratio engine from undefined arithmetic.
package statement

// Statement is one company-period financial snapshot: the P&L and
// balance-sheet lines the ratio engine derives everything from. All monetary
// values are assumed to be in the same currency. A Statement is a transient
// value object; nothing mutates it after validation.
type Statement struct {
	CompanyName string `json:"company_name"`
	Period      string `json:"period"`

	// Income statement
	Revenue      float64 `json:"revenue"`
	CostOfGoods  float64 `json:"cost_of_goods"`
	Overheads    float64 `json:"overheads"`
	Depreciation float64 `json:"depreciation"`
	InterestPaid float64 `json:"interest_paid"`
	TaxPaid      float64 `json:"tax_paid"`

	// Balance sheet - assets
	Cash               float64 `json:"cash"`
	AccountsReceivable float64 `json:"accounts_receivable"`
	Inventory          float64 `json:"inventory"`
	FixedAssets        float64 `json:"fixed_assets"`

	// Balance sheet - liabilities
	CurrentLiabilities    float64 `json:"current_liabilities"`
	NoncurrentLiabilities float64 `json:"noncurrent_liabilities"`
	AccountsPayable       float64 `json:"accounts_payable"`

	// PriorRevenue feeds the revenue growth metric. Absent (nil) means the
	// growth metric is reported as null.
	PriorRevenue *float64 `json:"prior_revenue,omitempty"`
}
