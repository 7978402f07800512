package domain

type SellerReportInput struct {
	CMA      CMARequest    `json:"cma"`
	NetSheet NetSheetInput `json:"net_sheet"`
}

// SellerReport chains a CMA estimate into net sheets at the low end,
// the point estimate and the high end of the value range.
type SellerReport struct {
	CMA        CMAResult      `json:"cma"`
	AtLow      NetSheetResult `json:"at_low"`
	AtEstimate NetSheetResult `json:"at_estimate"`
	AtHigh     NetSheetResult `json:"at_high"`
}
