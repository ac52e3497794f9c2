package tools

import (
	"context"
	"fmt"
)

// Financial calculation discriminators.
const (
	CalcValuation = "valuation"
	CalcRunway    = "runway"
	CalcBurnRate  = "burn_rate"
	CalcROI       = "roi"
	CalcDSCR      = "dscr"
	CalcLTV       = "ltv"
	CalcCAC       = "cac"
	CalcCLV       = "clv"
)

// Financial health statuses derived from fixed thresholds.
const (
	StatusCritical = "critical"
	StatusWarning  = "warning"
	StatusHealthy  = "healthy"
)

// DefaultGrossMargin is assumed for CLV when the caller does not
// supply one.
const DefaultGrossMargin = 0.7

// DefaultRevenueMultiple is the revenue multiple used for valuation
// when the caller does not supply one.
const DefaultRevenueMultiple = 3.0

// FinanceInput is the financial_calculator parameter shape. Calculation
// selects the formula; the remaining fields are read per formula.
type FinanceInput struct {
	Calculation string `json:"calculation" jsonschema_description:"Calculation to perform: valuation, runway, burn_rate, roi, dscr, ltv, cac, or clv"`

	// Valuation
	AnnualRevenue   float64 `json:"annualRevenue,omitempty" jsonschema_description:"Trailing annual revenue in dollars (valuation)"`
	RevenueMultiple float64 `json:"revenueMultiple,omitempty" jsonschema_description:"Revenue multiple to apply, default 3.0 (valuation)"`

	// Runway
	Cash        float64 `json:"cash,omitempty" jsonschema_description:"Cash on hand in dollars (runway)"`
	MonthlyBurn float64 `json:"monthlyBurn,omitempty" jsonschema_description:"Net monthly burn in dollars (runway)"`

	// Burn rate
	Expenses float64 `json:"expenses,omitempty" jsonschema_description:"Total expenses over the period in dollars (burn_rate)"`
	Revenue  float64 `json:"revenue,omitempty" jsonschema_description:"Total revenue over the period in dollars (burn_rate)"`
	Months   float64 `json:"months,omitempty" jsonschema_description:"Period length in months, default 1 (burn_rate)"`

	// ROI
	Investment float64 `json:"investment,omitempty" jsonschema_description:"Amount invested in dollars (roi)"`
	Returns    float64 `json:"returns,omitempty" jsonschema_description:"Total returns in dollars (roi)"`

	// DSCR
	OperatingIncome float64 `json:"operatingIncome,omitempty" jsonschema_description:"Net operating income in dollars (dscr)"`
	DebtService     float64 `json:"debtService,omitempty" jsonschema_description:"Total debt service in dollars (dscr)"`

	// LTV
	LoanAmount      float64 `json:"loanAmount,omitempty" jsonschema_description:"Requested loan amount in dollars (ltv)"`
	CollateralValue float64 `json:"collateralValue,omitempty" jsonschema_description:"Appraised collateral value in dollars (ltv)"`

	// CAC
	MarketingSpend    float64 `json:"marketingSpend,omitempty" jsonschema_description:"Sales and marketing spend in dollars (cac)"`
	CustomersAcquired float64 `json:"customersAcquired,omitempty" jsonschema_description:"Customers acquired over the same period (cac)"`

	// CLV
	AvgMonthlyRevenue float64 `json:"avgMonthlyRevenue,omitempty" jsonschema_description:"Average revenue per customer per month in dollars (clv)"`
	AvgLifetimeMonths float64 `json:"avgLifetimeMonths,omitempty" jsonschema_description:"Average customer lifetime in months (clv)"`
	GrossMargin       float64 `json:"grossMargin,omitempty" jsonschema_description:"Gross margin as a fraction, default 0.7 (clv)"`
	CAC               float64 `json:"cac,omitempty" jsonschema_description:"Customer acquisition cost in dollars, enables CLV:CAC ratio (clv)"`
}

// CalcResult is the uniform financial_calculator result: the numeric
// value, a categorical status derived from fixed thresholds, a
// recommendation, and a human-readable formatted string.
type CalcResult struct {
	Calculation    string             `json:"calculation"`
	Value          float64            `json:"value"`
	Status         string             `json:"status,omitempty"`
	Recommendation string             `json:"recommendation,omitempty"`
	Formatted      string             `json:"formatted"`
	Details        map[string]float64 `json:"details,omitempty"`
}

// NewFinancialCalculator builds the financial_calculator tool definition.
func NewFinancialCalculator() (*Definition, error) {
	return New(
		"financial_calculator",
		"Perform closed-form business finance calculations: company valuation, "+
			"cash runway, burn rate, ROI, debt service coverage (DSCR), "+
			"loan-to-value (LTV), customer acquisition cost (CAC), and "+
			"customer lifetime value (CLV).",
		func(_ context.Context, input FinanceInput) (any, error) {
			return Calculate(input)
		},
	)
}

// Calculate dispatches on the calculation discriminator.
// Unknown discriminators fail with an UnknownCalculation ToolError.
func Calculate(input FinanceInput) (*CalcResult, error) {
	switch input.Calculation {
	case CalcValuation:
		return CalculateValuation(input.AnnualRevenue, input.RevenueMultiple)
	case CalcRunway:
		return CalculateRunway(input.Cash, input.MonthlyBurn)
	case CalcBurnRate:
		return CalculateBurnRate(input.Expenses, input.Revenue, input.Months)
	case CalcROI:
		return CalculateROI(input.Investment, input.Returns)
	case CalcDSCR:
		return CalculateDSCR(input.OperatingIncome, input.DebtService)
	case CalcLTV:
		return CalculateLTV(input.LoanAmount, input.CollateralValue)
	case CalcCAC:
		return CalculateCAC(input.MarketingSpend, input.CustomersAcquired)
	case CalcCLV:
		return CalculateCLV(input.AvgMonthlyRevenue, input.AvgLifetimeMonths, input.GrossMargin, input.CAC)
	default:
		return nil, &ToolError{
			ErrorType: "UnknownCalculation",
			Message:   fmt.Sprintf("unknown calculation type %q", input.Calculation),
		}
	}
}

// CalculateValuation estimates company value as annual revenue times a
// revenue multiple (default 3.0).
func CalculateValuation(annualRevenue, multiple float64) (*CalcResult, error) {
	if annualRevenue <= 0 {
		return nil, &ToolError{ErrorType: "InvalidArguments", Message: "annualRevenue must be positive"}
	}
	if multiple == 0 {
		multiple = DefaultRevenueMultiple
	}
	if multiple < 0 {
		return nil, &ToolError{ErrorType: "InvalidArguments", Message: "revenueMultiple must be positive"}
	}

	value := annualRevenue * multiple
	return &CalcResult{
		Calculation: CalcValuation,
		Value:       value,
		Formatted:   fmt.Sprintf("Estimated valuation: $%.2f (%.1fx revenue)", value, multiple),
		Details:     map[string]float64{"revenueMultiple": multiple},
	}, nil
}

// CalculateRunway computes cash runway in months.
// Thresholds: under 6 months is critical, under 12 is warning,
// otherwise healthy. Exactly 6 months falls into warning.
func CalculateRunway(cash, monthlyBurn float64) (*CalcResult, error) {
	if cash < 0 {
		return nil, &ToolError{ErrorType: "InvalidArguments", Message: "cash must not be negative"}
	}
	if monthlyBurn <= 0 {
		return nil, &ToolError{ErrorType: "InvalidArguments", Message: "monthlyBurn must be positive"}
	}

	months := cash / monthlyBurn

	var status, recommendation string
	switch {
	case months < 6:
		status = StatusCritical
		recommendation = "Less than 6 months of runway. Cut burn or raise capital immediately."
	case months < 12:
		status = StatusWarning
		recommendation = "Under 12 months of runway. Start fundraising or reduce spend soon."
	default:
		status = StatusHealthy
		recommendation = "Runway is comfortable. Revisit after major spending changes."
	}

	return &CalcResult{
		Calculation:    CalcRunway,
		Value:          months,
		Status:         status,
		Recommendation: recommendation,
		Formatted:      fmt.Sprintf("%.1f months of runway", months),
	}, nil
}

// CalculateBurnRate computes net monthly burn over a period:
// (expenses - revenue) / months. Months defaults to 1.
func CalculateBurnRate(expenses, revenue, months float64) (*CalcResult, error) {
	if months == 0 {
		months = 1
	}
	if months < 0 {
		return nil, &ToolError{ErrorType: "InvalidArguments", Message: "months must be positive"}
	}

	burn := (expenses - revenue) / months

	var status, recommendation string
	if burn <= 0 {
		status = StatusHealthy
		recommendation = "Revenue covers expenses. The business is cash-flow positive."
	} else {
		status = StatusWarning
		recommendation = "Spending exceeds revenue. Track this against available runway."
	}

	return &CalcResult{
		Calculation:    CalcBurnRate,
		Value:          burn,
		Status:         status,
		Recommendation: recommendation,
		Formatted:      fmt.Sprintf("$%.2f net burn per month", burn),
	}, nil
}

// CalculateROI computes return on investment as a percentage:
// (returns - investment) / investment * 100.
func CalculateROI(investment, returns float64) (*CalcResult, error) {
	if investment <= 0 {
		return nil, &ToolError{ErrorType: "InvalidArguments", Message: "investment must be positive"}
	}

	roi := (returns - investment) / investment * 100

	var status, recommendation string
	switch {
	case roi < 0:
		status = StatusCritical
		recommendation = "The investment has lost value."
	case roi < 10:
		status = StatusWarning
		recommendation = "Returns are below typical market benchmarks."
	default:
		status = StatusHealthy
		recommendation = "Returns are solid for this investment."
	}

	return &CalcResult{
		Calculation:    CalcROI,
		Value:          roi,
		Status:         status,
		Recommendation: recommendation,
		Formatted:      fmt.Sprintf("%.1f%% return on investment", roi),
	}, nil
}

// CalculateDSCR computes the debt service coverage ratio:
// operating income / debt service. Lenders typically require 1.25.
func CalculateDSCR(operatingIncome, debtService float64) (*CalcResult, error) {
	if debtService <= 0 {
		return nil, &ToolError{ErrorType: "InvalidArguments", Message: "debtService must be positive"}
	}

	ratio := operatingIncome / debtService

	var status, recommendation string
	switch {
	case ratio < 1.0:
		status = StatusCritical
		recommendation = "Operating income does not cover debt service."
	case ratio < 1.25:
		status = StatusWarning
		recommendation = "Coverage is below the 1.25 threshold most lenders require."
	default:
		status = StatusHealthy
		recommendation = "Coverage meets standard lending requirements."
	}

	return &CalcResult{
		Calculation:    CalcDSCR,
		Value:          ratio,
		Status:         status,
		Recommendation: recommendation,
		Formatted:      fmt.Sprintf("DSCR of %.2f", ratio),
	}, nil
}

// CalculateLTV computes the loan-to-value ratio as a percentage:
// loan amount / collateral value * 100.
func CalculateLTV(loanAmount, collateralValue float64) (*CalcResult, error) {
	if loanAmount < 0 {
		return nil, &ToolError{ErrorType: "InvalidArguments", Message: "loanAmount must not be negative"}
	}
	if collateralValue <= 0 {
		return nil, &ToolError{ErrorType: "InvalidArguments", Message: "collateralValue must be positive"}
	}

	ltv := loanAmount / collateralValue * 100

	var status, recommendation string
	switch {
	case ltv > 80:
		status = StatusCritical
		recommendation = "LTV above 80% is high risk for most lenders."
	case ltv > 60:
		status = StatusWarning
		recommendation = "Moderate LTV. Additional collateral would strengthen the application."
	default:
		status = StatusHealthy
		recommendation = "Conservative LTV. Collateral comfortably secures the loan."
	}

	return &CalcResult{
		Calculation:    CalcLTV,
		Value:          ltv,
		Status:         status,
		Recommendation: recommendation,
		Formatted:      fmt.Sprintf("%.1f%% loan-to-value", ltv),
	}, nil
}

// CalculateCAC computes customer acquisition cost:
// marketing spend / customers acquired.
func CalculateCAC(marketingSpend, customersAcquired float64) (*CalcResult, error) {
	if marketingSpend < 0 {
		return nil, &ToolError{ErrorType: "InvalidArguments", Message: "marketingSpend must not be negative"}
	}
	if customersAcquired <= 0 {
		return nil, &ToolError{ErrorType: "InvalidArguments", Message: "customersAcquired must be positive"}
	}

	cac := marketingSpend / customersAcquired
	return &CalcResult{
		Calculation: CalcCAC,
		Value:       cac,
		Formatted:   fmt.Sprintf("$%.2f per customer acquired", cac),
	}, nil
}

// CalculateCLV computes customer lifetime value:
// average monthly revenue * average lifetime * gross margin.
// Gross margin defaults to 0.7. When a CAC value is supplied the
// CLV:CAC ratio is computed, with a ratio above 3 considered healthy.
func CalculateCLV(avgMonthlyRevenue, avgLifetimeMonths, grossMargin, cac float64) (*CalcResult, error) {
	if avgMonthlyRevenue <= 0 {
		return nil, &ToolError{ErrorType: "InvalidArguments", Message: "avgMonthlyRevenue must be positive"}
	}
	if avgLifetimeMonths <= 0 {
		return nil, &ToolError{ErrorType: "InvalidArguments", Message: "avgLifetimeMonths must be positive"}
	}
	if grossMargin == 0 {
		grossMargin = DefaultGrossMargin
	}
	if grossMargin < 0 || grossMargin > 1 {
		return nil, &ToolError{ErrorType: "InvalidArguments", Message: "grossMargin must be between 0 and 1"}
	}

	clv := avgMonthlyRevenue * avgLifetimeMonths * grossMargin
	result := &CalcResult{
		Calculation: CalcCLV,
		Value:       clv,
		Formatted:   fmt.Sprintf("$%.2f lifetime value per customer", clv),
		Details:     map[string]float64{"grossMargin": grossMargin},
	}

	if cac > 0 {
		ratio := clv / cac
		result.Details["clvToCac"] = ratio
		if ratio > 3 {
			result.Status = StatusHealthy
			result.Recommendation = "CLV:CAC above 3. Unit economics support scaling acquisition."
		} else {
			result.Status = StatusWarning
			result.Recommendation = "CLV:CAC at or below 3. Improve retention or lower acquisition cost before scaling."
		}
		result.Formatted = fmt.Sprintf("%s (CLV:CAC %.1f)", result.Formatted, ratio)
	}

	return result, nil
}
