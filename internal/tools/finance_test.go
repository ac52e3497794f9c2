package tools

import (
	"errors"
	"math"
	"testing"
)

func TestCalculateRunway(t *testing.T) {
	tests := []struct {
		name       string
		cash       float64
		burn       float64
		wantMonths float64
		wantStatus string
	}{
		{"critical under six months", 500000, 100000, 5, StatusCritical},
		{"exactly six months is warning", 600000, 100000, 6, StatusWarning},
		{"warning under twelve months", 1100000, 100000, 11, StatusWarning},
		{"exactly twelve months is healthy", 1200000, 100000, 12, StatusHealthy},
		{"healthy long runway", 3000000, 100000, 30, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CalculateRunway(tt.cash, tt.burn)
			if err != nil {
				t.Fatalf("CalculateRunway() failed: %v", err)
			}
			if result.Value != tt.wantMonths {
				t.Errorf("runway = %v months, want %v", result.Value, tt.wantMonths)
			}
			if result.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", result.Status, tt.wantStatus)
			}
		})
	}
}

func TestCalculateRunway_InvalidBurn(t *testing.T) {
	if _, err := CalculateRunway(100000, 0); err == nil {
		t.Error("expected error for zero monthly burn")
	}
	if _, err := CalculateRunway(100000, -5); err == nil {
		t.Error("expected error for negative monthly burn")
	}
}

func TestCalculateBurnRate(t *testing.T) {
	result, err := CalculateBurnRate(300000, 120000, 3)
	if err != nil {
		t.Fatalf("CalculateBurnRate() failed: %v", err)
	}
	if result.Value != 60000 {
		t.Errorf("burn rate = %v, want 60000", result.Value)
	}
	if result.Status != StatusWarning {
		t.Errorf("status = %q, want %q", result.Status, StatusWarning)
	}

	// Revenue above expenses means no burn.
	profitable, err := CalculateBurnRate(50000, 80000, 1)
	if err != nil {
		t.Fatalf("CalculateBurnRate() failed: %v", err)
	}
	if profitable.Value != -30000 {
		t.Errorf("burn rate = %v, want -30000", profitable.Value)
	}
	if profitable.Status != StatusHealthy {
		t.Errorf("status = %q, want %q", profitable.Status, StatusHealthy)
	}
}

func TestCalculateBurnRate_DefaultPeriod(t *testing.T) {
	result, err := CalculateBurnRate(10000, 4000, 0)
	if err != nil {
		t.Fatalf("CalculateBurnRate() failed: %v", err)
	}
	if result.Value != 6000 {
		t.Errorf("burn rate with default period = %v, want 6000", result.Value)
	}
}

func TestCalculateROI(t *testing.T) {
	tests := []struct {
		name       string
		investment float64
		returns    float64
		want       float64
		wantStatus string
	}{
		{"loss", 100000, 80000, -20, StatusCritical},
		{"break even", 100000, 100000, 0, StatusWarning},
		{"strong", 100000, 150000, 50, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CalculateROI(tt.investment, tt.returns)
			if err != nil {
				t.Fatalf("CalculateROI() failed: %v", err)
			}
			if result.Value != tt.want {
				t.Errorf("roi = %v%%, want %v%%", result.Value, tt.want)
			}
			if result.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", result.Status, tt.wantStatus)
			}
		})
	}

	if _, err := CalculateROI(0, 100); err == nil {
		t.Error("expected error for zero investment")
	}
}

func TestCalculateDSCR(t *testing.T) {
	tests := []struct {
		name       string
		income     float64
		service    float64
		want       float64
		wantStatus string
	}{
		{"below one is critical", 90000, 100000, 0.9, StatusCritical},
		{"below lender threshold", 120000, 100000, 1.2, StatusWarning},
		{"meets threshold", 150000, 100000, 1.5, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CalculateDSCR(tt.income, tt.service)
			if err != nil {
				t.Fatalf("CalculateDSCR() failed: %v", err)
			}
			if result.Value != tt.want {
				t.Errorf("dscr = %v, want %v", result.Value, tt.want)
			}
			if result.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", result.Status, tt.wantStatus)
			}
		})
	}
}

func TestCalculateLTV(t *testing.T) {
	result, err := CalculateLTV(850000, 1000000)
	if err != nil {
		t.Fatalf("CalculateLTV() failed: %v", err)
	}
	if result.Value != 85 {
		t.Errorf("ltv = %v%%, want 85%%", result.Value)
	}
	if result.Status != StatusCritical {
		t.Errorf("status = %q, want %q", result.Status, StatusCritical)
	}

	if _, err := CalculateLTV(100, 0); err == nil {
		t.Error("expected error for zero collateral value")
	}
}

func TestCalculateCAC(t *testing.T) {
	result, err := CalculateCAC(50000, 200)
	if err != nil {
		t.Fatalf("CalculateCAC() failed: %v", err)
	}
	if result.Value != 250 {
		t.Errorf("cac = %v, want 250", result.Value)
	}
}

func TestCalculateCLV(t *testing.T) {
	// 100/month * 24 months * default 0.7 margin = 1680
	result, err := CalculateCLV(100, 24, 0, 0)
	if err != nil {
		t.Fatalf("CalculateCLV() failed: %v", err)
	}
	if result.Value != 1680 {
		t.Errorf("clv = %v, want 1680", result.Value)
	}
	if result.Details["grossMargin"] != DefaultGrossMargin {
		t.Errorf("grossMargin detail = %v, want %v", result.Details["grossMargin"], DefaultGrossMargin)
	}
	if result.Status != "" {
		t.Errorf("status without CAC = %q, want empty", result.Status)
	}
}

func TestCalculateCLV_WithCAC(t *testing.T) {
	// clv = 100 * 24 * 0.7 = 1680, ratio against 400 is 4.2
	healthy, err := CalculateCLV(100, 24, 0, 400)
	if err != nil {
		t.Fatalf("CalculateCLV() failed: %v", err)
	}
	if healthy.Status != StatusHealthy {
		t.Errorf("status = %q, want %q", healthy.Status, StatusHealthy)
	}
	if math.Abs(healthy.Details["clvToCac"]-4.2) > 1e-9 {
		t.Errorf("clvToCac = %v, want 4.2", healthy.Details["clvToCac"])
	}

	// ratio against 600 is 2.8, at or below the healthy cutoff
	weak, err := CalculateCLV(100, 24, 0, 600)
	if err != nil {
		t.Fatalf("CalculateCLV() failed: %v", err)
	}
	if weak.Status != StatusWarning {
		t.Errorf("status = %q, want %q", weak.Status, StatusWarning)
	}
}

func TestCalculateValuation(t *testing.T) {
	result, err := CalculateValuation(2000000, 0)
	if err != nil {
		t.Fatalf("CalculateValuation() failed: %v", err)
	}
	if result.Value != 2000000*DefaultRevenueMultiple {
		t.Errorf("valuation = %v, want %v", result.Value, 2000000*DefaultRevenueMultiple)
	}

	custom, err := CalculateValuation(1000000, 5)
	if err != nil {
		t.Fatalf("CalculateValuation() failed: %v", err)
	}
	if custom.Value != 5000000 {
		t.Errorf("valuation = %v, want 5000000", custom.Value)
	}
}

func TestCalculate_UnknownType(t *testing.T) {
	_, err := Calculate(FinanceInput{Calculation: "ebitda"})
	if err == nil {
		t.Fatal("expected error for unknown calculation type")
	}

	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error type = %T, want *ToolError", err)
	}
	if toolErr.ErrorType != "UnknownCalculation" {
		t.Errorf("ErrorType = %q, want UnknownCalculation", toolErr.ErrorType)
	}
}

func TestCalculate_Dispatch(t *testing.T) {
	result, err := Calculate(FinanceInput{
		Calculation: CalcRunway,
		Cash:        600000,
		MonthlyBurn: 100000,
	})
	if err != nil {
		t.Fatalf("Calculate() failed: %v", err)
	}
	if result.Calculation != CalcRunway {
		t.Errorf("calculation label = %q, want %q", result.Calculation, CalcRunway)
	}
	if result.Value != 6 {
		t.Errorf("value = %v, want 6", result.Value)
	}
}
