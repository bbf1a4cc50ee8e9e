package engine

import (
	"math"
	"reflect"
	"testing"

	"credit-engine/internal/model"
)

const tol = 1e-6

func bulletProduct(danger float64) *model.Product {
	return &model.Product{
		ID:          "bullet-1y",
		Type:        model.LoanTypeBullet,
		Duration:    4,
		Spread:      4.0,
		DangerRate:  danger,
		VolumeArray: []float64{100_000_000},
		Recovery: model.RecoveryTerms{
			LTV:               80,
			CollateralHaircut: 20,
			RecoveryCosts:     5,
			TimeToRecover:     8,
		},
	}
}

func firstQuarterOnly() *model.Assumptions {
	return &model.Assumptions{
		Euribor:             3.5,
		FTPSpread:           1.5,
		QuarterlyAllocation: []float64{100, 0, 0, 0},
	}
}

func TestBulletTiming(t *testing.T) {
	res := Simulate(bulletProduct(0), firstQuarterOnly())
	qs := res.Quarterly

	for q := 0; q <= 4; q++ {
		if qs.PerformingStock[q] != 100_000_000 {
			t.Fatalf("quarter %d: expected performing stock 100M, got %v", q, qs.PerformingStock[q])
		}
	}
	if qs.PerformingStock[5] != 0 {
		t.Fatalf("expected zero performing stock after maturity, got %v", qs.PerformingStock[5])
	}
	if qs.PrincipalRepayments[4] != 100_000_000 {
		t.Fatalf("expected bullet repayment at maturity quarter, got %v", qs.PrincipalRepayments[4])
	}
	if res.Annual.PerformingAssets[0] != 100_000_000 || res.Annual.PerformingAssets[1] != 0 {
		t.Fatalf("unexpected year-end stock %v", res.Annual.PerformingAssets[:2])
	}
}

func TestBulletInterestTiming(t *testing.T) {
	qs := Simulate(bulletProduct(0), firstQuarterOnly()).Quarterly

	want := []float64{0, 1_875_000, 1_875_000, 1_875_000, 1_875_000, 0}
	for q, w := range want {
		if math.Abs(qs.InterestIncome[q]-w) > tol {
			t.Fatalf("quarter %d: expected interest %v, got %v", q, w, qs.InterestIncome[q])
		}
	}

	var total float64
	for _, v := range qs.InterestIncome {
		total += v
	}
	if math.Abs(total-7_500_000) > tol {
		t.Fatalf("expected 7.5M total interest, got %v", total)
	}
}

func TestMonotonicInterestUnderStress(t *testing.T) {
	guaranteed := model.RecoveryTerms{StateGuaranteePercentage: 100, StateGuaranteeRecoveryTime: 8}
	secured := model.RecoveryTerms{LTV: 60, TimeToRecover: 12}

	product := func(loanType string, duration, grace int, terms model.RecoveryTerms) func(float64) *model.Product {
		return func(danger float64) *model.Product {
			return &model.Product{
				ID:          "stress",
				Type:        loanType,
				Duration:    duration,
				GracePeriod: grace,
				Spread:      4.0,
				DangerRate:  danger,
				VolumeArray: []float64{100_000_000, 50_000_000},
				Recovery:    terms,
			}
		}
	}

	tests := []struct {
		name    string
		product func(float64) *model.Product
	}{
		{"bullet 1q guaranteed", product(model.LoanTypeBullet, 1, 0, guaranteed)},
		{"bullet 2q guaranteed", product(model.LoanTypeBullet, 2, 0, guaranteed)},
		{"bullet 3q secured", product(model.LoanTypeBullet, 3, 0, secured)},
		{"bullet 4q guaranteed", product(model.LoanTypeBullet, 4, 0, guaranteed)},
		{"bullet 8q secured", product(model.LoanTypeBullet, 8, 0, secured)},
		{"unknown type 2q", product("balloon", 2, 0, guaranteed)},
		{"french 12q grace 2 guaranteed", product(model.LoanTypeFrench, 12, 2, guaranteed)},
		{"french 6q secured", product(model.LoanTypeFrench, 6, 0, secured)},
	}
	allocations := map[string]*model.Assumptions{
		"first quarter": firstQuarterOnly(),
		"even":          {Euribor: 3.5, FTPSpread: 1.5},
	}
	dangers := []float64{0, 5, 10, 20, 25, 50, 75, 100}

	for _, tt := range tests {
		for allocName, a := range allocations {
			t.Run(tt.name+"/"+allocName, func(t *testing.T) {
				prevYear, prevLife := math.Inf(1), math.Inf(1)
				for _, danger := range dangers {
					res := Simulate(tt.product(danger), a)
					year := res.Annual.InterestIncome[0]
					var life float64
					for _, v := range res.Annual.InterestIncome {
						life += v
					}
					if year > prevYear+tol {
						t.Fatalf("danger %v%%: first-year interest %v increased from %v", danger, year, prevYear)
					}
					if life > prevLife+tol {
						t.Fatalf("danger %v%%: lifetime interest %v increased from %v", danger, life, prevLife)
					}
					prevYear, prevLife = year, life
				}
			})
		}
	}

	a := firstQuarterOnly()
	calm := Simulate(bulletProduct(0), a).Annual.InterestIncome[0]
	stressed := Simulate(bulletProduct(100), a).Annual.InterestIncome[0]
	if calm <= stressed {
		t.Fatalf("expected interest at 0%% danger (%v) to exceed 100%% danger (%v)", calm, stressed)
	}
}

func TestNPLInterestEndsAtVintageMaturity(t *testing.T) {
	p := &model.Product{
		Type:        model.LoanTypeBullet,
		Duration:    2,
		Spread:      4.0,
		DangerRate:  100,
		VolumeArray: []float64{100_000_000},
		Recovery:    model.RecoveryTerms{StateGuaranteePercentage: 100, StateGuaranteeRecoveryTime: 8},
	}
	qs := Simulate(p, firstQuarterOnly()).Quarterly

	if qs.NPLStock[3] <= 0 {
		t.Fatal("expected the guaranteed cohort to still be held after maturity")
	}
	for q := 3; q < model.Quarters; q++ {
		if qs.NPLInterest[q] != 0 {
			t.Fatalf("quarter %d: expected no npl interest after maturity, got %v", q, qs.NPLInterest[q])
		}
	}
}

func TestGraceInvarianceOfMaturity(t *testing.T) {
	a := firstQuarterOnly()
	zeroQuarter := func(grace int) int {
		p := &model.Product{
			Type:        model.LoanTypeFrench,
			Duration:    12,
			GracePeriod: grace,
			Spread:      2,
			VolumeArray: []float64{1000},
		}
		qs := Simulate(p, a).Quarterly
		for q := 1; q < model.Quarters; q++ {
			if qs.ClosingPerformingStock[q] == 0 {
				return q
			}
		}
		return -1
	}

	noGrace, withGrace := zeroQuarter(0), zeroQuarter(4)
	if noGrace != 12 || withGrace != 12 {
		t.Fatalf("expected both loans repaid at quarter 12, got %d and %d", noGrace, withGrace)
	}
}

func TestFrenchRepaymentTotals(t *testing.T) {
	p := &model.Product{
		Type:        model.LoanTypeFrench,
		Duration:    16,
		GracePeriod: 2,
		Spread:      3,
		VolumeArray: []float64{400, 200},
	}
	res := Simulate(p, &model.Assumptions{Euribor: 2})

	var repaid float64
	for _, v := range res.Annual.PrincipalRepayments {
		repaid += v
	}
	if math.Abs(repaid-600) > tol {
		t.Fatalf("expected total repayments 600, got %v", repaid)
	}
}

func TestReconciliationFullDefault(t *testing.T) {
	p := &model.Product{
		Type:        model.LoanTypeBullet,
		Duration:    60,
		Spread:      3,
		DangerRate:  100,
		VolumeArray: []float64{1000},
		Recovery:    model.RecoveryTerms{IsUnsecured: true, TimeToRecover: 100},
	}
	res := Simulate(p, firstQuarterOnly())

	var llp float64
	for _, v := range res.Annual.LLP {
		llp -= v
	}
	last := model.Years - 1
	total := res.Annual.PerformingAssets[last] + res.Annual.NPLStock[last] + llp
	if math.Abs(total-1000) > tol {
		t.Fatalf("expected performing + npl + llp = 1000, got %v", total)
	}
	if res.Annual.PerformingAssets[last] > 1 {
		t.Fatalf("expected almost all principal defaulted, got %v performing", res.Annual.PerformingAssets[last])
	}
}

func TestQuarterlyIdentity(t *testing.T) {
	p := &model.Product{
		Type:                 model.LoanTypeFrench,
		Duration:             20,
		GracePeriod:          3,
		Spread:               2.5,
		DangerRate:           4,
		CreditClassification: model.ClassificationUTP,
		Volumes:              model.VolumeRange{Y1: 500, Y10: 1500},
		Recovery: model.RecoveryTerms{
			LTV:                        70,
			CollateralHaircut:          25,
			RecoveryCosts:              8,
			StateGuaranteePercentage:   30,
			StateGuaranteeRecoveryTime: 2,
			TimeToRecover:              10,
		},
	}
	res := Simulate(p, &model.Assumptions{Euribor: 3, FTPSpread: 1, QuarterlyAllocation: []float64{10, 20, 30, 40}})
	qs := res.Quarterly

	var disbursed, repaid, llp, recovered float64
	for q := 0; q < model.Quarters; q++ {
		disbursed += qs.NewBusiness[q]
		repaid += qs.PrincipalRepayments[q]
		llp -= qs.LLP[q]
		recovered += qs.Recoveries[q]

		lhs := disbursed - repaid
		rhs := qs.ClosingPerformingStock[q] + qs.NPLStock[q] + llp + recovered
		if math.Abs(lhs-rhs) > 1e-6*math.Max(1, lhs) {
			t.Fatalf("quarter %d: disbursed-repaid %v != balances %v", q, lhs, rhs)
		}
		if qs.NPLStock[q] < 0 {
			t.Fatalf("quarter %d: negative npl stock %v", q, qs.NPLStock[q])
		}
		if qs.NewNPLs[q]+qs.LLP[q] < -tol {
			t.Fatalf("quarter %d: llp exceeds gross defaults", q)
		}
	}
	if recovered == 0 {
		t.Fatal("expected some cohorts to be released within the horizon")
	}
}

func TestNoDefaultsInDisbursementQuarter(t *testing.T) {
	res := Simulate(bulletProduct(40), firstQuarterOnly())
	if res.Quarterly.NewNPLs[0] != 0 {
		t.Fatalf("expected no defaults in disbursement quarter, got %v", res.Quarterly.NewNPLs[0])
	}
	if res.Quarterly.NewNPLs[4] != 0 {
		t.Fatalf("expected no defaults in maturity quarter, got %v", res.Quarterly.NewNPLs[4])
	}
	if math.Abs(res.Quarterly.NewNPLs[1]-10_000_000) > tol {
		t.Fatalf("expected 10M default in quarter 1, got %v", res.Quarterly.NewNPLs[1])
	}
}

func TestUTPMultiplier(t *testing.T) {
	base := bulletProduct(4)
	utp := bulletProduct(4)
	utp.CreditClassification = model.ClassificationUTP

	a := firstQuarterOnly()
	got := Simulate(utp, a).Quarterly.NewNPLs[1]
	want := Simulate(base, a).Quarterly.NewNPLs[1] * 2.5
	if math.Abs(got-want) > tol {
		t.Fatalf("expected UTP defaults %v, got %v", want, got)
	}
}

func TestDerivedMetrics(t *testing.T) {
	p := &model.Product{
		Type:           model.LoanTypeBullet,
		Duration:       40,
		Spread:         2,
		DangerRate:     2,
		VolumeArray:    []float64{1000, 1000, 1000, 1000},
		CommissionRate: 1.5,
		RWADensity:     60,
		AvgLoanSize:    300,
		EquityUpside:   10,
		Recovery:       model.RecoveryTerms{IsUnsecured: true, TimeToRecover: 4},
	}
	annual := Simulate(p, &model.Assumptions{Euribor: 3}).Annual

	if annual.CommissionIncome[0] != 15 {
		t.Fatalf("expected commission 15, got %v", annual.CommissionIncome[0])
	}
	if annual.NumberOfLoans[0] != 3 {
		t.Fatalf("expected 3 loans, got %v", annual.NumberOfLoans[0])
	}
	wantRWA := annual.PerformingAssets[2]*0.6 + annual.NPLStock[2]*1.5
	if math.Abs(annual.RWA[2]-wantRWA) > tol {
		t.Fatalf("expected rwa %v, got %v", wantRWA, annual.RWA[2])
	}
	if annual.EquityUpsideIncome[2] != 0 {
		t.Fatalf("expected no equity upside before year 4, got %v", annual.EquityUpsideIncome[2])
	}
	wantUpside := annual.PerformingAssets[0] * 0.2 * 0.1
	if math.Abs(annual.EquityUpsideIncome[3]-wantUpside) > tol {
		t.Fatalf("expected equity upside %v, got %v", wantUpside, annual.EquityUpsideIncome[3])
	}
}

func TestFTPExpenseOnAveragePerforming(t *testing.T) {
	annual := Simulate(bulletProduct(0), firstQuarterOnly()).Annual

	if annual.AveragePerforming[1] != 25_000_000 {
		t.Fatalf("expected average 25M in year 2, got %v", annual.AveragePerforming[1])
	}
	if math.Abs(annual.InterestExpense[0]+5_000_000) > tol {
		t.Fatalf("expected -5M ftp expense, got %v", annual.InterestExpense[0])
	}
}

func TestIdempotence(t *testing.T) {
	p := bulletProduct(12)
	p.Type = model.LoanTypeFrench
	p.Duration = 10
	a := &model.Assumptions{Euribor: 2, FTPSpread: 1}

	first := Simulate(p, a)
	second := Simulate(p, a)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical results for identical inputs")
	}
}

func TestProcess(t *testing.T) {
	req := &model.SimulationRequest{
		TenantID:    "test-tenant",
		Assumptions: *firstQuarterOnly(),
		Products:    []model.Product{*bulletProduct(2)},
	}

	resp := Process(req)

	if resp.SimulationMetadata.SimulationOutcome != model.OutcomeSuccess {
		t.Fatalf("expected SUCCESS, got %s", resp.SimulationMetadata.SimulationOutcome)
	}
	if resp.SimulationMetadata.TenantID != "test-tenant" {
		t.Fatalf("expected tenant_id test-tenant, got %s", resp.SimulationMetadata.TenantID)
	}
	if resp.SimulationMetadata.SimulationID == "" {
		t.Fatal("expected simulation id")
	}
	if len(resp.SimulationResult.Messages) != 0 {
		t.Fatalf("expected 0 messages, got %d", len(resp.SimulationResult.Messages))
	}
	if len(resp.SimulationResult.Products) != 1 {
		t.Fatalf("expected 1 product result, got %d", len(resp.SimulationResult.Products))
	}
	if resp.SimulationResult.Products[0].Quarterly != nil {
		t.Fatal("expected quarterly detail to be omitted")
	}
	if resp.SimulationResult.Portfolio == nil {
		t.Fatal("expected portfolio totals")
	}
	if resp.SimulationResult.Portfolio.BalanceSheetPerforming[0] != 100_000_000 {
		t.Fatalf("expected balance sheet 100M, got %v", resp.SimulationResult.Portfolio.BalanceSheetPerforming[0])
	}
}

func TestProcessUnknownLoanType(t *testing.T) {
	p := bulletProduct(0)
	p.Type = "balloon"
	req := &model.SimulationRequest{
		Assumptions:      *firstQuarterOnly(),
		Products:         []model.Product{*p},
		IncludeQuarterly: true,
	}

	resp := Process(req)

	if resp.SimulationMetadata.SimulationOutcome != model.OutcomeSuccess {
		t.Fatalf("expected SUCCESS, got %s", resp.SimulationMetadata.SimulationOutcome)
	}
	msgs := resp.SimulationResult.Messages
	if len(msgs) != 1 || msgs[0].Code != "UNKNOWN_LOAN_TYPE" || msgs[0].Level != model.LevelWarning {
		t.Fatalf("expected one UNKNOWN_LOAN_TYPE warning, got %+v", msgs)
	}
	qs := resp.SimulationResult.Products[0].Quarterly
	if qs == nil || qs.PrincipalRepayments[4] != 100_000_000 {
		t.Fatal("expected bullet semantics for unknown loan type")
	}
}

func TestProcessValidation(t *testing.T) {
	tests := []struct {
		name string
		req  model.SimulationRequest
		code string
	}{
		{"no products", model.SimulationRequest{}, "NO_PRODUCTS"},
		{
			"bad allocation",
			model.SimulationRequest{
				Assumptions: model.Assumptions{QuarterlyAllocation: []float64{50, 50}},
				Products:    []model.Product{{ID: "a"}},
			},
			"INVALID_ALLOCATION",
		},
		{
			"duplicate ids",
			model.SimulationRequest{Products: []model.Product{{ID: "a"}, {ID: "a"}}},
			"DUPLICATE_PRODUCT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Process(&tt.req)
			if resp.SimulationMetadata.SimulationOutcome != model.OutcomeFailure {
				t.Fatalf("expected FAILURE, got %s", resp.SimulationMetadata.SimulationOutcome)
			}
			msgs := resp.SimulationResult.Messages
			if len(msgs) == 0 || msgs[0].Code != tt.code {
				t.Fatalf("expected %s, got %+v", tt.code, msgs)
			}
			if len(resp.SimulationResult.Products) != 0 {
				t.Fatalf("expected no product results, got %d", len(resp.SimulationResult.Products))
			}
		})
	}
}

func TestProcessAllocationWarning(t *testing.T) {
	req := &model.SimulationRequest{
		Assumptions: model.Assumptions{QuarterlyAllocation: []float64{30, 30, 30, 0}},
		Products:    []model.Product{*bulletProduct(0)},
	}
	resp := Process(req)

	if resp.SimulationMetadata.SimulationOutcome != model.OutcomeSuccess {
		t.Fatalf("expected SUCCESS, got %s", resp.SimulationMetadata.SimulationOutcome)
	}
	msgs := resp.SimulationResult.Messages
	if len(msgs) != 1 || msgs[0].Code != "ALLOCATION_NOT_100" {
		t.Fatalf("expected allocation warning, got %+v", msgs)
	}
}
