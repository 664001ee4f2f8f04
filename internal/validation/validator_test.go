package validation

import (
	"testing"
)

func validResponses() AssessmentResponses {
	return AssessmentResponses{
		ProblemClarity:      "Manual compliance reviews cost SMEs two weeks per quarter",
		TargetCustomer:      "UK fintech compliance teams of 5-50 people",
		MarketSize:          "1m-10m",
		CompetitorAwareness: "deep-analysis",
		UniqueAdvantage:     "Proprietary rules dataset from 10 years of audits",

		ProductStage:       "live-product",
		HasPayingCustomers: "no",
		EvidenceOfDemand:   []string{"waitlist", "pilot-customers"},

		RevenueModelClarity: "validated",
		PrimaryRevenueModel: "subscription",
		UnitEconomics:       "understand-basics",
		PricingConfidence:   "tested-with-customers",

		CoFounderCount:    "2",
		TeamCoverage:      "mostly-covered",
		FounderExperience: "previous-startup",
		FullTimeTeamSize:  "4",

		FinancialModel:  "detailed-3yr",
		MonthlyBurnRate: "15000",
		RunwayMonths:    "9-12",
		PriorFunding:    "angel",

		GTMStrategy:         "documented-tested",
		AcquisitionChannels: []string{"content-seo", "outbound-sales"},
		CACKnowledge:        "know-precisely",
		SalesRepeatability:  "repeatable-founder",

		CompanyIncorporation: "ltd-company",
		IPProtection:         []string{"trademarks"},
		KeyAgreements:        "all-in-place",

		HasPitchDeck:          "yes-current",
		FundingAskClarity:     "precise-amount",
		InvestmentStage:       "seed",
		InvestorConversations: "active-conversations",

		TrackingMetrics:      "dashboard-weekly",
		MetricsTracked:       []string{"mrr", "churn", "cac"},
		CanDemonstrateGrowth: "yes-charts",

		VisionScale:         "100m-plus",
		ScalabilityStrategy: "Self-serve onboarding plus channel partnerships",
		BiggestRisks:        "Regulatory change and long enterprise sales cycles",

		ContactName:    "Jane Founder",
		ContactEmail:   "jane@example.com",
		ContactCompany: "Acme Compliance",
		ConsentChecked: true,
	}
}

func TestValidateSubmissionValid(t *testing.T) {
	body := &SubmissionBody{Responses: validResponses()}
	if errs := ValidateSubmission(body); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateSubmissionCollectsAllErrors(t *testing.T) {
	resp := validResponses()
	resp.ProblemClarity = ""
	resp.ContactEmail = "not-an-email"
	resp.MonthlyBurnRate = "about 15k"
	resp.EvidenceOfDemand = nil
	resp.ConsentChecked = false

	errs := ValidateSubmission(&SubmissionBody{Responses: resp})
	if errs == nil {
		t.Fatal("expected errors")
	}

	want := map[string]string{
		"responses.problemClarity":   "This field is required",
		"responses.contactEmail":     "Please enter a valid email address",
		"responses.monthlyBurnRate":  "Please enter a valid number",
		"responses.evidenceOfDemand": "This field is required",
		"responses.consentChecked":   "Consent is required",
	}
	for path, msg := range want {
		if got := errs[path]; got != msg {
			t.Errorf("errs[%q] = %q, want %q", path, got, msg)
		}
	}
	if len(errs) != len(want) {
		t.Errorf("got %d errors %v, want %d", len(errs), errs, len(want))
	}
}

func TestValidateSubmissionEmptyMultiSelect(t *testing.T) {
	resp := validResponses()
	resp.MetricsTracked = []string{}

	errs := ValidateSubmission(&SubmissionBody{Responses: resp})
	if got := errs["responses.metricsTracked"]; got != "Please select at least one option" {
		t.Fatalf("errs[responses.metricsTracked] = %q", got)
	}
}

func TestValidateSubmissionMRRRequiredWithPayingCustomers(t *testing.T) {
	for _, answer := range []string{"yes-recurring", "yes-oneoff"} {
		resp := validResponses()
		resp.HasPayingCustomers = answer
		resp.CurrentMRR = ""
		resp.CustomerGrowthRate = ""

		errs := ValidateSubmission(&SubmissionBody{Responses: resp})
		if got := errs["responses.currentMRR"]; got != "This field is required" {
			t.Errorf("%s: errs[responses.currentMRR] = %q", answer, got)
		}
		if got := errs["responses.customerGrowthRate"]; got != "This field is required" {
			t.Errorf("%s: errs[responses.customerGrowthRate] = %q", answer, got)
		}
	}
}

func TestValidateSubmissionMRRMustBeDigits(t *testing.T) {
	resp := validResponses()
	resp.HasPayingCustomers = "yes-recurring"
	resp.CurrentMRR = "£5,000"
	resp.CustomerGrowthRate = "10-20"

	errs := ValidateSubmission(&SubmissionBody{Responses: resp})
	if got := errs["responses.currentMRR"]; got != "Please enter a valid number" {
		t.Fatalf("errs[responses.currentMRR] = %q", got)
	}
}

func TestValidateSubmissionMRRNotRequiredWithoutPayingCustomers(t *testing.T) {
	resp := validResponses()
	resp.HasPayingCustomers = "not-yet"
	resp.CurrentMRR = ""
	resp.CustomerGrowthRate = ""

	if errs := ValidateSubmission(&SubmissionBody{Responses: resp}); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}
