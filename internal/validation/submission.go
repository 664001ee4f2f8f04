package validation

// AssessmentResponses mirrors the multi-section assessment form. Numeric
// answers are transmitted as digit-only strings and stay strings all the way
// to prompt and email formatting; that representation is part of the client
// contract.
type AssessmentResponses struct {
	// Section 1: Problem-Market Fit
	ProblemClarity      string `json:"problemClarity" validate:"required"`
	TargetCustomer      string `json:"targetCustomer" validate:"required"`
	MarketSize          string `json:"marketSize" validate:"required"`
	CompetitorAwareness string `json:"competitorAwareness" validate:"required"`
	UniqueAdvantage     string `json:"uniqueAdvantage" validate:"required"`

	// Section 2: Product & Traction
	ProductStage       string   `json:"productStage" validate:"required"`
	HasPayingCustomers string   `json:"hasPayingCustomers" validate:"required"`
	CurrentMRR         string   `json:"currentMRR"`
	CustomerGrowthRate string   `json:"customerGrowthRate"`
	EvidenceOfDemand   []string `json:"evidenceOfDemand" validate:"required,min=1"`

	// Section 3: Business Model
	RevenueModelClarity string `json:"revenueModelClarity" validate:"required"`
	PrimaryRevenueModel string `json:"primaryRevenueModel" validate:"required"`
	UnitEconomics       string `json:"unitEconomics" validate:"required"`
	PricingConfidence   string `json:"pricingConfidence" validate:"required"`

	// Section 4: Team
	CoFounderCount    string `json:"coFounderCount" validate:"required"`
	TeamCoverage      string `json:"teamCoverage" validate:"required"`
	FounderExperience string `json:"founderExperience" validate:"required"`
	FullTimeTeamSize  string `json:"fullTimeTeamSize" validate:"required,digits"`

	// Section 5: Financials
	FinancialModel  string `json:"financialModel" validate:"required"`
	MonthlyBurnRate string `json:"monthlyBurnRate" validate:"required,digits"`
	RunwayMonths    string `json:"runwayMonths" validate:"required"`
	PriorFunding    string `json:"priorFunding" validate:"required"`

	// Section 6: Go-to-Market
	GTMStrategy         string   `json:"gtmStrategy" validate:"required"`
	AcquisitionChannels []string `json:"acquisitionChannels" validate:"required,min=1"`
	CACKnowledge        string   `json:"cacKnowledge" validate:"required"`
	SalesRepeatability  string   `json:"salesRepeatability" validate:"required"`

	// Section 7: Legal & IP
	CompanyIncorporation string   `json:"companyIncorporation" validate:"required"`
	IPProtection         []string `json:"ipProtection" validate:"required,min=1"`
	KeyAgreements        string   `json:"keyAgreements" validate:"required"`

	// Section 8: Investment Readiness
	HasPitchDeck          string `json:"hasPitchDeck" validate:"required"`
	FundingAskClarity     string `json:"fundingAskClarity" validate:"required"`
	InvestmentStage       string `json:"investmentStage" validate:"required"`
	InvestorConversations string `json:"investorConversations" validate:"required"`

	// Section 9: Metrics & Data
	TrackingMetrics      string   `json:"trackingMetrics" validate:"required"`
	MetricsTracked       []string `json:"metricsTracked" validate:"required,min=1"`
	CanDemonstrateGrowth string   `json:"canDemonstrateGrowth" validate:"required"`

	// Section 10: Vision & Scalability
	VisionScale         string `json:"visionScale" validate:"required"`
	ScalabilityStrategy string `json:"scalabilityStrategy" validate:"required"`
	BiggestRisks        string `json:"biggestRisks" validate:"required"`

	// Section 11: Contact
	ContactName     string `json:"contactName" validate:"required"`
	ContactEmail    string `json:"contactEmail" validate:"required,email"`
	ContactCompany  string `json:"contactCompany"`
	ContactLinkedin string `json:"contactLinkedin"`
	ContactSource   string `json:"contactSource"`
	ConsentChecked  bool   `json:"consentChecked" validate:"eq=true"`
}

// SubmissionBody is the full submit endpoint payload.
type SubmissionBody struct {
	Responses      AssessmentResponses `json:"responses"`
	RecaptchaToken string              `json:"recaptchaToken"`
}
