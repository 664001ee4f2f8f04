package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"readiness_backend/internal/config"
	"readiness_backend/internal/model"
	"readiness_backend/internal/validation"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	defaultScoringModel = "anthropic/claude-sonnet-4"
	scoringTimeout      = 30 * time.Second
	scoringTemperature  = 0.3
	chatCompletionsPath = "/chat/completions"
)

type ScoringService struct {
	config   config.AIConfig
	client   *http.Client
	validate *validator.Validate
}

func NewScoringService(cfg config.AIConfig) *ScoringService {
	if cfg.Model == "" {
		cfg.Model = defaultScoringModel
	}
	return &ScoringService{
		config:   cfg,
		client:   &http.Client{Timeout: scoringTimeout},
		validate: validator.New(),
	}
}

// Model reports the model name recorded on scored assessments.
func (s *ScoringService) Model() string {
	return s.config.Model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Score evaluates the founder's responses with the scoring model. It makes at
// most two outbound calls: one initial attempt, and one correction attempt
// when the first reply fails schema validation (or the first call times out).
// A second failure is terminal.
func (s *ScoringService) Score(ctx context.Context, responses *validation.AssessmentResponses) (*model.ScoringResult, error) {
	messages := []chatMessage{
		{Role: "system", Content: scoringSystemPrompt},
		{Role: "user", Content: "Please evaluate the following founder assessment responses:\n\n" + formatResponses(responses)},
	}

	firstContent, firstErr := s.complete(ctx, messages)

	var firstProblems []string
	if firstErr == nil {
		result, problems := s.parseAndValidate(firstContent)
		if result != nil {
			return result, nil
		}
		firstProblems = problems
	}

	// Second and final attempt. When the first reply existed but was invalid,
	// feed it back with the concrete validation errors.
	retryMessages := messages
	if firstErr == nil {
		retryMessages = append(append([]chatMessage{}, messages...),
			chatMessage{Role: "user", Content: firstContent},
			chatMessage{Role: "user", Content: fmt.Sprintf(
				"Your previous response did not match the required JSON schema. Validation errors: %s. "+
					"Please respond ONLY with a corrected JSON object matching the exact schema specified in the system prompt.",
				strings.Join(firstProblems, "; "))},
		)
	}

	secondContent, err := s.complete(ctx, retryMessages)
	if err != nil {
		return nil, fmt.Errorf("scoring call failed: %w", err)
	}

	result, problems := s.parseAndValidate(secondContent)
	if result == nil {
		return nil, fmt.Errorf("AI response failed validation after retry: %s", strings.Join(problems, "; "))
	}
	return result, nil
}

func (s *ScoringService) complete(ctx context.Context, messages []chatMessage) (string, error) {
	if s.config.APIKey == "" {
		return "", fmt.Errorf("AI API key is not configured")
	}

	reqBody := chatCompletionRequest{
		Model:       s.config.Model,
		Messages:    messages,
		Temperature: scoringTemperature,
	}
	reqBody.ResponseFormat.Type = "json_object"

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+chatCompletionsPath, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("AI returned no content")
	}

	return result.Choices[0].Message.Content, nil
}

// parseAndValidate parses one reply into a ScoringResult. On failure it
// returns nil plus the problems to feed into the correction prompt.
func (s *ScoringService) parseAndValidate(content string) (*model.ScoringResult, []string) {
	var result model.ScoringResult
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &result); err != nil {
		return nil, []string{"response was not a valid JSON object: " + err.Error()}
	}

	if err := s.validate.Struct(&result); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, []string{err.Error()}
		}
		problems := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s failed '%s' validation", fe.Namespace(), fe.Tag()))
		}
		return nil, problems
	}

	return &result, nil
}

// stripCodeFences removes a markdown code fence wrapper in case the model
// ignored the json_object response format.
func stripCodeFences(content string) string {
	text := strings.TrimSpace(content)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if i := strings.Index(text, "\n"); i != -1 {
		text = text[i+1:]
	}
	if i := strings.LastIndex(text, "```"); i != -1 {
		text = strings.TrimRight(text[:i], " \t\n")
	}
	return text
}

func formatResponses(data *validation.AssessmentResponses) string {
	var b strings.Builder

	section := func(title string) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(title + "\n")
	}
	line := func(label, value string) {
		b.WriteString("  " + label + ": " + value + "\n")
	}

	section("SECTION 1: Problem-Market Fit")
	line("Problem Clarity", data.ProblemClarity)
	line("Target Customer", data.TargetCustomer)
	line("Market Size", data.MarketSize)
	line("Competitor Awareness", data.CompetitorAwareness)
	line("Unique Advantage", data.UniqueAdvantage)

	section("SECTION 2: Product & Traction")
	line("Product Stage", data.ProductStage)
	line("Has Paying Customers", data.HasPayingCustomers)
	if data.CurrentMRR != "" {
		line("Current MRR/ARR (£)", data.CurrentMRR)
	}
	if data.CustomerGrowthRate != "" {
		line("Customer Growth Rate", data.CustomerGrowthRate)
	}
	line("Evidence of Demand", strings.Join(data.EvidenceOfDemand, ", "))

	section("SECTION 3: Business Model")
	line("Revenue Model Clarity", data.RevenueModelClarity)
	line("Primary Revenue Model", data.PrimaryRevenueModel)
	line("Unit Economics Knowledge", data.UnitEconomics)
	line("Pricing Confidence", data.PricingConfidence)

	section("SECTION 4: Team")
	line("Co-founder Count", data.CoFounderCount)
	line("Team Coverage (skills)", data.TeamCoverage)
	line("Founder Experience", data.FounderExperience)
	line("Full-time Team Size", data.FullTimeTeamSize)

	section("SECTION 5: Financials")
	line("Financial Model", data.FinancialModel)
	line("Monthly Burn Rate (£)", data.MonthlyBurnRate)
	line("Runway", data.RunwayMonths)
	line("Prior Funding", data.PriorFunding)

	section("SECTION 6: Go-to-Market")
	line("GTM Strategy", data.GTMStrategy)
	line("Acquisition Channels", strings.Join(data.AcquisitionChannels, ", "))
	line("CAC Knowledge", data.CACKnowledge)
	line("Sales Repeatability", data.SalesRepeatability)

	section("SECTION 7: Legal & IP")
	line("Company Incorporation", data.CompanyIncorporation)
	line("IP Protection", strings.Join(data.IPProtection, ", "))
	line("Key Agreements in Place", data.KeyAgreements)

	section("SECTION 8: Investment Readiness")
	line("Has Pitch Deck", data.HasPitchDeck)
	line("Funding Ask Clarity", data.FundingAskClarity)
	line("Target Investment Stage", data.InvestmentStage)
	line("Investor Conversations", data.InvestorConversations)

	section("SECTION 9: Metrics & Data")
	line("Tracking Maturity", data.TrackingMetrics)
	line("Metrics Tracked", strings.Join(data.MetricsTracked, ", "))
	line("Can Demonstrate Growth", data.CanDemonstrateGrowth)

	section("SECTION 10: Vision & Scalability")
	line("Vision Scale", data.VisionScale)
	line("Scalability Strategy", data.ScalabilityStrategy)
	line("Biggest Risks", data.BiggestRisks)

	return strings.TrimRight(b.String(), "\n")
}

const scoringSystemPrompt = `You are an experienced startup investment analyst with deep expertise in B2B SaaS ventures. Your task is to evaluate a founder's investor readiness based on their self-assessment responses.

Score each of the following 10 categories from 0 to 100:
1. Problem-Market Fit — clarity of problem, target customer definition, market size, competitive differentiation
2. Product & Traction — product stage, customer validation, evidence of demand, growth indicators
3. Business Model — revenue model clarity, pricing confidence, unit economics understanding
4. Team — founder experience, team completeness, domain expertise, full-time commitment
5. Financials — financial model sophistication, burn rate awareness, runway, prior funding
6. Go-to-Market — GTM strategy clarity, acquisition channels, CAC awareness, sales repeatability
7. Legal & IP — incorporation status, IP protection, key agreements in place
8. Investment Readiness — pitch deck existence, funding ask clarity, investor engagement level
9. Metrics & Data — tracking maturity, key metrics coverage, ability to demonstrate growth
10. Vision & Scalability — scale of vision, scalability strategy, risk awareness

Scoring guide:
- 80–100: Excellent — investor-ready for this category
- 60–79: Good — minor gaps exist
- 40–59: Developing — notable gaps
- 20–39: Early stage — significant gaps
- 0–19: Pre-early — not investment-ready in this area

Readiness level thresholds (based on overall weighted score):
- investment_ready: 70–100
- nearly_there: 50–69
- early_stage: 25–49
- too_early: 0–24

IMPORTANT: Respond ONLY with a single valid JSON object. No markdown fences, no explanation, no preamble. The JSON must exactly match this structure:
{
  "overallScore": <0-100>,
  "readinessLevel": "<investment_ready|nearly_there|early_stage|too_early>",
  "categories": [
    { "name": "<category name>", "score": <0-100>, "justification": "<1-2 sentences>", "recommendation": "<specific action>" }
  ],
  "topGaps": [
    { "title": "<gap title>", "currentState": "<current weakness>", "recommendedActions": ["<action>", "<action>"] }
  ],
  "quickWins": ["<actionable item doable this week>"],
  "mediumTermRecommendations": ["<1-3 month strategic recommendation>"]
}
The categories array must contain exactly 10 entries, one per category in order. topGaps holds the 1-3 most critical gaps. quickWins and mediumTermRecommendations hold 1-5 entries each.`
