package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"realty-calc/domain"
)

const (
	DefaultAdvisorURL   = "https://api.openai.com/v1"
	DefaultAdvisorModel = "gpt-4o-mini"

	advisorSystemPrompt = "You are a residential real-estate finance advisor. You explain calculator results to home buyers, sellers and small investors in plain English. Quote the figures you are given exactly, never invent numbers and keep the tone practical."
)

type AdvisorConfig struct {
	Enabled   bool
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// AIService writes short narratives for calculation results with an
// OpenAI-compatible chat completions API. Without an API key, or when
// the API fails, it returns a fixed template instead.
type AIService struct {
	enabled   bool
	model     string
	maxTokens int
	client    *resty.Client
	logger    *zap.Logger
}

type OpenAIRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OpenAIResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func NewAIService(cfg AdvisorConfig, logger *zap.Logger) *AIService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAdvisorURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultAdvisorModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 300
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &AIService{
		enabled:   cfg.Enabled && cfg.APIKey != "",
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		client:    client,
		logger:    logger,
	}
}

func (s *AIService) Enabled() bool {
	return s.enabled
}

// ExplainInvestment summarizes an investment analysis.
func (s *AIService) ExplainInvestment(ctx context.Context, in domain.InvestmentInput, res domain.InvestmentResult) string {
	if !s.enabled {
		return fallbackInvestmentExplanation(res)
	}

	var units strings.Builder
	for _, u := range res.Units {
		fmt.Fprintf(&units, "- %s: effective rent $%s/month, expenses $%s/month, NOI $%s/year\n",
			unitLabel(u.Label), u.EffectiveMonthlyRent.StringFixed(2), u.MonthlyExpenses.StringFixed(2), u.AnnualNOI.StringFixed(2))
	}

	prompt := fmt.Sprintf(`Summarize this rental property analysis for the buyer.

PURCHASE:
- Price: $%s, down payment $%s, closing costs $%s
- Loan: $%s at %s%% for %d months, payment $%s/month

UNITS:
%s
RESULTS:
- Annual NOI: $%s
- Annual cash flow: $%s
- Cap rate: %s
- Cash-on-cash return: %s
- DSCR: %s

Write 3-4 sentences. Say whether the property covers its debt, what the returns mean and which figure deserves a closer look.`,
		in.PurchasePrice.StringFixed(2), in.DownPayment.StringFixed(2), in.ClosingCosts.StringFixed(2),
		res.LoanAmount.StringFixed(2), in.Loan.AnnualInterestRatePercent.String(), in.Loan.TermMonths, res.MonthlyDebtPayment.StringFixed(2),
		units.String(),
		res.AnnualNOI.StringFixed(2), res.AnnualCashFlow.StringFixed(2),
		formatPercent(res.CapRate), formatPercent(res.CashOnCashReturn), formatMultiple(res.DSCR))

	explanation, err := s.callLLM(ctx, prompt)
	if err != nil {
		s.logger.Warn("advisor failed for investment analysis", zap.Error(err))
		return fallbackInvestmentExplanation(res)
	}
	return explanation
}

// ExplainTermRecommendation explains why the first of the ranked
// options suits the borrower's preference.
func (s *AIService) ExplainTermRecommendation(ctx context.Context, in domain.TermComparisonInput, ranked []domain.TermOption) string {
	top := ranked[0]
	if !s.enabled {
		return fallbackTermExplanation(top, in.Preference)
	}

	var alternatives strings.Builder
	for i := 1; i < len(ranked) && i <= MaxAdvisorAlternatives; i++ {
		fmt.Fprintf(&alternatives, "- %d months: $%s/month, $%s total interest\n",
			ranked[i].TermMonths, ranked[i].MonthlyPayment.StringFixed(2), ranked[i].TotalInterest.StringFixed(2))
	}

	prompt := fmt.Sprintf(`Explain this mortgage term recommendation to the borrower.

LOAN:
- Amount: $%s at %s%% annual interest
- Recommended term: %d months (%.1f years)
- Monthly payment: $%s
- Total interest: $%s
- Borrower preference: %s

ALTERNATIVES:
%s
Write 2-3 sentences on the trade-off between monthly payment and total interest.`,
		in.Amount.StringFixed(2), in.AnnualInterestRatePercent.String(),
		top.TermMonths, float64(top.TermMonths)/12.0,
		top.MonthlyPayment.StringFixed(2), top.TotalInterest.StringFixed(2),
		strings.ReplaceAll(in.Preference, "_", " "),
		alternatives.String())

	explanation, err := s.callLLM(ctx, prompt)
	if err != nil {
		s.logger.Warn("advisor failed for term recommendation", zap.Error(err))
		return fallbackTermExplanation(top, in.Preference)
	}
	return explanation
}

func (s *AIService) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := OpenAIRequest{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: advisorSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: s.maxTokens,
	}

	var out OpenAIResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("advisor API error (status %d): %s", resp.StatusCode(), resp.String())
	}
	if len(out.Choices) == 0 {
		return "", errors.New("advisor returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func fallbackInvestmentExplanation(res domain.InvestmentResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The property produces $%s of net operating income a year", res.AnnualNOI.StringFixed(2))
	if res.AnnualDebtService.IsZero() {
		b.WriteString(" with no debt service.")
	} else {
		fmt.Fprintf(&b, " against $%s of debt service, a DSCR of %s.", res.AnnualDebtService.StringFixed(2), formatMultiple(res.DSCR))
	}
	fmt.Fprintf(&b, " Annual cash flow is $%s, a cap rate of %s and a cash-on-cash return of %s.",
		res.AnnualCashFlow.StringFixed(2), formatPercent(res.CapRate), formatPercent(res.CashOnCashReturn))
	if res.AnnualCashFlow.IsNegative() {
		b.WriteString(" Negative cash flow means the owner covers the shortfall each year.")
	}
	return b.String()
}

func fallbackTermExplanation(top domain.TermOption, preference string) string {
	switch preference {
	case domain.PreferenceMinimizeInterest:
		return fmt.Sprintf("A %d-month term keeps total interest to $%s, at a monthly payment of $%s.",
			top.TermMonths, top.TotalInterest.StringFixed(2), top.MonthlyPayment.StringFixed(2))
	case domain.PreferenceMinimizePayment:
		return fmt.Sprintf("A %d-month term lowers the monthly payment to $%s, leaving more room in the monthly budget.",
			top.TermMonths, top.MonthlyPayment.StringFixed(2))
	default:
		return fmt.Sprintf("A %d-month term balances a monthly payment of $%s against $%s of total interest.",
			top.TermMonths, top.MonthlyPayment.StringFixed(2), top.TotalInterest.StringFixed(2))
	}
}

func formatPercent(r domain.Ratio) string {
	v, ok := r.Value()
	if !ok {
		return r.String()
	}
	return v.Shift(2).StringFixed(2) + "%"
}

func formatMultiple(r domain.Ratio) string {
	v, ok := r.Value()
	if !ok {
		return r.String()
	}
	return v.StringFixed(2) + "x"
}

func unitLabel(label string) string {
	if label == "" {
		return "Unit"
	}
	return label
}
