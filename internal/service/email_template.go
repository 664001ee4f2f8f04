package service

import (
	"bytes"
	"html/template"
	"readiness_backend/internal/model"
	"sort"
	"strings"
)

// Design-system colors shared with the results pages.
const (
	colorNavy        = "#0f172a"
	colorAccentBlue  = "#2563eb"
	colorCTAGreen    = "#10b981"
	colorScoreGreen  = "#22c55e"
	colorScoreBlue   = "#3b82f6"
	colorScoreOrange = "#f97316"
	colorScoreRed    = "#ef4444"
	colorPageBg      = "#f8fafc"
	colorCardBorder  = "#e2e8f0"
	colorTextSecond  = "#475569"
	colorTextMuted   = "#94a3b8"
	colorWhite       = "#ffffff"
)

func scoreColor(score int) string {
	switch {
	case score >= 75:
		return colorScoreGreen
	case score >= 60:
		return colorScoreBlue
	case score >= 40:
		return colorScoreOrange
	default:
		return colorScoreRed
	}
}

func barWidth(score int) int {
	if score < 4 {
		return 4
	}
	return score
}

type emailGap struct {
	Title        string
	CurrentState string
	FirstAction  string
}

type resultsEmailData struct {
	FirstName      string
	CompanyLine    string
	OverallScore   int
	ScoreColor     string
	ReadinessLabel string
	Strongest      []model.CategoryScore
	Weakest        []model.CategoryScore
	Gaps           []emailGap
	QuickWins      []string
	ResultsURL     string
	BookingURL     string
	UnsubscribeURL string

	Navy       string
	AccentBlue string
	CTAGreen   string
	PageBg     string
	CardBorder string
	TextSecond string
	TextMuted  string
	White      string
}

// buildResultsEmail renders the results email: score hero, the three
// strongest and weakest categories with bars, up to three gap cards and
// quick wins, and the two CTAs.
func buildResultsEmail(contactName, contactCompany string, overallScore int, readinessLevel string,
	categoryScores []model.CategoryScore, topGaps []model.ScoringGap, quickWins []string,
	resultsURL, bookingURL, unsubscribeURL string) (string, error) {

	firstName := contactName
	if i := strings.Index(contactName, " "); i > 0 {
		firstName = contactName[:i]
	}

	companyLine := ""
	if contactCompany != "" {
		companyLine = " at " + contactCompany
	}

	label, ok := model.ReadinessLabels[readinessLevel]
	if !ok {
		label = readinessLevel
	}

	strongest := append([]model.CategoryScore{}, categoryScores...)
	sort.SliceStable(strongest, func(i, j int) bool { return strongest[i].Score > strongest[j].Score })
	weakest := append([]model.CategoryScore{}, categoryScores...)
	sort.SliceStable(weakest, func(i, j int) bool { return weakest[i].Score < weakest[j].Score })
	strongest = capCategories(strongest, 3)
	weakest = capCategories(weakest, 3)

	gaps := make([]emailGap, 0, 3)
	for _, g := range topGaps {
		if len(gaps) == 3 {
			break
		}
		first := ""
		if len(g.RecommendedActions) > 0 {
			first = g.RecommendedActions[0]
		}
		gaps = append(gaps, emailGap{Title: g.Title, CurrentState: g.CurrentState, FirstAction: first})
	}

	wins := quickWins
	if len(wins) > 3 {
		wins = wins[:3]
	}

	data := resultsEmailData{
		FirstName:      firstName,
		CompanyLine:    companyLine,
		OverallScore:   overallScore,
		ScoreColor:     scoreColor(overallScore),
		ReadinessLabel: label,
		Strongest:      strongest,
		Weakest:        weakest,
		Gaps:           gaps,
		QuickWins:      wins,
		ResultsURL:     resultsURL,
		BookingURL:     bookingURL,
		UnsubscribeURL: unsubscribeURL,
		Navy:           colorNavy,
		AccentBlue:     colorAccentBlue,
		CTAGreen:       colorCTAGreen,
		PageBg:         colorPageBg,
		CardBorder:     colorCardBorder,
		TextSecond:     colorTextSecond,
		TextMuted:      colorTextMuted,
		White:          colorWhite,
	}

	var buf bytes.Buffer
	if err := resultsEmailTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func capCategories(cs []model.CategoryScore, n int) []model.CategoryScore {
	if len(cs) > n {
		return cs[:n]
	}
	return cs
}

var resultsEmailTmpl = template.Must(template.New("results").Funcs(template.FuncMap{
	"scoreColor": scoreColor,
	"barWidth":   barWidth,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Your Investor Readiness Score — E3 Digital</title>
</head>
<body style="margin:0;padding:0;background:{{.PageBg}};font-family:Arial,Helvetica,sans-serif;">
  <table cellpadding="0" cellspacing="0" border="0" width="100%" style="background:{{.PageBg}};padding:24px 0;">
    <tr>
      <td align="center">
        <table cellpadding="0" cellspacing="0" border="0" width="600" style="max-width:600px;background:{{.White}};border-radius:12px;overflow:hidden;border:1px solid {{.CardBorder}};">

          <tr>
            <td style="background:{{.Navy}};padding:28px 32px;text-align:center;">
              <p style="margin:0 0 4px;font-size:22px;font-weight:700;color:{{.White}};letter-spacing:-0.5px;">E3 Digital</p>
              <p style="margin:0;font-size:13px;color:{{.TextMuted}};">Investor Readiness Assessment</p>
            </td>
          </tr>

          <tr>
            <td style="padding:36px 32px 28px;text-align:center;background:{{.White}};">
              <p style="margin:0 0 8px;font-size:16px;color:{{.TextSecond}};">Hi {{.FirstName}}{{.CompanyLine}},</p>
              <p style="margin:0 0 24px;font-size:15px;color:{{.TextSecond}};">Here is your investor readiness assessment result:</p>

              <table cellpadding="0" cellspacing="0" border="0" align="center" style="margin:0 auto 16px;">
                <tr>
                  <td style="width:120px;height:120px;border-radius:50%;background:{{.PageBg}};border:6px solid {{.ScoreColor}};text-align:center;vertical-align:middle;">
                    <p style="margin:0;font-size:42px;font-weight:700;color:{{.ScoreColor}};line-height:1;">{{.OverallScore}}</p>
                    <p style="margin:0;font-size:13px;color:{{.TextMuted}};">/ 100</p>
                  </td>
                </tr>
              </table>

              <table cellpadding="0" cellspacing="0" border="0" align="center" style="margin:0 auto;">
                <tr>
                  <td style="background:{{.ScoreColor}};border-radius:20px;padding:6px 20px;">
                    <p style="margin:0;font-size:14px;font-weight:700;color:{{.White}};">{{.ReadinessLabel}}</p>
                  </td>
                </tr>
              </table>
            </td>
          </tr>

          <tr>
            <td style="padding:0 32px 24px;">
              <p style="margin:0 0 8px;font-size:15px;font-weight:700;color:{{.Navy}};">Your strongest areas</p>
              <table cellpadding="0" cellspacing="0" border="0" width="100%">
                {{range .Strongest}}
                <tr>
                  <td style="padding:8px 0;">
                    <table cellpadding="0" cellspacing="0" border="0" width="100%">
                      <tr>
                        <td style="font-size:13px;color:{{$.Navy}};font-weight:600;padding-bottom:4px;">{{.Name}}</td>
                        <td align="right" style="font-size:13px;color:{{scoreColor .Score}};font-weight:700;padding-bottom:4px;">{{.Score}}/100</td>
                      </tr>
                      <tr>
                        <td colspan="2">
                          <table cellpadding="0" cellspacing="0" border="0" width="100%">
                            <tr>
                              <td style="background:{{$.CardBorder}};border-radius:4px;height:8px;overflow:hidden;">
                                <table cellpadding="0" cellspacing="0" border="0" width="{{barWidth .Score}}%">
                                  <tr><td style="background:{{scoreColor .Score}};height:8px;border-radius:4px;">&nbsp;</td></tr>
                                </table>
                              </td>
                            </tr>
                          </table>
                        </td>
                      </tr>
                    </table>
                  </td>
                </tr>
                {{end}}
              </table>

              <p style="margin:20px 0 8px;font-size:15px;font-weight:700;color:{{.Navy}};">Where to focus next</p>
              <table cellpadding="0" cellspacing="0" border="0" width="100%">
                {{range .Weakest}}
                <tr>
                  <td style="padding:8px 0;">
                    <table cellpadding="0" cellspacing="0" border="0" width="100%">
                      <tr>
                        <td style="font-size:13px;color:{{$.Navy}};font-weight:600;padding-bottom:4px;">{{.Name}}</td>
                        <td align="right" style="font-size:13px;color:{{scoreColor .Score}};font-weight:700;padding-bottom:4px;">{{.Score}}/100</td>
                      </tr>
                      <tr>
                        <td colspan="2">
                          <table cellpadding="0" cellspacing="0" border="0" width="100%">
                            <tr>
                              <td style="background:{{$.CardBorder}};border-radius:4px;height:8px;overflow:hidden;">
                                <table cellpadding="0" cellspacing="0" border="0" width="{{barWidth .Score}}%">
                                  <tr><td style="background:{{scoreColor .Score}};height:8px;border-radius:4px;">&nbsp;</td></tr>
                                </table>
                              </td>
                            </tr>
                          </table>
                        </td>
                      </tr>
                    </table>
                  </td>
                </tr>
                {{end}}
              </table>
            </td>
          </tr>

          {{if .Gaps}}
          <tr>
            <td style="padding:0 32px 24px;">
              <p style="margin:0 0 12px;font-size:15px;font-weight:700;color:{{.Navy}};">Top gaps to close</p>
              {{range .Gaps}}
              <table cellpadding="0" cellspacing="0" border="0" width="100%" style="margin-bottom:12px;border:1px solid {{$.CardBorder}};border-radius:8px;overflow:hidden;">
                <tr>
                  <td style="background:{{$.PageBg}};padding:14px 16px;">
                    <p style="margin:0 0 6px;font-size:14px;font-weight:700;color:{{$.Navy}};">{{.Title}}</p>
                    <p style="margin:0 0 8px;font-size:13px;color:{{$.TextSecond}};">{{.CurrentState}}</p>
                    <p style="margin:0;font-size:13px;color:{{$.AccentBlue}};font-weight:600;">Action: {{.FirstAction}}</p>
                  </td>
                </tr>
              </table>
              {{end}}
            </td>
          </tr>
          {{end}}

          {{if .QuickWins}}
          <tr>
            <td style="padding:0 32px 24px;">
              <p style="margin:0 0 8px;font-size:15px;font-weight:700;color:{{.Navy}};">Quick wins for this week</p>
              <table cellpadding="0" cellspacing="0" border="0" width="100%">
                {{range .QuickWins}}
                <tr>
                  <td style="padding:6px 0;font-size:14px;color:{{$.TextSecond}};">
                    <table cellpadding="0" cellspacing="0" border="0">
                      <tr>
                        <td style="padding-right:10px;color:{{$.CTAGreen}};font-size:16px;vertical-align:top;">&#10003;</td>
                        <td style="vertical-align:top;">{{.}}</td>
                      </tr>
                    </table>
                  </td>
                </tr>
                {{end}}
              </table>
            </td>
          </tr>
          {{end}}

          <tr>
            <td style="padding:8px 32px 36px;text-align:center;">
              <table cellpadding="0" cellspacing="0" border="0" align="center" style="margin:0 auto 12px;">
                <tr>
                  <td style="background:{{.AccentBlue}};border-radius:8px;">
                    <a href="{{.ResultsURL}}" style="display:inline-block;padding:12px 28px;font-size:15px;font-weight:700;color:{{.White}};text-decoration:none;">View your full report</a>
                  </td>
                </tr>
              </table>
              <table cellpadding="0" cellspacing="0" border="0" align="center" style="margin:0 auto;">
                <tr>
                  <td style="background:{{.CTAGreen}};border-radius:8px;">
                    <a href="{{.BookingURL}}" style="display:inline-block;padding:12px 28px;font-size:15px;font-weight:700;color:{{.White}};text-decoration:none;">Book a free consultation</a>
                  </td>
                </tr>
              </table>
            </td>
          </tr>

          <tr>
            <td style="background:{{.PageBg}};padding:20px 32px;text-align:center;border-top:1px solid {{.CardBorder}};">
              <p style="margin:0 0 4px;font-size:12px;color:{{.TextMuted}};">E3 Digital — Investor Readiness Assessment</p>
              <p style="margin:0;font-size:12px;color:{{.TextMuted}};"><a href="{{.UnsubscribeURL}}" style="color:{{.TextMuted}};">Unsubscribe</a></p>
            </td>
          </tr>

        </table>
      </td>
    </tr>
  </table>
</body>
</html>`))
