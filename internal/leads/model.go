package leads

import (
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/reluguard-site/internal/intake"
)

// Field limits, in characters.
const (
	MaxEmail       = 200
	MaxOrgName     = 200
	MaxRole        = 200
	MaxCompanySize = 100
	MaxUseCase     = 1200
	MaxPage        = 400
	MaxTimestamp   = 60
	MaxIP          = 80
	MaxUserAgent   = 300
	MaxHoneypot    = 200
	MaxSubject     = 140
)

// TimestampLayout matches JavaScript's Date.prototype.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// AnswerFields is the allow-list for the policy tailoring answers, in display order.
var AnswerFields = []intake.AnswerField{
	{Key: "riskAppetite", Limit: 120},
	{Key: "aiTools", Limit: 200},
	{Key: "dataSensitivity", Limit: 200},
	{Key: "regEnvironment", Limit: 160},
	{Key: "aiAccessModel", Limit: 220},
}

// Lead is a validated lead form submission. It is never persisted.
type Lead struct {
	Email       string            `json:"email"`
	OrgName     string            `json:"orgName"`
	Role        string            `json:"role"`
	CompanySize string            `json:"companySize"`
	UseCase     string            `json:"useCase"`
	Answers     map[string]string `json:"answers"`
	Page        string            `json:"page"`
	Timestamp   string            `json:"ts"`
	IP          string            `json:"ip"`
	UserAgent   string            `json:"ua"`
}

// ValidEmail applies the minimal shape check used by the form.
func ValidEmail(email string) bool {
	return email != "" && intake.Len(email) >= 5 && strings.Contains(email, "@")
}

// BuildLead normalises the decoded body into a Lead.
func BuildLead(fields intake.Fields, ip, userAgent string, now time.Time) Lead {
	ts := fields.String("ts", MaxTimestamp)
	if ts == "" {
		ts = now.UTC().Format(TimestampLayout)
	}
	return Lead{
		Email:       fields.String("email", MaxEmail),
		OrgName:     fields.String("orgName", MaxOrgName),
		Role:        fields.String("role", MaxRole),
		CompanySize: fields.String("companySize", MaxCompanySize),
		UseCase:     fields.String("useCase", MaxUseCase),
		Answers:     intake.ClampAnswers(fields.Value("answers"), AnswerFields),
		Page:        fields.String("page", MaxPage),
		Timestamp:   ts,
		IP:          intake.Clamp(ip, MaxIP),
		UserAgent:   intake.Clamp(userAgent, MaxUserAgent),
	}
}

// Subject is the single-line notification subject.
func Subject(l Lead) string {
	subject := "ReluGuard lead - " + l.Email
	if l.OrgName != "" {
		subject += " (" + l.OrgName + ")"
	}
	return intake.OneLine(subject, MaxSubject)
}

// Body renders the plain-text notification.
func Body(l Lead) string {
	var b strings.Builder
	b.WriteString("New ReluGuard submission\n\n")
	fmt.Fprintf(&b, "Email: %s\n", l.Email)
	fmt.Fprintf(&b, "Org: %s\n", orDash(l.OrgName))
	fmt.Fprintf(&b, "Role: %s\n", orDash(l.Role))
	fmt.Fprintf(&b, "Company size: %s\n", orDash(l.CompanySize))
	fmt.Fprintf(&b, "Use case: %s\n\n", orDash(l.UseCase))
	b.WriteString("Policy tailoring answers:\n")
	b.WriteString(AnswersText(l.Answers))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Page: %s\n", orDash(l.Page))
	fmt.Fprintf(&b, "Time: %s\n", l.Timestamp)
	fmt.Fprintf(&b, "IP: %s\n", orDash(l.IP))
	fmt.Fprintf(&b, "UA: %s", orDash(l.UserAgent))
	return b.String()
}

// AnswersText renders answers as "key: value" lines, skipping blank values.
func AnswersText(answers map[string]string) string {
	var lines []string
	for _, field := range AnswerFields {
		v := answers[field.Key]
		if strings.TrimSpace(v) == "" {
			continue
		}
		lines = append(lines, field.Key+": "+v)
	}
	if len(lines) == 0 {
		return "-"
	}
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
