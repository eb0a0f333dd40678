// Package worker turns queued summary requests into delivered emails.
package worker

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/devxxclaire/MyFinanceHub/internal/log"
	"github.com/devxxclaire/MyFinanceHub/internal/notify"
	"github.com/devxxclaire/MyFinanceHub/internal/services"
	"github.com/devxxclaire/MyFinanceHub/web"
)

// Mailer delivers a rendered email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SummaryWorker recomputes a user's monthly summary from storage and
// mails the rendered report. Computing at delivery time keeps the email
// consistent with the ledger even when the queue lags.
type SummaryWorker struct {
	insights *services.InsightsService
	mailer   Mailer
	tmpl     *template.Template
	logger   *log.Logger
}

func NewSummaryWorker(insights *services.InsightsService, mailer Mailer, logger *log.Logger) (*SummaryWorker, error) {
	if logger == nil {
		logger = log.New(log.ComponentWorker, nil)
	}
	tmpl, err := template.ParseFS(web.TemplatesFS, "templates/summary_email.html")
	if err != nil {
		return nil, fmt.Errorf("parse summary template: %w", err)
	}
	return &SummaryWorker{
		insights: insights,
		mailer:   mailer,
		tmpl:     tmpl,
		logger:   logger,
	}, nil
}

// emailData is the flattened view the template renders. Amounts arrive
// preformatted so the template stays free of formatting logic.
type emailData struct {
	Username     string
	MonthName    string
	Year         int
	ExpenseTotal string
	IncomeTotal  string
	NetSavings   string
	TopCategory  string
	Budgets      []budgetRow
	Trend        []trendRow
}

type budgetRow struct {
	Category string
	Spent    string
	Budget   string
	Percent  int
}

type trendRow struct {
	Month string
	Total string
}

// HandleSummaryRequest computes, renders and sends one summary email.
// Errors bubble up so the consumer can requeue the delivery.
func (w *SummaryWorker) HandleSummaryRequest(ctx context.Context, req *notify.SummaryRequest) error {
	summary, err := w.insights.MonthlySummary(ctx, req.Username, req.Year, req.Month)
	if err != nil {
		return fmt.Errorf("compute monthly summary: %w", err)
	}

	html, err := w.render(summary, req.Username)
	if err != nil {
		return fmt.Errorf("render summary email: %w", err)
	}

	subject := fmt.Sprintf("Your %s %d finance summary", req.Month.String(), req.Year)
	if err := w.mailer.Send(ctx, req.Recipient, subject, html); err != nil {
		return fmt.Errorf("deliver summary email: %w", err)
	}

	w.logger.InfoContext(ctx, "Summary email delivered",
		log.FieldUsername, req.Username,
		log.FieldRecipient, req.Recipient,
		log.FieldYear, req.Year,
		log.FieldMonth, int(req.Month))
	return nil
}

func (w *SummaryWorker) render(summary services.Summary, username string) (string, error) {
	data := emailData{
		Username:     username,
		MonthName:    summary.Month.String(),
		Year:         summary.Year,
		ExpenseTotal: summary.ExpenseTotal.StringFixed(2),
		IncomeTotal:  summary.IncomeTotal.StringFixed(2),
		NetSavings:   summary.NetSavings.StringFixed(2),
		TopCategory:  summary.TopCategory,
	}
	for _, b := range summary.Budgets {
		data.Budgets = append(data.Budgets, budgetRow{
			Category: b.Category,
			Spent:    b.Spent.StringFixed(2),
			Budget:   b.Budget.StringFixed(2),
			Percent:  int(b.Ratio * 100),
		})
	}
	for _, p := range summary.Trend {
		data.Trend = append(data.Trend, trendRow{
			Month: p.Month,
			Total: p.Total.StringFixed(2),
		})
	}

	var buf strings.Builder
	if err := w.tmpl.ExecuteTemplate(&buf, "summary_email.html", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
