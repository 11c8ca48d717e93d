package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"advance/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	brand      = "Advance Company"
	dateLayout = "January 02, 2006 at 03:04 PM"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatKES renders an amount as "KES 20,000.00".
func FormatKES(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return "KES " + fixed
	}
	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("KES %s%s.%s", sign, amountPrinter.Sprintf("%d", n), frac)
}

type emailRow struct {
	Label string
	Value string
}

type emailView struct {
	Heading string
	Color   string
	Name    string
	Intro   string
	Rows    []emailRow
	Outro   string
	Brand   string
}

var emailLayout = template.Must(template.New("email").Parse(`<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
      <h2 style="color: {{.Color}};">{{.Heading}}</h2>
      <p>Hello <strong>{{.Name}}</strong>,</p>
      <p>{{.Intro}}</p>
      {{if .Rows}}<div style="background: #f3f4f6; padding: 15px; border-radius: 8px; margin: 20px 0;">
        {{range .Rows}}<p style="margin: 5px 0;"><strong>{{.Label}}:</strong> {{.Value}}</p>
        {{end}}</div>{{end}}
      <p>{{.Outro}}</p>
      <p style="color: #666; font-size: 12px;">Best regards,<br>The {{.Brand}} Team</p>
    </div>
  </body>
</html>`))

func renderEmail(v emailView) string {
	v.Brand = brand
	var buf bytes.Buffer
	if err := emailLayout.Execute(&buf, v); err != nil {
		return ""
	}
	return buf.String()
}

func renderText(v emailView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n%s\n\n", v.Name, v.Intro)
	for _, r := range v.Rows {
		fmt.Fprintf(&b, "%s: %s\n", r.Label, r.Value)
	}
	if len(v.Rows) > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s\n\nBest regards,\nThe %s Team\n", v.Outro, brand)
	return b.String()
}

func depositRows(d models.Deposit) []emailRow {
	return []emailRow{
		{Label: "Amount", Value: FormatKES(d.Amount)},
		{Label: "Payment Method", Value: d.PaymentMethod.Label()},
		{Label: "Reference", Value: d.TransactionReference},
		{Label: "Date", Value: d.CreatedAt.Format(dateLayout)},
	}
}

func withEmail(msg Message, v emailView) Message {
	msg.EmailSubject = msg.Title + " - " + brand
	msg.EmailText = renderText(v)
	msg.EmailHTML = renderEmail(v)
	return msg
}

func depositID(d models.Deposit) *uint {
	id := d.ID
	return &id
}

// DepositSubmittedMessage is sent to the owner of a new pending deposit.
func DepositSubmittedMessage(d models.Deposit, owner Recipient) Message {
	amount := FormatKES(d.Amount)
	msg := Message{
		Type:      models.TypeDepositCreated,
		Category:  models.CategoryDeposit,
		Title:     "Deposit Submitted",
		Body:      fmt.Sprintf("Your deposit of %s has been submitted and is pending approval. Reference: %s", amount, d.TransactionReference),
		SMSBody:   TruncateSMS(fmt.Sprintf("%s: Your deposit of %s has been submitted for approval. Ref: %s", brand, amount, d.TransactionReference)),
		DepositID: depositID(d),
	}
	return withEmail(msg, emailView{
		Heading: "Deposit Submitted",
		Color:   "#2563eb",
		Name:    owner.Name,
		Intro:   fmt.Sprintf("Your deposit of %s has been successfully submitted for approval.", amount),
		Rows:    depositRows(d),
		Outro:   "You will receive a notification once your deposit has been reviewed.",
	})
}

// DepositPendingReviewMessage is sent to staff when a member submits a deposit.
func DepositPendingReviewMessage(d models.Deposit, owner Recipient) Message {
	amount := FormatKES(d.Amount)
	msg := Message{
		Type:      models.TypeDepositCreated,
		Category:  models.CategoryDeposit,
		Title:     "New Deposit Pending",
		Body:      fmt.Sprintf("%s submitted a deposit of %s for approval. Reference: %s", owner.Name, amount, d.TransactionReference),
		SMSBody:   TruncateSMS(fmt.Sprintf("%s: %s submitted a deposit of %s for approval. Ref: %s", brand, owner.Name, amount, d.TransactionReference)),
		DepositID: depositID(d),
	}
	return withEmail(msg, emailView{
		Heading: "New Deposit Pending",
		Color:   "#d97706",
		Name:    "Administrator",
		Intro:   fmt.Sprintf("%s submitted a deposit that is waiting for review.", owner.Name),
		Rows:    depositRows(d),
		Outro:   "Please review it from the pending approvals queue.",
	})
}

func DepositApprovedMessage(d models.Deposit, owner Recipient) Message {
	amount := FormatKES(d.Amount)
	rows := []emailRow{
		{Label: "Amount", Value: FormatKES(d.Amount)},
		{Label: "Reference", Value: d.TransactionReference},
	}
	if d.ApprovedAt != nil {
		rows = append(rows, emailRow{Label: "Approved", Value: d.ApprovedAt.Format(dateLayout)})
	}
	msg := Message{
		Type:      models.TypeDepositApproved,
		Category:  models.CategoryDeposit,
		Title:     "Deposit Approved",
		Body:      fmt.Sprintf("Your deposit of %s has been approved and credited to your account. Reference: %s", amount, d.TransactionReference),
		SMSBody:   TruncateSMS(fmt.Sprintf("%s: Your deposit of %s has been APPROVED and credited to your account. Ref: %s", brand, amount, d.TransactionReference)),
		DepositID: depositID(d),
	}
	return withEmail(msg, emailView{
		Heading: "Deposit Approved",
		Color:   "#16a34a",
		Name:    owner.Name,
		Intro:   "Great news! Your deposit has been approved and credited to your account.",
		Rows:    rows,
		Outro:   "You can view your updated balance in the Financial section of your dashboard.",
	})
}

func DepositRejectedMessage(d models.Deposit, owner Recipient, reason string) Message {
	amount := FormatKES(d.Amount)
	if reason == "" {
		reason = "no reason given"
	}
	msg := Message{
		Type:      models.TypeDepositRejected,
		Category:  models.CategoryDeposit,
		Title:     "Deposit Rejected",
		Body:      fmt.Sprintf("Your deposit of %s (Reference: %s) was rejected. Reason: %s", amount, d.TransactionReference, reason),
		SMSBody:   TruncateSMS(fmt.Sprintf("%s: Your deposit of %s was rejected. Reason: %s. Ref: %s", brand, amount, reason, d.TransactionReference)),
		DepositID: depositID(d),
	}
	return withEmail(msg, emailView{
		Heading: "Deposit Rejected",
		Color:   "#dc2626",
		Name:    owner.Name,
		Intro:   fmt.Sprintf("Your deposit of %s was rejected.", amount),
		Rows: []emailRow{
			{Label: "Reference", Value: d.TransactionReference},
			{Label: "Reason", Value: reason},
		},
		Outro: "You may submit a new deposit for this month. Please contact support if you need help.",
	})
}

func DepositCancelledMessage(d models.Deposit, owner Recipient) Message {
	amount := FormatKES(d.Amount)
	msg := Message{
		Type:      models.TypeDepositCancelled,
		Category:  models.CategoryDeposit,
		Title:     "Deposit Cancelled",
		Body:      fmt.Sprintf("Your deposit of %s (Reference: %s) has been cancelled.", amount, d.TransactionReference),
		SMSBody:   TruncateSMS(fmt.Sprintf("%s: Your deposit of %s has been cancelled. Ref: %s", brand, amount, d.TransactionReference)),
		DepositID: depositID(d),
	}
	return withEmail(msg, emailView{
		Heading: "Deposit Cancelled",
		Color:   "#6b7280",
		Name:    owner.Name,
		Intro:   fmt.Sprintf("Your deposit of %s has been cancelled.", amount),
		Rows:    []emailRow{{Label: "Reference", Value: d.TransactionReference}},
		Outro:   "You may submit a new deposit for this month at any time.",
	})
}

// ContributionReminderMessage reminds a member who has not deposited for period.
func ContributionReminderMessage(to Recipient, amount decimal.Decimal, period time.Time) Message {
	month := period.Format("January 2006")
	msg := Message{
		Type:     models.TypeDepositReminder,
		Category: models.CategoryDeposit,
		Title:    "Monthly Contribution Reminder",
		Body:     fmt.Sprintf("Your %s contribution of %s has not been received yet.", month, FormatKES(amount)),
		SMSBody:  TruncateSMS(fmt.Sprintf("%s: Reminder, your %s contribution of %s is due.", brand, month, FormatKES(amount))),
	}
	return withEmail(msg, emailView{
		Heading: "Monthly Contribution Reminder",
		Color:   "#2563eb",
		Name:    to.Name,
		Intro:   msg.Body,
		Outro:   "Submit your deposit from the Financial section of your dashboard.",
	})
}

// MonthlyStatementMessage summarises an account at the close of period.
// MonthlyStatementMessage reports the account totals at asOf, the time the
// statement for period is sent.
func MonthlyStatementMessage(to Recipient, account models.Account, period, asOf time.Time) Message {
	month := period.Format("January 2006")
	stamp := asOf.Format("2 Jan 2006 15:04")
	msg := Message{
		Type:     models.TypeMonthlyStatement,
		Category: models.CategoryMonthlyReport,
		Title:    "Monthly Statement",
		Body: fmt.Sprintf("Statement for %s. As of %s: contributions %s, interest earned %s, balance %s.",
			month, stamp, FormatKES(account.TotalContributions), FormatKES(account.InterestEarned), FormatKES(account.Balance())),
	}
	msg.SMSBody = TruncateSMS(brand + ": " + msg.Body)
	return withEmail(msg, emailView{
		Heading: "Monthly Statement",
		Color:   "#2563eb",
		Name:    to.Name,
		Intro:   fmt.Sprintf("Here is your account summary for %s.", month),
		Rows: []emailRow{
			{Label: "Balances As Of", Value: stamp},
			{Label: "Total Contributions", Value: FormatKES(account.TotalContributions)},
			{Label: "Interest Earned", Value: FormatKES(account.InterestEarned)},
			{Label: "Interest Rate", Value: account.InterestRate.StringFixed(2) + "%"},
			{Label: "Balance", Value: FormatKES(account.Balance())},
		},
		Outro: "Thank you for contributing with us.",
	})
}
