package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dangerclosesec/socioplus/internal/model"
)

const (
	TemplateWelcome             = "welcome"
	TemplateApplicationReceived = "application_received"
	TemplateApplicationDecided  = "application_decided"
)

type sender interface {
	SendEmail(data EmailData) error
}

// Notifier turns workflow events into emails.
type Notifier struct {
	sender  sender
	baseURL string
}

func NewNotifier(svc *Service, baseURL string) *Notifier {
	return &Notifier{sender: svc, baseURL: baseURL}
}

func (n *Notifier) UserRegistered(ctx context.Context, user *model.User) error {
	return n.send(ctx, EmailData{
		To:           user.Email,
		Subject:      "Welcome to Socioplus",
		TemplateName: TemplateWelcome,
		TemplateData: map[string]interface{}{
			"Name":    user.Name,
			"Role":    string(user.Role),
			"BaseURL": n.baseURL,
		},
	})
}

// ApplicationSubmitted tells the posting organization about a new applicant.
// opp.Organization must be loaded.
func (n *Notifier) ApplicationSubmitted(ctx context.Context, opp *model.Opportunity, app *model.Application, applicantEmail string) error {
	if opp.Organization == nil {
		return fmt.Errorf("opportunity %s has no organization loaded", opp.ID)
	}
	return n.send(ctx, EmailData{
		To:           opp.Organization.Email,
		Subject:      fmt.Sprintf("New application for %s", opp.Title),
		TemplateName: TemplateApplicationReceived,
		TemplateData: map[string]interface{}{
			"Title":          opp.Title,
			"ApplicantEmail": applicantEmail,
			"AppliedAt":      app.AppliedAt.Format("Jan 2, 2006"),
			"Message":        app.Message,
			"BaseURL":        n.baseURL,
		},
	})
}

// ApplicationDecided tells the volunteer the outcome. app.Volunteer and
// app.Opportunity must be loaded.
func (n *Notifier) ApplicationDecided(ctx context.Context, app *model.Application) error {
	if app.Volunteer == nil || app.Opportunity == nil {
		return fmt.Errorf("application %s is missing volunteer or opportunity", app.ID)
	}
	return n.send(ctx, EmailData{
		To:           app.Volunteer.Email,
		Subject:      fmt.Sprintf("Your application for %s was %s", app.Opportunity.Title, app.Status),
		TemplateName: TemplateApplicationDecided,
		TemplateData: map[string]interface{}{
			"Name":    app.Volunteer.Name,
			"Title":   app.Opportunity.Title,
			"Date":    app.Opportunity.Date.String(),
			"Status":  string(app.Status),
			"BaseURL": n.baseURL,
		},
	})
}

func (n *Notifier) send(ctx context.Context, data EmailData) error {
	if err := n.sender.SendEmail(data); err != nil {
		return fmt.Errorf("sending %s email: %w", data.TemplateName, err)
	}
	slog.DebugContext(ctx, "email sent", "template", data.TemplateName, "to", data.To)
	return nil
}
