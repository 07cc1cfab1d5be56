// internal/email/service.go
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	texttemplate "text/template"

	"github.com/dangerclosesec/socioplus"
	"github.com/dangerclosesec/socioplus/internal/config"
	"github.com/sendgrid/sendgrid-go"
)

// Provider identifies supported email providers
type Provider string

const (
	ProviderSMTP     Provider = "smtp"
	ProviderSendgrid Provider = "sendgrid"

	DefaultTemplatePath = "templates/emails"
)

// EmailData contains all necessary information for sending an email
type EmailData struct {
	To           string
	From         string
	FromName     string
	Subject      string
	TemplateName string
	TemplateData interface{}
}

// Service renders templates and hands the result to the configured provider
type Service struct {
	config         *config.Config
	provider       Provider
	sendgridClient *sendgrid.Client
	templateFS     fs.FS
	Templates      map[string]*Template
}

type Template struct {
	HTML      *template.Template
	Plaintext *texttemplate.Template
}

// NewEmailService creates a new email service instance backed by the
// embedded templates
func NewEmailService(cfg *config.Config, provider Provider) (*Service, error) {
	return newService(cfg, provider, socioplus.EmailFS)
}

func newService(cfg *config.Config, provider Provider, templateFS fs.FS) (*Service, error) {
	s := &Service{
		config:     cfg,
		provider:   provider,
		templateFS: templateFS,
		Templates:  make(map[string]*Template),
	}

	switch provider {
	case ProviderSendgrid:
		if cfg.Sendgrid.APIKey == "" {
			return nil, fmt.Errorf("sendgrid provider requires SENDGRID_API_KEY")
		}
		s.sendgridClient = sendgrid.NewSendClient(cfg.Sendgrid.APIKey)
	case ProviderSMTP:
		if cfg.SMTP.Host == "" {
			return nil, fmt.Errorf("smtp provider requires SMTP_HOST")
		}
	default:
		return nil, fmt.Errorf("unsupported email provider: %q", provider)
	}

	if err := s.loadTemplates(); err != nil {
		return nil, fmt.Errorf("loading email templates: %w", err)
	}

	return s, nil
}

// loadTemplates parses every template group under DefaultTemplatePath
func (s *Service) loadTemplates() error {
	groups, err := fs.ReadDir(s.templateFS, DefaultTemplatePath)
	if err != nil {
		return fmt.Errorf("failed to read email templates directory: %w", err)
	}

	for _, group := range groups {
		if !group.IsDir() {
			continue
		}

		groupPath := path.Join(DefaultTemplatePath, group.Name())

		html, err := template.ParseFS(s.templateFS, path.Join(groupPath, "html.tmpl"))
		if err != nil {
			return fmt.Errorf("parsing html template %s: %w", group.Name(), err)
		}

		text, err := texttemplate.ParseFS(s.templateFS, path.Join(groupPath, "plaintext.tmpl"))
		if err != nil {
			return fmt.Errorf("parsing plaintext template %s: %w", group.Name(), err)
		}

		s.Templates[group.Name()] = &Template{HTML: html, Plaintext: text}
	}

	if len(s.Templates) == 0 {
		return fmt.Errorf("no email templates found")
	}

	return nil
}

// SendEmail sends an email using the configured provider
func (s *Service) SendEmail(data EmailData) error {
	htmlContent, textContent, err := s.renderTemplate(data.TemplateName, data.TemplateData)
	if err != nil {
		return fmt.Errorf("rendering template: %w", err)
	}

	if data.From == "" {
		data.From = s.config.Email.From
	}
	if data.FromName == "" {
		data.FromName = s.config.Email.FromName
	}

	switch s.provider {
	case ProviderSendgrid:
		return s.sendWithSendgrid(data, htmlContent, textContent)
	case ProviderSMTP:
		return s.sendWithSMTP(data, htmlContent, textContent)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.provider)
	}
}

// renderTemplate renders both versions of a template with the given data
func (s *Service) renderTemplate(name string, data interface{}) (string, string, error) {
	tmpl, exists := s.Templates[name]
	if !exists {
		return "", "", fmt.Errorf("template %s not found", name)
	}

	var htmlbuf bytes.Buffer
	if err := tmpl.HTML.Execute(&htmlbuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute html template: %w", err)
	}

	var textbuf bytes.Buffer
	if err := tmpl.Plaintext.Execute(&textbuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute plaintext template: %w", err)
	}

	return htmlbuf.String(), textbuf.String(), nil
}
