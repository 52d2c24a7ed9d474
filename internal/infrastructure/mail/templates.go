package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erp/website/internal/domain/notification"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

// subjects are text/template sources rendered with the same data as the body
var subjects = map[string]string{
	notification.TemplateWelcome:                "Your {{.Brand}} account for {{.Data.CompanyName}} is ready",
	notification.TemplateContactNotification:    "{{if .Data.Subject}}Contact: {{.Data.Subject}}{{else}}Contact: {{.Data.Name}}{{if .Data.Company}} ({{.Data.Company}}){{end}}{{end}}",
	notification.TemplateContactAutoReply:       "We received your message",
	notification.TemplateOnboardingNotification: "Onboarding request: {{.Data.CompanyName}}",
	notification.TemplateOnboardingConfirmation: "Your {{.Brand}} onboarding request",
}

// templateData is what every template executes against
type templateData struct {
	Brand   string
	SiteURL string
	Data    any
}

// Renderer renders the embedded email templates
type Renderer struct {
	brand   string
	siteURL string
	html    map[string]*htmltemplate.Template
	text    *texttemplate.Template
	subject map[string]*texttemplate.Template
}

// NewRenderer parses every embedded template
func NewRenderer(brand, siteURL string) (*Renderer, error) {
	r := &Renderer{
		brand:   brand,
		siteURL: siteURL,
		html:    make(map[string]*htmltemplate.Template, len(subjects)),
		subject: make(map[string]*texttemplate.Template, len(subjects)),
	}
	funcs := templateFuncs()

	text, err := texttemplate.New("text").Funcs(texttemplate.FuncMap(funcs)).ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("mail: failed to parse text templates: %w", err)
	}
	r.text = text

	for name, src := range subjects {
		h, err := htmltemplate.New(name + ".html").Funcs(htmltemplate.FuncMap(funcs)).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("mail: failed to parse %s html template: %w", name, err)
		}
		r.html[name] = h

		if r.text.Lookup(name+".txt") == nil {
			return nil, fmt.Errorf("mail: missing %s text template", name)
		}

		s, err := texttemplate.New(name).Funcs(texttemplate.FuncMap(funcs)).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("mail: failed to parse %s subject: %w", name, err)
		}
		r.subject[name] = s
	}
	return r, nil
}

// Render implements notification.Renderer
func (r *Renderer) Render(name string, data any) (*notification.Message, error) {
	h, ok := r.html[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", notification.ErrUnknownTemplate, name)
	}
	td := templateData{Brand: r.brand, SiteURL: r.siteURL, Data: data}

	var subject, html, text bytes.Buffer
	if err := r.subject[name].Execute(&subject, td); err != nil {
		return nil, fmt.Errorf("mail: render %s subject: %w", name, err)
	}
	if err := h.ExecuteTemplate(&html, name+".html", td); err != nil {
		return nil, fmt.Errorf("mail: render %s html: %w", name, err)
	}
	if err := r.text.ExecuteTemplate(&text, name+".txt", td); err != nil {
		return nil, fmt.Errorf("mail: render %s text: %w", name, err)
	}

	return &notification.Message{
		// Subjects are single header lines
		Subject:        strings.Join(strings.Fields(subject.String()), " "),
		HTML:           html.String(),
		Text:           strings.TrimSpace(text.String()) + "\n",
		Template:       name,
		TemplateParams: map[string]string{"brand": r.brand},
	}, nil
}

func templateFuncs() map[string]any {
	return map[string]any{
		"title":    titleCase,
		"join":     strings.Join,
		"truncate": truncateRunes,
		"upper":    strings.ToUpper,
	}
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// truncateRunes shortens s to n characters, appending an ellipsis
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}

var _ notification.Renderer = (*Renderer)(nil)
