// Package web renders the Marmar form page.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"marmar/internal/interaction"
)

//go:embed templates/*.html
var templateFS embed.FS

// RequiredFieldsMessage is shown when medications or health history are missing.
const RequiredFieldsMessage = "Please enter the required information to continue."

// AlertLevel selects how a message is displayed.
type AlertLevel string

const (
	AlertError   AlertLevel = "error"
	AlertWarning AlertLevel = "warning"
)

type Alert struct {
	Level   AlertLevel
	Message string
}

// Form is the submitted field set, echoed back into the page on every render.
type Form struct {
	Medications   string             `validate:"required"`
	HealthHistory string             `validate:"required"`
	Gender        interaction.Gender `validate:"required,oneof=Male Female"`
	Age           string
	Weight        string
	Height        string
}

// FormFromValues reads and trims the page fields. Gender falls back to Male.
func FormFromValues(v url.Values) Form {
	f := Form{
		Medications:   strings.TrimSpace(v.Get("medications")),
		HealthHistory: strings.TrimSpace(v.Get("health_history")),
		Gender:        interaction.Gender(strings.TrimSpace(v.Get("gender"))),
		Age:           strings.TrimSpace(v.Get("age")),
		Weight:        strings.TrimSpace(v.Get("weight")),
		Height:        strings.TrimSpace(v.Get("height")),
	}
	if f.Gender == "" {
		f.Gender = interaction.GenderMale
	}
	return f
}

// Request converts the form into an interaction check.
func (f Form) Request() interaction.Request {
	return interaction.Request{
		Medications:   f.Medications,
		HealthHistory: f.HealthHistory,
		Gender:        f.Gender,
		Age:           f.Age,
		Weight:        f.Weight,
		Height:        f.Height,
	}
}

// Page is the template view model.
type Page struct {
	Form      Form
	Genders   []interaction.Gender
	Submitted bool
	Alert     *Alert
	Analysis  string
}

// NewPage returns the initial, unsubmitted page.
func NewPage() Page {
	return Page{
		Form:    Form{Gender: interaction.GenderMale},
		Genders: interaction.Genders,
	}
}

// ValidationPage is rendered when required fields are missing; no check was made.
func ValidationPage(form Form) Page {
	p := NewPage()
	p.Form = form
	p.Submitted = true
	p.Alert = &Alert{Level: AlertWarning, Message: RequiredFieldsMessage}
	return p
}

// ResultPage maps an evaluation outcome onto the page.
func ResultPage(form Form, res interaction.Result) Page {
	p := NewPage()
	p.Form = form
	p.Submitted = true
	switch res.Kind {
	case interaction.KindFailure:
		p.Alert = &Alert{Level: AlertError, Message: res.DisplayText}
	case interaction.KindEmpty:
		p.Alert = &Alert{Level: AlertWarning, Message: res.DisplayText}
	default:
		p.Analysis = res.DisplayText
	}
	return p
}

// Renderer executes the embedded page template.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes p with the given status. Nothing is written if execution fails;
// errors writing to the client are ignored.
func (r *Renderer) Render(w http.ResponseWriter, status int, p Page) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "index.html", p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}
