package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"time"

	"activitysignup/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// IndexPage is the data rendered by the activity page.
type IndexPage struct {
	View   domain.View
	Notice *domain.Notice
	Now    time.Time
}

// ConfirmPage is the data rendered by the removal confirmation page.
type ConfirmPage struct {
	Confirmation domain.Confirmation
}

// Renderer executes the embedded page templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded page templates.
func NewRenderer() (*Renderer, error) {
	t, err := template.New("pages").Funcs(template.FuncMap{
		"unregisterURL":     unregisterURL,
		"noParticipants":    func() string { return domain.NoParticipantsText },
		"millisUntil":       millisUntil,
		"isFailedView":      func(v domain.View) bool { return v.State == domain.ViewFailed },
		"noticeClassSuffix": func(k domain.NoticeKind) string { return string(k) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// RenderIndex writes the activity page.
func (r *Renderer) RenderIndex(w io.Writer, page IndexPage) error {
	return r.render(w, "index.html", page)
}

// RenderConfirm writes the removal confirmation page.
func (r *Renderer) RenderConfirm(w io.Writer, page ConfirmPage) error {
	return r.render(w, "confirm.html", page)
}

// render buffers the output so a failing template never leaves a partial page.
func (r *Renderer) render(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func unregisterURL(activity, participant string) string {
	q := url.Values{}
	q.Set("activity", activity)
	q.Set("email", participant)
	return "/unregister?" + q.Encode()
}

func millisUntil(now, t time.Time) int64 {
	d := t.Sub(now).Milliseconds()
	if d < 0 {
		return 0
	}
	return d
}
