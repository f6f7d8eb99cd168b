package controllers

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"activitysignup/internal/delivery/http/helpers"
	"activitysignup/internal/delivery/http/middleware"
	"activitysignup/internal/delivery/http/web"
	"activitysignup/internal/domain"
)

// Form decisions accepted by POST /unregister.
const (
	DecisionConfirm = "confirm"
	DecisionCancel  = "cancel"
)

// PageRenderer renders the HTML pages.
type PageRenderer interface {
	RenderIndex(w io.Writer, page web.IndexPage) error
	RenderConfirm(w io.Writer, page web.ConfirmPage) error
}

// PageController serves the browser flow: every mutation posts its notice to
// the viewer's slot and redirects back to the activity page, whose GET
// performs the refresh.
type PageController struct {
	Logger   *slog.Logger
	Service  domain.ActivityViewService
	Notices  domain.NoticeStore
	Renderer PageRenderer
	Now      func() time.Time
}

func NewPageController(logger *slog.Logger, svc domain.ActivityViewService, notices domain.NoticeStore, renderer PageRenderer) *PageController {
	return &PageController{
		Logger:   logger,
		Service:  svc,
		Notices:  notices,
		Renderer: renderer,
		Now:      time.Now,
	}
}

// Index renders the activity page from a fresh fetch.
func (c *PageController) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := web.IndexPage{View: c.Service.Refresh(ctx), Now: c.Now()}
	if viewer, ok := middleware.ViewerFromContext(ctx); ok {
		n, found, err := c.Notices.Current(ctx, viewer)
		if err != nil {
			c.Logger.WarnContext(ctx, "notice lookup failed", "err", err)
		} else if found {
			page.Notice = &n
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := c.Renderer.RenderIndex(w, page); err != nil {
		c.Logger.ErrorContext(ctx, "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Signup handles the signup form.
func (c *PageController) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	n := c.Service.Signup(r.Context(), r.PostForm.Get("email"), r.PostForm.Get("activity"))
	c.postAndRedirect(w, r, n)
}

// ConfirmUnregister shows the removal confirmation page. Nothing is removed
// until the page's form is submitted with the confirm decision.
func (c *PageController) ConfirmUnregister(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	conf, err := c.Service.RequestUnregister(r.Context(), q.Get("email"), q.Get("activity"))
	if err != nil {
		c.Logger.WarnContext(r.Context(), "confirmation not issued", "err", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := c.Renderer.RenderConfirm(w, web.ConfirmPage{Confirmation: conf}); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Unregister handles the confirmation form. A cancel decision sends nothing.
func (c *PageController) Unregister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("decision") != DecisionConfirm {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	n := c.Service.Unregister(r.Context(),
		r.PostForm.Get("email"),
		r.PostForm.Get("activity"),
		r.PostForm.Get("token"),
	)
	c.postAndRedirect(w, r, n)
}

// Notice returns the viewer's live notice, or null.
func (c *PageController) Notice(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONSuccess(w, http.StatusOK, nil)
		return
	}
	n, found, err := c.Notices.Current(r.Context(), viewer)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "notice unavailable")
		return
	}
	if !found {
		helpers.WriteJSONSuccess(w, http.StatusOK, nil)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, n)
}

func (c *PageController) postAndRedirect(w http.ResponseWriter, r *http.Request, n domain.Notice) {
	if viewer, ok := middleware.ViewerFromContext(r.Context()); ok {
		if _, err := c.Notices.Post(r.Context(), viewer, n); err != nil {
			c.Logger.WarnContext(r.Context(), "notice not posted", "err", err)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
