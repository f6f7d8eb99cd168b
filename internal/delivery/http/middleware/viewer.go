package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// ViewerCookieName identifies the browser whose notification slot is used.
const ViewerCookieName = "activity_viewer"

type contextKey string

const viewerKey contextKey = "viewer"

// SetViewer returns a context carrying the viewer ID.
func SetViewer(ctx context.Context, viewer string) context.Context {
	return context.WithValue(ctx, viewerKey, viewer)
}

// ViewerFromContext returns the viewer ID set by Viewer, if present.
func ViewerFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(viewerKey).(string)
	return v, ok && v != ""
}

// Viewer ensures every request carries a viewer ID, issuing a cookie on
// first contact.
func Viewer(secure bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var viewer string
		if c, err := r.Cookie(ViewerCookieName); err == nil {
			if id, err := uuid.Parse(c.Value); err == nil {
				viewer = id.String()
			}
		}
		if viewer == "" {
			viewer = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     ViewerCookieName,
				Value:    viewer,
				Path:     "/",
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(SetViewer(r.Context(), viewer)))
	})
}
