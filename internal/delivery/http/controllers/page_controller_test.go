package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activitysignup/internal/adapters/notice"
	"activitysignup/internal/delivery/http/helpers"
	"activitysignup/internal/delivery/http/middleware"
	"activitysignup/internal/delivery/http/web"
	"activitysignup/internal/domain"
)

func newPageController(t *testing.T, svc *fakeViewService) (*PageController, domain.NoticeStore) {
	t.Helper()
	renderer, err := web.NewRenderer()
	require.NoError(t, err)
	store := notice.NewMemoryStore(time.Minute)
	return NewPageController(testLogger, svc, store, renderer), store
}

func withViewer(r *http.Request, viewer string) *http.Request {
	return r.WithContext(middleware.SetViewer(r.Context(), viewer))
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestPageController_Index(t *testing.T) {
	svc := &fakeViewService{view: domain.NewView(domain.Catalog{
		{Name: "Chess Club", MaxParticipants: 2, Participants: []string{"ann@x.edu"}},
	})}
	c, store := newPageController(t, svc)
	_, err := store.Post(t.Context(), "v1", domain.NewNotice(domain.NoticeSuccess, "Signed up ann@x.edu for Chess Club"))
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	c.Index(rr, withViewer(httptest.NewRequest(http.MethodGet, "/", nil), "v1"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, svc.refreshCalls)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	body := rr.Body.String()
	assert.Contains(t, body, "Chess Club")
	assert.Contains(t, body, "1 spots left")
	assert.Contains(t, body, "Signed up ann@x.edu for Chess Club")
}

func TestPageController_IndexOtherViewerSeesNoNotice(t *testing.T) {
	svc := &fakeViewService{view: domain.FailedView()}
	c, store := newPageController(t, svc)
	_, err := store.Post(t.Context(), "v1", domain.NewNotice(domain.NoticeError, "boom"))
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	c.Index(rr, withViewer(httptest.NewRequest(http.MethodGet, "/", nil), "v2"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), domain.FailedToLoadText)
	assert.NotContains(t, rr.Body.String(), "boom")
}

func TestPageController_Signup(t *testing.T) {
	svc := &fakeViewService{signupNotice: domain.NewNotice(domain.NoticeError, "Student is already signed up")}
	c, store := newPageController(t, svc)

	form := url.Values{"email": {"ann@x.edu"}, "activity": {"Chess Club"}}
	rr := httptest.NewRecorder()
	c.Signup(rr, withViewer(postForm("/signup", form), "v1"))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.Equal(t, "ann@x.edu", svc.lastEmail)
	assert.Equal(t, "Chess Club", svc.lastActivity)

	n, ok, err := store.Current(t.Context(), "v1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Student is already signed up", n.Message)
	assert.NotEmpty(t, n.ID)
}

func TestPageController_ConfirmUnregister(t *testing.T) {
	svc := &fakeViewService{confirmation: domain.Confirmation{
		Activity: "Chess Club", Email: "ann@x.edu", Token: "tok-1", Prompt: "Remove ann@x.edu from Chess Club?",
	}}
	c, _ := newPageController(t, svc)

	rr := httptest.NewRecorder()
	c.ConfirmUnregister(rr, httptest.NewRequest(http.MethodGet, "/unregister?activity=Chess+Club&email=ann%40x.edu", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ann@x.edu", svc.lastEmail)
	assert.Equal(t, "Chess Club", svc.lastActivity)
	assert.Contains(t, rr.Body.String(), "Remove ann@x.edu from Chess Club?")
	assert.Contains(t, rr.Body.String(), "tok-1")
	assert.Zero(t, svc.unregCalls)
}

func TestPageController_ConfirmUnregisterInvalid(t *testing.T) {
	svc := &fakeViewService{confirmErr: domain.ErrInvalidInput}
	c, _ := newPageController(t, svc)

	rr := httptest.NewRecorder()
	c.ConfirmUnregister(rr, httptest.NewRequest(http.MethodGet, "/unregister", nil))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestPageController_Unregister(t *testing.T) {
	tests := []struct {
		name      string
		decision  string
		wantCalls int
		wantMsg   string
	}{
		{"confirm", DecisionConfirm, 1, "Unregistered ann@x.edu from Chess Club"},
		{"cancel", DecisionCancel, 0, ""},
		{"missing decision", "", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeViewService{unregNotice: domain.NewNotice(domain.NoticeSuccess, "Unregistered ann@x.edu from Chess Club")}
			c, store := newPageController(t, svc)

			form := url.Values{"email": {"ann@x.edu"}, "activity": {"Chess Club"}, "token": {"tok"}, "decision": {tt.decision}}
			rr := httptest.NewRecorder()
			c.Unregister(rr, withViewer(postForm("/unregister", form), "v1"))

			assert.Equal(t, http.StatusSeeOther, rr.Code)
			assert.Equal(t, tt.wantCalls, svc.unregCalls)
			n, ok, err := store.Current(t.Context(), "v1")
			require.NoError(t, err)
			if tt.wantMsg == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, n.Message)
			assert.Equal(t, "tok", svc.lastToken)
		})
	}
}

func TestPageController_Notice(t *testing.T) {
	c, store := newPageController(t, &fakeViewService{})

	rr := httptest.NewRecorder()
	c.Notice(rr, withViewer(httptest.NewRequest(http.MethodGet, "/notice", nil), "v1"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":null,"error":null}`, rr.Body.String())

	posted, err := store.Post(t.Context(), "v1", domain.NewNotice(domain.NoticeInfo, "hello"))
	require.NoError(t, err)

	rr = httptest.NewRecorder()
	c.Notice(rr, withViewer(httptest.NewRequest(http.MethodGet, "/notice", nil), "v1"))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data  domain.Notice     `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Nil(t, resp.Error)
	assert.Equal(t, posted.ID, resp.Data.ID)
	assert.Equal(t, "hello", resp.Data.Message)
}
