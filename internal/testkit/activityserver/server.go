// Package activityserver is an in-memory stand-in for the activities server,
// used by tests that exercise the client against the real wire contract.
package activityserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
)

var emailPattern = regexp.MustCompile(`^[^@ \t\r\n]+@[^@ \t\r\n]+\.[^@ \t\r\n]+$`)

// Activity is the stored form of one activity.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Server serves GET /activities, POST /activities/{name}/signup and
// DELETE /activities/{name}/participants.
type Server struct {
	mu       sync.Mutex
	order    []string
	byName   map[string]*Activity
	requests []*http.Request
	failList bool
}

// New returns a server seeded with activities in the given name order.
func New(order []string, activities map[string]Activity) *Server {
	s := &Server{byName: make(map[string]*Activity, len(activities))}
	for _, name := range order {
		a := activities[name]
		a.Participants = append([]string(nil), a.Participants...)
		s.order = append(s.order, name)
		s.byName[name] = &a
	}
	return s
}

// Default returns a server seeded with a small school catalog.
func Default() *Server {
	return New(
		[]string{"Chess Club", "Programming Class", "Art Club"},
		map[string]Activity{
			"Chess Club": {
				Description:     "Learn strategies and compete in chess tournaments",
				Schedule:        "Fridays, 3:30 PM - 5:00 PM",
				MaxParticipants: 12,
				Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
			},
			"Programming Class": {
				Description:     "Learn programming fundamentals and build software projects",
				Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
				MaxParticipants: 20,
				Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
			},
			"Art Club": {
				Description:     "Drawing, painting and mixed-media workshops",
				Schedule:        "Wednesdays, 3:30 PM - 5:00 PM",
				MaxParticipants: 1,
				Participants:    []string{},
			},
		},
	)
}

// Start runs the server on a loopback listener. The caller closes it.
func (s *Server) Start() *httptest.Server {
	return httptest.NewServer(s.Handler())
}

// FailList makes GET /activities answer 500 until reset.
func (s *Server) FailList(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failList = fail
}

// Participants returns a copy of the named activity's roster.
func (s *Server) Participants(name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byName[name]
	if !ok {
		return nil
	}
	return append([]string(nil), a.Participants...)
}

// Requests returns the requests received so far.
func (s *Server) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /activities", s.list)
	mux.HandleFunc("POST /activities/{name}/signup", s.signup)
	mux.HandleFunc("DELETE /activities/{name}/participants", s.unregister)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Clone(r.Context()))
		s.mu.Unlock()
		mux.ServeHTTP(w, r)
	})
}

func (s *Server) list(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Internal Server Error"})
		return
	}
	// Hand-built to keep the key order.
	var b strings.Builder
	b.WriteString("{")
	for i, name := range s.order {
		if i > 0 {
			b.WriteString(",")
		}
		key, _ := json.Marshal(name)
		val, _ := json.Marshal(s.byName[name])
		b.Write(key)
		b.WriteString(":")
		b.Write(val)
	}
	b.WriteString("}")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(b.String()))
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byName[name]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Activity not found")
		return
	}
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if !emailPattern.MatchString(email) {
		writeDetail(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if indexOf(a.Participants, email) >= 0 {
		writeDetail(w, http.StatusBadRequest, "Student is already signed up")
		return
	}
	if len(a.Participants) >= a.MaxParticipants {
		writeDetail(w, http.StatusBadRequest, "Activity is full")
		return
	}
	a.Participants = append(a.Participants, email)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Signed up " + email + " for " + name})
}

func (s *Server) unregister(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Email) == "" {
		writeDetail(w, http.StatusBadRequest, "Email is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byName[name]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Activity not found")
		return
	}
	i := indexOf(a.Participants, strings.TrimSpace(body.Email))
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Participant not found in this activity")
		return
	}
	removed := a.Participants[i]
	a.Participants = append(a.Participants[:i], a.Participants[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Unregistered " + removed + " from " + name})
}

func indexOf(participants []string, email string) int {
	for i, p := range participants {
		if strings.EqualFold(strings.TrimSpace(p), email) {
			return i
		}
	}
	return -1
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
