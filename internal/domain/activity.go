package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Activity is a named, capacity-bounded group with a schedule and a roster.
type Activity struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// SpotsLeft returns the remaining capacity. It is not clamped: a server that
// overfills an activity yields a negative value.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// Catalog is the activity collection in the order the server listed it.
type Catalog []Activity

// Names returns the activity names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for _, a := range c {
		names = append(names, a.Name)
	}
	return names
}

// Find returns the activity with the given name.
func (c Catalog) Find(name string) (Activity, bool) {
	for _, a := range c {
		if a.Name == name {
			return a, true
		}
	}
	return Activity{}, false
}

// activityDetails is the wire shape of one entry in the list response.
type activityDetails struct {
	Description     *string   `json:"description"`
	Schedule        *string   `json:"schedule"`
	MaxParticipants *int      `json:"max_participants"`
	Participants    []*string `json:"participants"`
}

// DecodeCatalog decodes the list response, a JSON object keyed by activity
// name, keeping the key order. Any shape violation is reported as
// ErrMalformedResponse.
func DecodeCatalog(r io.Reader) (Catalog, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: expected object, got %v", ErrMalformedResponse, tok)
	}

	catalog := Catalog{}
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected activity name, got %v", ErrMalformedResponse, tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: activity %q: %v", ErrMalformedResponse, name, err)
		}
		activity, err := decodeActivity(name, raw)
		if err != nil {
			return nil, err
		}
		// Duplicate keys: the last one wins, at the position of the first.
		if _, dup := seen[name]; dup {
			for i := range catalog {
				if catalog[i].Name == name {
					catalog[i] = activity
				}
			}
			continue
		}
		seen[name] = struct{}{}
		catalog = append(catalog, activity)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedResponse)
	}
	return catalog, nil
}

func decodeActivity(name string, raw json.RawMessage) (Activity, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return Activity{}, fmt.Errorf("%w: activity %q is null", ErrMalformedResponse, name)
	}
	var d activityDetails
	if err := json.Unmarshal(raw, &d); err != nil {
		return Activity{}, fmt.Errorf("%w: activity %q: %v", ErrMalformedResponse, name, err)
	}
	if d.MaxParticipants == nil {
		return Activity{}, fmt.Errorf("%w: activity %q has no max_participants", ErrMalformedResponse, name)
	}
	a := Activity{
		Name:            name,
		MaxParticipants: *d.MaxParticipants,
		Participants:    make([]string, 0, len(d.Participants)),
	}
	if d.Description != nil {
		a.Description = *d.Description
	}
	if d.Schedule != nil {
		a.Schedule = *d.Schedule
	}
	for i, p := range d.Participants {
		if p == nil {
			return Activity{}, fmt.Errorf("%w: activity %q participant %d is null", ErrMalformedResponse, name, i)
		}
		a.Participants = append(a.Participants, *p)
	}
	return a, nil
}

// ActivityClient talks to the activities server.
type ActivityClient interface {
	// ListActivities fetches the full collection, bypassing intermediate caches.
	ListActivities(ctx context.Context) (Catalog, error)
	// Signup adds email to the named activity and returns the server message.
	Signup(ctx context.Context, activity, email string) (string, error)
	// Unregister removes email from the named activity and returns the server message.
	Unregister(ctx context.Context, activity, email string) (string, error)
}
