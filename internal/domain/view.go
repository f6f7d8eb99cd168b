package domain

import "context"

// Literal texts rendered by the activity view.
const (
	FailedToLoadText   = "Failed to load activities. Please try again later."
	NoParticipantsText = "No participants yet"
	SelectPlaceholder  = "Select an activity"
)

// ViewState is the externally observable state of the activity view.
type ViewState string

const (
	ViewFailed    ViewState = "failed"
	ViewPopulated ViewState = "populated"
)

// ParticipantBadge is one roster entry: the initials badge and the raw identifier.
type ParticipantBadge struct {
	Initials    string `json:"initials"`
	Participant string `json:"participant"`
}

// ActivityCard is the rendered form of one activity.
type ActivityCard struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Schedule     string             `json:"schedule"`
	SpotsLeft    int                `json:"spots_left"`
	Participants []ParticipantBadge `json:"participants"`
}

// HasParticipants reports whether the roster is non-empty.
func (c ActivityCard) HasParticipants() bool {
	return len(c.Participants) > 0
}

// SelectOption is one entry of the activity selection control.
type SelectOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

// View is rebuilt from scratch on every refresh.
type View struct {
	State       ViewState      `json:"state"`
	Cards       []ActivityCard `json:"cards"`
	Options     []SelectOption `json:"options"`
	FailureText string         `json:"failure_text,omitempty"`
}

func placeholderOption() SelectOption {
	return SelectOption{Value: "", Label: SelectPlaceholder, Disabled: true, Selected: true}
}

// NewView renders a catalog into a populated view.
func NewView(catalog Catalog) View {
	v := View{
		State:   ViewPopulated,
		Cards:   make([]ActivityCard, 0, len(catalog)),
		Options: make([]SelectOption, 0, len(catalog)+1),
	}
	v.Options = append(v.Options, placeholderOption())
	for _, a := range catalog {
		card := ActivityCard{
			Name:         a.Name,
			Description:  a.Description,
			Schedule:     a.Schedule,
			SpotsLeft:    a.SpotsLeft(),
			Participants: make([]ParticipantBadge, 0, len(a.Participants)),
		}
		for _, p := range a.Participants {
			card.Participants = append(card.Participants, ParticipantBadge{Initials: Initials(p), Participant: p})
		}
		v.Cards = append(v.Cards, card)
		v.Options = append(v.Options, SelectOption{Value: a.Name, Label: a.Name})
	}
	return v
}

// FailedView is the view after a failed refresh: the fallback text and only
// the placeholder option.
func FailedView() View {
	return View{
		State:       ViewFailed,
		Cards:       []ActivityCard{},
		Options:     []SelectOption{placeholderOption()},
		FailureText: FailedToLoadText,
	}
}

// ActivityViewService is the activity view controller.
type ActivityViewService interface {
	// Refresh re-fetches the collection and returns a fresh view.
	Refresh(ctx context.Context) View
	// Signup adds email to activity and reports the outcome.
	Signup(ctx context.Context, email, activity string) Notice
	// RequestUnregister issues the confirmation required by Unregister.
	RequestUnregister(ctx context.Context, email, activity string) (Confirmation, error)
	// Unregister removes email from activity if token confirms it.
	Unregister(ctx context.Context, email, activity, token string) Notice
}
