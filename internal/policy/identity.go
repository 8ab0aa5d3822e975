package policy

import "time"

// Identity is the caller a decision is made for. The zero value is the
// anonymous caller.
type Identity struct {
	UserID        uint
	Authenticated bool
	Admin         bool
}

// Anonymous returns the identity used for requests without a bearer token.
func Anonymous() Identity {
	return Identity{}
}

// User returns an authenticated, non-admin identity.
func User(userID uint) Identity {
	return Identity{UserID: userID, Authenticated: true}
}

// Administrator returns an authenticated identity with admin rights.
func Administrator(userID uint) Identity {
	return Identity{UserID: userID, Authenticated: true, Admin: true}
}

func (i Identity) IsAnonymous() bool {
	return !i.Authenticated
}

// Is reports whether the identity is the given user.
func (i Identity) Is(userID uint) bool {
	return i.Authenticated && userID != 0 && i.UserID == userID
}

// EventFacts is the subset of an event the decision layer needs.
type EventFacts struct {
	ID          uint
	OrganizerID uint
	IsPublic    bool
	StartTime   time.Time
	EndTime     time.Time
}

type Kind string

const (
	KindEvent  Kind = "event"
	KindRSVP   Kind = "rsvp"
	KindReview Kind = "review"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	// ActionInvite and ActionExport are organizer-only actions on an event.
	ActionInvite Action = "invite"
	ActionExport Action = "export"
)

// Resource describes what an action targets. OwnerID is the creating user of
// an RSVP or review and is ignored for events.
type Resource struct {
	Kind    Kind
	Event   EventFacts
	OwnerID uint
}

func EventResource(ev EventFacts) Resource {
	return Resource{Kind: KindEvent, Event: ev}
}

func RSVPResource(ev EventFacts, ownerID uint) Resource {
	return Resource{Kind: KindRSVP, Event: ev, OwnerID: ownerID}
}

func ReviewResource(ev EventFacts, ownerID uint) Resource {
	return Resource{Kind: KindReview, Event: ev, OwnerID: ownerID}
}
