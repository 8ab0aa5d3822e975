package policy

import "context"

// Attendance looks up a user's RSVP on an event. found is false when the
// user never RSVPed.
type Attendance interface {
	RSVPStatus(ctx context.Context, eventID, userID uint) (status RSVPStatus, found bool, err error)
}

// Visibility decides whether an identity may read an event at all. Having an
// RSVP of any status counts as being invited.
type Visibility struct {
	attendance Attendance
}

func NewVisibility(attendance Attendance) *Visibility {
	return &Visibility{attendance: attendance}
}

func (v *Visibility) CanView(ctx context.Context, id Identity, ev EventFacts) (bool, error) {
	if ev.IsPublic {
		return true, nil
	}
	if id.IsAnonymous() {
		return false, nil
	}
	if id.Admin || id.Is(ev.OrganizerID) {
		return true, nil
	}
	_, found, err := v.attendance.RSVPStatus(ctx, ev.ID, id.UserID)
	if err != nil {
		return false, err
	}
	return found, nil
}
