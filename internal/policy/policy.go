package policy

import (
	"context"
	"fmt"
	"time"
)

// ReviewLedger reports whether a user already reviewed an event.
type ReviewLedger interface {
	HasReview(ctx context.Context, eventID, userID uint) (bool, error)
}

// Options are the deployment toggles of the access policy.
type Options struct {
	// ReviewRequiresAttendance limits reviews to "going" RSVPs after the event ended.
	ReviewRequiresAttendance bool
	// OpenPrivateRSVP lets any signed-in user RSVP to a private event, which
	// then makes the event visible to them.
	OpenPrivateRSVP bool
	Now             func() time.Time
}

// Predicate is a single access rule. A nil error lets evaluation continue.
type Predicate func(ctx context.Context, id Identity, res Resource, action Action) error

// All evaluates predicates in order and stops at the first denial.
func All(preds ...Predicate) Predicate {
	return func(ctx context.Context, id Identity, res Resource, action Action) error {
		for _, p := range preds {
			if err := p(ctx, id, res, action); err != nil {
				return err
			}
		}
		return nil
	}
}

type Policy struct {
	visibility *Visibility
	attendance Attendance
	reviews    ReviewLedger
	opts       Options
	rules      map[Kind]map[Action]Predicate
}

func New(attendance Attendance, reviews ReviewLedger, opts Options) *Policy {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	p := &Policy{
		visibility: NewVisibility(attendance),
		attendance: attendance,
		reviews:    reviews,
		opts:       opts,
	}
	p.rules = p.buildRules()
	return p
}

func (p *Policy) Visibility() *Visibility {
	return p.visibility
}

func (p *Policy) Options() Options {
	return p.opts
}

// Authorize returns nil when id may perform action on res, or one of
// ErrUnauthenticated, ErrNotFound, ErrPermissionDenied, ErrConflict.
func (p *Policy) Authorize(ctx context.Context, id Identity, res Resource, action Action) error {
	byAction, ok := p.rules[res.Kind]
	if !ok {
		return fmt.Errorf("%w: unknown resource kind %q", ErrPermissionDenied, res.Kind)
	}
	rule, ok := byAction[action]
	if !ok {
		return fmt.Errorf("%w: action %q not allowed on %s", ErrPermissionDenied, action, res.Kind)
	}
	return rule(ctx, id, res, action)
}

// CanMutate is Authorize reduced to a yes/no answer.
func (p *Policy) CanMutate(ctx context.Context, id Identity, res Resource, action Action) bool {
	return p.Authorize(ctx, id, res, action) == nil
}

func (p *Policy) buildRules() map[Kind]map[Action]Predicate {
	read := All(p.visible)
	return map[Kind]map[Action]Predicate{
		KindEvent: {
			ActionRead:   read,
			ActionCreate: All(authenticated),
			ActionUpdate: All(authenticated, p.visible, organizer),
			ActionDelete: All(authenticated, p.visible, organizerOrAdmin),
			ActionInvite: All(authenticated, p.visible, organizer),
			ActionExport: All(authenticated, p.visible, organizer),
		},
		KindRSVP: {
			ActionRead:   read,
			ActionCreate: All(authenticated, p.visibleForRSVP, p.noPriorRSVP),
			ActionUpdate: All(authenticated, p.visible, owner),
			ActionDelete: All(authenticated, p.visible, ownerOrAdmin),
		},
		KindReview: {
			ActionRead:   read,
			ActionCreate: All(authenticated, p.visible, p.attendedIfRequired, p.noPriorReview),
			ActionUpdate: All(authenticated, p.visible, owner),
			ActionDelete: All(authenticated, p.visible, ownerOrAdmin),
		},
	}
}

func authenticated(_ context.Context, id Identity, _ Resource, _ Action) error {
	if id.IsAnonymous() {
		return ErrUnauthenticated
	}
	return nil
}

// visible hides events the caller cannot see behind ErrNotFound so that the
// existence of private events is not disclosed.
func (p *Policy) visible(ctx context.Context, id Identity, res Resource, _ Action) error {
	ok, err := p.visibility.CanView(ctx, id, res.Event)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (p *Policy) visibleForRSVP(ctx context.Context, id Identity, res Resource, action Action) error {
	if p.opts.OpenPrivateRSVP && !id.IsAnonymous() {
		return nil
	}
	return p.visible(ctx, id, res, action)
}

func organizer(_ context.Context, id Identity, res Resource, _ Action) error {
	if !id.Is(res.Event.OrganizerID) {
		return fmt.Errorf("%w: only the organizer can modify this event", ErrPermissionDenied)
	}
	return nil
}

func organizerOrAdmin(ctx context.Context, id Identity, res Resource, action Action) error {
	if id.Admin {
		return nil
	}
	return organizer(ctx, id, res, action)
}

func owner(_ context.Context, id Identity, res Resource, _ Action) error {
	if !id.Is(res.OwnerID) {
		return fmt.Errorf("%w: you can only modify your own %s", ErrPermissionDenied, res.Kind)
	}
	return nil
}

func ownerOrAdmin(ctx context.Context, id Identity, res Resource, action Action) error {
	if id.Admin {
		return nil
	}
	return owner(ctx, id, res, action)
}

func (p *Policy) noPriorRSVP(ctx context.Context, id Identity, res Resource, _ Action) error {
	_, found, err := p.attendance.RSVPStatus(ctx, res.Event.ID, id.UserID)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("%w: you have already RSVPed to this event", ErrConflict)
	}
	return nil
}

func (p *Policy) noPriorReview(ctx context.Context, id Identity, res Resource, _ Action) error {
	exists, err := p.reviews.HasReview(ctx, res.Event.ID, id.UserID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: you have already reviewed this event", ErrConflict)
	}
	return nil
}

func (p *Policy) attendedIfRequired(ctx context.Context, id Identity, res Resource, _ Action) error {
	if !p.opts.ReviewRequiresAttendance {
		return nil
	}
	if res.Event.EndTime.After(p.opts.Now()) {
		return fmt.Errorf("%w: reviews open after the event ends", ErrPermissionDenied)
	}
	status, found, err := p.attendance.RSVPStatus(ctx, res.Event.ID, id.UserID)
	if err != nil {
		return err
	}
	if !found || status != StatusGoing {
		return fmt.Errorf("%w: only attendees who RSVPed going can review", ErrPermissionDenied)
	}
	return nil
}
