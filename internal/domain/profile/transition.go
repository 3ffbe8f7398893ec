package profile

import (
	"strings"
	"time"
)

// NotePolicy decides whether REJECTED and SUSPENDED need an admin note.
type NotePolicy int

const (
	NotePolicyRequired NotePolicy = iota
	NotePolicyAdvisory
)

// Transition is the full set of fields an admin decision writes. There is
// no forbidden source state: any profile may move to any target.
type Transition struct {
	Target     Status
	Note       *string
	ReviewerID int64
	VerifiedAt *time.Time
}

func NewTransition(target Status, note string, reviewerID int64, now time.Time, policy NotePolicy) (Transition, error) {
	switch target {
	case StatusVerified, StatusRejected, StatusSuspended:
	default:
		return Transition{}, ErrInvalidTransitionTarget
	}

	t := Transition{Target: target, ReviewerID: reviewerID}
	if trimmed := strings.TrimSpace(note); trimmed != "" {
		t.Note = &trimmed
	}
	if t.Note == nil && target != StatusVerified && policy == NotePolicyRequired {
		return Transition{}, ErrNoteRequired
	}
	if target == StatusVerified {
		at := now
		t.VerifiedAt = &at
	}
	return t, nil
}

// Fields are written together in a single update.
func (t Transition) Fields() map[string]any {
	reviewer := t.ReviewerID
	return map[string]any{
		"status":      t.Target,
		"admin_note":  t.Note,
		"verified_by": &reviewer,
		"verified_at": t.VerifiedAt,
	}
}

// ApplyTo mirrors a stored transition onto an in-memory profile.
func (t Transition) ApplyTo(p *Profile) {
	reviewer := t.ReviewerID
	p.Status = t.Target
	p.AdminNote = t.Note
	p.VerifiedBy = &reviewer
	p.VerifiedAt = t.VerifiedAt
}
