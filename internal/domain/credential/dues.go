package credential

import "lodgecred/internal/domain/profile"

const duesDateLayout = "January 2, 2006"

// FallbackDuesPaidThrough is shown when neither a dues date nor a
// verification date is on record.
const FallbackDuesPaidThrough = "December 31, 2026"

// DuesPaidThrough is the stored dues date, else one year after
// verification, else the fixed fallback.
func DuesPaidThrough(p *profile.Profile) string {
	switch {
	case p.DuesPaidThrough != nil:
		return p.DuesPaidThrough.UTC().Format(duesDateLayout)
	case p.VerifiedAt != nil:
		return p.VerifiedAt.AddDate(1, 0, 0).Format(duesDateLayout)
	default:
		return FallbackDuesPaidThrough
	}
}
