package registration

import "time"

// CheckEligibility evaluates the lifecycle predicates on a matched
// registration. Status is the coarser gate and is checked before the date
// bounds. Date bounds are inclusive calendar dates evaluated in UTC; an
// absent bound is unbounded on that side. Pure function.
func CheckEligibility(reg Registration, now time.Time) error {
	if reg.Status != StatusActive {
		return ErrNotActive
	}
	today := dateOnly(now)
	if !reg.ValidFrom.IsZero() && today.Before(dateOnly(reg.ValidFrom)) {
		return ErrNotStarted
	}
	if !reg.ValidUntil.IsZero() && today.After(dateOnly(reg.ValidUntil)) {
		return ErrExpired
	}
	return nil
}

// Bind applies the bind transition for channelID and returns the updated
// record. A bind onto an unbound record always succeeds; a bind from the
// current holder is an idempotent re-confirm (rebound=true, record
// unchanged); a bind from any other chat fails with ErrAlreadyLinked and
// leaves the record untouched. Pure function; persistence is the caller's
// concern.
func Bind(reg Registration, channelID string, now time.Time) (Registration, bool, error) {
	switch reg.BoundChannelID {
	case "":
		reg.BoundChannelID = channelID
		reg.BoundAt = now.UTC()
		return reg, false, nil
	case channelID:
		return reg, true, nil
	default:
		return reg, false, ErrAlreadyLinked
	}
}

// Unbind applies the unbind transition for channelID. Only the current
// holder may unbind; BoundChannelID and BoundAt are cleared together.
func Unbind(reg Registration, channelID string) (Registration, error) {
	switch reg.BoundChannelID {
	case "":
		return reg, ErrNotBound
	case channelID:
		reg.BoundChannelID = ""
		reg.BoundAt = time.Time{}
		return reg, nil
	default:
		return reg, ErrNotOwner
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
