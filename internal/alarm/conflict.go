package alarm

import (
	"github.com/sandeepkv93/nutrid/internal/model"
)

type conflictScan struct {
	ownerID   string
	excludeID string
}

type ConflictOption func(*conflictScan)

// ForOwner limits the scan to one user's alarms.
func ForOwner(ownerID string) ConflictOption {
	return func(c *conflictScan) { c.ownerID = ownerID }
}

// Excluding skips the alarm being edited so it cannot conflict with its
// previous version.
func Excluding(id string) ConflictOption {
	return func(c *conflictScan) { c.excludeID = id }
}

// CheckConflict looks for an ACTIVE or SNOOZED alarm scheduled within the
// conflict window of at whose name forms a known interaction pair with name.
// The result is advisory; callers warn and let the user decide.
func (s *Service) CheckConflict(name, at string, opts ...ConflictOption) (string, bool) {
	var scan conflictScan
	for _, opt := range opts {
		opt(&scan)
	}
	candidate, err := model.ParseTime(at)
	if err != nil {
		return "", false
	}
	kb := s.kb.Current()

	for _, existing := range s.store.Snapshot() {
		if !existing.Status.Triggerable() {
			continue
		}
		if scan.ownerID != "" && existing.OwnerID != scan.ownerID {
			continue
		}
		if scan.excludeID != "" && existing.ID == scan.excludeID {
			continue
		}
		t, err := model.ParseTime(existing.ScheduledTime)
		if err != nil {
			s.logger.Debug("skipping alarm with unparseable time", "alarm_id", existing.ID, "err", err)
			continue
		}
		if model.MinuteDifference(candidate, t) > s.conflictWindow {
			continue
		}
		if msg, ok := kb.Message(name, existing.Name); ok {
			return msg, true
		}
	}
	return "", false
}
