package settlement

import "time"

// AttributionModel selects which referral gets credit when a customer was
// exposed to more than one affiliate link.
type AttributionModel string

const (
	FirstClick AttributionModel = "first_click"
	LastClick  AttributionModel = "last_click"
)

// AttributionEvent records that a session arrived via an affiliate's referral
// code. The stream is supplied by the tracking collaborator, not computed here.
type AttributionEvent struct {
	AffiliateID string
	SessionID   string
	OccurredAt  time.Time
}

// ResolveAttribution picks the commission-earning affiliate for the session,
// if any. Ties on timestamp break to the lowest affiliate id so the outcome is
// deterministic. The result is not checked against the checkout's affiliate
// links; BuildLedger treats a resolved-but-unlinked affiliate as absent.
func ResolveAttribution(events []AttributionEvent, sessionID string, model AttributionModel) (string, error) {
	if model != FirstClick && model != LastClick {
		return "", ErrUnknownAttributionModel
	}
	var (
		picked string
		at     time.Time
		found  bool
	)
	for _, ev := range events {
		if ev.SessionID != sessionID || ev.AffiliateID == "" {
			continue
		}
		if !found {
			picked, at, found = ev.AffiliateID, ev.OccurredAt, true
			continue
		}
		switch {
		case model == FirstClick && ev.OccurredAt.Before(at),
			model == LastClick && ev.OccurredAt.After(at):
			picked, at = ev.AffiliateID, ev.OccurredAt
		case ev.OccurredAt.Equal(at) && ev.AffiliateID < picked:
			picked = ev.AffiliateID
		}
	}
	return picked, nil
}
