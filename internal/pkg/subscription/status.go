package subscription

import (
	"time"

	"github.com/SpectraMediaAI/BettyChat/app/models"
)

// timeNow is swapped in tests to pin the computation timestamp.
var timeNow = time.Now

// ComputeStatus maps a raw webhook payload into the canonical subscription
// state. It tolerates arbitrary and missing keys; unknown payload shapes
// degrade to a non-recurring default rather than failing.
//
// Payment validity deliberately ignores raw_status: a delivery counts as paid
// unless it carries an explicit refund, dispute or chargeback marker. Gumroad
// sale pings omit a status field entirely, so requiring a "paid"/"success"
// status would deactivate every tenant on a plain sale event. Cancellation
// is tracked separately and clears Active without touching the paid markers.
func ComputeStatus(p Payload) models.SubscriptionState {
	refunded := p.Bool(refundedKeys...)
	disputed := p.Bool(disputedKeys...)
	chargebacked := p.Bool(chargebackedKeys...)
	cancelled := p.Bool(cancelledKeys...)

	recurrence := p.LowerString(recurrenceKeys...)
	isRecurring := p.Bool(recurringKeys...) || recurrence != ""

	paidOK := !refunded && !disputed && !chargebacked

	return models.SubscriptionState{
		Active:         paidOK && !cancelled,
		Refunded:       refunded,
		Disputed:       disputed,
		Chargebacked:   chargebacked,
		Cancelled:      cancelled,
		Recurrence:     recurrence,
		IsRecurring:    isRecurring,
		SubscriptionID: p.String(subscriptionKeys...),
		OrderID:        p.String(orderKeys...),
		RawStatus:      p.LowerString(statusKeys...),
		UpdatedAt:      timeNow(),
	}
}
