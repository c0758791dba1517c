package subscription

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// Payload is a decoded webhook body. Payment platforms deliver the same
// logical field under different names depending on event type and encoding
// (JSON vs form), so all reads go through the field schema below.
type Payload map[string]any

// Ordered source keys per logical field. First match wins; order encodes
// which provider spelling we trust most.
var (
	refundedKeys     = []string{"refunded", "is_refunded"}
	disputedKeys     = []string{"disputed", "is_disputed", "dispute"}
	chargebackedKeys = []string{"chargebacked", "chargeback", "charged_back"}
	cancelledKeys    = []string{"cancelled", "canceled", "subscription_cancelled", "is_cancelled"}
	recurringKeys    = []string{"recurring_charge", "is_recurring_charge", "recurring"}
	recurrenceKeys   = []string{"recurrence", "subscription_duration"}
	subscriptionKeys = []string{"subscription_id", "subscription"}
	orderKeys        = []string{"order_id", "order_number", "sale_id"}
	statusKeys       = []string{"status"}

	tenantIDKeys = []string{"tenant_id"}
	emailKeys    = []string{"purchaser_email", "email"}
	fullNameKeys = []string{"full_name", "purchaser_name"}
	productKeys  = []string{"product_name", "product"}
	websiteKeys  = []string{"custom_fields[website]", "website"}
	companyKeys  = []string{"custom_fields[company]", "company"}
)

var truthyStrings = map[string]struct{}{
	"1": {}, "true": {}, "yes": {}, "y": {}, "on": {},
}

// ParsePayload decodes a webhook body. JSON and form-encoded bodies are both
// accepted; anything unparseable degrades to an empty payload so field
// extraction falls back to defaults instead of failing the delivery.
func ParsePayload(contentType string, body []byte) Payload {
	if len(body) == 0 {
		return Payload{}
	}

	if strings.Contains(strings.ToLower(contentType), "application/json") {
		var p Payload
		if err := json.Unmarshal(body, &p); err != nil || p == nil {
			return Payload{}
		}
		return p
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return Payload{}
	}
	p := make(Payload, len(values))
	for k, v := range values {
		if len(v) > 0 {
			p[k] = v[0]
		}
	}
	return p
}

// Bool returns the coerced boolean for the first key present in the payload.
// Absence of all keys is false.
func (p Payload) Bool(keys ...string) bool {
	for _, k := range keys {
		if v, ok := p[k]; ok {
			return coerceBool(v)
		}
	}
	return false
}

// String returns the first non-empty string value among the given keys.
func (p Payload) String(keys ...string) string {
	for _, k := range keys {
		v, ok := p[k]
		if !ok {
			continue
		}
		if s := strings.TrimSpace(coerceString(v)); s != "" {
			return s
		}
	}
	return ""
}

// LowerString is String lower-cased.
func (p Payload) LowerString(keys ...string) string {
	return strings.ToLower(p.String(keys...))
}

func coerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		_, ok := truthyStrings[strings.ToLower(strings.TrimSpace(t))]
		return ok
	case float64:
		// JSON numbers decode as float64.
		return t != 0
	case int:
		return t != 0
	default:
		return false
	}
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
