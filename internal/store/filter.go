package store

import "github.com/pable/go-bb-metrics/internal/model"

// Filter selects events. Filters never modify what they inspect.
type Filter func(model.Event) bool

// OfKind keeps events of one kind.
func OfKind(kind model.Kind) Filter {
	return func(e model.Event) bool { return e.Kind == kind }
}

// ForSubject keeps one player's events.
func ForSubject(subject string) Filter {
	return func(e model.Event) bool { return e.Subject == subject }
}

// OnDates keeps events whose date is in dates. Undated events never match.
// An empty set matches nothing.
func OnDates(dates ...model.Date) Filter {
	set := make(map[model.Date]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return func(e model.Event) bool {
		if e.Date.IsZero() {
			return false
		}
		_, ok := set[e.Date]
		return ok
	}
}

// Between keeps events dated within [from, to].
func Between(from, to model.Date) Filter {
	return func(e model.Event) bool {
		return !e.Date.IsZero() && !e.Date.Before(from) && !e.Date.After(to)
	}
}

// Dated keeps events that carry a date.
func Dated() Filter {
	return func(e model.Event) bool { return !e.Date.IsZero() }
}

// Apply returns the events matching every filter, in input order. The input
// is not modified.
func Apply(events []model.Event, filters ...Filter) []model.Event {
	var out []model.Event
	for _, e := range events {
		if matchAll(e, filters) {
			out = append(out, e)
		}
	}
	return out
}

func matchAll(e model.Event, filters []Filter) bool {
	for _, f := range filters {
		if !f(e) {
			return false
		}
	}
	return true
}
