package dedupe

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithIgnored lists placeholder identifiers, such as "Unknown", that should
// never count as duplicates.
func WithIgnored(ids ...string) Option {
	return func(t *Tracker) {
		for _, id := range ids {
			t.ignore[id] = struct{}{}
		}
	}
}
