package scoring

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithRubric sets the rubric records are scored against. A nil rubric keeps
// the default; an empty non-nil rubric is allowed and scores everything 0.
func WithRubric(r Rubric) Option {
	return func(s *Scorer) {
		if r != nil {
			s.rubric = append(Rubric(nil), r...)
		}
	}
}

// WithMarkerQuirk sets the upstream marker exception. A zero MarkerQuirk
// disables it.
func WithMarkerQuirk(q MarkerQuirk) Option {
	return func(s *Scorer) {
		s.quirk = q
	}
}
