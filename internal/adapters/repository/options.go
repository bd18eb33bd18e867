package repository

// Option applies a configuration option to the DailyStore.
type Option func(*DailyStore)

// WithMaxDays caps the length of a series.
func WithMaxDays(n int) Option {
	return func(s *DailyStore) {
		if n > 0 {
			s.maxDays = n
		}
	}
}
