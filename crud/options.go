package crud

type options struct {
	sortBy          string
	conditionsQuery *string
}

// Option configures a read, update or delete.
type Option func(*options)

// WithSortBy appends ORDER BY sort to a read. The expression is inserted
// verbatim and must not carry user input.
func WithSortBy(sort string) Option {
	return func(o *options) { o.sortBy = sort }
}

// WithConditionsQuery replaces the compiled conditions with fragment. Its
// :name parameters are bound from the condition set.
func WithConditionsQuery(fragment string) Option {
	return func(o *options) { o.conditionsQuery = &fragment }
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
