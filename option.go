package metakv

// ReadOption configures one scan over the FileEntry index: an optional
// resume cursor (ReadFrom, inclusive) and an optional name prefix filter.
// The zero value is a full scan from the beginning. Options are immutable;
// the With methods return modified copies so one base option can seed many
// scans.
type ReadOption struct {
	// ReadFrom is the name to resume the listing at, inclusive. Empty means
	// no cursor.
	ReadFrom string

	// Prefix restricts the listing to names that start with it. Empty means
	// no filter.
	Prefix string
}

// DefaultReadOption returns an option with no cursor and no prefix.
func DefaultReadOption() ReadOption {
	return ReadOption{}
}

// WithReadFrom returns a copy of the option resuming at name.
func (o ReadOption) WithReadFrom(name string) ReadOption {
	o.ReadFrom = name
	return o
}

// WithPrefix returns a copy of the option filtered to names starting with
// prefix.
func (o ReadOption) WithPrefix(prefix string) ReadOption {
	o.Prefix = prefix
	return o
}

// StartName is the effective scan lower bound: the larger of the cursor and
// the prefix. Names below the prefix can never match it, so starting at the
// prefix is safe even without a cursor.
func (o ReadOption) StartName() string {
	if o.ReadFrom > o.Prefix {
		return o.ReadFrom
	}
	return o.Prefix
}
