package extract

// Options holds the tunable heuristics of title and section extraction.
// The defaults reproduce the reference output exactly.
type Options struct {
	// TitleMinRunes: runs with this many characters or fewer never become the title.
	TitleMinRunes int
	// TitleKeepDigits admits runs containing a decimal digit; by default they are
	// dropped as page numbers, dates and numbered captions.
	TitleKeepDigits bool
	// MaxBodyBlocks stops accumulation once body text has spanned this many blocks.
	MaxBodyBlocks int
}

func DefaultOptions() Options {
	return Options{
		TitleMinRunes: 5,
		MaxBodyBlocks: 3,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TitleMinRunes <= 0 {
		o.TitleMinRunes = d.TitleMinRunes
	}
	if o.MaxBodyBlocks <= 0 {
		o.MaxBodyBlocks = d.MaxBodyBlocks
	}
	return o
}
