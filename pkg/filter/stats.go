package filter

// Stats counts what a run did.
type Stats struct {
	// Files is the number of inputs converted by RunFiles.
	Files int

	// Lines is the number of lines read.
	Lines int

	// LinesChanged is the number of lines written with at least one
	// converted timestamp.
	LinesChanged int

	// Converted is the number of timestamps rewritten.
	Converted int

	// Rejected is the number of invalid timestamps found.
	Rejected int

	// PassedThrough is the number of lines written unchanged because of an
	// invalid timestamp.
	PassedThrough int
}

// Add accumulates o into s.
func (s *Stats) Add(o *Stats) {
	if o == nil {
		return
	}
	s.Files += o.Files
	s.Lines += o.Lines
	s.LinesChanged += o.LinesChanged
	s.Converted += o.Converted
	s.Rejected += o.Rejected
	s.PassedThrough += o.PassedThrough
}
