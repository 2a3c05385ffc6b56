package extract

// ParseError reports structurally invalid input. It is only produced
// when Options.Strict is set; the default policy skips malformed
// markers with a diagnostic instead.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return "parse error: " + e.Msg
}
