package reqline

import "io"

// Validate checks that text is a well-formed request block.
// Returns nil if valid, or a *FormatError identifying the offending line.
func Validate(text string) error {
	_, err := Parse(text)
	return err
}

// ValidateReader reads all data from r and validates it.
// See Validate for the validation semantics.
func ValidateReader(r io.Reader) error {
	_, err := ParseReader(r)
	return err
}
