package serial

import "github.com/sweeney/noise-meter/internal/logic"

// FakeWriter records written readings for test assertions.
type FakeWriter struct {
	// Readings contains all readings that were written.
	Readings []logic.Reading

	// Lines contains the formatted lines that were written.
	Lines [][]byte

	// WriteError, if set, will be returned by WriteReading.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeWriter creates a FakeWriter for testing.
func NewFakeWriter() *FakeWriter {
	return &FakeWriter{}
}

// WriteReading records the reading and its formatted line.
func (f *FakeWriter) WriteReading(r logic.Reading) error {
	if f.WriteError != nil {
		return f.WriteError
	}

	f.Readings = append(f.Readings, r)
	f.Lines = append(f.Lines, FormatReading(r))
	return nil
}

// Close marks the writer as closed.
func (f *FakeWriter) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded readings.
func (f *FakeWriter) Reset() {
	f.Readings = nil
	f.Lines = nil
	f.WriteError = nil
	f.Closed = false
}
