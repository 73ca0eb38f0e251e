package panel

// Display geometry. The attached device is a 16-column, 2-row character
// display; longer lines are truncated at enqueue time.
const (
	Columns = 16
	Rows    = 2
)

// Candidate device addresses, probed in this order. These are the two
// addresses the display module ships with depending on its address strap.
const (
	addressPreferred = 0x27
	addressFallback  = 0x3F
)

// Bus abstracts the shared addressable peripheral bus.
//
// Implementations are not required to be safe for concurrent use: the
// Arbiter is the only caller and serialises every operation.
type Bus interface {
	// Probe reports whether a device answers at the given address.
	Probe(addr uint8) bool

	// Init prepares the display device at the given address for writing.
	Init(addr uint8) error

	// Clear blanks the display.
	Clear(addr uint8) error

	// WriteLine writes text to one display row (0-based).
	WriteLine(addr uint8, row int, text string) error
}
