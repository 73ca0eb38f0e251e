package panel

import (
	"fmt"
	"time"

	"github.com/goburrow/modbus"
)

// Register map of the Modbus-attached character display.
//
// The display gateway exposes a tiny holding-register interface: a control
// register for commands and one register block per row holding ASCII packed
// two characters per register.
const (
	regControl   = 0x0000
	regRowBase   = 0x0010
	regRowStride = 0x0010

	// cmdClear blanks the display when written to the control register.
	cmdClear = 0x0001

	// registersPerRow covers Columns characters at two per register.
	registersPerRow = Columns / 2

	// dialTimeout bounds each bus transaction.
	dialTimeout = 500 * time.Millisecond
)

// ModbusBus drives the display over Modbus TCP. The display address strap
// maps onto the Modbus unit identifier, which is how the two candidate
// addresses are probed.
//
// Not safe for concurrent use; the Arbiter serialises all calls.
type ModbusBus struct {
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

// NewModbusBus creates a bus transport for the display gateway at endpoint
// (host:port).
func NewModbusBus(endpoint string) *ModbusBus {
	handler := modbus.NewTCPClientHandler(endpoint)
	handler.Timeout = dialTimeout
	return &ModbusBus{
		handler: handler,
		client:  modbus.NewClient(handler),
	}
}

// Probe implements Bus. A device answers if a read of its control register
// succeeds.
func (b *ModbusBus) Probe(addr uint8) bool {
	b.handler.SlaveId = addr
	if err := b.handler.Connect(); err != nil {
		return false
	}
	_, err := b.client.ReadHoldingRegisters(regControl, 1)
	return err == nil
}

// Init implements Bus. The gateway needs no setup beyond a clear.
func (b *ModbusBus) Init(addr uint8) error {
	return b.Clear(addr)
}

// Clear implements Bus.
func (b *ModbusBus) Clear(addr uint8) error {
	b.handler.SlaveId = addr
	if _, err := b.client.WriteSingleRegister(regControl, cmdClear); err != nil {
		return fmt.Errorf("clearing display at %#02x: %w", addr, err)
	}
	return nil
}

// WriteLine implements Bus. The row is space-padded to the full display
// width so stale characters never survive a shorter line.
func (b *ModbusBus) WriteLine(addr uint8, row int, text string) error {
	if row < 0 || row >= Rows {
		return fmt.Errorf("panel: row %d out of range", row)
	}

	b.handler.SlaveId = addr
	base := uint16(regRowBase + row*regRowStride)
	if _, err := b.client.WriteMultipleRegisters(base, registersPerRow, packRow(text)); err != nil {
		return fmt.Errorf("writing display row %d at %#02x: %w", row, addr, err)
	}
	return nil
}

// Close releases the underlying connection.
func (b *ModbusBus) Close() error {
	return b.handler.Close()
}

// packRow encodes a row as big-endian register values, two ASCII characters
// per register, space-padded to the display width.
func packRow(text string) []byte {
	padded := make([]byte, Columns)
	for i := range padded {
		if i < len(text) {
			padded[i] = text[i]
		} else {
			padded[i] = ' '
		}
	}
	return padded
}
