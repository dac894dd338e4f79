// Package cpu implements the MOS 6502 instruction decoder and
// interpretive execution engine: a pure opcode decoder, an address
// resolver, and a Step function that mutates processor state and
// memory one instruction at a time. Peripherals, cycle-accurate
// timing, illegal opcodes and BCD arithmetic are out of scope.
package cpu

const (
	stackPage = 0x0100

	vectorNMI   = 0xFFFA
	vectorReset = 0xFFFC
	vectorIRQ   = 0xFFFE
)

// CPU holds all mutable processor state: the three 8-bit registers,
// the stack pointer, the program counter, the status flags, and the
// memory it operates over. It is the single owner of that state; Step
// and Reset are the only methods that mutate it.
type CPU struct {
	A, X, Y uint8
	S       uint8
	PC      uint16
	P       Flags

	Mem Memory
}

// New builds a processor over the given memory, initialized to the
// RESET state: registers zero, flags 0b00100000, S = 0xFD, PC loaded
// from the reset vector at 0xFFFC/0xFFFD.
func New(mem Memory) *CPU {
	c := &CPU{
		S:   0xFD,
		P:   newFlags(),
		Mem: mem,
	}
	c.PC = read16(c.Mem, vectorReset)
	return c
}

// Reset restores PC from the reset vector and sets the
// interrupt-disable flag, without otherwise touching registers.
func (c *CPU) Reset() {
	c.P.SetInterrupt(true)
	c.PC = read16(c.Mem, vectorReset)
}

// RegisterSnapshot is a point-in-time, read-only view of processor
// state, for host drivers to log or inspect.
type RegisterSnapshot struct {
	A, X, Y, S, P uint8
	PC            uint16
}

// Snapshot returns the current register state.
func (c *CPU) Snapshot() RegisterSnapshot {
	return RegisterSnapshot{A: c.A, X: c.X, Y: c.Y, S: c.S, P: c.P.Byte(), PC: c.PC}
}

// PeekOpcode is a non-mutating read of the byte at PC, used by host
// drivers to detect a halt sentinel (conventionally BRK, 0x00) without
// advancing the processor.
func (c *CPU) PeekOpcode() uint8 {
	return c.Mem.Read(c.PC)
}

// fetch reads the byte at PC and advances PC by one.
func (c *CPU) fetch() uint8 {
	v := c.Mem.Read(c.PC)
	c.PC++
	return v
}

// fetch16 reads a little-endian 16-bit value at PC and advances PC by
// two.
func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch())
	hi := uint16(c.fetch())
	return lo | hi<<8
}

func (c *CPU) push(v uint8) {
	c.Mem.Write(stackPage|uint16(c.S), v)
	c.S--
}

func (c *CPU) pop() uint8 {
	c.S++
	return c.Mem.Read(stackPage | uint16(c.S))
}

func (c *CPU) pushAddr(addr uint16) {
	c.push(uint8(addr >> 8))
	c.push(uint8(addr & 0xFF))
}

func (c *CPU) popAddr() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return lo | hi<<8
}

// Step fetches, decodes and executes one instruction. It returns a
// *DecodeError if the opcode byte is illegal, or an
// *UnimplementedError if the instruction requires decimal-mode
// arithmetic this core does not model. All other instruction effects
// (including signed overflow, carry, and the zero/negative flags) are
// expected outcomes reflected in flags, never errors.
func (c *CPU) Step() error {
	opcodePC := c.PC
	op := c.fetch()

	inst, mode, err := Decode(op)
	if err != nil {
		de := err.(*DecodeError)
		de.PC = opcodePC
		return de
	}

	return c.execute(inst, mode)
}
