package cpu

// address resolves the effective address for an addressing mode,
// consuming whatever operand bytes that mode requires from PC
// (advancing it past them). It must not be called with Implicit or
// Accumulator, which carry no memory operand; the engine special-cases
// those at the instruction level instead.
func (c *CPU) address(mode AddressingMode) uint16 {
	switch mode {
	case Immediate:
		addr := c.PC
		c.PC++
		return addr

	case ZeroPage:
		return uint16(c.fetch())

	case ZeroPageX:
		// Must wrap within the zero page: 0xFF + X=1 -> 0x00, not 0x0100.
		return uint16(c.fetch() + c.X)

	case ZeroPageY:
		return uint16(c.fetch() + c.Y)

	case Absolute:
		return c.fetch16()

	case AbsoluteX:
		return c.fetch16() + uint16(c.X)

	case AbsoluteY:
		return c.fetch16() + uint16(c.Y)

	case Relative:
		offset := int8(c.fetch())
		// PC here is already past the offset byte.
		return c.PC + uint16(int16(offset))

	case Indirect:
		ptr := c.fetch16()
		// The authentic 6502 bug: the high byte wraps within the same
		// page as the low byte instead of crossing into the next one.
		hiAddr := (ptr & 0xFF00) | ((ptr + 1) & 0x00FF)
		lo := uint16(c.Mem.Read(ptr))
		hi := uint16(c.Mem.Read(hiAddr))
		return lo | hi<<8

	case IndirectX:
		d := c.fetch() + c.X
		lo := uint16(c.Mem.Read(uint16(d)))
		hi := uint16(c.Mem.Read(uint16(d + 1)))
		return lo | hi<<8

	case IndirectY:
		d := c.fetch()
		lo := uint16(c.Mem.Read(uint16(d)))
		hi := uint16(c.Mem.Read(uint16(d + 1)))
		ptr := lo | hi<<8
		return ptr + uint16(c.Y)

	default:
		panic("cpu: address called with operand-less addressing mode " + mode.String())
	}
}
