package cpu

// execute dispatches on the decoded instruction, resolving its operand
// through the address resolver and mutating registers, memory and
// flags. Dispatch is a direct switch on Instruction rather than a
// reflection-based method lookup — see DESIGN.md.
func (c *CPU) execute(inst Instruction, mode AddressingMode) error {
	switch inst {
	case LDA:
		c.A = c.Mem.Read(c.address(mode))
		c.P.UpdateNZ(c.A)
	case LDX:
		c.X = c.Mem.Read(c.address(mode))
		c.P.UpdateNZ(c.X)
	case LDY:
		c.Y = c.Mem.Read(c.address(mode))
		c.P.UpdateNZ(c.Y)

	case STA:
		c.Mem.Write(c.address(mode), c.A)
	case STX:
		c.Mem.Write(c.address(mode), c.X)
	case STY:
		c.Mem.Write(c.address(mode), c.Y)

	case TAX:
		c.X = c.A
		c.P.UpdateNZ(c.X)
	case TAY:
		c.Y = c.A
		c.P.UpdateNZ(c.Y)
	case TXA:
		c.A = c.X
		c.P.UpdateNZ(c.A)
	case TYA:
		c.A = c.Y
		c.P.UpdateNZ(c.A)
	case TSX:
		c.X = c.S
		c.P.UpdateNZ(c.X)
	case TXS:
		// Does not touch flags.
		c.S = c.X

	case INX:
		c.X++
		c.P.UpdateNZ(c.X)
	case INY:
		c.Y++
		c.P.UpdateNZ(c.Y)
	case DEX:
		c.X--
		c.P.UpdateNZ(c.X)
	case DEY:
		c.Y--
		c.P.UpdateNZ(c.Y)
	case INC:
		addr := c.address(mode)
		v := c.Mem.Read(addr) + 1
		c.Mem.Write(addr, v)
		c.P.UpdateNZ(v)
	case DEC:
		addr := c.address(mode)
		v := c.Mem.Read(addr) - 1
		c.Mem.Write(addr, v)
		c.P.UpdateNZ(v)

	case AND:
		c.A &= c.Mem.Read(c.address(mode))
		c.P.UpdateNZ(c.A)
	case ORA:
		c.A |= c.Mem.Read(c.address(mode))
		c.P.UpdateNZ(c.A)
	case EOR:
		c.A ^= c.Mem.Read(c.address(mode))
		c.P.UpdateNZ(c.A)

	case ADC:
		if c.P.Decimal() {
			return &UnimplementedError{Instruction: inst, Mode: mode}
		}
		c.adc(c.Mem.Read(c.address(mode)))
	case SBC:
		if c.P.Decimal() {
			return &UnimplementedError{Instruction: inst, Mode: mode}
		}
		c.adc(c.Mem.Read(c.address(mode)) ^ 0xFF)

	case CMP:
		c.compare(c.A, c.Mem.Read(c.address(mode)))
	case CPX:
		c.compare(c.X, c.Mem.Read(c.address(mode)))
	case CPY:
		c.compare(c.Y, c.Mem.Read(c.address(mode)))

	case ASL:
		old, store := c.operand(mode)
		c.P.SetCarry(old&0x80 != 0)
		v := old << 1
		store(v)
		c.P.UpdateNZ(v)
	case LSR:
		old, store := c.operand(mode)
		c.P.SetCarry(old&0x01 != 0)
		v := old >> 1
		store(v)
		c.P.UpdateNZ(v)
	case ROL:
		old, store := c.operand(mode)
		carryIn := uint8(0)
		if c.P.Carry() {
			carryIn = 1
		}
		c.P.SetCarry(old&0x80 != 0)
		v := (old << 1) | carryIn
		store(v)
		c.P.UpdateNZ(v)
	case ROR:
		old, store := c.operand(mode)
		carryIn := uint8(0)
		if c.P.Carry() {
			carryIn = 0x80
		}
		c.P.SetCarry(old&0x01 != 0)
		v := (old >> 1) | carryIn
		store(v)
		c.P.UpdateNZ(v)

	case BIT:
		m := c.Mem.Read(c.address(mode))
		c.P.SetZero(c.A&m == 0)
		c.P.SetNegative(m&0x80 != 0)
		c.P.SetOverflow(m&0x40 != 0)

	case JMP:
		c.PC = c.address(mode)
	case JSR:
		addr := c.address(mode)
		c.pushAddr(c.PC - 1)
		c.PC = addr
	case RTS:
		c.PC = c.popAddr() + 1

	case BRK:
		c.PC++ // skip the signature byte following the opcode
		c.pushAddr(c.PC)
		c.push(c.P.Byte() | FlagBreak)
		c.P.SetInterrupt(true)
		c.PC = read16(c.Mem, vectorIRQ)
	case RTI:
		c.P.SetByte(c.pop())
		c.PC = c.popAddr()

	case PHA:
		c.push(c.A)
	case PHP:
		c.push(c.P.Byte() | FlagBreak)
	case PLA:
		c.A = c.pop()
		c.P.UpdateNZ(c.A)
	case PLP:
		c.P.SetByte(c.pop())

	case CLC:
		c.P.SetCarry(false)
	case SEC:
		c.P.SetCarry(true)
	case CLI:
		c.P.SetInterrupt(false)
	case SEI:
		c.P.SetInterrupt(true)
	case CLD:
		c.P.SetDecimal(false)
	case SED:
		c.P.SetDecimal(true)
	case CLV:
		c.P.SetOverflow(false)

	case BCC:
		c.branch(mode, !c.P.Carry())
	case BCS:
		c.branch(mode, c.P.Carry())
	case BEQ:
		c.branch(mode, c.P.Zero())
	case BNE:
		c.branch(mode, !c.P.Zero())
	case BMI:
		c.branch(mode, c.P.Negative())
	case BPL:
		c.branch(mode, !c.P.Negative())
	case BVS:
		c.branch(mode, c.P.Overflow())
	case BVC:
		c.branch(mode, !c.P.Overflow())

	case NOP:
		// No state change beyond the PC advance already performed by
		// Step's fetch.

	default:
		panic("cpu: unhandled instruction " + inst.String())
	}

	return nil
}

// operand reads the current value of a read-modify-write instruction's
// target and returns a closure that writes back to that same target —
// the accumulator, or a memory address — so ASL/LSR/ROL/ROR share one
// body regardless of which.
func (c *CPU) operand(mode AddressingMode) (uint8, func(uint8)) {
	if mode == Accumulator {
		return c.A, func(v uint8) { c.A = v }
	}
	addr := c.address(mode)
	return c.Mem.Read(addr), func(v uint8) { c.Mem.Write(addr, v) }
}

// adc implements ADC's addition-with-carry over 9 bits; SBC reuses it
// with its operand one's-complemented, since a - b - (1-c) == a + ^b + c.
func (c *CPU) adc(m uint8) {
	sum := uint16(c.A) + uint16(m) + uint16(b2u8(c.P.Carry()))
	r := uint8(sum)
	c.P.SetCarry(sum&0x100 != 0)
	c.P.SetOverflow((c.A^r)&(m^r)&0x80 != 0)
	c.A = r
	c.P.UpdateNZ(c.A)
}

// compare implements CMP/CPX/CPY: subtraction with borrow inverted,
// carry set iff reg >= mem (unsigned).
func (c *CPU) compare(reg, mem uint8) {
	r := reg - mem
	c.P.SetCarry(reg >= mem)
	c.P.SetZero(reg == mem)
	c.P.SetNegative(r&0x80 != 0)
}

// branch resolves the Relative operand (always, whether or not the
// branch is taken — the offset byte must be consumed either way) and
// moves PC to the target only if taken is true.
func (c *CPU) branch(mode AddressingMode, taken bool) {
	target := c.address(mode)
	if taken {
		c.PC = target
	}
}

func b2u8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
