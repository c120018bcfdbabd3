package emu

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	stateMagic   = "M68K"
	stateVersion = 1

	legacyStateSize  = 4 + 16*4 + 11*4 + 4
	legacyStateMagic = 0xdeadbeef
)

var (
	ErrMalformedState       = errors.New("malformed 68K save state")
	ErrMalformedLegacyState = errors.New("malformed old 68K save state")
)

// stateField binds a tag of the flat state record to a CPU field.
type stateField struct {
	tag  string
	save func(c *CPU) []byte
	load func(c *CPU, data []byte) error
}

func u32Field(tag string, field func(c *CPU) *uint32) stateField {
	return stateField{
		tag: tag,
		save: func(c *CPU) []byte {
			return binary.BigEndian.AppendUint32(nil, *field(c))
		},
		load: func(c *CPU, data []byte) error {
			if len(data) != 4 {
				return fmt.Errorf("%w: field %s has %d bytes", ErrMalformedState, tag, len(data))
			}
			*field(c) = binary.BigEndian.Uint32(data)
			return nil
		},
	}
}

func u8Field(tag string, get func(c *CPU) uint8, set func(c *CPU, v uint8)) stateField {
	return stateField{
		tag: tag,
		save: func(c *CPU) []byte {
			return []byte{get(c)}
		},
		load: func(c *CPU, data []byte) error {
			if len(data) != 1 {
				return fmt.Errorf("%w: field %s has %d bytes", ErrMalformedState, tag, len(data))
			}
			set(c, data[0])
			return nil
		},
	}
}

func flagField(tag string, flag func(c *CPU) *bool) stateField {
	return u8Field(tag,
		func(c *CPU) uint8 { return b2u(*flag(c)) },
		func(c *CPU, v uint8) { *flag(c) = v != 0 })
}

// stateFields lists the record in serialization order. CCR precedes the
// individual flags, which win on load.
var stateFields = []stateField{
	{
		tag: "DA",
		save: func(c *CPU) []byte {
			out := make([]byte, 0, 64)
			for _, r := range c.da {
				out = binary.BigEndian.AppendUint32(out, r)
			}
			return out
		},
		load: func(c *CPU, data []byte) error {
			if len(data) != 64 {
				return fmt.Errorf("%w: field DA has %d bytes", ErrMalformedState, len(data))
			}
			for i := range c.da {
				c.da[i] = binary.BigEndian.Uint32(data[i*4:])
			}
			return nil
		},
	},
	u32Field("PC", func(c *CPU) *uint32 { return &c.pc }),
	u8Field("CCR", (*CPU).CCR, (*CPU).SetCCR),
	u8Field("SRHB",
		func(c *CPU) uint8 { return c.srhb },
		func(c *CPU, v uint8) { c.srhb = v & srhbMask }),
	u8Field("IPL",
		func(c *CPU) uint8 { return c.ipl },
		func(c *CPU, v uint8) { c.ipl = v & 7 }),
	flagField("FlagZ", func(c *CPU) *bool { return &c.flagZ }),
	flagField("FlagN", func(c *CPU) *bool { return &c.flagN }),
	flagField("FlagX", func(c *CPU) *bool { return &c.flagX }),
	flagField("FlagC", func(c *CPU) *bool { return &c.flagC }),
	flagField("FlagV", func(c *CPU) *bool { return &c.flagV }),
	u32Field("SPInactive", func(c *CPU) *uint32 { return &c.spInactive }),
	u8Field("XPending",
		func(c *CPU) uint8 { return c.xPending },
		func(c *CPU, v uint8) { c.xPending = v & pendingMask }),
}

// SaveState serializes the architectural state as a flat tagged record.
func (c *CPU) SaveState() []byte {
	var buf bytes.Buffer
	buf.WriteString(stateMagic)
	buf.WriteByte(stateVersion)

	for _, f := range stateFields {
		data := f.save(c)
		buf.WriteByte(byte(len(f.tag)))
		buf.WriteString(f.tag)
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(data)))
		buf.Write(data)
	}
	return buf.Bytes()
}

// LoadState restores a record written by SaveState. Unknown tags are
// skipped; fields missing from the record keep their current value.
func (c *CPU) LoadState(data []byte) error {
	if len(data) < len(stateMagic)+1 || string(data[:len(stateMagic)]) != stateMagic {
		return fmt.Errorf("%w: bad header", ErrMalformedState)
	}
	if v := data[len(stateMagic)]; v != stateVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrMalformedState, v)
	}

	entries := make(map[string][]byte)
	rest := data[len(stateMagic)+1:]
	for len(rest) > 0 {
		n := int(rest[0])
		if len(rest) < 1+n+4 {
			return fmt.Errorf("%w: truncated entry", ErrMalformedState)
		}
		tag := string(rest[1 : 1+n])
		size := binary.BigEndian.Uint32(rest[1+n:])
		rest = rest[1+n+4:]
		if uint64(len(rest)) < uint64(size) {
			return fmt.Errorf("%w: truncated field %s", ErrMalformedState, tag)
		}
		entries[tag] = rest[:size]
		rest = rest[size:]
	}

	// validate everything before touching the CPU
	scratch := *c
	for _, f := range stateFields {
		value, ok := entries[f.tag]
		if !ok {
			c.warn("[M68K] save state lacks field %s", f.tag)
			continue
		}
		if err := f.load(&scratch, value); err != nil {
			return err
		}
	}

	c.da, c.pc, c.srhb, c.ipl = scratch.da, scratch.pc, scratch.srhb, scratch.ipl
	c.flagZ, c.flagN, c.flagX, c.flagC, c.flagV = scratch.flagZ, scratch.flagN, scratch.flagX, scratch.flagC, scratch.flagV
	c.spInactive, c.xPending = scratch.spInactive, scratch.xPending
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (c *CPU) MarshalBinary() ([]byte, error) {
	return c.SaveState(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (c *CPU) UnmarshalBinary(data []byte) error {
	return c.LoadState(data)
}

// LoadLegacyState imports the fixed little-endian register blob of the old
// 68K core: a 4 byte skip, D0-D7/A0-A7, the scattered C, V, notZ, N, X, I and
// S fields, USP, PC, the status word (bit 1 = stopped), the IRQ line and the
// 0xDEADBEEF trailer.
func (c *CPU) LoadLegacyState(data []byte) error {
	if len(data) < legacyStateSize {
		return fmt.Errorf("%w: %d bytes", ErrMalformedLegacyState, len(data))
	}

	word := func(i int) uint32 {
		return binary.LittleEndian.Uint32(data[4+i*4:])
	}

	if word(16+11) != legacyStateMagic {
		return ErrMalformedLegacyState
	}

	for i := range c.da {
		c.da[i] = word(i)
	}

	oldC, oldV, oldNotZ, oldN := word(16), word(17), word(18), word(19)
	oldX, oldI, oldS := word(20), word(21), word(22)
	oldUSP, pc, oldStatus, oldIRQLine := word(23), word(24), word(25), word(26)

	c.pc = pc
	c.flagC = (oldC>>8)&1 != 0
	c.flagV = (oldV>>7)&1 != 0
	c.flagZ = oldNotZ == 0
	c.flagN = (oldN>>7)&1 != 0
	c.flagX = (oldX>>8)&1 != 0
	c.srhb = uint8((oldS>>8)&0x20) | uint8(oldI&7)
	c.spInactive = oldUSP

	c.xPending = 0
	if oldStatus&0x02 != 0 {
		c.xPending = PendingStopped
	}
	c.ipl = uint8(oldIRQLine & 7)

	c.recalcInt()
	return nil
}
