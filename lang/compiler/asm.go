package compiler

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// ModuleMagic is the four-byte magic stamped at the start of every encoded
// Module (spec section 6). Read as a big-endian word it spells "HBC\x00";
// Encode writes it little-endian like every other integer, so an encoded
// module starts with the bytes 00 43 42 48.
const ModuleMagic uint32 = 0x48424300

// ModuleVersion is the binary format version this package reads and writes.
const ModuleVersion uint16 = 1

// Encode serializes m to the bit-exact binary module format: a fixed
// magic/version header followed by the main Prototype, recursively.
// Integers are little-endian throughout.
func Encode(m *Module) ([]byte, error) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, ModuleMagic)
	binary.Write(&buf, binary.LittleEndian, ModuleVersion)
	writeString(&buf, m.Name)
	if err := encodeProto(&buf, m.Main); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses the binary module format produced by Encode.
func Decode(data []byte) (*Module, error) {
	r := bytes.NewReader(data)
	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("compiler: reading module magic: %w", err)
	}
	if magic != ModuleMagic {
		return nil, fmt.Errorf("compiler: bad module magic %#x, want %#x", magic, ModuleMagic)
	}
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("compiler: reading module version: %w", err)
	}
	if version != ModuleVersion {
		return nil, fmt.Errorf("compiler: unsupported module version %d, want %d", version, ModuleVersion)
	}
	name, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("compiler: reading module name: %w", err)
	}
	main, err := decodeProto(r)
	if err != nil {
		return nil, fmt.Errorf("compiler: reading main prototype: %w", err)
	}
	return &Module{Name: name, Main: main}, nil
}

func writeString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.LittleEndian, uint32(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil {
		return "", err
	}
	return string(b), nil
}

func encodeProto(buf *bytes.Buffer, p *Prototype) error {
	writeString(buf, p.Name)
	binary.Write(buf, binary.LittleEndian, uint8(p.NumParams))
	asyncFlag := uint8(0)
	if p.IsAsync {
		asyncFlag = 1
	}
	binary.Write(buf, binary.LittleEndian, asyncFlag)
	binary.Write(buf, binary.LittleEndian, uint16(p.MaxStack))

	binary.Write(buf, binary.LittleEndian, uint32(len(p.Code)))
	for _, instr := range p.Code {
		binary.Write(buf, binary.LittleEndian, uint32(instr))
	}
	binary.Write(buf, binary.LittleEndian, uint32(len(p.Lines)))
	for _, line := range p.Lines {
		binary.Write(buf, binary.LittleEndian, uint32(line))
	}

	binary.Write(buf, binary.LittleEndian, uint16(len(p.Constants)))
	for _, k := range p.Constants {
		if err := encodeConst(buf, k); err != nil {
			return err
		}
	}

	binary.Write(buf, binary.LittleEndian, uint16(len(p.Upvalues)))
	for _, u := range p.Upvalues {
		local := uint8(0)
		if u.FromParentLocal {
			local = 1
		}
		binary.Write(buf, binary.LittleEndian, local)
		binary.Write(buf, binary.LittleEndian, u.Index)
		writeString(buf, u.Name)
	}

	binary.Write(buf, binary.LittleEndian, uint16(len(p.Prototypes)))
	for _, child := range p.Prototypes {
		if err := encodeProto(buf, child); err != nil {
			return err
		}
	}
	return nil
}

func decodeProto(r *bytes.Reader) (*Prototype, error) {
	name, err := readString(r)
	if err != nil {
		return nil, err
	}
	p := &Prototype{Name: name}

	var numParams, asyncFlag uint8
	var maxStack uint16
	binary.Read(r, binary.LittleEndian, &numParams)
	binary.Read(r, binary.LittleEndian, &asyncFlag)
	if err := binary.Read(r, binary.LittleEndian, &maxStack); err != nil {
		return nil, err
	}
	p.NumParams = int(numParams)
	p.IsAsync = asyncFlag != 0
	p.MaxStack = int(maxStack)

	var numCode uint32
	if err := binary.Read(r, binary.LittleEndian, &numCode); err != nil {
		return nil, err
	}
	p.Code = make([]Instr, numCode)
	for i := range p.Code {
		var raw uint32
		if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
			return nil, err
		}
		p.Code[i] = Instr(raw)
	}

	var numLines uint32
	if err := binary.Read(r, binary.LittleEndian, &numLines); err != nil {
		return nil, err
	}
	p.Lines = make([]int32, numLines)
	for i := range p.Lines {
		var raw uint32
		if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
			return nil, err
		}
		p.Lines[i] = int32(raw)
	}

	var numConsts uint16
	if err := binary.Read(r, binary.LittleEndian, &numConsts); err != nil {
		return nil, err
	}
	p.Constants = make([]Const, numConsts)
	for i := range p.Constants {
		k, err := decodeConst(r)
		if err != nil {
			return nil, err
		}
		p.Constants[i] = k
	}

	var numUpvals uint16
	if err := binary.Read(r, binary.LittleEndian, &numUpvals); err != nil {
		return nil, err
	}
	p.Upvalues = make([]UpvalDesc, numUpvals)
	for i := range p.Upvalues {
		var local uint8
		var idx uint8
		if err := binary.Read(r, binary.LittleEndian, &local); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &idx); err != nil {
			return nil, err
		}
		uname, err := readString(r)
		if err != nil {
			return nil, err
		}
		p.Upvalues[i] = UpvalDesc{FromParentLocal: local != 0, Index: idx, Name: uname}
	}

	var numProtos uint16
	if err := binary.Read(r, binary.LittleEndian, &numProtos); err != nil {
		return nil, err
	}
	p.Prototypes = make([]*Prototype, numProtos)
	for i := range p.Prototypes {
		child, err := decodeProto(r)
		if err != nil {
			return nil, err
		}
		p.Prototypes[i] = child
	}

	return p, nil
}

func encodeConst(buf *bytes.Buffer, k Const) error {
	binary.Write(buf, binary.LittleEndian, uint8(k.Kind))
	switch k.Kind {
	case ConstNull:
	case ConstBool:
		v := uint8(0)
		if k.Bool {
			v = 1
		}
		binary.Write(buf, binary.LittleEndian, v)
	case ConstInt:
		binary.Write(buf, binary.LittleEndian, uint64(k.Int))
	case ConstFloat:
		binary.Write(buf, binary.LittleEndian, math.Float64bits(k.Float))
	case ConstString:
		writeString(buf, k.Str)
	default:
		return fmt.Errorf("compiler: unknown constant kind %d", k.Kind)
	}
	return nil
}

func decodeConst(r *bytes.Reader) (Const, error) {
	var kind uint8
	if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
		return Const{}, err
	}
	k := Const{Kind: ConstKind(kind)}
	switch k.Kind {
	case ConstNull:
	case ConstBool:
		var v uint8
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return Const{}, err
		}
		k.Bool = v != 0
	case ConstInt:
		var v uint64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return Const{}, err
		}
		k.Int = int64(v)
	case ConstFloat:
		var v uint64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return Const{}, err
		}
		k.Float = math.Float64frombits(v)
	case ConstString:
		s, err := readString(r)
		if err != nil {
			return Const{}, err
		}
		k.Str = s
	default:
		return Const{}, fmt.Errorf("compiler: unknown constant kind %d", kind)
	}
	return k, nil
}
