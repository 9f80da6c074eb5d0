// Package classfile reads JVM class files and interns every descriptor they
// carry through a descriptor.Table.
package classfile

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/chazu/javelin/descriptor"
	"github.com/chazu/javelin/symbol"
)

// Magic is the first four bytes of every class file.
const Magic = 0xCAFEBABE

// Constant pool tags.
const (
	TagUtf8               = 1
	TagInteger            = 3
	TagFloat              = 4
	TagLong               = 5
	TagDouble             = 6
	TagClass              = 7
	TagString             = 8
	TagFieldref           = 9
	TagMethodref          = 10
	TagInterfaceMethodref = 11
	TagNameAndType        = 12
	TagMethodHandle       = 15
	TagMethodType         = 16
	TagDynamic            = 17
	TagInvokeDynamic      = 18
	TagModule             = 19
	TagPackage            = 20
)

// ---------------------------------------------------------------------------
// Class File Error Types
// ---------------------------------------------------------------------------

var (
	ErrInvalidMagic       = errors.New("invalid magic number: expected 0xCAFEBABE")
	ErrUnsupportedVersion = errors.New("unsupported class file version")
	ErrUnexpectedEOF      = errors.New("unexpected end of class file")
	ErrTrailingBytes      = errors.New("trailing bytes after class file")
	ErrInvalidTag         = errors.New("invalid constant pool tag")
	ErrInvalidIndex       = errors.New("invalid constant pool index")
	ErrInvalidUtf8        = errors.New("invalid modified UTF-8 constant")
)

// ---------------------------------------------------------------------------
// ClassFile: parsed structure
// ---------------------------------------------------------------------------

// ClassFile is the symbolic content of a class file. Every name and
// descriptor is a canonical symbol of the Table it was parsed against.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	AccessFlags  uint16

	ThisClass  *descriptor.TypeSymbol
	SuperClass *descriptor.TypeSymbol // nil for java/lang/Object
	Interfaces []*descriptor.TypeSymbol

	Fields  []Field
	Methods []Method
	Refs    []Ref

	// ConstantCount is the constant_pool_count of the file.
	ConstantCount int
}

// Field is a field_info entry.
type Field struct {
	AccessFlags uint16
	Name        *descriptor.NameSymbol
	Type        *descriptor.TypeSymbol
}

// Method is a method_info entry.
type Method struct {
	AccessFlags uint16
	Name        *descriptor.NameSymbol
	Signature   *descriptor.SignatureSymbol

	// Parsed holds the parameter types followed by the return type.
	Parsed []*descriptor.TypeSymbol
}

// Ref is a Fieldref, Methodref or InterfaceMethodref constant. Type is set
// for field references and Signature for method references.
type Ref struct {
	Tag       uint8
	Owner     *descriptor.TypeSymbol
	Name      *descriptor.NameSymbol
	Type      *descriptor.TypeSymbol
	Signature *descriptor.SignatureSymbol
}

// ---------------------------------------------------------------------------
// Parser
// ---------------------------------------------------------------------------

// Parser parses class files against one Table. A Parser is safe for
// concurrent use.
type Parser struct {
	Table *descriptor.Table

	// Strong interns UTF-8 constants in the strong tier.
	Strong bool
}

// Parse parses data against tbl, interning its constants weakly.
func Parse(data []byte, tbl *descriptor.Table) (*ClassFile, error) {
	return (&Parser{Table: tbl}).Parse(data)
}

// constant is one constant pool slot. The second slot of a long or double
// has tag 0.
type constant struct {
	tag    uint8
	utf8   *descriptor.UTF8Symbol
	index1 uint16
	index2 uint16
}

type classReader struct {
	p      *Parser
	data   []byte
	offset int
	pool   []constant
}

// Parse reads a complete class file.
func (p *Parser) Parse(data []byte) (*ClassFile, error) {
	r := &classReader{p: p, data: data}
	return r.read()
}

func (r *classReader) read() (*ClassFile, error) {
	magic, err := r.u4()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, ErrInvalidMagic
	}

	cf := &ClassFile{}
	if cf.MinorVersion, err = r.u2(); err != nil {
		return nil, err
	}
	if cf.MajorVersion, err = r.u2(); err != nil {
		return nil, err
	}
	if cf.MajorVersion < 45 {
		return nil, fmt.Errorf("%w: %d.%d", ErrUnsupportedVersion, cf.MajorVersion, cf.MinorVersion)
	}

	if err := r.readConstantPool(); err != nil {
		return nil, err
	}
	cf.ConstantCount = len(r.pool)

	if cf.AccessFlags, err = r.u2(); err != nil {
		return nil, err
	}
	if cf.ThisClass, err = r.classRef(false); err != nil {
		return nil, fmt.Errorf("this_class: %w", err)
	}
	if cf.SuperClass, err = r.classRef(true); err != nil {
		return nil, fmt.Errorf("super_class: %w", err)
	}

	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	cf.Interfaces = make([]*descriptor.TypeSymbol, 0, count)
	for i := 0; i < int(count); i++ {
		iface, err := r.classRef(false)
		if err != nil {
			return nil, fmt.Errorf("interface %d: %w", i, err)
		}
		cf.Interfaces = append(cf.Interfaces, iface)
	}

	if cf.Fields, err = r.readFields(); err != nil {
		return nil, err
	}
	if cf.Methods, err = r.readMethods(); err != nil {
		return nil, err
	}
	if err := r.skipAttributes(); err != nil {
		return nil, err
	}
	if r.offset != len(r.data) {
		return nil, ErrTrailingBytes
	}

	if cf.Refs, err = r.resolveRefs(); err != nil {
		return nil, err
	}
	return cf, nil
}

// ---------------------------------------------------------------------------
// Constant pool
// ---------------------------------------------------------------------------

func (r *classReader) readConstantPool() error {
	count, err := r.u2()
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: constant_pool_count is 0", ErrInvalidIndex)
	}
	r.pool = make([]constant, count)
	for i := 1; i < int(count); i++ {
		tag, err := r.u1()
		if err != nil {
			return err
		}
		c := constant{tag: tag}
		switch tag {
		case TagUtf8:
			length, err := r.u2()
			if err != nil {
				return err
			}
			raw, err := r.bytes(int(length))
			if err != nil {
				return err
			}
			c.utf8 = r.p.Table.Utf8.GetOrCreateValid(symbol.Wrap(raw), r.p.Strong)
			if c.utf8 == nil {
				return fmt.Errorf("%w at index %d", ErrInvalidUtf8, i)
			}
		case TagInteger, TagFloat:
			err = r.skip(4)
		case TagLong, TagDouble:
			err = r.skip(8)
		case TagClass, TagString, TagMethodType, TagModule, TagPackage:
			c.index1, err = r.u2()
		case TagFieldref, TagMethodref, TagInterfaceMethodref, TagNameAndType, TagDynamic, TagInvokeDynamic:
			if c.index1, err = r.u2(); err == nil {
				c.index2, err = r.u2()
			}
		case TagMethodHandle:
			var kind uint8
			if kind, err = r.u1(); err == nil {
				c.index1 = uint16(kind)
				c.index2, err = r.u2()
			}
		default:
			return fmt.Errorf("%w %d at index %d", ErrInvalidTag, tag, i)
		}
		if err != nil {
			return err
		}
		r.pool[i] = c
		if tag == TagLong || tag == TagDouble {
			// takes two slots
			i++
		}
	}
	return r.checkMethodTypes()
}

// checkMethodTypes validates every CONSTANT_MethodType descriptor.
func (r *classReader) checkMethodTypes() error {
	for i, c := range r.pool {
		if c.tag != TagMethodType {
			continue
		}
		if _, err := r.signature(c.index1); err != nil {
			return fmt.Errorf("method type %d: %w", i, err)
		}
	}
	return nil
}

func (r *classReader) entry(index uint16, tag uint8) (constant, error) {
	if index == 0 || int(index) >= len(r.pool) || r.pool[index].tag != tag {
		return constant{}, fmt.Errorf("%w %d", ErrInvalidIndex, index)
	}
	return r.pool[index], nil
}

func (r *classReader) utf8(index uint16) (*descriptor.UTF8Symbol, error) {
	c, err := r.entry(index, TagUtf8)
	if err != nil {
		return nil, err
	}
	return c.utf8, nil
}

// classRef resolves a u2 CONSTANT_Class index to a type. Index 0 is
// allowed only when optional is set and yields nil.
func (r *classReader) classRef(optional bool) (*descriptor.TypeSymbol, error) {
	index, err := r.u2()
	if err != nil {
		return nil, err
	}
	if index == 0 && optional {
		return nil, nil
	}
	return r.class(index)
}

func (r *classReader) class(index uint16) (*descriptor.TypeSymbol, error) {
	c, err := r.entry(index, TagClass)
	if err != nil {
		return nil, err
	}
	u, err := r.utf8(c.index1)
	if err != nil {
		return nil, err
	}
	name := symbol.As[symbol.Name](u)
	if err := name.ValidateClassName(); err != nil {
		return nil, err
	}
	return r.p.Table.Types.FromClassNameEntry(name), nil
}

func (r *classReader) name(index uint16, validate func(*descriptor.NameSymbol) error) (*descriptor.NameSymbol, error) {
	u, err := r.utf8(index)
	if err != nil {
		return nil, err
	}
	name := symbol.As[symbol.Name](u)
	if err := validate(name); err != nil {
		return nil, err
	}
	return name, nil
}

func (r *classReader) fieldType(index uint16) (*descriptor.TypeSymbol, error) {
	u, err := r.utf8(index)
	if err != nil {
		return nil, err
	}
	t := symbol.As[symbol.Type](u)
	if err := t.ValidateType(false); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *classReader) signature(index uint16) (*descriptor.SignatureSymbol, error) {
	u, err := r.utf8(index)
	if err != nil {
		return nil, err
	}
	sig := symbol.As[symbol.Signature](u)
	if err := sig.ValidateSignature(); err != nil {
		return nil, err
	}
	return sig, nil
}

func (r *classReader) resolveRefs() ([]Ref, error) {
	var refs []Ref
	for i, c := range r.pool {
		switch c.tag {
		case TagFieldref, TagMethodref, TagInterfaceMethodref:
		default:
			continue
		}
		ref, err := r.resolveRef(c)
		if err != nil {
			return nil, fmt.Errorf("member ref %d: %w", i, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (r *classReader) resolveRef(c constant) (Ref, error) {
	ref := Ref{Tag: c.tag}
	var err error
	if ref.Owner, err = r.class(c.index1); err != nil {
		return ref, err
	}
	nt, err := r.entry(c.index2, TagNameAndType)
	if err != nil {
		return ref, err
	}
	if c.tag == TagFieldref {
		if ref.Name, err = r.name(nt.index1, (*descriptor.NameSymbol).ValidateFieldName); err != nil {
			return ref, err
		}
		ref.Type, err = r.fieldType(nt.index2)
		return ref, err
	}
	if ref.Name, err = r.name(nt.index1, (*descriptor.NameSymbol).ValidateMethodName); err != nil {
		return ref, err
	}
	ref.Signature, err = r.signature(nt.index2)
	return ref, err
}

// ---------------------------------------------------------------------------
// Members
// ---------------------------------------------------------------------------

func (r *classReader) readFields() ([]Field, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	fields := make([]Field, 0, count)
	for i := 0; i < int(count); i++ {
		var f Field
		var nameIndex, typeIndex uint16
		if f.AccessFlags, nameIndex, typeIndex, err = r.memberHeader(); err != nil {
			return nil, err
		}
		if f.Name, err = r.name(nameIndex, (*descriptor.NameSymbol).ValidateFieldName); err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		if f.Type, err = r.fieldType(typeIndex); err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		if err := r.skipAttributes(); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func (r *classReader) readMethods() ([]Method, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	methods := make([]Method, 0, count)
	for i := 0; i < int(count); i++ {
		var m Method
		var nameIndex, sigIndex uint16
		if m.AccessFlags, nameIndex, sigIndex, err = r.memberHeader(); err != nil {
			return nil, err
		}
		if m.Name, err = r.name(nameIndex, (*descriptor.NameSymbol).ValidateMethodName); err != nil {
			return nil, fmt.Errorf("method %d: %w", i, err)
		}
		if m.Signature, err = r.signature(sigIndex); err != nil {
			return nil, fmt.Errorf("method %s: %w", m.Name, err)
		}
		if m.Parsed, err = r.p.Table.Signatures.Parsed(m.Signature); err != nil {
			return nil, fmt.Errorf("method %s: %w", m.Name, err)
		}
		if err := r.skipAttributes(); err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

func (r *classReader) memberHeader() (flags, nameIndex, descIndex uint16, err error) {
	if flags, err = r.u2(); err != nil {
		return
	}
	if nameIndex, err = r.u2(); err != nil {
		return
	}
	descIndex, err = r.u2()
	return
}

func (r *classReader) skipAttributes() error {
	count, err := r.u2()
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if _, err := r.u2(); err != nil {
			return err
		}
		length, err := r.u4()
		if err != nil {
			return err
		}
		if err := r.skip(int(length)); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Primitive reads
// ---------------------------------------------------------------------------

func (r *classReader) bytes(n int) ([]byte, error) {
	if n < 0 || r.offset+n > len(r.data) {
		return nil, ErrUnexpectedEOF
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

func (r *classReader) skip(n int) error {
	_, err := r.bytes(n)
	return err
}

func (r *classReader) u1() (uint8, error) {
	b, err := r.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *classReader) u2() (uint16, error) {
	b, err := r.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *classReader) u4() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}
