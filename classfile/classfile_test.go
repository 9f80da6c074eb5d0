package classfile

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/chazu/javelin/descriptor"
	"github.com/chazu/javelin/symbol"
)

// classBuilder assembles a minimal class file for tests.
type classBuilder struct {
	pool    []byte
	count   uint16
	utf8s   map[string]uint16
	classes map[string]uint16

	fields  [][3]uint16
	methods [][3]uint16
	this    uint16
	super   uint16
	ifaces  []uint16
}

func newClassBuilder(this, super string) *classBuilder {
	b := &classBuilder{count: 1, utf8s: map[string]uint16{}, classes: map[string]uint16{}}
	b.this = b.class(this)
	if super != "" {
		b.super = b.class(super)
	}
	return b
}

func (b *classBuilder) utf8(s string) uint16 {
	if i, ok := b.utf8s[s]; ok {
		return i
	}
	b.pool = append(b.pool, TagUtf8)
	b.pool = binary.BigEndian.AppendUint16(b.pool, uint16(len(s)))
	b.pool = append(b.pool, s...)
	i := b.count
	b.count++
	b.utf8s[s] = i
	return i
}

func (b *classBuilder) class(name string) uint16 {
	if i, ok := b.classes[name]; ok {
		return i
	}
	n := b.utf8(name)
	b.pool = append(b.pool, TagClass)
	b.pool = binary.BigEndian.AppendUint16(b.pool, n)
	i := b.count
	b.count++
	b.classes[name] = i
	return i
}

func (b *classBuilder) raw(tag uint8, body ...byte) uint16 {
	b.pool = append(b.pool, tag)
	b.pool = append(b.pool, body...)
	i := b.count
	b.count++
	if tag == TagLong || tag == TagDouble {
		b.count++
	}
	return i
}

func (b *classBuilder) ref(tag uint8, owner, name, desc string) uint16 {
	c := b.class(owner)
	n, d := b.utf8(name), b.utf8(desc)
	nt := b.raw(TagNameAndType, byte(n>>8), byte(n), byte(d>>8), byte(d))
	return b.raw(tag, byte(c>>8), byte(c), byte(nt>>8), byte(nt))
}

func (b *classBuilder) field(name, typ string) *classBuilder {
	b.fields = append(b.fields, [3]uint16{0x0002, b.utf8(name), b.utf8(typ)})
	return b
}

func (b *classBuilder) method(name, sig string) *classBuilder {
	b.methods = append(b.methods, [3]uint16{0x0001, b.utf8(name), b.utf8(sig)})
	return b
}

func (b *classBuilder) iface(name string) *classBuilder {
	b.ifaces = append(b.ifaces, b.class(name))
	return b
}

func (b *classBuilder) bytes() []byte {
	var out []byte
	out = binary.BigEndian.AppendUint32(out, Magic)
	out = binary.BigEndian.AppendUint16(out, 0)
	out = binary.BigEndian.AppendUint16(out, 61)
	out = binary.BigEndian.AppendUint16(out, b.count)
	out = append(out, b.pool...)
	out = binary.BigEndian.AppendUint16(out, 0x0021)
	out = binary.BigEndian.AppendUint16(out, b.this)
	out = binary.BigEndian.AppendUint16(out, b.super)
	out = binary.BigEndian.AppendUint16(out, uint16(len(b.ifaces)))
	for _, i := range b.ifaces {
		out = binary.BigEndian.AppendUint16(out, i)
	}
	members := func(ms [][3]uint16) {
		out = binary.BigEndian.AppendUint16(out, uint16(len(ms)))
		for _, m := range ms {
			for _, v := range m {
				out = binary.BigEndian.AppendUint16(out, v)
			}
			// one attribute, to exercise skipping
			out = binary.BigEndian.AppendUint16(out, 1)
			out = binary.BigEndian.AppendUint16(out, b.utf8s["Code"])
			out = binary.BigEndian.AppendUint32(out, 3)
			out = append(out, 1, 2, 3)
		}
	}
	members(b.fields)
	members(b.methods)
	out = binary.BigEndian.AppendUint16(out, 0)
	return out
}

func sampleClass() []byte {
	b := newClassBuilder("com/example/Point", "java/lang/Object")
	b.utf8("Code")
	b.iface("java/io/Serializable")
	b.raw(TagLong, 0, 0, 0, 0, 0, 0, 0, 42)
	b.raw(TagInteger, 0, 0, 0, 7)
	b.ref(TagMethodref, "java/lang/Object", "<init>", "()V")
	b.ref(TagFieldref, "com/example/Point", "x", "I")
	b.field("x", "I").field("y", "I").field("label", "Ljava/lang/String;")
	b.method("<init>", "()V").method("distance", "(Lcom/example/Point;)D").method("scale", "(JD)[Lcom/example/Point;")
	return b.bytes()
}

func TestParseSampleClass(t *testing.T) {
	tbl := descriptor.NewTable(descriptor.NewBootstrap())
	cf, err := Parse(sampleClass(), tbl)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cf.MajorVersion != 61 {
		t.Errorf("major version = %d, want 61", cf.MajorVersion)
	}
	if cf.ThisClass.String() != "Lcom/example/Point;" {
		t.Errorf("this class = %q", cf.ThisClass.String())
	}
	if cf.SuperClass != tbl.Boot.Type.Object {
		t.Error("super class should be the bootstrap Object type")
	}
	if len(cf.Interfaces) != 1 || cf.Interfaces[0] != tbl.Boot.Type.Serializable {
		t.Errorf("interfaces = %v", cf.Interfaces)
	}

	if len(cf.Fields) != 3 {
		t.Fatalf("fields = %d, want 3", len(cf.Fields))
	}
	if cf.Fields[0].Type != tbl.Boot.Type.Int || cf.Fields[1].Type != tbl.Boot.Type.Int {
		t.Error("int fields should share the bootstrap int type")
	}
	if cf.Fields[2].Type != tbl.Boot.Type.String {
		t.Error("label should have the bootstrap String type")
	}

	if len(cf.Methods) != 3 {
		t.Fatalf("methods = %d, want 3", len(cf.Methods))
	}
	if cf.Methods[0].Name != tbl.Boot.Name.Init || cf.Methods[0].Signature != tbl.Boot.Signature.Void {
		t.Error("<init>()V should resolve to bootstrap symbols")
	}
	distance := cf.Methods[1]
	if descriptor.ReturnType(distance.Parsed) != tbl.Boot.Type.Double {
		t.Error("distance returns double")
	}
	if descriptor.ParameterType(distance.Parsed, 0) != cf.ThisClass {
		t.Error("distance parameter should be the same symbol as this_class")
	}
	if n := descriptor.SlotsForParameters(cf.Methods[2].Parsed); n != 4 {
		t.Errorf("scale parameter slots = %d, want 4", n)
	}

	if len(cf.Refs) != 2 {
		t.Fatalf("refs = %d, want 2", len(cf.Refs))
	}
	if cf.Refs[0].Tag != TagMethodref || cf.Refs[0].Signature != tbl.Boot.Signature.Void {
		t.Errorf("first ref = %+v", cf.Refs[0])
	}
	if cf.Refs[1].Owner != cf.ThisClass || cf.Refs[1].Type != tbl.Boot.Type.Int {
		t.Errorf("second ref = %+v", cf.Refs[1])
	}

	if !tbl.Symbols.Verify() {
		t.Error("Verify failed after parse")
	}
}

func TestParseMatchesManagers(t *testing.T) {
	tbl := descriptor.NewTable(descriptor.NewBootstrap())
	cf, err := Parse(sampleClass(), tbl)
	if err != nil {
		t.Fatal(err)
	}
	sig := tbl.Signatures.GetOrCreateValidString("(JD)[Lcom/example/Point;")
	if cf.Methods[2].Signature != sig {
		t.Error("parsed signature should be the symbol the manager returns")
	}
	if tbl.Names.Lookup("distance") != cf.Methods[1].Name {
		t.Error("method name should be interned")
	}
}

func TestParseStrong(t *testing.T) {
	tbl := descriptor.NewTable(descriptor.NewBootstrap())
	p := &Parser{Table: tbl, Strong: true}
	cf, err := p.Parse(sampleClass())
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Symbols.IsWeak(cf.Methods[1].Name.AsDescriptor()) {
		t.Error("strong parser should intern constants strong")
	}
}

func TestParseErrors(t *testing.T) {
	tbl := descriptor.NewTable(descriptor.NewBootstrap())
	good := sampleClass()

	badMagic := append([]byte{}, good...)
	badMagic[0] = 0

	oldVersion := append([]byte{}, good...)
	oldVersion[7] = 44

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrUnexpectedEOF},
		{"magic", badMagic, ErrInvalidMagic},
		{"version", oldVersion, ErrUnsupportedVersion},
		{"truncated", good[:len(good)-3], ErrUnexpectedEOF},
		{"trailing", append(append([]byte{}, good...), 0), ErrTrailingBytes},
		{"tag", func() []byte {
			b := newClassBuilder("A", "")
			b.raw(2)
			return b.bytes()
		}(), ErrInvalidTag},
		{"utf8", func() []byte {
			b := newClassBuilder("A", "")
			b.utf8("bad\x00")
			return b.bytes()
		}(), ErrInvalidUtf8},
		{"index", func() []byte {
			b := newClassBuilder("A", "")
			bad := b.raw(TagClass, 0, 99)
			b.ifaces = append(b.ifaces, bad)
			return b.bytes()
		}(), ErrInvalidIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data, tbl)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseRejectsBadDescriptors(t *testing.T) {
	tbl := descriptor.NewTable(descriptor.NewBootstrap())
	tests := []struct {
		name  string
		build func(*classBuilder)
	}{
		{"void field", func(b *classBuilder) { b.field("f", "V") }},
		{"field name", func(b *classBuilder) { b.field("a/b", "I") }},
		{"method name", func(b *classBuilder) { b.method("<foo>", "()V") }},
		{"signature", func(b *classBuilder) { b.method("m", "(V)V") }},
		{"method type", func(b *classBuilder) {
			d := b.utf8("(I")
			b.raw(TagMethodType, byte(d>>8), byte(d))
		}},
		{"class name", func(b *classBuilder) { b.iface("a;b") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newClassBuilder("A", "java/lang/Object")
			tt.build(b)
			_, err := Parse(b.bytes(), tbl)
			var verr *symbol.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}
