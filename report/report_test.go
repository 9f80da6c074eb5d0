package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/chazu/javelin/classfile"
	"github.com/chazu/javelin/descriptor"
	"github.com/chazu/javelin/symbol"
)

func sampleResults(tbl *descriptor.Table) []classfile.Result {
	point := tbl.Types.GetOrCreateValidString("Lcom/example/Point;")
	line := tbl.Types.GetOrCreateValidString("Lcom/example/Line;")
	b := tbl.Boot
	return []classfile.Result{
		{Path: "Point.class", Class: &classfile.ClassFile{
			ThisClass:  point,
			SuperClass: b.Type.Object,
			Fields: []classfile.Field{
				{Name: tbl.Names.GetOrCreate("x"), Type: b.Type.Int},
				{Name: tbl.Names.GetOrCreate("y"), Type: b.Type.Int},
			},
			Methods: []classfile.Method{{Name: b.Name.Init, Signature: b.Signature.Void}},
		}},
		{Path: "Line.class", Class: &classfile.ClassFile{
			ThisClass:  line,
			SuperClass: b.Type.Object,
			Fields: []classfile.Field{
				{Name: tbl.Names.GetOrCreate("a"), Type: point},
				{Name: tbl.Names.GetOrCreate("b"), Type: point},
			},
			Methods: []classfile.Method{{Name: b.Name.Init, Signature: b.Signature.Void}},
			Refs: []classfile.Ref{
				{Tag: classfile.TagMethodref, Owner: b.Type.Object, Name: b.Name.Init, Signature: b.Signature.Void},
			},
		}},
		{Path: "Broken.class", Err: errors.New("unexpected end of class file")},
	}
}

func TestBuild(t *testing.T) {
	tbl := descriptor.NewTable(descriptor.NewBootstrap())
	r := Build(sampleResults(tbl), symbol.Stats{Strong: 10, Weak: 3}, true, 3)

	if r.Classes != 2 || r.Fields != 4 || r.Methods != 2 || r.Refs != 1 {
		t.Errorf("counts = %d/%d/%d/%d", r.Classes, r.Fields, r.Methods, r.Refs)
	}
	if r.Symbols.Strong != 10 || r.Symbols.Weak != 3 {
		t.Errorf("symbols = %+v", r.Symbols)
	}
	want := []Count{
		{Descriptor: "()V", Uses: 3},
		{Descriptor: "Lcom/example/Point;", Uses: 3},
		{Descriptor: "I", Uses: 2},
	}
	if len(r.Top) != len(want) {
		t.Fatalf("top = %v, want %v", r.Top, want)
	}
	for i := range want {
		if r.Top[i] != want[i] {
			t.Errorf("top[%d] = %+v, want %+v", i, r.Top[i], want[i])
		}
	}
	if len(r.Failures) != 1 || r.Failures[0].Path != "Broken.class" {
		t.Errorf("failures = %v", r.Failures)
	}
	if r.OK() {
		t.Error("a report with failures is not OK")
	}
}

func TestWriteText(t *testing.T) {
	tbl := descriptor.NewTable(descriptor.NewBootstrap())
	r := Build(sampleResults(tbl), symbol.Stats{}, false, 10)
	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, s := range []string{"classes: 2", "verify: FAILED", "Lcom/example/Point;", "Broken.class: unexpected end"} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
}

func TestReport_CBORRoundTrip(t *testing.T) {
	tbl := descriptor.NewTable(descriptor.NewBootstrap())
	r := Build(sampleResults(tbl), symbol.Stats{Strong: 7, Weak: 2, Dead: 1}, true, 10)

	data, err := Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Classes != r.Classes || got.Symbols != r.Symbols || !got.Verified {
		t.Errorf("got %+v, want %+v", got, r)
	}
	if len(got.Top) != len(r.Top) || got.Top[0] != r.Top[0] {
		t.Error("Top mismatch")
	}

	// canonical encoding is deterministic across builds
	again, err := Marshal(Build(sampleResults(tbl), symbol.Stats{Strong: 7, Weak: 2, Dead: 1}, true, 10))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, again) {
		t.Error("encoding is not deterministic")
	}
}

func TestUnmarshalError(t *testing.T) {
	if _, err := Unmarshal([]byte{0xff, 0x00}); err == nil {
		t.Error("expected an error for malformed CBOR")
	}
}
