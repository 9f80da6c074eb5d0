package descriptor

import (
	"testing"

	"github.com/chazu/javelin/symbol"
)

func TestTablesShareBootstrapIdentity(t *testing.T) {
	boot := NewBootstrap()
	a := NewTable(boot)
	b := NewTable(boot)

	if a.Types.Lookup("Ljava/lang/Object;") != b.Types.Lookup("Ljava/lang/Object;") {
		t.Error("tables from one bootstrap should share symbols")
	}
	if a.Names.Lookup("<init>") != boot.Name.Init {
		t.Error("<init> should be the bootstrap name")
	}
	if a.Symbols.IsWeak(boot.Signature.Void.AsDescriptor()) {
		t.Error("bootstrap symbols are strong")
	}
	if !boot.Symbols().Contains(boot.Type.Int.AsDescriptor()) {
		t.Error("frozen set should contain int")
	}
	if !a.Symbols.Verify() {
		t.Error("Verify failed")
	}
}

func TestBootstrapWithExtra(t *testing.T) {
	var extra *TypeSymbol
	boot := NewBootstrapWith(func(st *symbol.StaticSymbols) {
		extra = st.PutType("Lcom/example/Builtin;")
	})
	tbl := NewTable(boot)
	if tbl.Types.Lookup("Lcom/example/Builtin;") != extra {
		t.Error("extra static symbols should seed the table")
	}
}

func TestNamesAndUtf8(t *testing.T) {
	tbl := newTestTable(t)

	n := tbl.Names.GetOrCreate("someName")
	if tbl.Names.Lookup("someName") != n {
		t.Error("name lookup should find the interned name")
	}
	if tbl.Names.GetOrCreateValidMethodName(symbol.FromString("<bad>"), false) != nil {
		t.Error("<bad> is not a method name")
	}
	if tbl.Names.GetOrCreateValidFieldName(symbol.FromString("a/b"), false) != nil {
		t.Error("a/b is not a field name")
	}
	if tbl.Names.GetOrCreateValidClassName(symbol.FromString("java/util/List"), false) == nil {
		t.Error("java/util/List is a class name")
	}

	u := tbl.Utf8.GetOrCreateValidString("héllo")
	if u == nil || tbl.Utf8.Lookup("héllo") != u {
		t.Error("valid UTF-8 should intern")
	}
	if tbl.Utf8.GetOrCreateValid(symbol.Wrap([]byte{0}), false) != nil {
		t.Error("NUL is not modified UTF-8")
	}

	// one engine: the same bytes are the same symbol whatever the manager
	if tbl.Utf8.Lookup("someName").AsDescriptor() != n.AsDescriptor() {
		t.Error("managers share the engine")
	}
}

func TestJavaKind(t *testing.T) {
	for _, c := range []byte("ZBSCIFJDV") {
		k := KindFromTypeChar(c)
		if k == Illegal || k.TypeChar() != c {
			t.Errorf("KindFromTypeChar(%c) = %v", c, k)
		}
		if KindFromJavaName(k.String()) != k {
			t.Errorf("KindFromJavaName(%q) mismatch", k.String())
		}
	}
	if KindFromTypeChar('L') != Illegal || KindFromJavaName("Object") != Illegal {
		t.Error("Object is not a primitive kind")
	}
	if !Long.NeedsTwoSlots() || Int.NeedsTwoSlots() {
		t.Error("NeedsTwoSlots mismatch")
	}
	if !Char.IsStackInt() || Long.IsStackInt() || Object.IsStackInt() {
		t.Error("IsStackInt mismatch")
	}
	if !Void.IsPrimitive() || Object.IsPrimitive() {
		t.Error("IsPrimitive mismatch")
	}
}
