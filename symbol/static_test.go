package symbol

import "testing"

func expectGuarantee(t *testing.T, what string, fn func()) {
	t.Helper()
	defer func() {
		if _, ok := recover().(*GuaranteeViolation); !ok {
			t.Errorf("%s: expected a guarantee violation", what)
		}
	}()
	fn()
}

func TestStaticSymbolsPut(t *testing.T) {
	st := NewStaticSymbols()
	initName := st.PutName("<init>")
	intType := st.PutType("I")
	voidType := st.PutType("V")
	sig := st.PutSignature(voidType, intType, intType)

	if sig.String() != "(II)V" {
		t.Errorf("signature = %q, want (II)V", sig.String())
	}
	if st.PutName("<init>") != initName {
		t.Error("PutName should be idempotent")
	}

	set := st.Freeze()
	if set.Len() != 4 {
		t.Errorf("frozen set has %d symbols, want 4", set.Len())
	}
	for _, sym := range []*Symbol[Descriptor]{initName.AsDescriptor(), intType.AsDescriptor(), voidType.AsDescriptor(), sig.AsDescriptor()} {
		if !set.Contains(sym) {
			t.Errorf("frozen set is missing %q", sym.String())
		}
	}
	if !st.IsFrozen() {
		t.Error("IsFrozen should be true after Freeze")
	}

	all := set.All()
	all[0] = nil
	if set.All()[0] == nil {
		t.Error("All should return a copy of the slice")
	}
}

func TestStaticSymbolsGuarantees(t *testing.T) {
	st := NewStaticSymbols()
	intType := st.PutType("I")

	expectGuarantee(t, "empty name", func() { st.PutName("") })
	expectGuarantee(t, "invalid type", func() { st.PutType("Ljava/lang/String") })
	expectGuarantee(t, "void parameter", func() { st.PutSignature(intType, st.PutType("V")) })

	st.Freeze()
	expectGuarantee(t, "put after freeze", func() { st.PutName("late") })
	expectGuarantee(t, "type after freeze", func() { st.PutType("J") })
	expectGuarantee(t, "double freeze", func() { st.Freeze() })
}

func TestBuildSignature(t *testing.T) {
	s := NewSymbols(nil)
	obj := As[Type](s.GetOrCreateString("Ljava/lang/Object;", true))
	j := As[Type](s.GetOrCreateString("J", true))
	v := As[Type](s.GetOrCreateString("V", true))

	if got := BuildSignature(v).String(); got != "()V" {
		t.Errorf("BuildSignature() = %q", got)
	}
	if got := BuildSignature(obj, j, obj).String(); got != "(JLjava/lang/Object;)Ljava/lang/Object;" {
		t.Errorf("BuildSignature(J, Object) = %q", got)
	}
}
