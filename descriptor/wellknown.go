package descriptor

import (
	"github.com/chazu/javelin/symbol"
)

// ---------------------------------------------------------------------------
// Well-known symbols
// ---------------------------------------------------------------------------

// KnownNames are names every runtime needs.
type KnownNames struct {
	Init        *NameSymbol // <init>
	Clinit      *NameSymbol // <clinit>
	Main        *NameSymbol
	Value       *NameSymbol
	HashCode    *NameSymbol
	Equals      *NameSymbol
	ToString    *NameSymbol
	Finalize    *NameSymbol
	Invoke      *NameSymbol
	InvokeExact *NameSymbol
	LoadClass   *NameSymbol

	// attribute names
	Code               *NameSymbol
	ConstantValue      *NameSymbol
	Exceptions         *NameSymbol
	Signature          *NameSymbol
	SourceFile         *NameSymbol
	InnerClasses       *NameSymbol
	LineNumberTable    *NameSymbol
	LocalVariableTable *NameSymbol
	StackMapTable      *NameSymbol
	BootstrapMethods   *NameSymbol
}

// KnownTypes are the primitive types and the core java/lang types.
type KnownTypes struct {
	Boolean *TypeSymbol
	Byte    *TypeSymbol
	Short   *TypeSymbol
	Char    *TypeSymbol
	Int     *TypeSymbol
	Float   *TypeSymbol
	Long    *TypeSymbol
	Double  *TypeSymbol
	Void    *TypeSymbol

	Object       *TypeSymbol
	String       *TypeSymbol
	Class        *TypeSymbol
	Throwable    *TypeSymbol
	Cloneable    *TypeSymbol
	Serializable *TypeSymbol
	ClassLoader  *TypeSymbol
	Thread       *TypeSymbol
	Enum         *TypeSymbol
	Record       *TypeSymbol
	MethodHandle *TypeSymbol
	MethodType   *TypeSymbol
	VarHandle    *TypeSymbol

	ObjectArray *TypeSymbol
	StringArray *TypeSymbol

	primitives [Void + 1]*TypeSymbol
}

// ForPrimitive returns the type of a primitive or void kind.
func (t *KnownTypes) ForPrimitive(kind JavaKind) *TypeSymbol {
	symbol.Guaranteef(kind.IsPrimitive(), "%v is not a primitive kind", kind)
	return t.primitives[kind]
}

// KnownSignatures are common method descriptors.
type KnownSignatures struct {
	Void              *SignatureSymbol // ()V
	Int               *SignatureSymbol // ()I
	Boolean           *SignatureSymbol // ()Z
	Object            *SignatureSymbol // ()Ljava/lang/Object;
	String            *SignatureSymbol // ()Ljava/lang/String;
	BooleanObject     *SignatureSymbol // (Ljava/lang/Object;)Z
	VoidObject        *SignatureSymbol // (Ljava/lang/Object;)V
	VoidString        *SignatureSymbol // (Ljava/lang/String;)V
	VoidInt           *SignatureSymbol // (I)V
	VoidStringArray   *SignatureSymbol // ([Ljava/lang/String;)V
	ClassString       *SignatureSymbol // (Ljava/lang/String;)Ljava/lang/Class;
	ObjectObjectArray *SignatureSymbol // ([Ljava/lang/Object;)Ljava/lang/Object;
}

// Bootstrap is the frozen set of built-in symbols. Build it once at startup
// with NewBootstrap and hand it to every NewTable.
type Bootstrap struct {
	Name      *KnownNames
	Type      *KnownTypes
	Signature *KnownSignatures

	frozen *symbol.SymbolSet
}

// NewBootstrap registers the well-known symbols into a fresh StaticSymbols
// table and freezes it.
func NewBootstrap() *Bootstrap {
	return NewBootstrapWith(nil)
}

// NewBootstrapWith is NewBootstrap with a hook to register extra static
// symbols before the table is frozen.
func NewBootstrapWith(extra func(*symbol.StaticSymbols)) *Bootstrap {
	st := symbol.NewStaticSymbols()
	b := &Bootstrap{
		Name: registerNames(st),
		Type: registerTypes(st),
	}
	b.Signature = registerSignatures(st, b.Type)
	if extra != nil {
		extra(st)
	}
	b.frozen = st.Freeze()
	return b
}

// Symbols returns the frozen set used to seed runtime engines.
func (b *Bootstrap) Symbols() *symbol.SymbolSet {
	return b.frozen
}

func registerNames(st *symbol.StaticSymbols) *KnownNames {
	return &KnownNames{
		Init:        st.PutName("<init>"),
		Clinit:      st.PutName("<clinit>"),
		Main:        st.PutName("main"),
		Value:       st.PutName("value"),
		HashCode:    st.PutName("hashCode"),
		Equals:      st.PutName("equals"),
		ToString:    st.PutName("toString"),
		Finalize:    st.PutName("finalize"),
		Invoke:      st.PutName("invoke"),
		InvokeExact: st.PutName("invokeExact"),
		LoadClass:   st.PutName("loadClass"),

		Code:               st.PutName("Code"),
		ConstantValue:      st.PutName("ConstantValue"),
		Exceptions:         st.PutName("Exceptions"),
		Signature:          st.PutName("Signature"),
		SourceFile:         st.PutName("SourceFile"),
		InnerClasses:       st.PutName("InnerClasses"),
		LineNumberTable:    st.PutName("LineNumberTable"),
		LocalVariableTable: st.PutName("LocalVariableTable"),
		StackMapTable:      st.PutName("StackMapTable"),
		BootstrapMethods:   st.PutName("BootstrapMethods"),
	}
}

func registerTypes(st *symbol.StaticSymbols) *KnownTypes {
	t := &KnownTypes{
		Boolean: st.PutType("Z"),
		Byte:    st.PutType("B"),
		Short:   st.PutType("S"),
		Char:    st.PutType("C"),
		Int:     st.PutType("I"),
		Float:   st.PutType("F"),
		Long:    st.PutType("J"),
		Double:  st.PutType("D"),
		Void:    st.PutType("V"),

		Object:       st.PutType("Ljava/lang/Object;"),
		String:       st.PutType("Ljava/lang/String;"),
		Class:        st.PutType("Ljava/lang/Class;"),
		Throwable:    st.PutType("Ljava/lang/Throwable;"),
		Cloneable:    st.PutType("Ljava/lang/Cloneable;"),
		Serializable: st.PutType("Ljava/io/Serializable;"),
		ClassLoader:  st.PutType("Ljava/lang/ClassLoader;"),
		Thread:       st.PutType("Ljava/lang/Thread;"),
		Enum:         st.PutType("Ljava/lang/Enum;"),
		Record:       st.PutType("Ljava/lang/Record;"),
		MethodHandle: st.PutType("Ljava/lang/invoke/MethodHandle;"),
		MethodType:   st.PutType("Ljava/lang/invoke/MethodType;"),
		VarHandle:    st.PutType("Ljava/lang/invoke/VarHandle;"),

		ObjectArray: st.PutType("[Ljava/lang/Object;"),
		StringArray: st.PutType("[Ljava/lang/String;"),
	}
	t.primitives = [Void + 1]*TypeSymbol{
		Boolean: t.Boolean,
		Byte:    t.Byte,
		Short:   t.Short,
		Char:    t.Char,
		Int:     t.Int,
		Float:   t.Float,
		Long:    t.Long,
		Double:  t.Double,
		Void:    t.Void,
	}
	return t
}

func registerSignatures(st *symbol.StaticSymbols, t *KnownTypes) *KnownSignatures {
	return &KnownSignatures{
		Void:              st.PutSignature(t.Void),
		Int:               st.PutSignature(t.Int),
		Boolean:           st.PutSignature(t.Boolean),
		Object:            st.PutSignature(t.Object),
		String:            st.PutSignature(t.String),
		BooleanObject:     st.PutSignature(t.Boolean, t.Object),
		VoidObject:        st.PutSignature(t.Void, t.Object),
		VoidString:        st.PutSignature(t.Void, t.String),
		VoidInt:           st.PutSignature(t.Void, t.Int),
		VoidStringArray:   st.PutSignature(t.Void, t.StringArray),
		ClassString:       st.PutSignature(t.Class, t.String),
		ObjectObjectArray: st.PutSignature(t.Object, t.ObjectArray),
	}
}
