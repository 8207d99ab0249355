package lower

import (
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
)

func TestStringTableInternDeduplicatesByContent(t *testing.T) {
	m := ir.NewModule()
	st := newStringTable(m)

	a := st.intern([]byte("hi"))
	b := st.intern([]byte("hi"))
	if a != b {
		t.Error("expected interning the same bytes twice to return the same global")
	}
}

func TestStringTableInternNamesGloballyByOrdinal(t *testing.T) {
	m := ir.NewModule()
	st := newStringTable(m)

	a := st.intern([]byte("hi"))
	b := st.intern([]byte("bye"))
	if a.Name() == b.Name() {
		t.Error("expected distinct content to get distinct global names")
	}
	if a.Name() != ".str.0" {
		t.Errorf("expected the first interned string to be named .str.0, got %q", a.Name())
	}
	if b.Name() != ".str.1" {
		t.Errorf("expected the second interned string to be named .str.1, got %q", b.Name())
	}
}

func TestStringTableInternNulTerminates(t *testing.T) {
	m := ir.NewModule()
	st := newStringTable(m)

	st.intern([]byte("hi"))
	out := m.String()
	// "hi" is 2 bytes; interning must pad one trailing NUL, making the
	// backing array 3 bytes ([3 x i8]).
	if !strings.Contains(out, "[3 x i8]") {
		t.Errorf("expected a 3-byte (NUL-terminated) backing array, got:\n%s", out)
	}
}
