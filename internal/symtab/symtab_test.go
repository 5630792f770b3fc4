package symtab_test

import (
	"errors"
	"testing"

	"github.com/dkrasner/m24asm/internal/symtab"
)

func TestInsertDuplicate(t *testing.T) {
	var tab symtab.Table

	if err := tab.Insert("X", 100, symtab.Code); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	err := tab.Insert("X", 101, symtab.Data)
	if !errors.Is(err, symtab.ErrDuplicateName) {
		t.Fatalf("Insert duplicate: got %v, want ErrDuplicateName", err)
	}
}

func TestFindKind(t *testing.T) {
	var tab symtab.Table

	_ = tab.Insert("A", 100, symtab.Code)

	if _, ok := tab.FindKind("A", symtab.Data); ok {
		t.Error("FindKind matched wrong kind")
	}

	if e, ok := tab.FindKind("A", symtab.Code); !ok || e.Address != 100 {
		t.Errorf("FindKind = %+v, %t", e, ok)
	}
}

func TestAppendReferenceCoexistsWithDeclaration(t *testing.T) {
	var tab symtab.Table

	_ = tab.Insert("K", 0, symtab.Extern)
	tab.AppendReference("K", 101)
	tab.AppendReference("K", 104)

	if tab.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tab.Len())
	}

	decl, _ := tab.Find("K")
	if decl.Address != 0 {
		t.Errorf("declaration address = %d, want 0", decl.Address)
	}

	var refs []int
	for _, e := range tab.Entries() {
		if e.Name == "K" && e.Address != 0 {
			refs = append(refs, e.Address)
		}
	}

	if len(refs) != 2 || refs[0] != 101 || refs[1] != 104 {
		t.Errorf("reference addresses = %v, want [101 104]", refs)
	}
}

func TestPromoteToEntry(t *testing.T) {
	var tab symtab.Table

	_ = tab.Insert("A", 100, symtab.Code)

	if err := tab.PromoteToEntry("A"); err != nil {
		t.Fatalf("promote: %s", err)
	}

	e, _ := tab.Find("A")
	if e.Kind != symtab.Entry {
		t.Errorf("kind = %v, want Entry", e.Kind)
	}

	// Idempotent.
	if err := tab.PromoteToEntry("A"); err != nil {
		t.Errorf("second promote: %s", err)
	}
}

func TestPromoteUndefined(t *testing.T) {
	var tab symtab.Table

	err := tab.PromoteToEntry("NOPE")
	if !errors.Is(err, symtab.ErrUndefined) {
		t.Errorf("got %v, want ErrUndefined", err)
	}
}

func TestPromoteExternConflict(t *testing.T) {
	var tab symtab.Table

	_ = tab.Insert("K", 0, symtab.Extern)

	err := tab.PromoteToEntry("K")
	if !errors.Is(err, symtab.ErrAlreadyExtern) {
		t.Errorf("got %v, want ErrAlreadyExtern", err)
	}
}

func TestRebaseData(t *testing.T) {
	var tab symtab.Table

	_ = tab.Insert("X", 0, symtab.Data)
	_ = tab.Insert("MAIN", 100, symtab.Code)

	tab.RebaseData(103)

	x, _ := tab.Find("X")
	if x.Address != 103 {
		t.Errorf("X address = %d, want 103", x.Address)
	}

	main, _ := tab.Find("MAIN")
	if main.Address != 100 {
		t.Errorf("MAIN address = %d, want unchanged 100", main.Address)
	}
}
