package domain

import "testing"

func TestDepartmentEnumerationIsClosed(t *testing.T) {
	departments := Departments()
	if len(departments) != 7 {
		t.Fatalf("expected 7 departments, got %d", len(departments))
	}
	for _, d := range departments {
		if !ValidDepartment(d.Code) {
			t.Fatalf("enumerated department %s not valid", d.Code)
		}
		if d.Name == "" {
			t.Fatalf("department %s has no display name", d.Code)
		}
	}
	if ValidDepartment("WATERBOARD") {
		t.Fatal("unknown code accepted")
	}
	if ValidDepartment("") {
		t.Fatal("empty code accepted")
	}
}

func TestDepartmentName(t *testing.T) {
	if got := DepartmentName(DepartmentBBMP); got != "BBMP (Municipal Corporation)" {
		t.Fatalf("unexpected display name: %s", got)
	}
	// Unknown codes fall back to the code itself.
	if got := DepartmentName("X"); got != "X" {
		t.Fatalf("unexpected fallback: %s", got)
	}
}
