package models

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		raw   string
		role  Role
		valid bool
	}{
		{"admin", RoleAdmin, true},
		{" Trainer ", RoleTrainer, true},
		{"STUDENT", RoleStudent, true},
		{"", RoleStudent, true},
		{"superuser", RoleStudent, false},
	}
	for _, testCase := range cases {
		role, valid := ParseRole(testCase.raw)
		if role != testCase.role || valid != testCase.valid {
			t.Fatalf("ParseRole(%q) = (%q, %v), expected (%q, %v)",
				testCase.raw, role, valid, testCase.role, testCase.valid)
		}
	}
}

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleTrainer, RoleStudent} {
		if !role.Valid() {
			t.Fatalf("expected %q to be valid", role)
		}
	}
	if Role("ghost").Valid() {
		t.Fatal("expected unknown role to be invalid")
	}
}
