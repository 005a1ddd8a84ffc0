package boomerang

import "testing"

func TestIsValidAccess(t *testing.T) {
	tests := []struct {
		access Access
		want   bool
	}{
		{AccessPublic, true},
		{AccessProtected, true},
		{AccessPrivate, true},
		{"internal", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.access), func(t *testing.T) {
			if got := IsValidAccess(tt.access); got != tt.want {
				t.Errorf("IsValidAccess(%q) = %v, want %v", tt.access, got, tt.want)
			}
		})
	}
}

func TestAccess_Assignable(t *testing.T) {
	if !AccessPublic.Assignable() {
		t.Error("public should be assignable")
	}
	if AccessProtected.Assignable() {
		t.Error("protected should not be assignable")
	}
	if AccessPrivate.Assignable() {
		t.Error("private should not be assignable")
	}
}
