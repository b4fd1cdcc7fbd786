package validate

import (
	"strings"
	"testing"
)

type sample struct {
	Mode  string   `validate:"required,oneof=INCLUSIVE EXCLUSIVE"`
	Names []string `validate:"required,min=1"`
	Size  int      `validate:"gte=1,lte=50"`
}

func TestStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		if err := Struct(sample{Mode: "INCLUSIVE", Names: []string{"a"}, Size: 50}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		err := Struct(sample{Mode: "SOMETIMES", Size: 51})
		if err == nil {
			t.Fatal("expected error")
		}
		for _, want := range []string{"sample.Mode: must be one of", "sample.Names: required", "sample.Size: must be at most 50"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error %q missing %q", err, want)
			}
		}
	})
}

func TestVar(t *testing.T) {
	if err := Var("12345", "numeric"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Var("12a45", "numeric"); err == nil {
		t.Error("expected error for non-numeric value")
	}
}
