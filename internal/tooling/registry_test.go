package tooling

import (
	"reflect"
	"strings"
	"testing"

	"bullhorn/internal/domain"
)

func def(name string) domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        name,
		Description: "test tool",
		InputSchema: domain.InputSchema{
			Type: "object",
			Properties: map[string]domain.Property{
				"arg": {Type: "string", Description: "an argument"},
			},
			Required: []string{"arg"},
		},
	}
}

// =============================================================================
// Registration
// =============================================================================

func TestRegister_ShouldRejectEmptyName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(def("")); err == nil {
		t.Error("Expected error for empty tool name")
	}
}

func TestRegister_ShouldRejectDuplicateName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(def("alpha")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	err := r.Register(def("alpha"))
	if err == nil {
		t.Fatal("Expected error for duplicate tool name")
	}
	if !strings.Contains(err.Error(), "alpha") {
		t.Errorf("Expected offending name in error, got %q", err.Error())
	}
}

func TestGet_ShouldReturnRegisteredDescriptor(t *testing.T) {
	r := NewRegistry()
	want := def("alpha")
	if err := r.Register(want); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got, ok := r.Get("alpha")
	if !ok {
		t.Fatal("Expected descriptor to be found")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Expected lookup miss for unregistered name")
	}
}

// =============================================================================
// Ordering
// =============================================================================

func TestDefinitions_ShouldPreserveRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"charlie", "alpha", "bravo"} {
		if err := r.Register(def(name)); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	want := []string{"charlie", "alpha", "bravo"}
	if !reflect.DeepEqual(r.Names(), want) {
		t.Errorf("Expected %v, got %v", want, r.Names())
	}
	// Stable across calls.
	first := r.Names()
	second := r.Names()
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical order on repeated calls")
	}
}

func TestDefinitions_ShouldReturnIndependentCopy(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(def("alpha")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	defs := r.Definitions()
	defs[0].Name = "mutated"

	got, _ := r.Get("alpha")
	if got.Name != "alpha" {
		t.Error("Mutating the returned slice must not affect the registry")
	}
}
