package validation

import "testing"

func TestRequired(t *testing.T) {
	v := make(Violations)
	Required("name", "Astel", v)
	Required("player", "   ", v)
	Required("login", "", v)
	if v.Empty() {
		t.Fatal("expected violations")
	}
	if _, ok := v["name"]; ok {
		t.Fatal("non-empty value flagged")
	}
	if v["player"] != "required" || v["login"] != "required" {
		t.Fatalf("blank values not flagged: %v", v)
	}
}

func TestIntRange(t *testing.T) {
	v := make(Violations)
	IntRange("vigor", 0, 0, 99, v)
	IntRange("mind", 99, 0, 99, v)
	IntRange("faith", 100, 0, 99, v)
	IntRange("arcane", -1, 0, 99, v)
	if _, ok := v["vigor"]; ok {
		t.Fatal("lower bound flagged")
	}
	if _, ok := v["mind"]; ok {
		t.Fatal("upper bound flagged")
	}
	if v["faith"] != "out_of_range" || v["arcane"] != "out_of_range" {
		t.Fatalf("out-of-range values not flagged: %v", v)
	}
}

func TestOneOf(t *testing.T) {
	v := make(Violations)
	statuses := []string{"Alive", "Defeated"}
	OneOf("status", "Alive", statuses, v)
	if !v.Empty() {
		t.Fatalf("allowed value flagged: %v", v)
	}
	OneOf("status", "Undead", statuses, v)
	if v["status"] != "out_of_range" {
		t.Fatalf("disallowed value not flagged: %v", v)
	}
}
