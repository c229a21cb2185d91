package motorengine

import "testing"

func TestConvertRoundTrip(t *testing.T) {
	// R1: converting A->B->A recovers the original value.
	q := Distance(10, SystemA)
	if err := Convert(&q, SystemB, nil); err != nil {
		t.Fatalf("A->B: %v", err)
	}
	if err := Convert(&q, SystemA, nil); err != nil {
		t.Fatalf("B->A: %v", err)
	}
	if got := q.Value; got < 9.999999 || got > 10.000001 {
		t.Errorf("round trip: got %v, want 10", got)
	}
}

func TestConvertSameUnitNoOp(t *testing.T) {
	q := Velocity(5, SystemC)
	if err := Convert(&q, SystemC, nil); err != nil {
		t.Fatalf("unexpected error converting to same unit: %v", err)
	}
	if q.Value != 5 {
		t.Errorf("value changed on no-op conversion: got %v", q.Value)
	}
}

func TestConvertUnsupportedZeroesAndErrors(t *testing.T) {
	// Velocity B<->C is not populated (§4.1).
	q := Velocity(42, SystemB)
	err := Convert(&q, SystemC, NopLogger())
	if err == nil {
		t.Fatal("expected ConversionError for unsupported velocity B->C")
	}
	if _, ok := err.(*ConversionError); !ok {
		t.Fatalf("expected *ConversionError, got %T", err)
	}
	if q.Value != 0 {
		t.Errorf("expected zeroed value on unsupported conversion, got %v", q.Value)
	}
}

func TestUnitSystemFromString(t *testing.T) {
	cases := map[string]UnitSystem{"A": SystemA, "B": SystemB, "C": SystemC}
	for s, want := range cases {
		got, err := UnitSystemFromString(s)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", s, err)
		}
		if got != want {
			t.Errorf("%q: got %v, want %v", s, got, want)
		}
	}
	if _, err := UnitSystemFromString("Z"); err == nil {
		t.Fatal("expected error for unknown unit system tag")
	} else if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
}

func TestDistanceFullyDefinedBetweenAllSystems(t *testing.T) {
	pairs := []struct{ from, to UnitSystem }{
		{SystemA, SystemB}, {SystemA, SystemC}, {SystemB, SystemC},
		{SystemB, SystemA}, {SystemC, SystemA}, {SystemC, SystemB},
	}
	for _, p := range pairs {
		q := Distance(1, p.from)
		if err := Convert(&q, p.to, nil); err != nil {
			t.Errorf("distance %v->%v should be defined: %v", p.from, p.to, err)
		}
	}
}
