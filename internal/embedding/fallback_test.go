package embedding

import (
	"reflect"
	"testing"
)

func TestFallbackVector_Deterministic(t *testing.T) {
	text := "The checkout flow validates the cart before payment."

	first := FallbackVector(text)
	for i := 0; i < 10; i++ {
		if got := FallbackVector(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("FallbackVector() not deterministic on run %d", i)
		}
	}
}

func TestFallbackVector_Shape(t *testing.T) {
	vec := FallbackVector("some section text")

	if len(vec) != Dimension {
		t.Fatalf("FallbackVector() length = %d, want %d", len(vec), Dimension)
	}
	for i, v := range vec {
		if v < 0 || v > 1 {
			t.Errorf("FallbackVector()[%d] = %v, want value in [0, 1]", i, v)
		}
	}
}

func TestFallbackVector_DistinctTexts(t *testing.T) {
	a := FallbackVector("first section")
	b := FallbackVector("second section")

	if reflect.DeepEqual(a, b) {
		t.Errorf("FallbackVector() produced identical vectors for different texts")
	}
}

func TestFallbackVector_EmptyText(t *testing.T) {
	vec := FallbackVector("")
	if len(vec) != Dimension {
		t.Errorf("FallbackVector(\"\") length = %d, want %d", len(vec), Dimension)
	}
}
