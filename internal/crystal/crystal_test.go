package crystal

import "testing"

func TestParse_RoundTrip(t *testing.T) {
	for _, c := range All() {
		got, err := Parse(c.String())
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", c.String(), err)
		}
		if got != c {
			t.Errorf("Parse(%q) = %v, expected %v", c.String(), got, c)
		}
	}
}

func TestParse_Unknown(t *testing.T) {
	if _, err := Parse("orange"); err == nil {
		t.Error("Expected error for unknown crystal name")
	}
}

func TestAll_Order(t *testing.T) {
	all := All()
	if len(all) != Count {
		t.Fatalf("Expected %d types, got %d", Count, len(all))
	}
	for i, c := range all {
		if c.Index() != i {
			t.Errorf("Type %v has index %d, expected %d", c, c.Index(), i)
		}
	}
	if TileCount != Count*Copies {
		t.Errorf("TileCount %d does not hold %d copies of %d types", TileCount, Copies, Count)
	}
}

func TestString_Invalid(t *testing.T) {
	if Type(9).Valid() {
		t.Error("Type(9) should not be valid")
	}
	if Type(9).String() != "crystal(9)" {
		t.Errorf("Unexpected string for invalid type: %s", Type(9).String())
	}
}
