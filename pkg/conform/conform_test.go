package conform

import "testing"

func TestRunNoMismatches(t *testing.T) {
	p := NewPool(2)
	mismatches := p.Run()
	for _, m := range mismatches {
		t.Errorf("opcode %#02x vector %d: %s: %s got %d, want %d",
			m.Op, m.Vector, m.Kind, m.Comment, m.Got, m.Want)
	}
}

func TestStatsAccumulate(t *testing.T) {
	p := NewPool(1)
	p.Run()
	checked, _ := p.Stats()
	want := int64(256 * len(Vectors))
	if checked != want {
		t.Errorf("checked: got %d, want %d", checked, want)
	}
}
