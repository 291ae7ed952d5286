package outcome

import "testing"

func TestDrawBoundaryZeroAlwaysLoss(t *testing.T) {
	d := NewSeeded(1)
	for i := 0; i < 1000; i++ {
		if got := d.Draw(0); got != Loss {
			t.Fatalf("draw %d with probability 0 = %q, want loss", i, got)
		}
	}
}

func TestDrawBoundaryOneAlwaysProfit(t *testing.T) {
	d := NewSeeded(1)
	for i := 0; i < 1000; i++ {
		if got := d.Draw(1); got != Profit {
			t.Fatalf("draw %d with probability 1 = %q, want profit", i, got)
		}
	}
}

func TestDrawClampsOutOfRange(t *testing.T) {
	d := NewSeeded(42)
	if got := d.Draw(-0.5); got != Loss {
		t.Fatalf("negative probability = %q, want loss", got)
	}
	if got := d.Draw(1.5); got != Profit {
		t.Fatalf("probability above 1 = %q, want profit", got)
	}
}

func TestDrawSeededIsReproducible(t *testing.T) {
	a := NewSeeded(7)
	b := NewSeeded(7)
	for i := 0; i < 100; i++ {
		if a.Draw(0.5) != b.Draw(0.5) {
			t.Fatalf("seeded deciders diverged at draw %d", i)
		}
	}
}

func TestParse(t *testing.T) {
	if out, ok := Parse(" Profit "); !ok || out != Profit {
		t.Fatalf("Parse(Profit) = %q, %v", out, ok)
	}
	if out, ok := Parse("loss"); !ok || out != Loss {
		t.Fatalf("Parse(loss) = %q, %v", out, ok)
	}
	if _, ok := Parse("draw"); ok {
		t.Fatalf("Parse(draw) accepted unexpectedly")
	}
}

func TestFixed(t *testing.T) {
	if got := Fixed(Loss).Draw(1); got != Loss {
		t.Fatalf("Fixed(loss).Draw = %q, want loss", got)
	}
}
