package flames

import "testing"

func TestSampleLog(t *testing.T) {
	var a, b SampleLog
	a.log(Landed)
	a.log(Landed)
	b.log(NonFinite)
	b.log(OutOfGrid)
	a.merge(&b)
	if a.Total() != 4 || a[Landed] != 2 {
		t.Fatalf("unexpected counts: %v", a)
	}
	if s := a.String(); s != "landed=2 out_of_grid=1 non_finite=1" {
		t.Fatalf("String() = %q", s)
	}
	if Outcome(9).String() != "outcome(9)" {
		t.Fatal("unknown outcome name")
	}
}
