package dynamics

import "testing"

func TestKappaRow_Bounds(t *testing.T) {
	in := newTestInstance(t, 3, nil, 1)
	in.Step(1, 0.1)

	tests := []struct {
		name    string
		row     int
		bufLen  int
		want    int
		written bool
	}{
		{"row equal to N", 3, 3, 0, false},
		{"negative row", -1, 3, 0, false},
		{"short buffer", 0, 2, 2, true},
		{"exact buffer", 1, 3, 3, true},
		{"long buffer", 2, 5, 3, true},
		{"empty buffer", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]float64, tt.bufLen)
			for i := range buf {
				buf[i] = -42
			}
			got := in.KappaRow(tt.row, buf)
			if got != tt.want {
				t.Errorf("KappaRow(%d) = %d, want %d", tt.row, got, tt.want)
			}
			for i, v := range buf {
				touched := v != -42
				if i >= got && touched {
					t.Errorf("buf[%d] written beyond count", i)
				}
				if i < got && !touched {
					t.Errorf("buf[%d] not written", i)
				}
			}
		})
	}
}

func TestSetParams_RoundTrip(t *testing.T) {
	in := newTestInstance(t, 2, nil, 1)
	p := DefaultParams()
	p.G0 = -7
	p.BPath = 3
	in.SetParams(p)
	if in.Params() != p {
		t.Errorf("Params() = %+v, want %+v", in.Params(), p)
	}
}

func TestPolicy_ReturnsCopy(t *testing.T) {
	in := newTestInstance(t, 2, nil, 1)
	pi := in.Policy()
	pi[0] = 9
	if in.Policy()[0] == 9 {
		t.Error("Policy() exposes internal storage")
	}
}

func TestSnapshot_MatchesRows(t *testing.T) {
	in := newTestInstance(t, 3, nil, 12)
	for i := 0; i < 20; i++ {
		in.Step(0.7, 0.1)
	}
	snap := in.Snapshot()
	if snap.N != 3 || snap.Current != in.Current() || snap.Heat != in.Heat() {
		t.Fatalf("snapshot scalars mismatch: %+v", snap)
	}
	row := make([]float64, 3)
	for r := 0; r < 3; r++ {
		in.KappaRow(r, row)
		for c := range row {
			if snap.KappaAt(r, c) != row[c] {
				t.Errorf("snapshot kappa[%d][%d] = %v, row = %v", r, c, snap.KappaAt(r, c), row[c])
			}
		}
	}
}
