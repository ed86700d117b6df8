package scoring

import "testing"

func TestCompetitivenessBucket_Coverage(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"zero", 0.0, "Nascent"},
		{"just below emerging", 0.19, "Nascent"},
		{"emerging boundary", 0.20, "Emerging"},
		{"growing boundary", 0.40, "Growing"},
		{"established boundary", 0.60, "Established"},
		{"dominant boundary", 0.80, "Dominant"},
		{"max", 1.0, "Dominant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompetitivenessBucket(tt.score)
			if got != tt.want {
				t.Errorf("CompetitivenessBucket(%.2f) = %q, want %q", tt.score, got, tt.want)
			}
		})
	}
}

func TestCompetitiveness_WeightedFormula(t *testing.T) {
	got := Competitiveness(0.8, 0.6, 0.4)
	// 0.40*0.8 + 0.35*0.6 + 0.25*0.4 = 0.32 + 0.21 + 0.10 = 0.63
	if !almostEqual(got, 0.63, 0.001) {
		t.Errorf("Competitiveness(0.8, 0.6, 0.4) = %.4f, want 0.6300", got)
	}
}

func TestCompetitiveness_Clamped(t *testing.T) {
	got := Competitiveness(1.5, 1.5, 1.5)
	if got != 1.0 {
		t.Errorf("Competitiveness with over-range inputs = %.4f, want clamped 1.0000", got)
	}
}
