package shared

import "testing"

func TestNormalizeText(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic normalization",
			input: "Song Title",
			want:  "song title",
		},
		{
			name:  "extra whitespace",
			input: "  Song   Title  ",
			want:  "song title",
		},
		{
			name:  "punctuation stripped",
			input: "Song (Radio Edit), Pt. 2!",
			want:  "song radio edit pt 2",
		},
		{
			name:  "mixed case",
			input: "SoNg TiTlE",
			want:  "song title",
		},
		{
			name:  "cyrillic preserved",
			input: "Битва за себя",
			want:  "битва за себя",
		},
		{
			name:  "cjk preserved",
			input: "夜に駆ける (Official)",
			want:  "夜に駆ける official",
		},
		{
			name:  "symbol-only input falls back to lowered input",
			input: "!!! ???",
			want:  "!!! ???",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeText() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		name    string
		seconds int
		want    string
	}{
		{name: "zero", seconds: 0, want: "0:00"},
		{name: "under a minute", seconds: 45, want: "0:45"},
		{name: "pads seconds", seconds: 65, want: "1:05"},
		{name: "long track", seconds: 754, want: "12:34"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.want {
				t.Errorf("FormatDuration(%d) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	if err != nil {
		t.Fatalf("failed to generate state: %v", err)
	}
	b, err := GenerateState()
	if err != nil {
		t.Fatalf("failed to generate state: %v", err)
	}

	if a == b {
		t.Error("expected distinct state values")
	}
	if len(a) != 32 {
		t.Errorf("expected 32 hex characters, got %d", len(a))
	}
}
