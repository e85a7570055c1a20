package matcher

import (
	"errors"
	"testing"

	"github.com/russellkim98/RKADE-sync/internal/services"
	"github.com/russellkim98/RKADE-sync/internal/shared"
)

func defaultMatcher() *Matcher {
	return NewMatcher(shared.MatcherConfig{
		TitleWeight:    0.5,
		ArtistWeight:   0.3,
		DurationWeight: 0.2,
		ScoreThreshold: 40.0,
	}, nil)
}

func TestScoreCandidates(t *testing.T) {
	m := defaultMatcher()

	track := services.Track{
		Title:    "Deep Cut",
		Artist:   "DJ Example",
		Duration: 215,
	}

	t.Run("exact match on split title wins", func(t *testing.T) {
		candidates := []services.Candidate{
			{VideoID: "wrong", Title: "Completely Different Song", Uploader: "Someone Else", Duration: 120},
			{VideoID: "right", Title: "DJ Example - Deep Cut (Official Audio)", Uploader: "DJ Example", Duration: 215},
		}

		scored := m.ScoreCandidates(track, candidates)
		if len(scored) != 2 {
			t.Fatalf("expected 2 scored candidates, got %d", len(scored))
		}

		if scored[0].Candidate.VideoID != "right" {
			t.Errorf("expected 'right' ranked first, got %s", scored[0].Candidate.VideoID)
		}
		if scored[0].Score <= scored[1].Score {
			t.Error("expected descending score order")
		}
		if scored[0].DurationScore != 100 {
			t.Errorf("expected perfect duration score, got %f", scored[0].DurationScore)
		}
	})

	t.Run("duration penalty", func(t *testing.T) {
		candidates := []services.Candidate{
			{VideoID: "long", Title: "DJ Example - Deep Cut", Uploader: "DJ Example", Duration: 215 + 30},
		}

		scored := m.ScoreCandidates(track, candidates)
		if scored[0].DurationScore != 70 {
			t.Errorf("expected duration score 70 for 30s difference, got %f", scored[0].DurationScore)
		}
	})

	t.Run("duration floor at zero", func(t *testing.T) {
		candidates := []services.Candidate{
			{VideoID: "extended", Title: "DJ Example - Deep Cut (Extended Mix)", Uploader: "DJ Example", Duration: 215 + 300},
		}

		scored := m.ScoreCandidates(track, candidates)
		if scored[0].DurationScore != 0 {
			t.Errorf("expected duration score 0, got %f", scored[0].DurationScore)
		}
	})

	t.Run("token order does not matter", func(t *testing.T) {
		reordered := services.Track{Title: "Cut Deep", Artist: "DJ Example", Duration: 215}
		candidates := []services.Candidate{
			{VideoID: "v", Title: "Deep Cut", Uploader: "DJ Example", Duration: 215},
		}

		scored := m.ScoreCandidates(reordered, candidates)
		if scored[0].TitleScore != 100 {
			t.Errorf("expected title score 100 for reordered tokens, got %f", scored[0].TitleScore)
		}
	})
}

func TestBestMatch(t *testing.T) {
	m := defaultMatcher()

	track := services.Track{
		Title:    "Deep Cut",
		Artist:   "DJ Example",
		Duration: 215,
	}

	t.Run("accepts strong match", func(t *testing.T) {
		candidates := []services.Candidate{
			{VideoID: "vid001", Title: "DJ Example - Deep Cut", Uploader: "DJ Example", Duration: 214},
		}

		best, err := m.BestMatch(track, candidates)
		if err != nil {
			t.Fatalf("expected match, got error: %v", err)
		}
		if best.Candidate.VideoID != "vid001" {
			t.Errorf("expected vid001, got %s", best.Candidate.VideoID)
		}
		if best.Score < m.Threshold() {
			t.Errorf("accepted score %f below threshold %f", best.Score, m.Threshold())
		}
	})

	t.Run("rejects weak match", func(t *testing.T) {
		candidates := []services.Candidate{
			{VideoID: "vid999", Title: "Unrelated Podcast Episode 47", Uploader: "Talk Show", Duration: 3600},
		}

		_, err := m.BestMatch(track, candidates)
		if !errors.Is(err, shared.ErrNoMatch) {
			t.Errorf("expected no match error, got %v", err)
		}
	})

	t.Run("rejects unrelated candidate for non-latin track", func(t *testing.T) {
		cyrillic := services.Track{Title: "Битва за себя", Artist: "Земфира", Duration: 215}
		candidates := []services.Candidate{
			{VideoID: "wrong1", Title: "完全不同的歌曲", Uploader: "無関係なチャンネル", Duration: 215},
		}

		_, err := m.BestMatch(cyrillic, candidates)
		if !errors.Is(err, shared.ErrNoMatch) {
			t.Errorf("expected no match error for unrelated non-latin candidate, got %v", err)
		}
	})

	t.Run("accepts matching cyrillic candidate", func(t *testing.T) {
		cyrillic := services.Track{Title: "Битва за себя", Artist: "Земфира", Duration: 215}
		candidates := []services.Candidate{
			{VideoID: "wrong1", Title: "完全不同的歌曲", Uploader: "無関係なチャンネル", Duration: 215},
			{VideoID: "right1", Title: "Земфира - Битва за себя", Uploader: "Земфира", Duration: 214},
		}

		best, err := m.BestMatch(cyrillic, candidates)
		if err != nil {
			t.Fatalf("expected match, got error: %v", err)
		}
		if best.Candidate.VideoID != "right1" {
			t.Errorf("expected right1, got %s", best.Candidate.VideoID)
		}
	})

	t.Run("rejects empty candidate list", func(t *testing.T) {
		_, err := m.BestMatch(track, nil)
		if !errors.Is(err, shared.ErrNoMatch) {
			t.Errorf("expected no match error, got %v", err)
		}
	})
}

func TestTokenSortRatio(t *testing.T) {
	tc := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "deep cut", b: "deep cut", want: 100},
		{name: "reordered tokens", a: "deep cut", b: "cut deep", want: 100},
		{name: "both empty", a: "", b: "", want: 100},
		{name: "one empty", a: "deep cut", b: "", want: 0},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenSortRatio(tt.a, tt.b); got != tt.want {
				t.Errorf("tokenSortRatio(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}

	t.Run("partial overlap scores between 0 and 100", func(t *testing.T) {
		got := tokenSortRatio("deep cut", "deep cuts")
		if got <= 0 || got >= 100 {
			t.Errorf("expected partial score, got %f", got)
		}
	})
}

func TestJaroWinkler(t *testing.T) {
	t.Run("identical strings", func(t *testing.T) {
		if got := jaroWinkler("djexample", "djexample"); got != 1 {
			t.Errorf("expected 1.0, got %f", got)
		}
	})

	t.Run("no similarity", func(t *testing.T) {
		if got := jaroWinkler("abc", "xyz"); got != 0 {
			t.Errorf("expected 0, got %f", got)
		}
	})

	t.Run("prefix boost", func(t *testing.T) {
		withPrefix := jaroWinkler("martha", "marhta")
		if withPrefix <= 0.9 {
			t.Errorf("expected Jaro-Winkler boost for shared prefix, got %f", withPrefix)
		}
	})

	t.Run("empty strings", func(t *testing.T) {
		if got := jaroWinkler("", ""); got != 1 {
			t.Errorf("expected 1.0 for two empty strings, got %f", got)
		}
		if got := jaroWinkler("abc", ""); got != 0 {
			t.Errorf("expected 0 for one empty string, got %f", got)
		}
	})
}

func TestSplitVideoTitle(t *testing.T) {
	tc := []struct {
		name       string
		title      string
		wantArtist string
		wantTrack  string
	}{
		{name: "hyphen separator", title: "DJ Example - Deep Cut", wantArtist: "DJ Example", wantTrack: "Deep Cut"},
		{name: "en dash", title: "DJ Example – Deep Cut", wantArtist: "DJ Example", wantTrack: "Deep Cut"},
		{name: "no separator", title: "Deep Cut Official Audio", wantArtist: "", wantTrack: ""},
		{name: "suffix preserved", title: "DJ Example - Deep Cut (Official Audio)", wantArtist: "DJ Example", wantTrack: "Deep Cut (Official Audio)"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			artist, track := splitVideoTitle(tt.title)
			if artist != tt.wantArtist || track != tt.wantTrack {
				t.Errorf("splitVideoTitle(%q) = (%q, %q), want (%q, %q)", tt.title, artist, track, tt.wantArtist, tt.wantTrack)
			}
		})
	}
}
