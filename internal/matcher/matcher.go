// Package matcher scores video search candidates against Spotify tracks.
//
// Scoring combines three weighted components on a 0-100 scale:
//   - Title: token sort ratio between normalized titles
//   - Artist: Jaro-Winkler similarity between artist names
//   - Duration: linear penalty of one point per second of difference
//
// A candidate below the configured threshold is rejected rather than
// downloaded, on the theory that a wrong file in a DJ library costs more
// than a missing one.
package matcher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/log"
	"github.com/russellkim98/RKADE-sync/internal/services"
	"github.com/russellkim98/RKADE-sync/internal/shared"
)

// Matcher scores and ranks candidates using weighted fuzzy matching.
type Matcher struct {
	titleWeight    float64
	artistWeight   float64
	durationWeight float64
	threshold      float64
	logger         *log.Logger
}

// Scored pairs a candidate with its total and component scores.
type Scored struct {
	Candidate     services.Candidate
	Score         float64
	TitleScore    float64
	ArtistScore   float64
	DurationScore float64
}

// NewMatcher creates a Matcher from config weights.
func NewMatcher(cfg shared.MatcherConfig, logger *log.Logger) *Matcher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	m := &Matcher{
		titleWeight:    cfg.TitleWeight,
		artistWeight:   cfg.ArtistWeight,
		durationWeight: cfg.DurationWeight,
		threshold:      cfg.ScoreThreshold,
		logger:         logger,
	}

	if m.titleWeight == 0 && m.artistWeight == 0 && m.durationWeight == 0 {
		m.titleWeight = 0.5
		m.artistWeight = 0.3
		m.durationWeight = 0.2
	}

	return m
}

// ScoreCandidates scores every candidate against the track, sorted by descending score.
func (m *Matcher) ScoreCandidates(track services.Track, candidates []services.Candidate) []Scored {
	spTitle := shared.NormalizeText(track.Title)
	spArtist := shared.NormalizeText(track.Artist)

	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		s := m.score(spTitle, spArtist, track.Duration, c)
		scored = append(scored, s)

		m.logger.Debug("scored candidate",
			"video_id", c.VideoID,
			"title", c.Title,
			"title_score", fmt.Sprintf("%.1f", s.TitleScore),
			"artist_score", fmt.Sprintf("%.1f", s.ArtistScore),
			"duration_score", fmt.Sprintf("%.1f", s.DurationScore),
			"total", fmt.Sprintf("%.1f", s.Score),
		)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

// BestMatch returns the highest scoring candidate at or above the threshold.
//
// Returns [shared.ErrNoMatch] when no candidates exist or the best score
// falls below the threshold.
func (m *Matcher) BestMatch(track services.Track, candidates []services.Candidate) (*Scored, error) {
	scored := m.ScoreCandidates(track, candidates)
	if len(scored) == 0 {
		return nil, fmt.Errorf("%w: no candidates for %s - %s", shared.ErrNoMatch, track.Artist, track.Title)
	}

	best := scored[0]
	if best.Score < m.threshold {
		return nil, fmt.Errorf("%w: best score %.1f below threshold %.1f for %s - %s",
			shared.ErrNoMatch, best.Score, m.threshold, track.Artist, track.Title)
	}

	m.logger.Info("selected match",
		"track", track.Title,
		"video_id", best.Candidate.VideoID,
		"score", fmt.Sprintf("%.1f", best.Score),
	)

	return &best, nil
}

// Threshold returns the configured acceptance threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

func (m *Matcher) score(spTitle, spArtist string, spDuration int, c services.Candidate) Scored {
	// Video titles usually read "Artist - Title (Official Audio)". Splitting
	// gives a second shot at both components; the better score wins.
	splitArtist, splitTitle := splitVideoTitle(c.Title)

	fullTitle := shared.NormalizeText(c.Title)
	titleScore := tokenSortRatio(spTitle, fullTitle)
	if splitTitle != "" {
		if s := tokenSortRatio(spTitle, shared.NormalizeText(splitTitle)); s > titleScore {
			titleScore = s
		}
	}

	artistScore := jaroWinkler(spArtist, shared.NormalizeText(c.Uploader)) * 100
	if splitArtist != "" {
		if s := jaroWinkler(spArtist, shared.NormalizeText(splitArtist)) * 100; s > artistScore {
			artistScore = s
		}
	}

	durationScore := 100.0 - float64(abs(spDuration-c.Duration))
	if durationScore < 0 {
		durationScore = 0
	}

	total := titleScore*m.titleWeight + artistScore*m.artistWeight + durationScore*m.durationWeight

	return Scored{
		Candidate:     c,
		Score:         total,
		TitleScore:    titleScore,
		ArtistScore:   artistScore,
		DurationScore: durationScore,
	}
}

// splitVideoTitle splits "Artist - Title" style video titles.
func splitVideoTitle(title string) (artist, track string) {
	for _, sep := range []string{" - ", " – ", " — "} {
		if idx := strings.Index(title, sep); idx > 0 {
			return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+len(sep):])
		}
	}
	return "", ""
}

// tokenSortRatio computes a 0-100 similarity after sorting each string's tokens.
//
// Token sorting makes "Deep Cut DJ Example" and "DJ Example Deep Cut" equal.
func tokenSortRatio(a, b string) float64 {
	return ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// ratio computes a 0-100 similarity from Levenshtein distance.
func ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	dist := levenshtein.ComputeDistance(a, b)
	longest := max(len([]rune(a)), len([]rune(b)))
	return (1 - float64(dist)/float64(longest)) * 100
}

// jaroWinkler computes Jaro-Winkler similarity in [0, 1].
func jaroWinkler(a, b string) float64 {
	j := jaro(a, b)
	if j == 0 {
		return 0
	}

	// Common prefix bonus, capped at 4 characters.
	prefix := 0
	for i := 0; i < len(a) && i < len(b) && i < 4; i++ {
		if a[i] != b[i] {
			break
		}
		prefix++
	}

	const scaling = 0.1
	return j + float64(prefix)*scaling*(1-j)
}

func jaro(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)

	if la == 0 && lb == 0 {
		return 1
	}
	if la == 0 || lb == 0 {
		return 0
	}

	window := max(la, lb)/2 - 1
	if window < 0 {
		window = 0
	}

	aMatched := make([]bool, la)
	bMatched := make([]bool, lb)

	matches := 0
	for i := range ra {
		lo := max(0, i-window)
		hi := min(lb-1, i+window)
		for j := lo; j <= hi; j++ {
			if bMatched[j] || ra[i] != rb[j] {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	transpositions := 0
	j := 0
	for i := range ra {
		if !aMatched[i] {
			continue
		}
		for !bMatched[j] {
			j++
		}
		if ra[i] != rb[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	t := float64(transpositions) / 2
	return (m/float64(la) + m/float64(lb) + (m-t)/m) / 3
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
