package translation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/erp/website/internal/domain/translation"
)

// decodeFirstObject decodes the first JSON object found in reply.
// Models sometimes add prose or code fences around the object.
// Every candidate is decoded into a fresh T.
func decodeFirstObject[T any](reply string) (*T, error) {
	for start := strings.IndexByte(reply, '{'); start >= 0; {
		v := new(T)
		dec := json.NewDecoder(bytes.NewReader([]byte(reply[start:])))
		if err := dec.Decode(v); err == nil {
			return v, nil
		}
		next := strings.IndexByte(reply[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, fmt.Errorf("%w: %q", translation.ErrUnparsableReply, truncate(reply, 200))
}

// number accepts integers, floats and numeric strings
type number float64

// UnmarshalJSON implements json.Unmarshaler
func (n *number) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = number(f)
		return nil
	}
	var s json.Number
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	f, err := s.Float64()
	if err != nil {
		return err
	}
	*n = number(f)
	return nil
}

// int rounds and clamps to 0..100 before converting, so huge values
// never overflow int.
func (n number) int() int {
	f := float64(n)
	if math.IsNaN(f) {
		return 0
	}
	return int(math.Max(0, math.Min(100, math.Round(f))))
}

type scoreReply struct {
	Score  *number  `json:"score"`
	Issues []string `json:"issues"`
}

type analysisReply struct {
	OverallScore *number `json:"overall_score"`
	Accuracy     number  `json:"accuracy"`
	Fluency      number  `json:"fluency"`
	Terminology  number  `json:"terminology"`
	Style        number  `json:"style"`
	Summary      string  `json:"summary"`
	Suggestions  []struct {
		Original   string `json:"original"`
		Suggestion string `json:"suggestion"`
		Reason     string `json:"reason"`
	} `json:"suggestions"`
}

func parseScore(reply string) (*translation.Score, error) {
	r, err := decodeFirstObject[scoreReply](reply)
	if err != nil {
		return nil, err
	}
	if r.Score == nil {
		return nil, fmt.Errorf("%w: reply has no score", translation.ErrUnparsableReply)
	}
	score := r.Score.int()
	issues := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if issue = strings.TrimSpace(issue); issue != "" {
			issues = append(issues, issue)
		}
	}
	return &translation.Score{Score: score, Verdict: translation.VerdictFor(score), Issues: issues}, nil
}

func parseAnalysis(reply string) (*translation.Analysis, error) {
	r, err := decodeFirstObject[analysisReply](reply)
	if err != nil {
		return nil, err
	}
	if r.OverallScore == nil {
		return nil, fmt.Errorf("%w: reply has no overall_score", translation.ErrUnparsableReply)
	}

	a := &translation.Analysis{
		OverallScore: r.OverallScore.int(),
		Accuracy:     r.Accuracy.int(),
		Fluency:      r.Fluency.int(),
		Terminology:  r.Terminology.int(),
		Style:        r.Style.int(),
		Summary:      strings.TrimSpace(r.Summary),
		Suggestions:  make([]translation.Suggestion, 0, len(r.Suggestions)),
	}
	for _, s := range r.Suggestions {
		if s.Suggestion == "" {
			continue
		}
		a.Suggestions = append(a.Suggestions, translation.Suggestion{
			Original:   s.Original,
			Suggestion: s.Suggestion,
			Reason:     s.Reason,
		})
	}
	a.Normalize()
	return a, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
