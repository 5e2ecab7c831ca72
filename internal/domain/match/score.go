package match

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var ErrNoTeamTokens = errors.New("at least one team token is required")

// DefaultTeamTokens lists the club's squad designations, most specific first.
var DefaultTeamTokens = []string{"CPRA", "CPR"}

// ParsedScore is what a match description yields.
type ParsedScore struct {
	Team          string
	TeamScore     int
	OpponentScore int
	Opponent      string
}

// ScoreParser reads "<TOKEN> <n>v<m> <opponent>" descriptions.
type ScoreParser struct {
	tokens   []string
	patterns []*regexp.Regexp
	prefix   *regexp.Regexp
}

// NewScoreParser compiles one pattern per token. Tokens are tried in the
// given order and the last token is the fallback team.
func NewScoreParser(tokens []string) (*ScoreParser, error) {
	cleaned := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token = strings.TrimSpace(token); token != "" {
			cleaned = append(cleaned, token)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrNoTeamTokens
	}

	p := &ScoreParser{tokens: cleaned}
	quoted := make([]string, 0, len(cleaned))
	for _, token := range cleaned {
		q := regexp.QuoteMeta(token)
		quoted = append(quoted, q)
		p.patterns = append(p.patterns, regexp.MustCompile(`(?i)`+q+`\s+(\d+)v(\d+)\s+(.+)`))
	}
	p.prefix = regexp.MustCompile(`(?i)^(?:` + strings.Join(quoted, "|") + `)\s+`)

	return p, nil
}

// Tokens returns the configured team tokens in match order.
func (p *ScoreParser) Tokens() []string {
	return append([]string(nil), p.tokens...)
}

// Parse never fails. Unrecognized descriptions give a 0-0 score against the
// description minus any leading team token.
func (p *ScoreParser) Parse(description string) ParsedScore {
	for i, pattern := range p.patterns {
		groups := pattern.FindStringSubmatch(description)
		if groups == nil {
			continue
		}
		return ParsedScore{
			Team:          p.tokens[i],
			TeamScore:     atoiOrZero(groups[1]),
			OpponentScore: atoiOrZero(groups[2]),
			Opponent:      strings.TrimSpace(groups[3]),
		}
	}

	return ParsedScore{
		Team:     p.tokens[len(p.tokens)-1],
		Opponent: strings.TrimSpace(p.prefix.ReplaceAllString(description, "")),
	}
}

func atoiOrZero(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
