// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package nlpprogress

import (
	"fmt"
	"regexp"
	"strings"
)

// Model is the cleaned-up content of a leaderboard model cell.
type Model struct {
	Name               string
	Author             string
	UsesAdditionalData bool
}

// ModelParser turns a raw model cell into a Model. The boolean is false when
// the cell yields no usable model name and the row must be skipped.
type ModelParser interface {
	Parse(raw string) (Model, bool)
}

// Model parser names accepted by ModelParserByName.
const (
	ModelParserAnnotated = "annotated"
	ModelParserAnchored  = "anchored"
)

// ModelParserByName resolves a configured strategy name. An empty name
// selects the annotated parser.
func ModelParserByName(name string) (ModelParser, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ModelParserAnnotated:
		return AnnotatedModelParser{}, nil
	case ModelParserAnchored:
		return AnchoredModelParser{}, nil
	default:
		return nil, fmt.Errorf("unknown model parser %q (want %s or %s)", name, ModelParserAnnotated, ModelParserAnchored)
	}
}

const additionalDataPhrase = "with additional unlabeled data"

var (
	whitespaceRe     = regexp.MustCompile(`\s+`)
	additionalDataRe = regexp.MustCompile(`(?i)` + additionalDataPhrase)
	authorYearRe     = regexp.MustCompile(`\(\s*(?P<author>[^\)]*?)?\s*(?P<year>\d{4})?\s*\)`)
	anchoredRe       = regexp.MustCompile(`^\s*(?P<name>[^\(]+)?(?:\((?P<author>[^\)]+)\))?\s*$`)
)

func normalizeSpace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// AnnotatedModelParser handles cells such as
// "BERT (Devlin et al. 2019) with additional unlabeled data": every
// parenthesised author/year group is removed, the years are re-appended in
// order and the authors collected.
type AnnotatedModelParser struct{}

func (AnnotatedModelParser) Parse(raw string) (Model, bool) {
	s := normalizeSpace(raw)

	var m Model
	if strings.Contains(strings.ToLower(s), additionalDataPhrase) {
		m.UsesAdditionalData = true
		loc := additionalDataRe.FindStringIndex(s)
		s = normalizeSpace(s[:loc[0]] + s[loc[1]:])
	}

	var years, authors []string
	authorIdx := authorYearRe.SubexpIndex("author")
	yearIdx := authorYearRe.SubexpIndex("year")
	for _, g := range authorYearRe.FindAllStringSubmatchIndex(s, -1) {
		if g[2*authorIdx] >= 0 {
			a := s[g[2*authorIdx]:g[2*authorIdx+1]]
			if strings.TrimSpace(a) != "" {
				authors = append(authors, strings.TrimSpace(strings.ReplaceAll(a, "et al.", "")))
			}
		}
		if g[2*yearIdx] >= 0 {
			years = append(years, s[g[2*yearIdx]:g[2*yearIdx+1]])
		}
	}

	base := normalizeSpace(authorYearRe.ReplaceAllString(s, ""))
	if base == "" {
		return Model{}, false
	}

	var name strings.Builder
	name.WriteString(base)
	for _, y := range years {
		name.WriteString(" (")
		name.WriteString(y)
		name.WriteString(")")
	}
	m.Name = name.String()
	m.Author = strings.Join(authors, ", ")
	return m, true
}

// AnchoredModelParser accepts only "name (author)" shaped cells; anything
// else is unusable.
type AnchoredModelParser struct{}

func (AnchoredModelParser) Parse(raw string) (Model, bool) {
	g := anchoredRe.FindStringSubmatch(raw)
	if g == nil {
		return Model{}, false
	}
	name := strings.TrimSpace(g[anchoredRe.SubexpIndex("name")])
	if name == "" {
		return Model{}, false
	}
	return Model{
		Name:   name,
		Author: strings.TrimSpace(g[anchoredRe.SubexpIndex("author")]),
	}, true
}
