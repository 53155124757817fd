package doc

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// query is parsed from "[package.]Class[#member[(params)]]".
type query struct {
	typeName  string // as typed, possibly with package
	member    string // member name without parameters
	signature string // member text including "(" if given
	hasMember bool
	hasParams bool
}

func parseQuery(text string) query {
	text = strings.TrimSpace(text)
	var q query

	typePart, memberPart, found := strings.Cut(text, "#")
	q.typeName = strings.TrimSpace(typePart)
	if !found {
		return q
	}

	q.hasMember = true
	q.signature = strings.ReplaceAll(strings.TrimSpace(memberPart), " ", "")
	q.member = q.signature
	if idx := strings.IndexByte(q.signature, '('); idx >= 0 {
		q.member = q.signature[:idx]
		q.hasParams = true
	}
	return q
}

// elementName splits a qualified name into its parts.
type elementName struct {
	typeName   string // fully qualified type
	simpleName string // type name without package
	member     string // member name, "" for types
	signature  string // member with parameter list
}

func splitQualifiedName(name string) elementName {
	var e elementName
	typePart, memberPart, _ := strings.Cut(name, "#")
	e.typeName = typePart
	e.simpleName = typePart
	if idx := strings.LastIndexByte(typePart, '.'); idx >= 0 {
		e.simpleName = typePart[idx+1:]
	}
	e.signature = strings.ReplaceAll(memberPart, " ", "")
	e.member = e.signature
	if idx := strings.IndexByte(e.signature, '('); idx >= 0 {
		e.member = e.signature[:idx]
	}
	return e
}

// match scores an element name against a query. Scores follow a simple
// ladder: equal beats prefix beats fuzzy.
type match struct {
	score              float64
	exact              bool
	caseSensitiveExact bool
}

const (
	scoreEqual  = 1.0
	scorePrefix = 0.9
	scoreFuzzy  = 0.72
	fuzzyStep   = 0.08
)

func (q query) match(e elementName, maxDistance int) (match, bool) {
	if q.hasMember != (e.member != "") {
		return match{}, false
	}

	typeScore, typeExact, typeCaseExact, ok := q.matchType(e, maxDistance)
	if !ok {
		return match{}, false
	}
	if !q.hasMember {
		return match{score: typeScore, exact: typeExact, caseSensitiveExact: typeCaseExact}, true
	}

	memberScore, memberExact, memberCaseExact, ok := q.matchMember(e, maxDistance)
	if !ok {
		return match{}, false
	}
	return match{
		score:              (typeScore + memberScore) / 2,
		exact:              typeExact && memberExact,
		caseSensitiveExact: typeCaseExact && memberCaseExact,
	}, true
}

func (q query) matchType(e elementName, maxDistance int) (float64, bool, bool, bool) {
	if q.typeName == "" {
		return 0, false, false, false
	}

	// A dotted query names a package too and is compared to the full name.
	if strings.Contains(q.typeName, ".") {
		full := strings.ToLower(e.typeName)
		want := strings.ToLower(q.typeName)
		switch {
		case full == want || strings.HasSuffix(full, "."+want):
			caseExact := e.typeName == q.typeName || strings.HasSuffix(e.typeName, "."+q.typeName)
			return scoreEqual, true, caseExact, true
		case strings.HasPrefix(full, want):
			return scorePrefix, false, false, true
		default:
			return 0, false, false, false
		}
	}

	return scoreName(e.simpleName, q.typeName, maxDistance)
}

func (q query) matchMember(e elementName, maxDistance int) (float64, bool, bool, bool) {
	if q.member == "" {
		return scorePrefix, false, false, true
	}
	if q.hasParams {
		sig := strings.ToLower(e.signature)
		want := strings.ToLower(q.signature)
		if !strings.HasPrefix(sig, want) {
			return 0, false, false, false
		}
		exact := sig == want || strings.HasSuffix(want, "(")
		caseExact := exact && strings.HasPrefix(e.signature, q.signature)
		if exact {
			return scoreEqual, true, caseExact, true
		}
		return scorePrefix, false, false, true
	}
	return scoreName(e.member, q.member, maxDistance)
}

// scoreName compares one identifier with what the user typed.
func scoreName(have, want string, maxDistance int) (float64, bool, bool, bool) {
	lowerHave := strings.ToLower(have)
	lowerWant := strings.ToLower(want)

	switch {
	case lowerHave == lowerWant:
		return scoreEqual, true, have == want, true
	case strings.HasPrefix(lowerHave, lowerWant):
		return scorePrefix, false, false, true
	}

	if maxDistance <= 0 {
		return 0, false, false, false
	}
	dist := levenshtein.ComputeDistance(lowerHave, lowerWant)
	if dist > maxDistance {
		return 0, false, false, false
	}
	return scoreFuzzy - fuzzyStep*float64(dist), false, false, true
}
