package schema

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var ErrInvalidQuery = errors.New("invalid query")

var (
	stringLiteralRe = regexp.MustCompile(`"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'`)
	backtickRe      = regexp.MustCompile("`([^`]*)`")
	nonWordRe       = regexp.MustCompile(`\W`)
	writeClauseRe   = regexp.MustCompile(`(?i)\b(CREATE|MERGE|DELETE|DETACH|SET|REMOVE|DROP|FOREACH|CALL|LOAD\s+CSV)\b`)
	bareEdgeRe      = regexp.MustCompile(`\)\s*<?-{1,2}>?\s*\(`)
	relBracketRe    = regexp.MustCompile(`<?-\s*\[([^\]]*)\]\s*->?`)
	typedRelRe      = regexp.MustCompile(`^\s*\w*\s*:\s*([A-Za-z_][\w|:]*)`)

	mapOpenRe = regexp.MustCompile(`^\s*(?:\}|\.|\*|\w+\s*:)`)
	mapKeyRe  = regexp.MustCompile(`^\s*\w+\s*:`)

	// labelUseRe matches a label expression with its optional variable, as in
	// (n:A:B), (:A|B), WHERE n:A or n:A&B.
	labelUseRe  = regexp.MustCompile(`(\w*)\s*:\s*([!(]*\s*\w+(?:\s*[|&:!]+\s*[!(]*\s*\w+)*)`)
	labelExprRe = regexp.MustCompile(`^\w+(?:\s*[|&:]\s*\w+)*$`)
	nodeInnerRe = regexp.MustCompile(`(?is)^\s*(\w*)\s*(?::\s*([^{]*?))?\s*(?:\{.*\})?\s*(?:WHERE\b.*)?$`)
)

// Validate checks a generated Cypher query against the registry. It rejects
// untyped or undirected relationships, labels and relationship types the
// schema does not declare, relationships used against their declared
// direction, and any clause that writes to the graph. Node and label forms it
// cannot read are rejected rather than passed through.
func (r *Registry) Validate(cypher string) error {
	q := strings.TrimSpace(cypher)
	if q == "" {
		return fmt.Errorf("%w: empty query", ErrInvalidQuery)
	}
	masked := stringLiteralRe.ReplaceAllString(q, `""`)
	masked = backtickRe.ReplaceAllStringFunc(masked, func(s string) string {
		return nonWordRe.ReplaceAllString(strings.Trim(s, "`"), "_")
	})

	if m := writeClauseRe.FindString(masked); m != "" {
		return fmt.Errorf("%w: write clause %s is not allowed", ErrInvalidQuery, strings.ToUpper(m))
	}
	if m := bareEdgeRe.FindString(masked); m != "" {
		return fmt.Errorf("%w: untyped relationship %q", ErrInvalidQuery, m)
	}

	for _, m := range relBracketRe.FindAllStringSubmatch(masked, -1) {
		typed := typedRelRe.FindStringSubmatch(m[1])
		if typed == nil {
			return fmt.Errorf("%w: untyped relationship %q", ErrInvalidQuery, m[0])
		}
		for _, t := range splitTypes(typed[1]) {
			if _, ok := r.rels[t]; !ok {
				return fmt.Errorf("%w: unknown relationship type %s", ErrInvalidQuery, t)
			}
		}
	}

	bound, err := r.checkLabels(masked)
	if err != nil {
		return err
	}
	return r.checkDirections(masked, bound)
}

// checkLabels finds every label expression outside map literals and
// relationship brackets, in node patterns and WHERE predicates alike, and
// returns the labels each variable was first bound to.
func (r *Registry) checkLabels(masked string) (map[string][]string, error) {
	scan := relBracketRe.ReplaceAllString(stripMapKeys(masked), "-")

	bound := make(map[string][]string)
	covered := 0
	for _, m := range labelUseRe.FindAllStringSubmatch(scan, -1) {
		covered += strings.Count(m[0], ":")
		labels, err := r.labelExpr(m[2])
		if err != nil {
			return nil, err
		}
		if m[1] != "" {
			if _, seen := bound[m[1]]; !seen {
				bound[m[1]] = labels
			}
		}
	}
	if covered != strings.Count(scan, ":") {
		return nil, fmt.Errorf("%w: unrecognized label expression", ErrInvalidQuery)
	}
	return bound, nil
}

// labelExpr accepts conjunctions and disjunctions of declared labels.
// Negation, grouping and dynamic labels are refused.
func (r *Registry) labelExpr(expr string) ([]string, error) {
	expr = strings.TrimSpace(expr)
	if !labelExprRe.MatchString(expr) {
		return nil, fmt.Errorf("%w: unsupported label expression %q", ErrInvalidQuery, expr)
	}
	labels := strings.FieldsFunc(expr, func(c rune) bool {
		return c == '|' || c == '&' || c == ':' || c == ' ' || c == '\t' || c == '\n'
	})
	for _, l := range labels {
		if !r.HasLabel(l) {
			return nil, fmt.Errorf("%w: unknown label %s", ErrInvalidQuery, l)
		}
	}
	return labels, nil
}

// checkDirections checks the endpoints of every relationship bracket against
// the declared relationship ends. Endpoints without their own labels use the
// labels their variable was bound to elsewhere in the query.
func (r *Registry) checkDirections(masked string, bound map[string][]string) error {
	for _, loc := range relBracketRe.FindAllStringSubmatchIndex(masked, -1) {
		seg := masked[loc[0]:loc[1]]
		types := splitTypes(typedRelRe.FindStringSubmatch(masked[loc[2]:loc[3]])[1])

		leftArrow := strings.HasPrefix(seg, "<")
		rightArrow := strings.HasSuffix(seg, ">")
		if leftArrow == rightArrow {
			return fmt.Errorf("%w: relationship %s must have exactly one direction", ErrInvalidQuery, strings.Join(types, "|"))
		}

		leftNode, ok := nodeBefore(masked, loc[0])
		if !ok {
			return fmt.Errorf("%w: relationship %s has no start node", ErrInvalidQuery, strings.Join(types, "|"))
		}
		rightNode, ok := nodeAfter(masked, loc[1])
		if !ok {
			return fmt.Errorf("%w: relationship %s has no end node", ErrInvalidQuery, strings.Join(types, "|"))
		}

		first, err := r.endpointLabels(leftNode, bound)
		if err != nil {
			return err
		}
		second, err := r.endpointLabels(rightNode, bound)
		if err != nil {
			return err
		}
		from, to := first, second
		if leftArrow {
			from, to = second, first
		}

		for _, t := range types {
			rel := r.rels[t]
			for _, l := range from {
				if !slices.Contains(rel.From, l) {
					return fmt.Errorf("%w: %s cannot start at %s", ErrInvalidQuery, t, l)
				}
			}
			for _, l := range to {
				if !slices.Contains(rel.To, l) {
					return fmt.Errorf("%w: %s cannot end at %s", ErrInvalidQuery, t, l)
				}
			}
		}
	}
	return nil
}

func (r *Registry) endpointLabels(node string, bound map[string][]string) ([]string, error) {
	m := nodeInnerRe.FindStringSubmatch(node)
	if m == nil {
		return nil, fmt.Errorf("%w: unrecognized node pattern (%s)", ErrInvalidQuery, strings.TrimSpace(node))
	}
	if strings.TrimSpace(m[2]) != "" {
		return r.labelExpr(m[2])
	}
	return bound[m[1]], nil
}

// nodeBefore returns the inside of the parenthesized node ending just before
// end, skipping whitespace.
func nodeBefore(s string, end int) (string, bool) {
	i := end - 1
	for i >= 0 && isSpace(s[i]) {
		i--
	}
	if i < 0 || s[i] != ')' {
		return "", false
	}
	closeAt, depth := i, 0
	for ; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				return s[i+1 : closeAt], true
			}
		}
	}
	return "", false
}

// nodeAfter returns the inside of the parenthesized node starting at or after
// start, skipping whitespace.
func nodeAfter(s string, start int) (string, bool) {
	i := start
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	if i >= len(s) || s[i] != '(' {
		return "", false
	}
	openAt, depth := i, 0
	for ; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[openAt+1 : i], true
			}
		}
	}
	return "", false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// stripMapKeys removes the keys of map literals and map projections so their
// colons are not read as labels. Braces opening a subquery keep their content.
func stripMapKeys(s string) string {
	var b strings.Builder
	var maps []bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		b.WriteByte(c)
		switch c {
		case '{':
			maps = append(maps, mapOpenRe.MatchString(s[i+1:]))
		case ',':
		case '}':
			if len(maps) > 0 {
				maps = maps[:len(maps)-1]
			}
			continue
		default:
			continue
		}
		if len(maps) > 0 && maps[len(maps)-1] {
			if loc := mapKeyRe.FindStringIndex(s[i+1:]); loc != nil {
				b.WriteByte(' ')
				i += loc[1]
			}
		}
	}
	return b.String()
}

func splitTypes(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "|") {
		if p := strings.Trim(strings.TrimSpace(part), ":"); p != "" {
			out = append(out, p)
		}
	}
	return out
}
