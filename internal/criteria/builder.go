// Package criteria turns questionnaire answers into a structured search
// request. Pure: no I/O, output depends only on the answers and the static
// question table.
package criteria

import (
	"strings"

	"hmvfinder/internal"
)

const metadataPrefix = "_"

// Build merges the partial criteria of every selected option into one
// SearchCriteria. Filters are never silently overwritten: booleans are set
// once and never downgraded, arrays are unioned, and repeated scalar keys
// with differing values are coerced into an array so every observed value
// survives.
func Build(answers []internal.Answer) internal.SearchCriteria {
	groups := make([]string, 0, 4)
	groupSeen := map[string]struct{}{}
	filters := map[string]any{}

	addGroup := func(prefix string) {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			return
		}
		if _, ok := groupSeen[prefix]; ok {
			return
		}
		groupSeen[prefix] = struct{}{}
		groups = append(groups, prefix)
	}

	for _, answer := range answers {
		if strings.HasPrefix(answer.QuestionID, metadataPrefix) {
			continue
		}
		options, ok := questionOptions[answer.QuestionID]
		if !ok {
			continue
		}
		for _, selected := range answerValues(answer.Value) {
			effect, ok := options[selected]
			if !ok {
				continue
			}
			for _, prefix := range effect.ProductGroups {
				addGroup(prefix)
			}
			for key, value := range effect.Filters {
				mergeFilter(filters, key, value)
			}
		}
	}

	if len(groups) == 0 {
		for _, answer := range answers {
			if answer.QuestionID != questionCategory {
				continue
			}
			for _, selected := range answerValues(answer.Value) {
				if prefix, ok := categoryDefaults[selected]; ok {
					addGroup(prefix)
				}
			}
		}
	}

	return internal.SearchCriteria{ProductGroups: groups, Filters: filters}
}

func answerValues(value any) []string {
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	case bool:
		if v {
			return []string{"true"}
		}
		return nil
	default:
		return nil
	}
}

func mergeFilter(filters map[string]any, key string, value any) {
	existing, present := filters[key]

	switch v := value.(type) {
	case bool:
		if !v {
			return
		}
		// True is sticky.
		filters[key] = true
	case []string:
		filters[key] = unionValues(toValueList(existing, present), v)
	case string:
		if !present {
			filters[key] = v
			return
		}
		if s, ok := existing.(string); ok {
			if s == v {
				return
			}
			filters[key] = []string{s, v}
			return
		}
		filters[key] = unionValues(toValueList(existing, present), []string{v})
	}
}

func toValueList(existing any, present bool) []string {
	if !present {
		return nil
	}
	switch e := existing.(type) {
	case []string:
		return e
	case string:
		return []string{e}
	default:
		return nil
	}
}

func unionValues(base, extra []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(base)+len(extra))
	for _, v := range append(base, extra...) {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
