package ratelimit

import "strings"

// MatchEndpoint returns the rule that applies to a request, or nil when the
// default limit applies.
//
// A rule path is a slash-separated pattern. A "{name}" segment matches any
// single segment, and a pattern ending in "/" matches every path below it.
// When several rules match, the one with more literal segments wins, and an
// exact pattern beats a prefix pattern of the same length. An empty Method
// matches any method.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	segments := splitPath(path)

	var best *EndpointConfig
	bestScore := -1
	for i := range configs {
		rule := &configs[i]
		if rule.Method != "" && rule.Method != method {
			continue
		}
		score, ok := matchPattern(rule.Path, segments)
		if ok && score > bestScore {
			best, bestScore = rule, score
		}
	}
	return best
}

// matchPattern reports whether pattern matches the path segments and how
// specific the match is.
func matchPattern(pattern string, segments []string) (int, bool) {
	if pattern == "" {
		return 0, false
	}
	prefix := strings.HasSuffix(pattern, "/") && pattern != "/"
	want := splitPath(pattern)

	if prefix {
		if len(segments) <= len(want) {
			return 0, false
		}
	} else if len(segments) != len(want) {
		return 0, false
	}

	literals := 0
	for i, w := range want {
		if isParam(w) {
			continue
		}
		if w != segments[i] {
			return 0, false
		}
		literals++
	}

	score := literals * 2
	if !prefix {
		score++
	}
	return score, true
}

func isParam(segment string) bool {
	return len(segment) > 2 && segment[0] == '{' && segment[len(segment)-1] == '}'
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
