package plan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const whitespace = " \n\t\r"

// getToken reads a token up to one of the term characters the way
// ffmpeg's av_get_token does: quotes are stripped, a backslash takes
// the next character literally and unprotected trailing blanks are cut.
func getToken(buf, term string) (string, string) {
	p := strings.TrimLeft(buf, whitespace)
	var out []byte
	end, i := 0, 0
	for i < len(p) && !strings.ContainsRune(term, rune(p[i])) {
		c := p[i]
		i++
		switch {
		case c == '\\' && i < len(p):
			out = append(out, p[i])
			i++
			end = len(out)
		case c == '\'':
			for i < len(p) && p[i] != '\'' {
				out = append(out, p[i])
				i++
			}
			if i < len(p) {
				i++
				end = len(out)
			}
		default:
			out = append(out, c)
		}
	}
	for len(out) > end && strings.ContainsRune(whitespace, rune(out[len(out)-1])) {
		out = out[:len(out)-1]
	}
	return string(out), p[i:]
}

type parsedFilter struct {
	name string
	// option keys in order, "" for a positional value
	keys []string
	opts map[string]string
}

func isKeyChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c == '/' || c == '.'
}

// parseOptions splits filter arguments into key=value pairs like the
// filter option parser does.
func parseOptions(args string) ([]string, map[string]string) {
	var keys []string
	opts := map[string]string{}
	for args != "" {
		i := 0
		for i < len(args) && isKeyChar(args[i]) {
			i++
		}
		key := ""
		if i > 0 && i < len(args) && args[i] == '=' {
			key = args[:i]
			args = args[i+1:]
		}
		var val string
		val, args = getToken(args, ":")
		keys = append(keys, key)
		opts[key] = val
		if args != "" {
			args = args[1:]
		}
	}
	return keys, opts
}

// parseChain parses a comma separated filter chain without pads.
func parseChain(t *testing.T, chain string) []parsedFilter {
	t.Helper()
	var out []parsedFilter
	rest := chain
	for {
		name, r := getToken(rest, "=,;[")
		var args string
		if strings.HasPrefix(r, "=") {
			args, r = getToken(r[1:], "[],;")
		}
		keys, opts := parseOptions(args)
		out = append(out, parsedFilter{name: name, keys: keys, opts: opts})

		r = strings.TrimLeft(r, whitespace)
		if r == "" {
			return out
		}
		require.Equal(t, byte(','), r[0], "unexpected separator in %q", chain)
		rest = r[1:]
	}
}

// expandText resolves drawtext escapes. A bare '%' would start an
// expansion and fails the test.
func expandText(t *testing.T, s string) string {
	t.Helper()
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
			require.Less(t, i, len(s), "dangling backslash in %q", s)
			sb.WriteByte(s[i])
		case '%':
			require.Failf(t, "unescaped expansion", "in %q", s)
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
