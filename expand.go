package workqueue

import (
	"os"
	"strings"
	"unicode"
)

const envPrefix = "${env."

// expandEnv replaces ${env.NAME} with the value of the environment variable
// NAME, or "" when it is unset. Malformed expressions are kept verbatim.
func expandEnv(value string) string {
	if !strings.Contains(value, envPrefix) {
		return value
	}
	var b strings.Builder
	for {
		idx := strings.Index(value, envPrefix)
		if idx < 0 {
			b.WriteString(value)
			return b.String()
		}
		b.WriteString(value[:idx])
		rest := value[idx+len(envPrefix):]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			b.WriteString(value[idx:])
			return b.String()
		}
		name := rest[:end]
		if !isEnvName(name) {
			b.WriteString(envPrefix)
			value = rest
			continue
		}
		b.WriteString(os.Getenv(name))
		value = rest[end+1:]
	}
}

func isEnvName(name string) bool {
	for _, r := range name {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}

func expandEnvSlice(values []string) []string {
	if len(values) == 0 {
		return values
	}
	ret := make([]string, len(values))
	for i, v := range values {
		ret[i] = expandEnv(v)
	}
	return ret
}

func expandEnvMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return values
	}
	ret := make(map[string]string, len(values))
	for k, v := range values {
		ret[k] = expandEnv(v)
	}
	return ret
}
