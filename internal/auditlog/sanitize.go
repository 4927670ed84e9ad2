package auditlog

import "strings"

const redacted = "<redacted>"

// secretWords mark a long flag as carrying a credential.
var secretWords = []string{"secret", "password", "token", "pass"}

// secretShort are short flags that carry credentials.
var secretShort = map[string]bool{"-p": true}

func isSecretFlag(name string) bool {
	if secretShort[name] {
		return true
	}
	if !strings.HasPrefix(name, "--") {
		return false
	}
	name = strings.ToLower(name)
	for _, w := range secretWords {
		if strings.Contains(name, w) {
			return true
		}
	}
	return false
}

// SanitizeArgs returns args with the values of credential flags replaced,
// in both the "--flag value" and "--flag=value" forms. Everything after a
// bare "--" is kept.
func SanitizeArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)

	for i := 0; i < len(out); i++ {
		arg := out[i]
		if arg == "--" {
			break
		}
		if name, _, ok := strings.Cut(arg, "="); ok {
			if isSecretFlag(name) {
				out[i] = name + "=" + redacted
			}
			continue
		}
		if isSecretFlag(arg) {
			if i+1 < len(out) {
				out[i+1] = redacted
				i++
			} else {
				out = append(out, redacted)
			}
		}
	}
	return out
}
