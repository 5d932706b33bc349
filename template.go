package igen

import "strings"

// BuildCommand substitutes each {name} placeholder of template with
// params[name]. Doubled braces ("{{", "}}") produce literal braces.
// Returns EMISSINGPARAM if a placeholder has no value and EINVALID if the
// template is malformed. Unused params are ignored.
func BuildCommand(template string, params map[string]string) (string, error) {
	return expandTemplate(template, func(name string) (string, error) {
		v, ok := params[name]
		if !ok {
			return "", Errorf(EMISSINGPARAM, "missing value for parameter %q", name)
		}
		return v, nil
	})
}

// Placeholders returns the placeholder names of template in order of first
// appearance.
func Placeholders(template string) ([]string, error) {
	var names []string
	seen := make(map[string]struct{})
	_, err := expandTemplate(template, func(name string) (string, error) {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
		return "", nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// ResolveParams returns the values for the parameters a command declares:
// values wins over defaults, and keys not in names are dropped.
func ResolveParams(names []string, defaults, values map[string]string) map[string]string {
	out := make(map[string]string, len(names))
	for _, n := range names {
		if v, ok := values[n]; ok {
			out[n] = v
		} else if v, ok := defaults[n]; ok {
			out[n] = v
		}
	}
	return out
}

func expandTemplate(template string, lookup func(name string) (string, error)) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); i++ {
		c := template[i]
		switch c {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return "", Errorf(EINVALID, "unterminated placeholder at offset %d", i)
			}
			name := template[i+1 : i+1+end]
			if name == "" || strings.ContainsRune(name, '{') {
				return "", Errorf(EINVALID, "invalid placeholder %q at offset %d", "{"+name+"}", i)
			}
			v, err := lookup(name)
			if err != nil {
				return "", err
			}
			b.WriteString(v)
			i += end + 1
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", Errorf(EINVALID, "single '}' at offset %d", i)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}
