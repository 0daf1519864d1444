package markup

import (
	"regexp"
	"strings"
)

// TokenPrefix is the reserved prefix for style token names.
const TokenPrefix = "--"

// Token is one named design variable from the reserved :root block.
type Token struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Only the first :root block is the token block; later ones are
// malformed input and left alone.
var rootBlockRe = regexp.MustCompile(`(?s):root\s*\{([^}]*)\}`)

// ExtractTokens parses the first :root{...} block of css into an
// ordered token list. Declarations without the reserved prefix or with
// an empty value are skipped; a duplicate name keeps its position and
// takes the last value.
func ExtractTokens(css string) []Token {
	m := rootBlockRe.FindStringSubmatch(css)
	if m == nil {
		return nil
	}
	var tokens []Token
	index := make(map[string]int)
	for _, decl := range strings.Split(m[1], ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if !strings.HasPrefix(name, TokenPrefix) || value == "" {
			continue
		}
		if i, dup := index[name]; dup {
			tokens[i].Value = value
			continue
		}
		index[name] = len(tokens)
		tokens = append(tokens, Token{Name: name, Value: value})
	}
	return tokens
}

// ApplyTokens rewrites the first :root block of css with the given
// updates: existing declarations keep their order, updated names get
// the new value, names not present in the block are appended in the
// order given. Everything outside the block is untouched. If css has
// no :root block at all, a new one holding exactly the updates is
// prepended.
func ApplyTokens(css string, updates []Token) string {
	loc := rootBlockRe.FindStringSubmatchIndex(css)
	if loc == nil {
		return synthesizeRootBlock(updates) + css
	}

	byName := make(map[string]string, len(updates))
	for _, t := range updates {
		byName[t.Name] = t.Value
	}

	var pairs []string
	seen := make(map[string]bool)
	for _, decl := range strings.Split(css[loc[2]:loc[3]], ";") {
		name, rest, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		key := strings.TrimSpace(name)
		if value, hit := byName[key]; hit {
			pairs = append(pairs, key+": "+value)
			seen[key] = true
		} else {
			pairs = append(pairs, key+":"+rest)
		}
	}
	for _, t := range updates {
		if !seen[t.Name] {
			pairs = append(pairs, t.Name+": "+t.Value)
		}
	}

	return css[:loc[0]] + ":root{" + strings.Join(pairs, ";") + "}" + css[loc[1]:]
}

func synthesizeRootBlock(tokens []Token) string {
	var b strings.Builder
	b.WriteString(":root{")
	for i, t := range tokens {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(t.Name)
		b.WriteString(": ")
		b.WriteString(t.Value)
	}
	b.WriteString("}")
	return b.String()
}
