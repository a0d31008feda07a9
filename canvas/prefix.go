package canvas

import (
	"strconv"

	osm "github.com/omniscale/go-osm"
	"github.com/pkg/errors"
)

// CommonPrefix returns the longest leading string shared by all tokens.
func CommonPrefix(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	prefix := tokens[0]
	for _, tok := range tokens[1:] {
		n := 0
		for n < len(prefix) && n < len(tok) && prefix[n] == tok[n] {
			n++
		}
		prefix = prefix[:n]
		if prefix == "" {
			break
		}
	}
	return prefix
}

// stripToken removes the first n characters of tok and reads the rest as
// a number with the decimal point after its first digit.
func stripToken(tok string, n int) (float64, error) {
	rest := tok[n:]
	if rest == "" {
		return 0, errors.Wrapf(ErrPrefixExhausted, "token %s with prefix length %d", tok, n)
	}
	s := rest[:1]
	if len(rest) > 1 {
		s += "." + rest[1:]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing stripped token %s", tok)
	}
	return v, nil
}

func normalizeAxis(tokens []string) ([]float64, error) {
	n := len(CommonPrefix(tokens))
	values := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := stripToken(tok, n)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func normalizePrefix(nodes []osm.Node) ([]vertex, error) {
	xTokens, yTokens := encodeTokens(nodes)
	xs, err := normalizeAxis(xTokens)
	if err != nil {
		return nil, errors.Wrap(err, "longitude")
	}
	ys, err := normalizeAxis(yTokens)
	if err != nil {
		return nil, errors.Wrap(err, "latitude")
	}

	vertices := make([]vertex, len(nodes))
	for i := range vertices {
		vertices[i] = vertex{xs[i], ys[i]}
	}
	return vertices, nil
}
