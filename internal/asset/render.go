package asset

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
)

var placeholderRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// renderValue walks a decoded YAML document and substitutes ${expr}
// placeholders in every string. Expressions are evaluated against vars, so
// an io.yaml can say args: {name: "${environment}.sales.orders"}.
func renderValue(v any, vars map[string]any) (any, error) {
	switch val := v.(type) {
	case string:
		return renderString(val, vars)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			r, err := renderValue(item, vars)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			r, err := renderValue(item, vars)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	default:
		return v, nil
	}
}

func renderString(s string, vars map[string]any) (string, error) {
	var renderErr error
	rendered := placeholderRe.ReplaceAllStringFunc(s, func(match string) string {
		if renderErr != nil {
			return match
		}
		code := strings.TrimSpace(placeholderRe.FindStringSubmatch(match)[1])
		out, err := expr.Eval(code, vars)
		if err != nil {
			renderErr = fmt.Errorf("rendering %q: %w", s, err)
			return match
		}
		return fmt.Sprint(out)
	})
	return rendered, renderErr
}
