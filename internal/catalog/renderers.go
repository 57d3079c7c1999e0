package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jask/gridkit/datagrid"
)

// Registry maps renderer names used in catalogs to cell renderers.
type Registry struct {
	renderers map[string]datagrid.Renderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]datagrid.Renderer)}
}

// DefaultRenderers returns a registry holding the built-in renderers:
// upper, lower, money, date, yesno and rownum.
func DefaultRenderers() *Registry {
	r := NewRegistry()
	r.Register("upper", func(v any, _ datagrid.Row, _ int) string {
		return strings.ToUpper(datagrid.FormatValue(v))
	})
	r.Register("lower", func(v any, _ datagrid.Row, _ int) string {
		return strings.ToLower(datagrid.FormatValue(v))
	})
	r.Register("money", renderMoney)
	r.Register("date", func(v any, _ datagrid.Row, _ int) string {
		if t, ok := v.(time.Time); ok {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		}
		return datagrid.FormatValue(v)
	})
	r.Register("yesno", func(v any, _ datagrid.Row, _ int) string {
		b, ok := v.(bool)
		if !ok {
			return datagrid.FormatValue(v)
		}
		if b {
			return "yes"
		}
		return "no"
	})
	// rownum numbers rows within the rendered page
	r.Register("rownum", func(_ any, _ datagrid.Row, index int) string {
		return strconv.Itoa(index + 1)
	})
	return r
}

func renderMoney(v any, _ datagrid.Row, _ int) string {
	switch n := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f", n)
	case float32:
		return fmt.Sprintf("%.2f", n)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d.00", n)
	}
	return datagrid.FormatValue(v)
}

// Register adds or replaces the renderer called name.
func (r *Registry) Register(name string, fn datagrid.Renderer) {
	r.renderers[name] = fn
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the renderer called name. Unknown names report the closest
// registered name.
func (r *Registry) Lookup(name string) (datagrid.Renderer, error) {
	if fn, ok := r.renderers[name]; ok {
		return fn, nil
	}
	if s := Suggest(name, r.Names()); s != "" {
		return nil, fmt.Errorf("%w: unknown renderer %q (did you mean %q?)", ErrInvalid, name, s)
	}
	return nil, fmt.Errorf("%w: unknown renderer %q", ErrInvalid, name)
}
