package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

// KeyRegistry maps key names to actions per scope. Lookups fall back to
// the global scope.
type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal = "global"
	scopeGrid   = "grid"
	scopePicker = "picker"
	scopeHelp   = "help"
)

const (
	actionQuit           Action = "quit"
	actionRowUp          Action = "row_up"
	actionRowDown        Action = "row_down"
	actionColumnLeft     Action = "column_left"
	actionColumnRight    Action = "column_right"
	actionSort           Action = "sort"
	actionToggleRow      Action = "toggle_row"
	actionToggleAll      Action = "toggle_all"
	actionClearSelection Action = "clear_selection"
	actionNextPage       Action = "next_page"
	actionPrevPage       Action = "prev_page"
	actionFirstPage      Action = "first_page"
	actionLastPage       Action = "last_page"
	actionPageSizeUp     Action = "page_size_up"
	actionPageSizeDown   Action = "page_size_down"
	actionReset          Action = "reset"
	actionDatasets       Action = "datasets"
	actionExport         Action = "export"
	actionHelp           Action = "help"
	actionSelect         Action = "select"
	actionClose          Action = "close"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	reg(scopeGlobal, actionQuit, []string{"q", "ctrl+c"}, "quit")
	reg(scopeGlobal, actionHelp, []string{"?"}, "help")

	reg(scopeGrid, actionRowUp, []string{"k", "up"}, "up")
	reg(scopeGrid, actionRowDown, []string{"j", "down"}, "down")
	reg(scopeGrid, actionColumnLeft, []string{"h", "left"}, "col left")
	reg(scopeGrid, actionColumnRight, []string{"l", "right"}, "col right")
	reg(scopeGrid, actionSort, []string{"s", "enter"}, "sort")
	reg(scopeGrid, actionToggleRow, []string{"space", " "}, "toggle row")
	reg(scopeGrid, actionToggleAll, []string{"a"}, "toggle all")
	reg(scopeGrid, actionClearSelection, []string{"u"}, "clear sel")
	reg(scopeGrid, actionNextPage, []string{"n", "pgdown"}, "next page")
	reg(scopeGrid, actionPrevPage, []string{"p", "pgup"}, "prev page")
	reg(scopeGrid, actionFirstPage, []string{"g", "home"}, "first")
	reg(scopeGrid, actionLastPage, []string{"G", "end"}, "last")
	reg(scopeGrid, actionPageSizeUp, []string{"+", "="}, "bigger page")
	reg(scopeGrid, actionPageSizeDown, []string{"-"}, "smaller page")
	reg(scopeGrid, actionReset, []string{"r"}, "reset")
	reg(scopeGrid, actionDatasets, []string{"d"}, "datasets")
	reg(scopeGrid, actionExport, []string{"e"}, "export")

	reg(scopePicker, actionRowUp, []string{"k", "up"}, "up")
	reg(scopePicker, actionRowDown, []string{"j", "down"}, "down")
	reg(scopePicker, actionSelect, []string{"enter"}, "open")
	reg(scopePicker, actionClose, []string{"esc"}, "cancel")

	reg(scopeHelp, actionClose, []string{"esc", "?"}, "close")

	return r
}

func (r *KeyRegistry) Register(b Binding) {
	if r == nil || len(b.Keys) == 0 {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" {
			continue
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		normKeys := normalizeKeyList(b.Keys)
		if len(normKeys) == 0 || r.scopeHasAnyKey(scope, normKeys) {
			continue
		}

		copyBinding := b
		copyBinding.Keys = normKeys
		copyBinding.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
		for _, k := range copyBinding.Keys {
			r.indexByScope[scope][k] = &copyBinding
		}
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]Binding, 0, len(items))
	for _, b := range items {
		out = append(out, *b)
	}
	return out
}

// Lookup returns the binding of keyName in scope, then in the global scope.
func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	if b := r.indexByScope[scope][keyName]; b != nil {
		return b
	}
	if scope != scopeGlobal {
		return r.indexByScope[scopeGlobal][keyName]
	}
	return nil
}

func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	items := r.BindingsForScope(scope)
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 1 {
		// single runes keep their case so g and G stay distinct
		return trimmed
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	s = strings.ReplaceAll(s, "pagedown", "pgdown")
	s = strings.ReplaceAll(s, "pageup", "pgup")
	return s
}

var helpKeyStyle = lipgloss.NewStyle().Bold(true)

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, helpKeyStyle.Render(help.Key)+" "+help.Desc)
	}
	return strings.Join(parts, "  ")
}
