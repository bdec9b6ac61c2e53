package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/maculado/companion/internal/i18n"
)

var (
	baseDir  string
	once     sync.Once
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	langResolver = func(r *http.Request) string { return i18n.LangFromContext(r.Context()) }
	// loginResolver and isAdminResolver are set by the host app so templates
	// can show the session and admin-only controls without importing auth/policy.
	loginResolver   = func(*http.Request) (string, bool) { return "", false }
	isAdminResolver = func(*http.Request) bool { return false }
)

// SetLoginResolver sets the callback templates use to display the session.
func SetLoginResolver(f func(*http.Request) (string, bool)) {
	if f != nil {
		loginResolver = f
	}
}

// SetIsAdminResolver sets the callback templates use for admin-only controls.
func SetIsAdminResolver(f func(*http.Request) bool) {
	if f != nil {
		isAdminResolver = f
	}
}

// SetLangResolver overrides how the language is resolved from a request.
func SetLangResolver(f func(*http.Request) string) {
	if f != nil {
		langResolver = f
	}
}

func detectBase() {
	candidates := []string{"templates", "../templates", "../../templates", "../../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// Funcs returns the standard func map: i18n, session info and small format helpers.
func Funcs(r *http.Request) template.FuncMap {
	lang := langResolver(r)
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"lang": func() string { return lang },
		"login": func() string {
			l, _ := loginResolver(r)
			return l
		},
		"loggedIn": func() bool {
			_, ok := loginResolver(r)
			return ok
		},
		"isAdmin": func() bool { return isAdminResolver(r) },
		"year":    func() int { return time.Now().Year() },
		"pct":     func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		// runes renders large rune counts with thousands separators.
		"runes": func(n int) string {
			s := strconv.Itoa(n)
			if len(s) <= 3 {
				return s
			}
			var b strings.Builder
			lead := len(s) % 3
			if lead > 0 {
				b.WriteString(s[:lead])
			}
			for i := lead; i < len(s); i += 3 {
				if b.Len() > 0 {
					b.WriteByte('.')
				}
				b.WriteString(s[i : i+3])
			}
			return b.String()
		},
		"add": func(a, b int) int { return a + b },
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
	}
}

// Render executes templates/<name> inside templates/layout.html.
// Templates are parsed once and cached; set TEMPLATE_RELOAD=1 to re-parse on
// every request during development.
func Render(w http.ResponseWriter, r *http.Request, name string, data any) error {
	once.Do(detectBase)

	reload := os.Getenv("TEMPLATE_RELOAD") == "1"
	var tpl *template.Template
	if !reload {
		tplCache.RLock()
		tpl = tplCache.m[name]
		tplCache.RUnlock()
	}
	if tpl == nil {
		var err error
		tpl, err = template.New("layout.html").Funcs(Funcs(r)).ParseFiles(
			filepath.Join(baseDir, "layout.html"),
			filepath.Join(baseDir, name),
		)
		if err != nil {
			return fmt.Errorf("parse template %s: %w", name, err)
		}
		if !reload {
			tplCache.Lock()
			tplCache.m[name] = tpl
			tplCache.Unlock()
		}
	}

	// Re-bind funcs: lang and session differ per request even on cache hits.
	var buf bytes.Buffer
	if err := tpl.Funcs(Funcs(r)).ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}
