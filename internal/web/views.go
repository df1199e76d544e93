package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Local().Format("2006-01-02 15:04") },
	"mul": func(price decimal.Decimal, count int) decimal.Decimal {
		return price.Mul(decimal.NewFromInt(int64(count)))
	},
}

// views holds one template set per page, each sharing the layout.
type views struct {
	pages map[string]*template.Template
}

func parseViews() (*views, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "list templates")
	}

	v := &views{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", file)
		}
		v.pages[name] = t
	}
	return v, nil
}

// pageData is the model every page renders from.
type pageData struct {
	Title    string
	Identity Identity
	SignedIn bool
	Success  string
	Error    string
	Data     any
}

// render writes page with data. Flash messages are consumed here, so they
// show exactly once.
func (a *App) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	t, ok := a.views.pages[page]
	if !ok {
		a.logger.Error().Str("page", page).Msg("unknown page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, signedIn := IdentityFrom(r.Context())
	pd := pageData{
		Title:    title,
		Identity: identity,
		SignedIn: signedIn,
		Success:  a.sessions.PopString(r.Context(), FlashSuccess),
		Error:    a.sessions.PopString(r.Context(), FlashError),
		Data:     data,
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, pd); err != nil {
		a.logger.Error().Err(err).Str("page", page).Msg("failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
