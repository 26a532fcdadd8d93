package web

import (
	"html/template"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hy4ri/clickup-tui/internal/organizer"
	"github.com/hy4ri/clickup-tui/internal/workload"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"ago": func(t time.Time) string { return humanize.Time(t) },
}).Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="60">
<title>ClickUp Dashboard</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; color: #222; }
ul { list-style: none; padding-left: 1.25rem; }
.dot { display: inline-block; width: .6rem; height: .6rem; border-radius: 50%; margin-right: .4rem; }
.meta { color: #888; font-size: .85rem; }
.badge { background: #e5c07b; padding: .1rem .4rem; border-radius: .25rem; }
</style>
</head>
<body>
{{if .Snapshot}}
<h1>{{.Snapshot.Team.Name}}</h1>
<p class="meta">{{.Snapshot.User.Username}} · updated {{ago .Snapshot.UpdatedAt}} ·
{{.Snapshot.Stats.Open}} open · {{.Snapshot.Stats.Overdue}} overdue · {{.Snapshot.Stats.DueSoon}} due soon</p>
{{if .Hidden}}<p><span class="badge">Hidden by Filters</span></p>{{end}}
{{template "tree" .Forest}}
{{else}}
<h1>ClickUp Dashboard</h1>
<p>{{.Message}}</p>
{{end}}
</body>
</html>
{{define "tree"}}<ul>{{range .}}
<li><span class="dot" style="background: {{.Task.Status.Color}}"></span><a href="{{.Task.URL}}">{{.Task.Name}}</a>
<span class="meta">{{.Task.Status.Status}}</span>{{if .Subtasks}}{{template "tree" .Subtasks}}{{end}}</li>{{end}}
</ul>{{end}}
`))

type indexData struct {
	Snapshot *workload.Snapshot
	Forest   []*organizer.Node
	Hidden   bool
	Message  string
}

// index handles GET /, rendering the same filters as GET /api/tasks.
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	data := indexData{Message: workload.UserMessage(errNotReady)}
	if err := s.session.Err(); err != nil {
		data.Message = workload.UserMessage(err)
	}
	if snap := s.session.Snapshot(); snap != nil {
		f := parseFilter(r)
		data.Snapshot = snap
		data.Forest = snap.Filtered(f)
		data.Hidden = snap.HiddenByFilters(f)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		s.log.Error("render index", "err", err)
	}
}
