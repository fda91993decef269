package web

import (
	"html/template"
	"io"

	"github.com/MalithGihan/archmetrics/internal/report"
)

var funcMap = template.FuncMap{
	"ms": report.FormatMillis,
	"orDash": func(s string) string {
		if s == "" {
			return "—"
		}
		return s
	},
	"add": func(a, b int) int { return a + b },
}

// pages holds one template set per page; each set shares the base layout.
type pages struct {
	index  *template.Template
	report *template.Template
}

func parsePages() pages {
	parse := func(body string) *template.Template {
		return template.Must(template.New("page").Funcs(funcMap).Parse(tmplBase + body))
	}
	return pages{
		index:  parse(tmplIndex),
		report: parse(tmplReport),
	}
}

func render(w io.Writer, t *template.Template, data any) error {
	return t.ExecuteTemplate(w, "base", data)
}

type indexPage struct {
	Error     string
	MaxUpload int64
}

type reportPage struct {
	Report report.Report
}

// ── Base layout ───────────────────────────────────────────────────────────────

const tmplBase = `
{{define "base"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Architecture Metrics Calculator</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:system-ui,sans-serif;background:#0d1117;color:#c9d1d9;font-size:13px;line-height:1.5}
a{color:#58a6ff;text-decoration:none}
nav{background:#161b22;border-bottom:1px solid #30363d;padding:8px 16px}
nav .brand{color:#f0f6fc;font-weight:700;font-size:15px}
main{padding:16px;max-width:1100px}
h1{font-size:16px;font-weight:700;color:#f0f6fc;margin-bottom:12px}
h2{font-size:13px;font-weight:600;color:#8b949e;text-transform:uppercase;letter-spacing:.06em;margin:16px 0 8px}
.cards{display:flex;gap:12px;flex-wrap:wrap;margin-bottom:16px}
.card{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:12px 16px;min-width:120px}
.card .val{font-size:22px;font-weight:700;color:#f0f6fc}
.card .lbl{font-size:11px;color:#8b949e;margin-top:2px}
table{width:100%;border-collapse:collapse;font-size:12px}
th{text-align:left;padding:6px 10px;border-bottom:1px solid #30363d;color:#8b949e;font-weight:600;font-size:11px;text-transform:uppercase}
td{padding:5px 10px;border-bottom:1px solid #21262d;vertical-align:top}
td.num{text-align:right;font-variant-numeric:tabular-nums}
.section{background:#161b22;border:1px solid #30363d;border-radius:6px;margin-bottom:16px;overflow:hidden}
details{border-bottom:1px solid #21262d}
summary{cursor:pointer;padding:6px 10px;color:#f0f6fc}
.tag{display:inline-block;padding:1px 6px;border-radius:4px;font-size:11px;background:#21262d;color:#8b949e;border:1px solid #30363d}
.err{color:#f87171;margin-bottom:12px}
.dim{color:#8b949e}
form{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:16px;display:flex;gap:12px;align-items:center}
button{background:#1f6feb;border:none;color:#fff;padding:6px 14px;border-radius:4px;cursor:pointer}
</style>
</head>
<body>
<nav><a class="brand" href="/">Architecture Metrics Calculator</a></nav>
<main>{{template "content" .}}</main>
</body>
</html>{{end}}
`

// ── Upload form ───────────────────────────────────────────────────────────────

const tmplIndex = `
{{define "content"}}
<h1>Upload Draw.io XML file</h1>
{{if .Error}}<p class="err">{{.Error}}</p>{{end}}
<form method="post" action="/analyze" enctype="multipart/form-data">
  <input type="file" name="file" accept=".drawio,.xml,.dio" required>
  <button type="submit">Analyze</button>
</form>
<p class="dim" style="margin-top:8px">Max upload {{.MaxUpload}} bytes. Flows are read from the <code>flow</code> and <code>step</code> attributes; response time from <code>responseTime</code> or <code>RenderingTime</code>.</p>
{{end}}
`

// ── Report ────────────────────────────────────────────────────────────────────

const tmplReport = `
{{define "content"}}
{{$r := .Report}}
<h1>{{if $r.Name}}{{$r.Name}}{{else}}Diagram{{end}} <span class="tag">{{$r.ID}}</span></h1>
<div class="cards">
  <div class="card"><div class="val">{{len $r.Flows}}</div><div class="lbl">flows</div></div>
  <div class="card"><div class="val">{{len $r.Nodes}}</div><div class="lbl">nodes</div></div>
  <div class="card"><div class="val">{{len $r.Edges}}</div><div class="lbl">edges</div></div>
  <div class="card"><div class="val">{{ms $r.TotalResponseTime}}</div><div class="lbl">total response time (ms)</div></div>
</div>

<h2>Flow Response Times</h2>
<div class="section">
{{if $r.Flows}}
<table>
<tr><th>Flow ID</th><th>Source</th><th>Target</th><th>Total Response Time (ms)</th></tr>
{{range $r.Flows}}
<tr><td>{{.FlowID}}</td><td>{{orDash .Source}}</td><td>{{orDash .Target}}</td><td class="num">{{ms .TotalResponseTime}}</td></tr>
{{end}}
</table>
{{else}}<p class="dim" style="padding:10px">No flows found.</p>{{end}}
</div>

{{if $r.Flows}}
<h2>Flow Steps</h2>
<div class="section">
{{range $r.Flows}}
<details>
<summary>{{.FlowID}} <span class="dim">({{.StepCount}} steps, declared {{ms .DeclaredResponseTime}} ms)</span></summary>
<table>
<tr><th>#</th><th>Step</th><th>Element</th><th>Source</th><th>Target</th><th>Step Response Time (ms)</th><th>Target Response Time (ms)</th></tr>
{{range $i, $s := .Steps}}
<tr><td>{{add $i 1}}</td><td>{{$s.Step}}</td><td>{{orDash $s.ID}}</td><td>{{orDash $s.SourceLabel}}</td><td>{{orDash $s.TargetLabel}}</td><td class="num">{{ms $s.ResponseTime}}</td><td class="num">{{ms $s.TargetResponseTime}}</td></tr>
{{end}}
</table>
</details>
{{end}}
</div>
{{end}}

<h2>Nodes</h2>
<div class="section">
<table>
<tr><th>ID</th><th>Label</th><th>Category</th><th>Response Time (ms)</th></tr>
{{range $r.Nodes}}
<tr><td>{{.ID}}</td><td>{{orDash .Label}}</td><td>{{if .Category}}<span class="tag">{{.Category}}</span>{{end}}</td><td class="num">{{ms .ResponseTime}}</td></tr>
{{end}}
</table>
</div>

{{if $r.Edges}}
<h2>Edges</h2>
<div class="section">
<table>
<tr><th>ID</th><th>Source</th><th>Target</th><th>Label</th></tr>
{{range $r.Edges}}
<tr><td>{{.ID}}</td><td>{{.Source}}</td><td>{{.Target}}</td><td>{{orDash .Label}}</td></tr>
{{end}}
</table>
</div>
{{end}}

{{if $r.Notes}}
<h2>Notes</h2>
<div class="section"><ul style="padding:10px 28px">
{{range $r.Notes}}<li>{{.}}</li>{{end}}
</ul></div>
{{end}}
<p><a href="/">Analyze another diagram</a></p>
{{end}}
`
