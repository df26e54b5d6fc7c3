package server

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/weavehq/weave/internal/engine"
	"github.com/yuin/goldmark"
)

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>weave</title>
<style>
body { font-family: -apple-system, sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; color: #222; }
.season { padding: 1rem; border-radius: 8px; background: #f0ece4; }
.season.resting { background: #e4ecf0; }
.season.blooming { background: #e8f0e4; }
.suggestion { padding: .5rem 0; border-bottom: 1px solid #eee; }
.urgency { font-size: .8rem; color: #888; text-transform: uppercase; }
.entry { margin: 1.5rem 0; }
.entry h3 { margin-bottom: .2rem; }
.meta { font-size: .85rem; color: #888; }
</style>
</head>
<body>
<h1>weave</h1>

<div class="season {{.Season}}">
  <strong>{{.Season}}</strong> season &middot; score {{printf "%.0f" .Score}}
</div>

<h2>Suggestions</h2>
{{if .Suggestions}}
{{range .Suggestions}}
<div class="suggestion">
  <span class="urgency">{{.Urgency}} &middot; {{.Category}}</span><br>
  {{.Text}}
</div>
{{end}}
{{else}}
<p class="meta">Nothing to nudge right now.</p>
{{end}}

<h2>Journal</h2>
{{if .Entries}}
{{range .Entries}}
<div class="entry">
  <h3>{{.Title}}</h3>
  <div class="meta">{{.EntryDate}}{{if .Mood}} &middot; {{.Mood}}{{end}}</div>
  {{.BodyHTML}}
</div>
{{end}}
{{else}}
<p class="meta">No journal entries yet.</p>
{{end}}
</body>
</html>
`))

type dashboardEntry struct {
	Title     string
	EntryDate string
	Mood      string
	BodyHTML  template.HTML
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	profile, err := s.db.GetProfile()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	suggestions, err := s.engine.Suggestions(now)
	if err != nil {
		log.Printf("dashboard: suggestions: %v", err)
	}

	entries, err := s.db.ListJournalEntries(5)
	if err != nil {
		log.Printf("dashboard: journal: %v", err)
	}

	md := goldmark.New()
	views := make([]dashboardEntry, 0, len(entries))
	for _, e := range entries {
		var buf bytes.Buffer
		if err := md.Convert([]byte(e.Body), &buf); err != nil {
			log.Printf("dashboard: render %s: %v", e.ID, err)
			continue
		}
		views = append(views, dashboardEntry{
			Title:     e.Title,
			EntryDate: e.EntryDate,
			Mood:      e.Mood,
			BodyHTML:  template.HTML(buf.String()),
		})
	}

	data := struct {
		Season      string
		Score       float64
		Suggestions []engine.Suggestion
		Entries     []dashboardEntry
	}{
		Season:      profile.Season,
		Score:       profile.SeasonScore,
		Suggestions: suggestions,
		Entries:     views,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, data); err != nil {
		log.Printf("dashboard: render template: %v", err)
	}
}
