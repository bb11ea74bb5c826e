package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/noise-meter/internal/status"
	"github.com/sweeney/noise-meter/internal/store"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"db": func(v float64) string {
		return fmt.Sprintf("%.1f dB", v)
	},
	"pct": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Noise Meter</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.level { font-size: 2em; font-weight: bold; }
.pending { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Noise Meter</h1>

<h2>Level</h2>
<table>
<tr><th>Current</th><td class="level">{{if .Ready}}{{db .Level}}{{else}}<span class="pending">no signal yet</span>{{end}}</td></tr>
<tr><th>Duty cycle</th><td>{{if .Ready}}{{pct .DutyCyclePercent}}{{else}}&mdash;{{end}}</td></tr>
<tr><th>Peak since start</th><td>{{db .PeakLevel}}</td></tr>
<tr><th>Last window peak</th><td>{{db .WindowPeak}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Serial</th><td>{{if .Config.SerialPort}}{{.Config.SerialPort}} @ {{.Config.Baud}}{{else}}stdout{{end}}</td></tr>
</table>

<h2>Counters</h2>
<table>
<tr><th>Edges</th><td>{{.Counts.Edges}}</td></tr>
<tr><th>Readings</th><td>{{.Counts.Readings}}</td></tr>
<tr><th>Suppressed cycles</th><td>{{.Counts.Suppressed}}</td></tr>
<tr><th>Windows</th><td>{{.Counts.Windows}}</td></tr>
<tr><th>Stored events</th><td>{{.StoredEvents}}</td></tr>
</table>

{{if .Events}}<h2>Recent Noise Events</h2>
<table>
<tr><th>Time</th><th>Level</th></tr>
{{range .Events}}<tr><td>{{.Timestamp.UTC.Format "2006-01-02T15:04:05Z"}}</td><td>{{db .Decibels}}</td></tr>
{{end}}</table>{{end}}

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Pin</th><td>{{.Config.Pin}}</td></tr>
<tr><th>Cadence</th><td>{{.Config.CadenceMs}}ms</td></tr>
<tr><th>Window</th><td>{{.Config.WindowMs}}ms</td></tr>
<tr><th>Min event level</th><td>{{db .Config.MinLevel}}</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot, events []store.Event) {
	// Snapshot has Uptime() method but the template needs plain fields.
	data := struct {
		status.Snapshot
		Uptime time.Duration
		Events []store.Event
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Events:   events,
	}
	indexTmpl.Execute(w, data)
}
