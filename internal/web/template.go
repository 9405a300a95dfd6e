package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/GeekMada/hydropi/internal/status"
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
	"onOff": func(on bool) string {
		if on {
			return "ON"
		}
		return "OFF"
	},
	"temp": func(valid bool, c float64) string {
		if !valid {
			return "no reading"
		}
		return fmt.Sprintf("%.1f °C", c)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="30">
<title>Hydropi</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Growing Enclosure</h1>

<h2>Culture</h2>
<table>
<tr><th>Growth stage</th><td>{{.Control.Phase.Label}}</td></tr>
<tr><th>Cycle</th><td>{{if .CycleDay}}day {{.CycleDay}} of {{.CycleDays}}{{else}}starting{{end}}</td></tr>
<tr><th>Period</th><td>{{if .Control.DayKnown}}{{if .Control.Day}}day{{else}}night{{end}}{{else}}unknown{{end}}</td></tr>
<tr><th>Lighting window</th><td>{{printf "%02d:00" .Config.DayStart}} to {{printf "%02d:00" .Config.DayEnd}}</td></tr>
</table>

<h2>Climate</h2>
<table>
<tr><th>Temperature</th><td class="{{if not .Control.TempValid}}unknown{{end}}">{{temp .Control.TempValid .Control.TempC}}</td></tr>
<tr><th>Fan</th><td class="{{if .Control.Fan}}on{{else}}off{{end}}">{{onOff .Control.Fan}}</td></tr>
<tr><th>Heater</th><td class="{{if .Control.Heater}}on{{else}}off{{end}}">{{onOff .Control.Heater}}</td></tr>
<tr><th>Light</th><td class="{{if .Control.Light}}on{{else}}off{{end}}">{{onOff .Control.Light}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} — {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>FAN ON</th><td>{{.Control.Counts.FanOn}}</td></tr>
<tr><th>FAN OFF</th><td>{{.Control.Counts.FanOff}}</td></tr>
<tr><th>HEATER ON</th><td>{{.Control.Counts.HeaterOn}}</td></tr>
<tr><th>HEATER OFF</th><td>{{.Control.Counts.HeaterOff}}</td></tr>
<tr><th>LIGHT ON</th><td>{{.Control.Counts.LightOn}}</td></tr>
<tr><th>LIGHT OFF</th><td>{{.Control.Counts.LightOff}}</td></tr>
<tr><th>STAGE CHANGES</th><td>{{.Control.Counts.PhaseChanges}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Timezone</th><td>{{.Config.Timezone}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
<tr><th>Control orders</th><td>{{.ControlRequests}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> · <a href="/metrics">Metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() and CycleElapsed() methods but the
	// template needs plain fields.
	cycleDay := 0
	if !snap.Control.CycleStart.IsZero() {
		cycleDay = int(snap.CycleElapsed().Hours()/24) + 1
	}
	cycleDays := int((snap.Config.GerminationHours + snap.Config.GrowthHours + snap.Config.FloweringHours) / 24)

	data := struct {
		status.Snapshot
		Uptime    time.Duration
		CycleDay  int
		CycleDays int
	}{
		Snapshot:  snap,
		Uptime:    snap.Uptime(),
		CycleDay:  cycleDay,
		CycleDays: cycleDays,
	}
	indexTmpl.Execute(w, data)
}
