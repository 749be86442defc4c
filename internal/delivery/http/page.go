package http

import (
	"html/template"

	"github.com/gofiber/fiber/v2"
)

type pageData struct {
	Defaults
}

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"seq": func(n int) []int {
		out := make([]int, 0, n+1)
		for i := 0; i <= n; i++ {
			out = append(out, i)
		}
		return out
	},
}).Parse(indexHTML))

// Index serves the single-page UI
func (h *Handler) Index(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return indexTemplate.Execute(c, pageData{Defaults: h.defaults})
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Best Weather Finder</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<style>
  body { font-family: system-ui, sans-serif; margin: 0; display: flex; height: 100vh; }
  #panel { width: 340px; padding: 16px; box-sizing: border-box; overflow-y: auto; background: #fafafa; }
  #map { flex: 1; }
  h1 { font-size: 1.4em; margin: 0 0 4px; }
  .subtitle { color: #666; margin: 0 0 16px; }
  label { display: block; margin: 10px 0 4px; font-weight: 600; }
  input, select, button { width: 100%; box-sizing: border-box; padding: 6px; }
  button { margin-top: 14px; cursor: pointer; }
  #status { margin-top: 12px; min-height: 1.2em; }
  .error { color: #c62828; }
  #results li { margin: 2px 0; }
  .best { font-weight: 700; color: #2e7d32; }
</style>
</head>
<body>
<div id="panel">
  <h1>Best Weather Finder</h1>
  <p class="subtitle">Your solution to summer, wherever and whenever!</p>

  <label for="name">Location</label>
  <input id="name" type="text" placeholder="e.g. Aachen">
  <div id="choices" hidden>
    <label for="choice">Which one?</label>
    <select id="choice"></select>
  </div>

  <label for="radius">Radius: <span id="radiusOut">{{.RadiusKm}}</span> km</label>
  <input id="radius" type="range" min="0" max="{{.MaxRadiusKm}}" step="1" value="{{.RadiusKm}}">

  <label for="population">Minimum population</label>
  <input id="population" type="number" min="0" value="{{.MinPopulation}}">

  <label for="days">Days from today</label>
  <select id="days">
    {{range $d := seq .MaxDaysAhead}}<option value="{{$d}}">{{$d}}</option>{{end}}
  </select>

  <label>Weights (temperature / wind / rain)</label>
  <input id="wTemp" type="number" step="0.05" min="0" value="{{.Weights.Temp}}">
  <input id="wWind" type="number" step="0.05" min="0" value="{{.Weights.Wind}}">
  <input id="wRain" type="number" step="0.05" min="0" value="{{.Weights.Rain}}">

  <button id="find">Find the best weather</button>
  <div id="status"></div>
  <ol id="results"></ol>
</div>
<div id="map"></div>

<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script>
const map = L.map('map').setView([50.0, 10.0], 5);
L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
const layer = L.layerGroup().addTo(map);

const $ = id => document.getElementById(id);
$('radius').addEventListener('input', e => { $('radiusOut').textContent = e.target.value; });
$('name').addEventListener('input', () => { $('choices').hidden = true; });

function status(text, isError) {
  $('status').textContent = text;
  $('status').className = isError ? 'error' : '';
}

async function find() {
  const body = {
    name: $('name').value,
    radius_km: Number($('radius').value),
    min_population: Number($('population').value),
    days_ahead: Number($('days').value),
    weights: { temp: Number($('wTemp').value), wind: Number($('wWind').value), rain: Number($('wRain').value) }
  };
  if (!$('choices').hidden) body.choice = Number($('choice').value);

  status('Searching, fetching forecasts one town at a time...');
  $('results').innerHTML = '';
  layer.clearLayers();

  let data;
  try {
    const resp = await fetch('/api/v1/find', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify(body)
    });
    data = await resp.json();
  } catch (err) {
    status('Request failed: ' + err, true);
    return;
  }

  const s = data.session || {};
  if (s.state === 'awaiting_disambiguation') {
    const sel = $('choice');
    sel.innerHTML = '';
    s.matches.forEach((m, i) => {
      const opt = document.createElement('option');
      opt.value = i;
      opt.textContent = m.name + (m.hint ? ' (' + m.hint + ')' : '');
      sel.appendChild(opt);
    });
    $('choices').hidden = false;
    status(data.message);
    return;
  }
  if (!data.success) {
    status(data.message || (s.failure && s.failure.message) || 'Something went wrong', true);
    return;
  }

  const report = s.report;
  status((data.message ? data.message + '. ' : '') + (report.best ? 'Best: ' + report.best : 'No location has matching weather on that day'));
  const bounds = [];
  (data.markers || []).forEach(m => {
    const marker = L.circleMarker([m.lat, m.lon], {
      radius: m.is_home ? 10 : 8,
      color: m.is_home ? '#1565c0' : m.color,
      fillColor: m.color,
      fillOpacity: 0.85,
      weight: m.is_home ? 3 : 1
    }).bindPopup(m.popup);
    marker.addTo(layer);
    bounds.push([m.lat, m.lon]);

    const li = document.createElement('li');
    li.textContent = m.popup;
    if (m.highlight) li.className = 'best';
    $('results').appendChild(li);
  });
  if (bounds.length) map.fitBounds(bounds, { padding: [30, 30] });
}

$('find').addEventListener('click', find);
</script>
</body>
</html>
`
