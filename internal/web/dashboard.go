package web

import "net/http"

// Dashboard serves the single-page console UI. The page is a thin
// renderer: all presentation state lives server-side and is polled from
// /console/state and /console/map.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(dashboardHTML))
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Grid Console</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<style>
body { margin: 0; font-family: monospace; background: #0a0e17; color: #d0d8e8; }
header { display: flex; gap: 1rem; padding: .6rem 1rem; background: #111827; align-items: center; }
header button { background: #1f2937; color: #d0d8e8; border: 1px solid #374151; padding: .4rem .8rem; cursor: pointer; }
header button.active { border-color: #00d4ff; color: #00d4ff; }
#connection-status { margin-left: auto; color: #00ff88; }
#connection-status.disconnected { color: #ff4444; }
.panel { display: none; padding: 1rem; }
.panel.active { display: block; }
#network-map { height: 75vh; }
#notifications { position: fixed; bottom: 1rem; right: 1rem; max-width: 24rem; }
.note { padding: .5rem .8rem; margin-top: .4rem; background: #1f2937; border-left: 3px solid #00d4ff; }
.note.error { border-color: #ff4444; }
.note.warning { border-color: #ff8800; }
.note.success { border-color: #00ff88; }
table { border-collapse: collapse; width: 100%; }
td, th { border: 1px solid #374151; padding: .4rem .6rem; text-align: left; }
.device-card { display: inline-block; border: 1px solid #374151; padding: .6rem; margin: .4rem; min-width: 14rem; cursor: pointer; }
.device-detail { border: 1px solid #00d4ff; padding: .8rem; margin: .4rem; }
.device-detail h3 { margin: 0 0 .5rem 0; color: #00d4ff; }
.device-detail button { background: #1f2937; color: #d0d8e8; border: 1px solid #374151; margin: .5rem .4rem 0 0; padding: .3rem .6rem; cursor: pointer; }
.device-detail ul { margin: .4rem 0; color: #ff8800; }
.toggles label { margin-right: 1rem; }
</style>
</head>
<body>
<header>
  <button data-panel="firewall">Firewall</button>
  <button data-panel="scada">SCADA</button>
  <button data-panel="map">Map</button>
  <span id="connection-status">Connected</span>
</header>
<div id="firewall-panel" class="panel"><div id="firewall-status"></div><table><tbody id="firewall-rules-body"></tbody></table></div>
<div id="scada-panel" class="panel"><div id="grid-status"></div><div id="device-detail"></div><div id="scada-devices"></div></div>
<div id="map-panel" class="panel"><div class="toggles" id="overlay-toggles"></div><div id="network-map"></div></div>
<div id="notifications"></div>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script>
let map = null, tileLayer = null, overlayGroups = {}, seenNotes = 0;

async function post(path, body) {
  await fetch(path, {method: 'POST', headers: {'Content-Type': 'application/json'}, body: JSON.stringify(body || {})});
}

document.querySelectorAll('header button').forEach(btn => {
  btn.onclick = async () => { await post('/console/panel', {name: btn.dataset.panel}); refresh(); };
});

window.addEventListener('online', () => post('/console/map/tiles/event', {event: 'online'}));
window.addEventListener('offline', () => post('/console/map/tiles/event', {event: 'offline'}));

function renderState(state) {
  document.querySelectorAll('.panel').forEach(p => p.classList.remove('active'));
  const active = document.getElementById(state.active_panel + '-panel');
  if (active) active.classList.add('active');
  document.querySelectorAll('header button').forEach(b => b.classList.toggle('active', b.dataset.panel === state.active_panel));

  const conn = document.getElementById('connection-status');
  conn.textContent = state.connected ? 'Connected' : 'Disconnected';
  conn.classList.toggle('disconnected', !state.connected);

  const tbody = document.getElementById('firewall-rules-body');
  tbody.innerHTML = '';
  (state.firewall.rules || []).forEach(rule => {
    const tr = document.createElement('tr');
    tr.innerHTML = '<td>' + rule.name + '</td><td>' + rule.source + '</td><td>' + rule.destination +
      '</td><td>' + rule.service + '</td><td>' + rule.action + '</td><td>' + (rule.enabled ? 'Enabled' : 'Disabled') + '</td>';
    tbody.appendChild(tr);
  });
  if (state.firewall.status) {
    const s = state.firewall.status;
    document.getElementById('firewall-status').textContent =
      (s.compromised ? 'COMPROMISED' : 'SECURE') + ' | Rules: ' + s.rule_count +
      ' | IPS: ' + (s.ips_enabled ? 'Enabled' : 'Disabled') + ' | Policy: ' + s.default_policy;
  }

  if (state.scada.grid) {
    const g = state.scada.grid;
    document.getElementById('grid-status').textContent =
      g.current_load + '/' + g.total_capacity + ' MW | ' + g.frequency.toFixed(2) + ' Hz | ' +
      g.grid_stability + ' | ' + g.stations_online + '/' + g.stations_total + ' online';
  }
  const cards = document.getElementById('scada-devices');
  cards.innerHTML = '';
  (state.scada.devices || []).forEach(d => {
    const card = document.createElement('div');
    card.className = 'device-card';
    card.textContent = d.display_name + ' [' + d.display_type + '] ' + d.status;
    card.onclick = async () => { await post('/console/scada/details', {id: d.id}); refresh(); };
    cards.appendChild(card);
  });
  renderDeviceDetail(state.scada.current);

  const notes = document.getElementById('notifications');
  (state.notifications || []).slice(seenNotes).forEach(n => {
    const div = document.createElement('div');
    div.className = 'note ' + n.level;
    div.textContent = n.message;
    notes.appendChild(div);
    setTimeout(() => div.remove(), 6000);
  });
  seenNotes = (state.notifications || []).length;

  if (state.redirect) window.location.hash = state.redirect;
}

function renderDeviceDetail(d) {
  const detail = document.getElementById('device-detail');
  detail.innerHTML = '';
  if (!d) return;

  const box = document.createElement('div');
  box.className = 'device-detail';

  const title = document.createElement('h3');
  title.textContent = d.display_name + ' [' + d.display_type + '] ' + d.status;
  box.appendChild(title);

  const parts = [];
  if (d.voltage != null) parts.push('Voltage: ' + d.voltage + ' V');
  if (d.load != null) parts.push('Load: ' + Math.round(d.load * 100) + '%');
  if (d.temperature != null) parts.push('Temp: ' + d.temperature + ' C');
  if (parts.length) {
    const info = document.createElement('div');
    info.textContent = parts.join(' | ');
    box.appendChild(info);
  }

  if ((d.vulnerabilities || []).length) {
    const vulns = document.createElement('ul');
    d.vulnerabilities.forEach(v => {
      const li = document.createElement('li');
      li.textContent = v;
      vulns.appendChild(li);
    });
    box.appendChild(vulns);
  }
  if (d.credentials) {
    const creds = document.createElement('div');
    creds.textContent = 'Credentials: ' + d.credentials.username + ' / ' + d.credentials.password;
    box.appendChild(creds);
  }

  (d.commands || []).forEach(cmd => {
    const btn = document.createElement('button');
    btn.textContent = cmd.replace(/_/g, ' ');
    btn.onclick = async () => {
      let params = {};
      if (cmd === 'set_voltage') {
        const v = prompt('Enter voltage (V):', d.voltage != null ? d.voltage : 230);
        if (v === null) return;
        params = {voltage: Number(v)};
      } else if (cmd === 'set_load') {
        const v = prompt('Enter load (0-100%):', d.load != null ? Math.round(d.load * 100) : 50);
        if (v === null) return;
        params = {load: Number(v) / 100};
      }
      await post('/console/scada/command', {command: cmd, parameters: params});
      refresh();
    };
    box.appendChild(btn);
  });

  const close = document.createElement('button');
  close.textContent = 'Close';
  close.onclick = async () => { await post('/console/scada/close'); refresh(); };
  box.appendChild(close);

  detail.appendChild(box);
}

function renderMap(data) {
  if (!map) {
    map = L.map('network-map').setView([32.7266, 74.8570], 9);
  }
  if (!tileLayer || tileLayer._template !== data.tile_template) {
    if (tileLayer) map.removeLayer(tileLayer);
    tileLayer = L.tileLayer(data.tile_template, {maxZoom: 19, minZoom: 6});
    tileLayer._template = data.tile_template;
    tileLayer.on('tileerror', () => post('/console/map/tiles/event', {event: 'tileerror'}));
    tileLayer.on('tileload', () => post('/console/map/tiles/event', {event: 'tileload'}));
    tileLayer.addTo(map);
  }

  const toggles = document.getElementById('overlay-toggles');
  toggles.innerHTML = '';
  data.categories.forEach(cat => {
    if (overlayGroups[cat.category]) map.removeLayer(overlayGroups[cat.category]);
    const group = L.layerGroup();
    (cat.layers || []).forEach(l => {
      let obj = null;
      if (l.kind === 'circle') {
        obj = L.circle([l.center.lat, l.center.lon], {radius: l.radius, color: l.style.color,
          fillColor: l.style.fill_color, fillOpacity: l.style.fill_opacity, weight: l.style.weight,
          dashArray: l.style.dash_array, opacity: l.style.opacity});
      } else if (l.kind === 'polyline') {
        obj = L.polyline(l.points.map(p => [p.lat, p.lon]), {color: l.style.color, weight: l.style.weight,
          opacity: l.style.opacity, dashArray: l.style.dash_array});
      } else if (l.kind === 'marker') {
        const icon = l.icon.image
          ? L.icon({iconUrl: l.icon.image, iconSize: [l.icon.width, l.icon.height]})
          : L.divIcon({className: l.icon.class || '', html: l.icon.html || '', iconSize: [l.icon.width, l.icon.height]});
        obj = L.marker([l.at.lat, l.at.lon], {icon: icon});
      }
      if (obj) { if (l.popup) obj.bindPopup(l.popup); group.addLayer(obj); }
    });
    overlayGroups[cat.category] = group;
    if (cat.visible) group.addTo(map);

    const label = document.createElement('label');
    const box = document.createElement('input');
    box.type = 'checkbox';
    box.checked = cat.visible;
    box.onchange = () => post('/console/map/toggle', {category: cat.category, visible: box.checked});
    label.appendChild(box);
    label.appendChild(document.createTextNode(' ' + cat.category.replace(/_/g, ' ')));
    toggles.appendChild(label);
  });
}

async function refresh() {
  try {
    const state = await (await fetch('/console/state')).json();
    renderState(state);
    if (state.active_panel === 'map') {
      renderMap(await (await fetch('/console/map')).json());
    }
  } catch (err) {
    console.error('console refresh failed:', err);
  }
}

refresh();
setInterval(refresh, 2000);
</script>
</body>
</html>
`
