package server

// dashboardHTML is the single-page browser dashboard. It opens a WebSocket
// to /ws for live snapshots and fetches /api/inventory and /api/setup-check
// on demand.
const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>hwpulse</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif;
         background: #1a1b26; color: #c0caf5; padding: 20px; }
  h1 { font-size: 1.4rem; margin-bottom: 4px; }
  .sub { color: #565f89; font-size: 0.85rem; margin-bottom: 16px; }
  .tabs { display: flex; gap: 8px; margin-bottom: 16px; }
  .tabs button { background: #24283b; color: #c0caf5; border: 1px solid #414868;
                 border-radius: 6px; padding: 6px 14px; cursor: pointer; }
  .tabs button.active { background: #7aa2f7; color: #1a1b26; border-color: #7aa2f7; }
  .grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(320px, 1fr)); gap: 14px; }
  .card { background: #24283b; border: 1px solid #414868; border-radius: 8px; padding: 14px; }
  .card h2 { font-size: 0.95rem; color: #7aa2f7; margin-bottom: 10px; }
  .row { display: flex; justify-content: space-between; font-size: 0.85rem; padding: 2px 0; }
  .row span:last-child { color: #9ece6a; }
  .bar { height: 8px; background: #414868; border-radius: 4px; overflow: hidden; margin: 4px 0 8px; }
  .bar div { height: 100%; background: #9ece6a; transition: width 0.4s; }
  .bar div.warn { background: #e0af68; }
  .bar div.crit { background: #f7768e; }
  .muted { color: #565f89; }
  .check { border-left: 4px solid #414868; padding: 10px 12px; margin-bottom: 10px;
           background: #24283b; border-radius: 4px; font-size: 0.85rem; }
  .check.pass { border-color: #9ece6a; }
  .check.warn { border-color: #e0af68; }
  .check.fail { border-color: #f7768e; }
  #status { font-size: 0.8rem; }
  #status.up { color: #9ece6a; }
  #status.down { color: #f7768e; }
</style>
</head>
<body>
<h1>hwpulse</h1>
<div class="sub">host hardware telemetry &middot; <span id="status" class="down">connecting&hellip;</span></div>

<div class="tabs">
  <button id="tab-live" class="active" onclick="showTab('live')">Live</button>
  <button id="tab-inventory" onclick="showTab('inventory')">Inventory</button>
  <button id="tab-setup" onclick="showTab('setup')">Setup Check</button>
</div>

<div id="view-live" class="grid"></div>
<div id="view-inventory" style="display:none"></div>
<div id="view-setup" style="display:none"></div>

<script>
function fmtBytes(n) {
  if (n == null) return "n/a";
  const units = ["B", "KiB", "MiB", "GiB", "TiB"];
  let i = 0;
  while (n >= 1024 && i < units.length - 1) { n /= 1024; i++; }
  return n.toFixed(i === 0 ? 0 : 1) + " " + units[i];
}

function barClass(pct) { return pct >= 90 ? "crit" : pct >= 70 ? "warn" : ""; }

function bar(pct) {
  const p = Math.max(0, Math.min(100, pct || 0));
  return '<div class="bar"><div class="' + barClass(p) + '" style="width:' + p + '%"></div></div>';
}

function row(label, value) {
  return '<div class="row"><span>' + label + '</span><span>' + value + '</span></div>';
}

function render(snap) {
  let html = "";

  let cpu = '<div class="card"><h2>CPU</h2>';
  cpu += row("Overall", snap.cpu.overall.toFixed(1) + "%") + bar(snap.cpu.overall);
  if (snap.cpu.frequency_mhz != null) cpu += row("Frequency", snap.cpu.frequency_mhz.toFixed(0) + " MHz");
  cpu += row("Cores", snap.cpu.cores);
  (snap.cpu.per_core || []).forEach((p, i) => { cpu += row("Core " + i, p.toFixed(1) + "%"); });
  cpu += "</div>";
  html += cpu;

  let mem = '<div class="card"><h2>Memory</h2>';
  mem += row("Used", fmtBytes(snap.memory.used) + " / " + fmtBytes(snap.memory.total)) + bar(snap.memory.percent);
  mem += row("Available", fmtBytes(snap.memory.available));
  mem += row("Swap", fmtBytes(snap.memory.swap_used) + " / " + fmtBytes(snap.memory.swap_total));
  mem += "</div>";
  html += mem;

  let disks = '<div class="card"><h2>Disks</h2>';
  (snap.disks || []).forEach(d => {
    disks += row(d.mountpoint, d.percent.toFixed(1) + "% of " + fmtBytes(d.total)) + bar(d.percent);
  });
  if (!snap.disks || snap.disks.length === 0) disks += '<span class="muted">no disks</span>';
  disks += "</div>";
  html += disks;

  let net = '<div class="card"><h2>Network</h2>';
  (snap.network || []).forEach(n => {
    net += row(n.name + (n.is_up ? "" : " (down)"),
      "tx " + fmtBytes(n.bytes_sent) + " / rx " + fmtBytes(n.bytes_recv));
  });
  if (!snap.network || snap.network.length === 0) net += '<span class="muted">no interfaces</span>';
  net += "</div>";
  html += net;

  if (snap.gpu && snap.gpu.length > 0) {
    snap.gpu.forEach(g => {
      let card = '<div class="card"><h2>GPU ' + g.index + ": " + g.name + "</h2>";
      if (g.utilization != null) card += row("Utilization", g.utilization.toFixed(0) + "%") + bar(g.utilization);
      if (g.memory_percent != null)
        card += row("Memory", fmtBytes(g.memory_used) + " / " + fmtBytes(g.memory_total)) + bar(g.memory_percent);
      if (g.temperature != null) card += row("Temperature", g.temperature.toFixed(0) + " &deg;C");
      if (g.power != null) card += row("Power", g.power.toFixed(1) + " W");
      card += "</div>";
      html += card;
    });
  } else {
    html += '<div class="card"><h2>GPU</h2><span class="muted">No GPU detected</span></div>';
  }

  document.getElementById("view-live").innerHTML = html;
}

function connect() {
  const proto = location.protocol === "https:" ? "wss:" : "ws:";
  const ws = new WebSocket(proto + "//" + location.host + "/ws");
  const status = document.getElementById("status");
  ws.onopen = () => { status.textContent = "live"; status.className = "up"; };
  ws.onmessage = e => render(JSON.parse(e.data));
  ws.onclose = () => {
    status.textContent = "disconnected, retrying";
    status.className = "down";
    setTimeout(connect, 2000);
  };
}

function showTab(name) {
  ["live", "inventory", "setup"].forEach(t => {
    document.getElementById("view-" + t).style.display = t === name ? "" : "none";
    document.getElementById("tab-" + t).className = t === name ? "active" : "";
  });
  if (name === "inventory") loadInventory();
  if (name === "setup") loadSetupCheck();
}

async function loadInventory() {
  const el = document.getElementById("view-inventory");
  el.innerHTML = '<span class="muted">loading&hellip;</span>';
  try {
    const inv = await (await fetch("/api/inventory")).json();
    let html = '<div class="grid">';
    html += '<div class="card"><h2>System</h2>' +
      row("Hostname", inv.system.hostname) +
      row("OS", inv.system.os + " " + inv.system.os_version) +
      row("Kernel", inv.system.kernel_version) + "</div>";
    html += '<div class="card"><h2>CPU</h2>' +
      row("Model", inv.cpu.model || "unknown") +
      row("Physical cores", inv.cpu.physical_cores) +
      row("Logical threads", inv.cpu.logical_threads) + "</div>";
    html += '<div class="card"><h2>Memory</h2>' +
      row("Total", fmtBytes(inv.memory.total_bytes)) +
      row("Used", fmtBytes(inv.memory.used_bytes) + " (" + inv.memory.usage_percent.toFixed(1) + "%)") + "</div>";
    if (inv.gpu && inv.gpu.gpu_count > 0) {
      let card = '<div class="card"><h2>GPU</h2>' +
        row("Driver", inv.gpu.driver_version || "n/a") +
        row("CUDA", inv.gpu.cuda_version || "n/a");
      inv.gpu.gpus.forEach(g => {
        card += row("GPU " + g.index, g.name + " (" + fmtBytes(g.total_memory_bytes) + ")");
      });
      html += card + "</div>";
    }
    html += "</div>";
    el.innerHTML = html;
  } catch (err) {
    el.innerHTML = '<span class="muted">error loading inventory: ' + err + "</span>";
  }
}

async function loadSetupCheck() {
  const el = document.getElementById("view-setup");
  el.innerHTML = '<span class="muted">running checks&hellip;</span>';
  try {
    const report = await (await fetch("/api/setup-check")).json();
    let html = "";
    report.results.forEach(r => {
      html += '<div class="check ' + r.status + '"><strong>' + r.name + "</strong> &mdash; " +
        r.status.toUpperCase() + "<br>" + r.message;
      if (r.recommendation) html += '<br><span class="muted">' + r.recommendation + "</span>";
      html += "</div>";
    });
    el.innerHTML = html;
  } catch (err) {
    el.innerHTML = '<span class="muted">error running checks: ' + err + "</span>";
  }
}

connect();
</script>
</body>
</html>
`
