package handlers

import "net/http"

// Configure serves the static configuration page. The page builds the
// base64url token client-side so credentials never transit this server.
func (h *AddonHandler) Configure(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(configurePage))
}

const configurePage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Configure CineMind</title>
<style>
body { font-family: sans-serif; background: #14141e; color: #eee; max-width: 640px; margin: 40px auto; padding: 0 16px; }
input, textarea { width: 100%; padding: 8px; margin: 4px 0 16px; background: #20202e; color: #eee; border: 1px solid #444; border-radius: 4px; box-sizing: border-box; }
button { padding: 10px 24px; background: #7b5bf5; color: #fff; border: 0; border-radius: 4px; cursor: pointer; font-size: 1em; }
code { background: #20202e; padding: 2px 6px; border-radius: 3px; word-break: break-all; }
small { color: #999; }
</style>
</head>
<body>
<h1>CineMind</h1>
<p>AI movie and series suggestions, verified against TMDB.</p>
<label for="tmdb">TMDB API key</label>
<input id="tmdb" type="text" autocomplete="off" placeholder="your TMDB v3 key">
<label for="gemini">Gemini API keys <small>(one per line, tried in order)</small></label>
<textarea id="gemini" rows="4" placeholder="AIza..."></textarea>
<button onclick="install()">Install</button>
<p id="out"></p>
<script>
function install() {
  var tmdbKey = document.getElementById('tmdb').value.trim();
  var geminiKeys = document.getElementById('gemini').value.split('\n')
    .map(function (k) { return k.trim(); })
    .filter(function (k) { return k.length > 0; });
  if (!tmdbKey || geminiKeys.length === 0) {
    document.getElementById('out').textContent = 'Both a TMDB key and at least one Gemini key are required.';
    return;
  }
  var token = btoa(JSON.stringify({ tmdbKey: tmdbKey, geminiKeys: geminiKeys }))
    .replace(/\+/g, '-').replace(/\//g, '_').replace(/=+$/, '');
  var manifestURL = window.location.origin + '/' + token + '/manifest.json';
  document.getElementById('out').innerHTML =
    'Manifest URL: <code>' + manifestURL + '</code>';
  window.location.href = 'stremio://' + window.location.host + '/' + token + '/manifest.json';
}
</script>
</body>
</html>`
