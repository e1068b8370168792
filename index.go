// Copyright 2026 The eye-mon Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

const indexTmpl = `<!DOCTYPE html>
<html>
	<head>
		<title>Third Eye - {{.Hostname}}</title>
		<meta name="viewport" content="width=device-width, initial-scale=1">
		<style>
		body {
			font-family: sans-serif;
			margin: 0;
		}
		#header {
			display: flex;
			justify-content: space-between;
			padding: 0.5em 1em;
			background: #222;
			color: #eee;
		}
		#heartbeat.unhealthy {
			color: #e55;
		}
		.nav button.active {
			background: #18a2b8;
			color: #fff;
		}
		.panel {
			display: none;
			padding: 1em;
		}
		.panel.visible {
			display: block;
		}
		.chart-style {
			font-size: 14px;
			line-height: 1.2em;
		}
		#spinner {
			display: none;
			position: fixed;
			top: 50%;
			left: 50%;
		}
		#spinner.on {
			display: block;
		}
		#gallery {
			display: none;
			position: fixed;
			inset: 0;
			background: rgba(0, 0, 0, 0.9);
			color: #eee;
			text-align: center;
		}
		#gallery.open {
			display: block;
		}
		#gallery img {
			max-width: 95%;
			max-height: 75vh;
		}
		</style>
	</head>

	<body>
		<div id="header">
			<span>Third Eye @ {{.Hostname}}</span>
			<span id="heartbeat">Last Heart Beat: N/A</span>
		</div>

		<div class="nav">
			<button id="btn-video-stream" data-panel="0">{{index .Panels 0}}</button>
			<button id="btn-motion-analysis" data-panel="1">{{index .Panels 1}}</button>
			<button id="btn-objects-analysis" data-panel="2">{{index .Panels 2}}</button>
			<button id="btn-forensics" data-panel="3">{{index .Panels 3}}</button>
		</div>

		<div id="panels">
			<div id="video-stream" class="panel">
				<img src="{{.VideoURL}}" alt="live video stream" style="max-width: 100%">
			</div>
			<div id="motion-analysis" class="panel">
				<div class="chart chart-style"></div>
			</div>
			<div id="objects-analysis" class="panel">
				<div class="chart chart-style"></div>
			</div>
			<div id="forensics" class="panel">
				<form id="forensics-form">
					<fieldset>
						<legend>Image types</legend>
						{{range .Categories}}
						<label><input type="checkbox" name="category" value="{{.}}" checked> {{.}}</label>
						{{end}}
					</fieldset>
					<label>From <input type="date" id="from-date"> <input type="time" id="from-time"></label>
					<label>To <input type="date" id="to-date"> <input type="time" id="to-time"></label>
					<button type="submit" id="show-slideshow">Show Slideshow</button>
				</form>
				<p>Searches cover the last {{.HistoricalDays}} days.</p>
			</div>
		</div>

		<div id="spinner">Loading...</div>

		<div id="gallery">
			<p><button id="gallery-prev">&lt;</button> <span id="gallery-pos"></span> <button id="gallery-next">&gt;</button> <button id="gallery-close">close</button></p>
			<img id="gallery-img" alt="">
			<h3 id="gallery-title"></h3>
			<p id="gallery-descr"></p>
		</div>

		<script type="text/javascript">
		var sock = null;
		var gallery = {items: [], pos: 0};

		function send(ev) {
			if (sock !== null && sock.readyState === WebSocket.OPEN) {
				sock.send(JSON.stringify(ev));
			}
		}

		function layout(data) {
			data.panels.forEach(function(p) {
				document.getElementById(p.id).classList.toggle("visible", p.visible);
				document.getElementById(p.button).classList.toggle("active", p.active);
			});
		}

		function defaults(d) {
			var from = document.getElementById("from-date");
			var to = document.getElementById("to-date");
			[from, to].forEach(function(e) {
				e.min = d.min_date;
				e.max = d.max_date;
			});
			from.value = d.from_date;
			to.value = d.to_date;
			document.getElementById("from-time").value = d.from_time;
			document.getElementById("to-time").value = d.to_time;
		}

		function showItem() {
			var it = gallery.items[gallery.pos];
			document.getElementById("gallery-img").src = it.src;
			document.getElementById("gallery-title").textContent = it.title;
			document.getElementById("gallery-descr").textContent = it.description;
			document.getElementById("gallery-pos").textContent = (gallery.pos+1)+"/"+gallery.items.length;
		}

		function openGallery(items) {
			gallery.items = items;
			gallery.pos = 0;
			showItem();
			document.getElementById("gallery").classList.add("open");
		}

		function update(data) {
			switch (data.type) {
			case "layout":
				layout(data);
				break;
			case "spinner":
				document.getElementById("spinner").classList.toggle("on", data.on);
				break;
			case "chart":
				document.querySelector("#"+data.panel+" .chart").innerHTML = data.svg;
				break;
			case "alert":
				alert(data.msg);
				break;
			case "forensics-defaults":
				defaults(data.defaults);
				break;
			case "gallery":
				openGallery(data.items);
				break;
			case "heartbeat":
				var hb = document.getElementById("heartbeat");
				hb.textContent = data.text;
				hb.classList.toggle("unhealthy", !data.ok);
				break;
			}
		}

		function swipes(elem) {
			var x0 = null, y0 = null;
			elem.addEventListener("touchstart", function(e) {
				x0 = e.touches[0].clientX;
				y0 = e.touches[0].clientY;
			}, {passive: true});
			elem.addEventListener("touchend", function(e) {
				if (x0 === null) {
					return;
				}
				var dx = e.changedTouches[0].clientX - x0;
				var dy = e.changedTouches[0].clientY - y0;
				x0 = null;
				if (Math.abs(dx) < 50 || Math.abs(dx) < Math.abs(dy)) {
					return;
				}
				send({type: "swipe", dir: dx < 0 ? "left" : "right"});
			}, {passive: true});
		}

		window.onload = function() {
			var proto = location.protocol === "https:" ? "wss://" : "ws://";
			sock = new WebSocket(proto+location.host+"/data");
			sock.onmessage = function(event) {
				update(JSON.parse(event.data));
			};

			document.querySelectorAll(".nav button").forEach(function(b) {
				b.onclick = function() {
					send({type: "tap", panel: parseInt(b.dataset.panel, 10)});
				};
			});
			swipes(document.getElementById("panels"));

			document.getElementById("forensics-form").onsubmit = function(e) {
				e.preventDefault();
				var cats = [];
				document.querySelectorAll("input[name=category]:checked").forEach(function(c) {
					cats.push(c.value);
				});
				send({type: "search", query: {
					categories: cats,
					from_date: document.getElementById("from-date").value,
					to_date: document.getElementById("to-date").value,
					from_time: document.getElementById("from-time").value,
					to_time: document.getElementById("to-time").value
				}});
			};

			document.getElementById("gallery-close").onclick = function() {
				document.getElementById("gallery").classList.remove("open");
			};
			document.getElementById("gallery-prev").onclick = function() {
				gallery.pos = (gallery.pos + gallery.items.length - 1) % gallery.items.length;
				showItem();
			};
			document.getElementById("gallery-next").onclick = function() {
				gallery.pos = (gallery.pos + 1) % gallery.items.length;
				showItem();
			};
		};
		</script>
	</body>
</html>
`
