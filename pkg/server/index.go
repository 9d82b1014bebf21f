package server

// indexHTML is the thin client: it sends command frames and applies
// patch batches to the real DOM. The wire decoding mirrors
// pkg/protocol: 6-byte frame header, varints, length-prefixed strings.
var indexHTML = []byte(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>rowbench</title>
<style>
body { font-family: sans-serif; margin: 1rem; }
table { border-collapse: collapse; width: 100%; }
td { padding: 2px 8px; }
tr.danger { background: #fdd; }
a { cursor: pointer; color: #06c; }
#toolbar button { margin-right: 4px; }
</style>
</head>
<body>
<div id="toolbar">
<button data-cmd="1" data-arg="1000">Create 1,000</button>
<button data-cmd="1" data-arg="10000">Create 10,000</button>
<button data-cmd="2" data-arg="1000">Append 1,000</button>
<button data-cmd="3">Update every 10th</button>
<button data-cmd="5">Swap</button>
<button data-cmd="4">Clear</button>
</div>
<div id="root"></div>
<script>
"use strict";

const OP = {CREATE_EL:1, CREATE_TEXT:2, SET_TEXT:3, SET_ATTR:4, REMOVE_ATTR:5,
            INSERT:6, MOVE:7, REMOVE:8, CLEAR:9};
const FRAME = {COMMAND:1, PATCHES:2, ERROR:3, PING:4, PONG:5};

const nodes = new Map();
const root = document.getElementById("root");

class Reader {
  constructor(buf) { this.v = new Uint8Array(buf); this.pos = 0; }
  byte() { return this.v[this.pos++]; }
  uvarint() {
    let x = 0, shift = 0;
    for (;;) {
      const b = this.byte();
      x += (b & 0x7f) * Math.pow(2, shift);
      if (b < 0x80) return x;
      shift += 7;
    }
  }
  string() {
    const n = this.uvarint();
    const s = new TextDecoder().decode(this.v.subarray(this.pos, this.pos + n));
    this.pos += n;
    return s;
  }
}

function node(id) {
  if (id === 0) return root;
  return nodes.get(id) || null;
}

function applyPatches(r) {
  r.uvarint(); // seq
  const count = r.uvarint();
  for (let i = 0; i < count; i++) {
    const op = r.byte();
    switch (op) {
    case OP.CREATE_EL: {
      const id = r.uvarint();
      nodes.set(id, document.createElement(r.string()));
      break;
    }
    case OP.CREATE_TEXT: {
      const id = r.uvarint();
      nodes.set(id, document.createTextNode(r.string()));
      break;
    }
    case OP.SET_TEXT:
      node(r.uvarint()).textContent = r.string();
      break;
    case OP.SET_ATTR: {
      const el = node(r.uvarint());
      el.setAttribute(r.string(), r.string());
      break;
    }
    case OP.REMOVE_ATTR:
      node(r.uvarint()).removeAttribute(r.string());
      break;
    case OP.INSERT:
    case OP.MOVE: {
      const el = node(r.uvarint());
      const parent = node(r.uvarint());
      const before = r.uvarint();
      parent.insertBefore(el, before ? node(before) : null);
      break;
    }
    case OP.REMOVE: {
      const id = r.uvarint();
      const parent = node(r.uvarint());
      parent.removeChild(node(id));
      nodes.delete(id);
      break;
    }
    case OP.CLEAR:
      node(r.uvarint()).replaceChildren();
      break;
    default:
      throw new Error("unknown patch op " + op);
    }
  }
}

function sendCommand(op, arg) {
  // Command payload: [op byte][zigzag varint arg]
  const zz = arg >= 0 ? arg * 2 : -arg * 2 - 1;
  const body = [op];
  let v = zz;
  while (v >= 0x80) { body.push((v & 0x7f) | 0x80); v = Math.floor(v / 128); }
  body.push(v);
  const buf = new Uint8Array(6 + body.length);
  buf[0] = FRAME.COMMAND;
  buf[2] = body.length >>> 24; buf[3] = (body.length >>> 16) & 0xff;
  buf[4] = (body.length >>> 8) & 0xff; buf[5] = body.length & 0xff;
  buf.set(body, 6);
  ws.send(buf);
}

const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.binaryType = "arraybuffer";
ws.onmessage = (ev) => {
  const r = new Reader(ev.data);
  const type = r.byte();
  r.byte(); // flags
  r.pos += 4; // length
  if (type === FRAME.PATCHES) {
    applyPatches(r);
  } else if (type === FRAME.ERROR) {
    r.uvarint();
    console.error("server error:", r.string());
  }
};

document.getElementById("toolbar").addEventListener("click", (ev) => {
  const btn = ev.target.closest("button[data-cmd]");
  if (!btn) return;
  sendCommand(Number(btn.dataset.cmd), Number(btn.dataset.arg || 0));
});

root.addEventListener("click", (ev) => {
  const a = ev.target.closest("a[data-action]");
  if (!a) return;
  ev.preventDefault();
  const id = Number(a.dataset.id);
  sendCommand(a.dataset.action === "remove" ? 7 : 6, id);
});
</script>
</body>
</html>
`)
