package codegen

import "strings"

// ClientPlugin returns the browser bootstrap module. It opens a websocket to
// path, speaks the same ["event", ...args] packets as the server and is
// typed with the generated Events and ServerEvents maps from ./types.
func ClientPlugin(path string) string {
	if path == "" {
		path = "/socket.io/"
	}
	return strings.Join([]string{
		`import type { Events, ServerEvents } from "./types";`,
		``,
		`type Args<F> = F extends (...args: infer A) => any ? A : never;`,
		`type Listener = (...args: any[]) => void;`,
		``,
		`export type Socket = {`,
		`  emit<K extends keyof Events & string>(event: K, ...args: Args<Events[K]>): void;`,
		`  on<K extends keyof ServerEvents & string>(event: K, listener: ServerEvents[K]): () => void;`,
		`  close(): void;`,
		`  readonly raw: WebSocket;`,
		`};`,
		``,
		`export function createSocket(url?: string): Socket {`,
		`  const scheme = location.protocol === "https:" ? "wss:" : "ws:";`,
		"  const ws = new WebSocket(url ?? `${scheme}//${location.host}" + path + "`);",
		`  const queue: string[] = [];`,
		`  const listeners = new Map<string, Set<Listener>>();`,
		``,
		`  ws.addEventListener("open", () => {`,
		`    for (const packet of queue.splice(0)) ws.send(packet);`,
		`  });`,
		`  ws.addEventListener("message", (msg) => {`,
		`    let packet: unknown;`,
		`    try {`,
		`      packet = JSON.parse(String(msg.data));`,
		`    } catch {`,
		`      return;`,
		`    }`,
		`    if (!Array.isArray(packet) || typeof packet[0] !== "string") return;`,
		`    const [event, ...args] = packet;`,
		`    listeners.get(event)?.forEach((fn) => fn(...args));`,
		`  });`,
		``,
		`  const io: Socket = {`,
		`    emit(event, ...args) {`,
		`      const packet = JSON.stringify([event, ...args]);`,
		`      if (ws.readyState === WebSocket.OPEN) ws.send(packet);`,
		`      else queue.push(packet);`,
		`    },`,
		`    on(event, listener) {`,
		`      const set = listeners.get(event) ?? new Set<Listener>();`,
		`      set.add(listener as Listener);`,
		`      listeners.set(event, set);`,
		`      return () => set.delete(listener as Listener);`,
		`    },`,
		`    close() {`,
		`      ws.close();`,
		`    },`,
		`    raw: ws,`,
		`  };`,
		``,
		`  //@ts-ignore`,
		`  window.$io = io;`,
		``,
		`  return io;`,
		`}`,
		``,
	}, "\n")
}
