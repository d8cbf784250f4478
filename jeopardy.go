// Jeopardy
//
// A board of categories (columns) by clues (rows) is built from a
// jservice-compatible API and shown in the browser. Clicking a cell shows
// its question, clicking again shows the answer, further clicks do nothing.
//
// Features:
// - WebSockets per game ID: /path/:gameid and /path/:gameid/ws
// - Every window open on a game ID shows the same board
// - Start/restart discards the board and builds a new one
// - Builds are tagged with a generation; results from a superseded build are dropped
// - A category with too few clues aborts the build and is reported to every window
// - Games auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - In-browser QR button to open the current board on another screen, backed by go-qrcode

package main

import (
	"context"
	"crypto/rand"
	_ "embed"
	"log"
	mrand "math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// Messages coming from clients
type ClientMessage struct {
	Type     string `json:"type"`               // "start", "reveal"
	BoardID  string `json:"board_id,omitempty"` // reveal
	Category int    `json:"category"`           // reveal
	Clue     int    `json:"clue"`               // reveal
}

// SimpleMessage is for state changes without a payload ("loading", "idle")
// and for errors shown to the user ("error").
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

type CellView struct {
	State RevealState `json:"state"`
	Text  string      `json:"text"`
}

type ColumnView struct {
	Title string     `json:"title"`
	Cells []CellView `json:"cells"`
}

// BoardMessage carries the whole board, including cells already revealed.
type BoardMessage struct {
	Type       string       `json:"type"` // "board"
	BoardID    string       `json:"board_id"`
	Categories []ColumnView `json:"categories"`
}

// CellMessage updates a single cell after a click.
type CellMessage struct {
	Type     string      `json:"type"` // "cell"
	BoardID  string      `json:"board_id"`
	Category int         `json:"category"`
	Clue     int         `json:"clue"`
	State    RevealState `json:"state"`
	Text     string      `json:"text"`
}

type Client struct {
	conn *websocket.Conn
	send chan any
}

type buildResult struct {
	generation uint64
	board      *Board
	err        error
}

type Hub struct {
	id      string
	clients map[*Client]bool
	source  ClueSource

	register chan *Client
	unreg    chan *Client
	starts   chan struct{}
	reveals  chan ClientMessage
	built    chan buildResult
	done     chan struct{}
	stop     sync.Once

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time

	board       *Board
	building    bool
	generation  uint64
	cancelBuild context.CancelFunc
}

func newHub(gameID string, source ClueSource) *Hub {
	now := time.Now()
	return &Hub{
		id:         gameID,
		clients:    make(map[*Client]bool),
		source:     source,
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		starts:     make(chan struct{}),
		reveals:    make(chan ClientMessage),
		built:      make(chan buildResult),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
	}
}

func (h *Hub) run(cfg *Config) {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			if h.cancelBuild != nil {
				h.cancelBuild()
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			select {
			case <-h.done:
				close(c.send)
				return
			default:
			}

			h.mu.Lock()
			h.lastActive = time.Now()
			h.clients[c] = true
			h.sendLocked(c, h.stateMessageLocked())
			h.mu.Unlock()

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()

			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case <-h.starts:
			h.startBuild(cfg)

		case msg := <-h.reveals:
			h.handleReveal(msg)

		case res := <-h.built:
			h.handleBuilt(cfg, res)
		}
	}
}

// stateMessageLocked describes the hub's current state to a newly
// connected client.
func (h *Hub) stateMessageLocked() any {
	switch {
	case h.building:
		return SimpleMessage{Type: "loading"}
	case h.board != nil:
		return newBoardMessage(h.board)
	default:
		return SimpleMessage{Type: "idle"}
	}
}

func (h *Hub) sendLocked(client *Client, msg any) {
	select {
	case client.send <- msg:
	default:
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *Hub) broadcastLocked(msg any) {
	for client := range h.clients {
		h.sendLocked(client, msg)
	}
}

// startBuild discards the current board and starts building a new one
// under a fresh generation. A build still running is cancelled.
func (h *Hub) startBuild(cfg *Config) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	if h.cancelBuild != nil {
		h.cancelBuild()
	}

	h.generation++
	h.board = nil
	h.building = true

	ctx, cancel := context.WithCancel(context.Background())
	h.cancelBuild = cancel

	logf(cfg, "BUILD: Started generation %d of %s", h.generation, h.id)

	h.broadcastLocked(SimpleMessage{Type: "loading"})

	go h.build(ctx, cfg, h.generation)
}

// build runs outside the hub loop and hands its result back through h.built.
func (h *Hub) build(ctx context.Context, cfg *Config, generation uint64) {
	res := buildResult{generation: generation}

	rng := mrand.New(mrand.NewPCG(mrand.Uint64(), mrand.Uint64()))
	res.board, res.err = dealBoard(ctx, h.source, cfg.categories, cfg.clues, rng)

	select {
	case h.built <- res:
	case <-h.done:
	}
}

// handleBuilt installs a finished board, unless a newer build has started
// since; the stale result is then dropped.
func (h *Hub) handleBuilt(cfg *Config, res buildResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if res.generation != h.generation {
		logf(cfg, "BUILD: Dropped stale generation %d of %s (current %d)", res.generation, h.id, h.generation)
		return
	}

	h.building = false
	if h.cancelBuild != nil {
		h.cancelBuild()
		h.cancelBuild = nil
	}

	if res.err != nil {
		logf(cfg, "BUILD: Generation %d of %s failed: %v", res.generation, h.id, res.err)

		h.board = nil
		h.broadcastLocked(SimpleMessage{
			Type:    "error",
			Message: userMessage(res.err),
		})
		h.broadcastLocked(SimpleMessage{Type: "idle"})
		return
	}

	h.board = res.board
	logf(cfg, "BUILD: Finished generation %d of %s as board %s", res.generation, h.id, res.board.ID)

	h.broadcastLocked(newBoardMessage(h.board))
}

// handleReveal advances one clue. Clicks aimed at a board that has since
// been replaced, or outside the grid, are ignored.
func (h *Hub) handleReveal(msg ClientMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	if h.board == nil || msg.BoardID != h.board.ID {
		return
	}

	clue := h.board.clue(msg.Category, msg.Clue)
	if clue == nil {
		return
	}

	state, text, ok := clue.advance()
	if !ok {
		return
	}

	h.broadcastLocked(CellMessage{
		Type:     "cell",
		BoardID:  h.board.ID,
		Category: msg.Category,
		Clue:     msg.Clue,
		State:    state,
		Text:     text,
	})
}

func newBoardMessage(b *Board) BoardMessage {
	columns := make([]ColumnView, 0, len(b.Categories))
	for _, cat := range b.Categories {
		cells := make([]CellView, 0, len(cat.Clues))
		for i := range cat.Clues {
			cells = append(cells, CellView{
				State: cat.Clues[i].State,
				Text:  cat.Clues[i].display(),
			})
		}
		columns = append(columns, ColumnView{
			Title: cat.Title,
			Cells: cells,
		})
	}

	return BoardMessage{
		Type:       "board",
		BoardID:    b.ID,
		Categories: columns,
	}
}

// closeAll stops the hub and disconnects all of its clients (used by reaper).
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stop.Do(func() { close(h.done) })

	for c := range h.clients {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
		delete(h.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated session.
type GameManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	source      ClueSource
	idleTimeout time.Duration
}

func newGameManager(idleTimeout time.Duration, source ClueSource) *GameManager {
	gm := &GameManager{
		hubs:        make(map[string]*Hub),
		source:      source,
		idleTimeout: idleTimeout,
	}
	if idleTimeout > 0 {
		go gm.reaperLoop()
	}
	return gm
}

func (gm *GameManager) getHub(cfg *Config, gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gameID, gm.source)
	gm.hubs[gameID] = hub
	go hub.run(cfg)
	return hub
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop() {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	for range ticker.C {
		gm.reap(time.Now().Add(-gm.idleTimeout))
	}
}

func (gm *GameManager) reap(cutoff time.Time) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		hub.mu.RLock()
		last := hub.lastActive
		hub.mu.RUnlock()

		if last.Before(cutoff) {
			delete(gm.hubs, id)
			go hub.closeAll()
		}
	}
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		hub := gm.getHub(cfg, gameID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		// The server's read and write timeouts still apply to the hijacked
		// connection; a session lives until the browser goes away.
		_ = conn.SetReadDeadline(time.Time{})
		_ = conn.SetWriteDeadline(time.Time{})

		client := &Client{
			conn: conn,
			send: make(chan any, 16),
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		logf(cfg, "GAMES: Client %s connected to %s", realIP(r), gameID)

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "start":
			select {
			case h.starts <- struct{}{}:
			case <-h.done:
				return
			}
		case "reveal":
			select {
			case h.reveals <- msg:
			case <-h.done:
				return
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gameID := ps.ByName("gameid")
	if gameID == "" {
		http.Error(w, "missing game id", http.StatusBadRequest)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:gameid/qr; strip trailing "/qr" to get the game URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

//go:embed jeopardy/index.html
var indexHTML []byte

func getIndexHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(indexHTML)
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerJeopardyGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
func registerJeopardyGame(cfg *Config, path string, mux *httprouter.Router, source ClueSource) *GameManager {
	gm := newGameManager(cfg.sessionTimeout, source)

	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	mux.GET(cfg.prefix+path+"/:gameid", getIndexHandler(cfg))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler)

	return gm
}
