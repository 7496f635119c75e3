package web

import (
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"

	"github.com/coder/websocket"
	"gopkg.in/yaml.v3"

	"rowduel/internal/config"
	"rowduel/internal/game"
)

//go:embed static
var staticFiles embed.FS

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Cost        int    `json:"cost"`
	FrontAttack int    `json:"frontAttack,omitempty"`
	BackAttack  int    `json:"backAttack,omitempty"`
	MaxHP       int    `json:"maxHp,omitempty"`
	Race        string `json:"race,omitempty"`
}

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Number int      `json:"number"`
	Name   string   `json:"name"`
	Cards  []string `json:"cards"`
}

// Server is the rowduel web server. Each WebSocket connection gets its own
// session and match against the scripted opponent.
type Server struct {
	cfg       *config.Config
	decksFile string
	mux       *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg:       cfg,
		decksFile: cfg.DecksFile,
		mux:       http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)

	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	var cards []CardInfo
	for _, c := range game.Catalog() {
		cards = append(cards, CardInfo{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Kind:        c.Kind.String(),
			Cost:        c.Cost,
			FrontAttack: c.FrontAttack,
			BackAttack:  c.BackAttack,
			MaxHP:       c.MaxHP,
			Race:        c.Race,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cards)
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.decksFile)
	if err != nil {
		http.Error(w, "could not read decks file", http.StatusInternalServerError)
		return
	}

	var df game.DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		http.Error(w, "could not parse decks file", http.StatusInternalServerError)
		return
	}

	var decks []DeckInfo
	for i, d := range df.Decks {
		di := DeckInfo{
			Number: i + 1,
			Name:   d.Name,
		}
		// Unique card names for display
		seen := make(map[string]bool)
		for _, c := range d.Cards {
			if !seen[c.Name] {
				di.Cards = append(di.Cards, c.Name)
				seen[c.Name] = true
			}
		}
		decks = append(decks, di)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(decks)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer conn.CloseNow()

	sess := newSession(s, conn)
	sess.Run(r.Context())
	conn.Close(websocket.StatusNormalClosure, "session ended")
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
