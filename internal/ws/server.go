package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/viking-chess/backend/internal/config"
	"github.com/viking-chess/backend/internal/game"
)

type Server struct {
	cfg      *config.Config
	registry *game.Registry
	lobby    *Lobby
	router   *Router

	allowedOrigins map[string]bool
	allowedHosts   map[string]bool
	startedAt      time.Time
}

func NewServer(cfg *config.Config, registry *game.Registry, lobby *Lobby, router *Router) *Server {
	s := &Server{
		cfg:            cfg,
		registry:       registry,
		lobby:          lobby,
		router:         router,
		allowedOrigins: make(map[string]bool),
		allowedHosts:   make(map[string]bool),
		startedAt:      time.Now(),
	}

	for _, origin := range cfg.Server.AllowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		s.allowedOrigins[trimmed] = true
		if parsed, err := url.Parse(trimmed); err == nil && parsed.Host != "" {
			s.allowedHosts[parsed.Host] = true
		}
	}

	return s
}

func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/sessions", s.handleSessions)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	c := newClient(conn, s.cfg.Relay.SendBuffer)
	log.Printf("client connected: %s (%s)", c.ID(), r.RemoteAddr)

	defer func() {
		c.close()
		s.router.HandleDisconnect(c)
		log.Printf("client disconnected: %s (%s)", c.ID(), r.RemoteAddr)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.router.HandleMessage(c, raw)
	}
}

// handleRoot is the plain liveness line.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	fmt.Fprint(w, "Viking Chess Game Server is running")
}

// handleSessions lists every session with state and participant
// presence, for operational inspection.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.registry.Snapshot())
}

type processStatus struct {
	PID        int     `json:"pid"`
	RSSBytes   uint64  `json:"rssBytes"`
	CPUPercent float64 `json:"cpuPercent"`
}

type hostStatus struct {
	MemoryUsedPercent float64 `json:"memoryUsedPercent"`
}

type statusResponse struct {
	Status           string         `json:"status"`
	UptimeSeconds    int64          `json:"uptimeSeconds"`
	Sessions         int            `json:"sessions"`
	LobbySubscribers int            `json:"lobbySubscribers"`
	Goroutines       int            `json:"goroutines"`
	Process          *processStatus `json:"process,omitempty"`
	Host             *hostStatus    `json:"host,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status:           "ok",
		UptimeSeconds:    int64(time.Since(s.startedAt).Seconds()),
		Sessions:         s.registry.Count(),
		LobbySubscribers: s.lobby.Count(),
		Goroutines:       runtime.NumGoroutine(),
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		ps := &processStatus{PID: os.Getpid()}
		if mi, err := proc.MemoryInfo(); err == nil {
			ps.RSSBytes = mi.RSS
		}
		if cpu, err := proc.CPUPercent(); err == nil {
			ps.CPUPercent = cpu
		}
		resp.Process = ps
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		resp.Host = &hostStatus{MemoryUsedPercent: vm.UsedPercent}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if len(s.allowedOrigins) > 0 {
		if s.allowedOrigins[origin] {
			return true
		}
		if parsed, err := url.Parse(origin); err == nil && parsed.Host != "" {
			return s.allowedHosts[parsed.Host]
		}
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := parsed.Host
	if host == "" {
		return false
	}

	if host == r.Host {
		return true
	}

	if strings.HasPrefix(host, "localhost:") || host == "localhost" {
		return true
	}
	if strings.HasPrefix(host, "127.0.0.1:") || host == "127.0.0.1" {
		return true
	}
	if strings.HasPrefix(host, "[::1]:") || host == "::1" {
		return true
	}

	return false
}

func ListenAndServe(host string, port int, mux *http.ServeMux) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	log.Printf("Server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
