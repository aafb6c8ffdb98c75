package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sjlee-dev/matchbook/pkg/engine"
	"github.com/sjlee-dev/matchbook/pkg/service"
)

// Server translates HTTP vocabulary into core calls and back: malformed
// side/type strings die here, OrderBookNotFound becomes 404, a missing
// spread becomes a 404 distinct from a zero spread, and a partial fill
// is a plain 200 — insufficient liquidity is not an error.
type Server struct {
	svc    *service.Service
	router *mux.Router
	hub    *Hub
	log    *zap.SugaredLogger

	allowedOrigins []string
}

func NewServer(svc *service.Service, log *zap.SugaredLogger, allowedOrigins []string) *Server {
	s := &Server{
		svc:            svc,
		router:         mux.NewRouter(),
		hub:            NewHub(log),
		log:            log,
		allowedOrigins: allowedOrigins,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/books", s.handleListBooks).Methods("GET")
	api.HandleFunc("/books", s.handleRegisterBook).Methods("POST")
	api.HandleFunc("/books/{base}/{quote}/spread", s.handleSpread).Methods("GET")
	api.HandleFunc("/books/{base}/{quote}/depth", s.handleDepth).Methods("GET")
	api.HandleFunc("/orders", s.handlePlaceOrder).Methods("POST")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the fully wrapped HTTP handler, for serving and tests.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

// Start serves until the listener fails. The hub runs for the lifetime
// of the process.
func (s *Server) Start(addr string) error {
	go s.hub.Run()
	s.log.Infow("api_listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// BroadcastDepth pushes a book snapshot to subscribers of the pair's
// channel. Wired to service.OnDepth in main.
func (s *Server) BroadcastDepth(pair engine.TradingPair, bids, asks []service.Level) {
	update := DepthUpdate{
		Type:      "depth",
		Pair:      pair.String(),
		Bids:      depthRows(bids),
		Asks:      depthRows(asks),
		Timestamp: time.Now().UnixMilli(),
	}
	s.hub.BroadcastToChannel("book:"+pair.String(), update)
}

// ---- handlers ----

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Base == "" || req.Quote == "" {
		s.respondError(w, http.StatusBadRequest, "missing pair", "base and quote are required")
		return
	}

	side, err := parseSide(req.Side)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid side", err.Error())
		return
	}

	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid quantity", err.Error())
		return
	}

	pair := engine.NewTradingPair(req.Base, req.Quote)

	switch req.Type {
	case "limit":
		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid price", err.Error())
			return
		}
		if err := s.svc.PlaceLimit(r.Context(), pair, side, price.InexactFloat64(), quantity); err != nil {
			s.respondServiceError(w, err)
			return
		}
		s.respondJSON(w, http.StatusCreated, PlaceLimitResponse{Status: "rested", Pair: pair.String()})

	case "market":
		exec, err := s.svc.PlaceMarket(r.Context(), pair, side, quantity)
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		status := "filled"
		if !exec.FullyFilled() {
			status = "partially_filled"
		}
		s.respondJSON(w, http.StatusOK, PlaceMarketResponse{
			Status:    status,
			Pair:      pair.String(),
			Requested: exec.Requested,
			Filled:    exec.Filled,
			Remaining: exec.Remaining,
		})

	default:
		s.respondError(w, http.StatusBadRequest, "invalid type", "expected limit or market")
	}
}

func (s *Server) handleRegisterBook(w http.ResponseWriter, r *http.Request) {
	var req RegisterBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Base == "" || req.Quote == "" {
		s.respondError(w, http.StatusBadRequest, "missing pair", "base and quote are required")
		return
	}

	pair := s.svc.RegisterBook(r.Context(), req.Base, req.Quote)
	s.respondJSON(w, http.StatusCreated, BookInfo{Pair: pair.String(), Base: pair.Base, Quote: pair.Quote})
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	pairs := s.svc.Pairs()
	books := make([]BookInfo, 0, len(pairs))
	for _, p := range pairs {
		books = append(books, BookInfo{Pair: p.String(), Base: p.Base, Quote: p.Quote})
	}
	s.respondJSON(w, http.StatusOK, books)
}

func (s *Server) handleSpread(w http.ResponseWriter, r *http.Request) {
	pair := pairFromVars(r)

	spread, ok, err := s.svc.Spread(pair)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if !ok {
		// One-sided or empty book: not found, deliberately distinct
		// from a spread of zero.
		s.respondError(w, http.StatusNotFound, "no spread available", "")
		return
	}
	s.respondJSON(w, http.StatusOK, SpreadResponse{Pair: pair.String(), Spread: spread})
}

func (s *Server) handleDepth(w http.ResponseWriter, r *http.Request) {
	pair := pairFromVars(r)

	bids, asks, err := s.svc.Depth(pair)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, DepthResponse{
		Pair:      pair.String(),
		Bids:      depthRows(bids),
		Asks:      depthRows(asks),
		Timestamp: time.Now().UnixMilli(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---- helpers ----

func pairFromVars(r *http.Request) engine.TradingPair {
	vars := mux.Vars(r)
	return engine.NewTradingPair(vars["base"], vars["quote"])
}

func depthRows(levels []service.Level) []DepthRow {
	rows := make([]DepthRow, len(levels))
	for i, lvl := range levels {
		rows[i] = DepthRow{Price: lvl.Price, Volume: lvl.Volume}
	}
	return rows
}

func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrOrderBookNotFound):
		s.respondError(w, http.StatusNotFound, "orderbook not found", err.Error())
	case errors.Is(err, service.ErrInvalidQuantity), errors.Is(err, service.ErrInvalidPrice):
		s.respondError(w, http.StatusBadRequest, "invalid order", err.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warnw("response_encode_failed", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, error, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: error, Message: message})
}
