package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/saiputravu/stockexchange/internal/apierr"
	"github.com/saiputravu/stockexchange/internal/auth"
	"github.com/saiputravu/stockexchange/internal/book"
)

const (
	maxOrderID = 2_000_000_000 - 1 // spec.md §3 order id range [0, 2*10^9)
	maxInt32   = 2147483647        // spec.md §6 price/qty upper bound (2^31-1)
)

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "error": ""})
}

func (s *Server) handleVenues(w http.ResponseWriter, r *http.Request) {
	venues := s.registry.Venues()
	out := make([]venueDTO, len(venues))
	for i, v := range venues {
		out[i] = venueDTO{Name: v + " Exchange", Venue: v, State: "open"}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "venues": out})
}

func (s *Server) handleVenueHeartbeat(w http.ResponseWriter, r *http.Request) {
	venue := mux.Vars(r)["venue"]
	if !s.registry.VenueExists(venue) {
		writeAPIError(w, apierr.VenueNotFound(venue))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "venue": venue})
}

func (s *Server) handleStocks(w http.ResponseWriter, r *http.Request) {
	venue := mux.Vars(r)["venue"]
	if !s.registry.VenueExists(venue) {
		writeAPIError(w, apierr.VenueNotFound(venue))
		return
	}
	symbols := s.registry.Symbols(venue)
	out := make([]symbolDTO, len(symbols))
	for i, sym := range symbols {
		out[i] = symbolDTO{Symbol: sym, Name: sym + " Inc"}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "symbols": out})
}

type placeOrderRequest struct {
	Account    string `json:"account"`
	Venue      string `json:"venue"`
	Stock      string `json:"stock"`
	Symbol     string `json:"symbol"`
	Price      *int64 `json:"price"`
	Qty        *int64 `json:"qty"`
	Direction  string `json:"direction"`
	OrderType  string `json:"orderType"`
	OrderType2 string `json:"ordertype"`
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	venue, symbol := vars["venue"], vars["symbol"]

	var body placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAPIError(w, apierr.BadJSON)
		return
	}

	// Official Stockfighter accepts POSTs that omit venue/stock/symbol,
	// falling back to the URL values; when present they must agree
	// (spec.md §6, original_source/disorderCook_front.py make_order()).
	symbolInData := symbol
	if body.Stock != "" {
		symbolInData = body.Stock
	} else if body.Symbol != "" {
		symbolInData = body.Symbol
	}
	venueInData := venue
	if body.Venue != "" {
		venueInData = body.Venue
	}
	if venueInData != venue || symbolInData != symbol {
		writeAPIError(w, apierr.URLMismatch)
		return
	}

	if body.Account == "" || body.Price == nil || body.Qty == nil || body.Direction == "" {
		writeAPIError(w, apierr.MissingField)
		return
	}
	orderType := body.OrderType
	if orderType == "" {
		orderType = body.OrderType2
	}
	if orderType == "" {
		writeAPIError(w, apierr.MissingField)
		return
	}

	if !validateName(body.Account) || !validateName(venue) || !validateName(symbol) {
		writeAPIError(w, apierr.BadName)
		return
	}
	if *body.Price < 0 || *body.Price > maxInt32 || *body.Qty < 1 || *body.Qty > maxInt32 {
		writeAPIError(w, apierr.BadValue)
		return
	}

	side, ok := parseDirection(body.Direction)
	if !ok {
		writeAPIError(w, apierr.BadValue)
		return
	}
	typ, ok := parseOrderType(orderType)
	if !ok {
		writeAPIError(w, apierr.BadValue)
		return
	}

	eng, err := s.registry.GetOrCreate(venue, symbol)
	if err != nil {
		writeAPIError(w, apierr.BookError)
		return
	}

	if apiErr := s.authorizeForAccount(r, body.Account, apierr.AuthFailure); apiErr != nil {
		writeAPIError(w, apiErr)
		return
	}

	if _, apiErr := s.internAccount(body.Account); apiErr != nil {
		writeAPIError(w, apiErr)
		return
	}

	snap, err := eng.Place(r.Context(), book.PlaceInput{
		Account: body.Account,
		Side:    side,
		Type:    typ,
		Price:   *body.Price,
		Qty:     *body.Qty,
	})
	if err != nil {
		writeAPIError(w, apierr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, newOrderDTO(venue, symbol, snap))
}

func (s *Server) handleOrderbook(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	venue, symbol := vars["venue"], vars["symbol"]
	if !validateName(venue) || !validateName(symbol) {
		writeAPIError(w, apierr.BadName)
		return
	}

	eng, err := s.registry.GetOrCreate(venue, symbol)
	if err != nil {
		writeAPIError(w, apierr.BookError)
		return
	}

	depth, err := eng.Orderbook(r.Context())
	if err != nil {
		writeAPIError(w, apierr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, newOrderbookDTO(venue, symbol, depth))
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	venue, symbol := vars["venue"], vars["symbol"]
	if !validateName(venue) || !validateName(symbol) {
		writeAPIError(w, apierr.BadName)
		return
	}

	eng, err := s.registry.GetOrCreate(venue, symbol)
	if err != nil {
		writeAPIError(w, apierr.BookError)
		return
	}

	q, err := eng.Quote(r.Context())
	if err != nil {
		writeAPIError(w, apierr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, newQuoteDTO(venue, symbol, q))
}

// parseOrderID validates and parses the {id} path variable per spec.md §6's
// id range check in the original's status()/cancel() handlers.
func parseOrderID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 || id > maxOrderID {
		return 0, false
	}
	return id, true
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	venue, symbol := vars["venue"], vars["symbol"]
	if !validateName(venue) || !validateName(symbol) {
		writeAPIError(w, apierr.BadName)
		return
	}
	id, ok := parseOrderID(vars["id"])
	if !ok {
		writeAPIError(w, apierr.BadValue)
		return
	}

	eng, err := s.registry.GetOrCreate(venue, symbol)
	if err != nil {
		writeAPIError(w, apierr.BookError)
		return
	}

	account, err := eng.AccountOf(r.Context(), id)
	if err != nil {
		writeAPIError(w, apierr.NoSuchOrder)
		return
	}
	if apiErr := s.authorizeForAccount(r, account, apierr.AuthWeirdFail); apiErr != nil {
		writeAPIError(w, apiErr)
		return
	}

	snap, err := eng.Status(r.Context(), id)
	if err != nil {
		writeAPIError(w, apierr.NoSuchOrder)
		return
	}
	writeJSON(w, http.StatusOK, newOrderDTO(venue, symbol, snap))
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	venue, symbol := vars["venue"], vars["symbol"]
	if !validateName(venue) || !validateName(symbol) {
		writeAPIError(w, apierr.BadName)
		return
	}
	id, ok := parseOrderID(vars["id"])
	if !ok {
		writeAPIError(w, apierr.BadValue)
		return
	}

	eng, err := s.registry.GetOrCreate(venue, symbol)
	if err != nil {
		writeAPIError(w, apierr.BookError)
		return
	}

	account, err := eng.AccountOf(r.Context(), id)
	if err != nil {
		writeAPIError(w, apierr.NoSuchOrder)
		return
	}
	if apiErr := s.authorizeForAccount(r, account, apierr.AuthWeirdFail); apiErr != nil {
		writeAPIError(w, apiErr)
		return
	}

	snap, err := eng.Cancel(r.Context(), id)
	if err != nil {
		writeAPIError(w, apierr.NoSuchOrder)
		return
	}
	writeJSON(w, http.StatusOK, newOrderDTO(venue, symbol, snap))
}

func (s *Server) handleDebugMemory(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.ExtrasEnabled {
		writeAPIError(w, apierr.Disabled)
		return
	}

	venue, symbol := s.cfg.DefaultVenue, s.cfg.DefaultSymbol
	if v := r.URL.Query().Get("venue"); v != "" {
		venue = v
	}
	if sym := r.URL.Query().Get("symbol"); sym != "" {
		symbol = sym
	}

	eng, ok := s.registry.Lookup(venue, symbol)
	if !ok {
		writeAPIError(w, apierr.VenueNotFound(venue))
		return
	}
	info, err := eng.DebugMemory(r.Context())
	if err != nil {
		writeAPIError(w, apierr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, debugDTO{OK: true, Venue: venue, Symbol: symbol, Orders: info.Orders, Fills: info.Fills, Trades: info.Trades})
}

// authorizeForAccount performs the §7 auth check against account. It
// returns nil when authentication is disabled or succeeds.
func (s *Server) authorizeForAccount(r *http.Request, account string, unknownAccountErr *apierr.Error) *apierr.Error {
	if !s.auth.Enabled() {
		return nil
	}
	key, ok := auth.KeyFromHeaders(r.Header)
	if !ok {
		return apierr.NoAuthError
	}
	if !s.auth.Known(account) {
		return unknownAccountErr
	}
	if !s.auth.Check(account, key) {
		return apierr.AuthFailure
	}
	return nil
}

func parseDirection(s string) (book.Side, bool) {
	switch s {
	case "buy":
		return book.Buy, true
	case "sell":
		return book.Sell, true
	default:
		return 0, false
	}
}

func parseOrderType(s string) (book.OrderType, bool) {
	switch s {
	case "limit":
		return book.Limit, true
	case "market":
		return book.Market, true
	case "fill-or-kill", "fok":
		return book.FillOrKill, true
	case "immediate-or-cancel", "ioc":
		return book.ImmediateOrCancel, true
	default:
		return 0, false
	}
}
