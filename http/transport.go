package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	goldex "go-gold-exchange"
	"go-gold-exchange/exchange"
	"go-gold-exchange/format"
	"go-gold-exchange/refresh"
)

// maxBodyBytes caps request bodies read by decode
const maxBodyBytes = 1 << 16

// Refresher triggers refreshes and reports their status. *refresh.Coordinator implements it.
type Refresher interface {
	Refresh(ctx context.Context) refresh.Result
	Status() goldex.Status
}

// Server dependencies for HTTP Server functions
type Server struct {
	Service   exchange.Service
	Source    exchange.Source
	Refresher Refresher

	// RefreshLimiter optional rate limit for manual refreshes
	RefreshLimiter *limiter.Limiter

	Logger log.Logger

	router   chi.Router
	validate *validator.Validate
}

// NewServer returns a Server with its routes registered. refreshLimiter may be nil.
func NewServer(s exchange.Service, source exchange.Source, r Refresher, refreshLimiter *limiter.Limiter, logger log.Logger) *Server {
	server := &Server{
		Service:        s,
		Source:         source,
		Refresher:      r,
		RefreshLimiter: refreshLimiter,
		Logger:         logger,
		router:         chi.NewRouter(),
		validate:       validator.New(),
	}
	server.routes()
	return server
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer, requestLogging(s.Logger))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/currencies", s.currencies())
		r.Get("/rates", s.rates())
		r.Get("/status", s.status())
		r.Post("/convert", s.convert())
		r.Post("/gold/value", s.goldValue())

		manual := r.With()
		if s.RefreshLimiter != nil {
			manual = r.With(stdlib.NewMiddleware(s.RefreshLimiter).Handler)
		}
		manual.Post("/refresh", s.refresh())
	})
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(rw, r)
}

// currencies lists the supported currencies
func (s *Server) currencies() http.HandlerFunc {
	type currency struct {
		Code   goldex.Code `json:"code"`
		Name   string      `json:"name"`
		Symbol string      `json:"symbol"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		list := goldex.Currencies()
		response := make([]currency, 0, len(list))
		for _, c := range list {
			response = append(response, currency{Code: c.Code, Name: c.Name, Symbol: c.Symbol})
		}
		s.writeJSON(rw, http.StatusOK, response)
	}
}

// rates returns the current rates table and the display grid
func (s *Server) rates() http.HandlerFunc {
	type cell struct {
		Code    goldex.Code `json:"code"`
		Symbol  string      `json:"symbol"`
		Rate    goldex.Rate `json:"rate"`
		Display string      `json:"display"`
	}

	type response struct {
		Base        goldex.Code  `json:"base"`
		Rates       goldex.Rates `json:"rates"`
		LastUpdated *time.Time   `json:"lastUpdated,omitempty"`
		Grid        []cell       `json:"grid"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		snap := s.Source.Load()

		res := response{
			Base:  goldex.Pivot,
			Rates: snap.Rates,
			Grid:  []cell{},
		}
		if !snap.LastUpdated.IsZero() {
			res.LastUpdated = &snap.LastUpdated
		}
		for _, c := range format.RateGrid(snap.Rates) {
			res.Grid = append(res.Grid, cell{Code: c.Code, Symbol: c.Symbol, Rate: c.Rate, Display: c.Display})
		}
		s.writeJSON(rw, http.StatusOK, res)
	}
}

// convert produces HTTP handler for currency conversions
func (s *Server) convert() http.HandlerFunc {

	// request for unmarshalling JSON requests posted by clients
	type request struct {
		FromCurrency string      `json:"fromCurrency" validate:"required,alpha,len=3"`
		ToCurrency   string      `json:"toCurrency" validate:"required,alpha,len=3"`
		Amount       json.Number `json:"amount" validate:"required"`
		// Swap exchanges the from and to selections before converting
		Swap bool `json:"swap"`
	}

	// response for marshalling JSON responses to return to clients
	type response struct {
		From              goldex.Code   `json:"from"`
		To                goldex.Code   `json:"to"`
		Exchange          goldex.Rate   `json:"exchange"`
		Amount            goldex.Amount `json:"amount"`
		Original          goldex.Amount `json:"original"`
		Formatted         string        `json:"formatted"`
		FormattedOriginal string        `json:"formattedOriginal"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		var request request
		if !s.decode(rw, r, &request) {
			return
		}

		amount, err := exchange.ParseAmount(request.Amount.String())
		if err != nil {
			s.writeError(rw, err)
			return
		}

		pair := goldex.Pair{From: code(request.FromCurrency), To: code(request.ToCurrency)}
		if request.Swap {
			pair = pair.Swapped()
		}

		result, err := s.Service.Convert(r.Context(), amount, pair.From, pair.To)
		if err != nil {
			s.writeError(rw, err)
			return
		}

		s.writeJSON(rw, http.StatusOK, response{
			From:              result.From,
			To:                result.To,
			Exchange:          result.Rate,
			Amount:            result.Amount,
			Original:          result.Original,
			Formatted:         format.Amount(result.Amount, result.To),
			FormattedOriginal: format.Amount(result.Original, result.From),
		})
	}
}

// goldValue values a weight of gold in a display currency
func (s *Server) goldValue() http.HandlerFunc {
	type request struct {
		WeightGrams json.Number `json:"weightGrams" validate:"required"`
		Currency    string      `json:"currency" validate:"required,alpha,len=3"`
	}

	type response struct {
		WeightGrams   float64       `json:"weightGrams"`
		Currency      goldex.Code   `json:"currency"`
		Value         goldex.Amount `json:"value"`
		Formatted     string        `json:"formatted"`
		PricePerGram  goldex.Amount `json:"pricePerGram"`
		QuoteCurrency goldex.Code   `json:"quoteCurrency"`
		ObservedAt    time.Time     `json:"observedAt"`
		Breakdown     string        `json:"breakdown"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		var request request
		if !s.decode(rw, r, &request) {
			return
		}

		weight, err := exchange.ParseWeight(request.WeightGrams.String())
		if err != nil {
			s.writeError(rw, err)
			return
		}

		v, err := s.Service.GoldValue(r.Context(), weight, code(request.Currency))
		if err != nil {
			s.writeError(rw, err)
			return
		}

		s.writeJSON(rw, http.StatusOK, response{
			WeightGrams:   v.WeightGrams,
			Currency:      v.Currency,
			Value:         v.Value,
			Formatted:     format.Amount(v.Value, v.Currency),
			PricePerGram:  v.Quote.PricePerGram,
			QuoteCurrency: v.Quote.Currency,
			ObservedAt:    v.Quote.ObservedAt,
			Breakdown:     format.GoldBreakdown(v.WeightGrams, v.Quote),
		})
	}
}

type statusResponse struct {
	Loading     bool       `json:"loading"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
	Notice      string     `json:"notice,omitempty"`
}

func toStatusResponse(st goldex.Status) statusResponse {
	res := statusResponse{Loading: st.Loading, Notice: st.Notice}
	if !st.LastUpdated.IsZero() {
		res.LastUpdated = &st.LastUpdated
	}
	return res
}

// status reports the refresh state
func (s *Server) status() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		s.writeJSON(rw, http.StatusOK, toStatusResponse(s.Refresher.Status()))
	}
}

// refresh triggers a refresh of rates and gold quote and waits for it to settle
func (s *Server) refresh() http.HandlerFunc {
	type response struct {
		statusResponse
		RatesUpdated bool `json:"ratesUpdated"`
		QuoteUpdated bool `json:"quoteUpdated"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		result := s.Refresher.Refresh(r.Context())
		s.writeJSON(rw, http.StatusOK, response{
			statusResponse: toStatusResponse(s.Refresher.Status()),
			RatesUpdated:   result.RatesUpdated,
			QuoteUpdated:   result.QuoteUpdated,
		})
	}
}

func code(s string) goldex.Code {
	return goldex.Code(strings.ToUpper(strings.TrimSpace(s)))
}

// decode reads and validates a JSON body into v, writing a 400 on failure.
func (s *Server) decode(rw http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := http.MaxBytesReader(rw, r.Body, maxBodyBytes)
	defer body.Close()

	bytes, err := io.ReadAll(body)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.writeJSON(rw, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
		return false
	}
	if err != nil {
		s.writeJSON(rw, http.StatusBadRequest, errorResponse{Error: "invalid request"})
		return false
	}

	if err := json.Unmarshal(bytes, v); err != nil {
		s.writeJSON(rw, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return false
	}

	if err := s.validate.Struct(v); err != nil {
		s.writeJSON(rw, http.StatusBadRequest, errorResponse{Error: "invalid request: " + err.Error()})
		return false
	}
	return true
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP status codes.
func (s *Server) writeError(rw http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, goldex.ErrInvalidInput):
		s.writeJSON(rw, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, goldex.ErrUnknownCurrency):
		s.writeJSON(rw, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, goldex.ErrQuoteUnavailable):
		s.writeJSON(rw, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		level.Error(s.Logger).Log("msg", "request failed", "err", err)
		s.writeJSON(rw, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) writeJSON(rw http.ResponseWriter, status int, v interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)

	enc := json.NewEncoder(rw)
	if err := enc.Encode(v); err != nil {
		level.Error(s.Logger).Log("msg", "failed json encoding", "err", err)
	}
}
