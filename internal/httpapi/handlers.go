package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/analytics"
	"tradejournal/internal/domain"
)

// journalInput is the wire shape of one journal entry.
type journalInput struct {
	JournalDate string `json:"journal_date"`
	JournalText string `json:"journal_text"`
	TradeType   string `json:"trade_type"`
	MarketType  string `json:"market_type"`
}

// tradeInput is the wire shape of one trade record. Monetary fields accept
// JSON numbers or strings; decimal.Decimal parses both.
type tradeInput struct {
	TradeDate  string           `json:"trade_date"`
	Symbol     string           `json:"symbol"`
	TradeType  string           `json:"trade_type"`
	LotSize    decimal.Decimal  `json:"lot_size"`
	EntryPrice decimal.Decimal  `json:"entry_price"`
	ExitPrice  *decimal.Decimal `json:"exit_price"`
	ProfitLoss decimal.Decimal  `json:"profit_loss"`
	MarketType string           `json:"market_type"`
}

type saveBatchRequest struct {
	Journals []journalInput `json:"journals"`
	Trades   []tradeInput   `json:"trades"`
}

// parseDate accepts a calendar date or a full timestamp.
func parseDate(value string) (time.Time, error) {
	if ts, err := time.Parse("2006-01-02", value); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (in *journalInput) toDomain() (*domain.JournalEntry, error) {
	entry := &domain.JournalEntry{
		JournalText: in.JournalText,
		TradeType:   in.TradeType,
		MarketType:  in.MarketType,
	}
	if in.JournalDate != "" {
		date, err := parseDate(in.JournalDate)
		if err != nil {
			return nil, domain.NewValidationError("journal_date", "must be a YYYY-MM-DD calendar date")
		}
		entry.JournalDate = date
	}
	return entry, nil
}

func (in *tradeInput) toDomain() (*domain.Trade, error) {
	trade := &domain.Trade{
		Symbol:     in.Symbol,
		TradeType:  in.TradeType,
		LotSize:    in.LotSize,
		EntryPrice: in.EntryPrice,
		ExitPrice:  in.ExitPrice,
		ProfitLoss: in.ProfitLoss,
		MarketType: in.MarketType,
	}
	if in.TradeDate != "" {
		date, err := parseDate(in.TradeDate)
		if err != nil {
			return nil, domain.NewValidationError("trade_date", "must be a calendar date or RFC 3339 timestamp")
		}
		trade.TradeDate = date
	}
	return trade, nil
}

func (a *API) handleSaveBatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(w, r)
	if !ok {
		return
	}

	var req saveBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, r, domain.NewValidationError("body", "malformed JSON"))
		return
	}

	batch := &domain.WriteBatch{}
	for i := range req.Journals {
		entry, err := req.Journals[i].toDomain()
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		batch.Journals = append(batch.Journals, entry)
	}
	for i := range req.Trades {
		trade, err := req.Trades[i].toDomain()
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		batch.Trades = append(batch.Trades, trade)
	}

	result, err := a.ledger.SaveBatch(r.Context(), userID, batch)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (a *API) handleDeleteNTUnit(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	result, err := a.ledger.DeleteNTUnit(r.Context(), userID, q.Get("date"), q.Get("market"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// tradeID parses the {id} path segment.
func tradeID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

func (a *API) handleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(w, r)
	if !ok {
		return
	}
	id, err := tradeID(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	trade, err := a.ledger.DeleteTrade(r.Context(), userID, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trade)
}

func (a *API) handleUpdateTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(w, r)
	if !ok {
		return
	}
	id, err := tradeID(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	var in tradeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		a.writeError(w, r, domain.NewValidationError("body", "malformed JSON"))
		return
	}
	trade, err := in.toDomain()
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	trade.ID = id

	updated, err := a.ledger.UpdateTrade(r.Context(), userID, trade)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(w, r)
	if !ok {
		return
	}

	summary, err := a.analytics.DashboardSummary(r.Context(), userID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(key, "must be an integer")
	}
	return n, nil
}

func (a *API) handleListTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	limit, err := queryInt(r, "limit")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	page, err := a.analytics.ListTrades(r.Context(), userID, analytics.ListQuery{
		Market:    q.Get("market"),
		TradeType: q.Get("type"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Window:    q.Get("timeFilter"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (a *API) handleProfitOverTime(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	points, err := a.analytics.ProfitOverTime(r.Context(), userID, q.Get("period"), q.Get("timeFilter"), q.Get("market"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": points})
}

func (a *API) handleComparison(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(w, r)
	if !ok {
		return
	}

	comparison, err := a.analytics.Comparison(r.Context(), userID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comparison)
}

func (a *API) handleMonthlyPerformance(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(w, r)
	if !ok {
		return
	}

	year, err := queryInt(r, "year")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	month, err := queryInt(r, "month")
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	days, err := a.analytics.MonthlyPerformance(r.Context(), userID, year, month)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"performance": days})
}
