package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"spendiario/internal/auth"
	"spendiario/internal/expense"

	"github.com/go-chi/chi/v5"
)

type ExpenseHandler struct {
	Svc *expense.Service
	Dev bool
}

const dateLayout = "2006-01-02"

type expenseDTO struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Date      string    `json:"date"`
	UserID    uint64    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toDTO(e *expense.Expense) expenseDTO {
	return expenseDTO{
		ID:        e.ID,
		Title:     e.Title,
		Amount:    e.Amount,
		Category:  e.Category,
		Date:      e.Date.Format(dateLayout),
		UserID:    e.UserID,
		CreatedAt: e.CreatedAt,
	}
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		// tolerate full timestamps from older clients
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, err
		}
	}
	d := expense.Day(t)
	return &d, nil
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	q := r.URL.Query()

	in := expense.ListInput{Page: 1, Limit: 50, Category: strings.TrimSpace(q.Get("category"))}

	if v := strings.TrimSpace(q.Get("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			in.Page = n
		}
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			in.Limit = n
		}
	}

	start, err := parseDate(q.Get("startDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate (expected YYYY-MM-DD)")
		return
	}
	end, err := parseDate(q.Get("endDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate (expected YYYY-MM-DD)")
		return
	}
	in.StartDate = start
	in.EndDate = end

	res, err := h.Svc.List(r.Context(), uid, in)
	if err != nil {
		writeInternal(w, err, h.Dev)
		return
	}

	items := make([]expenseDTO, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, toDTO(&res.Items[i]))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"expenses": items,
		"pagination": map[string]any{
			"currentPage": res.Page,
			"totalPages":  res.TotalPages,
			"totalItems":  res.TotalItems,
		},
		"totalAmount": res.TotalAmount,
	})
}

type createExpenseReq struct {
	Title    string   `json:"title"`
	Amount   *float64 `json:"amount"`
	Category string   `json:"category"`
	Date     *string  `json:"date"`
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createExpenseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := expense.CreateInput{
		Title:    req.Title,
		Amount:   req.Amount,
		Category: req.Category,
	}
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date (expected YYYY-MM-DD)")
			return
		}
		in.Date = d
	}

	e, err := h.Svc.Create(r.Context(), uid, in)
	if err != nil {
		var ve *expense.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Reason)
			return
		}
		writeInternal(w, err, h.Dev)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "expense created",
		"expense": toDTO(e),
	})
}

type updateExpenseReq struct {
	Title    *string  `json:"title"`
	Amount   *float64 `json:"amount"`
	Category *string  `json:"category"`
	Date     *string  `json:"date"`
}

func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	var req updateExpenseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := expense.UpdateInput{
		Title:    req.Title,
		Amount:   req.Amount,
		Category: req.Category,
	}
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date (expected YYYY-MM-DD)")
			return
		}
		in.Date = d
	}

	e, err := h.Svc.Update(r.Context(), uid, id, in)
	if err != nil {
		var ve *expense.ValidationError
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, ve.Reason)
		case errors.Is(err, expense.ErrNotFound):
			writeError(w, http.StatusNotFound, "expense not found")
		default:
			writeInternal(w, err, h.Dev)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "expense updated",
		"expense": toDTO(e),
	})
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := h.Svc.Delete(r.Context(), uid, id); err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		writeInternal(w, err, h.Dev)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "expense deleted"})
}
