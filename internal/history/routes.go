package history

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/textlens/textlens/internal/trends"
)

// RegisterRoutes mounts history endpoints under /api/history and the
// trends summary at /api/trends. Each extra function may add routes to the
// /api/history subrouter.
func RegisterRoutes(r chi.Router, store *Store, extra ...func(chi.Router)) {
	r.Route("/api/history", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Get("/words", handleTopWords(store))
		r.Get("/{id}", handleGet(store))
		r.Delete("/{id}", handleDelete(store))
		for _, fn := range extra {
			fn(r)
		}
	})
	r.Get("/api/trends", handleTrends(store))
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := Filter{
			Source: Source(q.Get("source")),
			Label:  q.Get("label"),
		}
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Limit = n
			}
		}
		if v := q.Get("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Offset = n
			}
		}

		items, err := store.List(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if items == nil {
			items = []Analysis{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func handleDelete(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.Delete(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleTopWords(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		words, err := store.TopWords(r.Context(), r.URL.Query().Get("label"), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if words == nil {
			words = []WordStat{}
		}
		writeJSON(w, http.StatusOK, words)
	}
}

func handleTrends(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var win trends.Window
		var err error
		if v := q.Get("from"); v != "" {
			if win.From, err = strconv.Atoi(v); err != nil {
				writeError(w, http.StatusBadRequest, "invalid from year")
				return
			}
		}
		if v := q.Get("to"); v != "" {
			if win.To, err = strconv.Atoi(v); err != nil {
				writeError(w, http.StatusBadRequest, "invalid to year")
				return
			}
		}
		if err := win.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		records, err := store.CountByYear(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		rows := trends.Aggregate(records, win)

		if q.Get("format") == "csv" {
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Header().Set("Content-Disposition", `attachment; filename="trends.csv"`)
			if err := trends.WriteCSV(w, rows); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
