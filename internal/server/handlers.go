package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AzerQ/sed-notifications/internal/domain"
	"github.com/AzerQ/sed-notifications/internal/push"
	"github.com/AzerQ/sed-notifications/internal/settings"
	"github.com/AzerQ/sed-notifications/internal/store"
)

// defaultUserID is used when a request carries no X-User-Id header.
// The reference server is single-tenant by default.
const defaultUserID = "default"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func pageRequestFromQuery(r *http.Request, defaultSize int) (domain.PageRequest, error) {
	q := r.URL.Query()
	req := domain.PageRequest{Page: 1, PageSize: defaultSize}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.PageRequest{}, errors.New("invalid page")
		}
		req.Page = n
	}
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.PageRequest{}, errors.New("invalid pageSize")
		}
		req.PageSize = n
	}
	filter, err := domain.FilterFromValues(q)
	if err != nil {
		return domain.PageRequest{}, err
	}
	req.Filter = filter
	return req.Normalize(), nil
}

func (s *Server) handleListAll(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequestFromQuery(r, domain.DefaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := s.store.List(r.Context(), req, false)
	if err != nil {
		s.logger.Error("list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleListUnread(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequestFromQuery(r, domain.DefaultUnreadPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := s.store.List(r.Context(), req, true)
	if err != nil {
		s.logger.Error("unread list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list unread notifications")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.UnreadCount(r.Context())
	if err != nil {
		s.logger.Error("unread count failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to count unread notifications")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// handleCreate inserts a notification and broadcasts it on the push
// channel as a compact payload. This endpoint stands in for the
// event-producing backend.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var n domain.Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification payload")
		return
	}
	n.ID = 0 // server-assigned
	probe := n
	probe.ID = 1
	if err := probe.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := s.store.Create(r.Context(), n)
	if err != nil {
		s.logger.Error("create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create notification")
		return
	}

	s.hub.broadcast(push.NewNotificationFrame(created.Compact()))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := s.store.MarkRead(r.Context(), id); err != nil {
		s.logger.Error("mark read failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to mark notification read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkManyRead(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []int64 `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid batch payload")
		return
	}
	if err := s.store.MarkManyRead(r.Context(), body.IDs); err != nil {
		s.logger.Error("mark many read failed", "count", len(body.IDs), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to mark notifications read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetStatus flips a notification's read flag and broadcasts the
// change, modeling a read-state mutation from another session.
func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	var body struct {
		Read bool `json:"read"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid status payload")
		return
	}
	if _, err := s.store.SetRead(r.Context(), id, body.Read); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "notification not found")
			return
		}
		s.logger.Error("set status failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update status")
		return
	}

	s.hub.broadcast(push.StatusUpdateFrame(id, body.Read))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetToastSettings(w http.ResponseWriter, r *http.Request) {
	ts, err := s.store.GetToastSettings(r.Context())
	if err != nil {
		s.logger.Error("get toast settings failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load toast settings")
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (s *Server) handleSaveToastSettings(w http.ResponseWriter, r *http.Request) {
	var ts settings.ToastSettings
	if err := json.NewDecoder(r.Body).Decode(&ts); err != nil {
		writeError(w, http.StatusBadRequest, "invalid toast settings payload")
		return
	}
	if err := ts.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.SaveToastSettings(r.Context(), ts); err != nil {
		s.logger.Error("save toast settings failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save toast settings")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-Id"); id != "" {
		return id
	}
	return defaultUserID
}

func (s *Server) handleGetUserSettings(w http.ResponseWriter, r *http.Request) {
	us, err := s.store.GetUserSettings(r.Context(), userID(r))
	if errors.Is(err, store.ErrNotFound) {
		// A user with nothing saved gets an empty document, not a 404.
		writeJSON(w, http.StatusOK, settings.UserNotificationSettings{UserID: userID(r)})
		return
	}
	if err != nil {
		s.logger.Error("get user settings failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load user settings")
		return
	}
	writeJSON(w, http.StatusOK, us)
}

func (s *Server) handleSaveUserSettings(w http.ResponseWriter, r *http.Request) {
	var us settings.UserNotificationSettings
	if err := json.NewDecoder(r.Body).Decode(&us); err != nil {
		writeError(w, http.StatusBadRequest, "invalid user settings payload")
		return
	}
	if us.UserID == "" {
		us.UserID = userID(r)
	}
	if err := us.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.SaveUserSettings(r.Context(), us); err != nil {
		s.logger.Error("save user settings failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save user settings")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
