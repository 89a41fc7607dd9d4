package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/sandevgo/coworker/internal/core"
	"github.com/sandevgo/coworker/internal/providers/graph"
	"github.com/sandevgo/coworker/internal/service/assistant"
	"github.com/sandevgo/coworker/internal/service/chat"
	"github.com/sandevgo/coworker/pkg/log"
)

const historyLimit = 200

// Asker runs one conversation turn.
type Asker interface {
	Ask(ctx context.Context, chatID, query string) (chat.Answer, error)
}

// Assistant answers productivity queries under a Graph session.
type Assistant interface {
	Process(ctx context.Context, sess graph.Session, message string) assistant.Result
}

// TokenValidator checks a freshly supplied Graph token.
type TokenValidator interface {
	Me(ctx context.Context, sess graph.Session) (graph.User, error)
}

type Handler struct {
	asker     Asker
	assistant Assistant
	validator TokenValidator
	chats     core.ChatRepository
	facts     core.FactRepository
	sessions  *Sessions
}

func NewHandler(asker Asker, assistantSvc Assistant, validator TokenValidator, chats core.ChatRepository, facts core.FactRepository) *Handler {
	return &Handler{
		asker:     asker,
		assistant: assistantSvc,
		validator: validator,
		chats:     chats,
		facts:     facts,
		sessions:  NewSessions(),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/ask", h.ask)
		r.Get("/chats", h.listChats)
		r.Post("/chat", h.createChat)
		r.Get("/chat/{chatID}/history", h.chatHistory)
		r.Get("/chat/{chatID}/export", h.exportChat)
		r.Delete("/chat/{chatID}", h.deleteChat)
		r.Get("/memory", h.getMemory)
		r.Post("/memory", h.setMemory)
		r.Delete("/memory/{key}", h.deleteMemory)
		r.Get("/stats", h.stats)
		r.Post("/assistant", h.assist)
		r.Route("/graph", func(r chi.Router) {
			r.Post("/auth", h.graphAuth)
			r.Post("/logout", h.graphLogout)
			r.Get("/status", h.graphStatus)
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (h *Handler) ask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query  string `json:"query"`
		ChatID string `json:"chat_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	answer, err := h.asker.Ask(r.Context(), req.ChatID, req.Query)
	if err != nil {
		if errors.Is(err, core.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, "Query is required")
			return
		}
		log.FromCtx(r.Context()).Error().Err(err).Msg("ask failed")
		writeError(w, http.StatusInternalServerError, "Failed to process query")
		return
	}

	facts, err := h.facts.All(r.Context())
	if err != nil {
		log.FromCtx(r.Context()).Warn().Err(err).Msg("failed to read facts")
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"response":       answer.Text,
		"chat_id":        answer.ChatID,
		"memory_updated": len(facts) > 0,
	})
}

func (h *Handler) listChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chats.ListChats(r.Context())
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("failed to list chats")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve chats")
		return
	}
	if chats == nil {
		chats = []core.Chat{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"chats": chats})
}

func (h *Handler) createChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChatID string `json:"chat_id"`
		Title  string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ChatID == "" {
		req.ChatID = chat.NewChatID()
	}
	if req.Title == "" {
		req.Title = "New Conversation"
	}

	if err := h.chats.CreateChat(r.Context(), req.ChatID, req.Title); err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("failed to create chat")
		writeError(w, http.StatusInternalServerError, "Failed to create chat")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "chat_id": req.ChatID})
}

func (h *Handler) chatHistory(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	if _, err := h.chats.ChatInfo(r.Context(), chatID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Chat not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to retrieve history")
		return
	}

	turns, err := h.chats.RecentTurns(r.Context(), chatID, historyLimit)
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("failed to load history")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve history")
		return
	}
	if turns == nil {
		turns = []core.Turn{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"chat_id": chatID, "history": turns})
}

func (h *Handler) exportChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	info, err := h.chats.ChatInfo(r.Context(), chatID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Chat not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to export chat")
		return
	}

	turns, err := h.chats.RecentTurns(r.Context(), chatID, historyLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export chat")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"export_data": map[string]any{
			"chat_id":     chatID,
			"title":       info.Title,
			"created_at":  info.CreatedAt,
			"messages":    turns,
			"exported_at": time.Now().UTC(),
		},
	})
}

func (h *Handler) deleteChat(w http.ResponseWriter, r *http.Request) {
	err := h.chats.DeleteChat(r.Context(), chi.URLParam(r, "chatID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Chat not found")
			return
		}
		log.FromCtx(r.Context()).Error().Err(err).Msg("failed to delete chat")
		writeError(w, http.StatusInternalServerError, "Failed to delete chat")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) getMemory(w http.ResponseWriter, r *http.Request) {
	facts, err := h.facts.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve user memory")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"memory": facts})
}

func (h *Handler) setMemory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" || req.Value == "" {
		writeError(w, http.StatusBadRequest, "Key and value are required")
		return
	}

	if err := h.facts.Set(r.Context(), core.FactKey(req.Key), req.Value); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store user memory")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) deleteMemory(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.facts.Delete(r.Context(), core.FactKey(chi.URLParam(r, "key")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete user memory")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Memory key not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chats.ListChats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve stats")
		return
	}

	totalTurns := 0
	for _, c := range chats {
		n, err := h.chats.TurnCount(r.Context(), c.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to retrieve stats")
			return
		}
		totalTurns += n
	}

	facts, err := h.facts.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve stats")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_chats":       len(chats),
		"total_messages":    totalTurns,
		"user_memory_items": len(facts),
		"user_memory":       facts,
	})
}

func (h *Handler) assist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	token, _ := h.sessions.Get(remoteHost(r.RemoteAddr))
	result := h.assistant.Process(r.Context(), graph.Session{Token: token}, req.Message)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) graphAuth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccessToken == "" {
		writeError(w, http.StatusBadRequest, "Access token is required")
		return
	}

	user, err := h.validator.Me(r.Context(), graph.Session{Token: req.AccessToken})
	if err != nil {
		log.FromCtx(r.Context()).Warn().Err(err).Msg("graph token validation failed")
		writeError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	h.sessions.Set(remoteHost(r.RemoteAddr), req.AccessToken)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Authentication successful",
		"user":    user,
	})
}

func (h *Handler) graphLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(remoteHost(r.RemoteAddr))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (h *Handler) graphStatus(w http.ResponseWriter, r *http.Request) {
	_, authenticated := h.sessions.Get(remoteHost(r.RemoteAddr))
	message := "Not connected to Microsoft"
	if authenticated {
		message = "Connected to Microsoft"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": authenticated,
		"message":       message,
	})
}
