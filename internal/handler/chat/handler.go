package chat

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mizunoha/kokoro-relay/internal/lexicon"
	"github.com/mizunoha/kokoro-relay/internal/service/relay"
	"github.com/mizunoha/kokoro-relay/pkg/utils"
)

// maxBodyBytes caps the chat request body.
const maxBodyBytes = 20 << 20

// Handler exposes the relay pipeline over HTTP.
type Handler struct {
	relaySvc *relay.Service
}

// New creates the chat handler.
func New(relaySvc *relay.Service) *Handler {
	return &Handler{relaySvc: relaySvc}
}

// RegisterRoutes mounts the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/emotion-history", h.handleEmotionHistory)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Text   string        `json:"text"`
	Audio  string        `json:"audio"`
	Danger bool          `json:"danger"`
	Score  int           `json:"score"`
	ICF    []lexicon.Tag `json:"icf"`
}

type historySample struct {
	Time  int64 `json:"time"`
	Score int   `json:"score"`
}

// handleChat runs one message through the relay. A missing or undecodable
// body is treated as an empty message rather than rejected; the frontend
// has always relied on that.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		payload.Message = ""
	}

	reply, err := h.relaySvc.Handle(r.Context(), payload.Message)
	if err != nil {
		log.Printf("[chat] pipeline failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "server_error")
		return
	}

	tags := reply.Tags
	if tags == nil {
		tags = []lexicon.Tag{}
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{
		Text:   reply.Text,
		Audio:  base64.StdEncoding.EncodeToString(reply.Audio),
		Danger: reply.Danger,
		Score:  reply.Score,
		ICF:    tags,
	})
}

// handleEmotionHistory returns the full in-memory score history, oldest
// first, with epoch-millisecond timestamps.
func (h *Handler) handleEmotionHistory(w http.ResponseWriter, r *http.Request) {
	samples := h.relaySvc.History()

	out := make([]historySample, 0, len(samples))
	for _, sample := range samples {
		out = append(out, historySample{
			Time:  sample.Time.UnixMilli(),
			Score: sample.Score,
		})
	}

	utils.RespondJSON(w, http.StatusOK, out)
}

