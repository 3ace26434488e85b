package http

import (
	"encoding/json"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"adminrag/src/core/rag"
	"adminrag/src/infrastructure/log"
)

const defaultResultCount = 3

type questionRequest struct {
	Question string `json:"question"`
	// Kept as a float pointer so a non-integer value coerces to the
	// default instead of failing the bind.
	NResultats *float64 `json:"n_resultats"`
}

type contexteJSON struct {
	Texte    string  `json:"texte"`
	Source   string  `json:"source"`
	Distance float64 `json:"distance"`
}

type questionResponse struct {
	Success   bool           `json:"success"`
	Question  string         `json:"question"`
	Reponse   string         `json:"reponse"`
	Sources   []string       `json:"sources"`
	Contextes []contexteJSON `json:"contextes"`
}

// PostQuestion answers a natural-language question grounded on the indexed
// corpus. A syntactically valid request always gets HTTP 200, even when
// generation degrades; only boundary validation fails with 400.
func (h *Handler) PostQuestion(c *gin.Context) {
	var req questionRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Format JSON invalide")
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		sendError(c, http.StatusBadRequest, "La question ne peut pas être vide")
		return
	}

	k := defaultResultCount
	if req.NResultats != nil {
		if n := *req.NResultats; n >= 1 && n == math.Trunc(n) {
			k = int(n)
		}
	}

	requestID := uuid.New().String()
	log.Info("question received", "request_id", requestID, "question", question, "n_resultats", k)

	answer, err := h.answerService.Answer(c.Request.Context(), question, k)
	if err != nil {
		log.Error(err, "failed to answer question", "request_id", requestID)
		sendError(c, http.StatusInternalServerError, "Erreur serveur: "+err.Error())
		return
	}

	log.Info("question answered", "request_id", requestID, "sources", len(answer.Sources))

	sendJSON(c, http.StatusOK, questionResponse{
		Success:   true,
		Question:  question,
		Reponse:   answer.Text,
		Sources:   answer.Sources,
		Contextes: toContextes(answer.Passages),
	})
}

func toContextes(passages []rag.Passage) []contexteJSON {
	contextes := make([]contexteJSON, len(passages))
	for i, p := range passages {
		contextes[i] = contexteJSON{
			Texte:    p.Text,
			Source:   p.Source,
			Distance: p.Distance,
		}
	}
	return contextes
}
