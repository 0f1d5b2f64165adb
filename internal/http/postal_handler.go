package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/Rogerio-17/cardapio-digital-web/internal/logger"
	"github.com/Rogerio-17/cardapio-digital-web/internal/postal"
)

// LookupSeqHeader carries the per-session sequence number of a CEP lookup.
const LookupSeqHeader = "X-Lookup-Seq"

type PostalHandler struct {
	lookup  postal.Lookuper
	seqs    *postal.Sequencers
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewPostalHandler(lookup postal.Lookuper, timeout time.Duration, log logrus.FieldLogger) *PostalHandler {
	return &PostalHandler{lookup: lookup, seqs: postal.NewSequencers(), timeout: timeout, log: log}
}

// Lookup resolves a CEP so the delivery address form can be prefilled.
// When the same session starts a newer lookup before this one answers, this
// one is answered 409 superseded so the form only applies the latest result.
func (h *PostalHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	code, err := postal.NormalizeCode(chi.URLParam(r, "code"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	sessionID := getSessionID(r.Context())
	seq := h.seqs.Begin(sessionID)
	w.Header().Set(LookupSeqHeader, strconv.FormatUint(seq, 10))

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	addr, err := h.lookup.Lookup(ctx, code)
	if !h.seqs.Finish(sessionID, seq) {
		logger.FromContext(r.Context(), h.log).WithFields(logrus.Fields{
			"postal_code": code,
			"seq":         seq,
		}).Debug("postal lookup superseded")
		respondError(w, http.StatusConflict, "superseded", "consulta substituída por uma mais recente")
		return
	}
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, addr)
}
