package main

import (
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/albatross-engine/albatross/aforkpool"
	"github.com/albatross-engine/albatross/avalidator"
)

type debugHandler struct {
	log        *slog.Logger
	pool       *aforkpool.Pool
	validators avalidator.Slots
}

func newRouter(log *slog.Logger, pool *aforkpool.Pool, validators avalidator.Slots, reg *prometheus.Registry) *mux.Router {
	h := debugHandler{log: log, pool: pool, validators: validators}

	r := mux.NewRouter()
	r.HandleFunc("/pool/proofs", h.handleProofs).Methods(http.MethodGet)
	r.HandleFunc("/pool/slashed", h.handleSlashed).Methods(http.MethodGet)
	r.HandleFunc("/validators", h.handleValidators).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return r
}

type proofSummary struct {
	Hash        string `json:"hash"`
	BlockNumber uint32 `json:"block_number"`
	ViewNumber  uint32 `json:"view_number"`
}

// handleProofs lists the fork proofs the pool is currently retaining,
// sized to fit an arbitrarily large block budget so every retained
// proof is reported.
func (h debugHandler) handleProofs(w http.ResponseWriter, req *http.Request) {
	const unlimitedBudget = 1 << 30

	proofs := h.pool.GetForkProofsForBlock(unlimitedBudget)

	out := make([]proofSummary, 0, len(proofs))
	for _, p := range proofs {
		hash := p.Hash()
		out = append(out, proofSummary{
			Hash:        hex.EncodeToString(hash[:]),
			BlockNumber: uint32(p.Header1.BlockNumber),
			ViewNumber:  uint32(p.Header1.ViewNumber),
		})
	}

	if err := json.NewEncoder(w).Encode(out); err != nil {
		h.log.Warn("Failed to encode proofs response", "route", "pool/proofs", "err", err)
	}
}

type slashedSummary struct {
	RetainedProofCount int `json:"retained_proof_count"`
}

// handleSlashed reports the pool's own view of how many slots it is
// currently holding as slashed, derived from the number of retained
// proofs -- per the §3 invariant, the two counts always match.
func (h debugHandler) handleSlashed(w http.ResponseWriter, req *http.Request) {
	out := slashedSummary{RetainedProofCount: h.pool.Len()}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		h.log.Warn("Failed to encode slashed response", "route", "pool/slashed", "err", err)
	}
}

type bandSummary struct {
	BandIndex int    `json:"band_index"`
	SlotCount uint16 `json:"slot_count"`
}

// handleValidators reports the current epoch's slot band table, so a
// caller inspecting the pool can see which band index owns which weight
// without decoding fork proofs by hand.
func (h debugHandler) handleValidators(w http.ResponseWriter, req *http.Request) {
	out := make([]bandSummary, 0, h.validators.Len())
	for i := 0; i < h.validators.Len(); i++ {
		band, ok := h.validators.Band(i)
		if !ok {
			continue
		}
		out = append(out, bandSummary{BandIndex: i, SlotCount: band.SlotCount})
	}

	if err := json.NewEncoder(w).Encode(out); err != nil {
		h.log.Warn("Failed to encode validators response", "route", "validators", "err", err)
	}
}
