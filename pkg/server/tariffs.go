package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tierwatt/tierwatt/pkg/log"
	"github.com/tierwatt/tierwatt/pkg/tariff"
	"github.com/tierwatt/tierwatt/pkg/types"
)

type tariffResponse struct {
	types.Tariff
	Breakdown []types.TierInfo `json:"breakdown"`
	Jumps     []types.TierJump `json:"jumps"`
}

type costResponse struct {
	Tariff      string  `json:"tariff"`
	KWH         float64 `json:"kwh"`
	TierIndex   int     `json:"tierIndex"`
	MonthlyCost float64 `json:"monthlyCost"`
	YearlyCost  float64 `json:"yearlyCost"`
	Display     struct {
		MonthlyCost string `json:"monthlyCost"`
		YearlyCost  string `json:"yearlyCost"`
	} `json:"display"`
}

func (s *Server) handleListTariffs(w http.ResponseWriter, r *http.Request) {
	s.setCacheControl(w)
	writeJSON(w, r, s.tariffs.List())
}

func (s *Server) handleGetTariff(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r.Context(), r.PathValue("id"))
	if err != nil {
		writeInputError(w, r, err)
		return
	}
	s.setCacheControl(w)
	writeJSON(w, r, tariffResponse{
		Tariff:    t.Tariff(),
		Breakdown: t.Breakdown(),
		Jumps:     t.Jumps(),
	})
}

func (s *Server) handleCost(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	t, err := s.table(r.Context(), q.Get("tariff"))
	if err != nil {
		writeInputError(w, r, err)
		return
	}
	kwh, err := queryFloat(q, "kwh", s.defaults.ConsumptionKWH)
	if err != nil {
		writeInputError(w, r, err)
		return
	}
	in, err := s.defaults.Input(kwh, 0).Normalize(s.defaults.Limits)
	if err != nil {
		writeInputError(w, r, err)
		return
	}

	resp := costResponse{
		Tariff:      t.ID(),
		KWH:         in.MonthlyConsumptionKWH,
		TierIndex:   t.TierIndex(in.MonthlyConsumptionKWH),
		MonthlyCost: t.Cost(in.MonthlyConsumptionKWH),
	}
	resp.YearlyCost = resp.MonthlyCost * 12
	resp.Display.MonthlyCost = money(resp.MonthlyCost, t.Currency())
	resp.Display.YearlyCost = money(resp.YearlyCost, t.Currency())
	writeJSON(w, r, resp)
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	s.setCacheControl(w)
	writeJSON(w, r, s.defaults)
}

// table returns the tariff with the given ID, or the default for an empty ID.
// Tariffs stored after startup are fetched from storage and kept in the map.
func (s *Server) table(ctx context.Context, id string) (*tariff.Table, error) {
	t, err := s.tariffs.Table(id)
	if err == nil || id == "" || s.storage == nil || !errors.Is(err, tariff.ErrUnknownTariff) {
		return t, err
	}
	stored, err := s.storage.GetTariff(ctx, id)
	if err != nil {
		return nil, err
	}
	t, err = tariff.NewTable(stored)
	if err != nil {
		return nil, fmt.Errorf("stored tariff %s: %w", id, err)
	}
	s.tariffs.Set(t)
	log.Ctx(ctx).InfoContext(ctx, "loaded stored tariff", slog.String("id", t.ID()))
	return t, nil
}
