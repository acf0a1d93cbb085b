package server

import (
	"fmt"
	"net/http"

	"github.com/tierwatt/tierwatt/pkg/solar"
	"github.com/tierwatt/tierwatt/pkg/types"
)

// maxCurvePoints bounds the regular samples of a curve; the step is widened
// for large consumptions.
const maxCurvePoints = 5000

func (s *Server) handleCurve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	t, err := s.table(r.Context(), q.Get("tariff"))
	if err != nil {
		writeInputError(w, r, err)
		return
	}

	in := s.defaults.Input(s.defaults.ConsumptionKWH, s.defaults.PanelCount)
	if in.MonthlyConsumptionKWH, err = queryFloat(q, "kwh", in.MonthlyConsumptionKWH); err != nil {
		writeInputError(w, r, err)
		return
	}
	if in.PanelCount, err = queryInt(q, "panels", in.PanelCount); err != nil {
		writeInputError(w, r, err)
		return
	}
	if in.GenerationPerPanelKWH, err = queryFloat(q, "generation", in.GenerationPerPanelKWH); err != nil {
		writeInputError(w, r, err)
		return
	}
	step, err := queryFloat(q, "step", 1)
	if err != nil {
		writeInputError(w, r, err)
		return
	}
	if step <= 0 {
		writeInputError(w, r, fmt.Errorf("step must be positive: %w", types.ErrOutOfDomain))
		return
	}
	if in, err = in.Normalize(s.defaults.Limits); err != nil {
		writeInputError(w, r, err)
		return
	}

	step = max(step, solar.CurveMaxKWH(in.MonthlyConsumptionKWH)/maxCurvePoints)
	writeJSON(w, r, solar.CostCurve(t, in.MonthlyConsumptionKWH, in.PanelCount, in.GenerationPerPanelKWH, step))
}
