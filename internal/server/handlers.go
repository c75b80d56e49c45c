package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/coreassistant/planned/internal/grouper"
	"github.com/coreassistant/planned/internal/logger"
	"github.com/coreassistant/planned/internal/model"
	"github.com/coreassistant/planned/internal/render"
)

// itemView is the JSON projection of one agenda item.
type itemView struct {
	ID       string     `json:"id"`
	Type     string     `json:"type"`
	Title    string     `json:"title"`
	Status   string     `json:"status,omitempty"`
	Start    string     `json:"start,omitempty"`
	End      string     `json:"end,omitempty"`
	Location string     `json:"location,omitempty"`
	List     string     `json:"list,omitempty"`
	Source   string     `json:"source,omitempty"`
	Subitems []itemView `json:"subitems,omitempty"`
}

type periodView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type bucketView struct {
	Group  string      `json:"group"`
	Period *periodView `json:"period,omitempty"`
	Items  []itemView  `json:"items"`
}

type agendaView struct {
	Today   string       `json:"today"`
	Buckets []bucketView `json:"buckets"`
}

func toItemView(it *model.Item) itemView {
	v := itemView{
		ID:       it.ID,
		Type:     string(it.Type),
		Title:    it.Title,
		Status:   string(it.Status),
		Start:    it.StartRaw,
		End:      it.EndRaw,
		Location: it.Location,
		Source:   string(it.Source),
	}
	if it.List != nil {
		v.List = it.List.Name
	}
	for _, sub := range it.Subitems {
		v.Subitems = append(v.Subitems, toItemView(sub))
	}
	return v
}

func toAgendaView(today string, buckets []grouper.Bucket) agendaView {
	view := agendaView{Today: today}
	for _, b := range buckets {
		bv := bucketView{Group: b.Group.Label(), Items: []itemView{}}
		if !b.Period.IsZero() {
			bv.Period = &periodView{Start: b.Period.Start.String(), End: b.Period.End.String()}
		}
		for _, it := range b.Items {
			bv.Items = append(bv.Items, toItemView(it))
		}
		view.Buckets = append(view.Buckets, bv)
	}
	return view
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		s.log.Error("failed_to_encode_health_response", zap.Error(err))
	}
}

func (s *Server) handleAgendaText(w http.ResponseWriter, r *http.Request) {
	buckets, err := s.planner.Plan(r.Context())
	if err != nil {
		s.log.Error("agenda_plan_failed", zap.String("error", logger.SanitizeError(err)))
		respondError(w, r, http.StatusBadGateway, "Upstream Error", "Failed to fetch agenda data", s.log)
		return
	}

	var buf bytes.Buffer
	presenter, err := render.NewPlainPresenter(s.planner.Clock(), &buf, s.indentStep)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal Server Error", "Failed to build renderer", s.log)
		return
	}
	if err := presenter.Present(buckets); err != nil {
		s.log.Error("agenda_render_failed", zap.String("error", logger.SanitizeError(err)))
		respondError(w, r, http.StatusInternalServerError, "Internal Server Error", "Failed to render agenda", s.log)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.Error("failed_to_write_agenda", zap.Error(err))
	}
}

func (s *Server) handleAgendaJSON(w http.ResponseWriter, r *http.Request) {
	buckets, err := s.planner.Plan(r.Context())
	if err != nil {
		s.log.Error("agenda_plan_failed", zap.String("error", logger.SanitizeError(err)))
		respondError(w, r, http.StatusBadGateway, "Upstream Error", "Failed to fetch agenda data", s.log)
		return
	}

	view := toAgendaView(s.planner.Clock().Today.String(), buckets)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view); err != nil {
		s.log.Error("failed_to_encode_agenda", zap.Error(err))
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{
		"service": serviceName,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		s.log.Error("failed_to_encode_version_response", zap.Error(err))
	}
}
