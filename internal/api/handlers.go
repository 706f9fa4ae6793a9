package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lifeforge/internal/engine"
)

type createCharacterRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Class string `json:"class"`
}

type objectiveRequest struct {
	Text     string                `json:"text"`
	Optional bool                  `json:"optional"`
	XP       int                   `json:"xp"`
	Rewards  []engine.RewardRecord `json:"rewards"`
}

func (o objectiveRequest) draft() (engine.ObjectiveDraft, error) {
	rewards, err := engine.RewardsFromRecords(o.Rewards)
	if err != nil {
		return engine.ObjectiveDraft{}, err
	}
	return engine.ObjectiveDraft{Text: o.Text, Optional: o.Optional, XPReward: o.XP, Rewards: rewards}, nil
}

type createQuestRequest struct {
	Name             string                `json:"name"`
	Description      string                `json:"description"`
	Type             string                `json:"type"`
	Difficulty       string                `json:"difficulty"`
	XP               int                   `json:"xp"`
	Gold             int                   `json:"gold"`
	TimeLimitMinutes int                   `json:"time_limit_minutes"`
	Rewards          []engine.RewardRecord `json:"rewards"`
	Objectives       []objectiveRequest    `json:"objectives"`
}

func (q createQuestRequest) draft() (engine.QuestDraft, error) {
	qType, err := engine.ParseQuestType(q.Type)
	if err != nil {
		return engine.QuestDraft{}, err
	}
	diff, err := engine.ParseDifficulty(q.Difficulty)
	if err != nil {
		return engine.QuestDraft{}, err
	}
	rewards, err := engine.RewardsFromRecords(q.Rewards)
	if err != nil {
		return engine.QuestDraft{}, err
	}
	d := engine.QuestDraft{
		Name:             q.Name,
		Description:      q.Description,
		Type:             qType,
		Difficulty:       diff,
		XPReward:         q.XP,
		GoldReward:       q.Gold,
		TimeLimitMinutes: q.TimeLimitMinutes,
		Rewards:          rewards,
	}
	for _, o := range q.Objectives {
		od, err := o.draft()
		if err != nil {
			return engine.QuestDraft{}, err
		}
		d.Objectives = append(d.Objectives, od)
	}
	return d, nil
}

type recurringRequest struct {
	Name    string                `json:"name"`
	Kind    string                `json:"kind"`
	Cadence string                `json:"cadence"`
	XP      int                   `json:"xp"`
	Rewards []engine.RewardRecord `json:"rewards"`
}

type buffRequest struct {
	Name            string         `json:"name"`
	Kind            string         `json:"kind"`
	DurationMinutes int            `json:"duration_minutes"`
	StatBoost       map[string]int `json:"stat_boost"`
}

type amountRequest struct {
	Amount int `json:"amount"`
}

func (s *Server) handleCreateCharacter(w http.ResponseWriter, r *http.Request) {
	var req createCharacterRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	class, err := engine.ParseClass(req.Class)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	st, err := s.svc.CreateCharacter(r.Context(), engine.NewCharacterInput{ID: req.ID, Name: req.Name, Class: class})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toState(st, st.UpdatedAt))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, now, err := s.svc.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toState(st, now))
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	board, err := s.svc.TemplateBoard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	type templateView struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Difficulty  int    `json:"difficulty"`
		UnlockLevel int    `json:"unlock_level"`
		Status      string `json:"status"`
	}
	out := make([]templateView, 0, len(board))
	for _, v := range board {
		out = append(out, templateView{
			ID:          v.Template.ID,
			Name:        v.Template.Draft.Name,
			Difficulty:  int(v.Template.Draft.Difficulty),
			UnlockLevel: v.Template.UnlockLevel,
			Status:      string(v.Status),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAcceptTemplate(w http.ResponseWriter, r *http.Request) {
	q, err := s.svc.AcceptTemplate(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tid"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toQuest(*q))
}

func (s *Server) handleCreateQuest(w http.ResponseWriter, r *http.Request) {
	var req createQuestRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := req.draft()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q, err := s.svc.CreateQuest(r.Context(), chi.URLParam(r, "id"), d)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toQuest(*q))
}

func (s *Server) handleStartQuest(w http.ResponseWriter, r *http.Request) {
	q, err := s.svc.StartQuest(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "qid"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuest(*q))
}

func (s *Server) handleAbandonQuest(w http.ResponseWriter, r *http.Request) {
	q, err := s.svc.AbandonQuest(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "qid"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuest(*q))
}

func (s *Server) handleCompleteQuest(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.CompleteQuest(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "qid"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"quest_id": res.QuestID,
		"quest_xp": res.QuestXP,
		"outcome":  toOutcome(res.Outcome),
	})
}

func (s *Server) handleAddObjective(w http.ResponseWriter, r *http.Request) {
	var req objectiveRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := req.draft()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	o, err := s.svc.AddObjective(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "qid"), d)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toObjective(*o))
}

func (s *Server) handleCompleteObjective(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.CompleteObjective(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "qid"), chi.URLParam(r, "oid"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"quest_id":        res.QuestID,
		"objective_id":    res.ObjectiveID,
		"objective_xp":    res.ObjectiveXP,
		"quest_started":   res.QuestStarted,
		"quest_completed": res.QuestCompleted,
		"quest_xp":        res.QuestXP,
		"outcome":         toOutcome(res.Outcome),
	})
}

func (s *Server) handleAddRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	hours, err := engine.ParseCadence(req.Cadence)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rewards, err := engine.RewardsFromRecords(req.Rewards)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	it, err := s.svc.AddRecurringItem(r.Context(), chi.URLParam(r, "id"), engine.RecurringDraft{
		Name:         req.Name,
		Kind:         engine.RecurringKind(req.Kind),
		CadenceHours: hours,
		XPReward:     req.XP,
		Rewards:      rewards,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecurring(*it, s.svc.Clock().Now()))
}

func (s *Server) handleCompleteNeed(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.CompleteNeed(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "nid"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"need_id":       res.NeedID,
		"xp":            res.XP,
		"new_streak":    res.NewStreak,
		"best_streak":   res.BestStreak,
		"streak_broken": res.StreakBroken,
		"was_overdue":   res.WasOverdue,
		"is_overdue":    res.IsOverdue,
		"outcome":       toOutcome(res.Outcome),
	})
}

func (s *Server) handleCompleteDaily(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.CompleteDailyQuest(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "did"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"daily_id":      res.DailyID,
		"xp":            res.XP,
		"streak_bonus":  res.StreakBonus,
		"new_streak":    res.NewStreak,
		"best_streak":   res.BestStreak,
		"streak_broken": res.StreakBroken,
		"outcome":       toOutcome(res.Outcome),
	})
}

func (s *Server) handleActivateBuff(w http.ResponseWriter, r *http.Request) {
	var req buffRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	kind, err := engine.ParseBuffKind(req.Kind)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	boost := map[engine.Stat]int{}
	for k, v := range req.StatBoost {
		stat, err := engine.ParseStat(k)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		boost[stat] += v
	}
	res, err := s.svc.ActivateBuff(r.Context(), chi.URLParam(r, "id"), engine.BuffRequest{
		Name:            req.Name,
		Kind:            kind,
		StatBoost:       boost,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"buff_id":     res.BuffID,
		"xp":          res.XP,
		"stacked":     res.Stacked,
		"stack_count": res.StackCount,
		"expires_at":  res.ExpiresAt,
		"outcome":     toOutcome(res.Outcome),
	})
}

func (s *Server) handleDeactivateBuff(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeactivateBuff(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "bid")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdjustResource(w http.ResponseWriter, r *http.Request) {
	kind, err := engine.ParseResourceKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req amountRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := s.svc.AdjustResource(r.Context(), chi.URLParam(r, "id"), kind, req.Amount)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDelta(*d))
}

func (s *Server) handleHousekeep(w http.ResponseWriter, r *http.Request) {
	rep, err := s.svc.Housekeep(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	regen := make([]deltaView, 0, len(rep.Regenerated))
	for _, d := range rep.Regenerated {
		regen = append(regen, toDelta(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"regenerated":   regen,
		"buffs_pruned":  rep.BuffsPruned,
		"quests_failed": rep.QuestsFailed,
	})
}
