package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"lifeforge/internal/engine"
	"lifeforge/internal/ui"
)

type lineKind int

const (
	lineQuest lineKind = iota
	lineObjective
	lineRecurring
)

type boardModel struct {
	ctx         context.Context
	svc         *engine.Service
	characterID string

	width  int
	height int

	state *engine.State
	now   time.Time

	expanded map[string]bool
	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	state *engine.State
	now   time.Time
	err   error
}

type actionMsg struct {
	log string
	err error
}

func newBoardModel(ctx context.Context, svc *engine.Service, characterID string) boardModel {
	return boardModel{
		ctx:         ctx,
		svc:         svc,
		characterID: characterID,
		expanded:    map[string]bool{},
		loading:     true,
		lastLog:     "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		st, now, err := m.svc.View(m.ctx, m.characterID)
		return loadedMsg{state: st, now: now, err: err}
	}
}

func (m boardModel) completeCmd(line boardLine) tea.Cmd {
	return func() tea.Msg {
		switch line.kind {
		case lineObjective:
			res, err := m.svc.CompleteObjective(m.ctx, m.characterID, line.questID, line.id)
			if err != nil {
				return actionMsg{err: err}
			}
			msg := fmt.Sprintf("Objective done: %s", outcomeText(res.Outcome))
			if res.QuestCompleted {
				msg += " | quest complete"
			}
			return actionMsg{log: msg}
		case lineQuest:
			res, err := m.svc.CompleteQuest(m.ctx, m.characterID, line.id)
			if err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{log: "Quest done: " + outcomeText(res.Outcome)}
		case lineRecurring:
			if line.recurring == engine.RecurringDaily {
				res, err := m.svc.CompleteDailyQuest(m.ctx, m.characterID, line.id)
				if err != nil {
					return actionMsg{err: err}
				}
				return actionMsg{log: fmt.Sprintf("Daily done: streak %d, %s", res.NewStreak, outcomeText(res.Outcome))}
			}
			res, err := m.svc.CompleteNeed(m.ctx, m.characterID, line.id)
			if err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{log: fmt.Sprintf("Need met: streak %d, %s", res.NewStreak, outcomeText(res.Outcome))}
		}
		return actionMsg{}
	}
}

func outcomeText(out engine.Outcome) string {
	s := fmt.Sprintf("+%d XP", out.TotalXP())
	if out.LeveledUp() {
		s += fmt.Sprintf(" (level %d → %d)", out.LevelBefore, out.LevelAfter)
	}
	for _, u := range out.AchievementsUnlocked {
		s += " | " + ui.IconTrophy + " " + u.Name
	}
	return s
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.state = msg.state
		m.now = msg.now
		for _, q := range m.state.Quests {
			if q.Status == engine.QuestActive {
				if _, seen := m.expanded[q.ID]; !seen {
					m.expanded[q.ID] = true
				}
			}
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", m.now.Local().Format("15:04:05"))
		return m, nil
	case actionMsg:
		if msg.err != nil {
			m.lastLog = "Failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = msg.log
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.lines())-1 {
				m.selected++
			}
			return m, nil
		case "enter":
			line, ok := m.current()
			if ok && line.kind == lineQuest && line.hasChildren {
				m.expanded[line.id] = !m.expanded[line.id]
			}
			return m, nil
		case "c", " ":
			line, ok := m.current()
			if !ok {
				return m, nil
			}
			if line.done {
				m.lastLog = "Already done."
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Completing %s…", line.title)
			return m, m.completeCmd(line)
		}
	}
	return m, nil
}

type boardLine struct {
	kind        lineKind
	id          string
	questID     string
	recurring   engine.RecurringKind
	depth       int
	title       string
	status      string
	done        bool
	hasChildren bool
	expanded    bool
}

func (m boardModel) current() (boardLine, bool) {
	lines := m.lines()
	if m.selected < 0 || m.selected >= len(lines) {
		return boardLine{}, false
	}
	return lines[m.selected], true
}

// lines flattens open quests (with objectives when expanded) followed by
// needs and dailies.
func (m boardModel) lines() []boardLine {
	if m.state == nil {
		return nil
	}
	var out []boardLine
	for _, q := range m.state.Quests {
		if q.Status.IsTerminal() {
			continue
		}
		out = append(out, boardLine{
			kind:        lineQuest,
			id:          q.ID,
			title:       ui.QuestTypeIcon(string(q.Type)) + " " + q.Name,
			status:      string(q.Status),
			hasChildren: len(q.Objectives) > 0,
			expanded:    m.expanded[q.ID],
		})
		if !m.expanded[q.ID] {
			continue
		}
		for _, o := range q.Objectives {
			title := o.Text
			if !o.IsRequired {
				title += " (optional)"
			}
			out = append(out, boardLine{
				kind:    lineObjective,
				id:      o.ID,
				questID: q.ID,
				depth:   1,
				title:   title,
				done:    o.IsCompleted,
			})
		}
	}
	for _, it := range m.state.Recurring {
		status := fmt.Sprintf("streak %d", engine.EffectiveStreak(it, m.now))
		if engine.IsOverdue(it, m.now) {
			status = "due"
		}
		out = append(out, boardLine{
			kind:      lineRecurring,
			id:        it.ID,
			recurring: it.Kind,
			title:     fmt.Sprintf("[%s] %s", it.Kind, it.Name),
			status:    status,
		})
	}
	return out
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 34
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := len(linesLeft)
	if len(linesRight) > rows {
		rows = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.state == nil {
		return "Lifeforge: loading…"
	}
	c := m.state.Character
	into, span := engine.LevelProgress(c.TotalXP)
	return fmt.Sprintf("Lifeforge | %s the %s | Level %d | XP %d %s | Gold %d",
		c.Name, c.Class, c.Level, c.TotalXP, ui.Bar(into, span, 30), c.Gold)
}

func (m boardModel) renderSidebar() string {
	if m.state == nil {
		return "Resources\n\nLoading…"
	}
	lines := []string{"Resources"}
	for _, kind := range engine.ResourceKinds {
		p, ok := m.state.Pools[kind]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-10s %s %d/%d", kind, ui.Bar(p.Current, p.Max, 10), p.Current, p.Max))
	}

	lines = append(lines, "", "Stats")
	stats := engine.EffectiveStats(m.state.Character, m.state.Buffs, m.now)
	for _, s := range engine.Stats {
		lines = append(lines, fmt.Sprintf("- %-10s %d", s, stats[s]))
	}

	if active := engine.ActiveBuffs(m.state.Buffs, m.now); len(active) > 0 {
		lines = append(lines, "", "Buffs")
		for _, b := range active {
			left := b.ExpiresAt.Sub(m.now).Round(time.Minute)
			lines = append(lines, fmt.Sprintf("- %s x%d (%s)", b.Name, b.StackCount, left))
		}
	}

	lines = append(lines, "", "Keys",
		"- ↑/↓ or j/k: move",
		"- enter: expand/collapse",
		"- c/space: complete",
		"- r: refresh",
		"- q: quit",
	)
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	out := []string{"Quest Log"}
	lines := m.lines()
	if len(lines) == 0 {
		out = append(out, "(empty)")
		return strings.Join(out, "\n")
	}
	header := false
	for i, bl := range lines {
		if bl.kind == lineRecurring && !header {
			out = append(out, "", "Needs & Dailies")
			header = true
		}
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		indent := strings.Repeat("  ", bl.depth)
		fold := "  "
		if bl.hasChildren {
			if bl.expanded {
				fold = "▾ "
			} else {
				fold = "▸ "
			}
		}
		mark := ""
		switch {
		case bl.kind == lineObjective && bl.done:
			mark = "[x] "
		case bl.kind == lineObjective:
			mark = "[ ] "
		}
		status := ""
		if bl.status != "" {
			status = " (" + bl.status + ")"
		}
		out = append(out, fmt.Sprintf("%s%s%s%s%s%s", cursor, indent, fold, mark, bl.title, status))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
