package root

import (
	"fmt"
	"io"
	"sort"

	"lifeforge/internal/engine"
	"lifeforge/internal/ui"
)

// printOutcome renders the shared cascade: XP, level, resources and unlocks.
func printOutcome(w io.Writer, out engine.Outcome) {
	if out.DirectXP > 0 {
		fmt.Fprintf(w, "%s +%d XP\n", ui.IconSparkle, out.DirectXP)
	}
	if out.GoldGained > 0 {
		fmt.Fprintf(w, "%s +%d gold\n", ui.IconCoin, out.GoldGained)
	}
	for _, d := range out.ResourceDeltas {
		if d.Applied() == 0 {
			continue
		}
		fmt.Fprintf(w, "%s %s %+d (%d -> %d)\n", ui.IconHeart, d.Kind, d.Applied(), d.Before, d.After)
	}
	for _, stat := range sortedKeys(out.StatBoosts) {
		fmt.Fprintf(w, "%s %s +%d\n", ui.IconBolt, stat, out.StatBoosts[stat])
	}
	for _, skill := range sortedKeys(out.SkillCredits) {
		fmt.Fprintf(w, "%s skill %s +%d\n", ui.IconScroll, skill, out.SkillCredits[skill])
	}
	for _, u := range out.AchievementsUnlocked {
		fmt.Fprintf(w, "%s %s %s\n", ui.IconTrophy, ui.Gold.Render(u.Name), ui.Muted.Render(fmt.Sprintf("(+%d XP)", u.XP)))
	}
	if out.LeveledUp() {
		fmt.Fprintf(w, "%s %s level %d -> %d\n", ui.IconBolt, ui.BadgeLevelUp, out.LevelBefore, out.LevelAfter)
	}
}

func sortedKeys[K ~string](m map[K]int) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func enabledStr(ok bool) string {
	if ok {
		return ui.Good.Render("unlocked")
	}
	return ui.Bad.Render("locked")
}
