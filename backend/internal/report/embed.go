package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"shiftbot/backend/internal/permissions"
	"shiftbot/backend/internal/tracking"
)

const (
	embedColor     = 0x3498db
	alertLineLimit = 10
)

// BuildEmbed formats the day's reports as a Discord embed. An empty
// report set still renders, so a quiet day produces a visible "nothing
// changed" summary instead of silence.
func BuildEmbed(reports []EmployeeReport, dir *permissions.Directory, now time.Time) *discordgo.MessageEmbed {
	sorted := make([]EmployeeReport, len(reports))
	copy(sorted, reports)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Username < sorted[j].Username })

	embed := &discordgo.MessageEmbed{
		Title:       "📊 Daily Shift Summary",
		Description: fmt.Sprintf("**%s**", now.Format("January 2, 2006")),
		Color:       embedColor,
		Timestamp:   now.Format(time.RFC3339),
	}

	totalCompletions := 0
	totalEscalations := 0
	totalAttention := 0
	subjectsUpdated := make(map[string]bool)

	for _, r := range sorted {
		totalCompletions += len(r.Changes.Completions)
		totalEscalations += len(r.Changes.Escalations)
		totalAttention += len(r.Changes.AttentionNeeded)
		for _, subject := range r.Changes.SubjectsTouched {
			subjectsUpdated[subject] = true
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: displayName(dir, r.Username),
			Value: fmt.Sprintf("✅ **%d** tasks completed\n👥 **%d** customers updated",
				len(r.Changes.Completions), len(r.Changes.SubjectsTouched)),
			Inline: true,
		})
	}

	// Spacer between the per-employee grid and the alert sections.
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "\u200b", Value: "\u200b",
	})

	if totalEscalations > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("⚠️ ERRORS FLAGGED (%d)", totalEscalations),
			Value: alertSection(sorted, func(r EmployeeReport) []string {
				return alertLines(r, dir, r.Changes.Escalations)
			}),
		})
	}

	if totalAttention > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("🌅 MORNING ATTENTION (%d)", totalAttention),
			Value: alertSection(sorted, func(r EmployeeReport) []string {
				return alertLines(r, dir, r.Changes.AttentionNeeded)
			}),
		})
	}

	summary := []string{
		fmt.Sprintf("%d tasks ✅", totalCompletions),
		fmt.Sprintf("%d customers 👥", len(subjectsUpdated)),
	}
	if totalEscalations > 0 {
		summary = append(summary, fmt.Sprintf("%d errors ⚠️", totalEscalations))
	}
	if totalAttention > 0 {
		summary = append(summary, fmt.Sprintf("%d flags 🌅", totalAttention))
	}
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: "Summary: " + strings.Join(summary, " | "),
	}

	return embed
}

func alertSection(reports []EmployeeReport, lines func(EmployeeReport) []string) string {
	var all []string
	for _, r := range reports {
		all = append(all, lines(r)...)
	}

	text := strings.Join(truncate(all, alertLineLimit), "\n")
	if len(all) > alertLineLimit {
		text += fmt.Sprintf("\n*... and %d more*", len(all)-alertLineLimit)
	}
	return text
}

func alertLines(r EmployeeReport, dir *permissions.Directory, changes []tracking.ChangeRecord) []string {
	name := displayName(dir, r.Username)
	lines := make([]string, 0, len(changes))
	for _, ch := range changes {
		lines = append(lines, fmt.Sprintf("• **%s** - %s/%s", name, ch.PrimaryLabel, ch.Subject))
	}
	return lines
}

func truncate(lines []string, limit int) []string {
	if len(lines) > limit {
		return lines[:limit]
	}
	return lines
}

func displayName(dir *permissions.Directory, username string) string {
	friendly := dir.FriendlyName(username)
	if friendly == "" {
		return username
	}
	return strings.ToUpper(friendly[:1]) + friendly[1:]
}
