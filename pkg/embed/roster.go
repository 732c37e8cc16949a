package embed

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/umaroster/pkg/uma"
	"github.com/latoulicious/umaroster/pkg/uma/service"
	"github.com/latoulicious/umaroster/pkg/uma/shared"
)

// Limit to prevent embeds from being too long
const maxListItems = 20

var categoryOrder = []shared.Category{
	shared.CategoryStat,
	shared.CategoryAptitude,
	shared.CategorySkill,
	shared.CategoryUniqueSkill,
}

// RosterEmbeds implements RosterEmbedBuilder interface
type RosterEmbeds struct {
	basicEmbeds
}

// NewRosterEmbedBuilder creates a new RosterEmbeds instance
func NewRosterEmbedBuilder() RosterEmbedBuilder {
	return &RosterEmbeds{}
}

// RosterList creates an embed listing the roster in display order
func (r *RosterEmbeds) RosterList(entries []shared.RosterEntry, state uma.ResourceState) *discordgo.MessageEmbed {
	embed := r.Info("📋 Roster", "")

	if len(entries) == 0 {
		switch state.Status {
		case uma.StatusLoading:
			embed.Description = "Roster is loading..."
		case uma.StatusFailed:
			embed.Description = "Roster could not be loaded."
		default:
			embed.Description = "Roster is empty"
		}
	} else {
		lines := make([]string, 0, len(entries))
		for _, entry := range entries {
			lines = append(lines, rosterLine(entry))
		}
		embed.Description = joinLimited(lines, maxListItems)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Records",
			Value:  fmt.Sprintf("%d", len(entries)),
			Inline: true,
		})
	}

	if state.Err != nil {
		embed.Color = colorWarning
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "⚠️ Last Load Failed",
			Value:  truncate(state.Err.Error()),
			Inline: false,
		})
	}

	return embed
}

func rosterLine(entry shared.RosterEntry) string {
	marker := "▫️"
	if entry.IsFavourite {
		marker = "⭐"
	}
	return fmt.Sprintf("%s `#%d` %s", marker, entry.ID, entry.Name)
}

// Umamusume creates an embed describing one record with its sparks and inspirations
func (r *RosterEmbeds) Umamusume(entry shared.RosterEntry, sparkByID map[int]shared.Spark, umamusumeByID map[int]shared.Umamusume) *discordgo.MessageEmbed {
	title := entry.Name
	if entry.IsFavourite {
		title = "⭐ " + title
	}
	embed := r.Info(title, fmt.Sprintf("Roster id `#%d`", entry.ID))

	byCategory := make(map[shared.Category][]string)
	for _, ref := range entry.Sparks {
		spark, ok := sparkByID[ref.SparkID]
		if !ok {
			byCategory[shared.CategoryUnknown] = append(byCategory[shared.CategoryUnknown],
				fmt.Sprintf("`#%d` %s", ref.SparkID, stars(ref.Rarity)))
			continue
		}
		byCategory[spark.Category] = append(byCategory[spark.Category],
			fmt.Sprintf("%s %s", spark.Name, stars(ref.Rarity)))
	}

	for _, category := range append(categoryOrder, shared.CategoryUnknown) {
		lines, ok := byCategory[category]
		if !ok {
			continue
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   category.Label(),
			Value:  truncate(strings.Join(lines, "\n")),
			Inline: true,
		})
	}

	if ids := entry.Inspirations(); len(ids) > 0 {
		names := make([]string, 0, len(ids))
		for _, id := range ids {
			if parent, ok := umamusumeByID[id]; ok {
				names = append(names, fmt.Sprintf("%s `#%d`", parent.Name, id))
			} else {
				names = append(names, fmt.Sprintf("`#%d` (missing)", id))
			}
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "🧬 Inspirations",
			Value:  strings.Join(names, "\n"),
			Inline: false,
		})
	}

	return embed
}

// SparkList creates an embed listing catalog sparks grouped by category
func (r *RosterEmbeds) SparkList(sparks []shared.Spark, state uma.ResourceState) *discordgo.MessageEmbed {
	embed := r.Info("✨ Sparks", "")

	if len(sparks) == 0 {
		switch state.Status {
		case uma.StatusLoading:
			embed.Description = "Sparks are loading..."
		case uma.StatusFailed:
			embed.Description = "Sparks could not be loaded."
		default:
			embed.Description = "No sparks in the catalog"
		}
		return embed
	}

	byCategory := make(map[shared.Category][]string)
	for _, spark := range sparks {
		byCategory[spark.Category] = append(byCategory[spark.Category], fmt.Sprintf("`#%d` %s", spark.ID, spark.Name))
	}
	for _, category := range categoryOrder {
		lines, ok := byCategory[category]
		if !ok {
			continue
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s (%d)", category.Label(), len(lines)),
			Value:  truncate(joinLimited(lines, maxListItems)),
			Inline: false,
		})
	}

	return embed
}

// Rankings creates an embed of Stat and Aptitude sparks grouped by name
func (r *RosterEmbeds) Rankings(rankings service.SparkRankings) *discordgo.MessageEmbed {
	embed := r.Info("🏆 Spark Rankings", "")

	sections := []struct {
		name   string
		groups []service.SparkGroup
	}{
		{shared.CategoryStat.Label(), rankings.Stat},
		{shared.CategoryAptitude.Label(), rankings.Aptitude},
	}

	for _, section := range sections {
		if len(section.groups) == 0 {
			continue
		}
		lines := make([]string, 0, len(section.groups))
		for _, group := range section.groups {
			ids := make([]string, 0, len(group.Sparks))
			for _, spark := range group.Sparks {
				ids = append(ids, fmt.Sprintf("#%d", spark.ID))
			}
			lines = append(lines, fmt.Sprintf("**%s** %s", group.Name, strings.Join(ids, ", ")))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   section.name,
			Value:  truncate(strings.Join(lines, "\n")),
			Inline: false,
		})
	}

	if len(embed.Fields) == 0 {
		embed.Description = "No Stat or Aptitude sparks in the catalog"
	}

	return embed
}

// LoadoutResult creates an embed reporting a loadout validation outcome
func (r *RosterEmbeds) LoadoutResult(sel shared.LoadoutSelection, result service.ValidationResult) *discordgo.MessageEmbed {
	var embed *discordgo.MessageEmbed
	if result.Valid {
		embed = r.Success("✅ Loadout Valid", fmt.Sprintf("**%s** can be saved.", sel.Name))
	} else {
		embed = r.Warning("⚠️ Loadout Invalid", result.Message)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Rule",
			Value:  fmt.Sprintf("%d", result.Rule),
			Inline: true,
		})
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{
			Name:   "Sparks",
			Value:  fmt.Sprintf("%d", len(sel.Sparks)),
			Inline: true,
		},
		&discordgo.MessageEmbedField{
			Name:   "Inspirations",
			Value:  fmt.Sprintf("%d", len(sel.InspirationIDs())),
			Inline: true,
		},
	)

	return embed
}

// Status creates an embed describing load state and the refresh schedule
func (r *RosterEmbeds) Status(status StatusView) *discordgo.MessageEmbed {
	embed := r.Info("⏰ Roster Status", "")

	nextRun := "Not scheduled"
	if !status.NextRun.IsZero() {
		nextRun = status.NextRun.Format("2006-01-02 15:04:05")
	}
	schedule := status.Schedule
	if schedule == "" {
		schedule = "Disabled"
	}

	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "📋 Roster", Value: resourceLine(status.Roster), Inline: true},
		{Name: "✨ Sparks", Value: resourceLine(status.Sparks), Inline: true},
		{Name: "🐎 Records", Value: fmt.Sprintf("%d (%d favourites)", status.Count, status.Favourites), Inline: true},
		{Name: "📅 Schedule", Value: schedule, Inline: true},
		{Name: "⏭️ Next Run", Value: nextRun, Inline: true},
		{Name: "🏃 Refreshing", Value: fmt.Sprintf("%t", status.Refreshing), Inline: true},
	}

	if status.Roster.Status == uma.StatusFailed || status.Sparks.Status == uma.StatusFailed {
		embed.Color = colorWarning
	}

	return embed
}

func resourceLine(state uma.ResourceState) string {
	line := state.Status.String()
	if !state.LoadedAt.IsZero() {
		line = fmt.Sprintf("%s at %s", line, state.LoadedAt.Format("15:04:05"))
	}
	if state.Err != nil {
		line = fmt.Sprintf("%s\n%s", line, truncate(state.Err.Error()))
	}
	return line
}
