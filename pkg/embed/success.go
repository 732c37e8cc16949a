package embed

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/umaroster/pkg/uma/shared"
)

// SuccessEmbeds implements SuccessEmbedBuilder interface for success-specific embeds
type SuccessEmbeds struct {
	basicEmbeds
}

// NewSuccessEmbedBuilder creates a new SuccessEmbeds instance
func NewSuccessEmbedBuilder() SuccessEmbedBuilder {
	return &SuccessEmbeds{}
}

// FavouriteToggled creates an embed for a favourite flip
func (s *SuccessEmbeds) FavouriteToggled(entry shared.RosterEntry) *discordgo.MessageEmbed {
	if entry.IsFavourite {
		return s.Success("⭐ Added to Favourites", fmt.Sprintf("**%s** `#%d` is now a favourite", entry.Name, entry.ID))
	}
	return s.Success("☆ Removed from Favourites", fmt.Sprintf("**%s** `#%d` is no longer a favourite", entry.Name, entry.ID))
}

// RecordsDeleted creates an embed for a completed delete
func (s *SuccessEmbeds) RecordsDeleted(ids []int, remaining int) *discordgo.MessageEmbed {
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		labels = append(labels, fmt.Sprintf("`#%d`", id))
	}

	embed := s.Success("🗑️ Records Deleted", strings.Join(labels, ", "))
	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:   "Remaining",
			Value:  fmt.Sprintf("%d", remaining),
			Inline: true,
		},
	}
	return embed
}

// ReloadComplete creates an embed for a finished catalog reload
func (s *SuccessEmbeds) ReloadComplete(rosterCount, sparkCount int, took time.Duration) *discordgo.MessageEmbed {
	embed := s.Success("✅ Catalog Reloaded", "Roster and sparks were fetched from the catalog")
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "🐎 Records", Value: fmt.Sprintf("%d", rosterCount), Inline: true},
		{Name: "✨ Sparks", Value: fmt.Sprintf("%d", sparkCount), Inline: true},
		{Name: "⏱️ Took", Value: took.Round(time.Millisecond).String(), Inline: true},
	}
	return embed
}

// OperationComplete creates an embed for completed operations
func (s *SuccessEmbeds) OperationComplete(operation string, details string) *discordgo.MessageEmbed {
	return s.Success(fmt.Sprintf("✅ %s Complete", operation), details)
}
