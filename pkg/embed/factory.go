package embed

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	colorSuccess = 0x00ff00 // Green
	colorError   = 0xff0000 // Red
	colorInfo    = 0x7289da // Discord blurple
	colorWarning = 0xffaa00 // Orange

	footerText = "umaroster"

	// Discord rejects field values longer than 1024 characters
	maxFieldLength = 1000
)

// basicEmbeds implements EmbedBuilder and is shared by every builder
type basicEmbeds struct{}

// Success creates a success embed
func (basicEmbeds) Success(title, description string) *discordgo.MessageEmbed {
	return newEmbed(title, description, colorSuccess)
}

// Error creates an error embed
func (basicEmbeds) Error(title, description string) *discordgo.MessageEmbed {
	return newEmbed(title, description, colorError)
}

// Info creates an info embed
func (basicEmbeds) Info(title, description string) *discordgo.MessageEmbed {
	return newEmbed(title, description, colorInfo)
}

// Warning creates a warning embed
func (basicEmbeds) Warning(title, description string) *discordgo.MessageEmbed {
	return newEmbed(title, description, colorWarning)
}

func newEmbed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: footerText,
		},
	}
}

// truncate shortens s to fit an embed field
func truncate(s string) string {
	if len(s) > maxFieldLength {
		return s[:maxFieldLength-3] + "..."
	}
	return s
}

// stars renders a rarity as filled and empty stars
func stars(rarity int) string {
	if rarity < 0 {
		rarity = 0
	}
	if rarity > 3 {
		rarity = 3
	}
	return strings.Repeat("★", rarity) + strings.Repeat("☆", 3-rarity)
}

// joinLimited joins lines and summarizes the overflow
func joinLimited(lines []string, maxItems int) string {
	if len(lines) <= maxItems {
		return strings.Join(lines, "\n")
	}
	shown := strings.Join(lines[:maxItems], "\n")
	return fmt.Sprintf("%s\n... and %d more", shown, len(lines)-maxItems)
}

// DefaultEmbedFactory implements EmbedFactory interface
type DefaultEmbedFactory struct{}

// NewEmbedFactory creates a new DefaultEmbedFactory instance
func NewEmbedFactory() EmbedFactory {
	return &DefaultEmbedFactory{}
}

// CreateRosterEmbedBuilder creates a RosterEmbedBuilder instance
func (f *DefaultEmbedFactory) CreateRosterEmbedBuilder() RosterEmbedBuilder {
	return NewRosterEmbedBuilder()
}

// CreateErrorEmbedBuilder creates an ErrorEmbedBuilder instance
func (f *DefaultEmbedFactory) CreateErrorEmbedBuilder() ErrorEmbedBuilder {
	return NewErrorEmbedBuilder()
}

// CreateSuccessEmbedBuilder creates a SuccessEmbedBuilder instance
func (f *DefaultEmbedFactory) CreateSuccessEmbedBuilder() SuccessEmbedBuilder {
	return NewSuccessEmbedBuilder()
}

// Global factory instance for convenience
var globalFactory EmbedFactory = NewEmbedFactory()

// CreateRosterEmbeds creates a RosterEmbedBuilder using the global factory
func CreateRosterEmbeds() RosterEmbedBuilder {
	return globalFactory.CreateRosterEmbedBuilder()
}

// CreateErrorEmbeds creates an ErrorEmbedBuilder using the global factory
func CreateErrorEmbeds() ErrorEmbedBuilder {
	return globalFactory.CreateErrorEmbedBuilder()
}

// CreateSuccessEmbeds creates a SuccessEmbedBuilder using the global factory
func CreateSuccessEmbeds() SuccessEmbedBuilder {
	return globalFactory.CreateSuccessEmbedBuilder()
}
