package embed

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/umaroster/pkg/uma/handler"
)

// ErrorEmbeds implements ErrorEmbedBuilder interface for error-specific embeds
type ErrorEmbeds struct {
	basicEmbeds
}

// NewErrorEmbedBuilder creates a new ErrorEmbeds instance
func NewErrorEmbedBuilder() ErrorEmbedBuilder {
	return &ErrorEmbeds{}
}

// CommandError creates an embed for command execution errors
func (e *ErrorEmbeds) CommandError(command string, err error) *discordgo.MessageEmbed {
	embed := e.Error(fmt.Sprintf("❌ Command Error: %s", command), "An error occurred while executing the command.")

	if err != nil {
		embed.Fields = []*discordgo.MessageEmbedField{
			{
				Name:   "Error Details",
				Value:  truncate(err.Error()),
				Inline: false,
			},
		}
	}

	return embed
}

// ValidationError creates an embed for validation errors
func (e *ErrorEmbeds) ValidationError(field string, message string) *discordgo.MessageEmbed {
	return e.Warning("⚠️ Validation Error", fmt.Sprintf("Invalid %s: %s", field, message))
}

// PermissionError creates an embed for permission errors
func (e *ErrorEmbeds) PermissionError(action string) *discordgo.MessageEmbed {
	return e.Error("🔒 Permission Error", fmt.Sprintf("You don't have permission to %s.", action))
}

// CatalogError creates an embed titled by the error's class
func (e *ErrorEmbeds) CatalogError(operation string, err error) *discordgo.MessageEmbed {
	class := handler.ErrorClass(err)

	var embed *discordgo.MessageEmbed
	switch class {
	case handler.ClassTransport:
		embed = e.Error("🌐 Catalog Unreachable", fmt.Sprintf("Network error occurred during %s. Please try again later.", operation))
	case handler.ClassProtocol:
		embed = e.Error("📡 Catalog Error", fmt.Sprintf("The catalog refused the request during %s.", operation))
	case handler.ClassSchema:
		embed = e.Error("🧩 Catalog Format Error", fmt.Sprintf("The catalog returned data that could not be read during %s.", operation))
	case handler.ClassValidation:
		embed = e.Warning("⚠️ Validation Error", fmt.Sprintf("%s was rejected.", operation))
	case handler.ClassInvariant:
		embed = e.Warning("🚫 Not Allowed", fmt.Sprintf("%s would break a roster rule.", operation))
	default:
		embed = e.Error("❌ Error", fmt.Sprintf("%s failed.", operation))
	}

	if err != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Error Details",
			Value:  truncate(err.Error()),
			Inline: false,
		})
		embed.Footer.Text = fmt.Sprintf("%s | %s", footerText, class)
	}

	return embed
}
