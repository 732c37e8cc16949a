package embed

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/umaroster/pkg/uma"
	"github.com/latoulicious/umaroster/pkg/uma/service"
	"github.com/latoulicious/umaroster/pkg/uma/shared"
)

// EmbedBuilder provides basic embed creation functionality
type EmbedBuilder interface {
	Success(title, description string) *discordgo.MessageEmbed
	Error(title, description string) *discordgo.MessageEmbed
	Info(title, description string) *discordgo.MessageEmbed
	Warning(title, description string) *discordgo.MessageEmbed
}

// RosterEmbedBuilder renders roster and catalog views
type RosterEmbedBuilder interface {
	EmbedBuilder
	RosterList(entries []shared.RosterEntry, state uma.ResourceState) *discordgo.MessageEmbed
	Umamusume(entry shared.RosterEntry, sparkByID map[int]shared.Spark, umamusumeByID map[int]shared.Umamusume) *discordgo.MessageEmbed
	SparkList(sparks []shared.Spark, state uma.ResourceState) *discordgo.MessageEmbed
	Rankings(rankings service.SparkRankings) *discordgo.MessageEmbed
	LoadoutResult(sel shared.LoadoutSelection, result service.ValidationResult) *discordgo.MessageEmbed
	Status(status StatusView) *discordgo.MessageEmbed
}

// ErrorEmbedBuilder renders failures for users
type ErrorEmbedBuilder interface {
	EmbedBuilder
	CommandError(command string, err error) *discordgo.MessageEmbed
	ValidationError(field string, message string) *discordgo.MessageEmbed
	PermissionError(action string) *discordgo.MessageEmbed
	CatalogError(operation string, err error) *discordgo.MessageEmbed
}

// SuccessEmbedBuilder renders completed mutations
type SuccessEmbedBuilder interface {
	EmbedBuilder
	FavouriteToggled(entry shared.RosterEntry) *discordgo.MessageEmbed
	RecordsDeleted(ids []int, remaining int) *discordgo.MessageEmbed
	ReloadComplete(rosterCount, sparkCount int, took time.Duration) *discordgo.MessageEmbed
	OperationComplete(operation string, details string) *discordgo.MessageEmbed
}

// EmbedFactory creates embed builders
type EmbedFactory interface {
	CreateRosterEmbedBuilder() RosterEmbedBuilder
	CreateErrorEmbedBuilder() ErrorEmbedBuilder
	CreateSuccessEmbedBuilder() SuccessEmbedBuilder
}

// StatusView is the data shown by the status embed
type StatusView struct {
	Roster     uma.ResourceState
	Sparks     uma.ResourceState
	Count      int
	Favourites int
	Schedule   string
	NextRun    time.Time
	Refreshing bool
}
