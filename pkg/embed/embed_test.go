package embed_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/umaroster/pkg/embed"
	"github.com/latoulicious/umaroster/pkg/uma"
	"github.com/latoulicious/umaroster/pkg/uma/handler"
	"github.com/latoulicious/umaroster/pkg/uma/service"
	"github.com/latoulicious/umaroster/pkg/uma/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldValue(t *testing.T, e *discordgo.MessageEmbed, name string) string {
	t.Helper()
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	t.Fatalf("field %q not found in %q", name, e.Title)
	return ""
}

func TestRosterList(t *testing.T) {
	builder := embed.CreateRosterEmbeds()

	entries := []shared.RosterEntry{
		{Umamusume: shared.Umamusume{ID: 4, Name: "Gold Ship"}, IsFavourite: true},
		{Umamusume: shared.Umamusume{ID: 1, Name: "Special Week"}},
	}
	e := builder.RosterList(entries, uma.ResourceState{Status: uma.StatusLoaded})

	lines := strings.Split(e.Description, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "⭐ `#4` Gold Ship", lines[0])
	assert.Equal(t, "▫️ `#1` Special Week", lines[1])
	assert.Equal(t, "2", fieldValue(t, e, "Records"))
}

func TestRosterList_EmptyStates(t *testing.T) {
	builder := embed.NewRosterEmbedBuilder()

	assert.Equal(t, "Roster is loading...", builder.RosterList(nil, uma.ResourceState{Status: uma.StatusLoading}).Description)
	assert.Equal(t, "Roster is empty", builder.RosterList(nil, uma.ResourceState{Status: uma.StatusLoaded}).Description)

	failed := builder.RosterList(nil, uma.ResourceState{Status: uma.StatusFailed, Err: errors.New("boom")})
	assert.Equal(t, "Roster could not be loaded.", failed.Description)
	assert.Equal(t, "boom", fieldValue(t, failed, "⚠️ Last Load Failed"))
}

func TestRosterList_Truncates(t *testing.T) {
	var entries []shared.RosterEntry
	for id := 1; id <= 25; id++ {
		entries = append(entries, shared.RosterEntry{Umamusume: shared.Umamusume{ID: id, Name: fmt.Sprintf("Uma %d", id)}})
	}

	e := embed.NewRosterEmbedBuilder().RosterList(entries, uma.ResourceState{Status: uma.StatusLoaded})
	assert.True(t, strings.HasSuffix(e.Description, "... and 5 more"))
}

func TestUmamusumeEmbed(t *testing.T) {
	sparkByID := map[int]shared.Spark{
		1:  {ID: 1, Name: "Speed", Category: shared.CategoryStat},
		10: {ID: 10, Name: "Turf", Category: shared.CategoryAptitude},
	}
	umamusumeByID := map[int]shared.Umamusume{2: {ID: 2, Name: "Silence Suzuka"}}
	entry := shared.RosterEntry{Umamusume: shared.Umamusume{
		ID:             1,
		Name:           "Special Week",
		Sparks:         []shared.SparkReference{{SparkID: 1, Rarity: 3}, {SparkID: 10, Rarity: 1}, {SparkID: 99, Rarity: 2}},
		InspirationID1: 2,
		InspirationID2: 3,
	}}

	e := embed.NewRosterEmbedBuilder().Umamusume(entry, sparkByID, umamusumeByID)

	assert.Equal(t, "Special Week", e.Title)
	assert.Equal(t, "Speed ★★★", fieldValue(t, e, "Stat"))
	assert.Equal(t, "Turf ★☆☆", fieldValue(t, e, "Aptitude"))
	assert.Equal(t, "`#99` ★★☆", fieldValue(t, e, "Unknown"))
	assert.Equal(t, "Silence Suzuka `#2`\n`#3` (missing)", fieldValue(t, e, "🧬 Inspirations"))
}

func TestRankingsEmbed(t *testing.T) {
	rankings := service.BuildSparkRankings([]shared.Spark{
		{ID: 3, Name: "Speed", Category: shared.CategoryStat},
		{ID: 1, Name: "Speed", Category: shared.CategoryStat},
		{ID: 8, Name: "Mile", Category: shared.CategoryAptitude},
	})

	e := embed.NewRosterEmbedBuilder().Rankings(rankings)
	assert.Equal(t, "**Speed** #1, #3", fieldValue(t, e, "Stat"))
	assert.Equal(t, "**Mile** #8", fieldValue(t, e, "Aptitude"))

	empty := embed.NewRosterEmbedBuilder().Rankings(service.SparkRankings{})
	assert.Empty(t, empty.Fields)
	assert.NotEmpty(t, empty.Description)
}

func TestLoadoutResultEmbed(t *testing.T) {
	builder := embed.NewRosterEmbedBuilder()
	sel := shared.LoadoutSelection{Name: "Oguri Cap", Inspiration1: shared.IntPtr(2)}

	invalid := builder.LoadoutResult(sel, service.ValidationResult{Rule: 2, Message: "exactly one Stat spark required"})
	assert.Equal(t, "exactly one Stat spark required", invalid.Description)
	assert.Equal(t, "2", fieldValue(t, invalid, "Rule"))
	assert.Equal(t, "1", fieldValue(t, invalid, "Inspirations"))

	valid := builder.LoadoutResult(sel, service.ValidationResult{Valid: true})
	assert.Contains(t, valid.Description, "Oguri Cap")
}

func TestStatusEmbed(t *testing.T) {
	next := time.Date(2025, 1, 19, 6, 0, 0, 0, time.UTC)
	e := embed.NewRosterEmbedBuilder().Status(embed.StatusView{
		Roster:     uma.ResourceState{Status: uma.StatusFailed, Err: errors.New("offline")},
		Sparks:     uma.ResourceState{Status: uma.StatusLoaded},
		Count:      12,
		Favourites: 3,
		Schedule:   "@hourly",
		NextRun:    next,
	})

	assert.Equal(t, "failed\noffline", fieldValue(t, e, "📋 Roster"))
	assert.Equal(t, "12 (3 favourites)", fieldValue(t, e, "🐎 Records"))
	assert.Equal(t, "2025-01-19 06:00:00", fieldValue(t, e, "⏭️ Next Run"))

	idle := embed.NewRosterEmbedBuilder().Status(embed.StatusView{})
	assert.Equal(t, "Disabled", fieldValue(t, idle, "📅 Schedule"))
	assert.Equal(t, "Not scheduled", fieldValue(t, idle, "⏭️ Next Run"))
}

func TestCatalogErrorTitles(t *testing.T) {
	builder := embed.CreateErrorEmbeds()

	tests := []struct {
		err   error
		title string
	}{
		{&handler.APIError{Kind: handler.TransportFailure, Err: errors.New("refused")}, "🌐 Catalog Unreachable"},
		{&handler.APIError{Kind: handler.InvalidResponseStatus, StatusCode: 503}, "📡 Catalog Error"},
		{&handler.APIError{Kind: handler.DecodingFailure}, "🧩 Catalog Format Error"},
		{&shared.ValidationError{Rule: 1, Message: "name must not be empty"}, "⚠️ Validation Error"},
		{fmt.Errorf("delete: %w", shared.ErrRosterTooSmall), "🚫 Not Allowed"},
		{errors.New("mystery"), "❌ Error"},
	}

	for _, tt := range tests {
		e := builder.CatalogError("reload", tt.err)
		assert.Equal(t, tt.title, e.Title)
		assert.Equal(t, tt.err.Error(), fieldValue(t, e, "Error Details"))
		assert.True(t, strings.HasPrefix(e.Footer.Text, "umaroster | "))
	}
}

func TestCommandErrorTruncates(t *testing.T) {
	long := errors.New(strings.Repeat("x", 1500))
	e := embed.CreateErrorEmbeds().CommandError("show", long)

	value := fieldValue(t, e, "Error Details")
	assert.Len(t, value, 1000)
	assert.True(t, strings.HasSuffix(value, "..."))
}

func TestSuccessEmbeds(t *testing.T) {
	builder := embed.CreateSuccessEmbeds()

	on := builder.FavouriteToggled(shared.RosterEntry{Umamusume: shared.Umamusume{ID: 3, Name: "Rice Shower"}, IsFavourite: true})
	assert.Equal(t, "⭐ Added to Favourites", on.Title)

	off := builder.FavouriteToggled(shared.RosterEntry{Umamusume: shared.Umamusume{ID: 3, Name: "Rice Shower"}})
	assert.Equal(t, "☆ Removed from Favourites", off.Title)

	deleted := builder.RecordsDeleted([]int{4, 9}, 7)
	assert.Equal(t, "`#4`, `#9`", deleted.Description)
	assert.Equal(t, "7", fieldValue(t, deleted, "Remaining"))

	reloaded := builder.ReloadComplete(10, 40, 1234567*time.Microsecond)
	assert.Equal(t, "1.235s", fieldValue(t, reloaded, "⏱️ Took"))
}
