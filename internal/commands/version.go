package commands

import (
	"fmt"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/umaroster/internal/version"
)

func versionEmbed() *discordgo.MessageEmbed {
	info := version.Get()

	return &discordgo.MessageEmbed{
		Title:       "umaroster Version",
		Description: fmt.Sprintf("`%s`", info.String()),
		Color:       0x00ff00,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Version", Value: code(info.Version), Inline: true},
			{Name: "Commit", Value: code(info.ShortCommit()), Inline: true},
			{Name: "Build Time", Value: code(info.BuildTime), Inline: true},
			{Name: "Go", Value: code(info.GoVersion), Inline: true},
		},
	}
}

func aboutEmbed(startTime time.Time) *discordgo.MessageEmbed {
	info := version.Get()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	buildTime := info.BuildTime
	if t, err := time.Parse(time.RFC3339, info.BuildTime); err == nil {
		buildTime = t.UTC().Format("02 Jan 2006 15:04 UTC")
	}

	return &discordgo.MessageEmbed{
		Title:       "Bot Information",
		Description: "Umamusume roster and loadout keeper",
		Color:       0x00ff00,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Created and maintained by latoulicious",
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Version", Value: code(info.Version), Inline: true},
			{Name: "Uptime", Value: formatUptime(time.Since(startTime)), Inline: true},
			{Name: "Memory Usage", Value: fmt.Sprintf("%.2f MB", float64(memStats.Alloc)/1024/1024), Inline: true},
			{Name: "Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "Platform", Value: fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH), Inline: true},
			{Name: "Build Time", Value: buildTime, Inline: true},
		},
	}
}

// formatUptime formats the uptime duration into a human-readable string
func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

func code(s string) string {
	if s == "" {
		return "`n/a`"
	}
	return "`" + s + "`"
}
