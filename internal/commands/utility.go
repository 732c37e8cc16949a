package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/umaroster/pkg/embed"
	"github.com/latoulicious/umaroster/pkg/logging"
)

// isOwner reports whether the author may run owner-only commands.
// With no owner configured every author is allowed.
func (r *Router) isOwner(authorID string) bool {
	return r.ownerID == "" || authorID == r.ownerID
}

// deleteCommand removes records from the local roster
func (r *Router) deleteCommand(ctx context.Context, args []string, msg Message, logger logging.Logger) *discordgo.MessageEmbed {
	if !r.isOwner(msg.AuthorID) {
		logger.Warn("Delete command denied - not bot owner", map[string]interface{}{
			"user_id": msg.AuthorID,
		})
		return r.errors.PermissionError("delete roster records")
	}

	ids, err := ParseIDs(args)
	if err != nil {
		return r.errors.ValidationError("ids", err.Error())
	}
	for _, id := range ids {
		if _, ok := r.store.Umamusume(id); !ok {
			return r.errors.ValidationError("id", fmt.Sprintf("no umamusume `#%d` in the roster", id))
		}
	}

	if err := r.store.Delete(ctx, ids); err != nil {
		logger.Error("Delete failed", err, map[string]interface{}{
			"ids":   ids,
			"count": r.store.Count(),
		})
		return r.errors.CatalogError("Delete", err)
	}

	logger.Info("Records deleted", map[string]interface{}{
		"ids":       ids,
		"remaining": r.store.Count(),
	})
	return r.success.RecordsDeleted(distinct(ids), r.store.Count())
}

// reloadCommand manually triggers a catalog reload
func (r *Router) reloadCommand(ctx context.Context, msg Message, logger logging.Logger) *discordgo.MessageEmbed {
	if !r.isOwner(msg.AuthorID) {
		logger.Warn("Reload command denied - not bot owner", map[string]interface{}{
			"user_id": msg.AuthorID,
		})
		return r.errors.PermissionError("reload the catalog")
	}

	logger.Info("Starting manual catalog reload", nil)
	start := time.Now()

	var err error
	if r.scheduler != nil {
		err = r.scheduler.RunNow(ctx)
	} else {
		err = r.store.Load(ctx)
	}
	took := time.Since(start)

	if err != nil {
		logger.Error("Catalog reload failed", err, map[string]interface{}{
			"duration_ms": took.Milliseconds(),
		})
		return r.errors.CatalogError("Reload", err)
	}

	logger.Info("Catalog reload completed successfully", map[string]interface{}{
		"duration_ms": took.Milliseconds(),
		"roster":      r.store.Count(),
	})
	return r.success.ReloadComplete(r.store.Count(), len(r.store.Sparks()), took)
}

// statusCommand shows load state and the refresh schedule
func (r *Router) statusCommand() *discordgo.MessageEmbed {
	view := embed.StatusView{
		Roster:     r.store.RosterState(),
		Sparks:     r.store.SparkState(),
		Count:      r.store.Count(),
		Favourites: r.store.Favourites().Len(),
	}
	if r.scheduler != nil {
		view.Schedule = r.scheduler.GetSchedule()
		view.NextRun = r.scheduler.GetNextRun()
		view.Refreshing = r.scheduler.IsRunning()
	}
	return r.roster.Status(view)
}

func distinct(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
