package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/umaroster/pkg/embed"
	"github.com/latoulicious/umaroster/pkg/logging"
	"github.com/latoulicious/umaroster/pkg/uma"
	"github.com/latoulicious/umaroster/pkg/uma/service"
)

// DefaultCommandTimeout bounds every store call made for one message
const DefaultCommandTimeout = 30 * time.Second

// Sender is the part of a discordgo session used to reply
type Sender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ Sender = (*discordgo.Session)(nil)

// Message is one incoming command message
type Message struct {
	AuthorID  string
	Username  string
	GuildID   string
	ChannelID string
	Content   string
}

// RouterOptions configures a Router
type RouterOptions struct {
	Prefix    string
	OwnerID   string
	Scheduler uma.RefreshSchedulerInterface
	Timeout   time.Duration
}

// Router dispatches prefixed messages to roster commands
type Router struct {
	store     uma.RosterStoreInterface
	scheduler uma.RefreshSchedulerInterface
	prefix    string
	ownerID   string
	timeout   time.Duration
	startTime time.Time

	roster  embed.RosterEmbedBuilder
	errors  embed.ErrorEmbedBuilder
	success embed.SuccessEmbedBuilder
}

// NewRouter creates a Router over the given store
func NewRouter(store uma.RosterStoreInterface, opts RouterOptions) *Router {
	if opts.Prefix == "" {
		opts.Prefix = "!uma"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultCommandTimeout
	}

	factory := embed.NewEmbedFactory()
	return &Router{
		store:     store,
		scheduler: opts.Scheduler,
		prefix:    opts.Prefix,
		ownerID:   opts.OwnerID,
		timeout:   opts.Timeout,
		startTime: time.Now(),
		roster:    factory.CreateRosterEmbedBuilder(),
		errors:    factory.CreateErrorEmbedBuilder(),
		success:   factory.CreateSuccessEmbedBuilder(),
	}
}

// MessageHandler is registered with discordgo for MessageCreate events
func (r *Router) MessageHandler(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	r.Handle(context.Background(), s, Message{
		AuthorID:  m.Author.ID,
		Username:  m.Author.Username,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
	})
}

// Handle runs the command in msg and reports whether msg was a command
func (r *Router) Handle(ctx context.Context, sender Sender, msg Message) bool {
	subcommand, args, ok := ParseCommand(msg.Content, r.prefix)
	if !ok {
		return false
	}

	logger := logging.GetGlobalLoggerFactory().CreateCommandLogger(subcommand)
	if cl, ok := logger.(*logging.CommandLogger); ok {
		logger = cl.WithInteraction(msg.GuildID, msg.AuthorID, msg.ChannelID)
	}
	logger.Info("Uma command executed", map[string]interface{}{
		"user_id":    msg.AuthorID,
		"username":   msg.Username,
		"subcommand": subcommand,
		"args_count": len(args),
	})

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reply := r.dispatch(ctx, subcommand, args, msg, logger)
	if reply == nil {
		return true
	}

	if _, err := sender.ChannelMessageSendEmbed(msg.ChannelID, reply); err != nil {
		logger.Error("Failed to send reply embed", err, map[string]interface{}{
			"channel_id": msg.ChannelID,
			"subcommand": subcommand,
		})
	}
	return true
}

func (r *Router) dispatch(ctx context.Context, subcommand string, args []string, msg Message, logger logging.Logger) *discordgo.MessageEmbed {
	switch subcommand {
	case "roster", "list":
		return r.roster.RosterList(r.store.Roster(), r.store.RosterState())
	case "show":
		return r.showCommand(args)
	case "fav", "favourite", "favorite":
		return r.favouriteCommand(ctx, args, logger)
	case "delete", "del":
		return r.deleteCommand(ctx, args, msg, logger)
	case "sparks":
		return r.roster.SparkList(r.store.Sparks(), r.store.SparkState())
	case "rankings":
		return r.roster.Rankings(service.BuildSparkRankings(r.store.Sparks()))
	case "validate":
		return r.validateCommand(args)
	case "reload", "refresh":
		return r.reloadCommand(ctx, msg, logger)
	case "status":
		return r.statusCommand()
	case "version":
		return versionEmbed()
	case "about":
		return aboutEmbed(r.startTime)
	case "help":
		return r.helpEmbed()
	default:
		logger.Warn("Unknown uma subcommand", map[string]interface{}{
			"subcommand": subcommand,
		})
		embed := r.helpEmbed()
		embed.Title = fmt.Sprintf("❌ Unknown subcommand: %s", subcommand)
		return embed
	}
}

func (r *Router) showCommand(args []string) *discordgo.MessageEmbed {
	if len(args) != 1 {
		return r.errors.ValidationError("arguments", fmt.Sprintf("usage: `%s show <id>`", r.prefix))
	}
	id, err := ParseID(args[0])
	if err != nil {
		return r.errors.ValidationError("id", err.Error())
	}

	entry, ok := r.store.Umamusume(id)
	if !ok {
		return r.errors.ValidationError("id", fmt.Sprintf("no umamusume `#%d` in the roster", id))
	}
	return r.roster.Umamusume(entry, r.store.SparkByID(), r.store.UmamusumeByID())
}

func (r *Router) favouriteCommand(ctx context.Context, args []string, logger logging.Logger) *discordgo.MessageEmbed {
	if len(args) != 1 {
		return r.errors.ValidationError("arguments", fmt.Sprintf("usage: `%s fav <id>`", r.prefix))
	}
	id, err := ParseID(args[0])
	if err != nil {
		return r.errors.ValidationError("id", err.Error())
	}
	if _, ok := r.store.Umamusume(id); !ok {
		return r.errors.ValidationError("id", fmt.Sprintf("no umamusume `#%d` in the roster", id))
	}

	if err := r.store.ToggleFavourite(ctx, id); err != nil {
		logger.Error("Favourite toggle failed", err, map[string]interface{}{
			"umamusume_id": id,
		})
		return r.errors.CatalogError("Favourite update", err)
	}

	entry, _ := r.store.Umamusume(id)
	return r.success.FavouriteToggled(entry)
}

func (r *Router) validateCommand(args []string) *discordgo.MessageEmbed {
	if len(args) == 0 {
		return r.errors.ValidationError("arguments",
			fmt.Sprintf("usage: `%s validate <name> | <spark:rarity,...> | <insp1,insp2>`", r.prefix))
	}

	sel, err := ParseLoadout(strings.Join(args, " "))
	if err != nil {
		return r.errors.ValidationError("loadout", err.Error())
	}

	result := service.ValidateLoadout(sel, r.store.SparkByID())
	return r.roster.LoadoutResult(sel, result)
}

func (r *Router) helpEmbed() *discordgo.MessageEmbed {
	p := r.prefix
	lines := []string{
		fmt.Sprintf("• `%s roster` - List the roster, favourites first", p),
		fmt.Sprintf("• `%s show <id>` - Show one umamusume", p),
		fmt.Sprintf("• `%s fav <id>` - Toggle a favourite", p),
		fmt.Sprintf("• `%s delete <id>...` - Delete records (Owner Only)", p),
		fmt.Sprintf("• `%s sparks` - List catalog sparks", p),
		fmt.Sprintf("• `%s rankings` - Stat and Aptitude sparks grouped by name", p),
		fmt.Sprintf("• `%s validate <name> | <spark:rarity,...> | <insp1,insp2>` - Check a loadout", p),
		fmt.Sprintf("• `%s reload` - Reload the catalog (Owner Only)", p),
		fmt.Sprintf("• `%s status` - Show load and refresh status", p),
		fmt.Sprintf("• `%s version` / `%s about` - Bot information", p, p),
	}

	embed := r.roster.Info("📖 Uma Roster Commands", strings.Join(lines, "\n"))
	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:   "Examples",
			Value:  fmt.Sprintf("`%s show 7`\n`%s validate Oguri Cap | 1:3,10:2 | 4,9`", p, p),
			Inline: false,
		},
	}
	return embed
}
