package bot

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/talitamaia0609-debug/siter/internal/middleware"
)

// Commands registered with Discord once the gateway is ready
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:                     CommandConfigure,
		Description:              "Configura o cargo que pode gerenciar eventos",
		DefaultMemberPermissions: ptr(int64(discordgo.PermissionAdministrator)),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionRole,
				Name:        "cargo",
				Description: "Cargo que poderá iniciar e encerrar eventos",
				Required:    true,
			},
		},
	},
	{
		Name:        CommandEvent,
		Description: "Inicia um evento da guilda",
	},
	{
		Name:        CommandDrop,
		Description: "Registra um drop de item de um evento",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "item",
				Description: "Nome do item dropado",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "diamantes",
				Description: "Valor em diamantes do item",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "evento",
				Description: "Nome do evento",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "participantes",
				Description: "Lista de participantes (separados por vírgula)",
				Required:    true,
			},
		},
	},
}

func ptr[T any](v T) *T {
	return &v
}

type dispatcher interface {
	Dispatch(ctx context.Context, interaction Interaction) Response
}

// NewGateway creates a gateway connecting as the bot identified by token.
func NewGateway(logger *slog.Logger, token string, dispatcher dispatcher) (*Gateway, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %v", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildMessages

	return &Gateway{
		logger:        logger,
		session:       session,
		dispatcher:    dispatcher,
		announcements: newAnnouncements(),
	}, nil
}

// Gateway connects the [Dispatcher] to Discord.
type Gateway struct {
	logger        *slog.Logger
	session       *discordgo.Session
	dispatcher    dispatcher
	announcements *announcements
}

// Run connects to Discord and answers interactions until ctx is done.
func (g *Gateway) Run(ctx context.Context) error {
	removeReady := g.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		g.logger.InfoContext(ctx, "Discord bot connected", "user", r.User.String())
		if _, err := s.ApplicationCommandBulkOverwrite(r.User.ID, "", Commands); err != nil {
			g.logger.ErrorContext(ctx, "Failed to register commands", "error", err)
			return
		}
		g.logger.InfoContext(ctx, "Commands registered", "count", len(Commands))
	})
	defer removeReady()

	removeInteraction := g.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		g.handle(ctx, i)
	})
	defer removeInteraction()

	if err := g.session.Open(); err != nil {
		return fmt.Errorf("failed to connect to Discord: %v", err)
	}

	<-ctx.Done()
	g.logger.Info("Disconnecting Discord bot")
	return g.session.Close()
}

func (g *Gateway) handle(ctx context.Context, i *discordgo.InteractionCreate) {
	ctx = middleware.NewContextWithCorrelationID(ctx, uuid.NewString())
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	interaction, ok := toInteraction(i, g.memberLookup)
	if !ok {
		g.logger.DebugContext(ctx, "Ignoring interaction", "type", int(i.Type))
		return
	}

	response := g.dispatcher.Dispatch(ctx, interaction)

	if response.Announcement != nil {
		if err := g.announce(i.ChannelID, *response.Announcement); err != nil {
			g.logger.ErrorContext(ctx, "Failed to post announcement", "error", err, "channel", i.ChannelID)
			response = Response{Content: "❌ Não foi possível enviar a mensagem.", Ephemeral: true}
		}
	}
	if response.CloseAnnouncement != "" {
		if err := g.closeAnnouncement(response.CloseAnnouncement); err != nil {
			g.logger.WarnContext(ctx, "Failed to remove buttons from announcement", "error", err, "event", response.CloseAnnouncement)
		}
	}

	err := g.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: responseData(response),
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "Failed to respond to interaction", "error", err)
	}
}

func (g *Gateway) announce(channelID string, announcement Announcement) error {
	message, err := g.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    announcement.Content,
		Components: buttons(announcement.Buttons),
	})
	if err != nil {
		return err
	}

	g.announcements.put(announcement.EventID, messageRef{channelID: channelID, messageID: message.ID})
	return nil
}

func (g *Gateway) closeAnnouncement(eventID string) error {
	ref, ok := g.announcements.take(eventID)
	if !ok {
		return nil
	}

	edit := discordgo.NewMessageEdit(ref.channelID, ref.messageID)
	edit.Components = &[]discordgo.MessageComponent{}
	_, err := g.session.ChannelMessageEditComplex(edit)
	return err
}

// memberLookup finds the roles of a guild member, first in the gateway state and then through the
// REST API.
func (g *Gateway) memberLookup(guildID, userID string) ([]string, error) {
	if member, err := g.session.State.Member(guildID, userID); err == nil {
		return member.Roles, nil
	}

	member, err := g.session.GuildMember(guildID, userID)
	if err != nil {
		return nil, err
	}
	return member.Roles, nil
}

type messageRef struct {
	channelID string
	messageID string
}

// announcements tracks the announcement of every running event.
type announcements struct {
	mu      sync.Mutex
	byEvent map[string]messageRef
}

func newAnnouncements() *announcements {
	return &announcements{byEvent: make(map[string]messageRef)}
}

func (a *announcements) put(eventID string, ref messageRef) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.byEvent[eventID] = ref
}

func (a *announcements) take(eventID string) (messageRef, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ref, ok := a.byEvent[eventID]
	delete(a.byEvent, eventID)
	return ref, ok
}

type lookup func(guildID, userID string) ([]string, error)

// memberRoles answers role checks from the roles sent along with the interaction. The roles are
// looked up if the interaction didn't carry them.
type memberRoles struct {
	guildID string
	userID  string
	roles   []string
	lookup  lookup
}

func (m memberRoles) HasRole(_ context.Context, principalID, roleID string) (bool, error) {
	if principalID != m.userID {
		return false, fmt.Errorf("roles of %q are unknown", principalID)
	}

	roles := m.roles
	if roles == nil {
		var err error
		roles, err = m.lookup(m.guildID, m.userID)
		if err != nil {
			return false, fmt.Errorf("failed to look up roles of %q: %v", principalID, err)
		}
	}
	return slices.Contains(roles, roleID), nil
}

func toUser(u *discordgo.User) User {
	tag := u.Username
	if u.Discriminator != "" && u.Discriminator != "0" {
		tag = u.Username + "#" + u.Discriminator
	}
	return User{ID: u.ID, Tag: tag, Mention: u.Mention()}
}

// toInteraction converts a gateway interaction. Interactions the dispatcher doesn't handle, like
// autocompletion, are reported as not ok.
func toInteraction(i *discordgo.InteractionCreate, lookup lookup) (Interaction, bool) {
	base := Base{GuildID: i.GuildID, ChannelID: i.ChannelID}
	switch {
	case i.Member != nil && i.Member.User != nil:
		base.User = toUser(i.Member.User)
		base.Roles = memberRoles{guildID: i.GuildID, userID: i.Member.User.ID, roles: i.Member.Roles, lookup: lookup}
	case i.User != nil:
		base.User = toUser(i.User)
		base.Roles = memberRoles{guildID: i.GuildID, userID: i.User.ID, lookup: lookup}
	default:
		return nil, false
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		options := make(Options, len(data.Options))
		for _, option := range data.Options {
			switch option.Type {
			case discordgo.ApplicationCommandOptionInteger:
				options[option.Name] = option.IntValue()
			default:
				options[option.Name] = fmt.Sprint(option.Value)
			}
		}
		return Command{Base: base, Name: data.Name, Options: options}, true
	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		switch data.ComponentType {
		case discordgo.ButtonComponent:
			return ButtonClick{Base: base, CustomID: data.CustomID}, true
		case discordgo.SelectMenuComponent:
			return MenuSelect{Base: base, CustomID: data.CustomID, Values: data.Values}, true
		}
	}
	return nil, false
}

func responseData(response Response) *discordgo.InteractionResponseData {
	data := &discordgo.InteractionResponseData{Content: response.Content}
	if response.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	if menu := response.Menu; menu != nil {
		options := make([]discordgo.SelectMenuOption, 0, len(menu.Options))
		for _, option := range menu.Options {
			o := discordgo.SelectMenuOption{
				Label:       option.Label,
				Value:       option.Value,
				Description: option.Description,
			}
			if option.Emoji != "" {
				o.Emoji = &discordgo.ComponentEmoji{Name: option.Emoji}
			}
			options = append(options, o)
		}
		data.Components = []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    menu.CustomID,
					Placeholder: menu.Placeholder,
					Options:     options,
				},
			}},
		}
	}
	return data
}

func buttons(buttons []Button) []discordgo.MessageComponent {
	if len(buttons) == 0 {
		return nil
	}

	row := discordgo.ActionsRow{Components: make([]discordgo.MessageComponent, 0, len(buttons))}
	for _, b := range buttons {
		style := discordgo.SuccessButton
		if b.Style == ButtonDanger {
			style = discordgo.DangerButton
		}
		row.Components = append(row.Components, discordgo.Button{
			Label:    b.Label,
			Style:    style,
			CustomID: b.CustomID,
		})
	}
	return []discordgo.MessageComponent{row}
}
