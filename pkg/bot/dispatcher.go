package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
	"github.com/talitamaia0609-debug/siter/internal/errdef"
	"github.com/talitamaia0609-debug/siter/internal/middleware"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"github.com/talitamaia0609-debug/siter/pkg/permission"
)

// Command names and custom ids of the components sent by the bot
const (
	CommandConfigure = "configurar"
	CommandEvent     = "evento"
	CommandDrop      = "drop"

	SelectEventID        = "select_event"
	CheckInButtonPrefix  = "checkin_"
	EndEventButtonPrefix = "end_event_"
)

const somethingWentWrong = "Ocorreu um erro ao processar sua solicitação."

type eventService interface {
	Find(ctx context.Context, idOrSlug string) (*model.Event, error)
	FindInactive(ctx context.Context) ([]model.Event, error)
	FindByName(ctx context.Context, name string) (*model.Event, error)
	Start(ctx context.Context, eventID string, startedBy model.Actor) (*model.Event, error)
	CheckInByDiscordID(ctx context.Context, eventID, discordID, displayName string) (*model.EventParticipation, error)
	EndAndAwardPoints(ctx context.Context, eventID string, endedBy model.Actor) (int, error)
}

type permissionService interface {
	CanManage(ctx context.Context, guildID, principalID string, roles permission.RoleChecker) error
	SetManagerRole(ctx context.Context, guildID, roleID string) (*model.BotConfig, error)
}

type dropService interface {
	Create(ctx context.Context, drop *model.ItemDrop, registeredBy model.Actor) error
}

func NewDispatcher(logger *slog.Logger, eventService eventService, permissionService permissionService, dropService dropService) *Dispatcher {
	return &Dispatcher{
		logger:            logger,
		eventService:      eventService,
		permissionService: permissionService,
		dropService:       dropService,
	}
}

type Dispatcher struct {
	logger            *slog.Logger
	eventService      eventService
	permissionService permissionService
	dropService       dropService
}

// Dispatch answers the interaction. Failures, panics included, are answered with an ephemeral
// message.
func (d *Dispatcher) Dispatch(ctx context.Context, interaction Interaction) (response Response) {
	if _, ok := middleware.GetCorrelationID(ctx); !ok {
		ctx = middleware.NewContextWithCorrelationID(ctx, uuid.NewString())
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.ErrorContext(ctx, "Panic while dispatching interaction", "panic", r, "stack", string(debug.Stack()))
			response = Response{Content: somethingWentWrong, Ephemeral: true}
		}
	}()

	if interaction == nil {
		return Response{Content: somethingWentWrong, Ephemeral: true}
	}
	if interaction.base().GuildID == "" {
		return Response{Content: "Este comando só pode ser usado em um servidor.", Ephemeral: true}
	}
	ctx = middleware.NewContextWithGuildID(ctx, interaction.base().GuildID)

	switch i := interaction.(type) {
	case Command:
		return d.command(ctx, i)
	case ButtonClick:
		return d.button(ctx, i)
	case MenuSelect:
		return d.menu(ctx, i)
	default:
		d.logger.ErrorContext(ctx, "Unknown interaction", "type", fmt.Sprintf("%T", interaction))
		return Response{Content: somethingWentWrong, Ephemeral: true}
	}
}

func (d *Dispatcher) command(ctx context.Context, command Command) Response {
	d.logger.InfoContext(ctx, "Command", "name", command.Name, "guild", command.GuildID, "user", command.User.ID)

	switch command.Name {
	case CommandConfigure:
		return d.configure(ctx, command)
	case CommandEvent:
		return d.eventMenu(ctx, command)
	case CommandDrop:
		return d.drop(ctx, command)
	default:
		return Response{Content: fmt.Sprintf("❌ Comando desconhecido: %s", command.Name), Ephemeral: true}
	}
}

func (d *Dispatcher) configure(ctx context.Context, command Command) Response {
	roleID, err := command.Options.String("cargo")
	if err != nil {
		return d.failure(ctx, err, "configurar o bot")
	}

	if _, err := d.permissionService.SetManagerRole(ctx, command.GuildID, roleID); err != nil {
		return d.failure(ctx, err, "configurar o bot")
	}

	return Response{
		Content:   fmt.Sprintf("✅ Configuração atualizada! O cargo <@&%s> agora pode gerenciar eventos.", roleID),
		Ephemeral: true,
	}
}

func (d *Dispatcher) eventMenu(ctx context.Context, command Command) Response {
	const action = "iniciar eventos"
	if err := d.permissionService.CanManage(ctx, command.GuildID, command.User.ID, command.Roles); err != nil {
		return d.failure(ctx, err, action)
	}

	events, err := d.eventService.FindInactive(ctx)
	if err != nil {
		return d.failure(ctx, err, action)
	}
	if len(events) == 0 {
		return Response{Content: "⚠️ Não há eventos disponíveis para iniciar.", Ephemeral: true}
	}

	menu := &Menu{
		CustomID:    SelectEventID,
		Placeholder: "Escolha um evento para iniciar",
		Options:     make([]MenuOption, 0, len(events)),
	}
	for _, event := range events {
		menu.Options = append(menu.Options, MenuOption{
			Label:       event.Name,
			Description: fmt.Sprintf("%d pontos", event.Points),
			Value:       event.ID,
			Emoji:       event.Emoji,
		})
	}

	return Response{
		Content:   "📋 Selecione qual evento deseja iniciar:",
		Ephemeral: true,
		Menu:      menu,
	}
}

func (d *Dispatcher) drop(ctx context.Context, command Command) Response {
	const action = "registrar drops"
	if err := d.permissionService.CanManage(ctx, command.GuildID, command.User.ID, command.Roles); err != nil {
		return d.failure(ctx, err, action)
	}

	itemName, err := command.Options.String("item")
	if err != nil {
		return d.failure(ctx, err, action)
	}
	diamondValue, err := command.Options.Int("diamantes")
	if err != nil {
		return d.failure(ctx, err, action)
	}
	eventName, err := command.Options.String("evento")
	if err != nil {
		return d.failure(ctx, err, action)
	}
	participants, err := command.Options.String("participantes")
	if err != nil {
		return d.failure(ctx, err, action)
	}

	event, err := d.eventService.FindByName(ctx, eventName)
	if errdef.IsNotFound(err) {
		return Response{Content: fmt.Sprintf("❌ Evento \"%s\" não encontrado.", eventName), Ephemeral: true}
	}
	if err != nil {
		return d.failure(ctx, err, action)
	}

	drop := &model.ItemDrop{
		ItemName:     itemName,
		DiamondValue: diamondValue,
		EventID:      event.ID,
		Participants: participants,
		AddedBy:      command.User.Tag,
	}
	if err := d.dropService.Create(ctx, drop, command.User.actor()); err != nil {
		return d.failure(ctx, err, action)
	}

	return Response{
		Content: fmt.Sprintf("✅ Drop registrado com sucesso!\n\n💎 **%s**\n💰 Valor: %d diamantes\n🎯 Evento: %s\n👥 Participantes: %s",
			drop.ItemName, drop.DiamondValue, event.Name, drop.Participants),
	}
}

func (d *Dispatcher) menu(ctx context.Context, menu MenuSelect) Response {
	d.logger.InfoContext(ctx, "Menu selection", "customId", menu.CustomID, "guild", menu.GuildID, "user", menu.User.ID)

	if menu.CustomID != SelectEventID {
		return Response{Content: somethingWentWrong, Ephemeral: true}
	}
	if len(menu.Values) == 0 {
		return d.failure(ctx, errdef.NewBadRequest("no event selected"), "iniciar eventos")
	}
	return d.startEvent(ctx, menu, menu.Values[0])
}

func (d *Dispatcher) startEvent(ctx context.Context, menu MenuSelect, eventID string) Response {
	const action = "iniciar eventos"
	if err := d.permissionService.CanManage(ctx, menu.GuildID, menu.User.ID, menu.Roles); err != nil {
		return d.failure(ctx, err, action)
	}

	event, err := d.eventService.Start(ctx, eventID, menu.User.actor())
	if err != nil {
		return d.failure(ctx, err, action)
	}

	return Response{
		Content:   fmt.Sprintf("✅ Evento **%s** iniciado com sucesso!", event.Name),
		Ephemeral: true,
		Announcement: &Announcement{
			EventID: event.ID,
			Content: fmt.Sprintf("🎉 **%s** %s\n\n📌 Evento iniciado por %s\n💎 Pontos: **%d**\n\n👥 Faça check-in para participar!",
				event.Name, event.Emoji, menu.User.Mention, event.Points),
			Buttons: []Button{
				{CustomID: CheckInButtonPrefix + event.ID, Label: "✅ CHECK-IN EVENTO", Style: ButtonSuccess},
				{CustomID: EndEventButtonPrefix + event.ID, Label: "🛑 ENCERRAR EVENTO", Style: ButtonDanger},
			},
		},
	}
}

func (d *Dispatcher) button(ctx context.Context, button ButtonClick) Response {
	d.logger.InfoContext(ctx, "Button click", "customId", button.CustomID, "guild", button.GuildID, "user", button.User.ID)

	if eventID, ok := strings.CutPrefix(button.CustomID, CheckInButtonPrefix); ok {
		return d.checkIn(ctx, button, eventID)
	}
	if eventID, ok := strings.CutPrefix(button.CustomID, EndEventButtonPrefix); ok {
		return d.endEvent(ctx, button, eventID)
	}
	return Response{Content: somethingWentWrong, Ephemeral: true}
}

func (d *Dispatcher) checkIn(ctx context.Context, button ButtonClick, eventID string) Response {
	_, err := d.eventService.CheckInByDiscordID(ctx, eventID, button.User.ID, button.User.Tag)
	if err != nil {
		return d.failure(ctx, err, "fazer check-in")
	}

	return Response{Content: "✅ Check-in realizado com sucesso! Boa sorte no evento!", Ephemeral: true}
}

func (d *Dispatcher) endEvent(ctx context.Context, button ButtonClick, eventID string) Response {
	const action = "encerrar eventos"
	if err := d.permissionService.CanManage(ctx, button.GuildID, button.User.ID, button.Roles); err != nil {
		return d.failure(ctx, err, action)
	}

	event, err := d.eventService.Find(ctx, eventID)
	if err != nil {
		return d.failure(ctx, err, action)
	}

	awarded, err := d.eventService.EndAndAwardPoints(ctx, eventID, button.User.actor())
	if err != nil {
		return d.failure(ctx, err, action)
	}

	return Response{
		Content:           fmt.Sprintf("🏁 Evento **%s** encerrado!\n👥 **%d** participantes receberam **%d** pontos cada.", event.Name, awarded, event.Points),
		CloseAnnouncement: event.ID,
	}
}

// failure maps err to an ephemeral message. action completes "Você não tem permissão para".
func (d *Dispatcher) failure(ctx context.Context, err error, action string) Response {
	var content string
	switch {
	case errdef.IsNotConfigured(err):
		content = "⚠️ O cargo de gerente de eventos ainda não foi configurado. Use /configurar primeiro."
	case errdef.IsForbidden(err):
		content = fmt.Sprintf("❌ Você não tem permissão para %s.", action)
	case errdef.IsNotFound(err):
		content = "❌ Evento não encontrado."
	case errdef.IsAlreadyCheckedIn(err):
		content = "⚠️ Você já fez check-in neste evento!"
	case errdef.IsInvalidTransition(err):
		content = invalidTransitionMessage(action)
	case errdef.IsBadRequest(err):
		content = fmt.Sprintf("❌ Dados inválidos: %v", err)
	default:
		d.logger.ErrorContext(ctx, "Failed to handle interaction", "error", err)
		return Response{Content: somethingWentWrong, Ephemeral: true}
	}

	d.logger.InfoContext(ctx, "Interaction rejected", "error", err)
	return Response{Content: content, Ephemeral: true}
}

func invalidTransitionMessage(action string) string {
	switch action {
	case "iniciar eventos":
		return "⚠️ Este evento já está ativo."
	case "fazer check-in":
		return "⚠️ Este evento não está ativo."
	default:
		return "⚠️ Este evento não pode mais ser alterado."
	}
}
