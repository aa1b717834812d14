// Package bot answers Discord interactions. The [Gateway] turns gateway events into one of the
// [Interaction] variants and hands them to the [Dispatcher], which decides on a [Response] without
// knowing about Discord.
package bot

import (
	"strconv"

	"github.com/talitamaia0609-debug/siter/internal/errdef"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"github.com/talitamaia0609-debug/siter/pkg/permission"
)

// Interaction is one of [Command], [ButtonClick] or [MenuSelect].
type Interaction interface {
	base() Base
}

// User is the Discord user behind an interaction.
type User struct {
	ID string
	// Tag is the name shown to other users, like ShadowHunter or ShadowHunter#1234
	Tag     string
	Mention string
}

func (u User) actor() model.Actor {
	return model.Actor{DiscordID: u.ID, Name: u.Tag}
}

// Base carries what every interaction has in common.
type Base struct {
	// GuildID is empty for interactions outside a guild
	GuildID   string
	ChannelID string
	User      User
	Roles     permission.RoleChecker
}

func (b Base) base() Base { return b }

// Command is a slash command.
type Command struct {
	Base
	Name    string
	Options Options
}

// ButtonClick is a click on a button of a message sent by the bot.
type ButtonClick struct {
	Base
	CustomID string
}

// MenuSelect is a choice made in a select menu sent by the bot.
type MenuSelect struct {
	Base
	CustomID string
	Values   []string
}

// Options holds the options of a command by name. Values are strings, except for integer options
// which are int64.
type Options map[string]any

func (o Options) String(name string) (string, error) {
	value, ok := o[name].(string)
	if !ok || value == "" {
		return "", errdef.NewBadRequest("option %q is required", name)
	}
	return value, nil
}

func (o Options) Int(name string) (int, error) {
	switch value := o[name].(type) {
	case int64:
		return int(value), nil
	case int:
		return value, nil
	case float64:
		return int(value), nil
	case string:
		i, err := strconv.Atoi(value)
		if err != nil {
			return 0, errdef.NewBadRequest("option %q must be a number", name)
		}
		return i, nil
	default:
		return 0, errdef.NewBadRequest("option %q is required", name)
	}
}

// Response is what the bot answers an interaction with.
type Response struct {
	Content string
	// Ephemeral responses are only shown to the user who interacted
	Ephemeral bool
	Menu      *Menu
	// Announcement is posted to the channel of the interaction before the response is sent
	Announcement *Announcement
	// CloseAnnouncement names the event whose announcement loses its buttons
	CloseAnnouncement string
}

type Menu struct {
	CustomID    string
	Placeholder string
	Options     []MenuOption
}

type MenuOption struct {
	Label       string
	Description string
	Value       string
	Emoji       string
}

// Announcement is a message announcing a running event.
type Announcement struct {
	EventID string
	Content string
	Buttons []Button
}

type ButtonStyle int

const (
	ButtonSuccess ButtonStyle = iota
	ButtonDanger
)

type Button struct {
	CustomID string
	Label    string
	Style    ButtonStyle
}
