// Package consts contains constants for the feed domain
package consts

// MaxSubscriptions is the per-user subscription quota
const MaxSubscriptions = 50

// Callback tokens embedded in inline keyboard buttons
const (
	CallbackChannelSelect = "channel_select:"
	CallbackChannelDelete = "channel_delete:"
	CallbackBackToList    = "back_to_list"
)

// Command represents a bot command
type Command struct {
	Name        string
	Description string
}

// Bot commands
var (
	CommandStart = Command{Name: "start", Description: "Start the bot"}
	CommandHelp  = Command{Name: "help", Description: "Show help message"}
	CommandList  = Command{Name: "list", Description: "List your channels"}
)

// AllCommands contains all available bot commands for menu registration
var AllCommands = []Command{
	CommandStart,
	CommandHelp,
	CommandList,
}
