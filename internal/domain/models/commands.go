package models

import "strings"

// CommandType enumerates supported chat command categories.
type CommandType string

const (
	CommandPurchase CommandType = "purchase"
	CommandSale     CommandType = "sale"
	CommandExpense  CommandType = "expense"
	CommandReport   CommandType = "report"
	CommandStock    CommandType = "stock"
	CommandHelp     CommandType = "help"
	CommandUnknown  CommandType = "unknown"
)

var commandAliases = map[string]CommandType{
	"purchase":  CommandPurchase,
	"purchases": CommandPurchase,
	"buy":       CommandPurchase,
	"sale":      CommandSale,
	"sales":     CommandSale,
	"sell":      CommandSale,
	"expense":   CommandExpense,
	"expenses":  CommandExpense,
	"report":    CommandReport,
	"reports":   CommandReport,
	"stock":     CommandStock,
	"help":      CommandHelp,
}

// Command represents a parsed instruction extracted from chat text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
// Only the verb is case-folded; arguments keep their original spelling so
// item names are stored as typed.
func ParseCommand(message string) Command {
	tokens := strings.Fields(strings.TrimSpace(message))
	cmd := Command{Type: CommandUnknown, Raw: message}

	if len(tokens) == 0 {
		return cmd
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	if commandType, ok := commandAliases[head]; ok {
		cmd.Type = commandType
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
