package slack

import (
	"fmt"
	"regexp"
	"strings"
)

type CommandType string

const (
	CmdAdd     CommandType = "add"
	CmdRemove  CommandType = "remove"
	CmdList    CommandType = "list"
	CmdStatus  CommandType = "status"
	CmdHistory CommandType = "history"
	CmdRemind  CommandType = "remind"
	CmdHelp    CommandType = "help"
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

// Slack escapes mentions as <@U123> or <@U123|name>.
var mentionPattern = regexp.MustCompile(`^<@([UW][A-Z0-9]+)(?:\|[^>]*)?>$`)

// plain IDs are accepted too, for clients that do not escape mentions
var userIDPattern = regexp.MustCompile(`^[UW][A-Z0-9]{2,}$`)

func ParseCommand(text string) (*Command, error) {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return &Command{Type: CmdHelp}, nil
	}

	cmd := &Command{
		Raw: text,
	}

	switch strings.ToLower(parts[0]) {
	case "add":
		cmd.Type = CmdAdd
		if len(parts) > 1 {
			cmd.Args = parts[1:]
		}
	case "remove", "rm":
		cmd.Type = CmdRemove
		if len(parts) > 1 {
			cmd.Args = parts[1:]
		}
	case "list", "ls":
		cmd.Type = CmdList
	case "status":
		cmd.Type = CmdStatus
	case "history":
		cmd.Type = CmdHistory
		if len(parts) > 1 {
			cmd.Args = parts[1:2]
		}
	case "remind":
		cmd.Type = CmdRemind
	case "help":
		cmd.Type = CmdHelp
	default:
		return nil, fmt.Errorf("unknown command: %s", parts[0])
	}

	return cmd, nil
}

// ParseUserID extracts the Slack user ID from a mention or a bare ID.
func ParseUserID(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if m := mentionPattern.FindStringSubmatch(arg); m != nil {
		return m[1], nil
	}
	if userIDPattern.MatchString(arg) {
		return arg, nil
	}
	return "", fmt.Errorf("invalid user format: %s. Use @username", arg)
}

func GetHelpText() string {
	return `*Available Commands:*

*Manage Members:*
• ` + "`/rotation add @user [@user2 ...]`" + ` - Add members to the end of the rotation
• ` + "`/rotation remove @user`" + ` - Remove a member from the rotation
• ` + "`/rotation list`" + ` - List all members in rotation order

*Rotation:*
• ` + "`/rotation status`" + ` - Show whose turn it is, who is next and the next reminder time
• ` + "`/rotation history [N]`" + ` - Show the last N rotation events (default 10)
• ` + "`/rotation remind`" + ` - Send today's reminder now, if it has not been sent yet

Reminders are answered with the *Confirm* and *Skip* buttons on the message itself.`
}
