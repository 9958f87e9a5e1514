package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CommandType is the abstract command sent to the authority.
type CommandType string

const (
	CommandLeft   CommandType = "left"
	CommandRight  CommandType = "right"
	CommandUp     CommandType = "up"
	CommandJump   CommandType = "jump"
	CommandSave   CommandType = "save"
	CommandUndo   CommandType = "undo"
	CommandReplay CommandType = "replay"
	CommandReset  CommandType = "reset"
	CommandChoose CommandType = "choose"
)

// CommandTypes lists every command type.
var CommandTypes = []CommandType{
	CommandLeft, CommandRight, CommandUp, CommandJump,
	CommandSave, CommandUndo, CommandReplay, CommandReset, CommandChoose,
}

// ErrInvalidCommand reports a command that cannot be sent.
var ErrInvalidCommand = errors.New("game: invalid command")

// Command is a fire-and-forget request to the authority.
// It carries no identity or sequence token; send order is the only ordering.
type Command struct {
	Type     CommandType
	ChoiceID int // Only meaningful for CommandChoose
}

// NewCommand creates a command without a choice id.
func NewCommand(t CommandType) Command {
	return Command{Type: t}
}

// Choose creates a choose command for the given choice id.
func Choose(id int) Command {
	return Command{Type: CommandChoose, ChoiceID: id}
}

// Validate checks the command type and the choice id rule:
// required and positive for choose, absent otherwise.
func (c Command) Validate() error {
	known := false
	for _, t := range CommandTypes {
		if c.Type == t {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidCommand, c.Type)
	}
	if c.Type == CommandChoose && c.ChoiceID <= 0 {
		return fmt.Errorf("%w: choose needs a positive choice id", ErrInvalidCommand)
	}
	if c.Type != CommandChoose && c.ChoiceID != 0 {
		return fmt.Errorf("%w: %s does not take a choice id", ErrInvalidCommand, c.Type)
	}
	return nil
}

// String returns a compact form for logs.
func (c Command) String() string {
	if c.Type == CommandChoose {
		return fmt.Sprintf("choose(%d)", c.ChoiceID)
	}
	return string(c.Type)
}

// inputBody is the POST /input payload.
type inputBody struct {
	Key      string `json:"key"`
	ChoiceID *int   `json:"choiceId,omitempty"`
}

// MarshalJSON encodes the command as the /input body.
func (c Command) MarshalJSON() ([]byte, error) {
	body := inputBody{Key: string(c.Type)}
	if c.Type == CommandChoose {
		id := c.ChoiceID
		body.ChoiceID = &id
	}
	return json.Marshal(body)
}

// UnmarshalJSON decodes an /input body.
func (c *Command) UnmarshalJSON(data []byte) error {
	var body inputBody
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	c.Type = CommandType(body.Key)
	c.ChoiceID = 0
	if body.ChoiceID != nil {
		c.ChoiceID = *body.ChoiceID
	}
	return nil
}
