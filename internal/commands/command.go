package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/nutrid/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeSnooze Type = "snooze"
	TypeDelete Type = "delete"
	TypeCheck  Type = "check"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs registers an alarm: /add 오전 9:00 철분 days:월,수
type AddArgs struct {
	Time string
	Name string
	Days []string
}

// TargetArgs names an existing alarm by list position, id or name.
type TargetArgs struct {
	Target string
}

type CheckArgs struct {
	Time string
	Name string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Target *TargetArgs
	Check  *CheckArgs
}

const daysPrefix = "days:"

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, TypeSnooze, TypeDelete:
		return parseTarget(input, Type(head), args)
	case TypeCheck:
		return parseCheck(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	var days []string
	rest := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.HasPrefix(strings.ToLower(arg), daysPrefix) {
			parsed, err := model.ParseWeekdays(arg[len(daysPrefix):])
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
			}
			days = append(days, parsed...)
			continue
		}
		rest = append(rest, arg)
	}

	at, name, err := splitTimeAndName(rest)
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add " + err.Error()}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Time: at, Name: name, Days: days}}, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	target := strings.TrimSpace(strings.Join(args, " "))
	if target == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires an alarm number, id or name", typ)}
	}
	return Command{Type: typ, Raw: raw, Target: &TargetArgs{Target: target}}, nil
}

func parseCheck(raw string, args []string) (Command, error) {
	at, name, err := splitTimeAndName(args)
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "check " + err.Error()}
	}
	return Command{Type: TypeCheck, Raw: raw, Check: &CheckArgs{Time: at, Name: name}}, nil
}

// splitTimeAndName takes the longest leading run of tokens that parses as a
// time of day. The remaining tokens form the name.
func splitTimeAndName(args []string) (string, string, error) {
	if len(args) < 2 {
		return "", "", errors.New("requires a time and a name")
	}
	for n := min(4, len(args)-1); n >= 2; n-- {
		t, err := model.ParseTime(strings.Join(args[:n], " "))
		if err != nil {
			continue
		}
		return t.String(), strings.Join(args[n:], " "), nil
	}
	return "", "", fmt.Errorf("requires a time like \"%s 9:00\"", model.MarkerAM)
}
