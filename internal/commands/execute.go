package commands

import "fmt"

type Result struct {
	Message string
	// Markdown marks Message for the markdown renderer.
	Markdown bool
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Done   func(TargetArgs) (Result, error)
	Snooze func(TargetArgs) (Result, error)
	Delete func(TargetArgs) (Result, error)
	Check  func(CheckArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Done(*cmd.Target)
	case TypeSnooze:
		if handlers.Snooze == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Snooze(*cmd.Target)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Delete(*cmd.Target)
	case TypeCheck:
		if handlers.Check == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Check(*cmd.Check)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
