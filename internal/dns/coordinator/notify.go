package coordinator

import (
	"fmt"

	"github.com/google/uuid"

	dnsdomain "domain0/d0ctl/internal/dns/domain"
)

// Level is the severity of a notification.
type Level int

const (
	LevelSuccess Level = iota + 1
	LevelInfo
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelInfo:
		return "info"
	case LevelError:
		return "error"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Notification is a transient message about one row's mutation.
type Notification struct {
	Level    Level
	Identity dnsdomain.Identity
	CallID   uuid.UUID
	Message  string
	Err      error
}

// Notifier receives notifications as results are applied.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

func notificationFor(call Call, outcome dnsdomain.Outcome) Notification {
	n := Notification{Identity: call.Identity, CallID: call.ID}
	switch outcome.Kind {
	case dnsdomain.OutcomeApplied:
		n.Level = LevelSuccess
		n.Message = appliedMessage(call, outcome)
	case dnsdomain.OutcomePending:
		n.Level = LevelInfo
		n.Message = outcome.Message
		if outcome.Warning != nil {
			n.Level = LevelError
			n.Err = outcome.Warning
			n.Message = fmt.Sprintf("%s (%v)", outcome.Message, outcome.Warning)
		}
	default:
		n.Level = LevelError
		n.Err = outcome.Err
		if outcome.Err != nil {
			n.Message = outcome.Err.Error()
		} else {
			n.Message = fmt.Sprintf("%s failed", call.Kind)
		}
	}
	return n
}

func appliedMessage(call Call, outcome dnsdomain.Outcome) string {
	name := call.name()
	if outcome.Record != nil && outcome.Record.Name != "" {
		name = outcome.Record.Name
	}
	switch call.Kind {
	case CallCreate:
		return fmt.Sprintf("Created record %s", name)
	case CallDelete:
		return fmt.Sprintf("Deleted record %s", name)
	}
	return fmt.Sprintf("Updated record %s", name)
}
