package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Domenick1991/flightprofit/internal/domain"
	"github.com/Domenick1991/flightprofit/internal/kafka"
)

// Sender tells plan owners about changes that affect profitability. It
// writes to out; delivery to a real channel lives outside this service.
type Sender struct {
	out io.Writer
}

func NewSender() *Sender {
	return &Sender{out: os.Stdout}
}

func (s *Sender) Send(ctx context.Context, event kafka.FlightPlanEvent) error {
	msg, ok := Message(event)
	if !ok {
		return nil
	}
	_, err := fmt.Fprintf(s.out, "notify user %d: %s\n", event.UserID, msg)
	return err
}

// Message renders the notice for an event. An update is only worth a
// notice when the plan becomes complete, stops being complete, or flips
// between profit and loss.
func Message(event kafka.FlightPlanEvent) (string, bool) {
	switch event.Type {
	case kafka.EventFlightPlanDeleted:
		return fmt.Sprintf("flight plan %q was deleted", event.SaveName), true
	case kafka.EventFlightPlanUpdated:
		return updateMessage(event)
	default:
		return "", false
	}
}

func updateMessage(event kafka.FlightPlanEvent) (string, bool) {
	wasComplete := event.PreviousStatus == string(domain.StatusComplete)

	if event.Profitable == nil {
		if wasComplete {
			return fmt.Sprintf("flight plan %q is no longer complete", event.SaveName), true
		}
		return "", false
	}

	if !wasComplete {
		if *event.Profitable {
			return fmt.Sprintf("flight plan %q is complete and makes a profit of £%s", event.SaveName, event.Profit), true
		}
		return fmt.Sprintf("flight plan %q is complete but loses money (profit £%s)", event.SaveName, event.Profit), true
	}

	if event.PreviousProfitable == nil || *event.PreviousProfitable == *event.Profitable {
		return "", false
	}
	if *event.Profitable {
		return fmt.Sprintf("flight plan %q now makes a profit of £%s", event.SaveName, event.Profit), true
	}
	return fmt.Sprintf("flight plan %q now loses money (profit £%s)", event.SaveName, event.Profit), true
}
