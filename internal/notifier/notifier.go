package notifier

import (
	"context"
	"errors"
	"fmt"
	"stockalert/internal/product"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotifier is wrapped by every delivery failure.
	ErrNotifier = errors.New("notification failed")
	// ErrConfigurationMissing is returned when no destination is configured.
	ErrConfigurationMissing = errors.New("no notification destination configured")
)

// Message is a stock alert, the body is the human readable sentence and the
// remaining fields are for transports that can render them separately.
type Message struct {
	Title string
	Body  string
	URL   string
	Store product.StoreID
	Price decimal.NullDecimal
}

// Notifier delivers a message to some destination.
//
// note: fault injection point
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// Render builds the message sent for an observation.
func Render(snapshot product.Snapshot) Message {
	return Message{
		Title: snapshot.Title(),
		Body:  snapshot.String(),
		URL:   snapshot.URL(),
		Store: snapshot.Store(),
		Price: snapshot.Price(),
	}
}

// Multi sends every message to all of its notifiers, one failing does not
// stop the others.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, message Message) error {
	var errs []error
	for _, n := range m {
		err := n.Send(ctx, message)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func wrap(transport string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrNotifier, transport, err)
}
