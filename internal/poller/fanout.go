package poller

import (
	"context"
	"errors"
)

// Fanout delivers one alert to several sinks. Each sink is attempted even
// if an earlier one fails; the errors are joined. Used to mirror alerts to
// the Kafka topic alongside the primary chat sink.
type Fanout []Notifier

func (f Fanout) Send(ctx context.Context, text string) error {
	var errs []error
	for _, n := range f {
		if err := n.Send(ctx, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
