package events

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/socketio/internal/errors"
	"github.com/vango-dev/socketio/pkg/kit"
)

// Discovery collects descriptors from the directory scan and any other
// registered producers.
type Discovery struct {
	// Hooks contribute descriptors. The directory scan is registered first;
	// later hooks append to the same accumulator.
	Hooks kit.Hooks[*Descriptors]

	scanner *Scanner
}

// NewDiscovery creates a discovery whose first producer is scanner.
func NewDiscovery(scanner *Scanner) *Discovery {
	d := &Discovery{scanner: scanner}
	if scanner != nil {
		d.Hooks.Hook(scanner.Hook())
	}
	return d
}

// Scanner returns the first-party directory scanner.
func (d *Discovery) Scanner() *Scanner {
	return d.scanner
}

// Events runs every producer against a fresh accumulator. Nothing is
// cached: each call reflects the current state of the events directory.
func (d *Discovery) Events(ctx context.Context) (Descriptors, error) {
	var events Descriptors
	if err := d.Hooks.Call(ctx, &events); err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, errors.New("E201").Wrap(err)
	}
	return events, nil
}

// Validate reports descriptors sharing an effective name.
func Validate(events Descriptors) error {
	byName := make(map[string][]string)
	for _, d := range events {
		name := d.EffectiveName()
		byName[name] = append(byName[name], d.From)
	}

	var dupes []string
	for name, froms := range byName {
		if len(froms) > 1 {
			dupes = append(dupes, fmt.Sprintf("%q (%s)", name, strings.Join(froms, ", ")))
		}
	}
	if len(dupes) == 0 {
		return nil
	}
	sort.Strings(dupes)

	return errors.New("E210").
		WithDetail(strings.Join(dupes, "; ")).
		WithSuggestion("Rename one of the handlers or give it an explicit As name")
}
