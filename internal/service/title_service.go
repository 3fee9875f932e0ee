package service

import (
	"context"
	"fmt"

	"monotaskr/coordinator/internal/event"
	"monotaskr/coordinator/internal/store"
)

// TitleService pushes countdown updates for the tab-title display. Content
// scripts render the pushed title; a reset event tells them to restore the
// page's own title.
type TitleService struct {
	store *store.Store
	bus   *event.Bus

	// active tracks whether a title is currently pushed, so disabling the
	// preference mid-session still emits one reset. Guarded by the
	// controller's handler serialization.
	active bool
}

func NewTitleService(st *store.Store, bus *event.Bus) *TitleService {
	return &TitleService{store: st, bus: bus}
}

// FormatTitle renders the remaining time as "(MM:SS) MonoTaskr".
func FormatTitle(seconds int) string {
	return fmt.Sprintf("(%02d:%02d) MonoTaskr", seconds/60, seconds%60)
}

func (t *TitleService) Update(ctx context.Context, remainingSeconds int) error {
	enabled, err := t.store.ShowTabTitleTimer(ctx)
	if err != nil {
		return err
	}
	if !enabled {
		t.Reset()
		return nil
	}

	t.active = true
	t.bus.Publish(event.Event{
		Type:    event.TypeTitle,
		Payload: map[string]string{"title": FormatTitle(remainingSeconds)},
	})
	return nil
}

func (t *TitleService) Reset() {
	if !t.active {
		return
	}
	t.active = false
	t.bus.Publish(event.Event{Type: event.TypeTitleReset})
}
