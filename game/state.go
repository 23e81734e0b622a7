package game

import (
	"slices"

	"github.com/djthomann/snackman/event"
)

// State accumulates what changed since the last broadcast

type State struct {
	changed  map[Kind]map[string]struct{}
	consumed []event.ItemPayload
	spawned  []event.ItemPayload
}

// Delta is one drained window of changes. Ids are sorted.
type Delta struct {
	Eaters    []string
	Chasers   []string
	Wanderers []string
	Consumed  []event.ItemPayload
	Spawned   []event.ItemPayload
}

func (d Delta) Empty() bool {
	return len(d.Eaters) == 0 && len(d.Chasers) == 0 && len(d.Wanderers) == 0 &&
		len(d.Consumed) == 0 && len(d.Spawned) == 0
}

func NewState() *State {
	return &State{changed: make(map[Kind]map[string]struct{})}
}

func (s *State) Record(kind Kind, id string) {
	set, ok := s.changed[kind]
	if !ok {
		set = make(map[string]struct{})
		s.changed[kind] = set
	}
	set[id] = struct{}{}
}

func (s *State) RecordConsumed(p event.ItemPayload) { s.consumed = append(s.consumed, p) }
func (s *State) RecordSpawned(p event.ItemPayload)  { s.spawned = append(s.spawned, p) }

// Observe records the entity behind ev. kindOf maps an entity id to its
// kind and reports false for ids it does not know.
func (s *State) Observe(ev *event.Event, kindOf func(id string) (Kind, bool)) {
	switch ev.Kind {
	case event.KindConsumed:
		if p, ok := ev.Payload.(event.ItemPayload); ok {
			s.RecordConsumed(p)
		}
	case event.KindItemSpawned:
		if p, ok := ev.Payload.(event.ItemPayload); ok {
			s.RecordSpawned(p)
		}
	case event.KindEntityMoved, event.KindEntityChanged, event.KindEntityScared:
		if kind, ok := kindOf(ev.EntityID); ok {
			s.Record(kind, ev.EntityID)
		}
	}
}

func (s *State) Empty() bool {
	return len(s.changed) == 0 && len(s.consumed) == 0 && len(s.spawned) == 0
}

// Drain returns the accumulated changes and resets the tracker
func (s *State) Drain() Delta {
	d := Delta{
		Eaters:    s.ids(KindEater),
		Chasers:   s.ids(KindChaser),
		Wanderers: s.ids(KindWanderer),
		Consumed:  s.consumed,
		Spawned:   s.spawned,
	}
	s.changed = make(map[Kind]map[string]struct{})
	s.consumed = nil
	s.spawned = nil
	return d
}

func (s *State) ids(kind Kind) []string {
	set := s.changed[kind]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
