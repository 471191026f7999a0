package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownPhase is returned when a phase name does not exist in a scenario.
var ErrUnknownPhase = errors.New("unknown phase")

// Scenario defines a scripted demo with ordered phases and an overall description.
type Scenario struct {
	Name        string  `yaml:"name,omitempty" json:"name,omitempty"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Phases      []Phase `yaml:"phases" json:"phases"`
}

// Phase describes a stage of the demo and the triggers that leave it.
// Description and Message may use the {target} and {peers} placeholders,
// expanded with the faulted agent and the number of helping agents.
type Phase struct {
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Progress    int       `yaml:"progress" json:"progress"`
	Message     string    `yaml:"message,omitempty" json:"message,omitempty"`
	Triggers    []Trigger `yaml:"triggers,omitempty" json:"triggers,omitempty"`
}

// Trigger moves the scenario to another phase based on an event.
type Trigger struct {
	Event string `yaml:"event" json:"event"`
	Value int    `yaml:"value" json:"value"`
	Next  string `yaml:"next" json:"next"`
}

// Event represents a runtime occurrence that may advance the scenario.
type Event struct {
	Type  string
	Value int
}

// EventPhaseComplete is the trigger Walk follows from phase to phase.
const EventPhaseComplete = "phase_complete"

// Load reads a YAML scenario definition from disk.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks that phases exist, are uniquely named and that every
// trigger points at a known phase.
func (s *Scenario) Validate() error {
	if len(s.Phases) == 0 {
		return errors.New("no phases defined")
	}
	seen := make(map[string]bool, len(s.Phases))
	for _, p := range s.Phases {
		if p.Name == "" {
			return errors.New("phase without name")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate phase %s", p.Name)
		}
		if p.Progress < 0 || p.Progress > 100 {
			return fmt.Errorf("phase %s progress %d out of range", p.Name, p.Progress)
		}
		seen[p.Name] = true
	}
	for _, p := range s.Phases {
		for _, tr := range p.Triggers {
			if !seen[tr.Next] {
				return fmt.Errorf("phase %s: %w: %s", p.Name, ErrUnknownPhase, tr.Next)
			}
		}
	}
	return nil
}

// Phase returns the named phase.
func (s *Scenario) Phase(name string) (Phase, error) {
	for _, p := range s.Phases {
		if p.Name == name {
			return p, nil
		}
	}
	return Phase{}, fmt.Errorf("%w: %s", ErrUnknownPhase, name)
}

// NextPhase returns the name of the next phase given the current phase and event.
// If no trigger matches, ok will be false.
func (s *Scenario) NextPhase(current string, ev Event) (next string, ok bool) {
	for _, p := range s.Phases {
		if p.Name != current {
			continue
		}
		for _, tr := range p.Triggers {
			if tr.Event == ev.Type && ev.Value >= tr.Value {
				return tr.Next, true
			}
		}
	}
	return "", false
}

// Walk follows phase_complete triggers from the first phase and returns the
// visited phases in order. Cycles stop at the first repeated phase.
func (s *Scenario) Walk() []Phase {
	if len(s.Phases) == 0 {
		return nil
	}
	out := []Phase{s.Phases[0]}
	visited := map[string]bool{s.Phases[0].Name: true}
	cur := s.Phases[0].Name
	for {
		next, ok := s.NextPhase(cur, Event{Type: EventPhaseComplete, Value: 1})
		if !ok || visited[next] {
			return out
		}
		p, err := s.Phase(next)
		if err != nil {
			return out
		}
		out = append(out, p)
		visited[next] = true
		cur = next
	}
}
