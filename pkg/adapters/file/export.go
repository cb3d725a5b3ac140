package file

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/framelight/framelight/pkg/domain"
	"github.com/framelight/framelight/pkg/ports"
)

// Export serializes a prototype source to the YAML document format this
// package loads. It is the write half of the adapter, used by generators
// and migration tooling.
func Export(name string, source ports.PrototypeSource) ([]byte, error) {
	frames, err := source.Frames()
	if err != nil {
		return nil, fmt.Errorf("failed to list frames: %w", err)
	}
	vars, err := source.Variables()
	if err != nil {
		return nil, fmt.Errorf("failed to list variables: %w", err)
	}

	doc := document{
		Name:  name,
		Start: source.StartFrame(),
	}
	for _, v := range vars {
		doc.Variables = append(doc.Variables, docVariable{
			Name:    v.Name,
			Type:    string(v.Type),
			Default: v.Default,
		})
	}
	for _, f := range frames {
		df := docFrame{
			ID:         f.ID,
			Name:       f.Name,
			Width:      f.Width,
			Height:     f.Height,
			Background: f.Background,
			Content:    f.Content,
		}
		rules, err := source.Interactions(f.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list interactions for %s: %w", f.ID, err)
		}
		for _, it := range rules {
			df.Interactions = append(df.Interactions, exportInteraction(it))
		}
		doc.Frames = append(doc.Frames, df)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}

// Save writes the exported document to path.
func Save(path, name string, source ports.PrototypeSource) error {
	data, err := Export(name, source)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

func exportInteraction(it domain.Interaction) docInteraction {
	di := docInteraction{
		ID:          it.ID,
		Trigger:     string(it.Trigger),
		Action:      string(it.Action),
		Destination: it.Destination,
		URL:         it.URL,
		Overlay:     it.Overlay,
		Scroll:      it.Scroll,
		Variable:    it.Variable,
	}
	if it.Delay > 0 {
		di.Delay = it.Delay.String()
	}
	if !it.Transition.IsZero() {
		di.Transition = &docTransition{
			Type:        string(it.Transition.Type),
			Direction:   string(it.Transition.Direction),
			Easing:      string(it.Transition.Easing),
			MatchLayers: it.Transition.MatchLayers,
		}
		if it.Transition.Duration > 0 {
			di.Transition.Duration = it.Transition.Duration.String()
		}
	}
	if it.Conditional != nil {
		di.Conditional = &docConditional{
			If:   it.Conditional.If,
			Then: it.Conditional.Then,
			Else: it.Conditional.Else,
		}
	}
	return di
}
