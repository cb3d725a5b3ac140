package schema

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/framelight/framelight/pkg/domain"
)

var durationType = reflect.TypeOf(time.Duration(0))

// EncodeInteraction converts an interaction to its key-value storage form.
// Field names follow the persisted document format (destinationFrameId,
// triggerDelay, overlaySettings, ...). Zero-valued optional fields are
// omitted.
func EncodeInteraction(it domain.Interaction) (map[string]any, error) {
	out := make(map[string]any)
	if err := mapstructure.Decode(it, &out); err != nil {
		return nil, fmt.Errorf("failed to encode interaction %s: %w", it.ID, err)
	}
	// mapstructure carries time.Duration through as its native type;
	// persist it as nanoseconds so the map is plainly serializable.
	if it.Delay != 0 {
		out["triggerDelay"] = int64(it.Delay)
	}
	if !it.Transition.IsZero() && it.Transition.Duration != 0 {
		if tr, ok := out["transition"].(map[string]any); ok {
			tr["duration"] = int64(it.Transition.Duration)
		}
	}
	return out, nil
}

// DecodeInteraction rebuilds an interaction from its storage form.
func DecodeInteraction(raw map[string]any) (domain.Interaction, error) {
	var it domain.Interaction
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &it,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(durationHook),
	})
	if err != nil {
		return domain.Interaction{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return domain.Interaction{}, fmt.Errorf("failed to decode interaction: %w", err)
	}
	return it, nil
}

// EncodeTransition converts a transition config to its storage form.
func EncodeTransition(cfg domain.TransitionConfig) (map[string]any, error) {
	out := make(map[string]any)
	if err := mapstructure.Decode(cfg, &out); err != nil {
		return nil, fmt.Errorf("failed to encode transition: %w", err)
	}
	if cfg.Duration != 0 {
		out["duration"] = int64(cfg.Duration)
	}
	return out, nil
}

// DecodeTransition rebuilds a transition config from its storage form.
func DecodeTransition(raw map[string]any) (domain.TransitionConfig, error) {
	var cfg domain.TransitionConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &cfg,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(durationHook),
	})
	if err != nil {
		return domain.TransitionConfig{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return domain.TransitionConfig{}, fmt.Errorf("failed to decode transition: %w", err)
	}
	return cfg, nil
}

// durationHook accepts durations stored either as nanosecond integers or
// as strings like "500ms".
func durationHook(from, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	switch v := data.(type) {
	case int64:
		return time.Duration(v), nil
	case int:
		return time.Duration(v), nil
	case float64:
		return time.Duration(int64(v)), nil
	case string:
		return time.ParseDuration(v)
	default:
		return data, nil
	}
}
