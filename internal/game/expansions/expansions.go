// Package expansions collects the card modules of every supported set.
package expansions

import (
	"github.com/thraizz/dominion-server-go/internal/game/effects"
	"github.com/thraizz/dominion-server-go/internal/game/expansions/adventures"
	"github.com/thraizz/dominion-server-go/internal/game/expansions/base"
	"github.com/thraizz/dominion-server-go/internal/game/expansions/seaside"
)

// RegisterAll adds the modules of every expansion to reg.
func RegisterAll(reg *effects.Registry) error {
	for _, register := range []func(*effects.Registry) error{
		base.Register,
		seaside.Register,
		adventures.Register,
	} {
		if err := register(reg); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding every expansion's modules.
func NewRegistry() (*effects.Registry, error) {
	reg := effects.NewRegistry()
	if err := RegisterAll(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
