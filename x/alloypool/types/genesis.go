package types

// GenesisLimiter is a limiter entry in genesis state.
type GenesisLimiter struct {
	Scope   string  `json:"scope"`
	Label   string  `json:"label"`
	Limiter Limiter `json:"limiter"`
}

// GenesisState holds the module's genesis state. The pool is nil until created
// through governance.
type GenesisState struct {
	Pool     *Pool            `json:"pool,omitempty"`
	Limiters []GenesisLimiter `json:"limiters,omitempty"`
}

// DefaultGenesisState returns an empty genesis state.
func DefaultGenesisState() *GenesisState {
	return &GenesisState{}
}

// Validate checks genesis state consistency.
func (gs GenesisState) Validate() error {
	seen := make(map[string]struct{}, len(gs.Limiters))
	for _, entry := range gs.Limiters {
		scope, err := ParseScope(entry.Scope)
		if err != nil {
			return err
		}
		if entry.Label == "" {
			return ErrEmptyLimiterLabel
		}
		key := scope.Key() + "\x00" + entry.Label
		if _, ok := seen[key]; ok {
			return ErrLimiterAlreadyExists
		}
		seen[key] = struct{}{}
	}
	if gs.Pool == nil && len(gs.Limiters) > 0 {
		return ErrPoolNotFound
	}
	return nil
}
