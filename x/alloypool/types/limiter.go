package types

import (
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// MaxDivisionCount bounds the number of divisions in a change limiter window so
// that limit checks and division cleanup stay O(1) in storage reads.
const MaxDivisionCount = int64(10)

// MaxLimiterCountPerScope bounds how many limiters can be registered under a
// single scope.
const MaxLimiterCountPerScope = 10

// WindowConfig configures the moving window of a change limiter.
type WindowConfig struct {
	// WindowSize is the size of the window in nanoseconds.
	WindowSize int64 `json:"window_size"`

	// DivisionCount is the number of divisions the window is split into.
	// The window size must be evenly divisible by the division count.
	// While operating, the retained division count is between 0 and
	// DivisionCount+1 inclusive since the window may cover only part of the
	// oldest division.
	DivisionCount int64 `json:"division_count"`
}

// Validate checks the window config constraints.
func (c WindowConfig) Validate() error {
	if c.WindowSize <= 0 {
		return errorsmod.Wrapf(ErrZeroWindowSize, "window size: %d", c.WindowSize)
	}
	if c.DivisionCount <= 0 || c.DivisionCount > MaxDivisionCount {
		return errorsmod.Wrapf(ErrDivisionCountOutOfRange, "division count: %d, max: %d", c.DivisionCount, MaxDivisionCount)
	}
	if c.WindowSize%c.DivisionCount != 0 {
		return errorsmod.Wrapf(ErrUnevenWindowDivision, "window size %d %% division count %d != 0", c.WindowSize, c.DivisionCount)
	}
	return nil
}

// DivisionSize returns the span of a single division in nanoseconds.
func (c WindowConfig) DivisionSize() int64 {
	return c.WindowSize / c.DivisionCount
}

// Division is a compressed time bucket for approximated moving average
// calculation. It is immutable by replacement: Update returns a new value.
type Division struct {
	// StartedAt is the time the division started, in unix nanoseconds.
	StartedAt int64 `json:"started_at"`

	// UpdatedAt is the time of the last recorded observation.
	UpdatedAt int64 `json:"updated_at"`

	// LatestValue is the last observed value.
	LatestValue math.LegacyDec `json:"latest_value"`

	// Integral is the time integral of the observed value over
	// [StartedAt, UpdatedAt].
	Integral math.LegacyDec `json:"integral"`
}

// NewDivision opens a division at startedAt. prevValue is the value that
// prevailed from startedAt until the first observation at updatedAt.
func NewDivision(startedAt, updatedAt int64, value, prevValue math.LegacyDec) (Division, error) {
	if updatedAt < startedAt {
		return Division{}, errorsmod.Wrapf(ErrInvalidDivision, "started_at: %d, updated_at: %d", startedAt, updatedAt)
	}
	return Division{
		StartedAt:   startedAt,
		UpdatedAt:   updatedAt,
		LatestValue: value,
		Integral:    prevValue.MulInt64(updatedAt - startedAt),
	}, nil
}

// Update records a new observation within this division.
func (d Division) Update(updatedAt int64, value math.LegacyDec) (Division, error) {
	if updatedAt < d.UpdatedAt {
		return Division{}, errorsmod.Wrapf(ErrInvalidDivision, "updated_at must not decrease: %d -> %d", d.UpdatedAt, updatedAt)
	}
	return Division{
		StartedAt:   d.StartedAt,
		UpdatedAt:   updatedAt,
		LatestValue: value,
		Integral:    d.Integral.Add(d.LatestValue.MulInt64(updatedAt - d.UpdatedAt)),
	}, nil
}

// IsOutdated reports whether the moving window has fully passed this division.
func (d Division) IsOutdated(now, windowSize, divisionSize int64) bool {
	return now-windowSize >= d.StartedAt+divisionSize
}

// ElapsedTime returns the time elapsed since the division started.
func (d Division) ElapsedTime(now int64) int64 {
	return now - d.StartedAt
}

// NextStartedAt returns the start time for a new division opened at block time
// now: the greatest division boundary after this division's end that is <= now.
func (d Division) NextStartedAt(divisionSize, now int64) int64 {
	endedAt := d.StartedAt + divisionSize
	return now - (now-endedAt)%divisionSize
}

// CompressedMovingAverage reconstructs the time-weighted average of the tracked
// value over [now - windowSize, now] from the retained divisions plus, when
// present, the most recently evicted one. The evicted division's latest value
// covers the window head before the first retained division starts. Within a
// division the pre-update span is represented by its average value and the
// post-update span (including gaps up to the next division) by its latest
// value; every span is clipped to the window.
//
// Divisions must be ordered oldest to newest and at least one of
// latestRemoved/divisions must be present.
func CompressedMovingAverage(latestRemoved *Division, divisions []Division, divisionSize, windowSize, now int64) (math.LegacyDec, error) {
	windowStartedAt := now - windowSize

	if len(divisions) == 0 {
		if latestRemoved == nil {
			return math.LegacyDec{}, errorsmod.Wrap(ErrInvalidDivision, "no division to average over")
		}
		// the evicted division's latest value prevailed over the whole window
		return latestRemoved.LatestValue, nil
	}

	first := divisions[0]
	cumsum := math.LegacyZeroDec()
	coveredFrom := max64(windowStartedAt, first.StartedAt)

	if latestRemoved != nil && first.StartedAt > windowStartedAt {
		cumsum = latestRemoved.LatestValue.MulInt64(first.StartedAt - windowStartedAt)
		coveredFrom = windowStartedAt
	}

	for i, div := range divisions {
		// pre-update span [StartedAt, UpdatedAt), clipped at window start
		preStart := max64(div.StartedAt, windowStartedAt)
		if div.UpdatedAt > preStart {
			if preStart == div.StartedAt {
				cumsum = cumsum.Add(div.Integral)
			} else {
				avg := div.Integral.QuoInt64(div.UpdatedAt - div.StartedAt)
				cumsum = cumsum.Add(avg.MulInt64(div.UpdatedAt - preStart))
			}
		}

		// latest value prevails until the next division starts, or now
		tailEnd := now
		if i+1 < len(divisions) {
			tailEnd = divisions[i+1].StartedAt
		}
		tailStart := max64(div.UpdatedAt, windowStartedAt)
		if tailEnd > tailStart {
			cumsum = cumsum.Add(div.LatestValue.MulInt64(tailEnd - tailStart))
		}
	}

	totalElapsed := now - coveredFrom
	if totalElapsed == 0 {
		// averaging over an instant: the instantaneous value
		return divisions[len(divisions)-1].LatestValue, nil
	}

	return cumsum.QuoInt64(totalElapsed), nil
}

// ChangeLimiter bounds how fast a scope's weight may rise: the current value
// must stay within boundary offset above the trailing simple moving average.
// Data points are compressed into divisions for storage-bounded history.
type ChangeLimiter struct {
	// Divisions in the window, ordered oldest to newest. Retained divisions
	// exist within or overlap the window; older ones are cleaned up.
	Divisions []Division `json:"divisions"`

	// LatestValue is the latest updated value.
	LatestValue math.LegacyDec `json:"latest_value"`

	WindowConfig WindowConfig `json:"window_config"`

	// BoundaryOffset is the allowed excess above the moving average.
	BoundaryOffset math.LegacyDec `json:"boundary_offset"`
}

// NewChangeLimiter validates config and constructs an empty change limiter.
func NewChangeLimiter(windowConfig WindowConfig, boundaryOffset math.LegacyDec) (ChangeLimiter, error) {
	limiter := ChangeLimiter{
		Divisions:      []Division{},
		LatestValue:    math.LegacyZeroDec(),
		WindowConfig:   windowConfig,
		BoundaryOffset: boundaryOffset,
	}
	if err := windowConfig.Validate(); err != nil {
		return ChangeLimiter{}, err
	}
	if !boundaryOffset.IsPositive() {
		return ChangeLimiter{}, errorsmod.Wrapf(ErrZeroBoundaryOffset, "boundary offset: %s", boundaryOffset)
	}
	return limiter, nil
}

// CleanUpOutdatedDivisions evicts divisions the window has fully passed and
// returns the most recent eviction, which still informs the average since its
// latest value prevailed into the window.
func (l *ChangeLimiter) CleanUpOutdatedDivisions(now int64) *Division {
	var latestRemoved *Division
	divisionSize := l.WindowConfig.DivisionSize()

	for len(l.Divisions) > 0 && l.Divisions[0].IsOutdated(now, l.WindowConfig.WindowSize, divisionSize) {
		removed := l.Divisions[0]
		latestRemoved = &removed
		l.Divisions = l.Divisions[1:]
	}

	return latestRemoved
}

// EnsureUpperLimit evicts outdated divisions then checks value against the
// moving average plus boundary offset. With no prior data points any value is
// accepted (bootstrap case).
func (l *ChangeLimiter) EnsureUpperLimit(now int64, scope Scope, value math.LegacyDec) error {
	latestRemoved := l.CleanUpOutdatedDivisions(now)

	if len(l.Divisions) == 0 && latestRemoved == nil {
		return nil
	}

	avg, err := CompressedMovingAverage(latestRemoved, l.Divisions, l.WindowConfig.DivisionSize(), l.WindowConfig.WindowSize, now)
	if err != nil {
		return err
	}

	upperLimit := saturatingAdd(avg, l.BoundaryOffset)
	if value.GT(upperLimit) {
		return errorsmod.Wrapf(ErrUpperLimitExceeded, "scope: %s, upper limit: %s, value: %s", scope.Key(), upperLimit, value)
	}

	return nil
}

// Update records value at block time now, appending to the current division if
// now falls within its active span, else opening a new division at the correct
// boundary.
func (l *ChangeLimiter) Update(now int64, value math.LegacyDec) error {
	divisionSize := l.WindowConfig.DivisionSize()
	prevValue := l.LatestValue
	l.LatestValue = value

	if len(l.Divisions) == 0 {
		division, err := NewDivision(now, now, value, value)
		if err != nil {
			return err
		}
		l.Divisions = []Division{division}
		return nil
	}

	latest := l.Divisions[len(l.Divisions)-1]
	if latest.ElapsedTime(now) >= divisionSize {
		division, err := NewDivision(latest.NextStartedAt(divisionSize, now), now, value, prevValue)
		if err != nil {
			return err
		}
		l.Divisions = append(l.Divisions, division)
		return nil
	}

	updated, err := latest.Update(now, value)
	if err != nil {
		return err
	}
	l.Divisions[len(l.Divisions)-1] = updated
	return nil
}

// Reset discards history and seeds a single division with value at now. Used
// when the asset composition changes discontinuously, since the pre-reset
// history is no longer a valid basis for comparison.
func (l *ChangeLimiter) Reset(now int64, value math.LegacyDec) error {
	division, err := NewDivision(now, now, value, value)
	if err != nil {
		return err
	}
	l.Divisions = []Division{division}
	l.LatestValue = value
	return nil
}

// UpperLimit returns the current bound (moving average + boundary offset) and
// whether any history backs it. Without history the bound is 100%.
func (l *ChangeLimiter) UpperLimit(now int64) (math.LegacyDec, error) {
	latestRemoved := l.CleanUpOutdatedDivisions(now)

	if len(l.Divisions) == 0 && latestRemoved == nil {
		return math.LegacyOneDec(), nil
	}

	avg, err := CompressedMovingAverage(latestRemoved, l.Divisions, l.WindowConfig.DivisionSize(), l.WindowConfig.WindowSize, now)
	if err != nil {
		return math.LegacyDec{}, err
	}

	return saturatingAdd(avg, l.BoundaryOffset), nil
}

// StaticLimiter bounds a scope's weight by a fixed ceiling.
type StaticLimiter struct {
	// UpperLimit of the value, in (0, 1].
	UpperLimit math.LegacyDec `json:"upper_limit"`
}

// NewStaticLimiter validates and constructs a static limiter.
func NewStaticLimiter(upperLimit math.LegacyDec) (StaticLimiter, error) {
	limiter := StaticLimiter{UpperLimit: upperLimit}
	return limiter, limiter.validate()
}

func (l StaticLimiter) validate() error {
	if !l.UpperLimit.IsPositive() {
		return errorsmod.Wrapf(ErrZeroUpperLimit, "upper limit: %s", l.UpperLimit)
	}
	if l.UpperLimit.GT(math.LegacyOneDec()) {
		return errorsmod.Wrapf(ErrExceedHundredPercent, "upper limit: %s", l.UpperLimit)
	}
	return nil
}

// EnsureUpperLimit checks value against the fixed ceiling.
func (l StaticLimiter) EnsureUpperLimit(scope Scope, value math.LegacyDec) error {
	if value.GT(l.UpperLimit) {
		return errorsmod.Wrapf(ErrUpperLimitExceeded, "scope: %s, upper limit: %s, value: %s", scope.Key(), l.UpperLimit, value)
	}
	return nil
}

// SetUpperLimit replaces the ceiling, revalidating the bounds.
func (l StaticLimiter) SetUpperLimit(upperLimit math.LegacyDec) (StaticLimiter, error) {
	return NewStaticLimiter(upperLimit)
}

// Limiter kinds used in the stored union and setter type checks.
const (
	LimiterTypeChange = "change_limiter"
	LimiterTypeStatic = "static_limiter"
)

// Limiter is a closed union of the two limiter kinds. Exactly one field is
// non-nil.
type Limiter struct {
	ChangeLimiter *ChangeLimiter `json:"change_limiter,omitempty"`
	StaticLimiter *StaticLimiter `json:"static_limiter,omitempty"`
}

// Type returns the kind tag of the active variant.
func (l Limiter) Type() string {
	if l.ChangeLimiter != nil {
		return LimiterTypeChange
	}
	return LimiterTypeStatic
}

// LimiterParams carries the registration payload for either limiter kind.
// Exactly one of the two configs must be set.
type LimiterParams struct {
	// Change limiter params
	WindowConfig   *WindowConfig  `json:"window_config,omitempty"`
	BoundaryOffset math.LegacyDec `json:"boundary_offset,omitempty"`

	// Static limiter params
	UpperLimit math.LegacyDec `json:"upper_limit,omitempty"`
}

// ChangeLimiterParams builds registration params for a change limiter.
func ChangeLimiterParams(windowConfig WindowConfig, boundaryOffset math.LegacyDec) LimiterParams {
	return LimiterParams{WindowConfig: &windowConfig, BoundaryOffset: boundaryOffset}
}

// StaticLimiterParams builds registration params for a static limiter.
func StaticLimiterParams(upperLimit math.LegacyDec) LimiterParams {
	return LimiterParams{UpperLimit: upperLimit}
}

// NewLimiter constructs and validates the limiter variant chosen by params.
func NewLimiter(params LimiterParams) (Limiter, error) {
	if params.WindowConfig != nil {
		limiter, err := NewChangeLimiter(*params.WindowConfig, params.BoundaryOffset)
		if err != nil {
			return Limiter{}, err
		}
		return Limiter{ChangeLimiter: &limiter}, nil
	}

	limiter, err := NewStaticLimiter(params.UpperLimit)
	if err != nil {
		return Limiter{}, err
	}
	return Limiter{StaticLimiter: &limiter}, nil
}

// saturatingAdd adds two decimals, clamping at the decimal max instead of
// overflowing.
func saturatingAdd(a, b math.LegacyDec) (sum math.LegacyDec) {
	defer func() {
		if recover() != nil {
			sum = math.LegacyMaxSortableDec
		}
	}()
	return a.Add(b)
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// Nanoseconds per common window units, for CLI and test convenience.
const (
	Minute = int64(time.Minute)
	Hour   = int64(time.Hour)
)
