package fsrs

import (
	"fmt"
	"math"
	"time"

	"lingodrill/internal/domain"
)

// minStability is the floor for the memory stability value
const minStability = 0.001

// Params holds the FSRS-6 weights and the scheduling limits.
// The weights are tunable; defaults come from the published FSRS-6 set
type Params struct {
	W                [21]float64
	DesiredRetention float64 // target recall probability at review time
	MinIntervalDays  float64
	MaxIntervalDays  float64
}

// DefaultParams returns the published FSRS-6 default weights with
// 90% desired retention and intervals clamped to [1 day, 10 years]
func DefaultParams() *Params {
	return &Params{
		W: [21]float64{
			0.212, 1.2931, 2.3065, 8.2956, // initial stability S0(G)
			6.4133, 0.8334, 3.0194, 0.001, // difficulty
			1.8722, 0.1666, 0.796, 1.4835, // recall stability
			0.0614, 0.2629, 1.6483, 0.6014, // forget stability
			1.8729, 0.5425, 0.0912, 0.0658, // easy bonus / short-term
			0.1542, // decay exponent
		},
		DesiredRetention: 0.9,
		MinIntervalDays:  1,
		MaxIntervalDays:  3650,
	}
}

// lowerBounds and upperBounds delimit the allowed range per weight
var lowerBounds = [21]float64{
	0.001, 0.001, 0.001, 0.001,
	1.0, 0.001, 0.001, 0.001,
	0.0, 0.0, 0.001, 0.001,
	0.001, 0.001, 0.0, 0.0,
	1.0, 0.0, 0.0, 0.0,
	0.1,
}

var upperBounds = [21]float64{
	100.0, 100.0, 100.0, 100.0,
	10.0, 4.0, 4.0, 0.75,
	4.5, 0.8, 3.5, 5.0,
	0.25, 0.9, 4.0, 1.0,
	6.0, 2.0, 2.0, 0.8,
	0.8,
}

// Validate checks the weights and limits before the params are used
func (p *Params) Validate() error {
	for i := 0; i < len(p.W); i++ {
		if p.W[i] < lowerBounds[i] || p.W[i] > upperBounds[i] {
			return fmt.Errorf("weight w[%d] = %f outside bounds [%f, %f]",
				i, p.W[i], lowerBounds[i], upperBounds[i])
		}
	}
	if p.DesiredRetention <= 0 || p.DesiredRetention >= 1 {
		return fmt.Errorf("desired retention %f must be in (0, 1)", p.DesiredRetention)
	}
	if p.MinIntervalDays <= 0 || p.MaxIntervalDays < p.MinIntervalDays {
		return fmt.Errorf("invalid interval limits [%f, %f]", p.MinIntervalDays, p.MaxIntervalDays)
	}
	return nil
}

// State is the scheduler's working memory for one card. The scheduler is
// a pure function over it: the caller owns persistence
type State struct {
	Stability    float64
	Difficulty   float64
	IntervalDays float64
	Lapses       int
	LastReview   *time.Time
	NextReview   time.Time
}

// tierIntervals maps a declared difficulty tier to its starting interval
var tierIntervals = map[domain.Tier]float64{
	domain.TierVeryEasy: 14,
	domain.TierEasy:     7,
	domain.TierMedium:   3,
	domain.TierHard:     1,
}

// tierSeedRatings maps a tier to the rating whose initial difficulty it
// borrows: an item declared hard starts with the difficulty of a lapse
var tierSeedRatings = map[domain.Tier]domain.Rating{
	domain.TierVeryEasy: domain.RatingEasy,
	domain.TierEasy:     domain.RatingGood,
	domain.TierMedium:   domain.RatingHard,
	domain.TierHard:     domain.RatingAgain,
}

// NewState returns the state of a freshly created card: small stability
// and difficulty, due immediately
func (p *Params) NewState(now time.Time) State {
	return State{
		Stability:  clampStability(p.W[0]),
		Difficulty: p.initDifficulty(domain.RatingGood),
		NextReview: now,
	}
}

// NewStateFromTier seeds a card from a declared difficulty tier with a
// fixed starting interval and a stability consistent with it, so the first
// real rating continues the curve instead of restarting it
func (p *Params) NewStateFromTier(tier domain.Tier, now time.Time) State {
	interval, ok := tierIntervals[tier]
	if !ok {
		return p.NewState(now)
	}
	last := now
	return State{
		Stability:    p.stabilityForInterval(interval),
		Difficulty:   p.initDifficulty(tierSeedRatings[tier]),
		IntervalDays: interval,
		LastReview:   &last,
		NextReview:   now.Add(daysToDuration(interval)),
	}
}

// Advance applies one rating at the given moment and returns the new state
// together with the history entry describing the transition. Pure and
// deterministic: same (state, rating, now) always yields the same result
func (p *Params) Advance(s State, r domain.Rating, now time.Time) (State, domain.ReviewLogEntry) {
	entry := domain.ReviewLogEntry{
		RatedAt:          now,
		Rating:           r,
		StabilityBefore:  s.Stability,
		DifficultyBefore: s.Difficulty,
	}

	next := s
	if s.LastReview == nil {
		// First exposure: no forgetting curve to consult yet
		next.Stability = p.initStability(r)
		next.Difficulty = p.initDifficulty(r)
	} else {
		elapsed := now.Sub(*s.LastReview).Hours() / 24
		if elapsed < 0 {
			elapsed = 0
		}
		retr := p.retrievability(elapsed, s.Stability)
		entry.Retrievability = retr
		next.Difficulty = p.nextDifficulty(s.Difficulty, r)
		switch {
		case elapsed < 1:
			next.Stability = p.shortTermStability(s.Stability, r)
		case r == domain.RatingAgain:
			next.Stability = p.forgetStability(s.Difficulty, s.Stability, retr)
		default:
			next.Stability = p.recallStability(s.Difficulty, s.Stability, retr, r)
		}
	}

	if r == domain.RatingAgain {
		next.Lapses = s.Lapses + 1
	}

	next.Stability = clampStability(next.Stability)
	next.Difficulty = clampDifficulty(next.Difficulty)
	next.IntervalDays = p.nextIntervalDays(next.Stability)
	last := now
	next.LastReview = &last
	next.NextReview = now.Add(daysToDuration(next.IntervalDays))

	entry.StabilityAfter = next.Stability
	entry.DifficultyAfter = next.Difficulty
	entry.IntervalDays = next.IntervalDays
	return next, entry
}

// decay is the negated trainable decay exponent
func (p *Params) decay() float64 {
	return -p.W[20]
}

// fctr is 0.9^(1/decay) - 1, the scaling constant of the power forgetting
// curve. With 90% desired retention the next interval equals the stability
func (p *Params) fctr() float64 {
	return math.Pow(0.9, 1.0/p.decay()) - 1.0
}

// retrievability computes R(t, S) = (1 + FACTOR * t / S) ^ DECAY
func (p *Params) retrievability(elapsedDays, stability float64) float64 {
	return math.Pow(1+p.fctr()*elapsedDays/stability, p.decay())
}

// initStability returns S0(G) = clamped w[G-1]
func (p *Params) initStability(r domain.Rating) float64 {
	return clampStability(p.W[r-1])
}

// initDifficulty returns D0(G) = w[4] - e^(w[5]*(G-1)) + 1, clamped to [1, 10]
func (p *Params) initDifficulty(r domain.Rating) float64 {
	return clampDifficulty(p.initDifficultyRaw(r))
}

func (p *Params) initDifficultyRaw(r domain.Rating) float64 {
	return p.W[4] - math.Exp(p.W[5]*float64(r-1)) + 1
}

// nextDifficulty applies linear damping plus mean reversion toward the
// initial difficulty of an Easy card
func (p *Params) nextDifficulty(difficulty float64, r domain.Rating) float64 {
	deltaD := -p.W[6] * (float64(r) - 3)
	damped := difficulty + (10-difficulty)*deltaD/9
	reverted := p.W[7]*p.initDifficultyRaw(domain.RatingEasy) + (1-p.W[7])*damped
	return clampDifficulty(reverted)
}

// recallStability grows stability after a successful recall. The growth
// shrinks as difficulty rises and as prior retrievability approaches 1
func (p *Params) recallStability(d, s, retr float64, r domain.Rating) float64 {
	hardPenalty := 1.0
	if r == domain.RatingHard {
		hardPenalty = p.W[15]
	}
	easyBonus := 1.0
	if r == domain.RatingEasy {
		easyBonus = p.W[16]
	}
	return s * (1 + math.Exp(p.W[8])*
		(11-d)*
		math.Pow(s, -p.W[9])*
		(math.Exp((1-retr)*p.W[10])-1)*
		hardPenalty*easyBonus)
}

// forgetStability resets stability sharply after a lapse
func (p *Params) forgetStability(d, s, retr float64) float64 {
	long := p.W[11] *
		math.Pow(d, -p.W[12]) *
		(math.Pow(s+1, p.W[13]) - 1) *
		math.Exp((1-retr)*p.W[14])
	short := s / math.Exp(p.W[17]*p.W[18])
	return math.Min(long, short)
}

// shortTermStability handles a re-rating within the same day, where the
// long-term curve would overreact
func (p *Params) shortTermStability(s float64, r domain.Rating) float64 {
	sInc := math.Exp(p.W[17]*(float64(r)-3+p.W[18])) * math.Pow(s, -p.W[19])
	if r == domain.RatingGood || r == domain.RatingEasy {
		sInc = math.Max(sInc, 1.0)
	}
	return s * sInc
}

// nextIntervalDays derives the interval at which retrievability will have
// decayed to the desired retention, clamped to the configured limits
func (p *Params) nextIntervalDays(stability float64) float64 {
	ivl := stability / p.fctr() * (math.Pow(p.DesiredRetention, 1.0/p.decay()) - 1)
	if math.IsNaN(ivl) || math.IsInf(ivl, 0) || ivl < p.MinIntervalDays {
		return p.MinIntervalDays
	}
	if ivl > p.MaxIntervalDays {
		return p.MaxIntervalDays
	}
	return ivl
}

// stabilityForInterval inverts the interval formula: the stability at
// which the desired retention is reached after exactly the given interval
func (p *Params) stabilityForInterval(intervalDays float64) float64 {
	return clampStability(intervalDays * p.fctr() /
		(math.Pow(p.DesiredRetention, 1.0/p.decay()) - 1))
}

// clampStability keeps stability positive and finite
func clampStability(s float64) float64 {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return minStability
	}
	return math.Max(s, minStability)
}

// clampDifficulty keeps difficulty within [1, 10]
func clampDifficulty(d float64) float64 {
	if math.IsNaN(d) {
		return 1
	}
	return math.Min(math.Max(d, 1), 10)
}

func daysToDuration(days float64) time.Duration {
	return time.Duration(days * 24 * float64(time.Hour))
}
