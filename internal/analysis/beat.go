package analysis

// BeatParams tunes the adaptive beat threshold.
type BeatParams struct {
	Threshold float64 `yaml:"threshold"` // initial threshold after a reset
	Decay     float64 `yaml:"decay"`     // per-frame multiplicative decay when no beat fires
	Floor     float64 `yaml:"floor"`     // lower bound for the threshold
	Jump      float64 `yaml:"jump"`      // threshold = energy * Jump after a beat
}

// DefaultBeatParams returns the tuning used for kick detection on the bass band.
func DefaultBeatParams() BeatParams {
	return BeatParams{
		Threshold: 0.5,
		Decay:     0.90,
		Floor:     0.4,
		Jump:      1.1,
	}
}

// BeatState is the detector state carried between frames of one session.
type BeatState struct {
	Threshold  float64
	LastEnergy float64
}

// NewBeatState returns the state a session starts with.
func NewBeatState(p BeatParams) BeatState {
	return BeatState{Threshold: p.Threshold}
}

// Detect runs one step of the detector. A beat fires when bass is above both
// the threshold and the previous frame's energy; the threshold then jumps above
// the peak so the same or a lower peak cannot re-trigger. Otherwise the
// threshold decays toward the floor.
func Detect(bass float64, s BeatState, p BeatParams) (bool, BeatState) {
	isBeat := bass > s.Threshold && bass > s.LastEnergy
	if isBeat {
		s.Threshold = bass * p.Jump
	} else {
		s.Threshold *= p.Decay
		if s.Threshold < p.Floor {
			s.Threshold = p.Floor
		}
	}
	s.LastEnergy = bass
	return isBeat, s
}
