package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signal/internal/types"
)

type wilderState struct {
	count int // defined inputs absorbed into the seed so far
	sum   float64
	value float64
}

func (s wilderState) seeded(period int) bool {
	return s.count >= period
}

// WilderSmooth applies Wilder's smoothing, S = S + (x - S)/period, seeded by
// the mean of the first period defined inputs. Undefined inputs leave the
// state untouched and produce an undefined output. When emitSeed is false
// the bar completing the seed is also reported as undefined, so the first
// output needs period prior inputs.
func WilderSmooth(values []types.Value, period int, emitSeed bool) []types.Value {
	if period <= 0 {
		return make([]types.Value, len(values))
	}

	w := float64(period)

	out, _ := Scan(values, wilderState{}, func(s wilderState, in types.Value) (wilderState, types.Value) {
		if in.IsNone() {
			return s, optional.None[float64]()
		}

		x := in.Unwrap()

		if !s.seeded(period) {
			s.count++
			s.sum += x

			if !s.seeded(period) {
				return s, optional.None[float64]()
			}

			s.value = s.sum / w
			if !emitSeed {
				return s, optional.None[float64]()
			}

			return s, optional.Some(s.value)
		}

		s.value += (x - s.value) / w

		return s, optional.Some(s.value)
	})

	return out
}
