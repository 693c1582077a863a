package main

// rampSegment is a linear ramp from v0 at t0 to v1 at t1 (seconds).
type rampSegment struct {
	t0, v0 float64
	t1, v1 float64
}

// automatedParam is a gain value driven by scheduled linear ramps. It keeps an
// explicit list of pending segments instead of relying on a backend's
// automation queue.
type automatedParam struct {
	hold     float64 // value before the first segment and after the last
	holdFrom float64
	segments []rampSegment
}

func newAutomatedParam(v float64) *automatedParam {
	return &automatedParam{hold: v}
}

// valueAt evaluates the parameter at time t.
func (p *automatedParam) valueAt(t float64) float64 {
	if len(p.segments) == 0 || t < p.segments[0].t0 {
		return p.hold
	}
	for _, s := range p.segments {
		if t < s.t1 {
			if s.t1 <= s.t0 {
				return s.v1
			}
			return s.v0 + (s.v1-s.v0)*(t-s.t0)/(s.t1-s.t0)
		}
	}
	return p.segments[len(p.segments)-1].v1
}

// cancelAndHold drops every pending ramp and freezes the value it had at t.
func (p *automatedParam) cancelAndHold(t float64) float64 {
	v := p.valueAt(t)
	p.hold, p.holdFrom = v, t
	p.segments = p.segments[:0]
	return v
}

// rampTo appends a linear ramp ending at (t, v), starting where the schedule
// currently ends.
func (p *automatedParam) rampTo(v, t float64) {
	t0, v0 := p.holdFrom, p.hold
	if n := len(p.segments); n > 0 {
		t0, v0 = p.segments[n-1].t1, p.segments[n-1].v1
	}
	if t < t0 {
		t = t0
	}
	p.segments = append(p.segments, rampSegment{t0: t0, v0: v0, t1: t, v1: v})
}

// trigger restarts the envelope at now from the current value: attack up to
// peak, then release to silence. Any in-flight envelope is cancelled first.
func (p *automatedParam) trigger(now float64, v vocalization) {
	p.cancelAndHold(now)
	p.rampTo(v.peak, now+v.attack)
	p.rampTo(0, now+v.attack+v.release)
}
