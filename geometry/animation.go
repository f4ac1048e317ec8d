package geometry

import (
	math "render-engine/math"
	"render-engine/scene"
)

// evaluateSampler finds the keyframe segment bracketing t and interpolates
// the sampler, returning its value at t (a translation or scale triple, or
// a rotation quaternion) (spec.md §4.2). ok is false if the sampler's
// timeline is empty.
func evaluateSampler(s *scene.AnimationSampler, t float32) (values [4]float32, ok bool) {
	n := len(s.Timeline)
	if n == 0 {
		return values, false
	}
	k := 4
	if s.Interpolate == scene.InterpolateLinear {
		k = len(s.Values) / n
	}

	if t <= s.Timeline[0] {
		copy(values[:k], s.Values[:k])
		return values, true
	}
	if t >= s.Timeline[n-1] {
		copy(values[:k], s.Values[(n-1)*k:n*k])
		return values, true
	}

	i := 1
	for i < n && s.Timeline[i] < t {
		i++
	}
	t0, t1 := s.Timeline[i-1], s.Timeline[i]
	alpha := float32(0)
	if t1 > t0 {
		alpha = (t - t0) / (t1 - t0)
	}

	v0 := s.Values[(i-1)*k : i*k]
	v1 := s.Values[i*k : (i+1)*k]

	if s.Interpolate == scene.InterpolateSlerp && k == 4 {
		q0 := math.Quaternion{X: v0[0], Y: v0[1], Z: v0[2], W: v0[3]}
		q1 := math.Quaternion{X: v1[0], Y: v1[1], Z: v1[2], W: v1[3]}
		q := q0.Slerp(q1, alpha)
		values = [4]float32{q.X, q.Y, q.Z, q.W}
		return values, true
	}

	for c := 0; c < k; c++ {
		values[c] = v0[c] + (v1[c]-v0[c])*alpha
	}
	return values, true
}

// animatedMatrix composes M_anim = T · R · S from the channels targeting
// node i at time t (spec.md §4.2). Returns identity if no channel targets
// the node, per the corrected (non-buggy) Open-Question resolution.
func animatedMatrix(anim *scene.Animation, node scene.NodeIndex, t float32) math.Mat4 {
	if anim == nil {
		return math.Mat4Identity()
	}

	translation := math.Vec3{}
	scaleVec := math.Vec3{X: 1, Y: 1, Z: 1}
	rotation := math.Quaternion{W: 1}
	animated := false

	for _, ch := range anim.Channels {
		if ch.TargetNode != node {
			continue
		}
		sampler := &anim.Samplers[ch.Sampler]
		values, ok := evaluateSampler(sampler, t)
		if !ok {
			continue
		}
		animated = true
		switch ch.TargetPath {
		case scene.TargetTranslation:
			translation = math.Vec3{X: values[0], Y: values[1], Z: values[2]}
		case scene.TargetScale:
			scaleVec = math.Vec3{X: values[0], Y: values[1], Z: values[2]}
		case scene.TargetRotation:
			rotation = math.Quaternion{X: values[0], Y: values[1], Z: values[2], W: values[3]}
		}
	}

	if !animated {
		return math.Mat4Identity()
	}

	T := math.Mat4Translation(translation)
	R := rotation.ToMat4()
	S := math.Mat4Scale(scaleVec)
	// Mat4.Mul applies its receiver first (row vectors), so S·R·T in call
	// order yields the scale-then-rotate-then-translate matrix T · R · S.
	return S.Mul(R).Mul(T)
}

// wrapTime folds t into [0, timelineMax) for cyclic playback (spec.md §8
// property 8). A nil or zero-length animation yields t unchanged (identity
// time).
func wrapTime(anim *scene.Animation, t float32) float32 {
	if anim == nil || anim.TimelineMax <= 0 {
		return t
	}
	m := anim.TimelineMax
	r := t - m*float32(int(t/m))
	if r < 0 {
		r += m
	}
	return r
}
