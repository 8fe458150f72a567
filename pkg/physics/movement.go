// pkg/physics/movement.go
package physics

import "math"

// MovementStats parameterizes the shared movement model. Vehicles and
// steerable missiles use the same integration with different numbers.
type MovementStats struct {
	TurnRateIncrease       float64 `json:"turnRateIncrease" mapstructure:"turnRateIncrease"`
	TurnRateFrictionConst  float64 `json:"turnRateFrictionConst" mapstructure:"turnRateFrictionConst"`
	TurnRateFrictionLinear float64 `json:"turnRateFrictionLinear" mapstructure:"turnRateFrictionLinear"`
	TurnRateMax            float64 `json:"turnRateMax" mapstructure:"turnRateMax"`
	TurnEffectiveness      float64 `json:"turnEffectiveness" mapstructure:"turnEffectiveness"`
	// SteeringCar is the speed below which steering loses effect.
	// Zero disables car steering so the body turns in place.
	SteeringCar    float64 `json:"steeringCar" mapstructure:"steeringCar"`
	AccelForward   float64 `json:"accelForward" mapstructure:"accelForward"`
	AccelBackward  float64 `json:"accelBackward" mapstructure:"accelBackward"`
	FrictionConst  float64 `json:"frictionConst" mapstructure:"frictionConst"`
	FrictionLinear float64 `json:"frictionLinear" mapstructure:"frictionLinear"`
	SpeedMax       float64 `json:"speedMax" mapstructure:"speedMax"`
}

// Turning integrates the turn rate for one step and returns the candidate
// facing angle, wrapped into [0, 2π). steer is right minus left input.
// The velocity is partially rotated along with the turn; the angle itself is
// left to the caller so it can reject the turn on collision.
func Turning(stats MovementStats, vel *Vector2D, angle float64, turnRate *float64, steer, dt float64) float64 {
	tr := *turnRate + steer*stats.TurnRateIncrease*dt

	fricConst := stats.TurnRateFrictionConst * dt
	if tr >= 0 {
		tr = math.Max(tr-fricConst, 0)
	} else {
		tr = math.Min(tr+fricConst, 0)
	}

	tr *= math.Pow(1-stats.TurnRateFrictionLinear, dt)
	tr = Clamp(tr, -stats.TurnRateMax, stats.TurnRateMax)
	*turnRate = tr

	turn := tr * dt * steeringCoef(stats, *vel, angle)
	*vel = vel.Rotate(turn * stats.TurnEffectiveness)

	return WrapAngle(angle + turn)
}

// steeringCoef makes car-like bodies unable to turn at a standstill and
// reverses steering while moving backwards.
func steeringCoef(stats MovementStats, vel Vector2D, angle float64) float64 {
	if stats.SteeringCar <= 0 {
		return 1
	}
	sign := Signum(UnitFromAngle(angle).Dot(vel))
	speed := Clamp(vel.Length(), -stats.SteeringCar, stats.SteeringCar)
	return speed * sign / stats.SteeringCar
}

// AccelDecel applies throttle along angle, then constant and linear friction,
// then the speed cap. up and down are 0 or 1.
func AccelDecel(stats MovementStats, vel *Vector2D, angle, up, down, dt float64) {
	change := (up*stats.AccelForward - down*stats.AccelBackward) * dt
	v := vel.Add(UnitFromAngle(angle).Scale(change))

	// constant friction never reverses the direction of travel
	dir := v.Normalize()
	v = v.Sub(dir.Scale(math.Min(stats.FrictionConst*dt, v.Length())))

	v = v.Scale(math.Pow(1-stats.FrictionLinear, dt))
	if v.LengthSquared() > stats.SpeedMax*stats.SpeedMax {
		v = dir.Scale(stats.SpeedMax)
	}
	*vel = v
}
