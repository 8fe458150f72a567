package entity

// Renderer draws one frame of simulation state. Implementations must treat
// every argument as read-only.
type Renderer interface {
	RenderVehicle(h Handle, vehicle *Vehicle)
	RenderProjectile(h Handle, projectile *Projectile)
	RenderExplosion(explosion *Explosion, progress float64)
	RenderBeam(kind BeamKind, beam Beam)
	Clear()
	Present()
}
