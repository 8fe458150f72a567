// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-recwars/pkg/entity"
	"github.com/opd-ai/go-recwars/pkg/physics"
)

// Type represents the type of event
type Type string

// Gameplay event types
const (
	PlayerJoined     Type = "player_joined"
	PlayerLeft       Type = "player_left"
	VehicleSpawned   Type = "vehicle_spawned"
	VehicleDestroyed Type = "vehicle_destroyed"
	ProjectileFired  Type = "projectile_fired"
	ProjectileImpact Type = "projectile_impact"
	RailgunFired     Type = "railgun_fired"
	ControlChanged   Type = "control_changed"
	WeaponReloaded   Type = "weapon_reloaded"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() any
	GetFrame() uint64
	GetTime() float64
	Stamp(frame uint64, gameTime float64)
}

// BaseEvent provides common functionality for all events. Frame and Time
// are the simulation clock when the event was raised.
type BaseEvent struct {
	EventType Type
	Source    any
	Frame     uint64
	Time      float64
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() any {
	return e.Source
}

// GetFrame returns the frame the event was raised in
func (e *BaseEvent) GetFrame() uint64 {
	return e.Frame
}

// GetTime returns the game time the event was raised at
func (e *BaseEvent) GetTime() float64 {
	return e.Time
}

// Stamp records the simulation clock on the event
func (e *BaseEvent) Stamp(frame uint64, gameTime float64) {
	e.Frame = frame
	e.Time = gameTime
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler. Cancel removes it.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]registration
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registration),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.Unsubscribe(eventType, id) },
	}
}

// Unsubscribe removes the handler registered under id
func (b *Bus) Unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[eventType]
	for i, r := range regs {
		if r.id == id {
			b.handlers[eventType] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers in subscription order.
// Handlers run on the caller's goroutine and may subscribe or unsubscribe.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	regs := append([]registration(nil), b.handlers[event.GetType()]...)
	b.mu.RUnlock()

	for _, r := range regs {
		r.handler(event)
	}
}

// Queue collects events raised while a frame is being computed so they
// can be published once the frame is complete.
type Queue struct {
	events []Event
}

// Push appends e.
func (q *Queue) Push(e Event) {
	q.events = append(q.events, e)
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	return len(q.events)
}

// Flush publishes pending events in order on bus and empties the queue.
// A nil bus just drops them.
func (q *Queue) Flush(bus *Bus) int {
	events := q.events
	q.events = nil
	if bus != nil {
		for _, e := range events {
			bus.Publish(e)
		}
	}
	return len(events)
}

// Specific event implementations

// PlayerEvent is raised when a player joins or leaves
type PlayerEvent struct {
	BaseEvent
	Player entity.Handle
	Name   string
}

// NewPlayerEvent creates a new player event
func NewPlayerEvent(eventType Type, source any, player entity.Handle, name string) *PlayerEvent {
	return &PlayerEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		Player:    player,
		Name:      name,
	}
}

// VehicleEvent contains information about vehicle spawns and destructions
type VehicleEvent struct {
	BaseEvent
	Vehicle entity.Handle
	Player  entity.Handle
	Kind    entity.VehicleKind
	Pos     physics.Vector2D
}

// NewVehicleEvent creates a new vehicle event
func NewVehicleEvent(eventType Type, source any, vehicle, player entity.Handle, kind entity.VehicleKind, pos physics.Vector2D) *VehicleEvent {
	return &VehicleEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		Vehicle:   vehicle,
		Player:    player,
		Kind:      kind,
		Pos:       pos,
	}
}

// ShotEvent describes a weapon discharge or a projectile impact. Projectile
// is nil for beam weapons.
type ShotEvent struct {
	BaseEvent
	Weapon     entity.Weapon
	Projectile entity.Handle
	Owner      entity.Handle
	Pos        physics.Vector2D
}

// NewShotEvent creates a new shot event
func NewShotEvent(eventType Type, source any, w entity.Weapon, projectile, owner entity.Handle, pos physics.Vector2D) *ShotEvent {
	return &ShotEvent{
		BaseEvent:  BaseEvent{EventType: eventType, Source: source},
		Weapon:     w,
		Projectile: projectile,
		Owner:      owner,
		Pos:        pos,
	}
}

// ControlEvent is raised when a player's input moves between their vehicle
// and a guided missile.
type ControlEvent struct {
	BaseEvent
	Player  entity.Handle
	Control entity.Control
	Missile entity.Handle
}

// NewControlEvent creates a new control event
func NewControlEvent(source any, player entity.Handle, control entity.Control, missile entity.Handle) *ControlEvent {
	return &ControlEvent{
		BaseEvent: BaseEvent{EventType: ControlChanged, Source: source},
		Player:    player,
		Control:   control,
		Missile:   missile,
	}
}

// ReloadEvent is raised when a weapon slot finishes reloading
type ReloadEvent struct {
	BaseEvent
	Vehicle entity.Handle
	Weapon  entity.Weapon
}

// NewReloadEvent creates a new reload event
func NewReloadEvent(source any, vehicle entity.Handle, w entity.Weapon) *ReloadEvent {
	return &ReloadEvent{
		BaseEvent: BaseEvent{EventType: WeaponReloaded, Source: source},
		Vehicle:   vehicle,
		Weapon:    w,
	}
}
