// pkg/event/event_test.go
package event

import (
	"sync"
	"testing"

	"github.com/opd-ai/go-recwars/pkg/entity"
	"github.com/opd-ai/go-recwars/pkg/physics"
)

func TestNewEventBus_Creation_ReturnsInitializedBus(t *testing.T) {
	bus := NewEventBus()

	if bus == nil {
		t.Fatal("NewEventBus() returned nil")
	}
	if bus.handlers == nil {
		t.Error("handlers map not initialized")
	}
	if bus.nextID != 1 {
		t.Errorf("expected nextID to be 1, got %d", bus.nextID)
	}
}

func TestBaseEvent_GetType_ReturnsCorrectType(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		source    any
	}{
		{"VehicleSpawned event", VehicleSpawned, "game"},
		{"ProjectileImpact event", ProjectileImpact, 123},
		{"Empty source", PlayerJoined, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &BaseEvent{EventType: tt.eventType, Source: tt.source}
			if e.GetType() != tt.eventType {
				t.Errorf("GetType() = %v, want %v", e.GetType(), tt.eventType)
			}
			if e.GetSource() != tt.source {
				t.Errorf("GetSource() = %v, want %v", e.GetSource(), tt.source)
			}
		})
	}
}

func TestBusSubscribe_MultipleHandlers_UniqueIDs(t *testing.T) {
	bus := NewEventBus()

	sub1 := bus.Subscribe(VehicleSpawned, func(Event) {})
	sub2 := bus.Subscribe(VehicleSpawned, func(Event) {})
	sub3 := bus.Subscribe(VehicleDestroyed, func(Event) {})

	if sub1.ID == 0 || sub1.Cancel == nil {
		t.Fatalf("invalid subscription %+v", sub1)
	}
	if sub1.ID == sub2.ID || sub2.ID == sub3.ID {
		t.Error("subscriptions should have unique IDs")
	}

	bus.mu.RLock()
	defer bus.mu.RUnlock()
	if got := len(bus.handlers[VehicleSpawned]); got != 2 {
		t.Errorf("expected 2 VehicleSpawned handlers, got %d", got)
	}
	if got := len(bus.handlers[VehicleDestroyed]); got != 1 {
		t.Errorf("expected 1 VehicleDestroyed handler, got %d", got)
	}
}

func TestBusPublish_WithSubscribers_CallsHandlersInOrder(t *testing.T) {
	bus := NewEventBus()
	var order []int

	bus.Subscribe(ProjectileFired, func(Event) { order = append(order, 1) })
	bus.Subscribe(ProjectileFired, func(Event) { order = append(order, 2) })
	bus.Subscribe(ProjectileImpact, func(Event) { order = append(order, 99) })

	bus.Publish(&BaseEvent{EventType: ProjectileFired})

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("handler calls = %v, want [1 2]", order)
	}
}

func TestBusPublish_NoSubscribers_NoError(t *testing.T) {
	bus := NewEventBus()
	// must not panic
	bus.Publish(&BaseEvent{EventType: RailgunFired})
}

func TestSubscriptionCancel_RemovesOnlyThatHandler(t *testing.T) {
	bus := NewEventBus()
	var first, second int

	sub := bus.Subscribe(ControlChanged, func(Event) { first++ })
	bus.Subscribe(ControlChanged, func(Event) { second++ })

	bus.Publish(&BaseEvent{EventType: ControlChanged})
	sub.Cancel()
	bus.Publish(&BaseEvent{EventType: ControlChanged})

	if first != 1 {
		t.Errorf("cancelled handler called %d times, want 1", first)
	}
	if second != 2 {
		t.Errorf("remaining handler called %d times, want 2", second)
	}

	// cancelling twice is harmless
	sub.Cancel()
}

func TestBusPublish_HandlerCancelsItself(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	var sub *Subscription
	sub = bus.Subscribe(WeaponReloaded, func(Event) {
		calls++
		sub.Cancel()
	})

	bus.Publish(&BaseEvent{EventType: WeaponReloaded})
	bus.Publish(&BaseEvent{EventType: WeaponReloaded})

	if calls != 1 {
		t.Errorf("self-cancelling handler called %d times, want 1", calls)
	}
}

func TestBus_ConcurrentSubscribeAndPublish_ThreadSafe(t *testing.T) {
	bus := NewEventBus()
	var wg sync.WaitGroup
	var mu sync.Mutex
	received := 0

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Subscribe(PlayerJoined, func(Event) {
				mu.Lock()
				received++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(&BaseEvent{EventType: PlayerJoined})
		}()
	}
	wg.Wait()

	if received != 50 {
		t.Errorf("received %d deliveries, want 50", received)
	}
}

func TestQueue_FlushPublishesInOrder(t *testing.T) {
	bus := NewEventBus()
	var got []Type
	record := func(e Event) { got = append(got, e.GetType()) }
	bus.Subscribe(VehicleSpawned, record)
	bus.Subscribe(VehicleDestroyed, record)

	var q Queue
	q.Push(&BaseEvent{EventType: VehicleDestroyed})
	q.Push(&BaseEvent{EventType: VehicleSpawned})

	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
	if len(got) != 0 {
		t.Error("events delivered before Flush")
	}

	if n := q.Flush(bus); n != 2 {
		t.Errorf("Flush() = %d, want 2", n)
	}
	if len(got) != 2 || got[0] != VehicleDestroyed || got[1] != VehicleSpawned {
		t.Errorf("delivery order = %v", got)
	}
	if q.Len() != 0 {
		t.Errorf("queue not empty after Flush: %d", q.Len())
	}

	q.Push(&BaseEvent{EventType: VehicleSpawned})
	if n := q.Flush(nil); n != 1 {
		t.Errorf("Flush(nil) = %d, want 1", n)
	}
}

func TestNewVehicleEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	v := entity.Handle{Index: 3, Generation: 2}
	p := entity.Handle{Index: 0, Generation: 1}
	pos := physics.Vector2D{X: 10, Y: 20}

	e := NewVehicleEvent(VehicleDestroyed, "game", v, p, entity.Hummer, pos)

	if e.GetType() != VehicleDestroyed {
		t.Errorf("GetType() = %v, want %v", e.GetType(), VehicleDestroyed)
	}
	if e.Vehicle != v || e.Player != p {
		t.Errorf("handles = %v/%v, want %v/%v", e.Vehicle, e.Player, v, p)
	}
	if e.Kind != entity.Hummer {
		t.Errorf("Kind = %v, want hummer", e.Kind)
	}
	if e.Pos != pos {
		t.Errorf("Pos = %v, want %v", e.Pos, pos)
	}
}

func TestNewShotEvent_BeamHasNoProjectile(t *testing.T) {
	owner := entity.Handle{Index: 1, Generation: 1}
	e := NewShotEvent(RailgunFired, nil, entity.Railgun, entity.Handle{}, owner, physics.Vector2D{X: 500})

	if !e.Projectile.IsNil() {
		t.Errorf("Projectile = %v, want none", e.Projectile)
	}
	if e.Weapon != entity.Railgun {
		t.Errorf("Weapon = %v, want railgun", e.Weapon)
	}
}

func TestNewControlAndReloadEvents(t *testing.T) {
	player := entity.Handle{Index: 0, Generation: 1}
	missile := entity.Handle{Index: 4, Generation: 1}

	c := NewControlEvent(nil, player, entity.ControllingGuidedMissile, missile)
	if c.GetType() != ControlChanged {
		t.Errorf("GetType() = %v, want %v", c.GetType(), ControlChanged)
	}
	if c.Control != entity.ControllingGuidedMissile || c.Missile != missile {
		t.Errorf("control event = %+v", c)
	}

	r := NewReloadEvent(nil, entity.Handle{Index: 2, Generation: 1}, entity.Rockets)
	if r.GetType() != WeaponReloaded || r.Weapon != entity.Rockets {
		t.Errorf("reload event = %+v", r)
	}

	pe := NewPlayerEvent(PlayerLeft, nil, player, "p0")
	if pe.GetType() != PlayerLeft || pe.Name != "p0" {
		t.Errorf("player event = %+v", pe)
	}
}

func TestBaseEvent_Stamp(t *testing.T) {
	var e Event = NewPlayerEvent(PlayerJoined, nil, entity.Handle{}, "p0")
	if e.GetFrame() != 0 || e.GetTime() != 0 {
		t.Errorf("fresh event clock = %d/%v, want zero", e.GetFrame(), e.GetTime())
	}

	e.Stamp(42, 0.7)
	if e.GetFrame() != 42 {
		t.Errorf("GetFrame() = %d, want 42", e.GetFrame())
	}
	if e.GetTime() != 0.7 {
		t.Errorf("GetTime() = %v, want 0.7", e.GetTime())
	}
}
