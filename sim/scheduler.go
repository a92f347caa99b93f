package sim

// Tick is the timing passed to systems.
type Tick struct {
	Now   float64
	Dt    float64
	Index int64
}

// System updates once per tick.
type System interface {
	Update(t Tick)
}

// SystemFunc adapts a function to System.
type SystemFunc func(t Tick)

func (f SystemFunc) Update(t Tick) { f(t) }

// Scheduler runs systems in insertion order.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(t Tick) {
	for _, system := range s.systems {
		system.Update(t)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
