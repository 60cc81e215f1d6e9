package fx

import (
	"log"
	"math/rand/v2"
	"slices"

	"github.com/lixenwraith/canvas-fx/audio"
	"github.com/lixenwraith/canvas-fx/engine"
	"github.com/lixenwraith/canvas-fx/physics"
	"github.com/lixenwraith/canvas-fx/render"
)

// Options configures a Dispatcher
type Options struct {
	// Identity is matched against a request's "users" allow-list
	Identity string
	// Player receives audio requests; nil discards them
	Player audio.Player
	// Seed fixes the random source; zero seeds from the runtime
	Seed uint64
}

// Dispatcher owns the scene, the particle store, the loop and every effect timer
// All methods except construction run on the scheduler goroutine
type Dispatcher struct {
	sched *engine.Scheduler
	scene *render.Scene
	store *physics.Store
	loop  *engine.Loop

	player   audio.Player
	identity string
	rng      *rand.Rand

	// Timers per effect kind; a new request of a kind cancels its predecessor's
	shakeTasks     engine.TaskGroup
	coverTasks     engine.TaskGroup
	textTasks      engine.TaskGroup
	letterboxTasks engine.TaskGroup
	flashTasks     engine.TaskGroup
	curtainTasks   engine.TaskGroup
	filterTasks    engine.TaskGroup

	dispatched uint64
}

// NewDispatcher creates a dispatcher painting into scene, with timers on sched
func NewDispatcher(sched *engine.Scheduler, scene *render.Scene, opts Options) *Dispatcher {
	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	player := opts.Player
	if player == nil {
		player = audio.NopPlayer{}
	}

	store := physics.NewStore()
	return &Dispatcher{
		sched:    sched,
		scene:    scene,
		store:    store,
		loop:     engine.NewLoop(sched, store, scene),
		player:   player,
		identity: opts.Identity,
		rng:      rng,
	}
}

// Scene returns the scene the dispatcher paints into
func (d *Dispatcher) Scene() *render.Scene {
	return d.scene
}

// Store returns the particle store
func (d *Dispatcher) Store() *physics.Store {
	return d.store
}

// Loop returns the particle loop
func (d *Dispatcher) Loop() *engine.Loop {
	return d.loop
}

// Dispatched returns the number of requests that reached a handler
func (d *Dispatcher) Dispatched() uint64 {
	return d.dispatched
}

// Accepts reports whether the local identity passes the payload's allow-list
// An absent or empty list accepts everyone
func (d *Dispatcher) Accepts(p Payload) bool {
	users := p.Strings(KeyUsers)
	return len(users) == 0 || slices.Contains(users, d.identity)
}

// Dispatch executes one effect request locally
// Requests filtered by the allow-list and invalid actions are no-ops; handler panics are logged
func (d *Dispatcher) Dispatch(a Action, p Payload) {
	if !a.Valid() {
		log.Printf("fx: ignoring action %d", a)
		return
	}
	if p == nil {
		p = Payload{}
	}
	if !d.Accepts(p) {
		return
	}

	d.scene.Init()

	if src := p.String(KeyAudio, ""); src != "" && a != ActionBorder {
		d.player.Play(src, p.Or(KeyVolume, audio.DefaultVolume))
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("fx: error executing %s: %v", a, r)
		}
	}()
	d.dispatched++
	handlers[a](d, p)
}

// Execute resolves a wire action name and dispatches it
func (d *Dispatcher) Execute(name string, p Payload) error {
	a, ok := ParseAction(name)
	if !ok {
		log.Printf("fx: ignoring unknown action %q", name)
		return ErrUnknownAction
	}
	d.Dispatch(a, p)
	return nil
}

// Close stops all effects and timers
func (d *Dispatcher) Close() {
	d.clear()
}

func (d *Dispatcher) random() float64 {
	return d.rng.Float64()
}
