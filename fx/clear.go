package fx

import "log"

func (d *Dispatcher) clearRequest(Payload) {
	d.clear()
	log.Printf("fx: cleared all effects")
}

// clear stops the loop and every timer, drops all particles and resets every layer and transform
func (d *Dispatcher) clear() {
	d.loop.Stop()

	d.shakeTasks.Cancel()
	d.coverTasks.Cancel()
	d.textTasks.Cancel()
	d.letterboxTasks.Cancel()
	d.flashTasks.Cancel()
	d.curtainTasks.Cancel()
	d.filterTasks.Cancel()

	d.store.Clear(d.scene)
	d.scene.Reset()
}
