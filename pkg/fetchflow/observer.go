package fetchflow

// subscriberBuffer is the channel depth given to each observer. Sends never
// block the state machine; a full channel drops the update, so slow observers
// may miss intermediate states but always receive a later one.
const subscriberBuffer = 16

// Subscribe registers an observer that receives a snapshot after every state
// commit. The returned cancel function unregisters the observer and closes
// its channel; it is safe to call more than once.
func (o *Orchestrator[T]) Subscribe() (<-chan Snapshot[T], func()) {
	o.mu.Lock()
	id := o.nextSub
	o.nextSub++
	ch := make(chan Snapshot[T], subscriberBuffer)
	o.subs[id] = ch
	o.mu.Unlock()

	cancel := func() {
		o.mu.Lock()
		if c, ok := o.subs[id]; ok {
			delete(o.subs, id)
			close(c)
		}
		o.mu.Unlock()
	}
	return ch, cancel
}

// notifyLocked fans the current snapshot out to every subscriber. The caller
// must hold o.mu.
func (o *Orchestrator[T]) notifyLocked() {
	if len(o.subs) == 0 {
		return
	}
	snap := o.snapshotLocked()
	for _, ch := range o.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
