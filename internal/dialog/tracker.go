package dialog

import "sync"

const shardCount = 32

type entry struct {
	mu    sync.Mutex // held for the whole of one event
	refs  int        // guarded by shard.mu
	state State      // guarded by mu, or by shard.mu once refs is 0
}

type shard struct {
	mu sync.Mutex
	m  map[int64]*entry
}

// Tracker holds one State per user in process memory. A restart resets
// everyone to StepNone.
//
// Users are spread over shards so unrelated users never contend on the same
// map lock; each user additionally has its own mutex, taken by Acquire, that
// serializes whole read-modify-write cycles.
type Tracker struct {
	shards [shardCount]shard
}

func NewTracker() *Tracker {
	t := &Tracker{}
	for i := range t.shards {
		t.shards[i].m = make(map[int64]*entry)
	}
	return t
}

func (t *Tracker) shardFor(userID int64) *shard {
	return &t.shards[uint64(userID)%shardCount]
}

// Session is exclusive access to one user's state. Release must be called.
type Session struct {
	t      *Tracker
	userID int64
	e      *entry
}

// Acquire blocks until no other Session for userID is live.
func (t *Tracker) Acquire(userID int64) *Session {
	sh := t.shardFor(userID)
	sh.mu.Lock()
	e, ok := sh.m[userID]
	if !ok {
		e = &entry{}
		sh.m[userID] = e
	}
	e.refs++
	sh.mu.Unlock()

	e.mu.Lock()
	return &Session{t: t, userID: userID, e: e}
}

func (s *Session) UserID() int64 { return s.userID }

// State returns a copy; mutating it does not affect the tracker.
func (s *Session) State() State { return s.e.state.clone() }

// Set replaces the state entirely.
func (s *Session) Set(st State) { s.e.state = st.clone() }

func (s *Session) Clear() { s.e.state = State{} }

// Release unlocks the user and drops idle entries so abandoned users with no
// pending dialogue do not accumulate.
func (s *Session) Release() {
	if s.e == nil {
		return
	}
	s.e.mu.Unlock()

	sh := s.t.shardFor(s.userID)
	sh.mu.Lock()
	s.e.refs--
	// refs == 0 under shard.mu means nobody holds or waits on e.mu.
	if s.e.refs == 0 && s.e.state.Idle() {
		delete(sh.m, s.userID)
	}
	sh.mu.Unlock()
	s.e = nil
}

// Get returns the user's state, StepNone if absent.
func (t *Tracker) Get(userID int64) State {
	s := t.Acquire(userID)
	defer s.Release()
	return s.State()
}

func (t *Tracker) Set(userID int64, st State) {
	s := t.Acquire(userID)
	defer s.Release()
	s.Set(st)
}

func (t *Tracker) Clear(userID int64) {
	s := t.Acquire(userID)
	defer s.Release()
	s.Clear()
}

// Len reports how many users currently have an entry.
func (t *Tracker) Len() int {
	n := 0
	for i := range t.shards {
		sh := &t.shards[i]
		sh.mu.Lock()
		n += len(sh.m)
		sh.mu.Unlock()
	}
	return n
}
