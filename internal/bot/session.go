package bot

import (
	"sync"
	"time"

	"github.com/HimanshuSingh-966/PayLog/internal/core"
	"github.com/shopspring/decimal"
)

// DefaultSessionTTL is how long an idle dialogue survives before the next
// message starts fresh.
const DefaultSessionTTL = 30 * time.Minute

// waitingFor tags. Each names the field the engine expects next.
const (
	stateAmount            = "amount"
	stateDescription       = "description"
	statePersonName        = "person_name"
	stateLendAmount        = "lend_amount"
	stateLendDescription   = "lend_description"
	stateReturnPerson      = "return_person"
	stateReturnAmount      = "return_amount"
	stateReturnDestination = "return_destination"
	stateGoalDetails       = "goal_details"
	stateBatch             = "batch_transactions"
)

// Session is one user's in-flight dialogue: the state tag plus whatever
// fields earlier replies have filled in. Sessions live in memory only.
type Session struct {
	WaitingFor   string
	Action       string // "add" or "subtract"
	Wallet       core.Wallet
	Amount       decimal.Decimal
	Person       string
	ReturnPerson string
	ReturnAmount decimal.Decimal

	touched time.Time
}

// Sessions stores dialogues keyed by user id. Two users never share a
// session; two rapid messages from the same user are last-write-wins.
type Sessions struct {
	mu  sync.Mutex
	m   map[string]*Session
	ttl time.Duration
	now func() time.Time
}

// NewSessions builds the store. ttl == 0 means DefaultSessionTTL; a
// negative ttl disables expiry entirely.
func NewSessions(ttl time.Duration, now func() time.Time) *Sessions {
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Sessions{m: map[string]*Session{}, ttl: ttl, now: now}
}

// Get returns the user's live session, expiring it first if it idled past
// the TTL. A nil return means no dialogue is in progress.
func (s *Sessions) Get(userID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[userID]
	if !ok {
		return nil
	}
	if s.ttl > 0 && s.now().Sub(sess.touched) > s.ttl {
		delete(s.m, userID)
		return nil
	}
	sess.touched = s.now()
	return sess
}

// Start replaces any existing session with a fresh one, silently
// discarding partial input from an abandoned dialogue.
func (s *Sessions) Start(userID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &Session{touched: s.now()}
	s.m[userID] = sess
	return sess
}

func (s *Sessions) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
}
